package errortypes

import (
	"fmt"
	"testing"

	"github.com/juju/errors"
)

func TestNewErrFilePosf(t *testing.T) {
	err := NewErrFilePosf("a.qn", 3, 7, "unexpected %q", "}")
	pos := ToErrFilePos(err)
	if pos == nil {
		t.Fatal("ToErrFilePos returned nil for a positional error")
	}
	if pos.File() != "a.qn" || pos.Line() != 3 || pos.Col() != 7 {
		t.Errorf("position = %s:%d:%d, want a.qn:3:7", pos.File(), pos.Line(), pos.Col())
	}
	if got, want := err.Error(), `unexpected "}"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestToErrFilePosUnwraps(t *testing.T) {
	cause := NewErrFilePosf("b.qn", 1, 1, "bad token")
	wrapped := errors.Annotatef(cause, "compiling b.qn")
	pos := ToErrFilePos(wrapped)
	if pos == nil || pos.File() != "b.qn" {
		t.Fatalf("ToErrFilePos(wrapped) = %v, want the b.qn cause", pos)
	}
	if !IsErrFilePos(wrapped) {
		t.Error("IsErrFilePos should see through juju annotations")
	}
}

func TestPlainErrors(t *testing.T) {
	if IsErrFilePos(nil) {
		t.Error("nil is not a positional error")
	}
	if IsErrFilePos(fmt.Errorf("boom")) {
		t.Error("a plain error is not positional")
	}
	if ToErrFilePos(fmt.Errorf("boom")) != nil {
		t.Error("ToErrFilePos of a plain error should be nil")
	}
}
