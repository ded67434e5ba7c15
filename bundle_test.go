package queuen

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andreyvit/diff"

	"github.com/korawend/queuen/errortypes"
)

func TestCompileAndRun(t *testing.T) {
	registry, err := NewBundle().
		AddScriptString("a.qn", "printNum 3\nprintNum [1] + [2]\n").
		AddScriptString("b.qn", "printRepr []\n").
		Compile()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := registry.RunAll(&out, 0); err != nil {
		t.Fatal(err)
	}
	want := "3\n2\nε\n"
	if got := out.String(); got != want {
		t.Errorf("output mismatch:\n%s", diff.LineDiff(want, got))
	}
}

func TestScriptLookup(t *testing.T) {
	registry, err := NewBundle().
		AddScriptString("a.qn", "printNum 1\n").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	s, ok := registry.Script("a.qn")
	if !ok || s.Name != "a.qn" || len(s.Statements) != 1 {
		t.Fatalf("Script(a.qn) = %+v, %v", s, ok)
	}
	if _, ok := registry.Script("missing.qn"); ok {
		t.Error("lookup of an unregistered script should fail")
	}
}

func TestDuplicateScriptName(t *testing.T) {
	_, err := NewBundle().
		AddScriptString("a.qn", "1\n").
		AddScriptString("a.qn", "2\n").
		Compile()
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("got %v, want a duplicate-name error", err)
	}
}

func TestCompileErrorCarriesFilename(t *testing.T) {
	_, err := NewBundle().
		AddScriptString("bad.qn", "(\n").
		Compile()
	if err == nil {
		t.Fatal("compile of a broken script should fail")
	}
	pos := errortypes.ToErrFilePos(err)
	if pos == nil {
		t.Fatalf("error %v should carry a file position", err)
	}
	if pos.File() != "bad.qn" || pos.Line() != 1 {
		t.Errorf("position = %s:%d, want bad.qn:1", pos.File(), pos.Line())
	}
}

func TestAddScriptFileMissing(t *testing.T) {
	_, err := NewBundle().AddScriptFile("does-not-exist.qn").Compile()
	if err == nil || !strings.Contains(err.Error(), "does-not-exist.qn") {
		t.Fatalf("got %v, want an annotated read error", err)
	}
}

func TestAddScriptDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.qn"), "printNum 1\n")
	writeFile(t, filepath.Join(dir, "two.qn"), "printNum 2\n")
	writeFile(t, filepath.Join(dir, "ignored.txt"), "not a script")

	registry, err := NewBundle().AddScriptDir(dir).Compile()
	if err != nil {
		t.Fatal(err)
	}
	if len(registry.Scripts) != 2 {
		t.Fatalf("compiled %d scripts, want 2", len(registry.Scripts))
	}
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.qn")
	writeFile(t, path, "printNum 3\n")

	updated := make(chan *Registry, 1)
	registry, err := NewBundle().
		WatchFiles(true).
		OnUpdate(func(reg *Registry) {
			select {
			case updated <- reg:
			default:
			}
		}).
		AddScriptFile(path).
		Compile()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := registry.RunAll(&out, 0); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "3\n" {
		t.Fatalf("initial run = %q, want %q", got, "3\n")
	}

	writeFile(t, path, "printNum 4\n")

	select {
	case reg := <-updated:
		out.Reset()
		if err := reg.RunAll(&out, 0); err != nil {
			t.Fatal(err)
		}
		if got := out.String(); got != "4\n" {
			t.Errorf("recompiled run = %q, want %q", got, "4\n")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no recompile within 5s of the file changing")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := ioutil.WriteFile(path, []byte(content), os.FileMode(0644)); err != nil {
		t.Fatal(err)
	}
}
