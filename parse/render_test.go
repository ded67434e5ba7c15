package parse

import (
	"errors"
	"testing"

	"github.com/andreyvit/diff"

	"github.com/korawend/queuen/lex"
)

// renderError parses a failing input and renders its diagnostic.
func renderError(t *testing.T, input string, colorize bool) string {
	t.Helper()
	var stream = lex.NewTokenStream(input+"\n", nil)
	_, err := Line(stream)
	if err == nil {
		t.Fatalf("parse of %q succeeded, expected an error", input)
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	return perr.Render(stream.Log(), colorize)
}

func TestRenderSingleSpan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"caret under lone paren", "(",
			"[line 1] missing right parenthesis\n" +
				"    (\n" +
				"    ^\n"},
		{"caret offset into line", "2 + + 3",
			"[line 1] invalid right operand\n" +
				"    2 + + 3\n" +
				"        ^\n"},
		{"underline spans the parens", "3 + ()",
			"[line 1] nothing to parse inside parentheses\n" +
				"    3 + ()\n" +
				"        ^~\n"},
		{"underline spans the interior", "[1,,3]",
			"[line 1] extraneous delimiter\n" +
				"    [1,,3]\n" +
				"     ^~~~\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := renderError(t, test.input, false)
			if got != test.want {
				t.Errorf("render mismatch:\n%s", diff.LineDiff(test.want, got))
			}
		})
	}
}

func TestRenderSecondLine(t *testing.T) {
	var stream = lex.NewTokenStream("1\n2 +\n", nil)
	if _, err := Line(stream); err != nil {
		t.Fatal(err)
	}
	_, err := Line(stream)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	want := "[line 2] missing right operand\n" +
		"    2 +\n" +
		"      ^\n"
	if got := perr.Render(stream.Log(), false); got != want {
		t.Errorf("render mismatch:\n%s", diff.LineDiff(want, got))
	}
}

func TestRenderRedux(t *testing.T) {
	got := renderError(t, "3 4", true)
	want := "\x1B[38;5;203m[line 1] not a statement or reducible expression\x1B[39m\n" +
		"    \x1B[38;5;214m3\x1B[39m \x1B[38;5;105m4\x1B[39m\n"
	if got != want {
		t.Errorf("render mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRenderReduxNoColor(t *testing.T) {
	got := renderError(t, "3 4", false)
	want := "[line 1] not a statement or reducible expression\n" +
		"    3 4\n"
	if got != want {
		t.Errorf("render mismatch:\n%s", diff.LineDiff(want, got))
	}
}

func TestRenderColorHeader(t *testing.T) {
	got := renderError(t, "(", true)
	want := "\x1B[38;5;203m[line 1] missing right parenthesis\x1B[39m\n" +
		"    (\n" +
		"    \x1B[38;5;203m^\x1B[39m\n"
	if got != want {
		t.Errorf("render mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}
