package parse

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/korawend/queuen/ast"
	"github.com/korawend/queuen/errortypes"
	"github.com/korawend/queuen/lex"
)

// Error is a syntax error with the source extent that provoked it. Redux
// distinguishes multi-span "irreducible" errors, whose highlights are
// rendered individually, from single-span errors rendered as one underline.
type Error struct {
	Msg       string
	Highlight []ast.Node
	Redux     bool
	Filename  string // set by hosts parsing named files
}

var _ errortypes.ErrFilePos = &Error{}

// Error returns the bare message; position is carried by the File, Line
// and Col methods, and Render draws the full diagnostic.
func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) File() string {
	return e.Filename
}

func (e *Error) Line() int {
	first, _ := e.span()
	return first.Line
}

func (e *Error) Col() int {
	first, _ := e.span()
	return first.Col
}

func (e *Error) span() (lex.Token, lex.Token) {
	if len(e.Highlight) == 0 {
		return lex.Token{}, lex.Token{}
	}
	first, _ := e.Highlight[0].Span()
	_, last := e.Highlight[len(e.Highlight)-1].Span()
	return first, last
}

// Rendering --------------------------------------------------------------

const (
	colorError = "\x1B[38;5;203m"
	colorReset = "\x1B[39m"
)

// palette rotates over the highlight blocks of a redux error.
var palette = []string{
	"\x1B[38;5;214m",
	"\x1B[38;5;105m",
	"\x1B[38;5;45m",
	"\x1B[38;5;42m",
}

const sourceIndent = "    "

// Render draws the diagnostic against the source log the tokens were read
// from: a header naming the line and message, the offending source line,
// and either a caret-and-tilde underline (single span) or the highlight
// blocks colored in a rotating palette (redux). With colorize false all
// escape sequences are omitted.
func (e *Error) Render(log string, colorize bool) string {
	var b strings.Builder
	first, last := e.span()

	var paint = func(color, s string) {
		if colorize && s != "" {
			b.WriteString(color)
			b.WriteString(s)
			b.WriteString(colorReset)
		} else {
			b.WriteString(s)
		}
	}

	paint(colorError, fmt.Sprintf("[line %d] %s", first.Line, e.Msg))
	b.WriteByte('\n')

	src, ok := sourceLine(log, first.Line)
	if !ok {
		return b.String()
	}

	if e.Redux {
		b.WriteString(sourceIndent)
		var col = 1
		var block = 0
		for _, h := range e.Highlight {
			hFirst, hLast := h.Span()
			if hFirst.Line != first.Line {
				break
			}
			start, end := hFirst.Col, hLast.Col+runeLen(hLast.Text)
			if start > col {
				b.WriteString(sliceColumns(src, col, start))
			}
			paint(palette[block%len(palette)], sliceColumns(src, start, end))
			block++
			col = end
		}
		b.WriteString(sliceColumns(src, col, runeLen(src)+1))
		b.WriteByte('\n')
		return b.String()
	}

	b.WriteString(sourceIndent)
	b.WriteString(src)
	b.WriteByte('\n')

	endCol := last.Col + runeLen(lastLineOf(last.Text))
	if last.Line != first.Line || endCol <= first.Col {
		endCol = first.Col + 1
	}
	b.WriteString(sourceIndent)
	b.WriteString(strings.Repeat(" ", first.Col-1))
	paint(colorError, "^"+strings.Repeat("~", endCol-first.Col-1))
	b.WriteByte('\n')
	return b.String()
}

// sourceLine extracts the n'th (1-based) line of the source log.
func sourceLine(log string, n int) (string, bool) {
	lines := strings.Split(log, "\n")
	if n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}

// sliceColumns returns the runes of s in the half-open column range
// [from, to), columns being 1-based.
func sliceColumns(s string, from, to int) string {
	if from >= to {
		return ""
	}
	var b strings.Builder
	var col = 1
	for _, r := range s {
		if col >= to {
			break
		}
		if col >= from {
			b.WriteRune(r)
		}
		col++
	}
	return b.String()
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// lastLineOf returns the part of s after its final newline; token text only
// spans lines for string literals that contain a newline.
func lastLineOf(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
