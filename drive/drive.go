// Package drive consumes queues on behalf of a host: it bounds them with a
// probe, renders them in one of four print modes, and reports truncation.
package drive

import (
	"fmt"
	"io"
	"strings"

	"github.com/korawend/queuen/ast"
	"github.com/korawend/queuen/lex"
	"github.com/korawend/queuen/queue"
)

// Limit is the default probe bound: the most elements drawn from a queue
// before output is truncated.
const Limit = 1024

// Mode selects how a queue is rendered.
type Mode int

const (
	Smart Mode = iota // choose between count, string and repr by shape
	Num               // the element count
	Str               // one character per element, code point = element length
	Repr              // nested bracket rendering
)

// ModeFor maps an output keyword to its print mode.
func ModeFor(keyword string) (Mode, bool) {
	switch keyword {
	case "print":
		return Smart, true
	case "printNum":
		return Num, true
	case "printStr":
		return Str, true
	case "printRepr":
		return Repr, true
	}
	return Smart, false
}

// List is the finite listification of a queue: each element listified in
// turn. Listifying an infinite queue does not terminate; bound it first.
type List []List

// Listify drains q into a List.
func Listify(q queue.Queue) List {
	var out = List{}
	for {
		elem, ok := q.Next()
		if !ok {
			return out
		}
		out = append(out, Listify(elem))
	}
}

// String renders the list in stirfry form: ε for the empty list, brackets
// over the rendered elements otherwise.
func (l List) String() string {
	if len(l) == 0 {
		return "ε"
	}
	var elems = make([]string, len(l))
	for i, e := range l {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// Run evaluates one parsed statement against w: it unwraps an output
// statement to its keyword's mode, builds the queue, and prints it bounded
// by limit.
func Run(w io.Writer, node ast.Node, limit int) error {
	var mode = Smart
	if tree, ok := node.(*ast.Tree); ok && tree.Kind == ast.Output {
		if kw, ok := tree.Children[0].(lex.Token); ok {
			if m, known := ModeFor(kw.Val); known {
				mode = m
			}
		}
		node = tree.Children[1]
	}
	q, err := queue.Build(node)
	if err != nil {
		return err
	}
	return Print(w, q, mode, limit)
}

// Print renders q to w in the given mode, drawing at most limit elements.
// A truncation warning follows the output when q had more than limit
// elements.
func Print(w io.Writer, q queue.Queue, mode Mode, limit int) error {
	var probe = queue.NewTake(q, limit)
	var err error
	switch mode {
	case Num:
		err = printNum(w, probe)
	case Str:
		err = printStr(w, probe)
	case Repr:
		err = printRepr(w, probe)
	default:
		err = smartPrint(w, probe)
	}
	if err != nil {
		return err
	}
	if probe.Halted() {
		_, err = fmt.Fprintf(w, "(output truncated after %d elements)\n", limit)
	}
	return err
}

func printNum(w io.Writer, q queue.Queue) error {
	var n int
	for {
		if _, ok := q.Next(); !ok {
			break
		}
		n++
	}
	_, err := fmt.Fprintf(w, "%d\n", n)
	return err
}

func printStr(w io.Writer, q queue.Queue) error {
	var b strings.Builder
	for {
		elem, ok := q.Next()
		if !ok {
			break
		}
		b.WriteRune(rune(drain(elem)))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func printRepr(w io.Writer, q queue.Queue) error {
	_, err := fmt.Fprintln(w, Listify(q))
	return err
}

// smartPrint picks the densest faithful rendering: a count when every
// element is empty, a character string when every element is a flat run of
// empties, and the full repr otherwise.
func smartPrint(w io.Writer, q queue.Queue) error {
	var l = Listify(q)

	var allEmpty = true
	for _, e := range l {
		if len(e) > 0 {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		_, err := fmt.Fprintf(w, "%d\n", len(l))
		return err
	}

	var flat = true
	for _, e := range l {
		if len(e) == 0 {
			flat = false
			break
		}
		for _, inner := range e {
			if len(inner) > 0 {
				flat = false
				break
			}
		}
		if !flat {
			break
		}
	}
	if flat {
		var b strings.Builder
		for _, e := range l {
			b.WriteRune(rune(len(e)))
		}
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	}

	_, err := fmt.Fprintln(w, l)
	return err
}

// drain consumes q and returns how many elements it produced.
func drain(q queue.Queue) int {
	var n int
	for {
		if _, ok := q.Next(); !ok {
			return n
		}
		n++
	}
}
