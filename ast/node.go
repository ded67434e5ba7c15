// Package ast contains the in-memory representation of a parsed queuen
// statement: a tagged tree whose leaves are tokens.
package ast

import (
	"fmt"
	"strings"

	"github.com/korawend/queuen/lex"
)

// Node is any piece of a parsed statement: a *Tree, or a lex.Token leaf.
type Node interface {
	String() string               // String returns the queuen source representation of this node.
	Span() (lex.Token, lex.Token) // first and last source token covered by the node
}

// Kind tags a Tree with the operation it denotes.
type Kind int

const (
	Literal Kind = iota
	Factory
	Flatten
	Zip
	Star
	Concat
	Output
	Assignment
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Factory:
		return "factory"
	case Flatten:
		return "flatten"
	case Zip:
		return "zip"
	case Star:
		return "star"
	case Concat:
		return "concat"
	case Output:
		return "output"
	case Assignment:
		return "assignment"
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Tree is a tagged parse tree node with ordered children.
type Tree struct {
	Kind     Kind
	Children []Node

	bounds    [2]lex.Token
	hasBounds bool
}

// NewTree returns a tree of the given kind over children.
func NewTree(kind Kind, children ...Node) *Tree {
	return &Tree{Kind: kind, Children: children}
}

// SetBounds records the delimiting tokens of a node whose children do not
// cover its full source extent, such as a bracketed literal.
func (t *Tree) SetBounds(first, last lex.Token) {
	t.bounds = [2]lex.Token{first, last}
	t.hasBounds = true
}

// Span returns the first and last source tokens the tree covers.
func (t *Tree) Span() (lex.Token, lex.Token) {
	if t.hasBounds {
		return t.bounds[0], t.bounds[1]
	}
	if len(t.Children) == 0 {
		return lex.Token{}, lex.Token{}
	}
	first, _ := t.Children[0].Span()
	_, last := t.Children[len(t.Children)-1].Span()
	return first, last
}

// String renders the tree back to parseable source. Operator subtrees are
// parenthesized, which keeps the rendering unambiguous regardless of
// precedence.
func (t *Tree) String() string {
	switch t.Kind {
	case Literal:
		var elems = make([]string, len(t.Children))
		for i, c := range t.Children {
			elems[i] = c.String()
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case Factory:
		return "$" + wrap(t.Children[0])
	case Flatten:
		return "_" + wrap(t.Children[0])
	case Zip:
		return wrap(t.Children[0]) + " ~ " + wrap(t.Children[1])
	case Star:
		return wrap(t.Children[0]) + " * " + wrap(t.Children[1])
	case Concat:
		return wrap(t.Children[0]) + " + " + wrap(t.Children[1])
	case Output:
		return t.Children[0].String() + " " + t.Children[1].String()
	case Assignment:
		return t.Children[0].String() + " := " + t.Children[1].String()
	}
	return fmt.Sprintf("<%s>", t.Kind)
}

// wrap parenthesizes operator subtrees; tokens and bracketed literals are
// already unambiguous.
func wrap(n Node) string {
	if t, ok := n.(*Tree); ok && t.Kind != Literal {
		return "(" + t.String() + ")"
	}
	return n.String()
}

// Equal reports whether two nodes are structurally equal: equal kinds and
// child lists for trees, Token.Equal for leaves. Source positions are
// ignored.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case lex.Token:
		if b, ok := b.(lex.Token); ok {
			return a.Equal(b)
		}
	case *Tree:
		b, ok := b.(*Tree)
		if !ok || a.Kind != b.Kind || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !Equal(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

var (
	_ Node = &Tree{}
	_ Node = lex.Token{}
)
