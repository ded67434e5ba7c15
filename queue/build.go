package queue

import (
	"fmt"

	"github.com/korawend/queuen/ast"
	"github.com/korawend/queuen/lex"
)

// Build translates a parse tree into its queue. The translation is total
// over the expression kinds; a node the evaluator has no case for is an
// internal invariant breach, not a user-facing diagnostic.
func Build(node ast.Node) (Queue, error) {
	switch node := node.(type) {
	case lex.Token:
		switch node.Class {
		case lex.Natural:
			return Natural(node.Nat), nil
		case lex.String:
			return String(node.Val), nil
		}
		return nil, fmt.Errorf("not implemented: no queue for %s token %q", node.Class, node.Text)

	case *ast.Tree:
		switch node.Kind {
		case ast.Literal:
			var elems = make([]Queue, len(node.Children))
			for i, c := range node.Children {
				q, err := Build(c)
				if err != nil {
					return nil, err
				}
				elems[i] = q
			}
			return Literal(elems), nil
		case ast.Concat:
			fst, snd, err := buildPair(node)
			if err != nil {
				return nil, err
			}
			return Concat(fst, snd), nil
		case ast.Factory:
			q, err := Build(node.Children[0])
			if err != nil {
				return nil, err
			}
			return SafeFactory(q), nil
		case ast.Zip:
			fst, snd, err := buildPair(node)
			if err != nil {
				return nil, err
			}
			return Zip(fst, snd), nil
		case ast.Flatten:
			q, err := Build(node.Children[0])
			if err != nil {
				return nil, err
			}
			return Flatten(q), nil
		case ast.Star:
			a, b, err := buildPair(node)
			if err != nil {
				return nil, err
			}
			return Star(a, b), nil
		}
		return nil, fmt.Errorf("not implemented: %s", node.Kind)
	}
	return nil, fmt.Errorf("not implemented: %T", node)
}

func buildPair(node *ast.Tree) (Queue, Queue, error) {
	fst, err := Build(node.Children[0])
	if err != nil {
		return nil, nil, err
	}
	snd, err := Build(node.Children[1])
	if err != nil {
		return nil, nil, err
	}
	return fst, snd, nil
}
