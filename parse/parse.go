// Package parse converts one statement of queuen source at a time into its
// in-memory representation (AST).
//
// Parsing proceeds by reduction over the statement's token list: first
// parenthesized groups, then bracketed queue literals, then the operator
// table in precedence order, and finally the statement shapes. Anything
// left over is reported with its source extent highlighted.
package parse

import (
	"github.com/korawend/queuen/ast"
	"github.com/korawend/queuen/lex"
)

// outputKeywords are the words that may begin an output statement.
var outputKeywords = map[string]bool{
	"print":     true,
	"printNum":  true,
	"printStr":  true,
	"printRepr": true,
}

// opLevel is one row of the operator table.
type opLevel struct {
	op     string
	prefix bool // prefix operators are right-associative, binary ones left
	kind   ast.Kind
}

// opLevels lists the operators in decreasing precedence.
var opLevels = []opLevel{
	{"$", true, ast.Factory},
	{"_", true, ast.Flatten},
	{"~", false, ast.Zip},
	{"*", false, ast.Star},
	{"+", false, ast.Concat},
}

// Line reads one statement's tokens from the stream — up to a newline or
// the end of the stream — and parses them. A blank line yields (nil, nil).
// Errors from the stream (including refill errors) propagate; syntax errors
// are returned as a *Error.
func Line(stream *lex.TokenStream) (ast.Node, error) {
	var items []ast.Node
	for {
		tok, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			break
		}
		if tok.Class == lex.Newline {
			if len(items) == 0 {
				return nil, nil
			}
			break
		}
		items = append(items, *tok)
	}
	if len(items) == 0 {
		return nil, nil
	}
	node, perr := parseItems(items, true)
	if perr != nil {
		return nil, perr
	}
	return node, nil
}

// All tokenizes the buffer to completion and parses every statement in it.
// The first syntax error stops the parse.
func All(buf *lex.TokenBuffer) ([]ast.Node, error) {
	if err := buf.Complete(); err != nil {
		return nil, err
	}
	n, err := buf.Len()
	if err != nil {
		return nil, err
	}
	var stmts []ast.Node
	var items []ast.Node
	flush := func() error {
		if len(items) == 0 {
			return nil
		}
		node, perr := parseItems(items, true)
		items = nil
		if perr != nil {
			return perr
		}
		stmts = append(stmts, node)
		return nil
	}
	for i := 0; i < n; i++ {
		tok, err := buf.Get(i)
		if err != nil {
			return stmts, err
		}
		if tok.Class == lex.Newline {
			if err := flush(); err != nil {
				return stmts, err
			}
			continue
		}
		items = append(items, *tok)
	}
	if err := flush(); err != nil {
		return stmts, err
	}
	return stmts, nil
}

// parseItems reduces a statement's items to a single node. statement
// enables the statement shapes; nested parses (parenthesized and bracketed
// sub-expressions) disable them.
func parseItems(items []ast.Node, statement bool) (ast.Node, *Error) {
	items, perr := reduceParens(items)
	if perr != nil {
		return nil, perr
	}
	items, perr = reduceBrackets(items)
	if perr != nil {
		return nil, perr
	}
	if perr = rejectBraces(items); perr != nil {
		return nil, perr
	}
	items, perr = reduceOperators(items)
	if perr != nil {
		return nil, perr
	}

	if statement {
		return shapeStatement(items)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return nil, &Error{Msg: "irreducible expression", Highlight: items, Redux: true}
}

// reduceParens repeatedly substitutes the leftmost parenthesized group with
// its parsed interior.
func reduceParens(items []ast.Node) ([]ast.Node, *Error) {
	for {
		open := indexDelim(items, "(", 0)
		if open < 0 {
			if c := indexDelim(items, ")", 0); c >= 0 {
				return nil, &Error{Msg: "missing left parenthesis", Highlight: items[c : c+1]}
			}
			return items, nil
		}
		var depth = 1
		var closeIdx = -1
		for j := open + 1; j < len(items); j++ {
			switch {
			case isDelim(items[j], "("):
				depth++
			case isDelim(items[j], ")"):
				depth--
				if depth == 0 {
					closeIdx = j
				}
			}
			if closeIdx >= 0 {
				break
			}
		}
		if closeIdx < 0 {
			return nil, &Error{Msg: "missing right parenthesis", Highlight: items[open : open+1]}
		}
		if closeIdx == open+1 {
			return nil, &Error{Msg: "nothing to parse inside parentheses", Highlight: []ast.Node{items[open], items[closeIdx]}}
		}
		sub, perr := parseItems(items[open+1:closeIdx], false)
		if perr != nil {
			return nil, perr
		}
		items = splice(items, open, closeIdx+1, sub)
	}
}

// reduceBrackets repeatedly substitutes the leftmost bracketed group with a
// literal tree over its comma-separated elements.
func reduceBrackets(items []ast.Node) ([]ast.Node, *Error) {
	for {
		open := indexDelim(items, "[", 0)
		if open < 0 {
			if c := indexDelim(items, "]", 0); c >= 0 {
				return nil, &Error{Msg: "missing left bracket", Highlight: items[c : c+1]}
			}
			return items, nil
		}
		var depth = 1
		var closeIdx = -1
		for j := open + 1; j < len(items); j++ {
			switch {
			case isDelim(items[j], "["):
				depth++
			case isDelim(items[j], "]"):
				depth--
				if depth == 0 {
					closeIdx = j
				}
			}
			if closeIdx >= 0 {
				break
			}
		}
		if closeIdx < 0 {
			return nil, &Error{Msg: "missing right bracket", Highlight: items[open : open+1]}
		}

		interior := items[open+1 : closeIdx]
		tree := &ast.Tree{Kind: ast.Literal}
		if len(interior) > 0 {
			segments, perr := splitElements(interior)
			if perr != nil {
				return nil, perr
			}
			for _, seg := range segments {
				elem, perr := parseItems(seg, false)
				if perr != nil {
					return nil, perr
				}
				tree.Children = append(tree.Children, elem)
			}
		}
		openTok, _ := items[open].Span()
		closeTok, _ := items[closeIdx].Span()
		tree.SetBounds(openTok, closeTok)
		items = splice(items, open, closeIdx+1, tree)
	}
}

// splitElements splits a bracket interior at its top-level commas. An empty
// element is an extraneous delimiter.
func splitElements(interior []ast.Node) ([][]ast.Node, *Error) {
	var segments [][]ast.Node
	var depth, start = 0, 0
	for i, it := range interior {
		switch {
		case isDelim(it, "["):
			depth++
		case isDelim(it, "]"):
			depth--
		case depth == 0 && isSep(it, ","):
			segments = append(segments, interior[start:i])
			start = i + 1
		}
	}
	segments = append(segments, interior[start:])
	for _, seg := range segments {
		if len(seg) == 0 {
			return nil, &Error{Msg: "extraneous delimiter", Highlight: interior, Redux: false}
		}
	}
	return segments, nil
}

// rejectBraces reports any brace remaining after the bracket passes.
func rejectBraces(items []ast.Node) *Error {
	for i, it := range items {
		if isDelim(it, "{") || isDelim(it, "}") {
			return &Error{Msg: "illegal delimiter", Highlight: items[i : i+1]}
		}
	}
	return nil
}

// reduceOperators folds the operator table, one precedence level at a time.
func reduceOperators(items []ast.Node) ([]ast.Node, *Error) {
	for _, level := range opLevels {
		var perr *Error
		if level.prefix {
			items, perr = foldPrefix(items, level)
		} else {
			items, perr = foldBinary(items, level)
		}
		if perr != nil {
			return nil, perr
		}
	}
	return items, nil
}

// foldPrefix folds a right-associative prefix operator, scanning right to
// left so that inner applications bind first.
func foldPrefix(items []ast.Node, level opLevel) ([]ast.Node, *Error) {
	for i := len(items) - 1; i >= 0; i-- {
		if !isOp(items[i], level.op) {
			continue
		}
		if i+1 >= len(items) {
			return nil, &Error{Msg: "missing operand", Highlight: items[i : i+1]}
		}
		operand := items[i+1]
		if !validOperand(operand) {
			return nil, &Error{Msg: "invalid operand", Highlight: items[i+1 : i+2]}
		}
		tree := ast.NewTree(level.kind, operand)
		opTok, _ := items[i].Span()
		_, last := operand.Span()
		tree.SetBounds(opTok, last)
		items = splice(items, i, i+2, tree)
	}
	return items, nil
}

// foldBinary folds a left-associative binary operator, scanning left to
// right.
func foldBinary(items []ast.Node, level opLevel) ([]ast.Node, *Error) {
	for i := 0; i < len(items); i++ {
		if !isOp(items[i], level.op) {
			continue
		}
		if i == 0 {
			return nil, &Error{Msg: "missing left operand", Highlight: items[i : i+1]}
		}
		if i+1 >= len(items) {
			return nil, &Error{Msg: "missing right operand", Highlight: items[i : i+1]}
		}
		if !validOperand(items[i-1]) {
			return nil, &Error{Msg: "invalid left operand", Highlight: items[i-1 : i]}
		}
		if !validOperand(items[i+1]) {
			return nil, &Error{Msg: "invalid right operand", Highlight: items[i+1 : i+2]}
		}
		tree := ast.NewTree(level.kind, items[i-1], items[i+1])
		items = splice(items, i-1, i+2, tree)
		i--
	}
	return items, nil
}

// shapeStatement matches the residue of a reduced statement against the
// three statement shapes: a bare expression, an output statement, or an
// assignment.
func shapeStatement(items []ast.Node) (ast.Node, *Error) {
	switch len(items) {
	case 1:
		if !isOutputKeyword(items[0]) && validOperand(items[0]) {
			return items[0], nil
		}
	case 2:
		if isOutputKeyword(items[0]) && !isOutputKeyword(items[1]) && validOperand(items[1]) {
			return ast.NewTree(ast.Output, items[0], items[1]), nil
		}
	case 3:
		name, ok := items[0].(lex.Token)
		if ok && name.Class == lex.Word && isOp(items[1], ":=") && validOperand(items[2]) {
			return ast.NewTree(ast.Assignment, items[0], items[2]), nil
		}
	}
	return nil, &Error{Msg: "not a statement or reducible expression", Highlight: items, Redux: true}
}

// validOperand reports whether a node may serve as an operator operand or
// statement expression: any tree, or a token whose class carries a value.
func validOperand(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Tree:
		return true
	case lex.Token:
		switch n.Class {
		case lex.Natural, lex.String, lex.Word, lex.Keyword:
			return true
		}
	}
	return false
}

func isOutputKeyword(n ast.Node) bool {
	tok, ok := n.(lex.Token)
	return ok && (tok.Class == lex.Word || tok.Class == lex.Keyword) && outputKeywords[tok.Val]
}

func isDelim(n ast.Node, s string) bool {
	tok, ok := n.(lex.Token)
	return ok && tok.Class == lex.Delimiter && tok.Text == s
}

func isSep(n ast.Node, s string) bool {
	tok, ok := n.(lex.Token)
	return ok && tok.Class == lex.Separator && tok.Text == s
}

func isOp(n ast.Node, s string) bool {
	tok, ok := n.(lex.Token)
	return ok && tok.Class == lex.Operator && tok.Val == s
}

func indexDelim(items []ast.Node, s string, from int) int {
	for i := from; i < len(items); i++ {
		if isDelim(items[i], s) {
			return i
		}
	}
	return -1
}

// splice replaces items[from:to] with node.
func splice(items []ast.Node, from, to int, node ast.Node) []ast.Node {
	var out = make([]ast.Node, 0, len(items)-(to-from)+1)
	out = append(out, items[:from]...)
	out = append(out, node)
	out = append(out, items[to:]...)
	return out
}
