package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/encheck/pkg/syntax"
)

type converter struct {
	source []byte
	b      *syntax.Builder
}

func (c *converter) span(n *sitter.Node) syntax.Span {
	start, end := n.StartPoint(), n.EndPoint()
	return syntax.Span{
		Start:       int(n.StartByte()),
		End:         int(n.EndByte()),
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column) + 1,
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.source)
}

// convert returns the nodes n maps to: none for trivia, the children of
// flattened wrappers, one node otherwise.
func (c *converter) convert(n *sitter.Node) []syntax.NodeID {
	if n == nil || !n.IsNamed() {
		return nil
	}
	typ := n.Type()
	if skipped[typ] || strings.HasPrefix(typ, "preproc") {
		return nil
	}
	if flattened[typ] {
		return c.children(n, nil)
	}

	switch typ {
	case "if_statement":
		return c.one(c.ifStatement(n))
	case "yield_statement":
		return c.one(c.yieldStatement(n))
	case "switch_section":
		return c.one(c.switchSection(n))
	case "type_parameter_constraint":
		if n.NamedChildCount() > 0 {
			return c.children(n, nil)
		}
		return c.one(c.b.Add(syntax.KindOther, collapse(c.text(n)), c.span(n)))
	}

	kind := kindOf(typ)
	if leaves[kind] {
		token := collapse(c.text(n))
		if kind == syntax.KindLiteral {
			token = c.text(n)
		}
		return c.one(c.b.Add(kind, token, c.span(n)))
	}

	token, nameNode := c.token(n, kind)
	children := c.children(n, func(i int, child *sitter.Node) ([]syntax.NodeID, bool) {
		if nameNode != nil && sameNode(child, nameNode) {
			return nil, true
		}
		if kind == syntax.KindLambdaExpression && isImplicitParameter(n, i, child) {
			return c.one(c.b.Add(syntax.KindParameter, c.text(child), c.span(child))), true
		}
		return nil, false
	})
	return c.one(c.b.Add(kind, token, c.span(n), children...))
}

func (c *converter) one(id syntax.NodeID) []syntax.NodeID {
	return []syntax.NodeID{id}
}

// override lets a caller replace the conversion of the i-th child. It
// reports whether it handled the child.
type override func(i int, child *sitter.Node) ([]syntax.NodeID, bool)

func (c *converter) children(n *sitter.Node, hook override) []syntax.NodeID {
	var out []syntax.NodeID
	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if hook != nil {
			if ids, ok := hook(i, child); ok {
				out = append(out, ids...)
				continue
			}
		}
		out = append(out, c.convert(child)...)
	}
	return out
}

// token picks the token of a composite node and the child it was read
// from, which is then left out of the children.
func (c *converter) token(n *sitter.Node, kind syntax.Kind) (string, *sitter.Node) {
	switch {
	case named[kind]:
		name := n.ChildByFieldName("name")
		if name == nil && kind == syntax.KindGenericName {
			name = firstNamedOfType(n, "identifier")
		}
		if name == nil && kind == syntax.KindAccessorDeclaration {
			return keyword(n, "get", "set", "init", "add", "remove")
		}
		if name == nil {
			return "", nil
		}
		return collapse(c.text(name)), name
	case operators[kind]:
		return c.operator(n)
	}

	switch kind {
	case syntax.KindForEachStatement:
		if left := n.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			return c.text(left), left
		}
		return "", nil
	case syntax.KindLabeledStatement:
		if label := firstNamedOfType(n, "identifier"); label != nil {
			return c.text(label), label
		}
		return "", nil
	case syntax.KindTypeParameterConstraintsClause:
		target := n.ChildByFieldName("target")
		if target == nil {
			target = firstNamedOfType(n, "identifier")
		}
		if target == nil {
			return "", nil
		}
		return c.text(target), target
	case syntax.KindFromClause, syntax.KindLetClause, syntax.KindJoinClause:
		if ident := identBefore(n, "in", "="); ident != nil {
			return c.text(ident), ident
		}
		return "", nil
	case syntax.KindConstructorInitializer:
		return keyword(n, "this", "base")
	case syntax.KindCheckedStatement:
		return keyword(n, "checked", "unchecked")
	case syntax.KindOther:
		return "", nil
	}
	return keywords[kind], nil
}

// operator returns the operator of an assignment, binary or unary
// expression.
func (c *converter) operator(n *sitter.Node) (string, *sitter.Node) {
	if op := n.ChildByFieldName("operator"); op != nil {
		if op.IsNamed() {
			return c.text(op), op
		}
		return c.text(op), nil
	}
	if op := firstNamedOfType(n, "assignment_operator"); op != nil {
		return c.text(op), op
	}
	for i := range int(n.ChildCount()) {
		if child := n.Child(i); child != nil && !child.IsNamed() && child.Type() != "(" && child.Type() != ")" {
			return c.text(child), nil
		}
	}
	return "", nil
}

// ifStatement wraps the alternative branch in an else clause.
func (c *converter) ifStatement(n *sitter.Node) syntax.NodeID {
	children := c.children(n, func(i int, child *sitter.Node) ([]syntax.NodeID, bool) {
		if n.FieldNameForChild(i) != "alternative" {
			return nil, false
		}
		branch := c.convert(child)
		return c.one(c.b.Add(syntax.KindElseClause, "else", c.span(child), branch...)), true
	})
	return c.b.Add(syntax.KindIfStatement, "if", c.span(n), children...)
}

func (c *converter) yieldStatement(n *sitter.Node) syntax.NodeID {
	kind := syntax.KindYieldReturnStatement
	if tok, _ := keyword(n, "break"); tok != "" {
		kind = syntax.KindYieldBreakStatement
	}
	return c.b.Add(kind, "yield", c.span(n), c.children(n, nil)...)
}

// switchSection produces labels followed by statements. Grammar versions
// that spell labels inline (`case`, pattern, `when`, `:`) are folded into
// label nodes.
func (c *converter) switchSection(n *sitter.Node) syntax.NodeID {
	var (
		out     []syntax.NodeID
		pending []syntax.NodeID
		open    *sitter.Node
	)
	closeLabel := func(end *sitter.Node) {
		if open == nil {
			return
		}
		span := c.span(open)
		last := c.span(end)
		span.End, span.EndLine, span.EndColumn = last.End, last.EndLine, last.EndColumn
		out = append(out, c.b.Add(syntax.KindCaseSwitchLabel, "case", span, pending...))
		open, pending = nil, nil
	}

	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch {
		case !child.IsNamed() && child.Type() == "case":
			open = child
		case !child.IsNamed() && child.Type() == "default":
			out = append(out, c.b.Add(syntax.KindDefaultSwitchLabel, "default", c.span(child)))
		case !child.IsNamed() && child.Type() == ":":
			closeLabel(child)
		case open != nil:
			pending = append(pending, c.convert(child)...)
		default:
			out = append(out, c.convert(child)...)
		}
	}
	return c.b.Add(syntax.KindSwitchSection, "", c.span(n), out...)
}

// isImplicitParameter reports whether the child is the bare parameter of
// `x => ...`.
func isImplicitParameter(lambda *sitter.Node, i int, child *sitter.Node) bool {
	switch child.Type() {
	case "implicit_parameter":
		return true
	case "identifier":
		return lambda.FieldNameForChild(i) == "parameters"
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	return a.Type() == b.Type() && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

func firstNamedOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := range int(n.NamedChildCount()) {
		if child := n.NamedChild(i); child != nil && child.Type() == typ {
			return child
		}
	}
	return nil
}

// identBefore returns the identifier directly followed by one of the given
// anonymous tokens, as in `from x in xs` or `let y = e`.
func identBefore(n *sitter.Node, tokens ...string) *sitter.Node {
	count := int(n.ChildCount())
	for i := 0; i+1 < count; i++ {
		child, next := n.Child(i), n.Child(i+1)
		if child == nil || next == nil || child.Type() != "identifier" || next.IsNamed() {
			continue
		}
		for _, tok := range tokens {
			if next.Type() == tok {
				return child
			}
		}
	}
	return nil
}

// keyword returns the first child whose type is one of the given keywords.
// Some grammar versions expose `this` and `base` as named nodes; those are
// returned so the caller can leave them out.
func keyword(n *sitter.Node, keywords ...string) (string, *sitter.Node) {
	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if child == nil {
			continue
		}
		for _, kw := range keywords {
			if child.Type() != kw {
				continue
			}
			if child.IsNamed() {
				return kw, child
			}
			return kw, nil
		}
	}
	return "", nil
}
