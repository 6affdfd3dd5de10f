package semantic

import (
	"strings"

	"github.com/yaklabco/encheck/pkg/syntax"
)

// LexicalModel binds names by walking scopes outward from each reference.
// It knows nothing about overload resolution, imported types or inherited
// members; references it cannot bind simply have no symbol.
type LexicalModel struct {
	tree  *syntax.Tree
	decls map[syntax.NodeID]Symbol
	refs  map[syntax.NodeID]Symbol
}

var _ Model = (*LexicalModel)(nil)

// NewLexicalModel binds every reference in the tree.
func NewLexicalModel(tree *syntax.Tree) *LexicalModel {
	m := &LexicalModel{
		tree:  tree,
		decls: make(map[syntax.NodeID]Symbol),
		refs:  make(map[syntax.NodeID]Symbol),
	}
	if tree.Len() > 0 {
		b := &binder{m: m, tree: tree}
		b.visit(tree.Root())
	}
	return m
}

// Tree implements Model.
func (m *LexicalModel) Tree() *syntax.Tree { return m.tree }

// ResolveIdentifier implements Model.
func (m *LexicalModel) ResolveIdentifier(id syntax.NodeID) (Symbol, bool) {
	sym, ok := m.refs[id]
	return sym, ok
}

// DeclaredSymbol implements Model.
func (m *LexicalModel) DeclaredSymbol(id syntax.NodeID) (Symbol, bool) {
	sym, ok := m.decls[id]
	return sym, ok
}

// InferType implements Model.
func (m *LexicalModel) InferType(id syntax.NodeID) string {
	t := m.tree
	children := t.Children(id)
	switch t.Kind(id) {
	case syntax.KindLiteral:
		return literalType(t.Token(id))
	case syntax.KindIdentifierName, syntax.KindGenericName, syntax.KindThisExpression, syntax.KindBaseExpression:
		return m.refs[id].Type
	case syntax.KindObjectCreationExpression, syntax.KindCastExpression, syntax.KindArrayCreationExpression:
		if len(children) > 0 {
			return t.Text(children[0])
		}
	case syntax.KindStackAllocExpression:
		if len(children) > 0 {
			if elem := t.Children(children[0]); len(elem) > 0 {
				return "Span<" + t.Text(elem[0]) + ">"
			}
		}
	case syntax.KindParenthesizedExpression, syntax.KindAssignmentExpression:
		if len(children) > 0 {
			return m.InferType(children[0])
		}
	case syntax.KindConditionalExpression:
		if len(children) > 1 {
			return m.InferType(children[1])
		}
	case syntax.KindPrefixUnaryExpression:
		if t.Token(id) == "!" {
			return "bool"
		}
		if len(children) > 0 {
			return m.InferType(children[0])
		}
	case syntax.KindPostfixUnaryExpression:
		if len(children) > 0 {
			return m.InferType(children[0])
		}
	case syntax.KindBinaryExpression:
		return m.binaryType(id)
	case syntax.KindInvocationExpression:
		if len(children) > 0 {
			if sym, ok := m.refs[children[0]]; ok && (sym.Kind == SymbolLocalFunction || sym.Kind == SymbolMethod) {
				return sym.Type
			}
		}
	case syntax.KindTupleExpression:
		parts := make([]string, 0, len(children))
		for _, arg := range children {
			inner := t.Children(arg)
			if len(inner) == 0 {
				return ""
			}
			typ := m.InferType(inner[len(inner)-1])
			if typ == "" {
				return ""
			}
			parts = append(parts, typ)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}

func (m *LexicalModel) binaryType(id syntax.NodeID) string {
	switch m.tree.Token(id) {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||", "is":
		return "bool"
	}
	children := m.tree.Children(id)
	if len(children) != 2 {
		return ""
	}
	left, right := m.InferType(children[0]), m.InferType(children[1])
	switch {
	case left == right:
		return left
	case left == "string" || right == "string":
		return "string"
	case numericRank[left] > 0 && numericRank[right] > 0:
		if numericRank[left] >= numericRank[right] {
			return left
		}
		return right
	default:
		return ""
	}
}

var numericRank = map[string]int{
	"int":     1,
	"long":    2,
	"float":   3,
	"double":  4,
	"decimal": 5,
}

func literalType(tok string) string {
	switch {
	case tok == "":
		return ""
	case strings.HasPrefix(tok, `"`), strings.HasPrefix(tok, `@"`), strings.HasPrefix(tok, `$"`):
		return "string"
	case strings.HasPrefix(tok, "'"):
		return "char"
	case tok == "true" || tok == "false":
		return "bool"
	case tok == "null" || tok == "default":
		return ""
	}

	lower := strings.ToLower(tok)
	switch {
	case strings.HasSuffix(lower, "m"):
		return "decimal"
	case strings.HasSuffix(lower, "f") && !strings.HasPrefix(lower, "0x"):
		return "float"
	case strings.HasSuffix(lower, "d") && !strings.HasPrefix(lower, "0x"):
		return "double"
	case strings.HasSuffix(lower, "ul") || strings.HasSuffix(lower, "lu"):
		return "ulong"
	case strings.HasSuffix(lower, "l"):
		return "long"
	case strings.HasSuffix(lower, "u"):
		return "uint"
	case strings.ContainsAny(lower, ".e") && !strings.HasPrefix(lower, "0x"):
		return "double"
	case lower[0] >= '0' && lower[0] <= '9':
		return "int"
	default:
		return ""
	}
}
