package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
	st "github.com/yaklabco/encheck/pkg/syntax/syntaxtest"
)

// refs returns the symbols every identifier with the given name binds to,
// in pre-order. Unbound identifiers yield a zero Symbol.
func refs(model *semantic.LexicalModel, name string) []semantic.Symbol {
	tree := model.Tree()
	var out []semantic.Symbol
	for _, id := range tree.FindByKind(tree.Root(), syntax.KindIdentifierName) {
		if tree.Token(id) != name {
			continue
		}
		sym, _ := model.ResolveIdentifier(id)
		out = append(out, sym)
	}
	return out
}

func TestLexicalModel_LocalsAndParameters(t *testing.T) {
	t.Parallel()

	tree := st.Tree(st.Unit(st.Class("C",
		st.Method("M", "void", st.Params(st.Param("int", "p")), st.Block(
			st.Local("var", st.Var("x", st.Int("1"))),
			st.Local("string", st.Var("s", st.Str("a"))),
			st.Expr(st.Call("Use", st.Id("x"), st.Id("p"), st.Id("s"))),
		)),
	)))
	model := semantic.NewLexicalModel(tree)

	x := refs(model, "x")
	require.Len(t, x, 1)
	assert.Equal(t, semantic.SymbolLocal, x[0].Kind)
	assert.Equal(t, "int", x[0].Type, "var is inferred from the initializer")

	p := refs(model, "p")
	require.Len(t, p, 1)
	assert.Equal(t, semantic.SymbolParameter, p[0].Kind)
	assert.Equal(t, "int", p[0].Type)

	s := refs(model, "s")
	require.Len(t, s, 1)
	assert.Equal(t, "string", s[0].Type)

	use := refs(model, "Use")
	require.Len(t, use, 1)
	assert.Equal(t, semantic.SymbolUnknown, use[0].Kind, "unknown callee stays unbound")

	decl, ok := model.DeclaredSymbol(x[0].Decl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
}

func TestLexicalModel_TypePositionsAreNotReferences(t *testing.T) {
	t.Parallel()

	tree := st.Body(
		st.Local("Widget", st.Var("Widget", st.New("Widget"))),
		st.Expr(st.Call("Use", st.Id("Widget"))),
	)
	model := semantic.NewLexicalModel(tree)

	var bound []semantic.Symbol
	for _, sym := range refs(model, "Widget") {
		if sym.Kind != semantic.SymbolUnknown {
			bound = append(bound, sym)
		}
	}
	require.Len(t, bound, 1)
	assert.Equal(t, semantic.SymbolLocal, bound[0].Kind)
}

func TestLexicalModel_MembersAndThis(t *testing.T) {
	t.Parallel()

	tree := st.Tree(st.Unit(st.Class("C",
		st.Field("int", st.Var("count")),
		st.Field("int", st.Var("shared"), "static"),
		st.Method("M", "int", st.Params(), st.Block(
			st.Return(st.Binary(st.Id("count"), "+", st.Member(st.This(), "count"))),
		)),
		st.Method("N", "int", st.Params(), st.Block(
			st.Return(st.Id("shared")),
		)),
	)))
	model := semantic.NewLexicalModel(tree)

	count := refs(model, "count")
	require.NotEmpty(t, count)
	assert.Equal(t, semantic.SymbolField, count[0].Kind)
	assert.False(t, count[0].Static)
	assert.True(t, count[0].Kind.IsInstanceMember())

	shared := refs(model, "shared")
	require.Len(t, shared, 1)
	assert.True(t, shared[0].Static)

	this := tree.FindByKind(tree.Root(), syntax.KindThisExpression)
	require.Len(t, this, 1)
	sym, ok := model.ResolveIdentifier(this[0])
	require.True(t, ok)
	assert.Equal(t, semantic.SymbolThis, sym.Kind)
	assert.Equal(t, "C", sym.Type)
}

func TestLexicalModel_LocalFunctionVisibleBeforeDeclaration(t *testing.T) {
	t.Parallel()

	tree := st.Body(
		st.Expr(st.Call("Helper")),
		st.LocalFunc("Helper", "int", st.Params(), st.Block(st.Return(st.Int("1")))),
	)
	model := semantic.NewLexicalModel(tree)

	helper := refs(model, "Helper")
	require.Len(t, helper, 1)
	assert.Equal(t, semantic.SymbolLocalFunction, helper[0].Kind)
	assert.Equal(t, "int", helper[0].Type)
}

func TestLexicalModel_LambdaParametersShadow(t *testing.T) {
	t.Parallel()

	tree := st.Body(
		st.Local("int", st.Var("a", st.Int("1"))),
		st.Local("var", st.Var("f", st.SimpleLambda("a", st.Id("a")))),
		st.Expr(st.Call("Use", st.Id("a"))),
	)
	model := semantic.NewLexicalModel(tree)

	a := refs(model, "a")
	require.Len(t, a, 2)
	assert.Equal(t, semantic.SymbolParameter, a[0].Kind)
	assert.False(t, a[0].Erroneous)
	assert.Equal(t, semantic.SymbolLocal, a[1].Kind)
}

func TestLexicalModel_DesignationsAndForEach(t *testing.T) {
	t.Parallel()

	tree := st.Body(
		st.Expr(st.Call("TryGet", st.DeclExpr("int", st.Designate("v")))),
		st.ForEach("string", "item", st.Id("items"), st.Block(
			st.Expr(st.Call("Use", st.Id("item"), st.Id("v"))),
		)),
	)
	model := semantic.NewLexicalModel(tree)

	item := refs(model, "item")
	require.Len(t, item, 1)
	assert.Equal(t, "string", item[0].Type)

	v := refs(model, "v")
	require.Len(t, v, 1)
	assert.Equal(t, semantic.SymbolLocal, v[0].Kind)
	assert.Equal(t, "int", v[0].Type)
}

func TestLexicalModel_InferType(t *testing.T) {
	t.Parallel()

	tree := st.Body(
		st.Local("var", st.Var("a", st.Int("1"))),
		st.Local("var", st.Var("b", st.Binary(st.Id("a"), "<", st.Int("2")))),
		st.Local("var", st.Var("c", st.New("List"))),
		st.Local("var", st.Var("d", st.StackAlloc("byte", st.Int("8")))),
		st.Local("var", st.Var("e", st.Binary(st.Id("a"), "+", st.Str("x")))),
	)
	model := semantic.NewLexicalModel(tree)

	want := map[string]string{"a": "int", "b": "bool", "c": "List", "d": "Span<byte>", "e": "string"}
	for _, id := range tree.FindByKind(tree.Root(), syntax.KindVariableDeclarator) {
		sym, ok := model.DeclaredSymbol(id)
		require.True(t, ok)
		assert.Equal(t, want[sym.Name], sym.Type, sym.Name)
	}
}

func TestSymbolKind(t *testing.T) {
	t.Parallel()

	assert.True(t, semantic.SymbolThis.IsVariable())
	assert.False(t, semantic.SymbolMethod.IsVariable())
	assert.Equal(t, "RangeVariable", semantic.SymbolRangeVariable.String())
	assert.Equal(t, "Local x: int", semantic.Symbol{Kind: semantic.SymbolLocal, Name: "x", Type: "int"}.String())
}
