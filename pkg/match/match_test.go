package match_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
	st "github.com/yaklabco/encheck/pkg/syntax/syntaxtest"
)

// find returns the first node of the kind whose trivia-free text is text.
func find(t *testing.T, tree *syntax.Tree, kind syntax.Kind, text string) syntax.NodeID {
	t.Helper()

	id := tree.FindFirst(tree.Root(), func(id syntax.NodeID) bool {
		return tree.Kind(id) == kind && tree.Text(id) == text
	})
	require.NotEqual(t, syntax.NoNode, id, "no %s with text %q", kind, text)
	return id
}

func compute(t *testing.T, oldTree, newTree *syntax.Tree) *match.Match {
	t.Helper()

	m, err := match.Compute(context.Background(), oldTree, newTree)
	require.NoError(t, err)
	return m
}

func TestCompute_IdenticalTrees(t *testing.T) {
	t.Parallel()

	body := func() *syntax.Tree {
		return st.Body(
			st.Local("int", st.Var("x", st.Int("1"))),
			st.If(st.Id("c"), st.Block(st.Expr(st.Call("f", st.Id("x"))))),
			st.Return(),
		)
	}
	oldTree, newTree := body(), body()

	m := compute(t, oldTree, newTree)

	labeled := m.Labeled(match.Old)
	assert.Equal(t, len(labeled), m.Len())
	for _, id := range labeled {
		assert.Equal(t, id, m.NewPartner(id), "node %d", id)
	}
}

func TestCompute_RenamedDeclaratorStillMatches(t *testing.T) {
	t.Parallel()

	oldTree := st.Body(
		st.Local("int", st.Var("x", st.Int("1"))),
		st.Local("var", st.Var("f", st.Lambda(st.Params(), st.Id("x")))),
	)
	newTree := st.Body(
		st.Local("int", st.Var("X", st.Int("1"))),
		st.Local("var", st.Var("f", st.Lambda(st.Params(), st.Id("X")))),
	)

	m := compute(t, oldTree, newTree)

	oldX := find(t, oldTree, syntax.KindVariableDeclarator, "x 1")
	newX := find(t, newTree, syntax.KindVariableDeclarator, "X 1")
	assert.Equal(t, newX, m.NewPartner(oldX))

	oldLambda := find(t, oldTree, syntax.KindLambdaExpression, "=> x")
	newLambda := find(t, newTree, syntax.KindLambdaExpression, "=> X")
	assert.Equal(t, newLambda, m.NewPartner(oldLambda))
	assert.Equal(t, oldLambda, m.OldPartner(newLambda))
	assert.False(t, m.ContentEqual(oldLambda, newLambda))
}

func TestCompute_StatementsWrappedInTry(t *testing.T) {
	t.Parallel()

	oldTree := st.Body(
		st.Expr(st.Call("f")),
		st.Expr(st.Call("g")),
	)
	newTree := st.Body(
		st.Try(st.Block(
			st.Expr(st.Call("f")),
			st.Expr(st.Call("g")),
		), st.Finally(st.Block())),
	)

	m := compute(t, oldTree, newTree)

	for _, name := range []string{"f", "g"} {
		oldStmt := find(t, oldTree, syntax.KindExpressionStatement, name)
		newStmt := find(t, newTree, syntax.KindExpressionStatement, name)
		require.Equal(t, newStmt, m.NewPartner(oldStmt), name)

		tryBlock := m.LabeledParent(match.New, newStmt)
		assert.Equal(t, syntax.KindBlock, newTree.Kind(tryBlock))
		assert.Equal(t, syntax.NoNode, m.OldPartner(tryBlock), "try block is new")
	}

	try := find(t, newTree, syntax.KindTryStatement, "try f g finally")
	assert.False(t, m.IsMatched(match.New, try))
}

func TestCompute_SwitchSwap(t *testing.T) {
	t.Parallel()

	oldTree := st.Body(
		st.Switch(st.Id("a"), st.Section([]st.Spec{st.Case(st.Int("1"))}, st.Expr(st.Call("f")), st.Break())),
		st.Switch(st.Id("b"), st.Section([]st.Spec{st.Case(st.Int("2"))}, st.Expr(st.Call("g")), st.Break())),
	)
	newTree := st.Body(
		st.Switch(st.Id("b"), st.Section([]st.Spec{st.Case(st.Int("2"))}, st.Expr(st.Call("f")), st.Break())),
		st.Switch(st.Id("a"), st.Section([]st.Spec{st.Case(st.Int("1"))}, st.Expr(st.Call("g")), st.Break())),
	)

	m := compute(t, oldTree, newTree)

	oldA := find(t, oldTree, syntax.KindSwitchStatement, "switch a case 1 f break")
	newA := find(t, newTree, syntax.KindSwitchStatement, "switch a case 1 g break")
	assert.Equal(t, newA, m.NewPartner(oldA), "switch keeps its header")

	oldSection := find(t, oldTree, syntax.KindSwitchSection, "case 1 f break")
	newSection := find(t, newTree, syntax.KindSwitchSection, "case 2 f break")
	assert.Equal(t, newSection, m.NewPartner(oldSection), "section follows its statements")
}

func TestCompute_DiscardDesignationMatches(t *testing.T) {
	t.Parallel()

	stmt := func(name string) st.Spec {
		return st.Expr(st.Assign(st.DeclExpr("var", st.Designate(name)), "=", st.Call("F")))
	}
	oldTree := st.Body(stmt("a"))
	newTree := st.Body(stmt("_"))

	m := compute(t, oldTree, newTree)

	oldDesignation := find(t, oldTree, syntax.KindSingleVariableDesignation, "a")
	newDesignation := find(t, newTree, syntax.KindDiscardDesignation, "_")
	assert.Equal(t, newDesignation, m.NewPartner(oldDesignation))
}

func TestCompute_OverloadsMatchBySignature(t *testing.T) {
	t.Parallel()

	intOverload := st.Method("M", "void", st.Params(st.Param("int", "a")), st.Block(st.Return()))
	strOverload := st.Method("M", "void", st.Params(st.Param("string", "a")), st.Block(st.Return()))

	oldTree := st.Tree(st.Unit(st.Class("C", intOverload, strOverload)))
	newTree := st.Tree(st.Unit(st.Class("C", strOverload, intOverload)))

	m := compute(t, oldTree, newTree)

	oldInt := find(t, oldTree, syntax.KindMethodDeclaration, "M void a int return")
	newInt := find(t, newTree, syntax.KindMethodDeclaration, "M void a int return")
	assert.Equal(t, newInt, m.NewPartner(oldInt))
}

func TestCompute_RemovedDeclaratorIsUnmatched(t *testing.T) {
	t.Parallel()

	oldTree := st.Body(st.Local("int", st.Var("a", st.Int("1")), st.Var("b", st.Int("2"))))
	newTree := st.Body(st.Local("int", st.Var("a", st.Int("1"))))

	m := compute(t, oldTree, newTree)

	oldA := find(t, oldTree, syntax.KindVariableDeclarator, "a 1")
	oldB := find(t, oldTree, syntax.KindVariableDeclarator, "b 2")
	assert.True(t, m.IsMatched(match.Old, oldA))
	assert.False(t, m.IsMatched(match.Old, oldB))
}

func TestCompute_Deterministic(t *testing.T) {
	t.Parallel()

	oldTree := st.Body(
		st.Expr(st.Call("f")),
		st.Expr(st.Call("f")),
		st.Expr(st.Call("g", st.Int("1"))),
	)
	newTree := st.Body(
		st.Expr(st.Call("g", st.Int("2"))),
		st.Expr(st.Call("f")),
	)

	first := compute(t, oldTree, newTree).Pairs()
	for range 5 {
		assert.Equal(t, first, compute(t, oldTree, newTree).Pairs())
	}
}

func TestCompute_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tree := st.Body(st.Return())
	_, err := match.Compute(ctx, tree, tree)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLabelOf(t *testing.T) {
	t.Parallel()

	tree := st.Body(
		st.Block(st.Break()),
		st.Local("var", st.Var("f", st.SimpleLambda("a", st.Id("a")))),
	)

	tests := []struct {
		kind syntax.Kind
		text string
		want match.Label
	}{
		{syntax.KindMethodDeclaration, "M void break var f => a a", match.LabelMethod},
		{syntax.KindBlock, "break", match.LabelNestedBlock},
		{syntax.KindBlock, "break var f => a a", match.LabelBodyBlock},
		{syntax.KindBreakStatement, "break", match.LabelJump},
		{syntax.KindVariableDeclarator, "f => a a", match.LabelDeclarator},
		{syntax.KindLambdaExpression, "=> a a", match.LabelFunction},
		{syntax.KindIdentifierName, "a", match.LabelIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, match.LabelOf(tree, find(t, tree, tt.kind, tt.text)))
		})
	}

	assert.True(t, match.LabelDeclarator.Tied())
	assert.False(t, match.LabelFunction.Tied())
}

func TestSyntaxMap(t *testing.T) {
	t.Parallel()

	oldTree := st.Body(
		st.Expr(st.Call("f", st.Id("x"))),
		st.Expr(st.Call("g", st.Int("1"))),
	)
	newTree := st.Body(
		st.Expr(st.Call("f", st.Id("x"))),
		st.Expr(st.Call("g", st.Int("2"))),
	)

	m := compute(t, oldTree, newTree)
	sm := m.SyntaxMap()

	newX := find(t, newTree, syntax.KindIdentifierName, "x")
	oldX := find(t, oldTree, syntax.KindIdentifierName, "x")
	assert.Equal(t, oldX, sm.Lookup(newX), "unchanged content maps positionally")

	newLit := find(t, newTree, syntax.KindLiteral, "2")
	assert.Equal(t, syntax.NoNode, sm.Lookup(newLit), "changed content has no counterpart")

	newStmt := find(t, newTree, syntax.KindExpressionStatement, "g 2")
	oldStmt := find(t, oldTree, syntax.KindExpressionStatement, "g 1")
	assert.Equal(t, oldStmt, sm.Lookup(newStmt))
	assert.True(t, sm.Complete(newTree.Root()))
}
