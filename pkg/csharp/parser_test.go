package csharp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/syntax"
)

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()

	tree, err := NewParser().Parse(context.Background(), "Program.cs", []byte(src))
	require.NoError(t, err)
	return tree
}

func tokens(tree *syntax.Tree, kind syntax.Kind) []string {
	var out []string
	for _, id := range tree.FindByKind(tree.Root(), kind) {
		out = append(out, tree.Token(id))
	}
	return out
}

func TestParse_Declarations(t *testing.T) {
	t.Parallel()

	tree := parse(t, `
namespace N
{
    class C
    {
        int x = 1;

        public int P { get; set; }

        void M(int a)
        {
            int y = a + x;
        }
    }
}
`)

	assert.Equal(t, syntax.KindCompilationUnit, tree.Kind(tree.Root()))
	assert.Equal(t, []string{"N"}, tokens(tree, syntax.KindNamespaceDeclaration))
	assert.Equal(t, []string{"C"}, tokens(tree, syntax.KindClassDeclaration))
	assert.Equal(t, []string{"M"}, tokens(tree, syntax.KindMethodDeclaration))
	assert.Equal(t, []string{"P"}, tokens(tree, syntax.KindPropertyDeclaration))
	assert.ElementsMatch(t, []string{"get", "set"}, tokens(tree, syntax.KindAccessorDeclaration))
	assert.Equal(t, []string{"x", "y"}, tokens(tree, syntax.KindVariableDeclarator))
	assert.Equal(t, []string{"+"}, tokens(tree, syntax.KindBinaryExpression))

	methods := tree.FindByKind(tree.Root(), syntax.KindMethodDeclaration)
	require.Len(t, methods, 1)
	params := tree.Parameters(methods[0])
	require.Len(t, params, 1)
	assert.Equal(t, "a", tree.Token(params[0]))
	assert.NotEqual(t, syntax.NoNode, tree.Body(methods[0]))

	class := tree.FindByKind(tree.Root(), syntax.KindClassDeclaration)[0]
	for _, c := range tree.Children(class) {
		assert.NotEqual(t, syntax.KindIdentifierName, tree.Kind(c), "type name is carried as token")
	}
}

func TestParse_Statements(t *testing.T) {
	t.Parallel()

	tree := parse(t, `
class C
{
    void M(bool b)
    {
        if (b) { return; } else { F(); }
        while (b) { break; }
        try { F(); } catch (System.Exception e) { } finally { }
    }
}
`)

	ifs := tree.FindByKind(tree.Root(), syntax.KindIfStatement)
	require.Len(t, ifs, 1)
	assert.Equal(t, "if", tree.Token(ifs[0]))
	assert.NotEqual(t, syntax.NoNode, tree.ChildOfKind(ifs[0], syntax.KindElseClause))

	assert.Equal(t, []string{"return"}, tokens(tree, syntax.KindReturnStatement))
	assert.Equal(t, []string{"while"}, tokens(tree, syntax.KindWhileStatement))
	assert.Equal(t, []string{"break"}, tokens(tree, syntax.KindBreakStatement))
	assert.Equal(t, []string{"try"}, tokens(tree, syntax.KindTryStatement))
	assert.Equal(t, []string{"e"}, tokens(tree, syntax.KindCatchDeclaration))
	assert.Len(t, tree.FindByKind(tree.Root(), syntax.KindFinallyClause), 1)
}

func TestParse_Lambdas(t *testing.T) {
	t.Parallel()

	tree := parse(t, `
class C
{
    void M()
    {
        System.Func<int, int> f = v => v + 1;
        System.Func<int> g = () => 2;
    }
}
`)

	lambdas := tree.FindByKind(tree.Root(), syntax.KindLambdaExpression)
	require.Len(t, lambdas, 2)
	for _, l := range lambdas {
		assert.Equal(t, "=>", tree.Token(l))
	}

	simple := tree.ChildOfKind(lambdas[0], syntax.KindParameter)
	require.NotEqual(t, syntax.NoNode, simple, "simple lambda parameter is wrapped")
	assert.Equal(t, "v", tree.Token(simple))
	assert.NotEqual(t, syntax.NoNode, tree.ChildOfKind(lambdas[1], syntax.KindParameterList))
}

func TestParse_TopLevelStatements(t *testing.T) {
	t.Parallel()

	tree := parse(t, `
using System;

Console.WriteLine("hi");
`)

	globals := tree.ChildrenOfKind(tree.Root(), syntax.KindGlobalStatement)
	assert.Len(t, globals, 1)
	assert.Len(t, tree.FindByKind(tree.Root(), syntax.KindInvocationExpression), 1)
}

func TestParse_Spans(t *testing.T) {
	t.Parallel()

	src := "class C\n{\n    void M() { }\n}\n"
	tree := parse(t, src)

	m := tree.FindByKind(tree.Root(), syntax.KindMethodDeclaration)[0]
	span := tree.Span(m)
	assert.Equal(t, 3, span.StartLine)
	assert.Equal(t, 5, span.StartColumn)
	assert.Equal(t, "void M() { }", src[span.Start:span.End])
}

func TestParse_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := NewParser().Parse(context.Background(), "Broken.cs", []byte("class C { void M( { }"))
	require.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "Broken.cs")
}
