package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
	st "github.com/yaklabco/encheck/pkg/syntax/syntaxtest"
)

func TestTopLevelUpdateRule(t *testing.T) {
	t.Parallel()

	program := func(msg string) *syntax.Tree {
		return st.Tree(st.Unit(
			st.Global(st.Expr(st.Call("Log", st.Str(msg)))),
			st.Global(st.Expr(st.Call("Run"))),
		))
	}
	newTree := program("b")

	outcome := classify(t, input{oldTree: program("a"), newTree: newTree, global: true})

	require.Equal(t, []rude.Kind{rude.UpdateMightNotHaveAnyEffect}, kindsOf(outcome.Diagnostics))
	d := outcome.Diagnostics[0]
	assert.Equal(t, config.SeverityWarning, d.Severity)
	assert.False(t, d.Blocking())
	assert.Equal(t, []string{`Log "b"`}, d.Args)
	assert.Equal(t, newTree.FindByKind(newTree.Root(), syntax.KindExpressionStatement)[0], d.Node)
	assert.False(t, outcome.HasBlocking())
}

func TestTopLevelUpdateRule_IgnoresDeclarations(t *testing.T) {
	t.Parallel()

	outcome := classify(t, input{
		oldTree: st.Body(st.Expr(st.Call("F", st.Int("1")))),
		newTree: st.Body(st.Expr(st.Call("F", st.Int("2")))),
	})
	assert.Empty(t, ofKind(outcome.Diagnostics, rude.UpdateMightNotHaveAnyEffect))
}

func TestSnippet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b", snippet("a\n\t  b", 10))
	assert.Equal(t, "abcd...", snippet("abcdefgh", 4))
	assert.Equal(t, "héllo", snippet("héllo", 5))
}
