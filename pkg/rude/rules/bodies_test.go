package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
	st "github.com/yaklabco/encheck/pkg/syntax/syntaxtest"
)

func TestStackAllocRule_InsertIntoLambda(t *testing.T) {
	t.Parallel()

	oldTree := st.Body(
		st.Local("var", st.Var("f", st.Lambda(st.Params(), st.Block(
			st.Return(st.Int("1")),
		)))),
	)
	newTree := st.Body(
		st.Local("var", st.Var("f", st.Lambda(st.Params(), st.Block(
			st.Local("var", st.Var("s", st.StackAlloc("int", st.Int("10")))),
			st.Return(st.Int("1")),
		)))),
	)

	outcome := classify(t, input{oldTree: oldTree, newTree: newTree})

	require.Equal(t, []rude.Kind{rude.StackAllocUpdate}, kindsOf(outcome.Diagnostics))
	d := outcome.Diagnostics[0]
	assert.Equal(t, newTree.FindByKind(newTree.Root(), syntax.KindLambdaExpression)[0], d.Node)
	assert.Equal(t, []string{"lambda"}, d.Args)
}

func TestStackAllocRule_UnchangedOwnerIsIgnored(t *testing.T) {
	t.Parallel()

	body := func(v string) *syntax.Tree {
		return st.Body(
			st.Local("var", st.Var("f", st.Lambda(st.Params(), st.Block(
				st.Local("var", st.Var("s", st.StackAlloc("int", st.Int("10")))),
			)))),
			st.Expr(st.Call("Log", st.Int(v))),
		)
	}

	outcome := classify(t, input{oldTree: body("1"), newTree: body("2")})

	assert.Empty(t, ofKind(outcome.Diagnostics, rude.StackAllocUpdate),
		"the method changed but the stackalloc belongs to the lambda")
}

func TestAwaitSpillRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stmt    func(arg string) st.Spec
		wantHit bool
	}{
		{
			name: "await is the whole statement",
			stmt: func(arg string) st.Spec {
				return st.Expr(st.Await(st.Call("F", st.Int(arg))))
			},
		},
		{
			name: "argument evaluated before the await",
			stmt: func(arg string) st.Spec {
				return st.Expr(st.Call("F", st.Id("old"), st.Await(st.Call("F", st.Int(arg)))))
			},
			wantHit: true,
		},
		{
			name: "constant before the await",
			stmt: func(arg string) st.Spec {
				return st.Expr(st.Call("F", st.Int("0"), st.Await(st.Call("F", st.Int(arg)))))
			},
		},
		{
			name: "compound assignment",
			stmt: func(arg string) st.Spec {
				return st.Expr(st.Assign(st.Id("x"), "+=", st.Await(st.Call("F", st.Int(arg)))))
			},
			wantHit: true,
		},
		{
			name: "simple assignment",
			stmt: func(arg string) st.Spec {
				return st.Expr(st.Assign(st.Id("x"), "=", st.Await(st.Call("F", st.Int(arg)))))
			},
		},
		{
			name: "left operand of a binary expression",
			stmt: func(arg string) st.Spec {
				return st.Return(st.Binary(st.Id("x"), "+", st.Await(st.Call("F", st.Int(arg)))))
			},
			wantHit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			oldTree := asyncBody(tt.stmt("1"))
			newTree := asyncBody(tt.stmt("2"))

			outcome := classify(t, input{oldTree: oldTree, newTree: newTree})

			got := ofKind(outcome.Diagnostics, rude.AwaitStatementUpdate)
			if !tt.wantHit {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			block := newTree.FindByKind(newTree.Root(), syntax.KindBlock)[0]
			assert.Equal(t, newTree.Children(block)[0], got[0].Node, "anchored at the full statement")
		})
	}
}

func TestAwaitSpillRule_BoundaryPair(t *testing.T) {
	t.Parallel()

	plain := classify(t, input{
		oldTree: asyncBody(st.Expr(st.Await(st.Call("F", st.Int("1"))))),
		newTree: asyncBody(st.Expr(st.Await(st.Call("F", st.Int("2"))))),
	})
	assert.Empty(t, plain.Diagnostics)

	spilled := classify(t, input{
		oldTree: asyncBody(st.Expr(st.Call("F", st.Id("old"), st.Await(st.Call("F", st.Int("1")))))),
		newTree: asyncBody(st.Expr(st.Call("F", st.Id("old"), st.Await(st.Call("F", st.Int("2")))))),
	})
	assert.Equal(t, []rude.Kind{rude.AwaitStatementUpdate}, kindsOf(spilled.Diagnostics))
}

func TestGenericUpdateRule(t *testing.T) {
	t.Parallel()

	tree := func(arg string) *syntax.Tree {
		return st.Tree(st.Unit(st.Class("C",
			st.GenericMethod("M", "void", []string{"T"}, st.Params(), st.Block(
				st.Expr(st.Call("F", st.Int(arg))),
			)),
		)))
	}
	newTree := tree("2")

	outcome := classify(t, input{oldTree: tree("1"), newTree: newTree})
	require.Equal(t, []rude.Kind{rude.UpdatingGenericNotSupportedByRuntime}, kindsOf(outcome.Diagnostics))
	assert.Equal(t, firstMethod(newTree), outcome.Diagnostics[0].Node)
	assert.Equal(t, []string{"method 'M'"}, outcome.Diagnostics[0].Args)

	outcome = classify(t, input{
		oldTree: tree("1"),
		newTree: newTree,
		caps:    capability.Of(capability.Baseline, capability.GenericUpdateMethod),
	})
	assert.Empty(t, outcome.Diagnostics)
	require.Len(t, outcome.Applicable, 1)
	assert.Equal(t, rude.RemediationGenericUpdate, outcome.Applicable[0].Remediation)
}

func TestGenericUpdateRule_GenericLocalFunction(t *testing.T) {
	t.Parallel()

	body := func(arg string) *syntax.Tree {
		return st.Body(
			st.GenericLocalFunc("L", "void", []string{"T"}, st.Params(), nil, st.Block(
				st.Expr(st.Call("F", st.Int(arg))),
			)),
		)
	}
	newTree := body("2")

	outcome := classify(t, input{oldTree: body("1"), newTree: newTree})

	got := ofKind(outcome.Diagnostics, rude.UpdatingGenericNotSupportedByRuntime)
	require.Len(t, got, 1)
	assert.Equal(t, newTree.FindByKind(newTree.Root(), syntax.KindLocalFunctionStatement)[0], got[0].Node)
}

func TestStateMachineAttributeRule(t *testing.T) {
	t.Parallel()

	oldTree := asyncBody(st.Expr(st.Await(st.Call("F", st.Int("1")))))
	newTree := asyncBody(st.Expr(st.Await(st.Call("F", st.Int("2")))))

	cfg := config.NewConfig()
	cfg.StateMachineAttributes = []string{config.IteratorStateMachineAttribute}

	outcome := classify(t, input{oldTree: oldTree, newTree: newTree, cfg: cfg})

	require.Equal(t, []rude.Kind{rude.UpdatingStateMachineMethodMissingAttribute}, kindsOf(outcome.Diagnostics))
	assert.Equal(t, []string{"method 'M'", "AsyncStateMachineAttribute"}, outcome.Diagnostics[0].Args)

	outcome = classify(t, input{oldTree: oldTree, newTree: newTree})
	assert.Empty(t, outcome.Diagnostics, "default runtime defines both attributes")
}

func TestStateMachineAttributeRule_Iterator(t *testing.T) {
	t.Parallel()

	body := func(v string) *syntax.Tree {
		return st.Body(st.YieldReturn(st.Int(v)))
	}
	cfg := config.NewConfig()
	cfg.StateMachineAttributes = nil

	outcome := classify(t, input{oldTree: body("1"), newTree: body("2"), cfg: cfg})

	got := ofKind(outcome.Diagnostics, rude.UpdatingStateMachineMethodMissingAttribute)
	require.Len(t, got, 1)
	assert.Equal(t, "IteratorStateMachineAttribute", got[0].Args[1])
}
