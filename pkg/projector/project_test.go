package projector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/capture"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
	st "github.com/yaklabco/encheck/pkg/syntax/syntaxtest"
)

type fixture struct {
	t        *testing.T
	old, new *syntax.Tree
	m        *match.Match
	script   *editscript.Script
}

func newFixture(t *testing.T, oldTree, newTree *syntax.Tree) *fixture {
	t.Helper()

	m, err := match.Compute(context.Background(), oldTree, newTree)
	require.NoError(t, err)
	script, err := editscript.Build(m)
	require.NoError(t, err)
	return &fixture{t: t, old: oldTree, new: newTree, m: m, script: script}
}

// unit describes a matched declaration, with its capture analysis.
func (f *fixture) unit(oldRoot, newRoot syntax.NodeID) Declaration {
	f.t.Helper()

	res, err := capture.Analyze(context.Background(), capture.Input{
		Match:    f.m,
		OldModel: semantic.NewLexicalModel(f.old),
		NewModel: semantic.NewLexicalModel(f.new),
		OldRoot:  oldRoot,
		NewRoot:  newRoot,
	})
	require.NoError(f.t, err)
	return Declaration{OldRoot: oldRoot, NewRoot: newRoot, Capture: res}
}

func (f *fixture) project(diags []rude.Diagnostic, decls ...Declaration) []SemanticEdit {
	f.t.Helper()

	edits, err := Project(context.Background(), Input{Script: f.script, Declarations: decls, Diagnostics: diags})
	require.NoError(f.t, err)
	return edits
}

func first(tree *syntax.Tree, kind syntax.Kind) syntax.NodeID {
	return tree.FindByKind(tree.Root(), kind)[0]
}

func strs(edits []SemanticEdit) []string {
	out := make([]string, 0, len(edits))
	for _, e := range edits {
		out = append(out, e.String())
	}
	return out
}

func classWith(members ...st.Spec) *syntax.Tree {
	return st.Tree(st.Unit(st.Class("C", members...)))
}

func TestProject_MethodBodyUpdate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, st.Body(st.Expr(st.Call("F", st.Int("1")))), st.Body(st.Expr(st.Call("F", st.Int("2")))))
	m := first(f.new, syntax.KindMethodDeclaration)

	edits := f.project(nil, f.unit(first(f.old, syntax.KindMethodDeclaration), m))

	require.Equal(t, []string{"Update C.M():void"}, strs(edits))
	e := edits[0]
	assert.Equal(t, m, e.Symbol.Node)
	assert.Equal(t, match.New, e.Symbol.Side)
	assert.Equal(t, "C", e.Container.Name)
	assert.False(t, e.PreserveLocalVariables)
	assert.Nil(t, e.SyntaxMap)
}

func TestProject_UnchangedDeclarationEmitsNothing(t *testing.T) {
	t.Parallel()

	tree := func() *syntax.Tree { return st.Body(st.Expr(st.Call("F", st.Int("1")))) }
	f := newFixture(t, tree(), tree())

	edits := f.project(nil, f.unit(first(f.old, syntax.KindMethodDeclaration), first(f.new, syntax.KindMethodDeclaration)))
	assert.Empty(t, edits)
}

func TestProject_PreserveLocalVariables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tree func(arg string) *syntax.Tree
	}{
		{
			name: "capturing closure",
			tree: func(arg string) *syntax.Tree {
				return st.Body(
					st.Local("int", st.Var("x", st.Int("1"))),
					st.Local("var", st.Var("f", st.Lambda(st.Params(), st.Id("x")))),
					st.Expr(st.Call("F", st.Int(arg))),
				)
			},
		},
		{
			name: "async method",
			tree: func(arg string) *syntax.Tree {
				return classWith(st.Method("M", "void", st.Params(), st.Block(
					st.Expr(st.Await(st.Call("F", st.Int(arg)))),
				), "async"))
			},
		},
		{
			name: "iterator",
			tree: func(arg string) *syntax.Tree {
				return st.Body(st.YieldReturn(st.Int(arg)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tt.tree("1"), tt.tree("2"))
			edits := f.project(nil, f.unit(first(f.old, syntax.KindMethodDeclaration), first(f.new, syntax.KindMethodDeclaration)))

			require.Len(t, edits, 1)
			assert.True(t, edits[0].PreserveLocalVariables)
			require.NotNil(t, edits[0].SyntaxMap)
			assert.Equal(t, "Update C.M():void [preserve]", edits[0].String())
		})
	}
}

func TestProject_SignatureChangeReplacesMethod(t *testing.T) {
	t.Parallel()

	method := func(typ string) *syntax.Tree {
		return classWith(st.Method("M", "void", st.Params(st.Param(typ, "p")), st.Block()))
	}
	f := newFixture(t, method("int"), method("long"))

	edits := f.project(nil, f.unit(first(f.old, syntax.KindMethodDeclaration), first(f.new, syntax.KindMethodDeclaration)))

	assert.Equal(t, []string{"Delete C.M(int):void", "Insert C.M(long):void"}, strs(edits))
	assert.Equal(t, match.Old, edits[0].Symbol.Side)
	assert.Equal(t, match.New, edits[0].Container.Side, "container comes from the surviving type")
}

func TestProject_InsertedAndDeletedMembers(t *testing.T) {
	t.Parallel()

	method := func(name string) st.Spec { return st.Method(name, "void", st.Params(), st.Block()) }
	property := st.Property("P", "int",
		st.Accessor("get", st.Block(st.Return(st.Int("1")))),
		st.Accessor("set", st.Block()),
	)

	t.Run("property with accessors", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, classWith(method("M")), classWith(method("M"), property))
		edits := f.project(nil, Declaration{OldRoot: syntax.NoNode, NewRoot: first(f.new, syntax.KindPropertyDeclaration)})

		assert.Equal(t, []string{"Insert C.P:int", "Insert C.get_P():int", "Insert C.set_P(int)"}, strs(edits))
	})

	t.Run("deleted method", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, classWith(method("M"), method("N")), classWith(method("M")))
		n := f.old.FindByKind(f.old.Root(), syntax.KindMethodDeclaration)[1]
		edits := f.project(nil, Declaration{OldRoot: n, NewRoot: syntax.NoNode})

		require.Equal(t, []string{"Delete C.N():void"}, strs(edits))
		assert.Equal(t, first(f.new, syntax.KindClassDeclaration), edits[0].Container.Node)
	})

	t.Run("inserted type", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t,
			st.Tree(st.Unit(st.Class("C", method("M")))),
			st.Tree(st.Unit(st.Class("C", method("M")), st.Class("D", method("N")))),
		)
		d := f.new.FindByKind(f.new.Root(), syntax.KindClassDeclaration)[1]
		edits := f.project(nil, Declaration{OldRoot: syntax.NoNode, NewRoot: d})

		assert.Equal(t, []string{"Insert D"}, strs(edits))
	})
}

func TestProject_Accessors(t *testing.T) {
	t.Parallel()

	tree := func(v string) *syntax.Tree {
		return classWith(st.Property("P", "int",
			st.Accessor("get", st.Block(st.Return(st.Int(v)))),
			st.Accessor("set", st.Block()),
		))
	}
	f := newFixture(t, tree("1"), tree("2"))

	edits := f.project(nil, f.unit(first(f.old, syntax.KindPropertyDeclaration), first(f.new, syntax.KindPropertyDeclaration)))

	assert.Equal(t, []string{"Update C.get_P():int"}, strs(edits))
}

func TestProject_InitializerFanOut(t *testing.T) {
	t.Parallel()

	t.Run("explicit constructors skip chained ones", func(t *testing.T) {
		t.Parallel()

		tree := func(v string) *syntax.Tree {
			return classWith(
				st.Field("int", st.Var("x", st.Int(v))),
				st.Ctor("C", st.Params(), st.Block()),
				st.ChainedCtor("C", st.Params(st.Param("int", "a")), nil, st.Block()),
			)
		}
		f := newFixture(t, tree("1"), tree("2"))

		edits := f.project(nil, f.unit(first(f.old, syntax.KindFieldDeclaration), first(f.new, syntax.KindFieldDeclaration)))

		require.Equal(t, []string{"Update C..ctor()"}, strs(edits))
		assert.Equal(t, first(f.new, syntax.KindConstructorDeclaration), edits[0].Symbol.Node)
	})

	t.Run("implicit constructor", func(t *testing.T) {
		t.Parallel()

		tree := func(v string) *syntax.Tree {
			return classWith(st.Field("int", st.Var("x", st.Int(v))))
		}
		f := newFixture(t, tree("1"), tree("2"))

		edits := f.project(nil, f.unit(first(f.old, syntax.KindFieldDeclaration), first(f.new, syntax.KindFieldDeclaration)))

		require.Equal(t, []string{"Update C..ctor()"}, strs(edits))
		assert.Equal(t, first(f.new, syntax.KindClassDeclaration), edits[0].Symbol.Node)
	})

	t.Run("static initializer", func(t *testing.T) {
		t.Parallel()

		tree := func(v string) *syntax.Tree {
			return classWith(st.Field("int", st.Var("x", st.Int(v)), "static"))
		}
		f := newFixture(t, tree("1"), tree("2"))

		edits := f.project(nil, f.unit(first(f.old, syntax.KindFieldDeclaration), first(f.new, syntax.KindFieldDeclaration)))

		assert.Equal(t, []string{"Update C..cctor()"}, strs(edits))
	})

	t.Run("primary constructor", func(t *testing.T) {
		t.Parallel()

		tree := func(v string) *syntax.Tree {
			return st.Tree(st.Unit(st.PrimaryClass("C", st.Params(st.Param("int", "a")),
				st.PropertyInit("P", "int", st.Int(v), st.Accessor("get")),
			)))
		}
		f := newFixture(t, tree("1"), tree("2"))

		edits := f.project(nil, f.unit(first(f.old, syntax.KindPropertyDeclaration), first(f.new, syntax.KindPropertyDeclaration)))

		assert.Equal(t, []string{"Update C..ctor(int)"}, strs(edits))
	})
}

func TestProject_ConstructorsPairBySignature(t *testing.T) {
	t.Parallel()

	f := newFixture(t,
		classWith(st.Ctor("C", st.Params(), st.Block())),
		classWith(st.Ctor("C", st.Params(), st.Block()), st.Ctor("C", st.Params(st.Param("int", "a")), st.Block())),
	)

	edits := f.project(nil)
	assert.Equal(t, []string{"Insert C..ctor(int)"}, strs(edits))
}

func TestProject_PartialMethodTargetsImplementation(t *testing.T) {
	t.Parallel()

	tree := func(v string) *syntax.Tree {
		return st.Tree(st.Unit(
			st.Partial(st.Class("C", st.Partial(st.Method("M", "void", st.Params(), syntax.Spec{})))),
			st.Partial(st.Class("C", st.Partial(st.Method("M", "void", st.Params(), st.Block(
				st.Expr(st.Call("F", st.Int(v))),
			))))),
		))
	}
	f := newFixture(t, tree("1"), tree("2"))
	impl := func(tree *syntax.Tree) syntax.NodeID {
		return tree.FindByKind(tree.Root(), syntax.KindMethodDeclaration)[1]
	}

	edits := f.project(nil, f.unit(impl(f.old), impl(f.new)))

	require.Equal(t, []string{"Update C.M():void [partial C]"}, strs(edits))
	assert.Equal(t, impl(f.new), edits[0].Symbol.Node)
}

func TestProject_TopLevelStatements(t *testing.T) {
	t.Parallel()

	program := func(v string) st.Spec { return st.Global(st.Expr(st.Call("Log", st.Str(v)))) }

	t.Run("update", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, st.Tree(st.Unit(program("a"))), st.Tree(st.Unit(program("b"))))
		edits := f.project(nil, Declaration{OldRoot: f.old.Root(), NewRoot: f.new.Root(), Global: true})

		require.Equal(t, []string{"Update Program.<Main>$(string[])"}, strs(edits))
		assert.Equal(t, SymbolEntryPoint, edits[0].Symbol.Kind)
	})

	t.Run("insert", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, st.Tree(st.Unit(st.Class("C"))), st.Tree(st.Unit(program("a"), st.Class("C"))))
		edits := f.project(nil, Declaration{OldRoot: f.old.Root(), NewRoot: f.new.Root(), Global: true})

		assert.Equal(t, []string{"Insert Program.<Main>$(string[])"}, strs(edits))
	})
}

func TestProject_Blocked(t *testing.T) {
	t.Parallel()

	f := newFixture(t, st.Body(st.Expr(st.Call("F", st.Int("1")))), st.Body(st.Expr(st.Call("F", st.Int("2")))))
	decl := f.unit(first(f.old, syntax.KindMethodDeclaration), first(f.new, syntax.KindMethodDeclaration))
	diag := func(severity config.Severity) rude.Diagnostic {
		return rude.Diagnostic{
			Kind:     rude.StackAllocUpdate,
			Node:     first(f.new, syntax.KindExpressionStatement),
			Side:     match.New,
			Severity: severity,
		}
	}

	edits := f.project([]rude.Diagnostic{diag(config.SeverityError)}, decl)
	assert.Equal(t, []string{"Update C.M():void [blocked]"}, strs(edits))

	edits = f.project([]rude.Diagnostic{diag(config.SeverityWarning)}, decl)
	assert.Equal(t, []string{"Update C.M():void"}, strs(edits))
}

func TestProject_Errors(t *testing.T) {
	t.Parallel()

	_, err := Project(context.Background(), Input{})
	require.ErrorIs(t, err, ErrNoScript)

	f := newFixture(t, st.Body(), st.Body(st.Return()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	edits, err := Project(ctx, Input{Script: f.script})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, edits)
}

func TestSymbolNames(t *testing.T) {
	t.Parallel()

	tree := st.Tree(st.Unit(syntax.T(syntax.KindNamespaceDeclaration, "N",
		st.Class("C",
			st.GenericMethod("G", "int", []string{"T", "U"}, st.Params(st.Param("int", "a", "ref")), st.Block()),
			st.Indexer("string", st.Params(st.Param("int", "i")),
				st.Accessor("get", st.Block()),
				st.Accessor("set", st.Block()),
			),
			st.Field("int", st.Var("a"), "static"),
		),
	)))

	var got []string
	for _, kind := range []syntax.Kind{syntax.KindMethodDeclaration, syntax.KindIndexerDeclaration, syntax.KindFieldDeclaration} {
		for _, sym := range memberSymbols(tree, match.New, first(tree, kind)) {
			got = append(got, sym.String())
		}
	}

	assert.Equal(t, []string{
		"N.C.G`2(ref int):int",
		"N.C.Item[int]:string",
		"N.C.get_Item(int):string",
		"N.C.set_Item(int,string)",
		"N.C.a:int",
	}, got)
}
