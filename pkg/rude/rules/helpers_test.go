package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/capture"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
	st "github.com/yaklabco/encheck/pkg/syntax/syntaxtest"
)

// input describes one declaration to classify. Zero roots select the first
// method of each tree.
type input struct {
	oldTree, newTree *syntax.Tree
	oldRoot, newRoot syntax.NodeID
	global           bool
	caps             capability.Set
	cfg              *config.Config
}

func firstMethod(tree *syntax.Tree) syntax.NodeID {
	return tree.FindByKind(tree.Root(), syntax.KindMethodDeclaration)[0]
}

func asyncBody(stmts ...st.Spec) *syntax.Tree {
	return st.Tree(st.Unit(st.Class("C", st.Method("M", "void", st.Params(), st.Block(stmts...), "async"))))
}

func classify(t *testing.T, in input) *rude.Outcome {
	t.Helper()

	ctx := context.Background()
	m, err := match.Compute(ctx, in.oldTree, in.newTree)
	require.NoError(t, err)
	script, err := editscript.Build(m)
	require.NoError(t, err)

	oldRoot, newRoot := in.oldRoot, in.newRoot
	if !in.global && oldRoot == 0 && newRoot == 0 {
		oldRoot, newRoot = firstMethod(in.oldTree), firstMethod(in.newTree)
	}

	cfg := in.cfg
	if cfg == nil {
		cfg = config.NewConfig()
	}

	rc := rude.NewContext(ctx, script, oldRoot, newRoot, cfg)
	rc.Path = "test.cs"
	rc.Global = in.global
	rc.OldModel = semantic.NewLexicalModel(in.oldTree)
	rc.NewModel = semantic.NewLexicalModel(in.newTree)
	if !in.caps.IsEmpty() {
		rc.Capabilities = in.caps
	}
	if !in.global && oldRoot != syntax.NoNode && newRoot != syntax.NoNode {
		rc.Capture, err = capture.Analyze(ctx, capture.Input{
			Match:    m,
			OldModel: rc.OldModel,
			NewModel: rc.NewModel,
			OldRoot:  oldRoot,
			NewRoot:  newRoot,
		})
		require.NoError(t, err)
	}

	registry := rude.NewRegistry()
	RegisterAll(registry)
	outcome, err := rude.NewEngine(registry).Classify(ctx, rc)
	require.NoError(t, err)
	require.Empty(t, outcome.RuleErrors)
	return outcome
}

func ofKind(diags []rude.Diagnostic, kind rude.Kind) []rude.Diagnostic {
	var out []rude.Diagnostic
	for _, d := range diags {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func kindsOf(diags []rude.Diagnostic) []rude.Kind {
	out := make([]rude.Kind, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}
