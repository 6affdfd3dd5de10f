package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/csharp"
	"github.com/yaklabco/encheck/pkg/enc"
	"github.com/yaklabco/encheck/pkg/rude"
)

const capturing = `class C
{
    void M()
    {
        int %s = 1;
        System.Func<int> f = () => %s;
    }
}
`

func capturingSource(name string) []byte {
	return []byte(fmt.Sprintf(capturing, name, name))
}

func newRunner(t *testing.T) *Runner {
	t.Helper()

	analyzer, err := enc.NewAnalyzer(nil)
	require.NoError(t, err)
	return New(analyzer)
}

func TestRun_NoDocuments(t *testing.T) {
	t.Parallel()

	_, err := newRunner(t).Run(context.Background(), nil, Options{})
	require.ErrorIs(t, err, ErrNoDocuments)
}

func TestRun_RenamedCapture(t *testing.T) {
	t.Parallel()

	result, err := newRunner(t).Run(context.Background(), []Pair{{
		Path: "C.cs",
		Old:  capturingSource("x"),
		New:  capturingSource("X"),
	}}, Options{})
	require.NoError(t, err)

	require.Len(t, result.Documents, 1)
	outcome := result.Documents[0]
	require.NoError(t, outcome.Error)
	require.NotNil(t, outcome.Result)

	var kinds []rude.Kind
	for _, d := range outcome.Result.Outcome.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []rude.Kind{rude.RenamingCapturedVariable}, kinds)
	assert.True(t, result.HasBlocking())
	assert.Equal(t, 1, result.Stats.Analyzed)
	assert.Equal(t, 1, result.Stats.Blocked)
	assert.Equal(t, 1, result.Stats.DiagnosticsBySeverity["error"])
}

func TestRun_OutcomesKeepInputOrder(t *testing.T) {
	t.Parallel()

	pairs := []Pair{
		{Path: "A.cs", Old: capturingSource("x"), New: capturingSource("x")},
		{Path: "B.cs", Old: []byte("class C {"), New: capturingSource("x")},
		{Path: "notes.md", Old: []byte("# old"), New: []byte("# new")},
		{Path: "D.cs", Old: capturingSource("a"), New: capturingSource("b")},
	}

	result, err := newRunner(t).Run(context.Background(), pairs, Options{Jobs: 2, SkipNonCSharp: true})
	require.NoError(t, err)

	require.Len(t, result.Documents, len(pairs))
	for i, outcome := range result.Documents {
		assert.Equal(t, pairs[i].Path, outcome.Pair.Path)
	}

	assert.Empty(t, result.Documents[0].Result.Outcome.Diagnostics)
	require.ErrorIs(t, result.Documents[1].Error, csharp.ErrSyntax)
	assert.True(t, result.Documents[2].Skipped)
	assert.True(t, result.Documents[3].Result.HasBlocking())

	assert.Equal(t, Stats{
		Documents:             4,
		Analyzed:              2,
		Skipped:               1,
		Errored:               1,
		Blocked:               1,
		DiagnosticsTotal:      1,
		DiagnosticsBySeverity: map[string]int{"error": 1},
		DiagnosticsByRule:     result.Stats.DiagnosticsByRule,
		SemanticEdits:         result.Stats.SemanticEdits,
		Duration:              result.Stats.Duration,
	}, result.Stats)
	assert.True(t, result.HasErrors())
}

func TestRun_FilesAndStaleness(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.cs")
	newPath := filepath.Join(dir, "new.cs")
	require.NoError(t, os.WriteFile(oldPath, capturingSource("x"), 0o644))
	require.NoError(t, os.WriteFile(newPath, capturingSource("x"), 0o644))

	result, err := newRunner(t).Run(context.Background(),
		[]Pair{{Path: "C.cs", OldPath: oldPath, NewPath: newPath}},
		Options{CheckStale: true})
	require.NoError(t, err)
	require.NoError(t, result.Documents[0].Error)
	assert.False(t, result.Documents[0].Stale)

	result, err = newRunner(t).Run(context.Background(),
		[]Pair{{Path: "C.cs", OldPath: filepath.Join(dir, "missing.cs"), NewPath: newPath}},
		Options{})
	require.NoError(t, err)
	assert.Error(t, result.Documents[0].Error)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newRunner(t).Run(ctx, []Pair{{Path: "C.cs", Old: capturingSource("x"), New: capturingSource("X")}}, Options{})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Empty(t, result.Documents)
}
