package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/enc"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/runner"
	"github.com/yaklabco/encheck/pkg/syntax"
)

func openStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult() *runner.Result {
	return &runner.Result{
		Documents: []runner.Outcome{
			{
				Pair: runner.Pair{Path: "C.cs"},
				Result: &enc.DocumentResult{
					Path: "C.cs",
					Outcome: &rude.Outcome{Diagnostics: []rude.Diagnostic{{
						Kind:     rude.RenamingCapturedVariable,
						RuleID:   "ENC003",
						Message:  "Renaming a captured variable",
						Severity: config.SeverityError,
						Span:     syntax.Span{StartLine: 5, StartColumn: 13},
					}}},
				},
			},
			{Pair: runner.Pair{Path: "notes.md"}, Skipped: true},
		},
		Stats: runner.Stats{
			Documents:        2,
			Analyzed:         1,
			Skipped:          1,
			Blocked:          1,
			DiagnosticsTotal: 1,
			Duration:         12 * time.Millisecond,
		},
	}
}

func TestRecordAndList(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := s.Record(ctx, "check", []string{"Baseline"}, sampleResult())
	require.NoError(t, err)
	second, err := s.Record(ctx, "session:demo", []string{"Baseline", "NewTypeDefinition"}, &runner.Result{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID, "newest first")
	assert.Equal(t, first, runs[1])

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	entries, err := s.Diagnostics(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{
		Path:     "C.cs",
		RuleID:   "ENC003",
		Kind:     rude.RenamingCapturedVariable.String(),
		Severity: "error",
		Line:     5,
		Column:   13,
		Message:  "Renaming a captured variable",
	}}, entries)
}

func TestGet(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	run, err := s.Record(ctx, "check", nil, sampleResult())
	require.NoError(t, err)

	got, err := s.Get(ctx, run.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Empty(t, got.Capabilities)

	_, err = s.Get(ctx, "ffffffff-0000")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestPrune(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := context.Background()

	for range 3 {
		_, err := s.Record(ctx, "check", nil, sampleResult())
		require.NoError(t, err)
	}

	removed, err := s.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	entries, err := s.Diagnostics(ctx, runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
