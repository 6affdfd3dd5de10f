package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/pkg/csharp"
	"github.com/yaklabco/encheck/pkg/enc"
	"github.com/yaklabco/encheck/pkg/fsutil"
	"github.com/yaklabco/encheck/pkg/langdetect"
)

// ErrNoDocuments is returned when a run has nothing to analyze.
var ErrNoDocuments = errors.New("no documents to analyze")

// Runner analyzes document pairs concurrently.
type Runner struct {
	Analyzer *enc.Analyzer
	Parser   *csharp.Parser
}

// New creates a runner around an analyzer.
func New(analyzer *enc.Analyzer) *Runner {
	return &Runner{Analyzer: analyzer, Parser: csharp.NewParser()}
}

// Run analyzes every pair with at most opts.Jobs documents in flight.
// Outcomes keep input order. Per-document failures are recorded in their
// outcome; only cancellation fails the run, and the partial result is
// returned alongside the error.
func (r *Runner) Run(ctx context.Context, pairs []Pair, opts Options) (*Result, error) {
	if len(pairs) == 0 {
		return nil, ErrNoDocuments
	}

	start := time.Now()
	logger := logging.FromContext(ctx)
	jobs := opts.jobs(len(pairs))
	logger.Debug("run started", logging.FieldDocuments, len(pairs), logging.FieldJobs, jobs)

	outcomes := make([]Outcome, len(pairs))
	done := make([]bool, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := r.analyze(gctx, pairs[i], opts)
			if err != nil {
				return err
			}
			outcomes[i], done[i] = outcome, true
			return nil
		})
	}
	waitErr := g.Wait()

	result := &Result{Documents: make([]Outcome, 0, len(pairs)), Stats: newStats(len(pairs))}
	for i := range outcomes {
		if done[i] {
			result.accumulate(outcomes[i])
		}
	}
	result.Stats.Duration = time.Since(start)

	if waitErr != nil || ctx.Err() != nil {
		if ctx.Err() != nil {
			waitErr = ctx.Err()
		}
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}

	logger.Debug("run finished",
		logging.FieldDocuments, result.Stats.Analyzed,
		logging.FieldDocumentsBlocked, result.Stats.Blocked,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldDuration, result.Stats.Duration,
	)
	return result, nil
}

// analyze runs one pair. The returned error is non-nil only on
// cancellation.
func (r *Runner) analyze(ctx context.Context, pair Pair, opts Options) (Outcome, error) {
	outcome := Outcome{Pair: pair}

	oldSrc, oldSnap, err := load(ctx, pair.Old, pair.OldPath)
	if err != nil {
		return failed(ctx, outcome, err)
	}
	newSrc, newSnap, err := load(ctx, pair.New, pair.NewPath)
	if err != nil {
		return failed(ctx, outcome, err)
	}
	return r.analyzeSources(ctx, outcome, oldSrc, newSrc, []*fsutil.Snapshot{oldSnap, newSnap}, opts)
}

func (r *Runner) analyzeSources(
	ctx context.Context,
	outcome Outcome,
	oldSrc, newSrc []byte,
	snaps []*fsutil.Snapshot,
	opts Options,
) (Outcome, error) {
	pair := outcome.Pair
	sample := newSrc
	if len(sample) == 0 {
		sample = oldSrc
	}
	if opts.SkipNonCSharp && !langdetect.IsCSharp(pair.Path, sample) {
		outcome.Skipped = true
		return outcome, nil
	}

	oldTree, err := r.Parser.Parse(ctx, pair.Path, oldSrc)
	if err != nil {
		return failed(ctx, outcome, fmt.Errorf("old version: %w", err))
	}
	newTree, err := r.Parser.Parse(ctx, pair.Path, newSrc)
	if err != nil {
		return failed(ctx, outcome, fmt.Errorf("new version: %w", err))
	}

	doc, err := r.Analyzer.AnalyzeDocument(ctx, enc.Document{Path: pair.Path, Old: oldTree, New: newTree})
	if err != nil {
		return failed(ctx, outcome, err)
	}
	outcome.Result = doc

	if opts.CheckStale {
		for _, snap := range snaps {
			if snap == nil {
				continue
			}
			changed, err := fsutil.Changed(ctx, snap)
			if err != nil {
				return failed(ctx, outcome, err)
			}
			outcome.Stale = outcome.Stale || changed
		}
	}
	return outcome, nil
}

func failed(ctx context.Context, outcome Outcome, err error) (Outcome, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}
	logging.FromContext(ctx).Warn("document failed", logging.FieldPath, outcome.Pair.Path, logging.FieldError, err)
	outcome.Result = nil
	outcome.Error = err
	return outcome, nil
}

// load returns inline content, the file at path, or an empty document.
func load(ctx context.Context, inline []byte, path string) ([]byte, *fsutil.Snapshot, error) {
	switch {
	case inline != nil:
		return inline, nil, nil
	case path == "":
		return []byte{}, nil, nil
	}
	return fsutil.ReadFile(ctx, path)
}
