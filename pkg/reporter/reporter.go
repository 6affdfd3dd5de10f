// Package reporter writes analysis results in the supported output formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/encheck/pkg/analysis"
	"github.com/yaklabco/encheck/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of rude edits reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.WorkingDir = opts.WorkingDir
	if opts.SortBy != "" {
		analysisOpts.SortBy = opts.SortBy
	}
	return &reporterFacade{renderer: renderer, analysisOpts: analysisOpts}
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	if format == FormatText {
		return NewTextReporter(opts), nil
	}
	if opts.SortBy != "" && !opts.SortBy.IsValid() {
		return nil, fmt.Errorf("unknown sort order %q", opts.SortBy)
	}

	var renderer Renderer
	switch format {
	case FormatJSON:
		renderer = NewJSONRenderer(opts)
	case FormatSARIF:
		renderer = NewSARIFRenderer(opts)
	case FormatSummary:
		renderer = NewSummaryRenderer(opts)
	case FormatMsgpack:
		renderer = NewMsgpackRenderer(opts)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return newRendererFacade(renderer, opts), nil
}
