package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/runner"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// TextReporter formats results as styled terminal output, grouped by
// document.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Documents) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No documents to check."))
		}
		return 0, nil
	}

	var total int
	for i := range result.Documents {
		total += r.reportDocument(&result.Documents[i])
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportDocument writes one document block and returns its rude edit count.
func (r *TextReporter) reportDocument(doc *runner.Outcome) int {
	path := doc.Pair.Path

	if doc.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", doc.Error)),
		)
		return 0
	}
	if doc.Result == nil || doc.Result.Outcome == nil {
		return 0
	}

	outcome := doc.Result.Outcome
	showApplicable := r.opts.ShowApplicable && len(outcome.Applicable) > 0
	showEdits := r.opts.ShowEdits && len(doc.Result.SemanticEdits) > 0
	if len(outcome.Diagnostics) == 0 && !showApplicable && !showEdits && !doc.Stale {
		return 0
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(outcome.Diagnostics)))
	if doc.Stale {
		fmt.Fprintln(r.bw, "  "+r.styles.Warning.Render("changed on disk during analysis"))
	}

	for i := range outcome.Diagnostics {
		diag := &outcome.Diagnostics[i]
		var sourceLine string
		if r.opts.ShowContext {
			sourceLine = r.sourceLine(doc, diag)
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnosticWithFormat(path, diag, r.opts.ShowContext, sourceLine, r.opts.RuleFormat))
	}

	if showApplicable {
		for i := range outcome.Applicable {
			fmt.Fprint(r.bw, r.styles.FormatApplicable(path, &outcome.Applicable[i]))
		}
	}

	if showEdits {
		fmt.Fprintln(r.bw, "  "+r.styles.Bold.Render("Semantic edits"))
		fmt.Fprint(r.bw, r.styles.FormatEdits(doc.Result.SemanticEdits))
	}

	fmt.Fprintln(r.bw)
	return len(outcome.Diagnostics)
}

// sourceLine returns the line a diagnostic points at, taken from the
// version of the document its anchor belongs to.
func (r *TextReporter) sourceLine(doc *runner.Outcome, diag *rude.Diagnostic) string {
	if doc.Result.Match == nil {
		return ""
	}
	tree := doc.Result.Match.Tree(diag.Side)
	if tree == nil {
		return ""
	}
	return syntax.LineText(tree.Source, diag.Span.StartLine)
}
