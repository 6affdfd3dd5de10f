package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/analysis"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90
	ruleColWidth      = 36
	fileColWidth      = 60
	numColWidth       = 7
	warnColWidth      = 8
	gatedColWidth     = 7
	maxRuleNameLength = 34
	maxFilePathLength = 58
)

// padRight pads a string to the given width with spaces on the right.
// Must be called before styling.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// Must be called before styling.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Issues == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No rude edits found"))
		r.renderTotals(report.Totals)
		return nil
	}

	r.renderRuleTable(report.ByRule)
	fmt.Fprintln(r.out)
	r.renderFileTable(report.ByFile)
	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.Separator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) renderRuleTable(rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.ColumnHeader.Render(padRight("Rule", ruleColWidth)),
		r.styles.ColumnHeader.Render(padLeft("Count", numColWidth)),
		r.styles.ColumnHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.ColumnHeader.Render(padLeft("Warnings", warnColWidth)),
		r.styles.ColumnHeader.Render(padLeft("Gated", gatedColWidth)),
	)
	r.separator()

	for _, rule := range rules {
		name := rule.RuleName
		if name == "" {
			name = rule.RuleID
		}
		if len(name) > maxRuleNameLength {
			name = name[:maxRuleNameLength] + "…"
		}

		padded := padRight(name, ruleColWidth)
		switch {
		case rule.Errors > 0:
			padded = r.styles.RowBlocking.Render(padded)
		case rule.Warnings > 0:
			padded = r.styles.RowWarning.Render(padded)
		}

		gated := padLeft("", gatedColWidth)
		if rule.Gated {
			gated = r.styles.Gated.Render(padLeft("✓", gatedColWidth))
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			padded,
			padLeft(strconv.Itoa(rule.Issues), numColWidth),
			padLeft(strconv.Itoa(rule.Errors), numColWidth),
			padLeft(strconv.Itoa(rule.Warnings), warnColWidth),
			gated,
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Documents Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.ColumnHeader.Render(padRight("Document", fileColWidth)),
		r.styles.ColumnHeader.Render(padLeft("Count", numColWidth)),
		r.styles.ColumnHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.ColumnHeader.Render(padLeft("Warnings", warnColWidth)),
	)
	r.separator()

	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		padded := padRight(path, fileColWidth)
		switch {
		case file.Blocked:
			padded = r.styles.RowBlocking.Render(padded)
		case file.Warnings > 0:
			padded = r.styles.RowWarning.Render(padded)
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			padded,
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(file.Errors), numColWidth),
			padLeft(strconv.Itoa(file.Warnings), warnColWidth),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	word := "rude edits"
	if totals.Issues == 1 {
		word = "rude edit"
	}
	line := fmt.Sprintf("%d %s", totals.Issues, word)

	var severityParts []string
	if totals.Errors > 0 {
		severityParts = append(severityParts, r.styles.Error.Render(fmt.Sprintf("%d errors", totals.Errors)))
	}
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(fmt.Sprintf("%d warnings", totals.Warnings)))
	}
	if len(severityParts) > 0 {
		line += " (" + strings.Join(severityParts, ", ") + ")"
	}

	line += fmt.Sprintf(" in %d of %d documents; %d blocked, %d applicable, %d semantic edits",
		totals.DocumentsWithIssues, totals.Analyzed, totals.Blocked, totals.Applicable, totals.SemanticEdits)

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+line)
}
