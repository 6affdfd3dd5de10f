package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/encheck/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordDocument        = "document"
	wordDocuments       = "documents"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 rude edits (2 errors, 1 warning) in 2 documents, 1 applicable, 4 semantic edits".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No rude edits") +
			s.Dim.Render(fmt.Sprintf(" (%d %s analyzed)", stats.Analyzed, plural(stats.Analyzed, wordDocument, wordDocuments)))
		if stats.SemanticEdits > 0 {
			msg += ", " + fmt.Sprintf("%d semantic %s", stats.SemanticEdits, plural(stats.SemanticEdits, "edit", "edits"))
		}
		if stats.Errored > 0 {
			msg += ", " + s.Failure.Render(fmt.Sprintf("%d failed", stats.Errored))
		}
		return msg + "\n"
	}

	var severityParts []string
	if errors := stats.DiagnosticsBySeverity["error"]; errors > 0 {
		severityParts = append(severityParts, s.Error.Render(fmt.Sprintf("%d %s", errors, plural(errors, "error", "errors"))))
	}
	if warnings := stats.DiagnosticsBySeverity["warning"]; warnings > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", warnings, plural(warnings, "warning", "warnings"))))
	}
	if infos := stats.DiagnosticsBySeverity["info"]; infos > 0 {
		severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", infos)))
	}

	head := fmt.Sprintf("%d rude %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "edit", "edits"))
	if len(severityParts) > 0 {
		head += " (" + strings.Join(severityParts, ", ") + ")"
	}

	parts := []string{head}
	if stats.Blocked > 0 {
		parts[0] += fmt.Sprintf(" in %d %s", stats.Blocked, plural(stats.Blocked, wordDocument, wordDocuments))
	}
	if stats.Applicable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d applicable", stats.Applicable)))
	}
	if stats.SemanticEdits > 0 {
		parts = append(parts, fmt.Sprintf("%d semantic %s", stats.SemanticEdits, plural(stats.SemanticEdits, "edit", "edits")))
	}
	if stats.Errored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.Errored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Documents", s.SummaryValue.Render(strconv.Itoa(stats.Documents)))
	row("Analyzed", s.SummaryValue.Render(strconv.Itoa(stats.Analyzed)))
	if stats.Skipped > 0 {
		row("Skipped", s.Dim.Render(strconv.Itoa(stats.Skipped)))
	}
	if stats.Errored > 0 {
		row("Failed", s.Failure.Render(strconv.Itoa(stats.Errored)))
	}
	if stats.Stale > 0 {
		row("Stale", s.Warning.Render(strconv.Itoa(stats.Stale)))
	}

	builder.WriteString("\n")
	row("Rude edits", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	if errors := stats.DiagnosticsBySeverity["error"]; errors > 0 {
		row("  Errors", s.Error.Render(strconv.Itoa(errors)))
	}
	if warnings := stats.DiagnosticsBySeverity["warning"]; warnings > 0 {
		row("  Warnings", s.Warning.Render(strconv.Itoa(warnings)))
	}
	if infos := stats.DiagnosticsBySeverity["info"]; infos > 0 {
		row("  Info", s.Info.Render(strconv.Itoa(infos)))
	}
	row("Applicable", s.SummaryValue.Render(strconv.Itoa(stats.Applicable)))
	row("Semantic edits", s.SummaryValue.Render(strconv.Itoa(stats.SemanticEdits)))

	builder.WriteString("\n")
	switch {
	case stats.Blocked > 0:
		builder.WriteString(s.Failure.Render(fmt.Sprintf("Edit blocked in %d %s",
			stats.Blocked, plural(stats.Blocked, wordDocument, wordDocuments))))
	case stats.Errored > 0:
		builder.WriteString(s.Warning.Render("Edit analyzed with failures"))
	default:
		builder.WriteString(s.Success.Render("Edit can be applied"))
	}
	builder.WriteString("\n")

	return builder.String()
}
