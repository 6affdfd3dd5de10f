package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/rude"
)

// FormatDiagnostic formats a single rude edit for terminal output. The
// rule is shown by name.
func (s *Styles) FormatDiagnostic(path string, diag *rude.Diagnostic, showContext bool, sourceLine string) string {
	return s.FormatDiagnosticWithFormat(path, diag, showContext, sourceLine, config.RuleFormatName)
}

// FormatDiagnosticWithFormat formats a rude edit with a configurable rule
// identifier format.
func (s *Styles) FormatDiagnosticWithFormat(
	path string,
	diag *rude.Diagnostic,
	showContext bool,
	sourceLine string,
	ruleFormat config.RuleFormat,
) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		diag.Span.StartLine,
		diag.Span.StartColumn,
	)

	ruleDisplay := s.RuleID.Render("(" + config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName) + ")")

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		ruleDisplay,
	)

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Span.StartColumn))
	}

	if diag.Gated() {
		builder.WriteString("    " + s.Dim.Render("Requires:") + " " +
			s.Capability.Render(strings.Join(diag.Required.Names(), ", ")) + "\n")
	}

	return builder.String()
}

// FormatApplicable formats a gated edit the runtime accepts, with the
// alternate path it takes.
func (s *Styles) FormatApplicable(path string, diag *rude.Diagnostic) string {
	line := fmt.Sprintf("  %s:%d:%d  %s  %s",
		s.FilePath.Render(path),
		diag.Span.StartLine,
		diag.Span.StartColumn,
		s.Success.Render("applicable"),
		s.Message.Render(diag.Message),
	)
	if diag.Remediation != "" {
		line += "  " + s.Dim.Render("via "+diag.Remediation)
	}
	return line + "\n"
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	return s.ForSeverity(sev).Render(string(sev))
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	const indent = "        "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		builder.WriteString(indent + strings.Repeat(" ", column-1) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// FormatFileHeader formats a document header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch issueCount {
	case 0:
	case 1:
		header += s.Dim.Render(" (1 rude edit)")
	default:
		header += s.Dim.Render(fmt.Sprintf(" (%d rude edits)", issueCount))
	}
	return header
}
