// Package pretty renders rude edit diagnostics, semantic edits and run
// summaries for the terminal with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/encheck/pkg/config"
)

// ANSI palette shared by every role.
const (
	colorRed    = lipgloss.Color("9")
	colorGreen  = lipgloss.Color("10")
	colorYellow = lipgloss.Color("11")
	colorBlue   = lipgloss.Color("12")
	colorCyan   = lipgloss.Color("14")
	colorGrey   = lipgloss.Color("8")
	colorLight  = lipgloss.Color("7")
)

// Styles holds one style per output role. The zero-color variant renders
// every role as plain text.
type Styles struct {
	// Severities and run outcomes.
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style

	// Diagnostic lines and their source context.
	FilePath   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Capability lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Semantic edits by kind; blocked edits are struck through.
	EditInsert  lipgloss.Style
	EditUpdate  lipgloss.Style
	EditDelete  lipgloss.Style
	EditBlocked lipgloss.Style

	// Summary block and per-rule/per-document tables.
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	ColumnHeader lipgloss.Style
	RowBlocking  lipgloss.Style
	RowWarning   lipgloss.Style
	Gated        lipgloss.Style
	Separator    lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// styler builds role styles, dropping colors and attributes when color is
// off.
type styler bool

func (c styler) style() lipgloss.Style { return lipgloss.NewStyle() }

func (c styler) fg(color lipgloss.Color) lipgloss.Style {
	if !c {
		return c.style()
	}
	return c.style().Foreground(color)
}

func (c styler) strong(color lipgloss.Color) lipgloss.Style {
	if !c {
		return c.style()
	}
	return c.fg(color).Bold(true)
}

func (c styler) bold() lipgloss.Style {
	return c.style().Bold(bool(c))
}

// NewStyles returns the role styles for the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	c := styler(colorEnabled)

	s := &Styles{
		Error:   c.strong(colorRed),
		Warning: c.strong(colorYellow),
		Info:    c.strong(colorBlue),
		Success: c.strong(colorGreen),
		Failure: c.strong(colorRed),

		FilePath:   c.bold(),
		RuleID:     c.fg(colorGrey),
		Message:    c.style(),
		Capability: c.fg(colorCyan),
		SourceLine: c.fg(colorLight),
		Caret:      c.fg(colorRed),

		EditInsert:  c.fg(colorGreen),
		EditUpdate:  c.fg(colorCyan),
		EditDelete:  c.fg(colorRed),
		EditBlocked: c.fg(colorGrey),

		SummaryTitle: c.bold(),
		SummaryValue: c.style(),
		ColumnHeader: c.strong(colorLight),
		RowBlocking:  c.fg(colorRed),
		RowWarning:   c.fg(colorYellow),
		Gated:        c.fg(colorCyan),
		Separator:    c.fg(colorGrey),

		Dim:  c.fg(colorGrey),
		Bold: c.bold(),
	}
	if colorEnabled {
		s.Capability = s.Capability.Italic(true)
		s.EditBlocked = s.EditBlocked.Strikethrough(true)
	}
	return s
}

// ForSeverity returns the style of a diagnostic severity. Unknown
// severities render as messages.
func (s *Styles) ForSeverity(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return s.Error
	case config.SeverityWarning:
		return s.Warning
	case config.SeverityInfo:
		return s.Info
	default:
		return s.Message
	}
}

// IsColorEnabled resolves a color mode for writer. In auto mode color is
// used only on terminals and only when NO_COLOR is unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch config.ColorMode(mode) {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
