package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/encheck/pkg/projector"
)

// FormatEdits renders semantic edits as an aligned list:
//
//	Update  method  C.M`0():void  [preserve]
func (s *Styles) FormatEdits(edits []projector.SemanticEdit) string {
	if len(edits) == 0 {
		return ""
	}

	kindWidth, symbolKindWidth := 0, 0
	for _, e := range edits {
		kindWidth = max(kindWidth, lipgloss.Width(e.Kind.String()))
		symbolKindWidth = max(symbolKindWidth, lipgloss.Width(e.Symbol.Kind.String()))
	}

	var builder strings.Builder
	for _, e := range edits {
		kind := s.editStyle(e).Width(kindWidth).Render(e.Kind.String())
		symbolKind := s.Dim.Width(symbolKindWidth).Render(e.Symbol.Kind.String())

		symbol := e.Symbol.String()
		if e.Blocked {
			symbol = s.EditBlocked.Render(symbol)
		}

		var flags []string
		if e.PreserveLocalVariables {
			flags = append(flags, "preserve")
		}
		if e.Partial != "" {
			flags = append(flags, "partial "+e.Partial)
		}
		if e.Blocked {
			flags = append(flags, "blocked")
		}

		builder.WriteString("  " + kind + "  " + symbolKind + "  " + symbol)
		if len(flags) > 0 {
			builder.WriteString("  " + s.Dim.Render("["+strings.Join(flags, ", ")+"]"))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

func (s *Styles) editStyle(e projector.SemanticEdit) lipgloss.Style {
	switch e.Kind {
	case projector.Insert:
		return s.EditInsert
	case projector.Delete:
		return s.EditDelete
	default:
		return s.EditUpdate
	}
}
