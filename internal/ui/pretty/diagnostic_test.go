package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
)

func renamedCapture() *rude.Diagnostic {
	return &rude.Diagnostic{
		Kind:     rude.RenamingCapturedVariable,
		RuleID:   "ENC003",
		RuleName: "renaming-captured-variable",
		Message:  "Renaming a captured variable, from 'x' to 'y'",
		Severity: config.SeverityError,
		Span:     syntax.Span{StartLine: 10, StartColumn: 13},
	}
}

func TestFormatDiagnostic_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatDiagnostic("src/C.cs", renamedCapture(), false, "")

	assert.Contains(t, result, "src/C.cs:10:13")
	assert.Contains(t, result, "error")
	assert.Contains(t, result, "from 'x' to 'y'")
	assert.Contains(t, result, "(renaming-captured-variable)")
	assert.NotContains(t, result, "Requires:")
}

func TestFormatDiagnostic_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatDiagnostic("C.cs", renamedCapture(), true, "        int y = 1;")

	assert.Contains(t, result, "int y = 1;")
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	assert.Equal(t, strings.Repeat(" ", 8+12)+"^", lines[len(lines)-1])
}

func TestFormatDiagnostic_Gated(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := renamedCapture()
	diag.Required = capability.Of(capability.AddMethodToExistingType, capability.NewTypeDefinition)

	result := styles.FormatDiagnostic("C.cs", diag, false, "")

	assert.Contains(t, result, "Requires:")
	assert.Contains(t, result, "AddMethodToExistingType")
	assert.Contains(t, result, "NewTypeDefinition")
}

func TestFormatDiagnostic_WithRuleFormat(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		format   config.RuleFormat
		contains string
		excludes string
	}{
		{config.RuleFormatName, "(renaming-captured-variable)", "(ENC003)"},
		{config.RuleFormatID, "(ENC003)", "(renaming-captured-variable)"},
		{config.RuleFormatCombined, "(ENC003/renaming-captured-variable)", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			result := styles.FormatDiagnosticWithFormat("C.cs", renamedCapture(), false, "", tt.format)
			assert.Contains(t, result, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, result, tt.excludes)
			}
		})
	}
}

func TestFormatApplicable(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := renamedCapture()
	diag.Remediation = "add-method"

	result := styles.FormatApplicable("C.cs", diag)
	assert.Contains(t, result, "applicable")
	assert.Contains(t, result, "via add-method")
}

func TestFormatSeverity_AllLevels(t *testing.T) {
	styles := pretty.NewStyles(false)

	for _, sev := range []config.Severity{config.SeverityError, config.SeverityWarning, config.SeverityInfo} {
		assert.Equal(t, string(sev), styles.FormatSeverity(sev))
	}
	assert.Equal(t, "fatal", styles.FormatSeverity("fatal"))
}

func TestFormatSourceContext_ZeroColumn(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("return x;", 0)

	assert.Contains(t, result, "return x;")
	assert.NotContains(t, result, "^")
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "C.cs", styles.FormatFileHeader("C.cs", 0))
	assert.Equal(t, "C.cs (1 rude edit)", styles.FormatFileHeader("C.cs", 1))
	assert.Equal(t, "C.cs (5 rude edits)", styles.FormatFileHeader("C.cs", 5))
}
