package reporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/analysis"
)

func TestSummaryRenderer_EmptyReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	err := renderer.Render(context.Background(), &analysis.Report{Totals: analysis.Totals{Analyzed: 3, SemanticEdits: 2}})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "No rude edits found")
	assert.Contains(t, output, "Total: 0 rude edits in 0 of 3 documents; 0 blocked, 0 applicable, 2 semantic edits")
	assert.NotContains(t, output, "Rules Summary")
}

func TestSummaryRenderer_Tables(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	report := &analysis.Report{
		ByRule: []analysis.RuleAnalysis{
			{RuleID: "ENC003", RuleName: "renaming-captured-variable", Issues: 2, Errors: 2},
			{RuleID: "ENC007", RuleName: "insert-not-supported-by-runtime-with-a-long-name", Issues: 1, Errors: 1, Gated: true},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "src/C.cs", Issues: 3, Errors: 3, Blocked: true},
		},
		Totals: analysis.Totals{
			Analyzed:            1,
			DocumentsWithIssues: 1,
			Blocked:             1,
			Issues:              3,
			Errors:              3,
		},
	}

	require.NoError(t, renderer.Render(context.Background(), report))
	output := buf.String()

	assert.Contains(t, output, "Rules Summary")
	assert.Contains(t, output, "Documents Summary")
	assert.Contains(t, output, padRight("renaming-captured-variable", ruleColWidth)+"       2       2        0")
	assert.Contains(t, output, "insert-not-supported-by-runtime-wi…")
	assert.Contains(t, output, "✓")
	assert.Contains(t, output, "src/C.cs")
	assert.Contains(t, output, "Total: 3 rude edits (3 errors) in 1 of 1 documents; 1 blocked")

	rulesAt := strings.Index(output, "Rules Summary")
	docsAt := strings.Index(output, "Documents Summary")
	assert.Less(t, rulesAt, docsAt)
}

func TestSummaryRenderer_TruncatesLongPaths(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	long := strings.Repeat("nested/", 12) + "Program.cs"
	report := &analysis.Report{
		ByFile: []analysis.FileAnalysis{{Path: long, Issues: 1, Warnings: 1}},
		Totals: analysis.Totals{Issues: 1, Warnings: 1},
	}

	require.NoError(t, renderer.Render(context.Background(), report))
	assert.Contains(t, buf.String(), "…")
	assert.Contains(t, buf.String(), "Program.cs")
	assert.NotContains(t, buf.String(), long)
}

func TestPadding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "   ab", padLeft("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
	assert.Equal(t, "abcdef", padLeft("abcdef", 3))
}
