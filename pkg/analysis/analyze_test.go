package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/enc"
	"github.com/yaklabco/encheck/pkg/projector"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/runner"
	"github.com/yaklabco/encheck/pkg/syntax"
)

func diag(kind rude.Kind, id, name string, sev config.Severity) rude.Diagnostic {
	return rude.Diagnostic{
		Kind:     kind,
		RuleID:   id,
		RuleName: name,
		Message:  kind.String(),
		Severity: sev,
		Span:     syntax.Span{StartLine: 3, StartColumn: 9, EndLine: 3, EndColumn: 20},
	}
}

func document(path string, diags []rude.Diagnostic, applicable []rude.Diagnostic, edits ...projector.SemanticEdit) runner.Outcome {
	return runner.Outcome{
		Pair: runner.Pair{Path: path},
		Result: &enc.DocumentResult{
			Path:          path,
			Outcome:       &rude.Outcome{Diagnostics: diags, Applicable: applicable},
			SemanticEdits: edits,
		},
	}
}

func sampleResult() *runner.Result {
	gated := diag(rude.InsertNotSupportedByRuntime, "ENC008", "function-insert", config.SeverityError)
	gated.Required = capability.Of(capability.AddMethodToExistingType)
	applicable := gated
	applicable.Remediation = "add-method"

	return &runner.Result{Documents: []runner.Outcome{
		document("A.cs", []rude.Diagnostic{
			diag(rude.RenamingCapturedVariable, "ENC003", "renaming-captured-variable", config.SeverityError),
			diag(rude.RenamingCapturedVariable, "ENC003", "renaming-captured-variable", config.SeverityError),
			diag(rude.UpdateMightNotHaveAnyEffect, "ENC012", "update-might-not-have-effect", config.SeverityWarning),
		}, nil, projector.SemanticEdit{
			Kind:    projector.Update,
			Symbol:  projector.Symbol{Kind: projector.SymbolMethod, Name: "M", Type: "C"},
			Blocked: true,
		}),
		document("B.cs", []rude.Diagnostic{gated}, nil),
		document("C.cs", nil, []rude.Diagnostic{applicable}, projector.SemanticEdit{
			Kind:                   projector.Insert,
			Symbol:                 projector.Symbol{Kind: projector.SymbolMethod, Name: "N", Type: "C"},
			Container:              projector.Symbol{Kind: projector.SymbolType, Name: "C"},
			PreserveLocalVariables: false,
		}),
		{Pair: runner.Pair{Path: "notes.md"}, Skipped: true},
		{Pair: runner.Pair{Path: "Broken.cs"}, Error: errors.New("syntax error")},
	}}
}

func TestAnalyze_EmptyResult(t *testing.T) {
	t.Parallel()

	report := Analyze(&runner.Result{}, DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.Equal(t, 0, report.Totals.Issues)
	assert.Empty(t, report.Diagnostics)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByRule)

	assert.NotNil(t, Analyze(nil, DefaultOptions()))
}

func TestAnalyze_CountsTotals(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	assert.Equal(t, Totals{
		Documents:           5,
		Analyzed:            3,
		Skipped:             1,
		Errored:             1,
		DocumentsWithIssues: 2,
		Blocked:             2,
		Issues:              4,
		Errors:              3,
		Warnings:            1,
		Applicable:          1,
		SemanticEdits:       2,
	}, report.Totals)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, FailureEntry{FilePath: "Broken.cs", Error: "syntax error"}, report.Failures[0])
}

func TestAnalyze_Entries(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	require.Len(t, report.Diagnostics, 4)
	first := report.Diagnostics[0]
	assert.Equal(t, "A.cs", first.FilePath)
	assert.Equal(t, "RenamingCapturedVariable", first.Kind)
	assert.Equal(t, rude.RenamingCapturedVariable.Code(), first.Code)
	assert.Equal(t, "old", first.Side)
	assert.True(t, first.Blocking)
	assert.Empty(t, first.Required)

	gated := report.Diagnostics[3]
	assert.Equal(t, []string{"AddMethodToExistingType"}, gated.Required)

	require.Len(t, report.Applicable, 1)
	assert.Equal(t, "add-method", report.Applicable[0].Remediation)

	require.Len(t, report.Edits, 2)
	assert.Equal(t, EditEntry{
		FilePath:   "A.cs",
		Kind:       "Update",
		SymbolKind: "method",
		Symbol:     "C.M",
		Blocked:    true,
	}, report.Edits[0])
	assert.Equal(t, "C", report.Edits[1].Container)
}

func TestAnalyze_GroupsByRule(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	require.Len(t, report.ByRule, 3)
	top := report.ByRule[0]
	assert.Equal(t, "ENC003", top.RuleID)
	assert.Equal(t, 2, top.Issues)
	assert.Equal(t, 2, top.Errors)
	assert.Equal(t, []string{"A.cs"}, top.Files)
	assert.False(t, top.Gated)

	for _, ra := range report.ByRule {
		if ra.RuleID == "ENC008" {
			assert.True(t, ra.Gated)
		}
	}
}

func TestAnalyze_GroupsByFile(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, FileAnalysis{
		Path:     "A.cs",
		Issues:   3,
		Errors:   2,
		Warnings: 1,
		Blocked:  true,
		Rules:    []string{"ENC003", "ENC012"},
	}, report.ByFile[0])
	assert.Equal(t, "B.cs", report.ByFile[1].Path)
}

func TestAnalyze_SortBy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sortBy SortField
		desc   bool
		want   []string
	}{
		{sortBy: SortByName, want: []string{"ENC003", "ENC008", "ENC012"}},
		{sortBy: SortByCount, desc: true, want: []string{"ENC003", "ENC008", "ENC012"}},
		{sortBy: SortByCount, want: []string{"ENC008", "ENC012", "ENC003"}},
		{sortBy: SortByBlocking, want: []string{"ENC003", "ENC008", "ENC012"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sortBy), func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			opts.SortBy, opts.SortDesc = tt.sortBy, tt.desc
			report := Analyze(sampleResult(), opts)

			var ids []string
			for _, ra := range report.ByRule {
				ids = append(ids, ra.RuleID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestAnalyze_ExcludeViews(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{})

	assert.Empty(t, report.Diagnostics)
	assert.Empty(t, report.Applicable)
	assert.Empty(t, report.Edits)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByRule)
	assert.Equal(t, 4, report.Totals.Issues)
}

func TestMakeRelativePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src/A.cs", makeRelativePath("/work/src/A.cs", "/work"))
	assert.Equal(t, "A.cs", makeRelativePath("A.cs", "/work"))
	assert.Equal(t, "/work/A.cs", makeRelativePath("/work/A.cs", ""))
}
