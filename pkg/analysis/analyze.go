// Package analysis aggregates a runner result into the views every
// renderer shares: a flat diagnostic list, per-document and per-rule
// tallies, the applicable gated edits and the projected semantic edits.
package analysis

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/encheck/pkg/projector"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// Severity string constants for internal use.
const (
	severityError   = "error"
	severityWarning = "warning"
	severityInfo    = "info"
)

// makeRelativePath converts a path to a path relative to workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	ruleMap   map[string]*RuleAnalysis
	fileMap   map[string]*FileAnalysis
	ruleFiles map[string]map[string]bool
	fileRules map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		ruleMap:   make(map[string]*RuleAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		ruleFiles: make(map[string]map[string]bool),
		fileRules: make(map[string]map[string]bool),
	}
}

// normalizeSeverity returns the severity string, defaulting to error.
// Rude edits without a configured severity block the session.
func normalizeSeverity(sev string) string {
	if sev == "" {
		return severityError
	}
	return sev
}

func incrementSeverityCounts(severity string, totals *Totals, fa *FileAnalysis, ra *RuleAnalysis) {
	switch severity {
	case severityError:
		totals.Errors++
		fa.Errors++
		ra.Errors++
	case severityWarning:
		totals.Warnings++
		fa.Warnings++
		ra.Warnings++
	case severityInfo:
		totals.Infos++
		fa.Infos++
		ra.Infos++
	}
}

func (ctx *analysisContext) file(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileRules[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) rule(ruleID, ruleName string) *RuleAnalysis {
	if _, ok := ctx.ruleMap[ruleID]; !ok {
		ctx.ruleMap[ruleID] = &RuleAnalysis{RuleID: ruleID, RuleName: ruleName}
		ctx.ruleFiles[ruleID] = make(map[string]bool)
	}
	return ctx.ruleMap[ruleID]
}

// newDiagnosticEntry builds a DiagnosticEntry from a rude edit diagnostic.
func newDiagnosticEntry(path, severity string, diag *rude.Diagnostic) DiagnosticEntry {
	return DiagnosticEntry{
		FilePath:    path,
		RuleID:      diag.RuleID,
		RuleName:    diag.RuleName,
		Kind:        diag.Kind.String(),
		Code:        diag.Kind.Code(),
		Severity:    severity,
		Message:     diag.Message,
		StartLine:   diag.Span.StartLine,
		StartColumn: diag.Span.StartColumn,
		EndLine:     diag.Span.EndLine,
		EndColumn:   diag.Span.EndColumn,
		Side:        diag.Side.String(),
		Blocking:    diag.Blocking(),
		Required:    diag.Required.Names(),
		Remediation: diag.Remediation,
	}
}

func newEditEntry(path string, edit *projector.SemanticEdit) EditEntry {
	entry := EditEntry{
		FilePath:               path,
		Kind:                   edit.Kind.String(),
		SymbolKind:             edit.Symbol.Kind.String(),
		Symbol:                 edit.Symbol.String(),
		PreserveLocalVariables: edit.PreserveLocalVariables,
		Partial:                edit.Partial,
		Blocked:                edit.Blocked,
	}
	if !edit.Container.IsZero() {
		entry.Container = edit.Container.String()
	}
	return entry
}

func (ctx *analysisContext) buildByRule(opts Options) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(ctx.ruleMap))
	for ruleID, ra := range ctx.ruleMap {
		for f := range ctx.ruleFiles[ruleID] {
			ra.Files = append(ra.Files, f)
		}
		slices.Sort(ra.Files)
		result = append(result, *ra)
	}
	sortRuleAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Issues == 0 {
			continue
		}
		for r := range ctx.fileRules[path] {
			fa.Rules = append(fa.Rules, r)
		}
		slices.Sort(fa.Rules)
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through the documents to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	report.Totals.Documents = len(result.Documents)
	ctx := newAnalysisContext()

	for i := range result.Documents {
		doc := &result.Documents[i]
		displayPath := makeRelativePath(doc.Pair.Path, opts.WorkingDir)

		switch {
		case doc.Skipped:
			report.Totals.Skipped++
			continue
		case doc.Error != nil:
			report.Totals.Errored++
			report.Failures = append(report.Failures, FailureEntry{FilePath: displayPath, Error: doc.Error.Error()})
			continue
		case doc.Result == nil || doc.Result.Outcome == nil:
			continue
		}

		report.Totals.Analyzed++
		if doc.Stale {
			report.Totals.Stale++
		}
		if doc.Result.HasBlocking() {
			report.Totals.Blocked++
		}

		outcome := doc.Result.Outcome
		if len(outcome.Diagnostics) > 0 {
			report.Totals.DocumentsWithIssues++
		}

		fa := ctx.file(displayPath)
		fa.Blocked = doc.Result.HasBlocking()

		for j := range outcome.Diagnostics {
			diag := &outcome.Diagnostics[j]
			severity := normalizeSeverity(string(diag.Severity))

			report.Totals.Issues++
			fa.Issues++
			ctx.fileRules[displayPath][diag.RuleID] = true

			ra := ctx.rule(diag.RuleID, diag.RuleName)
			ra.Issues++
			if diag.Gated() {
				ra.Gated = true
			}
			ctx.ruleFiles[diag.RuleID][displayPath] = true
			incrementSeverityCounts(severity, &report.Totals, fa, ra)

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics, newDiagnosticEntry(displayPath, severity, diag))
			}
		}

		report.Totals.Applicable += len(outcome.Applicable)
		if opts.IncludeDiagnostics {
			for j := range outcome.Applicable {
				diag := &outcome.Applicable[j]
				report.Applicable = append(report.Applicable,
					newDiagnosticEntry(displayPath, normalizeSeverity(string(diag.Severity)), diag))
			}
		}

		report.Totals.SemanticEdits += len(doc.Result.SemanticEdits)
		if opts.IncludeEdits {
			for j := range doc.Result.SemanticEdits {
				report.Edits = append(report.Edits, newEditEntry(displayPath, &doc.Result.SemanticEdits[j]))
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}
