package analysis

import "time"

// Report contains pre-computed views of a run.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Diagnostics is the flat list for detailed output.
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`

	// Applicable lists gated edits the runtime can apply through an
	// alternate path.
	Applicable []DiagnosticEntry `json:"applicable,omitempty" msgpack:"applicable,omitempty"`

	// Edits is the flat list of semantic edits.
	Edits []EditEntry `json:"semanticEdits,omitempty" msgpack:"semanticEdits,omitempty"`

	// Failures lists documents that could not be analyzed.
	Failures []FailureEntry `json:"failures,omitempty" msgpack:"failures,omitempty"`

	// ByFile groups diagnostics by document path.
	ByFile []FileAnalysis `json:"byFile,omitempty" msgpack:"byFile,omitempty"`

	// ByRule groups diagnostics by rule.
	ByRule []RuleAnalysis `json:"byRule,omitempty" msgpack:"byRule,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary" msgpack:"summary"`

	// Version is the report format version.
	Version string `json:"version" msgpack:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
}

// DiagnosticEntry represents a single rude edit in the report.
type DiagnosticEntry struct {
	FilePath    string   `json:"filePath" msgpack:"filePath"`
	RuleID      string   `json:"ruleId" msgpack:"ruleId"`
	RuleName    string   `json:"ruleName" msgpack:"ruleName"`
	Kind        string   `json:"kind" msgpack:"kind"`
	Code        int      `json:"code" msgpack:"code"`
	Severity    string   `json:"severity" msgpack:"severity"`
	Message     string   `json:"message" msgpack:"message"`
	StartLine   int      `json:"startLine" msgpack:"startLine"`
	StartColumn int      `json:"startColumn" msgpack:"startColumn"`
	EndLine     int      `json:"endLine" msgpack:"endLine"`
	EndColumn   int      `json:"endColumn" msgpack:"endColumn"`
	Side        string   `json:"side" msgpack:"side"`
	Blocking    bool     `json:"blocking" msgpack:"blocking"`
	Required    []string `json:"requiredCapabilities,omitempty" msgpack:"requiredCapabilities,omitempty"`
	Remediation string   `json:"remediation,omitempty" msgpack:"remediation,omitempty"`
}

// EditEntry represents a semantic edit.
type EditEntry struct {
	FilePath               string `json:"filePath" msgpack:"filePath"`
	Kind                   string `json:"kind" msgpack:"kind"`
	SymbolKind             string `json:"symbolKind" msgpack:"symbolKind"`
	Symbol                 string `json:"symbol" msgpack:"symbol"`
	Container              string `json:"container,omitempty" msgpack:"container,omitempty"`
	PreserveLocalVariables bool   `json:"preserveLocalVariables" msgpack:"preserveLocalVariables"`
	Partial                string `json:"partial,omitempty" msgpack:"partial,omitempty"`
	Blocked                bool   `json:"blocked" msgpack:"blocked"`
}

// FailureEntry records a document that could not be analyzed.
type FailureEntry struct {
	FilePath string `json:"filePath" msgpack:"filePath"`
	Error    string `json:"error" msgpack:"error"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Documents           int `json:"documents" msgpack:"documents"`
	Analyzed            int `json:"analyzed" msgpack:"analyzed"`
	Skipped             int `json:"skipped" msgpack:"skipped"`
	Errored             int `json:"errored" msgpack:"errored"`
	Stale               int `json:"stale" msgpack:"stale"`
	DocumentsWithIssues int `json:"documentsWithIssues" msgpack:"documentsWithIssues"`
	Blocked             int `json:"blocked" msgpack:"blocked"`
	Issues              int `json:"totalIssues" msgpack:"totalIssues"`
	Errors              int `json:"errors" msgpack:"errors"`
	Warnings            int `json:"warnings" msgpack:"warnings"`
	Infos               int `json:"infos" msgpack:"infos"`
	Applicable          int `json:"applicable" msgpack:"applicable"`
	SemanticEdits       int `json:"semanticEdits" msgpack:"semanticEdits"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any errors.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis contains aggregated data for a single document.
type FileAnalysis struct {
	Path     string   `json:"path" msgpack:"path"`
	Issues   int      `json:"issues" msgpack:"issues"`
	Errors   int      `json:"errors" msgpack:"errors"`
	Warnings int      `json:"warnings" msgpack:"warnings"`
	Infos    int      `json:"infos" msgpack:"infos"`
	Blocked  bool     `json:"blocked" msgpack:"blocked"`
	Rules    []string `json:"rules,omitempty" msgpack:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId" msgpack:"ruleId"`
	RuleName string   `json:"ruleName" msgpack:"ruleName"`
	Issues   int      `json:"issues" msgpack:"issues"`
	Errors   int      `json:"errors" msgpack:"errors"`
	Warnings int      `json:"warnings" msgpack:"warnings"`
	Infos    int      `json:"infos" msgpack:"infos"`
	Gated    bool     `json:"gated" msgpack:"gated"`
	Files    []string `json:"files,omitempty" msgpack:"files,omitempty"`
}
