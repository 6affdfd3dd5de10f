package runner

import (
	"time"

	"github.com/yaklabco/encheck/pkg/enc"
)

// Outcome is the analysis of one pair.
type Outcome struct {
	Pair Pair

	// Result is nil when the document was skipped or failed.
	Result *enc.DocumentResult

	// Skipped is set for documents that are not C#.
	Skipped bool

	// Stale is set when a source file changed while it was analyzed.
	Stale bool

	// Error is set if the document could not be read, parsed or analyzed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	Documents int
	Analyzed  int
	Skipped   int
	Errored   int
	Stale     int

	// Blocked counts documents with at least one blocking diagnostic.
	Blocked int

	DiagnosticsTotal      int
	DiagnosticsBySeverity map[string]int
	DiagnosticsByRule     map[string]int

	Applicable    int
	SemanticEdits int

	Duration time.Duration
}

// Result is the overall runner result, in input order.
type Result struct {
	Documents []Outcome
	Stats     Stats
}

// HasBlocking reports whether any document cannot be applied.
func (r *Result) HasBlocking() bool {
	return r != nil && r.Stats.Blocked > 0
}

// HasErrors reports whether any document failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.Errored > 0
}

// HasIssues reports whether any diagnostic was produced.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

func newStats(documents int) Stats {
	return Stats{
		Documents:             documents,
		DiagnosticsBySeverity: make(map[string]int),
		DiagnosticsByRule:     make(map[string]int),
	}
}

// accumulate folds one outcome into the result.
func (r *Result) accumulate(outcome Outcome) {
	r.Documents = append(r.Documents, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.Errored++
		return
	case outcome.Skipped:
		r.Stats.Skipped++
		return
	case outcome.Result == nil:
		return
	}

	r.Stats.Analyzed++
	if outcome.Stale {
		r.Stats.Stale++
	}

	doc := outcome.Result
	if doc.HasBlocking() {
		r.Stats.Blocked++
	}
	r.Stats.SemanticEdits += len(doc.SemanticEdits)
	if doc.Outcome == nil {
		return
	}
	r.Stats.Applicable += len(doc.Outcome.Applicable)
	for _, d := range doc.Outcome.Diagnostics {
		r.Stats.DiagnosticsTotal++
		r.Stats.DiagnosticsBySeverity[string(d.Severity)]++
		r.Stats.DiagnosticsByRule[d.RuleID]++
	}
}
