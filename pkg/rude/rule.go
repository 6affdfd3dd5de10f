// Package rude provides the rude edit rule engine: the kind catalog,
// diagnostics, rule registry and capability gating.
package rude

import (
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// Diagnostic is a single rude edit found in a declaration.
type Diagnostic struct {
	// Kind is the rude edit class.
	Kind Kind

	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "stackalloc-update").
	RuleName string

	// Message is the formatted kind message.
	Message string

	// Args are the message arguments, usually symbol names.
	Args []string

	// Node anchors the diagnostic in the tree selected by Side.
	Node syntax.NodeID
	Side match.Side

	// Span is the anchor's span.
	Span syntax.Span

	// Path is the document the diagnostic belongs to.
	Path string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// Required lists the runtime capabilities that make the edit
	// applicable. Empty means the edit is rude regardless of capabilities.
	Required capability.Set

	// Remediation tags the alternate code path the debugger uses when the
	// edit is applicable.
	Remediation string
}

// Gated reports whether some capability set can make the edit applicable.
func (d *Diagnostic) Gated() bool {
	return !d.Required.IsEmpty()
}

// Blocking reports whether the diagnostic stops the edit session.
func (d *Diagnostic) Blocking() bool {
	return d.Severity.Blocking()
}

// StartLine returns the 1-based line of the anchor.
func (d *Diagnostic) StartLine() int { return d.Span.StartLine }

// StartColumn returns the 1-based column of the anchor.
func (d *Diagnostic) StartColumn() int { return d.Span.StartColumn }

// Rule defines the interface that all rude edit rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "ENC003").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule (e.g., ["lambda"]).
	Tags() []string

	// Kinds returns the rude edit kinds the rule reports.
	Kinds() []Kind

	// Capabilities returns the capabilities that can make the rule's
	// diagnostics applicable. Empty for rules that are never gated.
	Capabilities() capability.Set

	// Configurable reports whether configuration may disable the rule or
	// change its severity.
	Configurable() bool

	// Apply classifies the declaration in the context.
	//
	// Rules must:
	//   - Return one diagnostic per rude edit, anchored where a user fixes it.
	//   - Respect context cancellation.
	//   - Return error only for internal failures, not rude edits.
	Apply(ctx *Context) ([]Diagnostic, error)
}
