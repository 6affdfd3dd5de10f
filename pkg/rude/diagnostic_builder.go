package rude

import (
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// InternalRuleID is the rule ID of diagnostics raised by the analyzer
// itself rather than by a rule.
const InternalRuleID = "ENC000"

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic of a kind anchored at a node.
func NewDiagnostic(kind Kind, tree *syntax.Tree, side match.Side, node syntax.NodeID, args ...string) *DiagnosticBuilder {
	var span syntax.Span
	var path string
	if tree != nil {
		path = tree.Path
		if tree.Valid(node) {
			span = tree.Span(node)
		}
	}
	return &DiagnosticBuilder{
		diag: Diagnostic{
			Kind:    kind,
			Message: kind.Message(args...),
			Args:    args,
			Node:    node,
			Side:    side,
			Span:    span,
			Path:    path,
		},
	}
}

// NewDiagnosticAt starts building a diagnostic at a specific position.
func NewDiagnosticAt(kind Kind, path string, span syntax.Span, args ...string) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			Kind:    kind,
			Message: kind.Message(args...),
			Args:    args,
			Node:    syntax.NoNode,
			Side:    match.New,
			Span:    span,
			Path:    path,
		},
	}
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithRequired sets the capabilities that make the edit applicable.
func (b *DiagnosticBuilder) WithRequired(caps ...capability.Capability) *DiagnosticBuilder {
	b.diag.Required = capability.Of(caps...)
	return b
}

// WithRemediation sets the remediation tag used when the edit is
// applicable.
func (b *DiagnosticBuilder) WithRemediation(tag string) *DiagnosticBuilder {
	b.diag.Remediation = tag
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}

// InternalErrorDiagnostic reports an aborted analysis unit.
func InternalErrorDiagnostic(path, unit string, err error) Diagnostic {
	d := NewDiagnosticAt(InternalError, path, syntax.Span{}, unit, err.Error()).
		WithSeverity(config.SeverityError).
		Build()
	d.RuleID = InternalRuleID
	d.RuleName = "internal-error"
	return d
}
