package rude

import (
	"context"
	"fmt"
)

// Remediation tags attached to applicable edits.
const (
	RemediationUpdateParameters = "update-parameters"
	RemediationAddMethod        = "add-method"
	RemediationAddType          = "add-type"
	RemediationExplicitImpl     = "add-explicit-implementation"
	RemediationGenericUpdate    = "update-generic-method"
	RemediationUpdateAttributes = "update-attributes"
	RemediationNewClosure       = "synthesize-closure"
)

// Outcome is the classification of one declaration.
type Outcome struct {
	// Diagnostics are reported to the user in rule order. Error severity
	// diagnostics block the edit session.
	Diagnostics []Diagnostic

	// Applicable are gated edits the runtime can apply through the
	// alternate path named by their remediation tag.
	Applicable []Diagnostic

	// RuleErrors contains any errors from rule execution.
	RuleErrors map[string]error
}

// HasBlocking reports whether any diagnostic blocks the session.
func (o *Outcome) HasBlocking() bool {
	return o.BlockingCount() > 0
}

// BlockingCount returns the number of blocking diagnostics.
func (o *Outcome) BlockingCount() int {
	count := 0
	for i := range o.Diagnostics {
		if o.Diagnostics[i].Blocking() {
			count++
		}
	}
	return count
}

// Merge appends another outcome.
func (o *Outcome) Merge(other *Outcome) {
	if other == nil {
		return
	}
	o.Diagnostics = append(o.Diagnostics, other.Diagnostics...)
	o.Applicable = append(o.Applicable, other.Applicable...)
	for id, err := range other.RuleErrors {
		if o.RuleErrors == nil {
			o.RuleErrors = make(map[string]error)
		}
		o.RuleErrors[id] = err
	}
}

// Engine runs the registered rules against a declaration.
type Engine struct {
	// Registry holds all available rules.
	Registry *Registry
}

// NewEngine creates a new Engine with the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{Registry: registry}
}

// Classify runs every enabled rule and gates the diagnostics against the
// context's capabilities. A diagnostic whose required capabilities are all
// present moves to Outcome.Applicable. A cancelled call returns no outcome.
func (e *Engine) Classify(ctx context.Context, rc *Context) (*Outcome, error) {
	if rc.facts == nil {
		rc.facts = newFacts()
	}

	resolved := ResolveRules(e.Registry, rc.Config)
	outcome := &Outcome{RuleErrors: make(map[string]error)}

	for _, rr := range resolved {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("classification cancelled: %w", err)
		}

		ruleCtx := *rc
		ruleCtx.Ctx = ctx
		ruleCtx.RuleConfig = rr.Config
		ruleCtx.Registry = e.Registry

		diags, err := rr.Rule.Apply(&ruleCtx)
		if err != nil {
			outcome.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		for i := range diags {
			d := &diags[i]
			d.RuleID = rr.Rule.ID()
			d.RuleName = rr.Rule.Name()
			d.Severity = rr.Severity
			if d.Path == "" {
				d.Path = rc.Path
			}

			if d.Gated() && rc.Capabilities.HasAll(d.Required) {
				outcome.Applicable = append(outcome.Applicable, *d)
				continue
			}
			outcome.Diagnostics = append(outcome.Diagnostics, *d)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classification cancelled: %w", err)
	}
	return outcome, nil
}
