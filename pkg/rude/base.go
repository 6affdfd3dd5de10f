package rude

import (
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
)

// BaseRule provides a default implementation of the Rule interface.
// Embed this in rule implementations and override methods as needed.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
type BaseRule struct {
	id    string
	name  string
	desc  string
	tags  []string
	kinds []Kind
	caps  capability.Set
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, desc string, tags []string, kinds []Kind, caps capability.Set) BaseRule {
	return BaseRule{
		id:    id,
		name:  name,
		desc:  desc,
		tags:  tags,
		kinds: kinds,
		caps:  caps,
	}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// DefaultEnabled returns whether the rule is enabled by default.
func (r *BaseRule) DefaultEnabled() bool {
	return true
}

// DefaultSeverity returns the default severity for this rule.
// Rude edits block the session unless a rule overrides this.
func (r *BaseRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// Kinds returns the rude edit kinds the rule reports.
func (r *BaseRule) Kinds() []Kind {
	return r.kinds
}

// Capabilities returns the capabilities that can gate the rule.
func (r *BaseRule) Capabilities() capability.Set {
	return r.caps
}

// Configurable returns true; rules whose edits are never safe override it.
func (r *BaseRule) Configurable() bool {
	return true
}

// Apply must be overridden by concrete rule implementations.
func (r *BaseRule) Apply(_ *Context) ([]Diagnostic, error) {
	return nil, nil
}
