package rude

import (
	"context"

	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/capture"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// Context provides everything a rule needs to classify one declaration.
//
// A declaration is identified by its root on each side. Either root is
// NoNode when the declaration was inserted or deleted. Global contexts
// cover the top-level statements of a compilation unit instead.
//
// Context stores context.Context as a field (Ctx) because it is a
// short-lived parameter object created per classification.
type Context struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// Path is the document path.
	Path string

	// Script is the document's edit script.
	Script *editscript.Script

	// Capture is the capture diff of the declaration. Nil when the
	// declaration exists on one side only or is top-level code.
	Capture *capture.Result

	OldModel semantic.Model
	NewModel semantic.Model

	OldRoot syntax.NodeID
	NewRoot syntax.NodeID

	// Global marks top-level code contexts.
	Global bool

	// Capabilities is the runtime capability set of the debuggee.
	Capabilities capability.Set

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry

	facts *facts
}

// NewContext creates a Context for a declaration pair.
func NewContext(
	ctx context.Context,
	script *editscript.Script,
	oldRoot, newRoot syntax.NodeID,
	cfg *config.Config,
) *Context {
	return &Context{
		Ctx:          ctx,
		Script:       script,
		OldRoot:      oldRoot,
		NewRoot:      newRoot,
		Capabilities: capability.Of(capability.Baseline),
		Config:       cfg,
		facts:        newFacts(),
	}
}

// Cancelled returns true if the context has been cancelled.
func (rc *Context) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Match returns the match the script was built from.
func (rc *Context) Match() *match.Match {
	return rc.Script.Match()
}

// Tree returns the tree of a side.
func (rc *Context) Tree(side match.Side) *syntax.Tree {
	return rc.Match().Tree(side)
}

// Model returns the semantic model of a side.
func (rc *Context) Model(side match.Side) semantic.Model {
	if side == match.Old {
		return rc.OldModel
	}
	return rc.NewModel
}

// Root returns the declaration root of a side.
func (rc *Context) Root(side match.Side) syntax.NodeID {
	if side == match.Old {
		return rc.OldRoot
	}
	return rc.NewRoot
}

// Partner returns the matched partner of a node.
func (rc *Context) Partner(side match.Side, id syntax.NodeID) syntax.NodeID {
	return rc.Match().Partner(side, id)
}

// IsUpdate reports whether the declaration exists on both sides.
func (rc *Context) IsUpdate() bool {
	return rc.OldRoot != syntax.NoNode && rc.NewRoot != syntax.NoNode
}

// Option returns a rule-specific option value, or the default if not set.
func (rc *Context) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionBool returns a rule-specific boolean option, or the default.
func (rc *Context) OptionBool(key string, defaultValue bool) bool {
	if b, ok := rc.Option(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}

// OptionStringSlice returns a rule-specific string slice option, or the default.
func (rc *Context) OptionStringSlice(key string, defaultValue []string) []string {
	v := rc.Option(key, defaultValue)
	if slice, ok := v.([]string); ok {
		return slice
	}
	// Handle []any from YAML/TOML parsing
	if items, ok := v.([]any); ok {
		result := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
