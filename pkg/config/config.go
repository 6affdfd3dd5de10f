// Package config defines the configuration types for encheck.
// These types are plain data; loading and merging live in internal/configloader.
package config

import "runtime"

// Severity represents the severity level of a rude edit diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid returns true if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Blocking reports whether diagnostics of this severity prevent an edit
// from being applied.
func (s Severity) Blocking() bool {
	return s == SeverityError
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty" toml:"severity,omitempty"`
	Options  map[string]any `yaml:"options,omitempty" toml:"options,omitempty"`
}

// HistoryConfig controls the session history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path,omitempty" toml:"path,omitempty"` // defaults to the user cache directory
}

// OutputFormat specifies the output format for results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
	FormatMsgpack OutputFormat = "msgpack"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatSummary, FormatMsgpack:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "renaming-captured-variable"
	RuleFormatID       RuleFormat = "id"       // "ENC003"
	RuleFormatCombined RuleFormat = "combined" // "ENC003/renaming-captured-variable"
)

// ColorMode controls styled terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Default state machine attributes assumed present in the target runtime.
const (
	AsyncStateMachineAttribute    = "System.Runtime.CompilerServices.AsyncStateMachineAttribute"
	IteratorStateMachineAttribute = "System.Runtime.CompilerServices.IteratorStateMachineAttribute"
)

// Config is the root configuration structure for encheck.
type Config struct {
	// Capabilities lists the runtime capabilities of the debuggee by name.
	Capabilities []string `yaml:"capabilities" toml:"capabilities"`

	// StateMachineAttributes lists the attribute types the runtime library
	// defines. Updating an async or iterator method whose attribute is
	// missing is a rude edit.
	StateMachineAttributes []string `yaml:"state_machine_attributes" toml:"state_machine_attributes"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`

	// Include and Exclude are doublestar patterns applied when pairing
	// directories in a session.
	Include []string `yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`

	// Jobs is the number of documents analyzed in parallel; 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs,omitempty" toml:"jobs,omitempty"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format,omitempty" toml:"format,omitempty"`

	// Color controls styled output.
	Color ColorMode `yaml:"color,omitempty" toml:"color,omitempty"`

	// History configures the session history store.
	History HistoryConfig `yaml:"history" toml:"history"`

	// CLI-level options (not persisted to config files).

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-" toml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-" toml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Capabilities: []string{"Baseline"},
		StateMachineAttributes: []string{
			AsyncStateMachineAttribute,
			IteratorStateMachineAttribute,
		},
		Rules:      make(map[string]RuleConfig),
		Include:    []string{"**/*.cs"},
		Exclude:    []string{"**/bin/**", "**/obj/**"},
		Format:     FormatText,
		Color:      ColorAuto,
		RuleFormat: RuleFormatName,
	}
}

// Workers returns the effective number of parallel workers.
func (c *Config) Workers() int {
	if c == nil || c.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Jobs
}

// HasStateMachineAttribute reports whether the runtime defines the named
// attribute. Short names match their fully qualified form.
func (c *Config) HasStateMachineAttribute(name string) bool {
	if c == nil {
		return true
	}
	for _, attr := range c.StateMachineAttributes {
		if attr == name || lastSegment(attr) == name {
			return true
		}
	}
	return false
}

func lastSegment(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}
