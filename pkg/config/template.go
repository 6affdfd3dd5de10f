package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the file format: "yaml" or "toml".
	Format string

	// Full documents every rule. If false, generates a minimal template.
	Full bool

	// Rules describes the rules to document in a full template.
	Rules []RuleInfo
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Capability  string // capability that turns the diagnostic into an applicable edit
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml", "yml":
		return generateYAML(opts), nil
	case "toml":
		return generateTOML(opts), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
}

func generateYAML(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Runtime capabilities of the debuggee. Edits that need a missing
# capability are reported as rude edits.
# Known: Baseline, AddMethodToExistingType, NewTypeDefinition,
# GenericUpdateMethod, UpdateParameters, ChangeCustomAttributes,
# AddExplicitInterfaceImplementation, or "all".
capabilities:
  - Baseline

# State machine attributes defined by the target runtime library.
state_machine_attributes:
  - ` + AsyncStateMachineAttribute + `
  - ` + IteratorStateMachineAttribute + `

# Patterns used when pairing directories in a session.
# include:
#   - "**/*.cs"
# exclude:
#   - "**/obj/**"

# Number of documents analyzed in parallel (0 = auto)
# jobs: 0

# Output format: text, json, sarif, summary or msgpack
# format: text

# Session history
# history:
#   enabled: false
`)

	if !opts.Full {
		buf.WriteString(`
# Rule-specific configuration
# rules:
#   ENC012:
#     severity: info
`)
		return buf.Bytes()
	}

	buf.WriteString("\nrules:\n")
	for _, rule := range opts.Rules {
		fmt.Fprintf(&buf, "  # %s: %s\n", rule.Name, wrapComment(rule.Description, "  # "))
		if rule.Capability != "" {
			fmt.Fprintf(&buf, "  # Applicable with capability %s.\n", rule.Capability)
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
	}
	return buf.Bytes()
}

func generateTOML(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

capabilities = ["Baseline"]
state_machine_attributes = [
  "` + AsyncStateMachineAttribute + `",
  "` + IteratorStateMachineAttribute + `",
]
# jobs = 0
# format = "text"

[history]
enabled = false
`)

	if !opts.Full {
		buf.WriteString(`
# [rules.ENC012]
# severity = "info"
`)
		return buf.Bytes()
	}

	for _, rule := range opts.Rules {
		fmt.Fprintf(&buf, "\n# %s: %s\n", rule.Name, wrapComment(rule.Description, "# "))
		fmt.Fprintf(&buf, "[rules.%s]\n", rule.ID)
		fmt.Fprintf(&buf, "enabled = %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "severity = %q\n", rule.Severity)
	}
	return buf.Bytes()
}

// wrapComment wraps text to commentWrapWidth, continuing lines with prefix.
func wrapComment(text, prefix string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > commentWrapWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)

	return strings.Join(lines, "\n"+prefix)
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# encheck configuration
# See: https://github.com/yaklabco/encheck`
}
