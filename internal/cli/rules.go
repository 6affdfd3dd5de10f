package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/rude"
)

type rulesFlags struct {
	ruleFormat string
	format     string
	tag        string
}

const formatJSON = "json"

// severityWidth is the width of the longest severity name.
const severityWidth = len("warning")

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Severity     string   `json:"severity"`
	Kinds        []string `json:"kinds"`
	Capabilities []string `json:"capabilities,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Configurable bool     `json:"configurable"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rude edit rules",
		Long: `List every rude edit rule with its ID, default severity, the kinds it
reports and the runtime capabilities that make its edits applicable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := filterRules(rude.DefaultRegistry.Rules(), flags.tag)

			if flags.format == formatJSON {
				return outputRulesJSON(cmd.OutOrStdout(), rules)
			}

			color, _ := cmd.Flags().GetString("color")
			styles := pretty.NewStyles(pretty.IsColorEnabled(color, cmd.OutOrStdout()))
			outputRulesText(cmd.OutOrStdout(), styles, rules, config.RuleFormat(flags.ruleFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "only list rules with this tag (e.g. capture, lambda)")

	return cmd
}

func filterRules(rules []rude.Rule, tag string) []rude.Rule {
	if tag == "" {
		return rules
	}
	var out []rude.Rule
	for _, r := range rules {
		for _, t := range r.Tags() {
			if strings.EqualFold(t, tag) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func kindNames(kinds []rude.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

func outputRulesText(w io.Writer, styles *pretty.Styles, rules []rude.Rule, format config.RuleFormat) {
	if len(rules) == 0 {
		fmt.Fprintln(w, styles.Dim.Render("no rules match"))
		return
	}

	idWidth := 0
	for _, r := range rules {
		idWidth = max(idWidth, lipgloss.Width(config.FormatRuleID(format, r.ID(), r.Name())))
	}

	for _, r := range rules {
		id := config.FormatRuleID(format, r.ID(), r.Name())
		padding := strings.Repeat(" ", idWidth-lipgloss.Width(id))

		severity := styles.FormatSeverity(r.DefaultSeverity())
		severity += strings.Repeat(" ", max(0, severityWidth-lipgloss.Width(severity)))

		fmt.Fprintf(w, "%s%s  %s  %s\n",
			styles.RuleID.Render(id), padding, severity,
			styles.Message.Render(r.Description()))

		details := "kinds: " + strings.Join(kindNames(r.Kinds()), ", ")
		if caps := r.Capabilities(); !caps.IsEmpty() {
			details += "; applicable with " + styles.Capability.Render(caps.String())
		}
		if !r.Configurable() {
			details += "; always enabled"
		}
		fmt.Fprintf(w, "%s  %s\n", strings.Repeat(" ", idWidth), styles.Dim.Render(details))
	}
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(w io.Writer, rules []rude.Rule) error {
	infos := make([]ruleInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, ruleInfo{
			ID:           r.ID(),
			Name:         r.Name(),
			Description:  r.Description(),
			Severity:     string(r.DefaultSeverity()),
			Kinds:        kindNames(r.Kinds()),
			Capabilities: r.Capabilities().Names(),
			Tags:         r.Tags(),
			Configurable: r.Configurable(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
