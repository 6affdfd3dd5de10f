package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/rude"
)

// capabilityInfo represents a capability in JSON output.
type capabilityInfo struct {
	Name  string   `json:"name"`
	Rules []string `json:"rules"`
}

func newCapabilitiesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "capabilities [LIST]",
		Short: "List runtime capabilities and the rules they relax",
		Long: `List the edit-and-continue capabilities a runtime can advertise, with the
rules whose edits each capability makes applicable.

With LIST, a comma separated capability list, only those capabilities are
shown. Unknown names are an error, so this doubles as a validity check for
--capabilities values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := capability.All
			if len(args) == 1 {
				var err error
				if set, err = capability.Parse(args[0]); err != nil {
					return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
				}
			}

			infos := capabilityInfos(set, rude.DefaultRegistry.Rules())
			out := cmd.OutOrStdout()

			if format == formatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(infos); err != nil {
					return fmt.Errorf("encoding capabilities: %w", err)
				}
				return nil
			}

			color, _ := cmd.Flags().GetString("color")
			styles := pretty.NewStyles(pretty.IsColorEnabled(color, out))

			width := 0
			for _, info := range infos {
				width = max(width, lipgloss.Width(info.Name))
			}
			for _, info := range infos {
				rules := styles.Dim.Render("-")
				if len(info.Rules) > 0 {
					rules = strings.Join(info.Rules, ", ")
				}
				fmt.Fprintf(out, "%s%s  %s\n",
					styles.Capability.Render(info.Name),
					strings.Repeat(" ", width-lipgloss.Width(info.Name)),
					rules)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func capabilityInfos(set capability.Set, rules []rude.Rule) []capabilityInfo {
	infos := make([]capabilityInfo, 0, set.Len())
	for _, c := range set.Capabilities() {
		info := capabilityInfo{Name: c.String(), Rules: []string{}}
		for _, r := range rules {
			if r.Capabilities().Has(c) {
				info.Rules = append(info.Rules, r.ID())
			}
		}
		infos = append(infos, info)
	}
	return infos
}
