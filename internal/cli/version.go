package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/rude"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, commit hash and build date of encheck, with the size of
the built-in rule catalog. --short prints the version alone.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{Level: log.InfoLevel})
			logger.Info("encheck",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"rules", len(rude.DefaultRegistry.Rules()),
				"capabilities", capability.All.Len(),
			)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print the version only")

	return cmd
}
