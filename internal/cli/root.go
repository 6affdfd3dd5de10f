// Package cli provides the Cobra command structure for encheck.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootFlags struct {
	debug      bool
	configPath string
	color      string
	logFormat  string
}

// NewRootCommand creates the root encheck command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "encheck",
		Short: "Classify C# edits for edit-and-continue",
		Long: `encheck compares two versions of C# source and decides whether a running
program can apply the change in place.

Every changed method, lambda and local function is matched statement by
statement. Changes the runtime cannot carry over, such as renaming a variable
a closure captures or changing a lambda's signature, are reported as rude
edits. Everything else is listed as the semantic edits the debugger would
send to the runtime.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if flags.debug {
				level = "debug"
			}
			logger := logging.NewWithOptions(logging.Options{
				Level:  level,
				Format: flags.logFormat,
				Writer: cmd.ErrOrStderr(),
			})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       info.Version,
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text",
		"log format on stderr: text, json, logfmt")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newSessionCommand())
	rootCmd.AddCommand(newScenarioCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newCapabilitiesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(flags.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
