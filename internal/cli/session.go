package cli

import (
	"cmp"

	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/pkg/runner"
	"github.com/yaklabco/encheck/pkg/session"
)

func newSessionCommand() *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "session MANIFEST",
		Short: "Classify every document listed in a session manifest",
		Long: `Classify every document listed in a session manifest.

A manifest is a JSON file (comments and trailing commas allowed) naming the
documents and directory pairs of one edit session, and optionally the
capabilities of the runtime being debugged:

  {
    "name": "hot reload",
    "capabilities": ["Baseline", "AddMethodToExistingType"],
    "documents": [{"path": "Program.cs", "old": "v1/Program.cs", "new": "v2/Program.cs"}],
    "directories": [{"old": "v1/src", "new": "v2/src", "exclude": ["**/obj/**"]}]
  }

Relative paths are resolved against the manifest's directory. Capabilities
given with --capabilities take precedence over the manifest's.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, args[0], flags)
		},
	}

	addAnalyzeFlags(cmd, flags)

	return cmd
}

func runSession(cmd *cobra.Command, path string, flags *analyzeFlags) error {
	ctx := cmd.Context()

	manifest, err := session.Load(ctx, path)
	if err != nil {
		return err
	}

	cliCfg := flags.cliConfig(cmd)
	if cliCfg.Capabilities == nil && len(manifest.Capabilities) > 0 {
		cliCfg.Capabilities = manifest.Capabilities
	}

	cfg, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}

	pairs, err := manifest.Pairs(ctx, runner.DiscoverOptions{Include: cfg.Include, Exclude: cfg.Exclude})
	if err != nil {
		return err
	}

	name := cmp.Or(manifest.Name, path)
	ctx = logging.WithFields(ctx, logging.FieldSession, name)
	logging.FromContext(ctx).Debug("session loaded", logging.FieldDocuments, len(pairs))

	a := &analysisRun{
		cmd:           cmd,
		flags:         flags,
		cfg:           cfg,
		source:        name,
		skipNonCSharp: len(manifest.Directories) > 0,
	}
	return a.run(ctx, pairs)
}
