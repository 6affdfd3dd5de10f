package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/pkg/runner"
)

func newCheckCommand() *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "check OLD NEW",
		Short: "Classify the edit between two versions of C# source",
		Long:  checkLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1], flags)
		},
	}

	addAnalyzeFlags(cmd, flags)

	return cmd
}

const checkLongDescription = `Classify the edit between two versions of C# source.

OLD and NEW are either two files or two directories. Directories are paired
by relative path; files present on one side only are treated as added or
deleted documents.

Examples:
  encheck check Program.old.cs Program.cs
  encheck check before/ after/
  encheck check before/ after/ -c Baseline,AddMethodToExistingType
  encheck check before/ after/ --format sarif > enc.sarif
  encheck check before/ after/ --edits --applicable`

func runCheck(cmd *cobra.Command, oldPath, newPath string, flags *analyzeFlags) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, cmd, flags.cliConfig(cmd))
	if err != nil {
		return err
	}

	pairs, dirs, err := checkPairs(cmd, oldPath, newPath, runner.DiscoverOptions{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return err
	}

	ctx = logging.WithFields(ctx, logging.FieldOldPath, oldPath, logging.FieldNewPath, newPath)
	a := &analysisRun{
		cmd:           cmd,
		flags:         flags,
		cfg:           cfg,
		source:        oldPath + " -> " + newPath,
		skipNonCSharp: dirs,
	}
	return a.run(ctx, pairs)
}

// checkPairs pairs two files or two directories. dirs reports which.
func checkPairs(cmd *cobra.Command, oldPath, newPath string, opts runner.DiscoverOptions) ([]runner.Pair, bool, error) {
	oldInfo, err := os.Stat(oldPath)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", oldPath, err)
	}
	newInfo, err := os.Stat(newPath)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", newPath, err)
	}

	switch {
	case oldInfo.IsDir() && newInfo.IsDir():
		pairs, err := runner.PairDirectories(cmd.Context(), oldPath, newPath, opts)
		if err != nil {
			return nil, true, err
		}
		if len(pairs) == 0 {
			return nil, true, fmt.Errorf("%w: no files match in %s and %s", runner.ErrNoDocuments, oldPath, newPath)
		}
		return pairs, true, nil
	case !oldInfo.IsDir() && !newInfo.IsDir():
		return []runner.Pair{{
			Path:    filepath.ToSlash(newPath),
			OldPath: oldPath,
			NewPath: newPath,
		}}, false, nil
	default:
		return nil, false, fmt.Errorf("%w: OLD and NEW must both be files or both be directories", ErrInvalidUsage)
	}
}
