package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/store"
)

// shortIDLength is the run ID prefix shown in listings.
const shortIDLength = 8

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
		Long: `Inspect the runs recorded with --record or history.enabled.

Runs are kept in a SQLite database under the user cache directory unless
history.path points elsewhere.`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryPruneCommand())

	return cmd
}

// withHistory loads the configuration and opens the history store for fn.
func withHistory(cmd *cobra.Command, fn func(ctx context.Context, db *store.Store) error) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, cmd, nil)
	if err != nil {
		return err
	}

	db, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}

func newHistoryListCommand() *cobra.Command {
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(cmd, func(ctx context.Context, db *store.Store) error {
				runs, err := db.List(ctx, limit)
				if err != nil {
					return err
				}
				if format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), runs)
				}
				writeRuns(cmd, runs)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list (0 = all)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show RUN",
		Short: "Show a recorded run and its diagnostics",
		Long:  "Show a recorded run and its diagnostics. RUN may be any unique prefix of the run ID.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(ctx context.Context, db *store.Store) error {
				run, err := db.Get(ctx, args[0])
				if err != nil {
					return err
				}
				entries, err := db.Diagnostics(ctx, run.ID)
				if err != nil {
					return err
				}

				if format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), struct {
						Run         store.Run     `json:"run"`
						Diagnostics []store.Entry `json:"diagnostics"`
					}{run, entries})
				}

				writeRuns(cmd, []store.Run{run})
				styles := historyStyles(cmd)
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s:%d:%d %s %s %s\n",
						styles.FilePath.Render(e.Path), e.Line, e.Column,
						styles.RuleID.Render(e.RuleID), e.Severity, e.Message)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func newHistoryPruneCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keep < 0 {
				return fmt.Errorf("%w: --keep must be >= 0", ErrInvalidUsage)
			}
			return withHistory(cmd, func(ctx context.Context, db *store.Store) error {
				removed, err := db.Prune(ctx, keep)
				if err != nil {
					return err
				}
				logging.FromContext(ctx).Info("pruned history", "removed", removed, "kept", keep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 50, "number of runs to keep")

	return cmd
}

func historyStyles(cmd *cobra.Command) *pretty.Styles {
	color, _ := cmd.Flags().GetString("color")
	return pretty.NewStyles(pretty.IsColorEnabled(color, cmd.OutOrStdout()))
}

func writeRuns(cmd *cobra.Command, runs []store.Run) {
	out := cmd.OutOrStdout()
	styles := historyStyles(cmd)

	if len(runs) == 0 {
		fmt.Fprintln(out, styles.Dim.Render("no recorded runs"))
		return
	}

	for _, run := range runs {
		status := styles.Success.Render("ok     ")
		if run.Blocked > 0 {
			status = styles.Failure.Render("blocked")
		}
		fmt.Fprintf(out, "%s  %s  %s  %s  %d docs, %d diagnostics, %d edits  %s\n",
			styles.RuleID.Render(run.ID[:min(shortIDLength, len(run.ID))]),
			run.StartedAt.Local().Format(time.DateTime),
			status,
			run.Source,
			run.Analyzed, run.Diagnostics, run.SemanticEdits,
			styles.Dim.Render("["+strings.Join(run.Capabilities, ",")+"]"),
		)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
