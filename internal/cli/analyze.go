package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/configloader"
	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/pkg/analysis"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/enc"
	"github.com/yaklabco/encheck/pkg/reporter"
	"github.com/yaklabco/encheck/pkg/runner"
	"github.com/yaklabco/encheck/pkg/store"
)

// analyzeFlags are shared by the commands that run an analysis.
type analyzeFlags struct {
	capabilities []string
	format       string
	jobs         int
	include      []string
	exclude      []string
	enable       []string
	disable      []string
	ruleFormat   string
	sortBy       string
	strict       bool
	noContext    bool
	compact      bool
	showEdits    bool
	applicable   bool
	stale        bool
	record       bool
}

func addAnalyzeFlags(cmd *cobra.Command, flags *analyzeFlags) {
	cmd.Flags().StringSliceVarP(&flags.capabilities, "capabilities", "c", nil,
		"runtime capabilities, e.g. Baseline,AddMethodToExistingType or all")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, summary, msgpack")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "doublestar patterns of files to pair in directories")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "doublestar patterns of files to skip in directories")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount),
		"order of the per-file and per-rule views: count, name, or blocking")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as failures for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.showEdits, "edits", false, "list the semantic edits of each document")
	cmd.Flags().BoolVar(&flags.applicable, "applicable", false, "list gated edits the runtime accepts")
	cmd.Flags().BoolVar(&flags.stale, "stale", false, "warn when files change during analysis")
	cmd.Flags().BoolVar(&flags.record, "record", false, "record the run in the history store")
}

// cliConfig builds the configuration layer holding explicitly set flags.
func (f *analyzeFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		EnableRules:  f.enable,
		DisableRules: f.disable,
		RuleFormat:   config.RuleFormat(f.ruleFormat),
	}
	changed := cmd.Flags().Changed

	if changed("capabilities") {
		cfg.Capabilities = f.capabilities
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if changed("include") {
		cfg.Include = f.include
	}
	if changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if color, err := cmd.Flags().GetString("color"); err == nil && changed("color") {
		cfg.Color = config.ColorMode(color)
	}
	return cfg
}

// loadConfig resolves the configuration for a command.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldCapabilities, cfg.Capabilities,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFormat, cfg.Format,
	)
	return cfg, nil
}

// analysisRun is one run of the pipeline over a set of pairs.
type analysisRun struct {
	cmd    *cobra.Command
	flags  *analyzeFlags
	cfg    *config.Config
	source string

	// skipNonCSharp is set when pairs come from directory discovery.
	skipNonCSharp bool
}

// run analyzes the pairs, reports the result and records it when asked.
// The returned error carries the exit code.
func (a *analysisRun) run(ctx context.Context, pairs []runner.Pair) error {
	logger := logging.FromContext(ctx)

	analyzer, err := enc.NewAnalyzer(a.cfg)
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	result, err := runner.New(analyzer).Run(ctx, pairs, runner.Options{
		Jobs:          a.cfg.Jobs,
		SkipNonCSharp: a.skipNonCSharp,
		CheckStale:    a.flags.stale,
		Config:        a.cfg,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := a.report(ctx, result); err != nil {
		return err
	}

	if a.flags.record || a.cfg.History.Enabled {
		if err := a.recordRun(ctx, result); err != nil {
			// A failed history write does not fail the check.
			logger.Warn("could not record run", logging.FieldError, err)
		}
	}

	switch ExitCodeFromResult(result, a.flags.strict) {
	case ExitRudeEdits:
		return ErrRudeEditsFound
	case ExitWarnings:
		return ErrWarningsFound
	}
	return nil
}

func (a *analysisRun) report(ctx context.Context, result *runner.Result) error {
	format, err := reporter.ParseFormat(string(a.cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	sortBy := analysis.SortField(a.flags.sortBy)
	if !sortBy.IsValid() {
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidUsage, a.flags.sortBy)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	color := string(a.cfg.Color)
	if flag, err := a.cmd.Flags().GetString("color"); err == nil && a.cmd.Flags().Changed("color") {
		color = flag
	}

	rep, err := reporter.New(reporter.Options{
		Writer:         a.cmd.OutOrStdout(),
		ErrorWriter:    a.cmd.ErrOrStderr(),
		Format:         format,
		Color:          color,
		ShowContext:    !a.flags.noContext,
		ShowSummary:    true,
		ShowEdits:      a.flags.showEdits,
		ShowApplicable: a.flags.applicable,
		Compact:        a.flags.compact,
		RuleFormat:     a.cfg.RuleFormat,
		SortBy:         sortBy,
		WorkingDir:     workDir,
		ToolVersion:    a.cmd.Root().Version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logging.FromContext(ctx).Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

func (a *analysisRun) recordRun(ctx context.Context, result *runner.Result) error {
	db, err := openHistory(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.Record(ctx, a.source, a.cfg.Capabilities, result)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("recorded run", "run", run.ID)
	return nil
}

// openHistory opens the configured history store, creating it if needed.
func openHistory(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(ctx, path)
}
