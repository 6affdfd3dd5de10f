package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/enc"
	"github.com/yaklabco/encheck/pkg/fsutil"
	"github.com/yaklabco/encheck/pkg/runner"
	"github.com/yaklabco/encheck/pkg/scenario"
)

type scenarioFlags struct {
	capabilities []string
	jobs         int
	verbose      bool
}

func newScenarioCommand() *cobra.Command {
	flags := &scenarioFlags{}

	cmd := &cobra.Command{
		Use:   "scenario FILE...",
		Short: "Run the edit scenarios of Markdown files",
		Long: `Run the edit scenarios of Markdown files.

Each level-two heading starts a scenario. It holds a "before" and an
"after" C# fence, and optionally an "expect" fence listing the rude edit
kinds the edit must produce, one per line, or "none":

  ## renaming a captured local

  ` + "```csharp before" + `
  class C { void M() { int x = 1; System.Func<int> f = () => x; } }
  ` + "```" + `

  ` + "```csharp after" + `
  class C { void M() { int y = 1; System.Func<int> f = () => y; } }
  ` + "```" + `

  ` + "```expect" + `
  RenamingCapturedVariable
  ` + "```" + `

Scenarios without an expect fence are reported but never fail.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, args, flags)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.capabilities, "capabilities", "c", nil,
		"runtime capabilities, e.g. Baseline,AddMethodToExistingType or all")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list the diagnostics of every scenario")

	return cmd
}

// scenarioCase ties a scenario to the file it came from.
type scenarioCase struct {
	path     string
	scenario scenario.Scenario
}

func runScenarios(cmd *cobra.Command, paths []string, flags *scenarioFlags) error {
	ctx := cmd.Context()

	cliCfg := (&analyzeFlags{}).cliConfig(cmd)
	if cmd.Flags().Changed("capabilities") {
		cliCfg.Capabilities = flags.capabilities
	}
	if cmd.Flags().Changed("jobs") {
		cliCfg.Jobs = flags.jobs
	}
	cfg, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}

	parser := scenario.NewParser()
	var cases []scenarioCase
	var pairs []runner.Pair
	for _, path := range paths {
		content, _, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		file, err := parser.Parse(ctx, path, content)
		if err != nil {
			return err
		}
		for _, s := range file.Scenarios {
			cases = append(cases, scenarioCase{path: path, scenario: s})
			pairs = append(pairs, runner.Pair{
				Path: fmt.Sprintf("%s:%d", path, s.Line),
				Old:  s.Old,
				New:  s.New,
			})
		}
	}
	logging.FromContext(ctx).Debug("scenarios loaded", logging.FieldScenario, len(cases))

	analyzer, err := enc.NewAnalyzer(cfg)
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}
	result, err := runner.New(analyzer).Run(ctx, pairs, runner.Options{Jobs: cfg.Jobs, Config: cfg})
	if err != nil {
		return fmt.Errorf("scenario run failed: %w", err)
	}

	color, _ := cmd.Flags().GetString("color")
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(color, out))

	failed := reportScenarios(out, styles, cases, result, flags.verbose)

	summary := fmt.Sprintf("%d scenarios, %d failed", len(cases), failed)
	if failed > 0 {
		fmt.Fprintln(out, styles.Failure.Render(summary))
		return ErrScenarioFailed
	}
	fmt.Fprintln(out, styles.Success.Render(summary))
	return nil
}

// reportScenarios prints one line per scenario and returns the number of failures.
func reportScenarios(
	out io.Writer,
	styles *pretty.Styles,
	cases []scenarioCase,
	result *runner.Result,
	verbose bool,
) int {
	failed := 0
	for i, c := range cases {
		outcome := result.Documents[i]
		location := styles.FilePath.Render(outcome.Pair.Path)

		var status, detail string
		switch {
		case outcome.Error != nil:
			status, detail = styles.Failure.Render("FAIL"), outcome.Error.Error()
			failed++
		default:
			mismatch := c.scenario.Verify(outcome.Result.Outcome.Diagnostics)
			switch {
			case !mismatch.OK():
				status, detail = styles.Failure.Render("FAIL"), mismatch.String()
				failed++
			case c.scenario.HasExpect:
				status = styles.Success.Render("PASS")
			default:
				status = styles.Dim.Render("----")
			}
		}

		line := fmt.Sprintf("%s %s %s", status, location, c.scenario.Name)
		if detail != "" {
			line += styles.Dim.Render(": " + detail)
		}
		fmt.Fprintln(out, line)

		if verbose && outcome.Result != nil {
			for j := range outcome.Result.Outcome.Diagnostics {
				d := &outcome.Result.Outcome.Diagnostics[j]
				fmt.Fprintf(out, "    %s %s\n", styles.RuleID.Render(d.Kind.String()), d.Message)
			}
		}
	}
	return failed
}
