package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/fsutil"
	"github.com/yaklabco/encheck/pkg/rude"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new encheck configuration file",
		Long: `Create a new .encheck.yml configuration file in the current directory
with sensible defaults. The file sets the runtime capabilities, the state
machine attributes the runtime defines, and per-rule overrides.

Examples:
  encheck init                       Create minimal .encheck.yml
  encheck init --full                Document every rule in the file
  encheck init --format toml         Create .encheck.toml instead
  encheck init --output custom.yml   Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .encheck.yml or .encheck.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	if flags.format != "yaml" && flags.format != "toml" {
		return fmt.Errorf("%w: format %q must be yaml or toml", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".encheck.yml"
		if flags.format == "toml" {
			outputPath = ".encheck.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	_, existing, err := fsutil.ReadFile(ctx, absPath)
	if err != nil && !errors.Is(err, fsutil.ErrNotFound) {
		return fmt.Errorf("read existing file: %w", err)
	}

	if existing != nil && !flags.force {
		if !isInteractive() {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("%s exists. Overwrite? [y/N] ", outputPath))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
		Rules:  templateRules(rude.DefaultRegistry.Rules()),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	// An existing file must not change while the prompt waits.
	var written bool
	if existing != nil {
		written, err = fsutil.ReplaceIfUnchanged(ctx, existing, content, configFilePermissions)
	} else {
		written, err = fsutil.WriteAtomicIfChanged(ctx, absPath, content, configFilePermissions)
	}
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if !written {
		logger.Info("configuration file is up to date", logging.FieldPath, outputPath)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'encheck rules' to see all available rules")

	return nil
}

// templateRules describes the rules a config file may change.
func templateRules(rules []rude.Rule) []config.RuleInfo {
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, r := range rules {
		if !r.Configurable() {
			continue
		}
		info := config.RuleInfo{
			ID:          r.ID(),
			Name:        r.Name(),
			Description: r.Description(),
			Enabled:     r.DefaultEnabled(),
			Severity:    r.DefaultSeverity(),
		}
		if caps := r.Capabilities(); !caps.IsEmpty() {
			info.Capability = caps.String()
		}
		infos = append(infos, info)
	}
	return infos
}

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := io.WriteString(out, prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
