package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/capability"
)

// helpStyles maps help elements onto the shared output styles.
type helpStyles struct {
	command    lipgloss.Style
	heading    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	dim        lipgloss.Style
	ruleID     lipgloss.Style
	capability lipgloss.Style
}

func newHelpStyles(s *pretty.Styles) helpStyles {
	return helpStyles{
		command:    s.Bold,
		heading:    s.Warning,
		subcommand: s.EditInsert,
		flag:       s.Info.UnsetBold(),
		dim:        s.Dim,
		ruleID:     s.Bold,
		capability: s.Capability,
	}
}

var (
	ruleIDPattern = regexp.MustCompile(`\bENC\d{3}\b`)

	// flagLinePattern splits a pflag usage line into indent, flags, type and description.
	flagLinePattern = regexp.MustCompile(`^(\s*)((?:-\w, )?--[\w-]+)( [\w.]+)?\s{2,}(.*)$`)

	capabilityPattern = regexp.MustCompile(`\b(` + strings.Join(capability.All.Names(), "|") + `)\b`)
)

// exitCodeHelp documents the process exit codes in root help.
var exitCodeHelp = []struct {
	code int
	text string
}{
	{ExitSuccess, "no rude edits"},
	{ExitRudeEdits, "rude edits found or scenarios failed"},
	{ExitWarnings, "warnings found with --strict"},
	{ExitInvalidUsage, "invalid arguments or flags"},
	{ExitConfigError, "invalid configuration, session manifest or scenario file"},
	{ExitInternalError, "internal error"},
	{ExitIOError, "file could not be read or written"},
}

// HelpFormatter renders styled help for the command tree.
type HelpFormatter struct {
	styles helpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{
		styles: newHelpStyles(pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))),
	}
}

const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ heading "Exit Codes:" }}
{{ exitCodes }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ highlight . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":    h.styles.command.Render,
		"heading":    h.styles.heading.Render,
		"subcommand": h.styles.subcommand.Render,
		"dim":        h.styles.dim.Render,
		"flags":      h.flagUsages,
		"highlight":  h.highlight,
		"exitCodes":  h.exitCodes,
		"join":       strings.Join,
		"rpad":       rpad,
	}
}

// highlight trims trailing blanks and marks rule IDs and capability names in
// long descriptions.
func (h *HelpFormatter) highlight(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		line = ruleIDPattern.ReplaceAllStringFunc(line, func(m string) string { return h.styles.ruleID.Render(m) })
		lines[i] = capabilityPattern.ReplaceAllStringFunc(line, func(m string) string { return h.styles.capability.Render(m) })
	}
	return strings.Join(lines, "\n")
}

// flagUsages styles the output of pflag's FlagUsages.
func (h *HelpFormatter) flagUsages(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		m := flagLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent, names, typ, desc := m[1], m[2], m[3], m[4]
		lines[i] = indent + h.styles.flag.Render(names) + h.styles.dim.Render(typ) + "   " + desc
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) exitCodes() string {
	lines := make([]string, 0, len(exitCodeHelp))
	for _, e := range exitCodeHelp {
		lines = append(lines, fmt.Sprintf("  %s %s", h.styles.subcommand.Render(rpad(fmt.Sprint(e.code), 3)), e.text))
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand installs the styled templates on cmd; subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	usage := template.Must(template.New("usage").Funcs(h.funcs()).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// rpad pads str with spaces to width.
func rpad(str string, width int) string {
	if len(str) >= width {
		return str
	}
	return str + strings.Repeat(" ", width-len(str))
}
