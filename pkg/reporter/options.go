package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/encheck/pkg/analysis"
	"github.com/yaklabco/encheck/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext includes the source line under each rude edit.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// ShowEdits lists the semantic edits of each document (text format).
	ShowEdits bool

	// ShowApplicable lists gated edits the runtime accepts (text format).
	ShowApplicable bool

	// Compact uses minified output where applicable.
	Compact bool

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat config.RuleFormat

	// SortBy orders the per-document and per-rule views of the json,
	// summary and binary formats. Empty keeps the analysis default.
	SortBy analysis.SortField

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string

	// ToolVersion is reported in SARIF output.
	ToolVersion string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:         os.Stdout,
		ErrorWriter:    os.Stderr,
		Format:         FormatText,
		Color:          "auto",
		ShowContext:    true,
		ShowSummary:    true,
		ShowApplicable: true,
		RuleFormat:     config.RuleFormatName,
		ToolVersion:    "dev",
	}
}
