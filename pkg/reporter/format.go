package reporter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/encheck/pkg/config"
)

// Format is an output format. Its values match config.OutputFormat.
type Format string

// Output formats supported by the reporter.
const (
	FormatText    = Format(config.FormatText)
	FormatJSON    = Format(config.FormatJSON)
	FormatSARIF   = Format(config.FormatSARIF)
	FormatSummary = Format(config.FormatSummary)
	FormatMsgpack = Format(config.FormatMsgpack)
)

var formats = []Format{FormatText, FormatJSON, FormatSARIF, FormatSummary, FormatMsgpack}

// ParseFormat parses a format name; the empty name selects text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	if f := Format(name); f.IsValid() {
		return f, nil
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(names, ", "))
}

func (f Format) String() string { return string(f) }

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool { return slices.Contains(formats, f) }

// Binary reports whether the format writes non-text output.
func (f Format) Binary() bool { return f == FormatMsgpack }
