package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/encheck/internal/configloader"
	"github.com/yaklabco/encheck/pkg/fsutil"
	"github.com/yaklabco/encheck/pkg/runner"
	"github.com/yaklabco/encheck/pkg/scenario"
	"github.com/yaklabco/encheck/pkg/session"
	"github.com/yaklabco/encheck/pkg/store"
)

// Exit codes for encheck.
const (
	// ExitSuccess indicates every edit can be applied.
	ExitSuccess = 0

	// ExitRudeEdits indicates at least one document holds a blocking rude edit,
	// or a scenario did not produce its expected kinds.
	ExitRudeEdits = 1

	// ExitWarnings indicates warnings were found in strict mode.
	ExitWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration or manifest errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Signal errors. They carry an exit code but are not logged as failures.
var (
	// ErrRudeEditsFound is returned when a run holds blocking rude edits.
	ErrRudeEditsFound = errors.New("rude edits found")

	// ErrWarningsFound is returned in strict mode when warnings were reported.
	ErrWarningsFound = errors.New("warnings found")

	// ErrScenarioFailed is returned when a scenario expectation was not met.
	ErrScenarioFailed = errors.New("scenario expectations not met")

	// ErrInvalidUsage is returned for argument combinations cobra cannot check.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasBlocking() || result.HasErrors() {
		return ExitRudeEdits
	}

	if strict && result.Stats.DiagnosticsBySeverity["warning"] > 0 {
		return ExitWarnings
	}

	return ExitSuccess
}

// IsSignal reports whether err only signals an exit code.
func IsSignal(err error) bool {
	return errors.Is(err, ErrRudeEditsFound) ||
		errors.Is(err, ErrWarningsFound) ||
		errors.Is(err, ErrScenarioFailed)
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrRudeEditsFound), errors.Is(err, ErrScenarioFailed):
		return ExitRudeEdits
	case errors.Is(err, ErrWarningsFound):
		return ExitWarnings
	case errors.Is(err, ErrInvalidUsage), errors.Is(err, store.ErrRunNotFound):
		return ExitInvalidUsage
	case errors.As(err, &validation),
		errors.Is(err, session.ErrInvalidManifest),
		errors.Is(err, scenario.ErrMalformed),
		errors.Is(err, scenario.ErrNoScenarios):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
