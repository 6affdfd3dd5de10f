package cli_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/encheck/internal/cli"
	"github.com/yaklabco/encheck/internal/configloader"
	"github.com/yaklabco/encheck/pkg/fsutil"
	"github.com/yaklabco/encheck/pkg/runner"
	"github.com/yaklabco/encheck/pkg/session"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "encheck" {
		t.Errorf("expected Use to be 'encheck', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expected := []string{"check", "session", "scenario", "rules", "capabilities", "init", "history", "version"}
	for _, name := range expected {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}
		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}

	for _, name := range []string{"list", "show", "prune"} {
		subCmd, _, err := cmd.Find([]string{"history", name})
		if assert.NoError(t, err) {
			assert.Equal(t, name, subCmd.Name())
		}
	}
}

func TestAnalyzeCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expectedFlags := []string{
		"capabilities", "format", "jobs", "include", "exclude", "enable", "disable",
		"rule-format", "strict", "no-context", "compact", "edits", "applicable", "stale", "record",
	}

	for _, name := range []string{"check", "session"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("%s command not found: %v", name, err)
		}
		for _, flag := range expectedFlags {
			if sub.Flags().Lookup(flag) == nil {
				t.Errorf("%s: expected flag --%s", name, flag)
			}
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, flag := range []string{"debug", "config", "color", "log-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing --%s", flag)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"rude edits", cli.ErrRudeEditsFound, cli.ExitRudeEdits},
		{"scenario", fmt.Errorf("run: %w", cli.ErrScenarioFailed), cli.ExitRudeEdits},
		{"warnings", cli.ErrWarningsFound, cli.ExitWarnings},
		{"usage", fmt.Errorf("%w: bad", cli.ErrInvalidUsage), cli.ExitInvalidUsage},
		{"config", &configloader.ValidationError{Field: "jobs", Message: "bad"}, cli.ExitConfigError},
		{"manifest", fmt.Errorf("m.json: %w", session.ErrInvalidManifest), cli.ExitConfigError},
		{"missing file", fmt.Errorf("%w: x.cs", fsutil.ErrNotFound), cli.ExitIOError},
		{"stat", &os.PathError{Op: "stat", Path: "x", Err: os.ErrNotExist}, cli.ExitIOError},
		{"other", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestIsSignal(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsSignal(cli.ErrRudeEditsFound))
	assert.True(t, cli.IsSignal(cli.ErrScenarioFailed))
	assert.False(t, cli.IsSignal(errors.New("boom")))
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, true))

	warnings := &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{"warning": 1}}}
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(warnings, false))
	assert.Equal(t, cli.ExitWarnings, cli.ExitCodeFromResult(warnings, true))

	errored := &runner.Result{Stats: runner.Stats{Errored: 1}}
	assert.Equal(t, cli.ExitRudeEdits, cli.ExitCodeFromResult(errored, false))
}
