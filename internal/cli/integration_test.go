package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/internal/cli"
	_ "github.com/yaklabco/encheck/pkg/rude/rules"
)

const capturing = `class C
{
    void M()
    {
        int %s = 1;
        System.Func<int> f = () => %s;
    }
}
`

func capturingSource(name string) string {
	return fmt.Sprintf(capturing, name, name)
}

// harness runs the root command against a private config file.
type harness struct {
	t      *testing.T
	dir    string
	config string
}

func newHarness(t *testing.T, configContent string) *harness {
	t.Helper()

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "encheck.yml")
	if configContent == "" {
		configContent = "capabilities: [Baseline]\n"
	}
	require.NoError(t, os.WriteFile(cfgFile, []byte(configContent), 0o644))
	return &harness{t: t, dir: dir, config: cfgFile}
}

func (h *harness) write(rel, content string) string {
	h.t.Helper()

	path := filepath.Join(h.dir, filepath.FromSlash(rel))
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", h.config, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIntegration_CheckFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		ruleFormat     string
		wantContains   []string
		wantNotContain []string
	}{
		{
			name:           "format name shows rule name only",
			ruleFormat:     "name",
			wantContains:   []string{"renaming-captured-variable"},
			wantNotContain: []string{"ENC003/"},
		},
		{
			name:           "format id shows rule ID only",
			ruleFormat:     "id",
			wantContains:   []string{"ENC003"},
			wantNotContain: []string{"renaming-captured-variable"},
		},
		{
			name:         "format combined shows both ID and name",
			ruleFormat:   "combined",
			wantContains: []string{"ENC003/renaming-captured-variable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, "")
			oldFile := h.write("old/C.cs", capturingSource("x"))
			newFile := h.write("new/C.cs", capturingSource("X"))

			stdout, _, err := h.run("check", oldFile, newFile, "--rule-format", tt.ruleFormat)
			require.ErrorIs(t, err, cli.ErrRudeEditsFound)

			for _, want := range tt.wantContains {
				assert.Contains(t, stdout, want)
			}
			for _, notWant := range tt.wantNotContain {
				assert.NotContains(t, stdout, notWant)
			}
		})
	}
}

func TestIntegration_CheckCleanEdit(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	oldFile := h.write("old/C.cs", capturingSource("x"))
	newFile := h.write("new/C.cs", strings.Replace(capturingSource("x"), "= 1", "= 2", 1))

	stdout, _, err := h.run("check", oldFile, newFile, "--edits")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No rude edits")
	assert.Contains(t, stdout, "C.M", "the updated method is listed as a semantic edit")
}

func TestIntegration_CheckJSON(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	oldFile := h.write("old/C.cs", capturingSource("x"))
	newFile := h.write("new/C.cs", capturingSource("X"))

	stdout, _, err := h.run("check", oldFile, newFile, "--format", "json")
	require.ErrorIs(t, err, cli.ErrRudeEditsFound)

	var report struct {
		Diagnostics []struct {
			RuleID   string `json:"ruleId"`
			Kind     string `json:"kind"`
			Code     int    `json:"code"`
			Blocking bool   `json:"blocking"`
		} `json:"diagnostics"`
		Summary struct {
			Documents int `json:"documents"`
			Blocked   int `json:"blocked"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report), stdout)

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "ENC003", report.Diagnostics[0].RuleID)
	assert.Equal(t, "RenamingCapturedVariable", report.Diagnostics[0].Kind)
	assert.Equal(t, 1003, report.Diagnostics[0].Code)
	assert.True(t, report.Diagnostics[0].Blocking)
	assert.Equal(t, 1, report.Summary.Documents)
	assert.Equal(t, 1, report.Summary.Blocked)
}

func TestIntegration_CheckDirectories(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "capabilities: [Baseline]\nexclude: ['**/obj/**']\n")
	h.write("v1/src/A.cs", capturingSource("a"))
	h.write("v2/src/A.cs", capturingSource("b"))
	h.write("v1/src/B.cs", capturingSource("x"))
	h.write("v2/src/B.cs", capturingSource("x"))
	h.write("v1/obj/Gen.cs", "class {")
	h.write("v2/obj/Gen.cs", "class {")

	stdout, _, err := h.run("check", filepath.Join(h.dir, "v1"), filepath.Join(h.dir, "v2"), "--format", "json")
	require.ErrorIs(t, err, cli.ErrRudeEditsFound)

	var report struct {
		Summary struct {
			Documents int `json:"documents"`
			Errored   int `json:"errored"`
			Blocked   int `json:"blocked"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 2, report.Summary.Documents)
	assert.Equal(t, 0, report.Summary.Errored)
	assert.Equal(t, 1, report.Summary.Blocked)
}

func TestIntegration_CheckMixedArguments(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	file := h.write("C.cs", capturingSource("x"))

	_, _, err := h.run("check", file, h.dir)
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, _, err = h.run("check", file, file, "--sort", "severity")
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}

func TestIntegration_Session(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	h.write("v1/C.cs", capturingSource("x"))
	h.write("v2/C.cs", capturingSource("X"))
	manifest := h.write("session.jsonc", `{
  // one renamed capture
  "name": "rename",
  "documents": [
    {"path": "C.cs", "old": "v1/C.cs", "new": "v2/C.cs"}
  ]
}`)

	stdout, _, err := h.run("session", manifest, "--rule-format", "id")
	require.ErrorIs(t, err, cli.ErrRudeEditsFound)
	assert.Contains(t, stdout, "ENC003")
}

func TestIntegration_SessionInvalidManifest(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	manifest := h.write("session.json", `{"name": "empty"}`)

	_, _, err := h.run("session", manifest)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func scenarioFile(oldName, newName, expect string) string {
	return "# Captures\n\n## renaming a captured local\n\n" +
		"```csharp before\n" + capturingSource(oldName) + "```\n\n" +
		"```csharp after\n" + capturingSource(newName) + "```\n\n" +
		"```expect\n" + expect + "\n```\n"
}

func TestIntegration_Scenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	pass := h.write("pass.md", scenarioFile("x", "X", "RenamingCapturedVariable"))
	fail := h.write("fail.md", scenarioFile("x", "X", "none"))

	stdout, _, err := h.run("scenario", pass)
	require.NoError(t, err)
	assert.Contains(t, stdout, "PASS")
	assert.Contains(t, stdout, "1 scenarios, 0 failed")

	stdout, _, err = h.run("scenario", pass, fail, "--verbose")
	require.ErrorIs(t, err, cli.ErrScenarioFailed)
	assert.Contains(t, stdout, "FAIL")
	assert.Contains(t, stdout, "unexpected RenamingCapturedVariable")
	assert.Contains(t, stdout, "2 scenarios, 1 failed")
}

func TestIntegration_History(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	h := newHarness(t, fmt.Sprintf("capabilities: [Baseline]\nhistory:\n  enabled: false\n  path: %q\n", dbPath))
	oldFile := h.write("old/C.cs", capturingSource("x"))
	newFile := h.write("new/C.cs", capturingSource("X"))

	_, _, err := h.run("check", oldFile, newFile, "--record")
	require.ErrorIs(t, err, cli.ErrRudeEditsFound)

	stdout, _, err := h.run("history", "list", "--format", "json")
	require.NoError(t, err)

	var runs []struct {
		ID          string
		Source      string
		Blocked     int
		Diagnostics int
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, oldFile+" -> "+newFile, runs[0].Source)
	assert.Equal(t, 1, runs[0].Blocked)
	assert.Equal(t, 1, runs[0].Diagnostics)

	stdout, _, err = h.run("history", "show", runs[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, stdout, "ENC003")

	_, _, err = h.run("history", "show", "ffffffff-no-such-run")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, _, err = h.run("history", "prune", "--keep", "0")
	require.NoError(t, err)
	stdout, _, err = h.run("history", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no recorded runs")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	out := filepath.Join(h.dir, "generated", ".encheck.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))

	_, _, err := h.run("init", "--format", "toml", "--full", "--output", out)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `capabilities = ["Baseline"]`)
	assert.Contains(t, string(content), "[rules.ENC006]")

	_, stderr, err := h.run("init", "--format", "toml", "--full", "--force", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "up to date")

	_, _, err = h.run("init", "--format", "yaml", "--force", "--output", out)
	require.NoError(t, err)
	content, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "capabilities:")

	_, _, err = h.run("init", "--format", "json", "--output", out)
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}

func TestIntegration_Capabilities(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")

	stdout, _, err := h.run("capabilities")
	require.NoError(t, err)
	assert.Contains(t, stdout, "AddMethodToExistingType")
	assert.Contains(t, stdout, "ENC008")

	_, _, err = h.run("capabilities", "Baseline,Hotswap")
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")
	stdout, _, err := h.run("version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "encheck")
	assert.Contains(t, stdout, "version=test")
	assert.Contains(t, stdout, "rules=16")

	stdout, _, err = h.run("version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "test\n", stdout)
}

func TestIntegration_Help(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "")

	stdout, _, err := h.run("--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exit Codes:")
	assert.Contains(t, stdout, "64  invalid arguments or flags")
	assert.Contains(t, stdout, "history")

	stdout, _, err = h.run("check", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--rule-format")
	assert.NotContains(t, stdout, "Exit Codes:")
}
