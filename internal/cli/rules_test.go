package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/internal/ui/pretty"
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/rude"
	_ "github.com/yaklabco/encheck/pkg/rude/rules" // Register built-in rules
)

func TestRulesCommand_Flags(t *testing.T) {
	cmd := newRulesCommand()
	for _, name := range []string{"rule-format", "format", "tag"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing --%s", name)
	}
}

func TestFilterRules(t *testing.T) {
	t.Parallel()

	all := rude.DefaultRegistry.Rules()
	require.NotEmpty(t, all)
	assert.Equal(t, all, filterRules(all, ""))

	captures := filterRules(all, "CAPTURE")
	require.NotEmpty(t, captures)
	for _, r := range captures {
		assert.Contains(t, r.Tags(), "capture")
	}
	assert.Empty(t, filterRules(all, "no-such-tag"))
}

func TestOutputRulesText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	outputRulesText(&buf, pretty.NewStyles(false), rude.DefaultRegistry.Rules(), config.RuleFormatCombined)

	out := buf.String()
	assert.Contains(t, out, "ENC003/renaming-captured-variable")
	assert.Contains(t, out, "kinds: RenamingCapturedVariable; always enabled")
}

func TestOutputRulesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, outputRulesJSON(&buf, rude.DefaultRegistry.Rules()))

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	require.Len(t, infos, len(rude.DefaultRegistry.Rules()))

	for _, info := range infos {
		if info.ID == "ENC003" {
			assert.Equal(t, "renaming-captured-variable", info.Name)
			assert.False(t, info.Configurable)
			assert.Equal(t, []string{"RenamingCapturedVariable"}, info.Kinds)
		}
	}
}

func TestCapabilityInfos(t *testing.T) {
	t.Parallel()

	rules := rude.DefaultRegistry.Rules()
	infos := capabilityInfos(capability.All, rules)
	require.Len(t, infos, capability.All.Len())
	assert.Equal(t, "Baseline", infos[0].Name)

	gated := 0
	for _, info := range infos {
		gated += len(info.Rules)
	}
	assert.Positive(t, gated, "some rule must be relaxed by a capability")

	one := capabilityInfos(capability.Of(capability.NewTypeDefinition), rules)
	require.Len(t, one, 1)
	assert.Equal(t, "NewTypeDefinition", one[0].Name)
}

func TestTemplateRulesSkipsFixedRules(t *testing.T) {
	t.Parallel()

	for _, info := range templateRules(rude.DefaultRegistry.Rules()) {
		assert.NotEqual(t, "ENC003", info.ID)
	}
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"yes", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Overwrite? ")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Overwrite? ", out.String())
	}

	_, err := confirm(strings.NewReader(""), &bytes.Buffer{}, "? ")
	assert.Error(t, err)
}
