package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies rules and slices", func(t *testing.T) {
		t.Parallel()

		enabled := true
		severity := "error"
		original := &config.Config{
			Capabilities: []string{"Baseline"},
			Rules: map[string]config.RuleConfig{
				"ENC003": {Enabled: &enabled, Severity: &severity, Options: map[string]any{"k": "v"}},
			},
			EnableRules: []string{"ENC001"},
			Jobs:        4,
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)

		clone.Capabilities[0] = "UpdateParameters"
		*clone.Rules["ENC003"].Severity = "info"
		clone.Rules["ENC003"].Options["k"] = "changed"
		clone.EnableRules[0] = "ENC002"

		assert.Equal(t, "Baseline", original.Capabilities[0])
		assert.Equal(t, "error", *original.Rules["ENC003"].Severity)
		assert.Equal(t, "v", original.Rules["ENC003"].Options["k"])
		assert.Equal(t, "ENC001", original.EnableRules[0])
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte(`
capabilities: [Baseline, GenericUpdateMethod]
rules:
  ENC012:
    enabled: false
jobs: 2
format: json
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Baseline", "GenericUpdateMethod"}, cfg.Capabilities)
	assert.False(t, *cfg.Rules["ENC012"].Enabled)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, config.FormatJSON, cfg.Format)

	empty, err := config.FromYAML(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Rules)

	_, err = config.FromYAML([]byte("capabilities: [unclosed"))
	require.Error(t, err)
}

func TestFromTOML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromTOML([]byte(`
capabilities = ["Baseline"]
exclude = ["**/obj/**"]

[rules.ENC003]
severity = "warning"
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"**/obj/**"}, cfg.Exclude)
	assert.Equal(t, "warning", *cfg.Rules["ENC003"].Severity)

	_, err = config.FromTOML([]byte(`flavor = "gfm"`))
	require.ErrorContains(t, err, "unknown key")
}

func TestConfig_EncodeDecode(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Jobs = 3

	yamlData, err := cfg.ToYAML()
	require.NoError(t, err)
	fromYAML, err := config.FromYAML(yamlData)
	require.NoError(t, err)
	assert.Equal(t, cfg.Capabilities, fromYAML.Capabilities)
	assert.Equal(t, 3, fromYAML.Jobs)

	tomlData, err := cfg.ToTOML()
	require.NoError(t, err)
	fromTOML, err := config.FromTOML(tomlData)
	require.NoError(t, err)
	assert.Equal(t, cfg.Include, fromTOML.Include)
	assert.Empty(t, fromTOML.RuleFormat, "CLI-only fields are not persisted")
}
