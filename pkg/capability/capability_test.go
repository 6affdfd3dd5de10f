package capability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/capability"
)

func TestSet(t *testing.T) {
	t.Parallel()

	s := capability.Of(capability.Baseline, capability.UpdateParameters)
	assert.True(t, s.Has(capability.Baseline))
	assert.False(t, s.Has(capability.GenericUpdateMethod))
	assert.True(t, s.HasAll(capability.Of(capability.UpdateParameters)))
	assert.False(t, s.HasAll(capability.Of(capability.UpdateParameters, capability.NewTypeDefinition)))
	assert.Equal(t, 2, s.Len())

	missing := s.Missing(capability.Of(capability.UpdateParameters, capability.NewTypeDefinition))
	assert.Equal(t, []string{"NewTypeDefinition"}, missing.Names())

	wider := s.With(capability.GenericUpdateMethod)
	assert.Equal(t, 3, wider.Len())
	assert.Equal(t, 2, s.Len(), "With does not modify the receiver")

	assert.Equal(t, "Baseline, UpdateParameters", s.String())
	assert.Equal(t, "none", capability.None.String())
	assert.Equal(t, 7, capability.All.Len())
	assert.True(t, capability.None.HasAll(capability.None))
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  capability.Set
	}{
		{"empty", "", capability.None},
		{"none", "none", capability.None},
		{"all", "ALL", capability.All},
		{"comma separated", "baseline,updateparameters", capability.Of(capability.Baseline, capability.UpdateParameters)},
		{"space separated", "Baseline  GenericUpdateMethod", capability.Of(capability.Baseline, capability.GenericUpdateMethod)},
		{"mixed", " NewTypeDefinition, ChangeCustomAttributes ", capability.Of(capability.NewTypeDefinition, capability.ChangeCustomAttributes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := capability.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := capability.Parse("Baseline,HotReload")
	require.ErrorIs(t, err, capability.ErrUnknown)
}

func TestCapability_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AddExplicitInterfaceImplementation", capability.AddExplicitInterfaceImplementation.String())
	assert.Equal(t, "Capability(0x8000)", capability.Capability(0x8000).String())
}
