package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/rude"
)

func TestRegisterAll(t *testing.T) {
	t.Parallel()

	registry := rude.NewRegistry()
	RegisterAll(registry)

	ids := registry.IDs()
	require.Len(t, ids, 16)
	assert.Equal(t, "ENC001", ids[0])
	assert.Equal(t, "ENC016", ids[len(ids)-1])

	rule, ok := registry.GetByID("ENC003")
	require.True(t, ok)
	assert.Equal(t, "renaming-captured-variable", rule.Name())
	assert.False(t, rule.Configurable())
}

func TestRegisterAll_EveryKindHasARule(t *testing.T) {
	t.Parallel()

	registry := rude.NewRegistry()
	RegisterAll(registry)

	for _, kind := range rude.Kinds() {
		if kind == rude.InternalError {
			continue
		}
		_, ok := registry.ForKind(kind)
		assert.True(t, ok, "no rule reports %s", kind)
	}

	rule, ok := registry.ForKind(rude.InsertNotSupportedByRuntime)
	require.True(t, ok)
	assert.Equal(t, "ENC008", rule.ID(), "first registration owns a shared kind")
}

func TestRegisterAll_ResolveByKindName(t *testing.T) {
	t.Parallel()

	registry := rude.NewRegistry()
	RegisterAll(registry)

	id, _, ok := registry.Resolve("StackAllocUpdate")
	require.True(t, ok)
	assert.Equal(t, "ENC006", id)

	id, _, ok = registry.Resolve("await-statement-update")
	require.True(t, ok)
	assert.Equal(t, "ENC007", id)
}

func TestDefaultRegistryIsPopulated(t *testing.T) {
	t.Parallel()

	assert.Len(t, rude.DefaultRegistry.IDs(), 16)
}
