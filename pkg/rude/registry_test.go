package rude_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/encheck/pkg/rude"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := rude.NewRegistry()
	registry.Register(newTestRule(testRuleID2, rude.StackAllocUpdate, rude.AwaitStatementUpdate))
	registry.Register(newTestRule(testRuleID1, rude.StackAllocUpdate))

	assert.Equal(t, []string{testRuleID1, testRuleID2}, registry.IDs())

	rule, ok := registry.Get(testRuleID1 + "-name")
	require.True(t, ok)
	assert.Equal(t, testRuleID1, rule.ID())

	_, ok = registry.GetByID(testRuleID1 + "-name")
	assert.False(t, ok, "GetByID does not fall back to names")

	rule, ok = registry.ForKind(rude.StackAllocUpdate)
	require.True(t, ok)
	assert.Equal(t, testRuleID2, rule.ID(), "kind stays with the first rule")

	_, ok = registry.ForKind(rude.ChangingTypeParameters)
	assert.False(t, ok)
}

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	registry := rude.NewRegistry()
	registry.Register(newTestRule(testRuleID1, rude.AwaitStatementUpdate))

	for _, key := range []string{testRuleID1, testRuleID1 + "-name", "AwaitStatementUpdate"} {
		id, rule, ok := registry.Resolve(key)
		require.True(t, ok, key)
		assert.Equal(t, testRuleID1, id)
		assert.NotNil(t, rule)
	}

	_, _, ok := registry.Resolve("StackAllocUpdate")
	assert.False(t, ok)
}
