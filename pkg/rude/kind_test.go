package rude_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/encheck/pkg/rude"
)

func TestKind_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind rude.Kind
		args []string
		want string
	}{
		{
			name: "all arguments",
			kind: rude.RenamingCapturedVariable,
			args: []string{"x", "X"},
			want: "Renaming captured variable 'x' to 'X' requires restarting the application.",
		},
		{
			name: "missing argument",
			kind: rude.RenamingCapturedVariable,
			args: []string{"x"},
			want: "Renaming captured variable 'x' to '?' requires restarting the application.",
		},
		{
			name: "extra arguments are ignored",
			kind: rude.SwitchBetweenLambdaAndLocalFunction,
			args: []string{"unused"},
			want: "Switching between a lambda and a local function requires restarting the application.",
		},
		{
			name: "unknown kind",
			kind: rude.Kind(500),
			want: "Kind(500)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.kind.Message(tt.args...))
		})
	}
}

func TestKind_CodesAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[int]rude.Kind)
	for _, k := range rude.Kinds() {
		code := k.Code()
		assert.NotZero(t, code, "%s has no code", k)
		if prev, dup := seen[code]; dup {
			t.Errorf("%s and %s share code %d", prev, k, code)
		}
		seen[code] = k
	}
	assert.Equal(t, 1005, rude.StackAllocUpdate.Code())
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range rude.Kinds() {
		got, ok := rude.ParseKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}

	_, ok := rude.ParseKind("None")
	assert.False(t, ok)
	_, ok = rude.ParseKind("NoSuchKind")
	assert.False(t, ok)
}
