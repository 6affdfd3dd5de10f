package scenario

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/encheck/pkg/rude"
)

// Mismatch is the difference between expected and produced kinds, as
// multisets.
type Mismatch struct {
	Missing    []rude.Kind
	Unexpected []rude.Kind
}

// OK reports whether the expectation was met.
func (m Mismatch) OK() bool {
	return len(m.Missing) == 0 && len(m.Unexpected) == 0
}

func (m Mismatch) String() string {
	if m.OK() {
		return "ok"
	}
	var parts []string
	if len(m.Missing) > 0 {
		parts = append(parts, "missing "+joinKinds(m.Missing))
	}
	if len(m.Unexpected) > 0 {
		parts = append(parts, "unexpected "+joinKinds(m.Unexpected))
	}
	return strings.Join(parts, "; ")
}

// Verify compares the diagnostics of a run with the scenario's
// expectation. Scenarios without an expect fence always pass.
func (s Scenario) Verify(diags []rude.Diagnostic) Mismatch {
	if !s.HasExpect {
		return Mismatch{}
	}

	want := make(map[rude.Kind]int)
	for _, k := range s.Expect {
		want[k]++
	}
	got := make(map[rude.Kind]int)
	for _, d := range diags {
		got[d.Kind]++
	}

	var m Mismatch
	for k, n := range want {
		for range n - got[k] {
			m.Missing = append(m.Missing, k)
		}
	}
	for k, n := range got {
		for range n - want[k] {
			m.Unexpected = append(m.Unexpected, k)
		}
	}
	slices.Sort(m.Missing)
	slices.Sort(m.Unexpected)
	return m
}

func joinKinds(kinds []rude.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(names, ", "))
}
