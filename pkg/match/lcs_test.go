package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLCS(t *testing.T) {
	t.Parallel()

	strEq := func(a, b []string) func(i, j int) bool {
		return func(i, j int) bool { return a[i] == b[j] }
	}

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, LCS(0, 3, func(int, int) bool { return true }))
	})

	t.Run("common subsequence", func(t *testing.T) {
		t.Parallel()

		a := []string{"a", "b", "c", "d"}
		b := []string{"b", "x", "d"}
		assert.Equal(t, [][2]int{{1, 0}, {3, 2}}, LCS(len(a), len(b), strEq(a, b)))
	})

	t.Run("swap keeps the earlier element", func(t *testing.T) {
		t.Parallel()

		a := []string{"p", "q"}
		b := []string{"q", "p"}
		assert.Equal(t, [][2]int{{0, 1}}, LCS(len(a), len(b), strEq(a, b)))
	})
}

func TestLCS_OversizedInputsAlignGreedily(t *testing.T) {
	t.Parallel()

	a := []string{"a", "b", "x", "c", "y", "d", "e"}
	b := []string{"a", "b", "c", "z", "d", "e"}
	eq := func(i, j int) bool { return a[i] == b[j] }

	exact := boundedLCS(len(a), len(b), eq, maxSiblingCells)
	bounded := boundedLCS(len(a), len(b), eq, 4)

	assert.Equal(t, exact, bounded)
	assert.Equal(t, [][2]int{{0, 0}, {1, 1}, {3, 2}, {5, 4}, {6, 5}}, bounded)

	for i := 1; i < len(bounded); i++ {
		if bounded[i][0] <= bounded[i-1][0] || bounded[i][1] <= bounded[i-1][1] {
			t.Fatalf("pairs not increasing: %v", bounded)
		}
	}
}

func TestLCS_LargeSiblingLists(t *testing.T) {
	t.Parallel()

	const n = 5000
	pairs := LCS(n, n+1, func(i, j int) bool { return j == i+1 })

	if len(pairs) != n {
		t.Fatalf("got %d pairs, want %d", len(pairs), n)
	}
	assert.Equal(t, [2]int{0, 1}, pairs[0])
	assert.Equal(t, [2]int{n - 1, n}, pairs[n-1])
}

func TestTokenDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{name: "both empty", want: 0},
		{name: "one empty", a: []string{"x"}, want: 1},
		{name: "equal", a: []string{"f", "x"}, b: []string{"f", "x"}, want: 0},
		{name: "disjoint", a: []string{"a"}, b: []string{"b"}, want: 1},
		{name: "half", a: []string{"case", "1"}, b: []string{"case", "2"}, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tokenDistance(tt.a, tt.b), 1e-9)
		})
	}
}

func TestBagOverlap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, bagOverlap([]string{"a", "b", "a"}, []string{"a", "a", "c"}))
}
