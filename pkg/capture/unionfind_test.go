package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisjointSet(t *testing.T) {
	t.Parallel()

	ds := newDisjointSet(6)
	for i := 1; i < 6; i++ {
		assert.Equal(t, ScopeID(i), ds.find(ScopeID(i)))
	}

	ds.union(1, 2)
	ds.union(3, 4)
	assert.True(t, ds.connected(1, 2))
	assert.False(t, ds.connected(2, 3))

	ds.union(2, 4)
	assert.True(t, ds.connected(1, 3))
	assert.False(t, ds.connected(1, 5))

	root := ds.find(4)
	for _, x := range []ScopeID{1, 2, 3, 4} {
		ds.find(x)
		assert.Equal(t, root, ds.parent[x], "path compressed for %d", x)
	}
}
