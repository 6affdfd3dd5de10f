package capture

// disjointSet is a union-find forest over scope IDs with path compression
// and union by rank. Element 0 is the unused sentinel.
type disjointSet struct {
	parent []ScopeID
	rank   []uint8
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{
		parent: make([]ScopeID, n),
		rank:   make([]uint8, n),
	}
	for i := range ds.parent {
		ds.parent[i] = toScopeID(i)
	}
	return ds
}

func (ds *disjointSet) find(x ScopeID) ScopeID {
	root := x
	for ds.parent[root] != root {
		root = ds.parent[root]
	}
	for ds.parent[x] != root {
		next := ds.parent[x]
		ds.parent[x] = root
		x = next
	}
	return root
}

func (ds *disjointSet) union(a, b ScopeID) {
	ra, rb := ds.find(a), ds.find(b)
	if ra == rb {
		return
	}
	switch {
	case ds.rank[ra] < ds.rank[rb]:
		ds.parent[ra] = rb
	case ds.rank[ra] > ds.rank[rb]:
		ds.parent[rb] = ra
	default:
		ds.parent[rb] = ra
		ds.rank[ra]++
	}
}

func (ds *disjointSet) connected(a, b ScopeID) bool {
	return ds.find(a) == ds.find(b)
}
