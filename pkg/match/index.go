package match

import (
	"github.com/yaklabco/encheck/pkg/syntax"
)

// index is the per-call labeling of one tree. It is built once per Compute
// and discarded with the Match.
type index struct {
	tree *syntax.Tree

	labels    []Label
	lparent   []syntax.NodeID
	lchildren [][]syntax.NodeID
	lpos      []int32
	order     []int32
	labeled   []syntax.NodeID
	byLabel   [labelCount][]syntax.NodeID

	header [][]string
	body   [][]string
	full   [][]string
}

func newIndex(tree *syntax.Tree) *index {
	n := tree.Len()
	idx := &index{
		tree:      tree,
		labels:    make([]Label, n),
		lparent:   make([]syntax.NodeID, n),
		lchildren: make([][]syntax.NodeID, n),
		lpos:      make([]int32, n),
		order:     make([]int32, n),
		header:    make([][]string, n),
		body:      make([][]string, n),
		full:      make([][]string, n),
	}

	for i := range n {
		id := syntax.NodeID(i)
		label := LabelOf(tree, id)
		if id == tree.Root() && label == LabelIgnored {
			label = LabelCompilationUnit
		}
		idx.labels[id] = label

		parent := tree.Parent(id)
		switch {
		case parent == syntax.NoNode:
			idx.lparent[id] = syntax.NoNode
		case idx.labels[parent] != LabelIgnored:
			idx.lparent[id] = parent
		default:
			idx.lparent[id] = idx.lparent[parent]
		}

		idx.order[id] = -1
		idx.lpos[id] = -1
		if label == LabelIgnored {
			continue
		}
		idx.order[id] = int32(len(idx.labeled))
		idx.labeled = append(idx.labeled, id)
		idx.byLabel[label] = append(idx.byLabel[label], id)
		if lp := idx.lparent[id]; lp != syntax.NoNode {
			idx.lpos[id] = int32(len(idx.lchildren[lp]))
			idx.lchildren[lp] = append(idx.lchildren[lp], id)
		}
	}

	return idx
}

func (x *index) isLabeled(id syntax.NodeID) bool {
	return x.tree.Valid(id) && x.labels[id] != LabelIgnored
}

// owner returns the nearest labeled ancestor-or-self.
func (x *index) owner(id syntax.NodeID) syntax.NodeID {
	if !x.tree.Valid(id) {
		return syntax.NoNode
	}
	if x.labels[id] != LabelIgnored {
		return id
	}
	return x.lparent[id]
}

// content visits the node and its descendants that are not inside a
// labeled descendant.
func (x *index) content(id syntax.NodeID, visit func(c syntax.NodeID)) {
	visit(id)
	end := x.tree.SubtreeEnd(id)
	for c := id + 1; c < end; {
		if x.labels[c] != LabelIgnored {
			c = x.tree.SubtreeEnd(c)
			continue
		}
		visit(c)
		c++
	}
}

func (x *index) headerTokens(id syntax.NodeID) []string {
	if x.header[id] == nil {
		toks := make([]string, 0, 4)
		x.content(id, func(c syntax.NodeID) {
			if tok := x.tree.Token(c); tok != "" {
				toks = append(toks, tok)
			}
		})
		x.header[id] = toks
	}
	return x.header[id]
}

func (x *index) bodyTokens(id syntax.NodeID) []string {
	if x.body[id] == nil {
		toks := make([]string, 0, 8)
		for _, c := range x.lchildren[id] {
			toks = append(toks, x.fullTokens(c)...)
		}
		x.body[id] = toks
	}
	return x.body[id]
}

func (x *index) fullTokens(id syntax.NodeID) []string {
	if x.full[id] == nil {
		x.full[id] = x.tree.Tokens(id)
		if x.full[id] == nil {
			x.full[id] = []string{}
		}
	}
	return x.full[id]
}

type contentItem struct {
	kind  syntax.Kind
	token string
}

func (x *index) contentItems(id syntax.NodeID) []contentItem {
	var items []contentItem
	x.content(id, func(c syntax.NodeID) {
		items = append(items, contentItem{kind: x.tree.Kind(c), token: x.tree.Token(c)})
	})
	return items
}

func (x *index) contentNodes(id syntax.NodeID) []syntax.NodeID {
	var nodes []syntax.NodeID
	x.content(id, func(c syntax.NodeID) {
		nodes = append(nodes, c)
	})
	return nodes
}
