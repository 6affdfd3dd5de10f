package editscript

import (
	"errors"
	"math"

	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// ErrNilMatch is returned by Build when no match is supplied.
var ErrNilMatch = errors.New("editscript: nil match")

// Script is the canonical, ordered edit list for a match.
type Script struct {
	match *match.Match
	edits []Edit
}

// Build derives the edit script of a match.
//
// Edits follow new-tree pre-order; a node's Update precedes its Move or
// Reorder. Deletes follow in old-tree pre-order and are reported once, at the
// root of each deleted subtree.
func Build(m *match.Match) (*Script, error) {
	if m == nil {
		return nil, ErrNilMatch
	}

	b := &builder{m: m, reordered: reorderedNodes(m)}
	for order, n := range m.Labeled(match.New) {
		b.visitNew(order, n)
	}
	for _, o := range m.Labeled(match.Old) {
		b.visitOld(o)
	}

	return &Script{match: m, edits: b.edits}, nil
}

type builder struct {
	m         *match.Match
	reordered map[syntax.NodeID]bool
	edits     []Edit
}

func (b *builder) visitNew(order int, n syntax.NodeID) {
	m := b.m
	o := m.OldPartner(n)
	if o == syntax.NoNode {
		b.edits = append(b.edits, b.edit(Insert, syntax.NoNode, n, order))
		return
	}

	if !m.ContentEqual(o, n) {
		b.edits = append(b.edits, b.edit(Update, o, n, order))
	}

	newParent := m.LabeledParent(match.New, n)
	if newParent == syntax.NoNode {
		return
	}
	oldParent := m.LabeledParent(match.Old, o)

	switch {
	case oldParent == syntax.NoNode || m.NewPartner(oldParent) != newParent:
		e := b.edit(Move, o, n, order)
		e.NewIndex = m.LabeledIndex(match.New, n)
		b.edits = append(b.edits, e)
	case b.reordered[o]:
		e := b.edit(Reorder, o, n, order)
		e.NewIndex = m.LabeledIndex(match.New, n)
		b.edits = append(b.edits, e)
	}
}

func (b *builder) visitOld(o syntax.NodeID) {
	m := b.m
	if m.NewPartner(o) != syntax.NoNode {
		return
	}
	parent := m.LabeledParent(match.Old, o)
	if parent != syntax.NoNode && m.NewPartner(parent) == syntax.NoNode {
		return
	}
	b.edits = append(b.edits, b.edit(Delete, o, syntax.NoNode, math.MaxInt))
}

func (b *builder) edit(kind Kind, o, n syntax.NodeID, newOrder int) Edit {
	e := Edit{
		Kind:     kind,
		Old:      o,
		New:      n,
		NewIndex: -1,
		NewOrder: newOrder,
		OldOrder: -1,
	}
	if o != syntax.NoNode {
		tree := b.m.OldTree()
		e.Label = b.m.Label(match.Old, o)
		e.OldSpan = tree.Span(o)
		e.oldText = tree.Text(o)
		e.OldOrder = b.m.Order(match.Old, o)
	}
	if n != syntax.NoNode {
		tree := b.m.NewTree()
		e.Label = b.m.Label(match.New, n)
		e.NewSpan = tree.Span(n)
		e.newText = tree.Text(n)
	}
	return e
}

// reorderedNodes finds the old nodes that stay under the partner of their
// parent but fall outside the longest order-preserving run of such
// siblings.
func reorderedNodes(m *match.Match) map[syntax.NodeID]bool {
	out := make(map[syntax.NodeID]bool)
	for _, p := range m.Pairs() {
		var oc, nc []syntax.NodeID
		for _, c := range m.LabeledChildren(match.Old, p[0]) {
			partner := m.NewPartner(c)
			if partner != syntax.NoNode && m.LabeledParent(match.New, partner) == p[1] {
				oc = append(oc, c)
			}
		}
		if len(oc) < 2 {
			continue
		}
		for _, c := range m.LabeledChildren(match.New, p[1]) {
			partner := m.OldPartner(c)
			if partner != syntax.NoNode && m.LabeledParent(match.Old, partner) == p[0] {
				nc = append(nc, c)
			}
		}

		kept := make(map[syntax.NodeID]bool, len(oc))
		for _, pair := range match.LCS(len(oc), len(nc), func(i, j int) bool {
			return m.NewPartner(oc[i]) == nc[j]
		}) {
			kept[oc[pair[0]]] = true
		}
		for _, c := range oc {
			if !kept[c] {
				out[c] = true
			}
		}
	}
	return out
}

// Match returns the match the script was built from.
func (s *Script) Match() *match.Match { return s.match }

// Edits returns the edits in canonical order. The slice must not be
// modified.
func (s *Script) Edits() []Edit { return s.edits }

// Len returns the number of edits.
func (s *Script) Len() int { return len(s.edits) }

// IsEmpty reports whether the trees are structurally identical.
func (s *Script) IsEmpty() bool { return len(s.edits) == 0 }

// Filter returns the edits of the given kinds, in canonical order.
func (s *Script) Filter(kinds ...Kind) []Edit {
	var out []Edit
	for _, e := range s.edits {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Within returns the edits whose node on the given side lies inside the
// subtree rooted at root.
func (s *Script) Within(side match.Side, root syntax.NodeID) []Edit {
	tree := s.match.Tree(side)
	var out []Edit
	for _, e := range s.edits {
		if id := e.Node(side); id != syntax.NoNode && tree.Contains(root, id) {
			out = append(out, e)
		}
	}
	return out
}

// Strings renders every edit with Edit.String.
func (s *Script) Strings() []string {
	out := make([]string, 0, len(s.edits))
	for _, e := range s.edits {
		out = append(out, e.String())
	}
	return out
}
