// Package match computes a bijective partial matching between the labeled
// nodes of two syntax trees.
//
// The comparator is deterministic: identical inputs always produce the same
// Match, and the same Match is produced regardless of map iteration order or
// scheduling.
package match

import (
	"errors"
	"fmt"

	"github.com/yaklabco/encheck/pkg/syntax"
)

// ErrInternal is returned when the comparator produces a result that breaks
// its own bijection invariants. Callers report it as a diagnostic instead of
// using the result.
var ErrInternal = errors.New("comparator invariant violated")

// Side selects the old or the new tree of a Match.
type Side uint8

// Sides.
const (
	Old Side = iota
	New
)

func (s Side) String() string {
	if s == Old {
		return "old"
	}
	return "new"
}

// Match is a one-to-one partial mapping between labeled nodes of an old and
// a new tree. Every matched pair carries the same label.
type Match struct {
	old, new *index

	oldToNew []syntax.NodeID
	newToOld []syntax.NodeID
	matched  int
}

// OldTree returns the old tree.
func (m *Match) OldTree() *syntax.Tree { return m.old.tree }

// NewTree returns the new tree.
func (m *Match) NewTree() *syntax.Tree { return m.new.tree }

// Tree returns the tree on the given side.
func (m *Match) Tree(side Side) *syntax.Tree {
	return m.side(side).tree
}

func (m *Match) side(side Side) *index {
	if side == Old {
		return m.old
	}
	return m.new
}

// Len returns the number of matched pairs.
func (m *Match) Len() int { return m.matched }

// NewPartner returns the new node matched to an old node, or NoNode.
func (m *Match) NewPartner(oldID syntax.NodeID) syntax.NodeID {
	if !m.old.tree.Valid(oldID) {
		return syntax.NoNode
	}
	return m.oldToNew[oldID]
}

// OldPartner returns the old node matched to a new node, or NoNode.
func (m *Match) OldPartner(newID syntax.NodeID) syntax.NodeID {
	if !m.new.tree.Valid(newID) {
		return syntax.NoNode
	}
	return m.newToOld[newID]
}

// Partner returns the partner of a node on the given side.
func (m *Match) Partner(side Side, id syntax.NodeID) syntax.NodeID {
	if side == Old {
		return m.NewPartner(id)
	}
	return m.OldPartner(id)
}

// IsMatched reports whether the node has a partner.
func (m *Match) IsMatched(side Side, id syntax.NodeID) bool {
	return m.Partner(side, id) != syntax.NoNode
}

// Pairs returns every matched pair as (old, new), ordered by old pre-order.
func (m *Match) Pairs() [][2]syntax.NodeID {
	out := make([][2]syntax.NodeID, 0, m.matched)
	for _, o := range m.old.labeled {
		if n := m.oldToNew[o]; n != syntax.NoNode {
			out = append(out, [2]syntax.NodeID{o, n})
		}
	}
	return out
}

// Label returns the label of a node.
func (m *Match) Label(side Side, id syntax.NodeID) Label {
	x := m.side(side)
	if !x.tree.Valid(id) {
		return LabelIgnored
	}
	return x.labels[id]
}

// IsLabeled reports whether the node takes part in matching.
func (m *Match) IsLabeled(side Side, id syntax.NodeID) bool {
	return m.side(side).isLabeled(id)
}

// Labeled returns the labeled nodes of one side in pre-order.
func (m *Match) Labeled(side Side) []syntax.NodeID {
	return m.side(side).labeled
}

// LabeledParent returns the nearest labeled proper ancestor, or NoNode.
func (m *Match) LabeledParent(side Side, id syntax.NodeID) syntax.NodeID {
	x := m.side(side)
	if !x.tree.Valid(id) {
		return syntax.NoNode
	}
	return x.lparent[id]
}

// LabeledChildren returns the labeled nodes whose labeled parent is id.
func (m *Match) LabeledChildren(side Side, id syntax.NodeID) []syntax.NodeID {
	x := m.side(side)
	if !x.tree.Valid(id) {
		return nil
	}
	return x.lchildren[id]
}

// LabeledIndex returns the position of a labeled node among the labeled
// children of its labeled parent, or -1.
func (m *Match) LabeledIndex(side Side, id syntax.NodeID) int {
	x := m.side(side)
	if !x.tree.Valid(id) {
		return -1
	}
	return int(x.lpos[id])
}

// Order returns the position of a labeled node in its side's labeled
// pre-order, or -1 for unlabeled nodes.
func (m *Match) Order(side Side, id syntax.NodeID) int {
	x := m.side(side)
	if !x.tree.Valid(id) {
		return -1
	}
	return int(x.order[id])
}

// Owner returns the nearest labeled ancestor-or-self.
func (m *Match) Owner(side Side, id syntax.NodeID) syntax.NodeID {
	return m.side(side).owner(id)
}

// ContentEqual reports whether the immediate content of two labeled nodes is
// the same: the kinds and tokens of the node and of its descendants that are
// not inside labeled descendants.
func (m *Match) ContentEqual(oldID, newID syntax.NodeID) bool {
	a := m.old.contentItems(oldID)
	b := m.new.contentItems(newID)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Content returns the immediate content nodes of a labeled node, starting
// with the node itself.
func (m *Match) Content(side Side, id syntax.NodeID) []syntax.NodeID {
	x := m.side(side)
	if !x.tree.Valid(id) {
		return nil
	}
	return x.contentNodes(id)
}

// validate checks the bijection and label invariants.
func (m *Match) validate() error {
	count := 0
	for o, n := range m.oldToNew {
		if n == syntax.NoNode {
			continue
		}
		count++
		oid := syntax.NodeID(o)
		if !m.new.tree.Valid(n) || m.newToOld[n] != oid {
			return fmt.Errorf("%w: old node %d maps to %d without inverse", ErrInternal, oid, n)
		}
		isRoot := oid == m.old.tree.Root() && n == m.new.tree.Root()
		if !isRoot && m.old.labels[oid] != m.new.labels[n] {
			return fmt.Errorf("%w: label mismatch %s/%s for pair (%d,%d)",
				ErrInternal, m.old.labels[oid], m.new.labels[n], oid, n)
		}
		if m.old.labels[oid].Tied() && !isRoot {
			op, np := m.old.lparent[oid], m.new.lparent[n]
			if op == syntax.NoNode || m.oldToNew[op] != np {
				return fmt.Errorf("%w: tied node %d matched outside its parent's partner", ErrInternal, oid)
			}
		}
	}
	for n, o := range m.newToOld {
		if o == syntax.NoNode {
			continue
		}
		if m.oldToNew[o] != syntax.NodeID(n) {
			return fmt.Errorf("%w: new node %d maps to %d without inverse", ErrInternal, n, o)
		}
	}
	if count != m.matched {
		return fmt.Errorf("%w: pair count %d, expected %d", ErrInternal, count, m.matched)
	}
	return nil
}
