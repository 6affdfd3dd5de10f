package match

import (
	"github.com/yaklabco/encheck/pkg/syntax"
)

// SyntaxMap maps nodes of the new tree to their old counterparts. The
// runtime uses it to remap active statements and local variable slots.
type SyntaxMap struct {
	m       *Match
	content map[syntax.NodeID]map[syntax.NodeID]syntax.NodeID
}

// SyntaxMap returns the new-to-old lookup for this match.
func (m *Match) SyntaxMap() *SyntaxMap {
	return &SyntaxMap{m: m, content: make(map[syntax.NodeID]map[syntax.NodeID]syntax.NodeID)}
}

// Lookup returns the old node corresponding to a new node. Labeled nodes map
// through their partner. Unlabeled nodes map positionally inside their
// owner when the owner's immediate content is unchanged; otherwise NoNode.
func (s *SyntaxMap) Lookup(newID syntax.NodeID) syntax.NodeID {
	m := s.m
	if !m.new.tree.Valid(newID) {
		return syntax.NoNode
	}
	if m.new.isLabeled(newID) {
		return m.newToOld[newID]
	}

	owner := m.new.owner(newID)
	if owner == syntax.NoNode {
		return syntax.NoNode
	}
	table, ok := s.content[owner]
	if !ok {
		table = s.buildContent(owner)
		s.content[owner] = table
	}
	if old, found := table[newID]; found {
		return old
	}
	return syntax.NoNode
}

// Complete reports whether every labeled node of the new subtree has a
// partner.
func (s *SyntaxMap) Complete(newRoot syntax.NodeID) bool {
	t := s.m.new.tree
	if !t.Valid(newRoot) {
		return false
	}
	for id := newRoot; id < t.SubtreeEnd(newRoot); id++ {
		if s.m.new.isLabeled(id) && s.m.newToOld[id] == syntax.NoNode {
			return false
		}
	}
	return true
}

func (s *SyntaxMap) buildContent(owner syntax.NodeID) map[syntax.NodeID]syntax.NodeID {
	m := s.m
	old := m.newToOld[owner]
	if old == syntax.NoNode || !m.ContentEqual(old, owner) {
		return nil
	}
	oldNodes := m.old.contentNodes(old)
	newNodes := m.new.contentNodes(owner)
	table := make(map[syntax.NodeID]syntax.NodeID, len(newNodes))
	for i, n := range newNodes {
		table[n] = oldNodes[i]
	}
	return table
}
