package enc

import (
	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// unit is one declaration analyzed on its own: a member present on both
// sides, a member or type present on one side, or the top-level statements.
type unit struct {
	oldRoot syntax.NodeID
	newRoot syntax.NodeID
	global  bool
}

func (u unit) name(m *match.Match) string {
	if u.global {
		return "top-level statements"
	}
	if u.newRoot != syntax.NoNode {
		return rude.DisplayName(m.NewTree(), u.newRoot)
	}
	return rude.DisplayName(m.OldTree(), u.oldRoot)
}

// pairsDeclarations reports whether the unit exists on both sides, which is
// when its closures can be compared. Top-level code needs statements in both
// versions.
func (u unit) pairsDeclarations(m *match.Match) bool {
	if u.global {
		return hasGlobalStatements(m.OldTree()) && hasGlobalStatements(m.NewTree())
	}
	return u.oldRoot != syntax.NoNode && u.newRoot != syntax.NoNode
}

// isUnitMember reports whether a node is analyzed as a member unit.
// Accessors belong to their property.
func isUnitMember(kind syntax.Kind) bool {
	return kind.IsMemberDeclaration() && kind != syntax.KindAccessorDeclaration
}

func enclosingType(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	return tree.Enclosing(tree.Parent(id), func(n syntax.NodeID) bool {
		return tree.Kind(n).IsTypeDeclaration()
	})
}

// units enumerates the analysis units of a document: new-side members and
// types in pre-order, then old-side deletions, then top-level code. Members
// of inserted or deleted types are covered by the type's unit. Matched
// members without edits are skipped.
func units(script *editscript.Script) []unit {
	m := script.Match()
	oldTree, newTree := m.OldTree(), m.NewTree()

	// survives reports whether the enclosing type of id exists on both
	// sides, or whether id is not nested in a type at all.
	survives := func(side match.Side, tree *syntax.Tree, id syntax.NodeID) bool {
		typ := enclosingType(tree, id)
		return typ == syntax.NoNode || m.IsMatched(side, typ)
	}

	var out []unit
	for id := range newTree.PreOrder(newTree.Root()) {
		kind := newTree.Kind(id)
		switch {
		case kind.IsTypeDeclaration():
			if !m.IsMatched(match.New, id) && survives(match.New, newTree, id) {
				out = append(out, unit{oldRoot: syntax.NoNode, newRoot: id})
			}
		case isUnitMember(kind):
			if enclosingType(newTree, id) == syntax.NoNode || !survives(match.New, newTree, id) {
				continue
			}
			old := m.Partner(match.New, id)
			if old == syntax.NoNode {
				out = append(out, unit{oldRoot: syntax.NoNode, newRoot: id})
				continue
			}
			if len(script.Within(match.Old, old)) > 0 || len(script.Within(match.New, id)) > 0 {
				out = append(out, unit{oldRoot: old, newRoot: id})
			}
		}
	}

	for id := range oldTree.PreOrder(oldTree.Root()) {
		kind := oldTree.Kind(id)
		if !kind.IsTypeDeclaration() && !isUnitMember(kind) {
			continue
		}
		if isUnitMember(kind) && enclosingType(oldTree, id) == syntax.NoNode {
			continue
		}
		if !m.IsMatched(match.Old, id) && survives(match.Old, oldTree, id) {
			out = append(out, unit{oldRoot: id, newRoot: syntax.NoNode})
		}
	}

	if hasGlobalStatements(oldTree) || hasGlobalStatements(newTree) {
		out = append(out, unit{oldRoot: oldTree.Root(), newRoot: newTree.Root(), global: true})
	}
	return out
}

func hasGlobalStatements(tree *syntax.Tree) bool {
	return tree.ChildOfKind(tree.Root(), syntax.KindGlobalStatement) != syntax.NoNode
}
