package rude

import (
	"slices"

	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// facts caches per-declaration collections shared by every rule of one
// classification.
//
// Slices returned from the cache are shared across rules. Copy before
// sorting or filtering in place.
//
// facts is not safe for concurrent use; rules of one declaration run
// sequentially and each classification gets its own cache.
type facts struct {
	edits    []editscript.Edit
	hasEdits bool

	functions    [2][]syntax.NodeID
	hasFunctions [2]bool

	pairs    [][2]syntax.NodeID
	hasPairs bool

	changed    []syntax.NodeID
	hasChanged bool
}

func newFacts() *facts {
	return &facts{}
}

// Contains reports whether a node belongs to the declaration.
func (rc *Context) Contains(side match.Side, id syntax.NodeID) bool {
	tree := rc.Tree(side)
	if !tree.Valid(id) {
		return false
	}
	if rc.Global {
		return tree.Enclosing(id, func(n syntax.NodeID) bool {
			return tree.Kind(n) == syntax.KindGlobalStatement
		}) != syntax.NoNode
	}
	root := rc.Root(side)
	return root != syntax.NoNode && tree.Contains(root, id)
}

// Edits returns the script edits inside the declaration, in script order.
// An edit belongs to the declaration holding its new node, or its old node
// for deletes.
func (rc *Context) Edits() []editscript.Edit {
	f := rc.facts
	if f.hasEdits {
		return f.edits
	}
	f.hasEdits = true
	for _, e := range rc.Script.Edits() {
		side, id := editSide(e)
		if rc.Contains(side, id) {
			f.edits = append(f.edits, e)
		}
	}
	return f.edits
}

func editSide(e editscript.Edit) (match.Side, syntax.NodeID) {
	if e.New != syntax.NoNode {
		return match.New, e.New
	}
	return match.Old, e.Old
}

// Functions returns the lambdas, anonymous methods and local functions of
// the declaration in pre-order.
func (rc *Context) Functions(side match.Side) []syntax.NodeID {
	f := rc.facts
	if f.hasFunctions[side] {
		return f.functions[side]
	}
	f.hasFunctions[side] = true

	tree := rc.Tree(side)
	root := rc.Root(side)
	if root == syntax.NoNode {
		return nil
	}
	for id := range tree.PreOrder(root) {
		if tree.Kind(id).IsFunction() && rc.Contains(side, id) {
			f.functions[side] = append(f.functions[side], id)
		}
	}
	return f.functions[side]
}

// FunctionPairs returns matched (old, new) function pairs in new pre-order.
func (rc *Context) FunctionPairs() [][2]syntax.NodeID {
	f := rc.facts
	if f.hasPairs {
		return f.pairs
	}
	f.hasPairs = true
	for _, n := range rc.Functions(match.New) {
		if o := rc.Partner(match.New, n); o != syntax.NoNode {
			f.pairs = append(f.pairs, [2]syntax.NodeID{o, n})
		}
	}
	return f.pairs
}

// BodyOwner returns the innermost function containing id, or the
// declaration root.
func (rc *Context) BodyOwner(side match.Side, id syntax.NodeID) syntax.NodeID {
	tree := rc.Tree(side)
	root := rc.Root(side)
	for cur := id; cur != syntax.NoNode && cur != root; cur = tree.Parent(cur) {
		if tree.Kind(cur).IsFunction() {
			return cur
		}
	}
	return root
}

// ChangedOwners returns the new-side body owners whose own code changed,
// in pre-order. Owners that exist only in the new version are skipped.
//
// An update of a function node belongs to the function itself. Inserting,
// deleting or moving a function changes the code around it instead.
func (rc *Context) ChangedOwners() []syntax.NodeID {
	f := rc.facts
	if f.hasChanged {
		return f.changed
	}
	f.hasChanged = true

	seen := make(map[syntax.NodeID]bool)
	for _, e := range rc.Edits() {
		side, id := editSide(e)
		tree := rc.Tree(side)
		if e.Kind != editscript.Update && tree.Kind(id).IsFunction() {
			id = tree.Parent(id)
		}
		owner := rc.BodyOwner(side, id)
		if side == match.Old {
			owner = rc.Partner(match.Old, owner)
		} else if rc.Partner(match.New, owner) == syntax.NoNode {
			continue
		}
		if owner == syntax.NoNode || seen[owner] {
			continue
		}
		seen[owner] = true
		f.changed = append(f.changed, owner)
	}
	slices.Sort(f.changed)
	return f.changed
}
