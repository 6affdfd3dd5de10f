package syntax

import (
	"errors"
	"iter"
)

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(id NodeID) error

// Walk performs a pre-order traversal of the subtree rooted at root.
// If walkFunc returns a non-nil error the walk stops and returns it.
// Return SkipChildren to continue without descending into the node.
func (t *Tree) Walk(root NodeID, walkFunc WalkFunc) error {
	if !t.Valid(root) {
		return nil
	}

	if err := walkFunc(root); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	for _, child := range t.nodes[root].Children {
		if err := t.Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Either callback may be nil.
func (t *Tree) WalkWithContext(root NodeID, enter, leave WalkFunc) error {
	if !t.Valid(root) {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	for _, child := range t.nodes[root].Children {
		if err := t.WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes in the subtree matching the predicate, in pre-order.
func (t *Tree) FindAll(root NodeID, predicate func(id NodeID) bool) []NodeID {
	var result []NodeID
	if !t.Valid(root) {
		return nil
	}
	for id := root; id < t.SubtreeEnd(root); id++ {
		if predicate(id) {
			result = append(result, id)
		}
	}
	return result
}

// FindFirst returns the first node in pre-order matching the predicate, or NoNode.
func (t *Tree) FindFirst(root NodeID, predicate func(id NodeID) bool) NodeID {
	if !t.Valid(root) {
		return NoNode
	}
	for id := root; id < t.SubtreeEnd(root); id++ {
		if predicate(id) {
			return id
		}
	}
	return NoNode
}

// FindByKind returns all nodes of the specified kind.
func (t *Tree) FindByKind(root NodeID, kind Kind) []NodeID {
	return t.FindAll(root, func(id NodeID) bool {
		return t.nodes[id].Kind == kind
	})
}

// Ancestors returns the proper ancestors of id, innermost first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Enclosing returns the innermost ancestor-or-self satisfying the predicate,
// or NoNode.
func (t *Tree) Enclosing(id NodeID, predicate func(id NodeID) bool) NodeID {
	for cur := id; cur != NoNode; cur = t.Parent(cur) {
		if predicate(cur) {
			return cur
		}
	}
	return NoNode
}

// SkipChildren can be returned from a WalkFunc to skip the node's subtree.
var SkipChildren = &skipChildrenError{}

type skipChildrenError struct{}

func (e *skipChildrenError) Error() string {
	return "skip children"
}

// PreOrder yields the IDs of the subtree rooted at root in pre-order.
func (t *Tree) PreOrder(root NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if !t.Valid(root) {
			return
		}
		for id := root; id < t.SubtreeEnd(root); id++ {
			if !yield(id) {
				return
			}
		}
	}
}
