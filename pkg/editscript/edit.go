// Package editscript linearises a match into an ordered list of edits.
package editscript

import (
	"fmt"

	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// Kind identifies the type of an edit.
type Kind uint8

// Edit kinds.
const (
	Insert Kind = iota
	Delete
	Update
	Move
	Reorder
)

var kindNames = [...]string{
	Insert:  "Insert",
	Delete:  "Delete",
	Update:  "Update",
	Move:    "Move",
	Reorder: "Reorder",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Edit is a single structural change between the old and the new tree.
type Edit struct {
	Kind  Kind
	Label match.Label

	// Old is NoNode for inserts. New is NoNode for deletes.
	Old syntax.NodeID
	New syntax.NodeID

	OldSpan syntax.Span
	NewSpan syntax.Span

	// NewIndex is the 0-based position of the node among the labeled
	// children of its new labeled parent. Set for Move and Reorder.
	NewIndex int

	// NewOrder and OldOrder are the labeled pre-order positions used for
	// canonical ordering. Deletes sort after every other edit.
	NewOrder int
	OldOrder int

	oldText string
	newText string
}

// OldText returns the trivia-free text of the old node.
func (e Edit) OldText() string { return e.oldText }

// NewText returns the trivia-free text of the new node.
func (e Edit) NewText() string { return e.newText }

// Node returns the node the edit is about on the given side.
func (e Edit) Node(side match.Side) syntax.NodeID {
	if side == match.Old {
		return e.Old
	}
	return e.New
}

// String renders the edit in the compact form used by tests and text
// reports, for example "Update [x = 1]@4 -> [X = 1]@4".
func (e Edit) String() string {
	switch e.Kind {
	case Insert:
		return fmt.Sprintf("Insert [%s]@%d", e.newText, e.NewSpan.Start)
	case Delete:
		return fmt.Sprintf("Delete [%s]@%d", e.oldText, e.OldSpan.Start)
	case Update:
		return fmt.Sprintf("Update [%s]@%d -> [%s]@%d", e.oldText, e.OldSpan.Start, e.newText, e.NewSpan.Start)
	case Move:
		return fmt.Sprintf("Move [%s]@%d -> @%d", e.oldText, e.OldSpan.Start, e.NewSpan.Start)
	case Reorder:
		return fmt.Sprintf("Reorder [%s]@%d -> @%d", e.oldText, e.OldSpan.Start, e.NewIndex)
	default:
		return e.Kind.String()
	}
}
