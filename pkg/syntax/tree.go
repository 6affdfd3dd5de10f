// Package syntax provides the immutable, arena-allocated syntax trees the
// comparator, capture analyzer and rule engine operate on.
//
// A Tree owns a flat slice of nodes addressed by NodeID. IDs are assigned in
// pre-order when the tree is built, so a subtree always occupies a contiguous
// ID range and ancestor checks are constant time. Trees are never mutated
// after Build returns; two versions of a document are two independent trees.
package syntax

import (
	"strings"
)

// NodeID addresses a node inside its Tree.
type NodeID int32

// NoNode is the sentinel for "no node".
const NoNode NodeID = -1

// Node is a single syntax node.
type Node struct {
	// Kind identifies the construct.
	Kind Kind

	// Token is the node's own text: the identifier name, literal text,
	// keyword or operator. Empty for purely structural nodes.
	Token string

	// Parent is NoNode for the root.
	Parent NodeID

	// Children are ordered as they appear in source.
	Children []NodeID

	// Span locates the node in Tree.Source.
	Span Span
}

// Tree is an immutable syntax tree snapshot.
type Tree struct {
	// Path is the document path the tree was parsed from. May be empty.
	Path string

	// Source is the text the spans refer to.
	Source []byte

	nodes []Node
	size  []int32
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Root returns the root node ID, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if t.Len() == 0 {
		return NoNode
	}
	return 0
}

// Valid reports whether id addresses a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < t.Len()
}

// Node returns a copy of the node. The Children slice is shared and must not
// be modified.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Kind returns the kind of the node.
func (t *Tree) Kind(id NodeID) Kind {
	if !t.Valid(id) {
		return KindUnknown
	}
	return t.nodes[id].Kind
}

// Token returns the node's own token text.
func (t *Tree) Token(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.nodes[id].Token
}

// Parent returns the parent of the node, or NoNode.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.Valid(id) {
		return NoNode
	}
	return t.nodes[id].Parent
}

// Children returns the node's children. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Valid(id) {
		return nil
	}
	return t.nodes[id].Children
}

// Span returns the node's source span.
func (t *Tree) Span(id NodeID) Span {
	if !t.Valid(id) {
		return Span{}
	}
	return t.nodes[id].Span
}

// SubtreeEnd returns the first ID after the subtree rooted at id.
func (t *Tree) SubtreeEnd(id NodeID) NodeID {
	return id + NodeID(t.size[id])
}

// IsAncestor reports whether anc is a proper ancestor of id.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	if !t.Valid(anc) || !t.Valid(id) || anc == id {
		return false
	}
	return anc < id && id < t.SubtreeEnd(anc)
}

// Contains reports whether id is anc or a descendant of anc.
func (t *Tree) Contains(anc, id NodeID) bool {
	return anc == id || t.IsAncestor(anc, id)
}

// ChildOfKind returns the first child of the given kind, or NoNode.
func (t *Tree) ChildOfKind(id NodeID, kind Kind) NodeID {
	for _, c := range t.Children(id) {
		if t.nodes[c].Kind == kind {
			return c
		}
	}
	return NoNode
}

// ChildrenOfKind returns all children of the given kind.
func (t *Tree) ChildrenOfKind(id NodeID, kind Kind) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.nodes[c].Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// IndexInParent returns the position of id among its parent's children, or
// -1 for the root.
func (t *Tree) IndexInParent(id NodeID) int {
	parent := t.Parent(id)
	if parent == NoNode {
		return -1
	}
	for i, c := range t.nodes[parent].Children {
		if c == id {
			return i
		}
	}
	return -1
}

// Tokens returns the non-empty tokens of the subtree in pre-order.
func (t *Tree) Tokens(id NodeID) []string {
	if !t.Valid(id) {
		return nil
	}
	end := t.SubtreeEnd(id)
	out := make([]string, 0, end-id)
	for i := id; i < end; i++ {
		if tok := t.nodes[i].Token; tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Text returns the trivia-free text of the subtree: its tokens joined by a
// single space.
func (t *Tree) Text(id NodeID) string {
	return strings.Join(t.Tokens(id), " ")
}

// SourceText returns the raw source covered by the node's span.
func (t *Tree) SourceText(id NodeID) string {
	span := t.Span(id)
	if span.End > len(t.Source) || span.Start > span.End {
		return ""
	}
	return string(t.Source[span.Start:span.End])
}

// Equal reports whether two subtrees have identical kinds and tokens.
func Equal(a *Tree, aID NodeID, b *Tree, bID NodeID) bool {
	aEnd, bEnd := a.SubtreeEnd(aID), b.SubtreeEnd(bID)
	if aEnd-aID != bEnd-bID {
		return false
	}
	for i, j := aID, bID; i < aEnd; i, j = i+1, j+1 {
		na, nb := &a.nodes[i], &b.nodes[j]
		if na.Kind != nb.Kind || na.Token != nb.Token || len(na.Children) != len(nb.Children) {
			return false
		}
	}
	return true
}
