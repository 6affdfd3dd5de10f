package syntax

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// ErrMalformedTree is returned when a builder's nodes do not form a tree.
var ErrMalformedTree = errors.New("malformed syntax tree")

// Builder accumulates nodes and produces an immutable Tree.
// Nodes may be added in any order; Build renumbers them in pre-order.
type Builder struct {
	path   string
	source []byte
	nodes  []Node
}

// NewBuilder creates a builder for a document.
func NewBuilder(path string, source []byte) *Builder {
	return &Builder{path: path, source: source}
}

// Add appends a node and adopts the given children. Children must not
// already have a parent.
func (b *Builder) Add(kind Kind, token string, span Span, children ...NodeID) NodeID {
	slot, err := safecast.Conv[int32](len(b.nodes))
	if err != nil {
		panic(fmt.Errorf("syntax arena overflow: %w", err))
	}
	id := NodeID(slot)
	b.nodes = append(b.nodes, Node{
		Kind:     kind,
		Token:    token,
		Parent:   NoNode,
		Children: append([]NodeID(nil), children...),
		Span:     span,
	})
	for _, c := range children {
		if int(c) < len(b.nodes) && c >= 0 {
			b.nodes[c].Parent = id
		}
	}
	return id
}

// Build validates the nodes reachable from root and returns the tree.
func (b *Builder) Build(root NodeID) (*Tree, error) {
	if root < 0 || int(root) >= len(b.nodes) {
		return nil, fmt.Errorf("%w: root %d out of range", ErrMalformedTree, root)
	}

	tree := &Tree{Path: b.path, Source: b.source}
	remap := make(map[NodeID]NodeID, len(b.nodes))

	var visit func(old, parent NodeID) (int32, error)
	visit = func(old, parent NodeID) (int32, error) {
		if _, seen := remap[old]; seen {
			return 0, fmt.Errorf("%w: node %d reachable twice", ErrMalformedTree, old)
		}
		slot, err := safecast.Conv[int32](len(tree.nodes))
		if err != nil {
			return 0, fmt.Errorf("syntax arena overflow: %w", err)
		}
		id := NodeID(slot)
		remap[old] = id

		src := b.nodes[old]
		tree.nodes = append(tree.nodes, Node{
			Kind:   src.Kind,
			Token:  src.Token,
			Parent: parent,
			Span:   src.Span,
		})
		tree.size = append(tree.size, 0)

		size := int32(1)
		children := make([]NodeID, 0, len(src.Children))
		for _, c := range src.Children {
			if c < 0 || int(c) >= len(b.nodes) {
				return 0, fmt.Errorf("%w: child %d out of range", ErrMalformedTree, c)
			}
			children = append(children, NodeID(len(tree.nodes)))
			n, err := visit(c, id)
			if err != nil {
				return 0, err
			}
			size += n
		}
		tree.nodes[id].Children = children
		tree.size[id] = size
		return size, nil
	}

	if _, err := visit(root, NoNode); err != nil {
		return nil, err
	}
	return tree, nil
}

// Spec describes a subtree for FromSpec.
type Spec struct {
	Kind     Kind
	Token    string
	Children []Spec
}

// N returns a structural node spec.
func N(kind Kind, children ...Spec) Spec {
	return Spec{Kind: kind, Children: children}
}

// T returns a node spec carrying its own token.
func T(kind Kind, token string, children ...Spec) Spec {
	return Spec{Kind: kind, Token: token, Children: children}
}

// FromSpec builds a tree from a spec. The source text is synthesized by
// joining tokens with spaces, so spans are meaningful for reporting.
func FromSpec(path string, root Spec) *Tree {
	var src strings.Builder
	b := NewBuilder(path, nil)

	var add func(s Spec) NodeID
	add = func(s Spec) NodeID {
		start := src.Len()
		if s.Token != "" {
			if src.Len() > 0 {
				src.WriteByte(' ')
				start = src.Len()
			}
			src.WriteString(s.Token)
		}
		children := make([]NodeID, 0, len(s.Children))
		for _, c := range s.Children {
			children = append(children, add(c))
		}
		if s.Token == "" && len(children) > 0 {
			start = b.nodes[children[0]].Span.Start
		}
		return b.Add(s.Kind, s.Token, Span{Start: start, End: src.Len()}, children...)
	}

	rootID := add(root)
	b.source = []byte(src.String())
	for i := range b.nodes {
		n := &b.nodes[i]
		n.Span.StartLine, n.Span.StartColumn = PositionAt(b.source, n.Span.Start)
		n.Span.EndLine, n.Span.EndColumn = PositionAt(b.source, n.Span.End)
	}

	tree, err := b.Build(rootID)
	if err != nil {
		panic(err)
	}
	return tree
}
