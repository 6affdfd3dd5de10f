// Package csharp parses C# source with tree-sitter and converts the concrete
// syntax tree into the arena trees the comparator works on.
package csharp

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/yaklabco/encheck/pkg/syntax"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("C# syntax error")

// Parser converts C# documents into syntax trees. It is safe for concurrent
// use; every call gets its own tree-sitter parser.
type Parser struct {
	lang *sitter.Language
}

// NewParser creates a parser for the C# grammar.
func NewParser() *Parser {
	return &Parser{lang: csharp.GetLanguage()}
}

// Parse parses source and returns its syntax tree. Sources with error or
// missing nodes are rejected with ErrSyntax carrying the first position.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*syntax.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		point := root.StartPoint()
		if bad != nil {
			point = bad.StartPoint()
		}
		return nil, fmt.Errorf("%w at %s:%d:%d", ErrSyntax, path, point.Row+1, point.Column+1)
	}

	c := &converter{source: source, b: syntax.NewBuilder(path, source)}
	ids := c.convert(root)
	if len(ids) != 1 {
		return nil, fmt.Errorf("%w: %s has no compilation unit", ErrSyntax, path)
	}
	return c.b.Build(ids[0])
}

// firstError returns the first ERROR or missing node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}
