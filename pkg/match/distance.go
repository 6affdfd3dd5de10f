package match

import (
	"github.com/yaklabco/encheck/pkg/syntax"
)

// functionKindPenalty is added when a function changes form, so that a
// lambda prefers another lambda over an equally similar local function.
const functionKindPenalty = 0.1

// distance returns a value in [0, 1] for two nodes with the same label.
func (c *comparer) distance(o, n syntax.NodeID) float64 {
	label := c.old.labels[o]
	switch label {
	case LabelSwitchSection:
		return c.weighted(o, n, 0.1)

	case LabelIf, LabelLoop, LabelSwitch, LabelTry, LabelResource, LabelCatch,
		LabelLabeled, LabelQuery, LabelElse, LabelFinally, LabelNestedBlock,
		LabelBodyBlock, LabelAccessor, LabelCompilationUnit:
		return c.weighted(o, n, 0.5)

	case LabelFunction:
		d := c.weighted(o, n, 0.5)
		if c.old.tree.Kind(o) != c.new.tree.Kind(n) {
			d = min(1, d+functionKindPenalty)
		}
		return d

	case LabelMethod, LabelConstructor, LabelProperty, LabelTypeDeclaration, LabelNamespace:
		if c.old.tree.Token(o) != c.new.tree.Token(n) {
			return 1
		}
		return c.weighted(o, n, 0.5)

	case LabelDeclarator, LabelDesignation:
		name := 0.0
		if c.old.tree.Token(o) != c.new.tree.Token(n) {
			name = 1
		}
		rest := tokenDistance(withoutOwn(c.old, o), withoutOwn(c.new, n))
		return 0.5*name + 0.5*rest

	default:
		return tokenDistance(c.old.fullTokens(o), c.new.fullTokens(n))
	}
}

// weighted mixes header and body distance, giving the header headerWeight.
// Nodes without labeled descendants on either side are compared on their
// header alone.
func (c *comparer) weighted(o, n syntax.NodeID, headerWeight float64) float64 {
	oh, nh := c.old.headerTokens(o), c.new.headerTokens(n)
	ob, nb := c.old.bodyTokens(o), c.new.bodyTokens(n)
	if len(ob) == 0 && len(nb) == 0 {
		return tokenDistance(oh, nh)
	}
	if len(oh) == 0 && len(nh) == 0 {
		return tokenDistance(ob, nb)
	}
	return headerWeight*tokenDistance(oh, nh) + (1-headerWeight)*tokenDistance(ob, nb)
}

func withoutOwn(x *index, id syntax.NodeID) []string {
	toks := x.fullTokens(id)
	if x.tree.Token(id) != "" && len(toks) > 0 {
		return toks[1:]
	}
	return toks
}

// childBucket groups child counts so that gap pairing only joins nodes of a
// similar shape.
func childBucket(tree *syntax.Tree, id syntax.NodeID) int {
	switch n := len(tree.Children(id)); {
	case n == 0:
		return 0
	case n == 1:
		return 1
	case n <= 3:
		return 2
	default:
		return 3
	}
}
