package match

import (
	"context"

	"github.com/yaklabco/encheck/pkg/syntax"
)

// Thresholds of the graded rounds. A candidate qualifies for a round when
// its distance is below the threshold; the first round requires an exact
// distance of zero.
var roundThresholds = []float64{0, 0.5, 1.0}

// forced accepts any distance. Tied children of a matched pair always pair
// with their closest compatible counterpart.
const forced = 2.0

type comparer struct {
	old, new *index

	oldToNew []syntax.NodeID
	newToOld []syntax.NodeID
	matched  int
}

// Compute matches the labeled nodes of two trees.
//
// The roots are always matched. Uniquely keyed nodes are matched first, then
// each matched pair aligns its labeled children on exact equality, then
// remaining nodes are matched globally in rounds of increasing distance and
// finally leftover siblings of similar shape are paired inside the gaps
// between matched siblings.
func Compute(ctx context.Context, oldTree, newTree *syntax.Tree) (*Match, error) {
	c := &comparer{
		old:      newIndex(oldTree),
		new:      newIndex(newTree),
		oldToNew: filled(oldTree.Len()),
		newToOld: filled(newTree.Len()),
	}

	if oldTree.Len() > 0 && newTree.Len() > 0 {
		c.pair(oldTree.Root(), newTree.Root())
		c.descend(oldTree.Root(), newTree.Root())

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.matchKeys()

		for _, threshold := range roundThresholds {
			for label := LabelCompilationUnit; label < labelCount; label++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				c.matchLabel(label, threshold)
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.matchGaps()
	}

	m := &Match{
		old:      c.old,
		new:      c.new,
		oldToNew: c.oldToNew,
		newToOld: c.newToOld,
		matched:  c.matched,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func filled(n int) []syntax.NodeID {
	out := make([]syntax.NodeID, n)
	for i := range out {
		out[i] = syntax.NoNode
	}
	return out
}

func (c *comparer) pair(o, n syntax.NodeID) bool {
	if c.oldToNew[o] != syntax.NoNode || c.newToOld[n] != syntax.NoNode {
		return false
	}
	c.oldToNew[o] = n
	c.newToOld[n] = o
	c.matched++
	return true
}

func (c *comparer) free(o, n syntax.NodeID) bool {
	return c.oldToNew[o] == syntax.NoNode && c.newToOld[n] == syntax.NoNode
}

// compatible reports whether two labeled nodes may be paired at all.
func (c *comparer) compatible(o, n syntax.NodeID) bool {
	label := c.old.labels[o]
	if label != c.new.labels[n] {
		return false
	}
	if !kindsCompatible(label, c.old.tree.Kind(o), c.new.tree.Kind(n)) {
		return false
	}
	if label == LabelAccessor && c.old.tree.Token(o) != c.new.tree.Token(n) {
		return false
	}
	if label.Tied() {
		op, np := c.old.lparent[o], c.new.lparent[n]
		return op != syntax.NoNode && c.oldToNew[op] == np
	}
	return true
}

// descend aligns the labeled children of newly matched pairs. Children
// whose subtrees are identical are matched together with everything inside
// them; tied children are then matched to their closest counterpart.
func (c *comparer) descend(o, n syntax.NodeID) {
	work := [][2]syntax.NodeID{{o, n}}
	for len(work) > 0 {
		top := work[len(work)-1]
		work = work[:len(work)-1]

		oc, nc := c.old.lchildren[top[0]], c.new.lchildren[top[1]]
		exact := LCS(len(oc), len(nc), func(i, j int) bool {
			return c.free(oc[i], nc[j]) && c.compatible(oc[i], nc[j]) &&
				syntax.Equal(c.old.tree, oc[i], c.new.tree, nc[j])
		})
		for _, p := range exact {
			c.pairIdentical(oc[p[0]], nc[p[1]])
		}

		for _, child := range oc {
			if c.oldToNew[child] != syntax.NoNode || !c.old.labels[child].Tied() {
				continue
			}
			if best := c.closest(child, nc, forced); best != syntax.NoNode {
				c.pair(child, best)
				work = append(work, [2]syntax.NodeID{child, best})
			}
		}
	}
}

// pairIdentical matches the labeled nodes of two equal subtrees by offset.
// Nodes already matched elsewhere are left alone and so is anything tied to
// such a node.
func (c *comparer) pairIdentical(o, n syntax.NodeID) {
	end := c.old.tree.SubtreeEnd(o)
	for i := o; i < end; i++ {
		if !c.old.isLabeled(i) {
			continue
		}
		j := n + (i - o)
		if i != o && c.old.labels[i].Tied() && !c.compatible(i, j) {
			continue
		}
		c.pair(i, j)
	}
}

type candidate struct {
	id       syntax.NodeID
	dist     float64
	movement int
	shift    int32
}

func (a candidate) better(b candidate) bool {
	if b.id == syntax.NoNode {
		return true
	}
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	if a.movement != b.movement {
		return a.movement < b.movement
	}
	if a.shift != b.shift {
		return a.shift < b.shift
	}
	return a.id < b.id
}

// movement is 0 when the pair keeps its parent and index, 1 when it keeps
// its parent only and 2 otherwise.
func (c *comparer) movement(o, n syntax.NodeID) int {
	op, np := c.old.lparent[o], c.new.lparent[n]
	if op == syntax.NoNode || np == syntax.NoNode || c.oldToNew[op] != np {
		return 2
	}
	if c.old.lpos[o] != c.new.lpos[n] {
		return 1
	}
	return 0
}

func (c *comparer) evaluate(o, n syntax.NodeID) candidate {
	shift := c.old.order[o] - c.new.order[n]
	if shift < 0 {
		shift = -shift
	}
	return candidate{id: n, dist: c.distance(o, n), movement: c.movement(o, n), shift: shift}
}

func qualifies(dist, threshold float64) bool {
	if threshold == 0 {
		return dist == 0
	}
	return dist < threshold
}

// closest returns the best free, compatible candidate below the threshold.
func (c *comparer) closest(o syntax.NodeID, candidates []syntax.NodeID, threshold float64) syntax.NodeID {
	best := candidate{id: syntax.NoNode}
	for _, n := range candidates {
		if c.newToOld[n] != syntax.NoNode || !c.compatible(o, n) {
			continue
		}
		cand := c.evaluate(o, n)
		if !qualifies(cand.dist, threshold) {
			continue
		}
		if cand.better(best) {
			best = cand
		}
	}
	return best.id
}

// matchKeys pairs nodes whose key occurs exactly once on each side.
func (c *comparer) matchKeys() {
	oldKeys := keyTable(c.old)
	newKeys := keyTable(c.new)
	for _, o := range c.old.labeled {
		if c.oldToNew[o] != syntax.NoNode {
			continue
		}
		k := key(c.old.tree, o, c.old.labels[o])
		if k == "" || len(oldKeys[k]) != 1 || len(newKeys[k]) != 1 {
			continue
		}
		n := newKeys[k][0]
		if c.newToOld[n] != syntax.NoNode || !c.compatible(o, n) {
			continue
		}
		c.pair(o, n)
		c.descend(o, n)
	}
}

func keyTable(x *index) map[string][]syntax.NodeID {
	table := make(map[string][]syntax.NodeID)
	for _, id := range x.labeled {
		if k := key(x.tree, id, x.labels[id]); k != "" {
			table[k] = append(table[k], id)
		}
	}
	return table
}

// matchLabel runs one graded round for one label. Old nodes are visited in
// pre-order, so outer constructs claim their counterparts first.
func (c *comparer) matchLabel(label Label, threshold float64) {
	for _, o := range c.old.byLabel[label] {
		if c.oldToNew[o] != syntax.NoNode {
			continue
		}

		var candidates []syntax.NodeID
		if label.Tied() {
			parent := c.old.lparent[o]
			if parent == syntax.NoNode || c.oldToNew[parent] == syntax.NoNode {
				continue
			}
			candidates = c.new.lchildren[c.oldToNew[parent]]
		} else {
			candidates = c.new.byLabel[label]
		}

		if best := c.closest(o, candidates, threshold); best != syntax.NoNode {
			c.pair(o, best)
			c.descend(o, best)
		}
	}
}

// matchGaps pairs unmatched statement-level siblings positionally between
// matched anchors when their label, kind and child-count bucket agree.
// Repeats until no new pair is found.
func (c *comparer) matchGaps() {
	for changed := true; changed; {
		changed = false
		for _, o := range c.old.labeled {
			n := c.oldToNew[o]
			if n == syntax.NoNode {
				continue
			}
			if c.fillGaps(c.old.lchildren[o], c.new.lchildren[n]) {
				changed = true
			}
		}
	}
}

func (c *comparer) fillGaps(oc, nc []syntax.NodeID) bool {
	anchors := LCS(len(oc), len(nc), func(i, j int) bool {
		return c.oldToNew[oc[i]] == nc[j]
	})
	anchors = append(anchors, [2]int{len(oc), len(nc)})

	changed := false
	prevI, prevJ := 0, 0
	for _, a := range anchors {
		next := prevJ
		for i := prevI; i < a[0]; i++ {
			o := oc[i]
			if c.oldToNew[o] != syntax.NoNode || !gapEligible(c.old.labels[o]) {
				continue
			}
			for j := next; j < a[1]; j++ {
				n := nc[j]
				if c.newToOld[n] != syntax.NoNode || c.new.labels[n] != c.old.labels[o] {
					continue
				}
				if c.old.tree.Kind(o) != c.new.tree.Kind(n) ||
					childBucket(c.old.tree, o) != childBucket(c.new.tree, n) {
					continue
				}
				c.pair(o, n)
				c.descend(o, n)
				changed = true
				next = j + 1
				break
			}
		}
		prevI, prevJ = a[0]+1, a[1]+1
	}
	return changed
}

func gapEligible(label Label) bool {
	return label != LabelIgnored && !label.Tied() && !label.IsDeclarationLevel()
}
