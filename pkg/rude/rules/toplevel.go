package rules

import (
	"strings"

	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
)

const defaultSnippetLength = 40

// TopLevelUpdateRule warns about edits to top-level statements. The
// synthesized entry point has already run, so changes only take effect on
// the next start.
type TopLevelUpdateRule struct {
	rude.BaseRule
}

// NewTopLevelUpdateRule creates a new update-might-not-have-any-effect rule.
func NewTopLevelUpdateRule() *TopLevelUpdateRule {
	return &TopLevelUpdateRule{
		BaseRule: rude.NewBaseRule(
			"ENC012",
			"update-might-not-have-any-effect",
			"A top-level statement changed. The entry point does not run again after the update.",
			[]string{"toplevel"},
			[]rude.Kind{rude.UpdateMightNotHaveAnyEffect},
			capability.None,
		),
	}
}

// DefaultSeverity returns warning; the edit is applied but may be inert.
func (r *TopLevelUpdateRule) DefaultSeverity() config.Severity {
	return config.SeverityWarning
}

// Apply reports each edited top-level statement once.
//
// Options:
//   - snippet_length: maximum statement text length in the message (default 40)
func (r *TopLevelUpdateRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	if !ctx.Global {
		return nil, nil
	}
	limit := defaultSnippetLength
	if v, ok := ctx.Option("snippet_length", defaultSnippetLength).(int); ok && v > 0 {
		limit = v
	}

	seen := make(map[[2]int]bool)
	var diags []rude.Diagnostic
	for _, e := range ctx.Edits() {
		side, id := match.New, e.New
		if id == syntax.NoNode {
			side, id = match.Old, e.Old
		}
		tree := ctx.Tree(side)
		stmt := tree.Enclosing(id, func(n syntax.NodeID) bool {
			return tree.Kind(tree.Parent(n)) == syntax.KindGlobalStatement
		})
		if stmt == syntax.NoNode {
			continue
		}
		key := [2]int{int(side), int(stmt)}
		if seen[key] {
			continue
		}
		seen[key] = true
		diags = append(diags, rude.NewDiagnostic(rude.UpdateMightNotHaveAnyEffect, tree, side, stmt,
			snippet(tree.Text(stmt), limit)).Build())
	}
	return diags, nil
}

// snippet collapses whitespace and truncates to limit runes.
func snippet(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
