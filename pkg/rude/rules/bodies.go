package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// StackAllocRule reports changed bodies that use stackalloc.
type StackAllocRule struct {
	rude.BaseRule
}

// NewStackAllocRule creates a new stackalloc-update rule.
func NewStackAllocRule() *StackAllocRule {
	return &StackAllocRule{
		BaseRule: rude.NewBaseRule(
			"ENC006",
			"stackalloc-update",
			"A method, lambda or local function whose body uses stackalloc changed. "+
				"Stack allocated state cannot be carried into the new body.",
			[]string{"body"},
			[]rude.Kind{rude.StackAllocUpdate},
			capability.None,
		),
	}
}

// Apply reports each changed body owner once, anchored at the owner, when
// either version of its own body contains stackalloc.
func (r *StackAllocRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, owner := range ctx.ChangedOwners() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		old := ctx.Partner(match.New, owner)
		if !rude.HasOwn(newTree, owner, syntax.KindStackAllocExpression) &&
			!rude.HasOwn(oldTree, old, syntax.KindStackAllocExpression) {
			continue
		}
		diags = append(diags, rude.NewDiagnostic(rude.StackAllocUpdate, newTree, match.New, owner,
			rude.DisplayName(newTree, owner)).Build())
	}
	return diags, nil
}

// AwaitSpillRule reports updated statements whose await expression forces
// the compiler to spill other operands.
type AwaitSpillRule struct {
	rude.BaseRule
}

// NewAwaitSpillRule creates a new await-statement-update rule.
func NewAwaitSpillRule() *AwaitSpillRule {
	return &AwaitSpillRule{
		BaseRule: rude.NewBaseRule(
			"ENC007",
			"await-statement-update",
			"A statement was updated whose await expression is evaluated after other operands "+
				"that must be spilled across the suspension point.",
			[]string{"body", "async"},
			[]rude.Kind{rude.AwaitStatementUpdate},
			capability.None,
		),
	}
}

// Apply checks both versions of every updated statement and reports the
// enclosing statement once.
func (r *AwaitSpillRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	newTree := ctx.Tree(match.New)
	seen := make(map[syntax.NodeID]bool)

	var diags []rude.Diagnostic
	for _, e := range ctx.Edits() {
		if e.Kind != editscript.Update || e.Label.IsDeclarationLevel() || e.Label == match.LabelFunction {
			continue
		}
		if !needsSpill(ctx, match.New, e.New) && !needsSpill(ctx, match.Old, e.Old) {
			continue
		}
		stmt := newTree.Enclosing(e.New, func(id syntax.NodeID) bool {
			return newTree.Kind(id).IsStatement()
		})
		if stmt == syntax.NoNode {
			stmt = e.New
		}
		if seen[stmt] {
			continue
		}
		seen[stmt] = true
		diags = append(diags, rude.NewDiagnostic(rude.AwaitStatementUpdate, newTree, match.New, stmt).Build())
	}
	return diags, nil
}

// needsSpill reports whether an await in the node's own content is
// preceded by an operand that has to survive the suspension.
func needsSpill(ctx *rude.Context, side match.Side, id syntax.NodeID) bool {
	tree := ctx.Tree(side)
	model := ctx.Model(side)
	for _, n := range ctx.Match().Content(side, id) {
		if tree.Kind(n) != syntax.KindAwaitExpression {
			continue
		}
		child := n
		for p := tree.Parent(n); p != syntax.NoNode && p != id; child, p = p, tree.Parent(p) {
			if spillsBefore(tree, model, p, child) {
				return true
			}
		}
	}
	return false
}

// spillsBefore reports whether evaluating child inside parent requires a
// value computed earlier to be kept alive.
func spillsBefore(tree *syntax.Tree, model semantic.Model, parent, child syntax.NodeID) bool {
	children := tree.Children(parent)
	idx := tree.IndexInParent(child)
	if idx <= 0 {
		return false
	}

	switch tree.Kind(parent) {
	case syntax.KindArgumentList, syntax.KindTupleExpression, syntax.KindInitializerExpression,
		syntax.KindBinaryExpression:
		for _, c := range children[:idx] {
			if evaluated(tree, c) {
				return true
			}
		}
	case syntax.KindElementAccessExpression:
		return isReceiver(tree, model, children[0])
	case syntax.KindAssignmentExpression:
		return tree.Token(parent) != "=" || tree.Kind(children[0]) != syntax.KindIdentifierName
	case syntax.KindInvocationExpression:
		callee := children[0]
		if tree.Kind(callee) == syntax.KindMemberAccessExpression {
			return isReceiver(tree, model, tree.Children(callee)[0])
		}
	}
	return false
}

// evaluated reports whether an operand produces a value at run time.
// Constants and this need no spilling.
func evaluated(tree *syntax.Tree, id syntax.NodeID) bool {
	switch tree.Kind(id) {
	case syntax.KindArgument:
		children := tree.Children(id)
		if len(children) == 0 {
			return false
		}
		return evaluated(tree, children[len(children)-1])
	case syntax.KindLiteral, syntax.KindThisExpression, syntax.KindBaseExpression, syntax.KindPredefinedType:
		return false
	default:
		return true
	}
}

// isReceiver reports whether a member access receiver is a value. Names
// that bind to types or to nothing are treated as static receivers.
func isReceiver(tree *syntax.Tree, model semantic.Model, id syntax.NodeID) bool {
	if tree.Kind(id) != syntax.KindIdentifierName {
		return evaluated(tree, id)
	}
	if model == nil {
		return false
	}
	sym, ok := model.ResolveIdentifier(id)
	return ok && sym.Kind != semantic.SymbolType
}

// GenericUpdateRule reports body updates inside generic methods, generic
// types and generic local functions.
type GenericUpdateRule struct {
	rude.BaseRule
}

// NewGenericUpdateRule creates a new generic-update rule.
func NewGenericUpdateRule() *GenericUpdateRule {
	return &GenericUpdateRule{
		BaseRule: rude.NewBaseRule(
			"ENC009",
			"generic-update",
			"Code inside a generic method, type or local function changed.",
			[]string{"body", "generic"},
			[]rude.Kind{rude.UpdatingGenericNotSupportedByRuntime},
			capability.Of(capability.GenericUpdateMethod),
		),
	}
}

// Apply reports the declaration once when it sits in a generic context,
// otherwise each changed generic local function.
func (r *GenericUpdateRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	owners := ctx.ChangedOwners()
	if len(owners) == 0 || ctx.Global {
		return nil, nil
	}
	newTree := ctx.Tree(match.New)

	build := func(node syntax.NodeID) rude.Diagnostic {
		return rude.NewDiagnostic(rude.UpdatingGenericNotSupportedByRuntime, newTree, match.New, node,
			rude.DisplayName(newTree, node)).
			WithRequired(capability.GenericUpdateMethod).
			WithRemediation(rude.RemediationGenericUpdate).
			Build()
	}

	if rude.InGenericContext(newTree, ctx.NewRoot) {
		return []rude.Diagnostic{build(ctx.NewRoot)}, nil
	}

	var diags []rude.Diagnostic
	for _, owner := range owners {
		if owner != ctx.NewRoot && rude.InGenericContext(newTree, owner) {
			diags = append(diags, build(owner))
		}
	}
	return diags, nil
}

// StateMachineAttributeRule reports updates of async and iterator bodies
// when the runtime library lacks the state machine attribute.
type StateMachineAttributeRule struct {
	rude.BaseRule
}

// NewStateMachineAttributeRule creates a new state-machine-attribute rule.
func NewStateMachineAttributeRule() *StateMachineAttributeRule {
	return &StateMachineAttributeRule{
		BaseRule: rude.NewBaseRule(
			"ENC011",
			"state-machine-attribute",
			"An async or iterator body changed but the runtime library does not define the "+
				"state machine attribute the compiler needs to describe it.",
			[]string{"body", "async"},
			[]rude.Kind{rude.UpdatingStateMachineMethodMissingAttribute},
			capability.None,
		),
	}
}

// Apply checks every changed body owner against the configured attributes.
func (r *StateMachineAttributeRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, owner := range ctx.ChangedOwners() {
		async, iterator := rude.StateMachine(newTree, owner)
		oldAsync, oldIterator := rude.StateMachine(oldTree, ctx.Partner(match.New, owner))

		var missing string
		switch {
		case (async || oldAsync) && !ctx.Config.HasStateMachineAttribute(config.AsyncStateMachineAttribute):
			missing = config.AsyncStateMachineAttribute
		case (iterator || oldIterator) && !ctx.Config.HasStateMachineAttribute(config.IteratorStateMachineAttribute):
			missing = config.IteratorStateMachineAttribute
		default:
			continue
		}
		diags = append(diags, rude.NewDiagnostic(rude.UpdatingStateMachineMethodMissingAttribute,
			newTree, match.New, owner, rude.DisplayName(newTree, owner), shortName(missing)).Build())
	}
	return diags, nil
}

func shortName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
