package rules

import (
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// FunctionInsertRule reports lambdas and local functions added to an
// existing declaration. Each one compiles to a new method.
type FunctionInsertRule struct {
	rude.BaseRule
}

// NewFunctionInsertRule creates a new function-insert rule.
func NewFunctionInsertRule() *FunctionInsertRule {
	return &FunctionInsertRule{
		BaseRule: rude.NewBaseRule(
			"ENC008",
			"function-insert",
			"A lambda or local function was added. The runtime must be able to add "+
				"methods to existing types.",
			[]string{"lambda", "insert"},
			[]rude.Kind{rude.InsertNotSupportedByRuntime},
			capability.Of(capability.AddMethodToExistingType, capability.GenericUpdateMethod),
		),
	}
}

// Apply reports every inserted function of an updated declaration.
func (r *FunctionInsertRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	if !ctx.IsUpdate() {
		return nil, nil
	}
	newTree := ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, e := range ctx.Edits() {
		if e.Kind != editscript.Insert || e.Label != match.LabelFunction {
			continue
		}
		required := []capability.Capability{capability.AddMethodToExistingType}
		if rude.InGenericContext(newTree, e.New) && captures(ctx, e.New) {
			required = append(required, capability.GenericUpdateMethod)
		}
		diags = append(diags, rude.NewDiagnostic(rude.InsertNotSupportedByRuntime, newTree, match.New,
			e.New, rude.DisplayName(newTree, e.New)).
			WithRequired(required...).
			WithRemediation(rude.RemediationAddMethod).
			Build())
	}
	return diags, nil
}

// captures reports whether a new closure captures anything. A capturing
// closure in a generic context lives on a generic display class.
func captures(ctx *rude.Context, fn syntax.NodeID) bool {
	if ctx.Capture == nil || ctx.Capture.New == nil {
		return false
	}
	c := ctx.Capture.New.Closure(fn)
	return c != nil && len(c.Captures) > 0
}

// ParameterRenameRule reports renamed parameters of an updated method,
// constructor, indexer or operator.
type ParameterRenameRule struct {
	rude.BaseRule
}

// NewParameterRenameRule creates a new parameter-rename rule.
func NewParameterRenameRule() *ParameterRenameRule {
	return &ParameterRenameRule{
		BaseRule: rude.NewBaseRule(
			"ENC015",
			"parameter-rename",
			"A parameter of a method was renamed. Parameter names are metadata the "+
				"runtime must be able to update.",
			[]string{"signature"},
			[]rude.Kind{rude.RenamingNotSupportedByRuntime},
			capability.Of(capability.UpdateParameters),
		),
	}
}

// Apply compares parameter names position by position. Lists whose count
// or shape differ are a signature change, not a rename.
func (r *ParameterRenameRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	if !ctx.IsUpdate() || ctx.Global {
		return nil, nil
	}
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)
	o, n := ctx.OldRoot, ctx.NewRoot

	oldParams, newParams := oldTree.Parameters(o), newTree.Parameters(n)
	if len(oldParams) != len(newParams) || oldTree.ParameterShape(o) != newTree.ParameterShape(n) {
		return nil, nil
	}

	var diags []rude.Diagnostic
	for i := range newParams {
		oldName, newName := oldTree.Token(oldParams[i]), newTree.Token(newParams[i])
		if oldName == newName {
			continue
		}
		diags = append(diags, rude.NewDiagnostic(rude.RenamingNotSupportedByRuntime, newTree, match.New,
			newParams[i], oldName, newName).
			WithRequired(capability.UpdateParameters).
			WithRemediation(rude.RemediationUpdateParameters).
			Build())
	}
	return diags, nil
}

// DeclarationInsertRule reports types and members added to the document.
type DeclarationInsertRule struct {
	rude.BaseRule
}

// NewDeclarationInsertRule creates a new declaration-insert rule.
func NewDeclarationInsertRule() *DeclarationInsertRule {
	return &DeclarationInsertRule{
		BaseRule: rude.NewBaseRule(
			"ENC016",
			"declaration-insert",
			"A type or member was added. New types need type definition support; new "+
				"members need the runtime to extend existing types.",
			[]string{"insert"},
			[]rude.Kind{rude.InsertNotSupportedByRuntime},
			capability.Of(
				capability.NewTypeDefinition,
				capability.AddMethodToExistingType,
				capability.AddExplicitInterfaceImplementation,
				capability.GenericUpdateMethod,
			),
		),
	}
}

// Apply reports the outermost inserted declaration only. Members of an
// inserted type come with it.
func (r *DeclarationInsertRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	m := ctx.Match()
	newTree := ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, e := range ctx.Edits() {
		if e.Kind != editscript.Insert {
			continue
		}
		if parent := m.LabeledParent(match.New, e.New); parent != syntax.NoNode && !m.IsMatched(match.New, parent) {
			continue
		}

		var b *rude.DiagnosticBuilder
		switch e.Label {
		case match.LabelTypeDeclaration:
			b = rude.NewDiagnostic(rude.InsertNotSupportedByRuntime, newTree, match.New, e.New,
				rude.DisplayName(newTree, e.New)).
				WithRequired(capability.NewTypeDefinition).
				WithRemediation(rude.RemediationAddType)

		case match.LabelMethod, match.LabelConstructor, match.LabelProperty, match.LabelField:
			required := []capability.Capability{capability.AddMethodToExistingType}
			remediation := rude.RemediationAddMethod
			if newTree.ChildOfKind(e.New, syntax.KindExplicitInterfaceSpecifier) != syntax.NoNode {
				required = append(required, capability.AddExplicitInterfaceImplementation)
				remediation = rude.RemediationExplicitImpl
			}
			if rude.InGenericContext(newTree, e.New) {
				required = append(required, capability.GenericUpdateMethod)
			}
			b = rude.NewDiagnostic(rude.InsertNotSupportedByRuntime, newTree, match.New, e.New,
				rude.DisplayName(newTree, e.New)).
				WithRequired(required...).
				WithRemediation(remediation)

		default:
			continue
		}
		diags = append(diags, b.Build())
	}
	return diags, nil
}
