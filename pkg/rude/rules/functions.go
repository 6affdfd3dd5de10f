package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// LambdaParametersRule reports parameter list changes of lambdas,
// anonymous methods and local functions.
type LambdaParametersRule struct {
	rude.BaseRule
}

// NewLambdaParametersRule creates a new changing-lambda-parameters rule.
func NewLambdaParametersRule() *LambdaParametersRule {
	return &LambdaParametersRule{
		BaseRule: rude.NewBaseRule(
			"ENC001",
			"changing-lambda-parameters",
			"Lambda or local function parameters changed. Count, type and by-ref changes always "+
				"need a restart; a pure rename applies when the runtime can update parameters.",
			[]string{"lambda", "signature"},
			[]rude.Kind{rude.ChangingLambdaParameters},
			capability.Of(capability.UpdateParameters),
		),
	}
}

// Apply compares the parameters of every matched function pair.
func (r *LambdaParametersRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, pair := range ctx.FunctionPairs() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		o, n := pair[0], pair[1]
		if switchedForm(oldTree, o, newTree, n) {
			continue
		}

		oldParams, newParams := oldTree.Parameters(o), newTree.Parameters(n)
		name := rude.DisplayName(newTree, n)
		if len(oldParams) != len(newParams) || oldTree.ParameterShape(o) != newTree.ParameterShape(n) {
			diags = append(diags, rude.NewDiagnostic(rude.ChangingLambdaParameters, newTree, match.New, n, name).Build())
			continue
		}
		for i := range oldParams {
			if oldTree.Token(oldParams[i]) != newTree.Token(newParams[i]) {
				diags = append(diags, rude.NewDiagnostic(rude.ChangingLambdaParameters, newTree, match.New, n, name).
					WithRequired(capability.UpdateParameters).
					WithRemediation(rude.RemediationUpdateParameters).
					Build())
				break
			}
		}
	}
	return diags, nil
}

// LambdaReturnTypeRule reports return type changes of functions.
type LambdaReturnTypeRule struct {
	rude.BaseRule
}

// NewLambdaReturnTypeRule creates a new changing-lambda-return-type rule.
func NewLambdaReturnTypeRule() *LambdaReturnTypeRule {
	return &LambdaReturnTypeRule{
		BaseRule: rude.NewBaseRule(
			"ENC002",
			"changing-lambda-return-type",
			"The return type of a lambda or local function changed.",
			[]string{"lambda", "signature"},
			[]rude.Kind{rude.ChangingLambdaReturnType},
			capability.None,
		),
	}
}

// Apply compares declared return types, falling back to the inferred type
// of expression bodies. Unknown types never produce a diagnostic.
func (r *LambdaReturnTypeRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, pair := range ctx.FunctionPairs() {
		o, n := pair[0], pair[1]
		if switchedForm(oldTree, o, newTree, n) {
			continue
		}

		oldType := returnType(ctx, match.Old, o)
		newType := returnType(ctx, match.New, n)
		if oldType == "" || newType == "" || oldType == newType {
			continue
		}
		diags = append(diags, rude.NewDiagnostic(rude.ChangingLambdaReturnType, newTree, match.New, n,
			rude.DisplayName(newTree, n)).Build())
	}
	return diags, nil
}

func returnType(ctx *rude.Context, side match.Side, fn syntax.NodeID) string {
	tree := ctx.Tree(side)
	if declared := rude.ReturnType(tree, fn); declared != "" {
		return declared
	}
	if tree.Kind(fn) != syntax.KindLambdaExpression {
		return ""
	}
	body := tree.Body(fn)
	model := ctx.Model(side)
	if model == nil || body == syntax.NoNode || tree.Kind(body) == syntax.KindBlock {
		return ""
	}
	return model.InferType(body)
}

// FunctionFormRule reports lambdas that became local functions and back.
type FunctionFormRule struct {
	rude.BaseRule
}

// NewFunctionFormRule creates a new lambda-local-function-switch rule.
func NewFunctionFormRule() *FunctionFormRule {
	return &FunctionFormRule{
		BaseRule: rude.NewBaseRule(
			"ENC010",
			"lambda-local-function-switch",
			"A lambda was replaced by a local function or the other way around. "+
				"The two forms compile to different metadata shapes.",
			[]string{"lambda"},
			[]rude.Kind{rude.SwitchBetweenLambdaAndLocalFunction},
			capability.None,
		),
	}
}

// Apply checks every matched function pair.
func (r *FunctionFormRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, pair := range ctx.FunctionPairs() {
		if switchedForm(oldTree, pair[0], newTree, pair[1]) {
			diags = append(diags, rude.NewDiagnostic(rude.SwitchBetweenLambdaAndLocalFunction,
				newTree, match.New, pair[1]).Build())
		}
	}
	return diags, nil
}

// switchedForm reports whether exactly one side is a local function.
func switchedForm(oldTree *syntax.Tree, o syntax.NodeID, newTree *syntax.Tree, n syntax.NodeID) bool {
	return (oldTree.Kind(o) == syntax.KindLocalFunctionStatement) !=
		(newTree.Kind(n) == syntax.KindLocalFunctionStatement)
}

// TypeParametersRule reports type parameter or constraint changes of
// local functions.
type TypeParametersRule struct {
	rude.BaseRule
}

// NewTypeParametersRule creates a new changing-type-parameters rule.
func NewTypeParametersRule() *TypeParametersRule {
	return &TypeParametersRule{
		BaseRule: rude.NewBaseRule(
			"ENC013",
			"changing-type-parameters",
			"Type parameters or constraints of a local function changed.",
			[]string{"lambda", "generic"},
			[]rude.Kind{rude.ChangingTypeParameters},
			capability.None,
		),
	}
}

// Apply compares type parameter lists and constraint clauses.
func (r *TypeParametersRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, pair := range ctx.FunctionPairs() {
		o, n := pair[0], pair[1]
		if newTree.Kind(n) != syntax.KindLocalFunctionStatement || oldTree.Kind(o) != syntax.KindLocalFunctionStatement {
			continue
		}
		if typeParameters(oldTree, o) != typeParameters(newTree, n) {
			diags = append(diags, rude.NewDiagnostic(rude.ChangingTypeParameters, newTree, match.New, n,
				rude.DisplayName(newTree, n)).Build())
		}
	}
	return diags, nil
}

func typeParameters(tree *syntax.Tree, fn syntax.NodeID) string {
	parts := []string{tree.Text(tree.ChildOfKind(fn, syntax.KindTypeParameterList))}
	for _, c := range tree.ChildrenOfKind(fn, syntax.KindTypeParameterConstraintsClause) {
		parts = append(parts, tree.Text(c))
	}
	return strings.Join(parts, " where ")
}

// FunctionAttributesRule reports attribute changes on functions and their
// parameters.
type FunctionAttributesRule struct {
	rude.BaseRule
}

// NewFunctionAttributesRule creates a new changing-function-attributes rule.
func NewFunctionAttributesRule() *FunctionAttributesRule {
	return &FunctionAttributesRule{
		BaseRule: rude.NewBaseRule(
			"ENC014",
			"changing-function-attributes",
			"Attributes of a lambda, local function or their parameters changed.",
			[]string{"lambda", "attributes"},
			[]rude.Kind{rude.ChangingAttributesNotSupportedByRuntime},
			capability.Of(capability.ChangeCustomAttributes),
		),
	}
}

// Apply compares the rendered attribute lists of every function pair.
func (r *FunctionAttributesRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, pair := range ctx.FunctionPairs() {
		o, n := pair[0], pair[1]
		if rude.AttributeText(oldTree, o) == rude.AttributeText(newTree, n) {
			continue
		}
		diags = append(diags, rude.NewDiagnostic(rude.ChangingAttributesNotSupportedByRuntime,
			newTree, match.New, n, rude.DisplayName(newTree, n)).
			WithRequired(capability.ChangeCustomAttributes).
			WithRemediation(rude.RemediationUpdateAttributes).
			Build())
	}
	return diags, nil
}
