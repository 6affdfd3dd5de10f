package rules

import (
	"strings"

	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/capture"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// CapturedRenameRule reports renamed captured variables. Display class
// field names are fixed when the closure is first emitted, so the rule is
// never suppressed.
type CapturedRenameRule struct {
	rude.BaseRule
}

// NewCapturedRenameRule creates a new renaming-captured-variable rule.
func NewCapturedRenameRule() *CapturedRenameRule {
	return &CapturedRenameRule{
		BaseRule: rude.NewBaseRule(
			"ENC003",
			"renaming-captured-variable",
			"A local or parameter captured by a closure was renamed.",
			[]string{"capture"},
			[]rude.Kind{rude.RenamingCapturedVariable},
			capability.None,
		),
	}
}

// Configurable returns false: captured renames are always rude.
func (r *CapturedRenameRule) Configurable() bool {
	return false
}

// Apply reports one diagnostic per renamed symbol, anchored at its new
// declaration.
func (r *CapturedRenameRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	if ctx.Capture == nil {
		return nil, nil
	}
	newTree := ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, d := range ctx.Capture.Diagnoses {
		if d.Kind != capture.Renamed {
			continue
		}
		diags = append(diags, rude.NewDiagnostic(rude.RenamingCapturedVariable, newTree, match.New,
			d.NewVar.Decl, d.OldVar.Name, d.NewVar.Name).Build())
	}
	return diags, nil
}

// CapturedTypeRule reports captured variables whose type changed.
type CapturedTypeRule struct {
	rude.BaseRule
}

// NewCapturedTypeRule creates a new changing-captured-variable-type rule.
func NewCapturedTypeRule() *CapturedTypeRule {
	return &CapturedTypeRule{
		BaseRule: rude.NewBaseRule(
			"ENC004",
			"changing-captured-variable-type",
			"The declared type of a captured variable changed.",
			[]string{"capture"},
			[]rude.Kind{rude.ChangingCapturedVariableType},
			capability.None,
		),
	}
}

// Apply reports every retyped capture at its new declaration.
func (r *CapturedTypeRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	if ctx.Capture == nil {
		return nil, nil
	}
	newTree := ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, d := range ctx.Capture.Diagnoses {
		if d.Kind != capture.RetypedCapture {
			continue
		}
		diags = append(diags, rude.NewDiagnostic(rude.ChangingCapturedVariableType, newTree, match.New,
			d.NewVar.Decl, d.NewVar.Name, d.OldVar.Type, d.NewVar.Type).Build())
	}
	return diags, nil
}

// CaptureSetRule reports closures that start or stop capturing a variable
// and capture groups that are joined or split.
type CaptureSetRule struct {
	rude.BaseRule
}

// NewCaptureSetRule creates a new capture-set-change rule.
func NewCaptureSetRule() *CaptureSetRule {
	return &CaptureSetRule{
		BaseRule: rude.NewBaseRule(
			"ENC005",
			"capture-set-change",
			"A closure began or ceased capturing a variable, or a change joined or split "+
				"closure capture groups. New captures need new closure types.",
			[]string{"capture"},
			[]rude.Kind{
				rude.CapturingVariable, rude.NotCapturingVariable,
				rude.InsertLambdaWithMultiScopeCapture, rude.DeleteLambdaWithMultiScopeCapture,
			},
			capability.Of(capability.NewTypeDefinition),
		),
	}
}

// Apply maps capture diagnoses onto rude edits.
func (r *CaptureSetRule) Apply(ctx *rude.Context) ([]rude.Diagnostic, error) {
	if ctx.Capture == nil {
		return nil, nil
	}
	oldTree, newTree := ctx.Tree(match.Old), ctx.Tree(match.New)

	var diags []rude.Diagnostic
	for _, d := range ctx.Capture.Diagnoses {
		switch d.Kind {
		case capture.BeganCapture:
			diags = append(diags, rude.NewDiagnostic(rude.CapturingVariable, newTree, match.New,
				d.NewClosure, d.NewVar.Name).
				WithRequired(capability.NewTypeDefinition).
				WithRemediation(rude.RemediationNewClosure).
				Build())

		case capture.CeasedCapture:
			b := anchor(oldTree, newTree, d, rude.NotCapturingVariable, d.OldVar.Name)
			diags = append(diags, b.
				WithRequired(capability.NewTypeDefinition).
				WithRemediation(rude.RemediationNewClosure).
				Build())

		case capture.ConnectedGroups:
			a := ctx.Capture.New
			diags = append(diags, rude.NewDiagnostic(rude.InsertLambdaWithMultiScopeCapture, newTree, match.New,
				d.NewClosure, capturedNames(a, d.GroupA), capturedNames(a, d.GroupB)).Build())

		case capture.DisconnectedGroups:
			a := ctx.Capture.Old
			diags = append(diags, anchor(oldTree, newTree, d, rude.DeleteLambdaWithMultiScopeCapture,
				capturedNames(a, d.GroupA), capturedNames(a, d.GroupB)).Build())

		case capture.NoChange, capture.Renamed, capture.RetypedCapture:
		}
	}
	return diags, nil
}

// anchor prefers the new closure and falls back to the removed old one.
func anchor(oldTree, newTree *syntax.Tree, d capture.Diagnosis, kind rude.Kind, args ...string) *rude.DiagnosticBuilder {
	if d.NewClosure != syntax.NoNode {
		return rude.NewDiagnostic(kind, newTree, match.New, d.NewClosure, args...)
	}
	return rude.NewDiagnostic(kind, oldTree, match.Old, d.OldClosure, args...)
}

// capturedNames lists the captured variables declared in a scope.
func capturedNames(a *capture.Analysis, scope capture.ScopeID) string {
	var names []string
	for _, key := range a.Scope(scope).Vars {
		if !a.IsCaptured(key) {
			continue
		}
		if v, ok := a.Variable(key); ok {
			names = append(names, v.Symbol.Name)
		}
	}
	return strings.Join(names, ", ")
}
