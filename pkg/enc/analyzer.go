// Package enc analyzes one document edit end to end: it matches the two
// syntax trees, builds the edit script, classifies every changed
// declaration against the rude edit catalog and projects the semantic edits
// the runtime would apply.
package enc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/encheck/internal/logging"
	"github.com/yaklabco/encheck/pkg/capability"
	"github.com/yaklabco/encheck/pkg/capture"
	"github.com/yaklabco/encheck/pkg/config"
	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/projector"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/rude/rules"
	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// ErrMissingTree is returned when a document lacks one of its versions.
var ErrMissingTree = errors.New("document needs both an old and a new syntax tree")

// Document is one source file in its old and new versions.
type Document struct {
	Path string
	Old  *syntax.Tree
	New  *syntax.Tree

	// OldModel and NewModel answer symbol questions. A lexical model is
	// built from the tree when nil.
	OldModel semantic.Model
	NewModel semantic.Model
}

// UnitResult is the classification of one declaration.
type UnitResult struct {
	Name    string
	OldRoot syntax.NodeID
	NewRoot syntax.NodeID
	Global  bool

	Capture *capture.Result
	Outcome *rude.Outcome
}

// DocumentResult is everything known about one document edit.
type DocumentResult struct {
	Path   string
	Match  *match.Match
	Script *editscript.Script

	Units []UnitResult

	// Outcome merges the unit outcomes in unit order, followed by
	// internal error diagnostics of aborted units.
	Outcome *rude.Outcome

	SemanticEdits []projector.SemanticEdit

	Duration time.Duration
}

// HasBlocking reports whether the edit cannot be applied.
func (r *DocumentResult) HasBlocking() bool {
	return r.Outcome != nil && r.Outcome.HasBlocking()
}

// Analyzer runs the document pipeline. It holds no per-document state and
// may be shared between goroutines.
type Analyzer struct {
	Engine       *rude.Engine
	Config       *config.Config
	Capabilities capability.Set
}

// NewAnalyzer builds an analyzer over the full rule catalog with the
// capabilities named in the configuration.
func NewAnalyzer(cfg *config.Config) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	caps, err := capability.ParseNames(cfg.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("reading capabilities: %w", err)
	}

	registry := rude.NewRegistry()
	rules.RegisterAll(registry)

	return &Analyzer{
		Engine:       rude.NewEngine(registry),
		Config:       cfg,
		Capabilities: caps.With(capability.Baseline),
	}, nil
}

// AnalyzeDocument classifies the edit from doc.Old to doc.New. A cancelled
// context yields the context error and no result. Comparator invariant
// violations are reported as InternalError diagnostics, not errors.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc Document) (*DocumentResult, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(logging.FieldPath, doc.Path)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.Old == nil || doc.New == nil {
		return nil, ErrMissingTree
	}

	result := &DocumentResult{
		Path:    doc.Path,
		Outcome: &rude.Outcome{RuleErrors: make(map[string]error)},
	}

	m, err := match.Compute(ctx, doc.Old, doc.New)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, match.ErrInternal) {
			logger.Warn("comparator failed", logging.FieldError, err)
			result.Outcome.Diagnostics = append(result.Outcome.Diagnostics,
				rude.InternalErrorDiagnostic(doc.Path, "document", err))
			result.Duration = time.Since(start)
			return result, nil
		}
		return nil, fmt.Errorf("matching %s: %w", doc.Path, err)
	}
	result.Match = m

	script, err := editscript.Build(m)
	if err != nil {
		return nil, fmt.Errorf("building edit script for %s: %w", doc.Path, err)
	}
	result.Script = script
	logger.Debug("edit script built", logging.FieldEdits, script.Len())

	oldModel, newModel := doc.OldModel, doc.NewModel
	if oldModel == nil {
		oldModel = semantic.NewLexicalModel(doc.Old)
	}
	if newModel == nil {
		newModel = semantic.NewLexicalModel(doc.New)
	}

	found := units(script)
	logger.Debug("declarations to classify", logging.FieldUnits, len(found))

	var internal []rude.Diagnostic
	decls := make([]projector.Declaration, 0, len(found))
	for _, u := range found {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := u.name(m)
		ur, err := a.classify(ctx, doc.Path, script, oldModel, newModel, u)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("declaration aborted", logging.FieldDeclaration, name, logging.FieldError, err)
			internal = append(internal, rude.InternalErrorDiagnostic(doc.Path, name, err))
			continue
		}
		ur.Name = name
		for id, ruleErr := range ur.Outcome.RuleErrors {
			logger.Warn("rule failed", logging.FieldDeclaration, name, logging.FieldRule, id, logging.FieldError, ruleErr)
		}

		result.Units = append(result.Units, *ur)
		result.Outcome.Merge(ur.Outcome)
		decls = append(decls, projector.Declaration{
			OldRoot: u.oldRoot,
			NewRoot: u.newRoot,
			Global:  u.global,
			Capture: ur.Capture,
		})
	}
	result.Outcome.Diagnostics = append(result.Outcome.Diagnostics, internal...)

	edits, err := projector.Project(ctx, projector.Input{
		Script:       script,
		Declarations: decls,
		Diagnostics:  result.Outcome.Diagnostics,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("projecting semantic edits for %s: %w", doc.Path, err)
	}
	result.SemanticEdits = edits
	result.Duration = time.Since(start)

	logger.Debug("document analyzed",
		logging.FieldBlocking, result.Outcome.BlockingCount(),
		logging.FieldApplicable, len(result.Outcome.Applicable),
		logging.FieldSemantic, len(edits),
		logging.FieldDuration, result.Duration,
	)
	return result, nil
}

func (a *Analyzer) classify(
	ctx context.Context,
	path string,
	script *editscript.Script,
	oldModel, newModel semantic.Model,
	u unit,
) (*UnitResult, error) {
	rc := rude.NewContext(ctx, script, u.oldRoot, u.newRoot, a.Config)
	rc.Path = path
	rc.Global = u.global
	rc.OldModel = oldModel
	rc.NewModel = newModel
	rc.Capabilities = a.Capabilities

	if u.pairsDeclarations(script.Match()) {
		res, err := capture.Analyze(ctx, capture.Input{
			Match:    script.Match(),
			OldModel: oldModel,
			NewModel: newModel,
			OldRoot:  u.oldRoot,
			NewRoot:  u.newRoot,
		})
		if err != nil {
			return nil, fmt.Errorf("capture analysis: %w", err)
		}
		rc.Capture = res
	}

	outcome, err := a.Engine.Classify(ctx, rc)
	if err != nil {
		return nil, err
	}
	return &UnitResult{
		OldRoot: u.oldRoot,
		NewRoot: u.newRoot,
		Global:  u.global,
		Capture: rc.Capture,
		Outcome: outcome,
	}, nil
}
