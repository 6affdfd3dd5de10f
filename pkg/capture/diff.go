package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// ErrMissingInput is returned when Analyze is called without a match or a
// semantic model.
var ErrMissingInput = errors.New("capture analysis needs a match and both models")

// DiagnosisKind classifies how a closure's captures changed.
type DiagnosisKind uint8

// Diagnosis kinds.
const (
	NoChange DiagnosisKind = iota
	CeasedCapture
	BeganCapture
	ConnectedGroups
	DisconnectedGroups
	Renamed
	RetypedCapture
)

var diagnosisNames = [...]string{
	NoChange:           "NoChange",
	CeasedCapture:      "CeasedCapture",
	BeganCapture:       "BeganCapture",
	ConnectedGroups:    "ConnectedGroups",
	DisconnectedGroups: "DisconnectedGroups",
	Renamed:            "Renamed",
	RetypedCapture:     "RetypedCapture",
}

func (k DiagnosisKind) String() string {
	if int(k) < len(diagnosisNames) {
		return diagnosisNames[k]
	}
	return fmt.Sprintf("DiagnosisKind(%d)", k)
}

// Diagnosis is one capture change. Closures are NoNode on the side where
// they do not exist. Groups are scope IDs: new-side scopes for
// ConnectedGroups, old-side scopes for DisconnectedGroups.
type Diagnosis struct {
	Kind DiagnosisKind

	OldClosure syntax.NodeID
	NewClosure syntax.NodeID

	OldVar semantic.Symbol
	NewVar semantic.Symbol

	GroupA ScopeID
	GroupB ScopeID
}

func (d Diagnosis) String() string {
	switch d.Kind {
	case CeasedCapture:
		return fmt.Sprintf("%s(%s)", d.Kind, d.OldVar.Name)
	case BeganCapture:
		return fmt.Sprintf("%s(%s)", d.Kind, d.NewVar.Name)
	case Renamed:
		return fmt.Sprintf("%s(%s, %s)", d.Kind, d.OldVar.Name, d.NewVar.Name)
	case RetypedCapture:
		return fmt.Sprintf("%s(%s, %s, %s)", d.Kind, d.NewVar.Name, d.OldVar.Type, d.NewVar.Type)
	case ConnectedGroups, DisconnectedGroups:
		return fmt.Sprintf("%s(%d, %d)", d.Kind, d.GroupA, d.GroupB)
	default:
		return d.Kind.String()
	}
}

// Input is one declaration in both versions of a document.
type Input struct {
	Match    *match.Match
	OldModel semantic.Model
	NewModel semantic.Model
	OldRoot  syntax.NodeID
	NewRoot  syntax.NodeID
}

// Result holds both analyses and the diagnoses in a deterministic order:
// variable-level changes in old then new declaration order, then group
// changes.
type Result struct {
	Old       *Analysis
	New       *Analysis
	Diagnoses []Diagnosis

	match *match.Match
}

// Analyze builds the capture analysis of both versions of a declaration
// and diffs them through the match.
func Analyze(ctx context.Context, in Input) (*Result, error) {
	if in.Match == nil || in.OldModel == nil || in.NewModel == nil {
		return nil, ErrMissingInput
	}
	oldA, err := Build(ctx, in.Match.OldTree(), in.OldModel, in.OldRoot)
	if err != nil {
		return nil, fmt.Errorf("analyzing old captures: %w", err)
	}
	newA, err := Build(ctx, in.Match.NewTree(), in.NewModel, in.NewRoot)
	if err != nil {
		return nil, fmt.Errorf("analyzing new captures: %w", err)
	}

	d := &differ{m: in.Match, old: oldA, new: newA, newModel: in.NewModel, oldModel: in.OldModel}
	d.variables()
	d.connected()
	d.disconnected()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Old: oldA, New: newA, Diagnoses: d.out, match: in.Match}, nil
}

// For returns the diagnoses attributed to a new closure, or a single
// NoChange when there are none.
func (r *Result) For(newClosure syntax.NodeID) []Diagnosis {
	var out []Diagnosis
	for _, d := range r.Diagnoses {
		if d.NewClosure == newClosure {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return []Diagnosis{{Kind: NoChange, OldClosure: r.match.OldPartner(newClosure), NewClosure: newClosure}}
	}
	return out
}

// Changed reports whether any closure's captures changed.
func (r *Result) Changed() bool { return len(r.Diagnoses) > 0 }

type differ struct {
	m        *match.Match
	old, new *Analysis
	oldModel semantic.Model
	newModel semantic.Model
	out      []Diagnosis
}

func (d *differ) emit(diag Diagnosis) { d.out = append(d.out, diag) }

// variables reports captures that began, ceased or changed name or type.
// Each variable is reported once.
func (d *differ) variables() {
	for _, v := range d.old.Variables() {
		key := v.Symbol.Key()
		if !d.old.IsCaptured(key) {
			continue
		}
		partner, ok := d.newVariable(v.Symbol)
		if !ok || !d.new.IsCaptured(partner.Key()) {
			if v.Symbol.Erroneous {
				continue
			}
			first := d.old.CapturedBy(key)[0]
			d.emit(Diagnosis{
				Kind:       CeasedCapture,
				OldClosure: first.Node,
				NewClosure: d.m.NewPartner(first.Node),
				OldVar:     v.Symbol,
				NewVar:     partner,
			})
			continue
		}
		if v.Symbol.Erroneous || partner.Erroneous {
			continue
		}
		oldSite := d.old.innermost(d.old.CapturedBy(key))
		newSite := d.new.innermost(d.new.CapturedBy(partner.Key()))
		base := Diagnosis{OldClosure: oldSite.Node, NewClosure: newSite.Node, OldVar: v.Symbol, NewVar: partner}
		if v.Symbol.Name != partner.Name {
			base.Kind = Renamed
			d.emit(base)
		}
		if v.Symbol.Type != "" && partner.Type != "" && v.Symbol.Type != partner.Type {
			base.Kind = RetypedCapture
			d.emit(base)
		}
	}

	for _, v := range d.new.Variables() {
		key := v.Symbol.Key()
		if !d.new.IsCaptured(key) || v.Symbol.Erroneous {
			continue
		}
		partner, ok := d.oldVariable(v.Symbol)
		if ok && d.old.IsCaptured(partner.Key()) {
			continue
		}
		first := d.new.CapturedBy(key)[0]
		d.emit(Diagnosis{
			Kind:       BeganCapture,
			OldClosure: d.m.OldPartner(first.Node),
			NewClosure: first.Node,
			OldVar:     partner,
			NewVar:     v.Symbol,
		})
	}
}

// connected reports old capture groups that the new version joins.
func (d *differ) connected() {
	scopes := d.old.CaptureScopes()
	reported := make(map[[2]ScopeID]bool)
	for i, a := range scopes {
		for _, b := range scopes[i+1:] {
			if d.old.Connected(a, b) {
				continue
			}
			na, nb := d.newScope(a), d.newScope(b)
			if !d.new.Connected(na, nb) || !d.isCaptureScope(d.new, na) || !d.isCaptureScope(d.new, nb) {
				continue
			}
			pair := [2]ScopeID{d.old.sets.find(a), d.old.sets.find(b)}
			if reported[pair] {
				continue
			}
			reported[pair] = true
			site := d.bridge(d.new, d.oldScope, d.old, a, b)
			if site == syntax.NoNode {
				site = d.firstInGroup(d.new, na)
			}
			d.emit(Diagnosis{
				Kind:       ConnectedGroups,
				OldClosure: d.m.OldPartner(site),
				NewClosure: site,
				GroupA:     na,
				GroupB:     nb,
			})
		}
	}
}

// disconnected reports old capture groups that the new version splits.
func (d *differ) disconnected() {
	scopes := d.new.CaptureScopes()
	reported := make(map[[2]ScopeID]bool)
	for i, a := range scopes {
		for _, b := range scopes[i+1:] {
			if d.new.Connected(a, b) {
				continue
			}
			oa, ob := d.oldScope(a), d.oldScope(b)
			if !d.old.Connected(oa, ob) || !d.isCaptureScope(d.old, oa) || !d.isCaptureScope(d.old, ob) {
				continue
			}
			pair := [2]ScopeID{d.new.sets.find(a), d.new.sets.find(b)}
			if reported[pair] {
				continue
			}
			reported[pair] = true
			site := d.bridge(d.old, d.newScope, d.new, a, b)
			if site == syntax.NoNode {
				site = d.firstInGroup(d.old, oa)
			}
			d.emit(Diagnosis{
				Kind:       DisconnectedGroups,
				OldClosure: site,
				NewClosure: d.m.NewPartner(site),
				GroupA:     oa,
				GroupB:     ob,
			})
		}
	}
}

func (d *differ) isCaptureScope(a *Analysis, s ScopeID) bool {
	if s == NoScope {
		return false
	}
	for _, key := range a.scopes[s].Vars {
		if a.IsCaptured(key) {
			return true
		}
	}
	return false
}

// bridge returns the first closure of a whose own scope or captured
// variables map into both groups of x and y on the other side.
func (d *differ) bridge(a *Analysis, toOther func(ScopeID) ScopeID, other *Analysis, x, y ScopeID) syntax.NodeID {
	rx, ry := other.sets.find(x), other.sets.find(y)
	for _, c := range a.list {
		var hitX, hitY bool
		touch := func(s ScopeID) {
			o := toOther(s)
			if o == NoScope {
				return
			}
			switch other.sets.find(o) {
			case rx:
				hitX = true
			case ry:
				hitY = true
			}
		}
		touch(c.Scope)
		for _, key := range c.Captures {
			touch(a.vars[key].Scope)
		}
		if hitX && hitY {
			return c.Node
		}
	}
	return syntax.NoNode
}

// firstInGroup returns the first closure, in pre-order, whose scope belongs
// to the group of s.
func (d *differ) firstInGroup(a *Analysis, s ScopeID) syntax.NodeID {
	for _, c := range a.list {
		if a.Connected(c.Scope, s) {
			return c.Node
		}
	}
	return syntax.NoNode
}

func (d *differ) newScope(s ScopeID) ScopeID {
	if s == typeScope {
		return typeScope
	}
	node := d.old.scopes[s].Node
	return d.new.ScopeOf(d.m.NewPartner(node))
}

func (d *differ) oldScope(s ScopeID) ScopeID {
	if s == typeScope {
		return typeScope
	}
	node := d.new.scopes[s].Node
	return d.old.ScopeOf(d.m.OldPartner(node))
}

func (d *differ) newVariable(sym semantic.Symbol) (semantic.Symbol, bool) {
	return d.mapVariable(sym, match.Old, d.old, d.new, d.newModel)
}

func (d *differ) oldVariable(sym semantic.Symbol) (semantic.Symbol, bool) {
	return d.mapVariable(sym, match.New, d.new, d.old, d.oldModel)
}

// mapVariable finds the counterpart of a variable on the other side: through
// the partner of its declaration, by position for parameters and through the
// catch clause for exception variables. side is the side sym belongs to.
func (d *differ) mapVariable(
	sym semantic.Symbol, side match.Side, from, dest *Analysis, model semantic.Model,
) (semantic.Symbol, bool) {
	src := from.tree
	partner := func(id syntax.NodeID) syntax.NodeID { return d.m.Partner(side, id) }

	if sym.Kind == semantic.SymbolThis {
		if p := partner(sym.Decl); p != syntax.NoNode {
			return thisSymbol(dest.tree, p), true
		}
		for _, v := range dest.vars {
			if v.Symbol.Kind == semantic.SymbolThis {
				return v.Symbol, true
			}
		}
		return semantic.Symbol{}, false
	}

	target := syntax.NoNode
	switch src.Kind(sym.Decl) {
	case syntax.KindParameter:
		owner := ownerOf(src, sym.Decl)
		if p := partner(owner); p != syntax.NoNode {
			pos := indexOf(src.Parameters(owner), sym.Decl)
			if params := dest.tree.Parameters(p); pos >= 0 && pos < len(params) {
				target = params[pos]
			}
		}
	case syntax.KindCatchDeclaration:
		if p := partner(src.Parent(sym.Decl)); p != syntax.NoNode {
			target = dest.tree.ChildOfKind(p, syntax.KindCatchDeclaration)
		}
	default:
		target = partner(sym.Decl)
	}
	if target == syntax.NoNode {
		return semantic.Symbol{}, false
	}
	out, ok := model.DeclaredSymbol(target)
	if !ok || !out.Kind.IsVariable() {
		return semantic.Symbol{}, false
	}
	return out, true
}

// ownerOf returns the function, member or type declaring a parameter.
func ownerOf(t *syntax.Tree, param syntax.NodeID) syntax.NodeID {
	parent := t.Parent(param)
	if t.Kind(parent) == syntax.KindParameterList {
		return t.Parent(parent)
	}
	return parent
}

func indexOf(ids []syntax.NodeID, id syntax.NodeID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}
