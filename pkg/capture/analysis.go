package capture

import (
	"context"
	"slices"

	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// typeScope is the pseudo-scope holding this and primary constructor
// parameters.
const typeScope ScopeID = 1

// Analysis is the scope forest, variables and closures of one declaration
// in one tree.
type Analysis struct {
	tree  *syntax.Tree
	model semantic.Model
	root  syntax.NodeID

	scopes  []Scope
	opened  map[syntax.NodeID]ScopeID
	vars    map[semantic.Key]*Variable
	order   []semantic.Key
	byNode  map[syntax.NodeID]*Closure
	list    []*Closure
	sets    *disjointSet
	capture map[semantic.Key][]*Closure
}

// Build analyzes the declaration rooted at root. A compilation unit root
// stands for the top-level statements. The model must describe tree.
func Build(ctx context.Context, tree *syntax.Tree, model semantic.Model, root syntax.NodeID) (*Analysis, error) {
	a := &Analysis{
		tree:    tree,
		model:   model,
		root:    root,
		scopes:  make([]Scope, 1, 8),
		opened:  make(map[syntax.NodeID]ScopeID),
		vars:    make(map[semantic.Key]*Variable),
		byNode:  make(map[syntax.NodeID]*Closure),
		capture: make(map[semantic.Key][]*Closure),
	}
	container := tree.Enclosing(root, func(id syntax.NodeID) bool {
		return tree.Kind(id).IsTypeDeclaration()
	})
	a.newScope(NoScope, ScopeType, container)

	switch {
	case root == syntax.NoNode:
	case tree.Kind(root) == syntax.KindCompilationUnit:
		a.walkEntryPoint(root)
	default:
		a.walk(root, typeScope)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, c := range a.list {
		a.freeVariables(c)
	}
	a.propagateCalls()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.sets = newDisjointSet(len(a.scopes))
	for _, c := range a.list {
		slices.SortFunc(c.Captures, compareKeys)
		for _, key := range c.Captures {
			a.capture[key] = append(a.capture[key], c)
			a.sets.union(c.Scope, a.vars[key].Scope)
		}
	}
	return a, nil
}

func (a *Analysis) newScope(parent ScopeID, kind ScopeKind, node syntax.NodeID) ScopeID {
	id := toScopeID(len(a.scopes))
	a.scopes = append(a.scopes, Scope{ID: id, Parent: parent, Kind: kind, Node: node})
	if node != syntax.NoNode && kind != ScopeType {
		a.opened[node] = id
	}
	return id
}

// walkEntryPoint analyzes the top-level statements of a compilation unit as
// the body of the synthesized entry point. Type declarations are skipped.
func (a *Analysis) walkEntryPoint(unit syntax.NodeID) {
	main := a.newScope(typeScope, ScopeMember, unit)
	for _, c := range a.tree.Children(unit) {
		if a.tree.Kind(c) == syntax.KindGlobalStatement {
			a.walk(c, main)
		}
	}
}

func (a *Analysis) walk(id syntax.NodeID, current ScopeID) {
	t := a.tree
	kind := t.Kind(id)
	outer := current
	if sk, ok := scopeKindOf(kind); ok {
		current = a.newScope(current, sk, id)
	}
	if kind.IsFunction() {
		c := &Closure{Node: id, Kind: kind, Scope: outer, Body: current}
		a.byNode[id] = c
		a.list = append(a.list, c)
	}
	if sym, ok := a.model.DeclaredSymbol(id); ok && sym.Kind.IsVariable() && sym.Kind != semantic.SymbolThis {
		a.declare(sym, current)
	}
	for _, c := range t.Children(id) {
		a.walk(c, current)
	}
}

func (a *Analysis) declare(sym semantic.Symbol, scope ScopeID) {
	key := sym.Key()
	if _, exists := a.vars[key]; exists {
		return
	}
	a.vars[key] = &Variable{Symbol: sym, Scope: scope}
	a.order = append(a.order, key)
	a.scopes[scope].Vars = append(a.scopes[scope].Vars, key)
}

// freeVariables records the outer variables referenced anywhere inside the
// closure and the local functions it calls.
func (a *Analysis) freeVariables(c *Closure) {
	t := a.tree
	seen := make(map[semantic.Key]bool)
	add := func(sym semantic.Symbol) {
		key := sym.Key()
		if seen[key] {
			return
		}
		seen[key] = true
		if _, known := a.vars[key]; !known {
			a.declare(sym, typeScope)
		}
		c.Captures = append(c.Captures, key)
	}

	for id := range t.PreOrder(c.Node) {
		sym, ok := a.model.ResolveIdentifier(id)
		if !ok {
			continue
		}
		switch {
		case sym.Kind == semantic.SymbolLocalFunction:
			if !t.Contains(c.Node, sym.Decl) {
				c.calls = append(c.calls, sym.Decl)
			}
		case sym.Kind.IsVariable():
			if !t.Contains(c.Node, sym.Decl) {
				add(sym)
			}
		case sym.Kind.IsInstanceMember() && !sym.Static && sym.Container != syntax.NoNode:
			add(thisSymbol(t, sym.Container))
		}
	}
}

func thisSymbol(t *syntax.Tree, container syntax.NodeID) semantic.Symbol {
	return semantic.Symbol{
		Kind:      semantic.SymbolThis,
		Name:      "this",
		Type:      t.Token(container),
		Decl:      container,
		Container: container,
	}
}

// propagateCalls adds the captures of called local functions to their
// callers until nothing changes.
func (a *Analysis) propagateCalls() {
	for changed := true; changed; {
		changed = false
		for _, c := range a.list {
			for _, callee := range c.calls {
				target, ok := a.byNode[callee]
				if !ok || target == c {
					continue
				}
				for _, key := range target.Captures {
					if a.tree.Contains(c.Node, a.vars[key].Symbol.Decl) {
						continue
					}
					if !slices.Contains(c.Captures, key) {
						c.Captures = append(c.Captures, key)
						changed = true
					}
				}
			}
		}
	}
}

// Tree returns the analyzed tree.
func (a *Analysis) Tree() *syntax.Tree { return a.tree }

// Root returns the analyzed declaration.
func (a *Analysis) Root() syntax.NodeID { return a.root }

// Scopes returns the scope arena without the sentinel.
func (a *Analysis) Scopes() []Scope { return a.scopes[1:] }

// Scope returns the scope with the given ID.
func (a *Analysis) Scope(id ScopeID) Scope {
	if id == NoScope || int(id) >= len(a.scopes) {
		return Scope{}
	}
	return a.scopes[id]
}

// ScopeOf returns the scope opened by the node, or NoScope.
func (a *Analysis) ScopeOf(node syntax.NodeID) ScopeID { return a.opened[node] }

// Closures returns the closures in pre-order.
func (a *Analysis) Closures() []*Closure { return a.list }

// Closure returns the closure rooted at node, or nil.
func (a *Analysis) Closure(node syntax.NodeID) *Closure { return a.byNode[node] }

// Variable returns the variable with the given key.
func (a *Analysis) Variable(key semantic.Key) (Variable, bool) {
	v, ok := a.vars[key]
	if !ok {
		return Variable{}, false
	}
	return *v, true
}

// Variables returns the variables in declaration order. Captured variables
// declared outside the declaration come last.
func (a *Analysis) Variables() []Variable {
	out := make([]Variable, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.vars[key])
	}
	return out
}

// IsCaptured reports whether any closure captures the variable.
func (a *Analysis) IsCaptured(key semantic.Key) bool { return len(a.capture[key]) > 0 }

// CapturedBy returns the closures capturing the variable, in pre-order.
func (a *Analysis) CapturedBy(key semantic.Key) []*Closure { return a.capture[key] }

// CapturesThis reports whether any closure captures the instance.
func (a *Analysis) CapturesThis() bool {
	for _, c := range a.list {
		if c.CapturesThis() {
			return true
		}
	}
	return false
}

// Connected reports whether two scopes belong to the same capture group.
func (a *Analysis) Connected(x, y ScopeID) bool {
	if x == NoScope || y == NoScope {
		return false
	}
	return a.sets.connected(x, y)
}

// CaptureScopes returns the scopes declaring at least one captured
// variable, in ID order.
func (a *Analysis) CaptureScopes() []ScopeID {
	var out []ScopeID
	for _, s := range a.scopes[1:] {
		if slices.ContainsFunc(s.Vars, a.IsCaptured) {
			out = append(out, s.ID)
		}
	}
	return out
}

// Groups returns the capture groups as sets of capture scopes, ordered by
// their smallest scope.
func (a *Analysis) Groups() [][]ScopeID {
	index := make(map[ScopeID]int)
	var out [][]ScopeID
	for _, s := range a.CaptureScopes() {
		root := a.sets.find(s)
		i, ok := index[root]
		if !ok {
			i = len(out)
			index[root] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], s)
	}
	return out
}

// innermost returns the deepest closure in the list, preferring the first
// in pre-order.
func (a *Analysis) innermost(closures []*Closure) *Closure {
	var best *Closure
	for _, c := range closures {
		if best == nil || a.tree.IsAncestor(best.Node, c.Node) {
			best = c
		}
	}
	return best
}
