package projector

import (
	"context"
	"errors"
	"maps"

	"github.com/yaklabco/encheck/pkg/capture"
	"github.com/yaklabco/encheck/pkg/editscript"
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/rude"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// ErrNoScript is returned when Project is called without an edit script.
var ErrNoScript = errors.New("projecting semantic edits needs an edit script")

// Declaration is one analysis unit of the document. A NoNode root marks an
// inserted or deleted declaration; Global marks the top-level statements
// with the compilation units as roots.
type Declaration struct {
	OldRoot syntax.NodeID
	NewRoot syntax.NodeID
	Global  bool

	// Capture is the capture analysis of a matched declaration, nil
	// otherwise.
	Capture *capture.Result
}

// Input is everything known about one document once classification is
// done.
type Input struct {
	Script       *editscript.Script
	Declarations []Declaration

	// Diagnostics are the rude edits of the document. Blocking ones mark
	// the semantic edits of their declaration as blocked.
	Diagnostics []rude.Diagnostic
}

// Project derives the semantic edits of a document. Edits come out in
// declaration order followed by constructor edits in type order; each
// (kind, symbol) pair appears once.
func Project(ctx context.Context, in Input) ([]SemanticEdit, error) {
	if in.Script == nil {
		return nil, ErrNoScript
	}

	p := newProjector(in)
	for _, d := range in.Declarations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.declaration(d)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.constructors()
	return p.edits, nil
}

// source is the syntax an edit was derived from, used to decide whether a
// blocking diagnostic covers it.
type source struct {
	old, new syntax.NodeID
	global   bool
}

// fanout collects member initializer changes per new type declaration.
type fanout struct {
	instance bool
	static   bool
	sources  []source
}

type projector struct {
	in       Input
	m        *match.Match
	old, new *syntax.Tree

	syntaxMap *match.SyntaxMap
	edits     []SemanticEdit
	seen      map[string]int
	fanouts   map[syntax.NodeID]*fanout
	captures  map[syntax.NodeID]*capture.Result
}

func newProjector(in Input) *projector {
	m := in.Script.Match()
	return &projector{
		in:       in,
		m:        m,
		old:      m.OldTree(),
		new:      m.NewTree(),
		seen:     make(map[string]int),
		fanouts:  make(map[syntax.NodeID]*fanout),
		captures: make(map[syntax.NodeID]*capture.Result),
	}
}

func (p *projector) declaration(d Declaration) {
	if d.Capture != nil && d.NewRoot != syntax.NoNode {
		p.captures[d.NewRoot] = d.Capture
	}
	switch {
	case d.Global:
		p.global(d)
	case d.OldRoot == syntax.NoNode && d.NewRoot == syntax.NoNode:
		return
	case d.OldRoot == syntax.NoNode:
		p.inserted(d.NewRoot)
	case d.NewRoot == syntax.NoNode:
		p.deleted(d.OldRoot)
	default:
		p.updated(d)
	}
}

func (p *projector) emit(e SemanticEdit, sources ...source) {
	if e.PreserveLocalVariables {
		e.SyntaxMap = p.lazySyntaxMap()
	}
	e.Blocked = p.blocked(sources)

	key := e.key()
	if i, ok := p.seen[key]; ok {
		prev := &p.edits[i]
		prev.Blocked = prev.Blocked || e.Blocked
		if e.PreserveLocalVariables && !prev.PreserveLocalVariables {
			prev.PreserveLocalVariables, prev.SyntaxMap = true, e.SyntaxMap
		}
		return
	}
	p.seen[key] = len(p.edits)
	p.edits = append(p.edits, e)
}

func (p *projector) lazySyntaxMap() *match.SyntaxMap {
	if p.syntaxMap == nil {
		p.syntaxMap = p.m.SyntaxMap()
	}
	return p.syntaxMap
}

func (p *projector) blocked(sources []source) bool {
	for i := range p.in.Diagnostics {
		d := &p.in.Diagnostics[i]
		if !d.Blocking() {
			continue
		}
		tree := p.m.Tree(d.Side)
		for _, src := range sources {
			if src.global {
				if tree.Enclosing(d.Node, func(n syntax.NodeID) bool {
					return tree.Kind(n) == syntax.KindGlobalStatement
				}) != syntax.NoNode {
					return true
				}
				continue
			}
			root := src.new
			if d.Side == match.Old {
				root = src.old
			}
			if root != syntax.NoNode && tree.Contains(root, d.Node) {
				return true
			}
		}
	}
	return false
}

// changed reports whether any edit touches the declaration on either side.
func (p *projector) changed(oldRoot, newRoot syntax.NodeID) bool {
	return len(p.in.Script.Within(match.Old, oldRoot)) > 0 ||
		len(p.in.Script.Within(match.New, newRoot)) > 0
}

func (p *projector) preserve(d Declaration) bool {
	if capturing(d.Capture) {
		return true
	}
	if a, i := rude.StateMachine(p.old, d.OldRoot); a || i {
		return true
	}
	a, i := rude.StateMachine(p.new, d.NewRoot)
	return a || i
}

func capturing(res *capture.Result) bool {
	if res == nil {
		return false
	}
	return hasCaptures(res.Old) || hasCaptures(res.New)
}

func hasCaptures(a *capture.Analysis) bool {
	if a == nil {
		return false
	}
	for _, c := range a.Closures() {
		if len(c.Captures) > 0 {
			return true
		}
	}
	return false
}

// container returns the type holding a member, preferring the new version
// of the type when the member was deleted from a surviving type.
func (p *projector) container(side match.Side, id syntax.NodeID) Symbol {
	tree := p.m.Tree(side)
	typ := containingType(tree, id)
	if side == match.Old {
		if partner := p.m.Partner(match.Old, typ); partner != syntax.NoNode {
			return typeSymbol(p.new, match.New, partner)
		}
	}
	return typeSymbol(tree, side, typ)
}

func (p *projector) global(d Declaration) {
	hasOld := len(p.old.FindByKind(d.OldRoot, syntax.KindGlobalStatement)) > 0
	hasNew := len(p.new.FindByKind(d.NewRoot, syntax.KindGlobalStatement)) > 0

	entry := Symbol{Kind: SymbolEntryPoint, Name: entryPointName, Type: entryPointType, Signature: "(string[])"}
	program := Symbol{Kind: SymbolType, Name: entryPointType}
	src := source{old: d.OldRoot, new: d.NewRoot, global: true}

	switch {
	case hasNew && !hasOld:
		entry.Node, entry.Side = d.NewRoot, match.New
		p.emit(SemanticEdit{Kind: Insert, Symbol: entry, Container: program}, src)
	case hasOld && !hasNew:
		entry.Node, entry.Side = d.OldRoot, match.Old
		p.emit(SemanticEdit{Kind: Delete, Symbol: entry, Container: program}, src)
	case hasOld && hasNew && p.globalChanged():
		entry.Node, entry.Side = d.NewRoot, match.New
		p.emit(SemanticEdit{
			Kind:                   Update,
			Symbol:                 entry,
			Container:              program,
			PreserveLocalVariables: p.preserve(d),
		}, src)
	}
}

func (p *projector) globalChanged() bool {
	inGlobal := func(tree *syntax.Tree, id syntax.NodeID) bool {
		return id != syntax.NoNode && tree.Enclosing(id, func(n syntax.NodeID) bool {
			return tree.Kind(n) == syntax.KindGlobalStatement
		}) != syntax.NoNode
	}
	for _, e := range p.in.Script.Edits() {
		if inGlobal(p.old, e.Old) || inGlobal(p.new, e.New) {
			return true
		}
	}
	return false
}

func (p *projector) inserted(root syntax.NodeID) {
	tree := p.new
	kind := tree.Kind(root)
	src := source{old: syntax.NoNode, new: root}

	switch {
	case kind.IsTypeDeclaration():
		p.emit(SemanticEdit{Kind: Insert, Symbol: typeSymbol(tree, match.New, root), Container: p.container(match.New, root)}, src)
		return
	case kind == syntax.KindConstructorDeclaration:
		return
	}

	node, partial, ok := p.resolvePartial(tree, root)
	if !ok {
		return
	}
	for _, sym := range memberSymbols(tree, match.New, node) {
		p.emit(SemanticEdit{Kind: Insert, Symbol: sym, Container: p.container(match.New, root), Partial: partial}, src)
	}
	if len(initializerText(tree, root)) > 0 {
		p.fanout(match.New, root, src)
	}
}

func (p *projector) deleted(root syntax.NodeID) {
	tree := p.old
	kind := tree.Kind(root)
	src := source{old: root, new: syntax.NoNode}

	switch {
	case kind.IsTypeDeclaration():
		p.emit(SemanticEdit{Kind: Delete, Symbol: typeSymbol(tree, match.Old, root), Container: p.container(match.Old, root)}, src)
		return
	case kind == syntax.KindConstructorDeclaration:
		return
	}

	node, partial, ok := p.resolvePartial(tree, root)
	if !ok {
		return
	}
	for _, sym := range memberSymbols(tree, match.Old, node) {
		p.emit(SemanticEdit{Kind: Delete, Symbol: sym, Container: p.container(match.Old, root), Partial: partial}, src)
	}
	if len(initializerText(tree, root)) > 0 {
		p.fanout(match.Old, root, src)
	}
}

// resolvePartial maps a partial method to its implementation part. ok is
// false for a partial method that has no implementation.
func (p *projector) resolvePartial(tree *syntax.Tree, id syntax.NodeID) (syntax.NodeID, string, bool) {
	partial := partialType(tree, id)
	if partial == "" {
		return id, "", true
	}
	impl := implementation(tree, id)
	return impl, partial, impl != syntax.NoNode
}

func (p *projector) updated(d Declaration) {
	o, n := d.OldRoot, d.NewRoot
	if !p.changed(o, n) {
		return
	}
	src := source{old: o, new: n}

	switch p.new.Kind(n) {
	case syntax.KindMethodDeclaration, syntax.KindDestructorDeclaration:
		p.method(d, src)
	case syntax.KindPropertyDeclaration, syntax.KindIndexerDeclaration:
		p.property(d, src)
	case syntax.KindFieldDeclaration:
		p.field(d, src)
	}
}

func (p *projector) method(d Declaration, src source) {
	oldNode, _, oldOK := p.resolvePartial(p.old, d.OldRoot)
	newNode, partial, newOK := p.resolvePartial(p.new, d.NewRoot)
	if !oldOK || !newOK {
		return
	}
	oldSyms := memberSymbols(p.old, match.Old, oldNode)
	newSyms := memberSymbols(p.new, match.New, newNode)
	if oldSyms[0].String() != newSyms[0].String() {
		p.replace(d, src)
		return
	}
	p.emit(SemanticEdit{
		Kind:                   Update,
		Symbol:                 newSyms[0],
		Container:              p.container(match.New, d.NewRoot),
		PreserveLocalVariables: p.preserve(d),
		Partial:                partial,
	}, src)
}

// replace deletes every old symbol of a declaration and inserts every new
// one. Used when the signature changed.
func (p *projector) replace(d Declaration, src source) {
	oldNode, partial, _ := p.resolvePartial(p.old, d.OldRoot)
	for _, sym := range memberSymbols(p.old, match.Old, oldNode) {
		p.emit(SemanticEdit{Kind: Delete, Symbol: sym, Container: p.container(match.Old, d.OldRoot), Partial: partial}, src)
	}
	newNode, partial, _ := p.resolvePartial(p.new, d.NewRoot)
	for _, sym := range memberSymbols(p.new, match.New, newNode) {
		p.emit(SemanticEdit{Kind: Insert, Symbol: sym, Container: p.container(match.New, d.NewRoot), Partial: partial}, src)
	}
}

func (p *projector) property(d Declaration, src source) {
	o, n := d.OldRoot, d.NewRoot
	oldSyms := memberSymbols(p.old, match.Old, o)
	newSyms := memberSymbols(p.new, match.New, n)
	container := p.container(match.New, n)

	if !maps.Equal(initializerText(p.old, o), initializerText(p.new, n)) {
		p.fanout(match.New, n, src)
	}
	if oldSyms[0].String() != newSyms[0].String() {
		p.replace(d, src)
		return
	}

	oldAccessors := make(map[string]Symbol, len(oldSyms)-1)
	for _, sym := range oldSyms[1:] {
		oldAccessors[sym.Name] = sym
	}
	preserve := p.preserve(d)
	for _, sym := range newSyms[1:] {
		prev, ok := oldAccessors[sym.Name]
		delete(oldAccessors, sym.Name)
		switch {
		case !ok:
			p.emit(SemanticEdit{Kind: Insert, Symbol: sym, Container: container}, src)
		case p.old.Text(prev.Node) != p.new.Text(sym.Node):
			p.emit(SemanticEdit{Kind: Update, Symbol: sym, Container: container, PreserveLocalVariables: preserve}, src)
		}
	}
	for _, sym := range oldSyms[1:] {
		if _, gone := oldAccessors[sym.Name]; gone {
			p.emit(SemanticEdit{Kind: Delete, Symbol: sym, Container: container}, src)
		}
	}
}

func (p *projector) field(d Declaration, src source) {
	o, n := d.OldRoot, d.NewRoot
	oldSyms := memberSymbols(p.old, match.Old, o)
	newSyms := memberSymbols(p.new, match.New, n)
	container := p.container(match.New, n)

	if !maps.Equal(initializerText(p.old, o), initializerText(p.new, n)) {
		p.fanout(match.New, n, src)
	}

	oldByName := make(map[string]Symbol, len(oldSyms))
	for _, sym := range oldSyms {
		oldByName[sym.Name] = sym
	}
	for _, sym := range newSyms {
		prev, ok := oldByName[sym.Name]
		delete(oldByName, sym.Name)
		switch {
		case !ok:
			p.emit(SemanticEdit{Kind: Insert, Symbol: sym, Container: container}, src)
		case prev.Signature != sym.Signature:
			p.emit(SemanticEdit{Kind: Delete, Symbol: prev, Container: container}, src)
			p.emit(SemanticEdit{Kind: Insert, Symbol: sym, Container: container}, src)
		case p.new.HasModifier(n, "const") && p.old.Text(prev.Node) != p.new.Text(sym.Node):
			p.emit(SemanticEdit{Kind: Update, Symbol: sym, Container: container}, src)
		}
	}
	for _, sym := range oldSyms {
		if _, gone := oldByName[sym.Name]; gone {
			p.emit(SemanticEdit{Kind: Delete, Symbol: sym, Container: container}, src)
		}
	}
}

// fanout records that the constructors of the member's type must be
// recompiled because a member initializer changed.
func (p *projector) fanout(side match.Side, member syntax.NodeID, src source) {
	tree := p.m.Tree(side)
	typ := containingType(tree, member)
	if side == match.Old {
		typ = p.m.Partner(match.Old, typ)
	}
	if typ == syntax.NoNode {
		return
	}
	f, ok := p.fanouts[typ]
	if !ok {
		f = &fanout{}
		p.fanouts[typ] = f
	}
	if tree.HasModifier(member, "static") {
		f.static = true
	} else {
		f.instance = true
	}
	f.sources = append(f.sources, src)
}
