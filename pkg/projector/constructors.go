package projector

import (
	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
)

type ctorForm uint8

const (
	ctorExplicit ctorForm = iota
	ctorPrimary
	ctorImplicit
)

// ctor is a constructor of one version of a type. Primary and implicit
// constructors are represented by the type declaration itself.
type ctor struct {
	form    ctorForm
	node    syntax.NodeID
	static  bool
	chained bool
	key     string
	symbol  Symbol
}

// ctors lists the constructors a type compiles to, including the implicit
// ones the compiler synthesizes.
func ctors(tree *syntax.Tree, side match.Side, typ syntax.NodeID) []ctor {
	owner := qualifiedName(tree, typ)
	var out []ctor
	var hasInstance, hasStatic bool

	add := func(form ctorForm, node syntax.NodeID, static bool, shape string) {
		c := ctor{form: form, node: node, static: static}
		c.symbol = constructorSymbol(owner, static, shape, node, side)
		c.key = c.symbol.Name + c.symbol.Signature
		if form == ctorExplicit {
			init := tree.ChildOfKind(node, syntax.KindConstructorInitializer)
			c.chained = init != syntax.NoNode && tree.Token(init) == "this"
		}
		out = append(out, c)
	}

	if tree.ChildOfKind(typ, syntax.KindParameterList) != syntax.NoNode {
		add(ctorPrimary, typ, false, tree.ParameterShape(typ))
		hasInstance = true
	}
	for _, c := range tree.ChildrenOfKind(typ, syntax.KindConstructorDeclaration) {
		static := tree.HasModifier(c, "static")
		add(ctorExplicit, c, static, tree.ParameterShape(c))
		if static {
			hasStatic = true
		} else {
			hasInstance = true
		}
	}
	if !hasInstance && tree.Kind(typ) != syntax.KindInterfaceDeclaration && !tree.HasModifier(typ, "static") {
		add(ctorImplicit, typ, false, "")
	}
	if !hasStatic && hasStaticInitializer(tree, typ) {
		add(ctorImplicit, typ, true, "")
	}
	return out
}

func hasStaticInitializer(tree *syntax.Tree, typ syntax.NodeID) bool {
	for _, member := range tree.Children(typ) {
		switch tree.Kind(member) {
		case syntax.KindFieldDeclaration, syntax.KindPropertyDeclaration:
			if tree.HasModifier(member, "static") && len(initializerText(tree, member)) > 0 {
				return true
			}
		}
	}
	return false
}

// constructors pairs the constructors of every matched type by signature
// and emits their edits, including the updates member initializer changes
// fan out to.
func (p *projector) constructors() {
	for _, n := range p.new.FindAll(p.new.Root(), func(id syntax.NodeID) bool {
		return p.new.Kind(id).IsTypeDeclaration()
	}) {
		if o := p.m.Partner(match.New, n); o != syntax.NoNode {
			p.constructorPair(o, n)
		}
	}
}

func (p *projector) constructorPair(o, n syntax.NodeID) {
	container := typeSymbol(p.new, match.New, n)
	f := p.fanouts[n]

	olds := ctors(p.old, match.Old, o)
	unpaired := make(map[string]ctor, len(olds))
	for _, c := range olds {
		unpaired[c.key] = c
	}

	for _, c := range ctors(p.new, match.New, n) {
		prev, ok := unpaired[c.key]
		delete(unpaired, c.key)
		if !ok {
			p.emit(SemanticEdit{Kind: Insert, Symbol: c.symbol, Container: container}, ctorSource(p.old, p.new, nil, &c))
			continue
		}

		targeted := f.targets(c)
		if !targeted && !p.ctorChanged(prev, c) {
			continue
		}
		sources := []source{ctorSource(p.old, p.new, &prev, &c)}
		if targeted {
			sources = append(sources, f.sources...)
		}
		p.emit(SemanticEdit{
			Kind:                   Update,
			Symbol:                 c.symbol,
			Container:              container,
			PreserveLocalVariables: c.form == ctorExplicit && capturing(p.captures[c.node]),
		}, sources...)
	}

	for _, c := range olds {
		if _, gone := unpaired[c.key]; gone {
			p.emit(SemanticEdit{Kind: Delete, Symbol: c.symbol, Container: container},
				ctorSource(p.old, p.new, &c, nil))
		}
	}
}

// ctorSource limits blocking to the constructor's own syntax. Primary
// constructors contribute their parameter list; implicit ones nothing.
func ctorSource(oldTree, newTree *syntax.Tree, prev, c *ctor) source {
	return source{old: ctorSyntax(oldTree, prev), new: ctorSyntax(newTree, c)}
}

func ctorSyntax(tree *syntax.Tree, c *ctor) syntax.NodeID {
	if c == nil {
		return syntax.NoNode
	}
	if c.form == ctorExplicit {
		return c.node
	}
	return tree.ChildOfKind(c.node, syntax.KindParameterList)
}

func (p *projector) ctorChanged(o, n ctor) bool {
	if o.form != n.form {
		return true
	}
	switch n.form {
	case ctorExplicit:
		return p.old.Text(o.node) != p.new.Text(n.node)
	case ctorPrimary:
		return p.old.Text(p.old.ChildOfKind(o.node, syntax.KindParameterList)) !=
			p.new.Text(p.new.ChildOfKind(n.node, syntax.KindParameterList))
	default:
		return false
	}
}

// targets reports whether an initializer change reaches the constructor.
// Constructors that chain to another constructor of the same type do not
// run initializers.
func (f *fanout) targets(c ctor) bool {
	if f == nil {
		return false
	}
	if c.static {
		return f.static
	}
	return f.instance && !c.chained
}
