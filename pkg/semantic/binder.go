package semantic

import (
	"github.com/yaklabco/encheck/pkg/syntax"
)

type scope map[string]Symbol

// binder walks a tree once, maintaining a stack of scopes, and records the
// declaration and reference tables of a LexicalModel.
type binder struct {
	m      *LexicalModel
	tree   *syntax.Tree
	scopes []scope
	types  []syntax.NodeID
}

func (b *binder) push() { b.scopes = append(b.scopes, scope{}) }

func (b *binder) pop() { b.scopes = b.scopes[:len(b.scopes)-1] }

func (b *binder) declare(sym Symbol) {
	if len(b.scopes) == 0 {
		b.push()
	}
	top := b.scopes[len(b.scopes)-1]
	if _, exists := top[sym.Name]; !exists {
		top[sym.Name] = sym
	}
	if sym.Kind != SymbolThis {
		b.m.decls[sym.Decl] = sym
	}
}

func (b *binder) lookup(name string) (Symbol, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if sym, ok := b.scopes[i][name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

func (b *binder) container() syntax.NodeID {
	if len(b.types) == 0 {
		return syntax.NoNode
	}
	return b.types[len(b.types)-1]
}

func (b *binder) visitChildren(id syntax.NodeID) {
	for _, c := range b.tree.Children(id) {
		b.visit(c)
	}
}

func (b *binder) visit(id syntax.NodeID) {
	t := b.tree
	if b.isTypeSlot(id) {
		return
	}

	kind := t.Kind(id)
	switch {
	case kind.IsTypeDeclaration():
		b.visitType(id)

	case kind == syntax.KindCompilationUnit:
		b.push()
		for _, c := range t.Children(id) {
			if t.Kind(c) == syntax.KindGlobalStatement {
				b.predeclareLocalFunctions(c)
			}
		}
		b.visitChildren(id)
		b.pop()

	case kind.IsFunction(), kind == syntax.KindMethodDeclaration, kind == syntax.KindConstructorDeclaration,
		kind == syntax.KindDestructorDeclaration, kind == syntax.KindAccessorDeclaration,
		kind == syntax.KindIndexerDeclaration:
		b.visitFunction(id)

	case kind == syntax.KindBlock, kind == syntax.KindSwitchSection:
		b.push()
		b.predeclareLocalFunctions(id)
		b.visitChildren(id)
		b.pop()

	case kind == syntax.KindForStatement, kind == syntax.KindUsingStatement, kind == syntax.KindFixedStatement,
		kind == syntax.KindCatchClause, kind == syntax.KindQueryExpression, kind == syntax.KindSwitchStatement:
		b.push()
		b.visitChildren(id)
		b.pop()

	case kind == syntax.KindForEachStatement:
		b.push()
		children := t.Children(id)
		for i, c := range children {
			if i == len(children)-1 {
				b.declare(b.local(id, SymbolLocal, t.TypeChild(id)))
			}
			b.visit(c)
		}
		b.pop()

	case kind == syntax.KindVariableDeclarator:
		b.visitChildren(id)
		if sym, ok := b.m.decls[id]; ok && sym.Kind == SymbolField {
			return
		}
		b.declare(b.declaratorSymbol(id))

	case kind == syntax.KindSingleVariableDesignation:
		b.declare(b.designationSymbol(id))

	case kind == syntax.KindCatchDeclaration:
		if t.Token(id) != "" {
			b.declare(b.local(id, SymbolLocal, t.TypeChild(id)))
		}

	case kind == syntax.KindFromClause, kind == syntax.KindLetClause, kind == syntax.KindJoinClause:
		b.visitChildren(id)
		b.declare(Symbol{Kind: SymbolRangeVariable, Name: t.Token(id), Decl: id, Container: b.container()})

	case kind == syntax.KindParameter, kind == syntax.KindTypeParameterList,
		kind == syntax.KindAttributeList, kind == syntax.KindModifier:
		// Declared by the enclosing function.

	case kind == syntax.KindIdentifierName, kind == syntax.KindGenericName:
		if sym, ok := b.lookup(t.Token(id)); ok {
			b.m.refs[id] = sym
		}

	case kind == syntax.KindThisExpression, kind == syntax.KindBaseExpression:
		if sym, ok := b.lookup("this"); ok {
			b.m.refs[id] = sym
		}

	case kind == syntax.KindMemberAccessExpression:
		if children := t.Children(id); len(children) > 0 {
			b.visit(children[0])
		}

	default:
		b.visitChildren(id)
	}
}

// isTypeSlot reports whether the node is a type reference rather than an
// expression.
func (b *binder) isTypeSlot(id syntax.NodeID) bool {
	t := b.tree
	if !t.Kind(id).IsTypeNode() {
		return false
	}
	parent := t.Parent(id)
	switch t.Kind(parent) {
	case syntax.KindObjectCreationExpression, syntax.KindArrayCreationExpression, syntax.KindCastExpression,
		syntax.KindDeclarationExpression, syntax.KindDeclarationPattern, syntax.KindStackAllocExpression:
		return t.IndexInParent(id) == 0
	case syntax.KindCatchDeclaration, syntax.KindArrayType, syntax.KindNullableType, syntax.KindGenericName,
		syntax.KindQualifiedName, syntax.KindRefType, syntax.KindTupleType, syntax.KindBaseList,
		syntax.KindTypeParameterConstraintsClause, syntax.KindExplicitInterfaceSpecifier:
		return true
	case syntax.KindVariableDeclaration, syntax.KindParameter, syntax.KindMethodDeclaration,
		syntax.KindLocalFunctionStatement, syntax.KindPropertyDeclaration, syntax.KindIndexerDeclaration,
		syntax.KindLambdaExpression, syntax.KindForEachStatement:
		return t.TypeChild(parent) == id
	default:
		return false
	}
}

func (b *binder) visitType(id syntax.NodeID) {
	t := b.tree
	b.types = append(b.types, id)
	b.push()

	b.declare(Symbol{Kind: SymbolThis, Name: "this", Type: t.Token(id), Decl: id, Container: id})
	if list := t.ChildOfKind(id, syntax.KindParameterList); list != syntax.NoNode {
		for _, p := range t.ChildrenOfKind(list, syntax.KindParameter) {
			b.declare(b.local(p, SymbolPrimaryConstructorParameter, t.TypeChild(p)))
		}
	}

	for _, member := range t.Children(id) {
		b.declareMember(member)
	}
	for _, member := range t.Children(id) {
		if t.Kind(member) == syntax.KindParameterList {
			continue
		}
		b.visit(member)
	}

	b.pop()
	b.types = b.types[:len(b.types)-1]
}

func (b *binder) declareMember(member syntax.NodeID) {
	t := b.tree
	static := t.HasModifier(member, "static") || t.HasModifier(member, "const")
	sym := Symbol{Name: t.Token(member), Decl: member, Container: b.container(), Static: static}

	switch kind := t.Kind(member); {
	case kind == syntax.KindFieldDeclaration:
		decl := t.ChildOfKind(member, syntax.KindVariableDeclaration)
		typ := t.Text(t.TypeChild(decl))
		for _, d := range t.ChildrenOfKind(decl, syntax.KindVariableDeclarator) {
			b.declare(Symbol{
				Kind: SymbolField, Name: t.Token(d), Type: typ, Decl: d,
				Container: b.container(), Static: static,
			})
		}
		return
	case kind == syntax.KindPropertyDeclaration:
		sym.Kind = SymbolProperty
		sym.Type = t.Text(t.TypeChild(member))
	case kind == syntax.KindMethodDeclaration:
		sym.Kind = SymbolMethod
		sym.Type = t.Text(t.TypeChild(member))
	case kind.IsTypeDeclaration():
		sym.Kind = SymbolType
		sym.Type = sym.Name
		sym.Static = false
	default:
		return
	}
	b.declare(sym)
}

// predeclareLocalFunctions makes local functions visible throughout their
// enclosing block, including before their declaration.
func (b *binder) predeclareLocalFunctions(block syntax.NodeID) {
	t := b.tree
	for _, stmt := range t.Children(block) {
		if t.Kind(stmt) != syntax.KindLocalFunctionStatement {
			continue
		}
		b.declare(Symbol{
			Kind:      SymbolLocalFunction,
			Name:      t.Token(stmt),
			Type:      t.Text(t.TypeChild(stmt)),
			Decl:      stmt,
			Container: b.container(),
			Static:    t.HasModifier(stmt, "static"),
		})
	}
}

func (b *binder) visitFunction(id syntax.NodeID) {
	t := b.tree
	b.push()

	for _, p := range t.Parameters(id) {
		sym := b.local(p, SymbolParameter, t.TypeChild(p))
		if t.Kind(id) == syntax.KindLambdaExpression {
			// Implicitly typed lambda parameters are inferred from the
			// target delegate, which is not modelled.
			sym.Erroneous = false
		}
		b.declare(sym)
	}
	if t.Kind(id) == syntax.KindAccessorDeclaration {
		if tok := t.Token(id); tok == "set" || tok == "init" {
			b.declare(Symbol{
				Kind: SymbolParameter, Name: "value", Type: b.accessorType(id),
				Decl: id, Container: b.container(),
			})
		}
	}

	b.visitChildren(id)
	b.pop()
}

func (b *binder) accessorType(accessor syntax.NodeID) string {
	t := b.tree
	list := t.Parent(accessor)
	return t.Text(t.TypeChild(t.Parent(list)))
}

// local builds a variable symbol whose type comes from a type child. A
// missing type marks the symbol erroneous.
func (b *binder) local(decl syntax.NodeID, kind SymbolKind, typ syntax.NodeID) Symbol {
	sym := Symbol{Kind: kind, Name: b.tree.Token(decl), Decl: decl, Container: b.container()}
	if typ == syntax.NoNode {
		sym.Erroneous = true
		return sym
	}
	sym.Type = b.tree.Text(typ)
	return sym
}

func (b *binder) declaratorSymbol(id syntax.NodeID) Symbol {
	t := b.tree
	decl := t.Parent(id)
	sym := b.local(id, SymbolLocal, t.TypeChild(decl))
	if sym.Type == "var" {
		sym.Type = ""
		if init := t.Children(id); len(init) > 0 {
			sym.Type = b.m.InferType(init[0])
		}
	}
	return sym
}

func (b *binder) designationSymbol(id syntax.NodeID) Symbol {
	t := b.tree
	sym := Symbol{Kind: SymbolLocal, Name: t.Token(id), Decl: id, Container: b.container()}
	for cur := t.Parent(id); cur != syntax.NoNode; cur = t.Parent(cur) {
		switch t.Kind(cur) {
		case syntax.KindParenthesizedVariableDesignation:
			continue
		case syntax.KindDeclarationExpression, syntax.KindDeclarationPattern:
			if typ := t.TypeChild(cur); typ != syntax.NoNode && t.Text(typ) != "var" &&
				t.Parent(id) == cur {
				sym.Type = t.Text(typ)
			}
		}
		break
	}
	return sym
}
