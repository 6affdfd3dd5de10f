package projector

import (
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
)

const (
	entryPointName = "<Main>$"
	entryPointType = "Program"
)

// containingType returns the innermost type declaration strictly enclosing
// id, or NoNode.
func containingType(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	return tree.Enclosing(tree.Parent(id), func(n syntax.NodeID) bool {
		return tree.Kind(n).IsTypeDeclaration()
	})
}

// qualifiedName joins the names of the enclosing namespaces and types of a
// type declaration, outermost first.
func qualifiedName(tree *syntax.Tree, typ syntax.NodeID) string {
	var parts []string
	for cur := typ; cur != syntax.NoNode; cur = tree.Parent(cur) {
		k := tree.Kind(cur)
		if k.IsTypeDeclaration() || k == syntax.KindNamespaceDeclaration {
			parts = append(parts, tree.Token(cur))
		}
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

func typeSymbol(tree *syntax.Tree, side match.Side, typ syntax.NodeID) Symbol {
	if typ == syntax.NoNode {
		return Symbol{}
	}
	return Symbol{Kind: SymbolType, Name: qualifiedName(tree, typ), Node: typ, Side: side}
}

func typeText(tree *syntax.Tree, id syntax.NodeID) string {
	if typ := tree.TypeChild(id); typ != syntax.NoNode {
		return tree.Text(typ)
	}
	return ""
}

func methodSignature(tree *syntax.Tree, id syntax.NodeID) string {
	var b strings.Builder
	if tps := tree.ChildOfKind(id, syntax.KindTypeParameterList); tps != syntax.NoNode {
		b.WriteByte('`')
		b.WriteString(strconv.Itoa(len(tree.ChildrenOfKind(tps, syntax.KindTypeParameter))))
	}
	b.WriteString("(" + tree.ParameterShape(id) + ")")
	if ret := typeText(tree, id); ret != "" {
		b.WriteString(":" + ret)
	}
	return b.String()
}

// memberSymbols returns the symbols a member declaration defines. A
// property or indexer yields itself followed by its accessors; a field
// yields one symbol per declarator.
func memberSymbols(tree *syntax.Tree, side match.Side, id syntax.NodeID) []Symbol {
	owner := qualifiedName(tree, containingType(tree, id))

	switch tree.Kind(id) {
	case syntax.KindMethodDeclaration:
		name := tree.Token(id)
		if spec := tree.ChildOfKind(id, syntax.KindExplicitInterfaceSpecifier); spec != syntax.NoNode {
			name = tree.Token(spec) + "." + name
		}
		return []Symbol{{
			Kind: SymbolMethod, Name: name, Type: owner,
			Signature: methodSignature(tree, id), Node: id, Side: side,
		}}

	case syntax.KindDestructorDeclaration:
		return []Symbol{{Kind: SymbolMethod, Name: "Finalize", Type: owner, Signature: "():void", Node: id, Side: side}}

	case syntax.KindConstructorDeclaration:
		return []Symbol{constructorSymbol(owner, tree.HasModifier(id, "static"), tree.ParameterShape(id), id, side)}

	case syntax.KindPropertyDeclaration, syntax.KindIndexerDeclaration:
		return propertySymbols(tree, side, owner, id)

	case syntax.KindFieldDeclaration:
		decl := tree.ChildOfKind(id, syntax.KindVariableDeclaration)
		sig := ":" + typeText(tree, decl)
		var out []Symbol
		for _, d := range tree.ChildrenOfKind(decl, syntax.KindVariableDeclarator) {
			out = append(out, Symbol{Kind: SymbolField, Name: tree.Token(d), Type: owner, Signature: sig, Node: d, Side: side})
		}
		return out

	default:
		return nil
	}
}

func constructorSymbol(owner string, static bool, shape string, node syntax.NodeID, side match.Side) Symbol {
	name := ".ctor"
	if static {
		name, shape = ".cctor", ""
	}
	return Symbol{Kind: SymbolConstructor, Name: name, Type: owner, Signature: "(" + shape + ")", Node: node, Side: side}
}

func propertySymbols(tree *syntax.Tree, side match.Side, owner string, id syntax.NodeID) []Symbol {
	name, kind := tree.Token(id), SymbolProperty
	typ := typeText(tree, id)
	shape := ""
	sig := ":" + typ
	if tree.Kind(id) == syntax.KindIndexerDeclaration {
		name, kind = "Item", SymbolIndexer
		shape = tree.ParameterShape(id)
		sig = "[" + shape + "]:" + typ
	}

	out := []Symbol{{Kind: kind, Name: name, Type: owner, Signature: sig, Node: id, Side: side}}
	for _, acc := range accessors(tree, id) {
		out = append(out, accessorSymbol(tree, side, owner, name, shape, typ, acc))
	}
	return out
}

// accessors returns the accessor declarations of a property or indexer. An
// expression-bodied member yields its arrow clause as the getter.
func accessors(tree *syntax.Tree, id syntax.NodeID) []syntax.NodeID {
	if arrow := tree.ChildOfKind(id, syntax.KindArrowExpressionClause); arrow != syntax.NoNode {
		return []syntax.NodeID{arrow}
	}
	return tree.ChildrenOfKind(tree.ChildOfKind(id, syntax.KindAccessorList), syntax.KindAccessorDeclaration)
}

func accessorSymbol(tree *syntax.Tree, side match.Side, owner, property, shape, typ string, acc syntax.NodeID) Symbol {
	keyword := "get"
	if tree.Kind(acc) == syntax.KindAccessorDeclaration {
		keyword = tree.Token(acc)
	}

	var sig string
	switch keyword {
	case "get":
		sig = "(" + shape + "):" + typ
	case "set", "init":
		keyword = "set"
		params := typ
		if shape != "" {
			params = shape + "," + typ
		}
		sig = "(" + params + ")"
	default:
		sig = "(" + typ + ")"
	}
	return Symbol{Kind: SymbolAccessor, Name: keyword + "_" + property, Type: owner, Signature: sig, Node: acc, Side: side}
}

// propertyInitializer returns the `= value` of an auto-property, or NoNode.
func propertyInitializer(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	children := tree.Children(id)
	for i, c := range children {
		switch tree.Kind(c) {
		case syntax.KindAccessorList, syntax.KindArrowExpressionClause:
			if i+1 < len(children) {
				return children[i+1]
			}
			return syntax.NoNode
		}
	}
	return syntax.NoNode
}

// declaratorInitializer returns the initializer of a field declarator, or
// NoNode.
func declaratorInitializer(tree *syntax.Tree, d syntax.NodeID) syntax.NodeID {
	if children := tree.Children(d); len(children) > 0 {
		return children[0]
	}
	return syntax.NoNode
}

// initializerText renders every initializer a member contributes to
// constructors, keyed by declarator or property name.
func initializerText(tree *syntax.Tree, id syntax.NodeID) map[string]string {
	out := make(map[string]string)
	switch tree.Kind(id) {
	case syntax.KindPropertyDeclaration:
		if init := propertyInitializer(tree, id); init != syntax.NoNode {
			out[tree.Token(id)] = tree.Text(init)
		}
	case syntax.KindFieldDeclaration:
		if tree.HasModifier(id, "const") {
			return out
		}
		decl := tree.ChildOfKind(id, syntax.KindVariableDeclaration)
		for _, d := range tree.ChildrenOfKind(decl, syntax.KindVariableDeclarator) {
			if init := declaratorInitializer(tree, d); init != syntax.NoNode {
				out[tree.Token(d)] = tree.Text(init)
			}
		}
	}
	return out
}

// partialType returns the qualified type name when id is a partial method,
// or "".
func partialType(tree *syntax.Tree, id syntax.NodeID) string {
	if tree.Kind(id) != syntax.KindMethodDeclaration || !tree.HasModifier(id, "partial") {
		return ""
	}
	return qualifiedName(tree, containingType(tree, id))
}

// implementation returns the part of a partial method that carries the
// body, searching every part of the partial type. NoNode when the method
// is only declared.
func implementation(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	if tree.Body(id) != syntax.NoNode {
		return id
	}
	owner := qualifiedName(tree, containingType(tree, id))
	name, shape := tree.Token(id), tree.ParameterShape(id)
	return tree.FindFirst(tree.Root(), func(n syntax.NodeID) bool {
		return tree.Kind(n) == syntax.KindMethodDeclaration &&
			tree.Token(n) == name &&
			tree.Body(n) != syntax.NoNode &&
			tree.ParameterShape(n) == shape &&
			qualifiedName(tree, containingType(tree, n)) == owner
	})
}
