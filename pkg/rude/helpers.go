package rude

import (
	"strings"

	"github.com/yaklabco/encheck/pkg/syntax"
)

// OwnNodes returns the nodes of a kind inside fn that do not belong to a
// nested function or type.
func OwnNodes(tree *syntax.Tree, fn syntax.NodeID, kind syntax.Kind) []syntax.NodeID {
	var out []syntax.NodeID
	_ = tree.Walk(fn, func(id syntax.NodeID) error {
		k := tree.Kind(id)
		if id != fn && (k.IsFunction() || k.IsTypeDeclaration() || k == syntax.KindNamespaceDeclaration) {
			return syntax.SkipChildren
		}
		if k == kind {
			out = append(out, id)
		}
		return nil
	})
	return out
}

// HasOwn reports whether fn directly contains a node of the kind.
func HasOwn(tree *syntax.Tree, fn syntax.NodeID, kind syntax.Kind) bool {
	return len(OwnNodes(tree, fn, kind)) > 0
}

// InGenericContext reports whether id or one of its ancestors declares type
// parameters.
func InGenericContext(tree *syntax.Tree, id syntax.NodeID) bool {
	return tree.Enclosing(id, func(n syntax.NodeID) bool {
		return tree.ChildOfKind(n, syntax.KindTypeParameterList) != syntax.NoNode
	}) != syntax.NoNode
}

// StateMachine reports whether a body owner compiles to an async or an
// iterator state machine. Top-level code is async when it awaits.
func StateMachine(tree *syntax.Tree, fn syntax.NodeID) (async, iterator bool) {
	async = tree.HasModifier(fn, "async")
	if tree.Kind(fn) == syntax.KindCompilationUnit {
		async = HasOwn(tree, fn, syntax.KindAwaitExpression)
	}
	iterator = HasOwn(tree, fn, syntax.KindYieldReturnStatement) ||
		HasOwn(tree, fn, syntax.KindYieldBreakStatement)
	return async, iterator
}

// AttributeText renders the attribute lists of a declaration and of its
// parameters.
func AttributeText(tree *syntax.Tree, id syntax.NodeID) string {
	var parts []string
	for _, list := range tree.ChildrenOfKind(id, syntax.KindAttributeList) {
		parts = append(parts, tree.Text(list))
	}
	for _, p := range tree.Parameters(id) {
		for _, list := range tree.ChildrenOfKind(p, syntax.KindAttributeList) {
			parts = append(parts, tree.Token(p)+":"+tree.Text(list))
		}
	}
	return strings.Join(parts, ";")
}

// ReturnType returns the declared return type text, or "" when the
// function does not declare one.
func ReturnType(tree *syntax.Tree, fn syntax.NodeID) string {
	if typ := tree.TypeChild(fn); typ != syntax.NoNode {
		return tree.Text(typ)
	}
	return ""
}

// DisplayName describes a declaration or function for messages.
func DisplayName(tree *syntax.Tree, id syntax.NodeID) string {
	name := tree.Token(id)
	switch kind := tree.Kind(id); kind {
	case syntax.KindLambdaExpression:
		return "lambda"
	case syntax.KindAnonymousMethodExpression:
		return "anonymous method"
	case syntax.KindLocalFunctionStatement:
		return "local function '" + name + "'"
	case syntax.KindMethodDeclaration:
		return "method '" + name + "'"
	case syntax.KindConstructorDeclaration:
		return "constructor '" + name + "'"
	case syntax.KindDestructorDeclaration:
		return "destructor '" + name + "'"
	case syntax.KindPropertyDeclaration:
		return "property '" + name + "'"
	case syntax.KindIndexerDeclaration:
		return "indexer"
	case syntax.KindAccessorDeclaration:
		return "accessor '" + name + "'"
	case syntax.KindFieldDeclaration:
		decl := tree.ChildOfKind(id, syntax.KindVariableDeclaration)
		names := make([]string, 0, 1)
		for _, d := range tree.ChildrenOfKind(decl, syntax.KindVariableDeclarator) {
			names = append(names, tree.Token(d))
		}
		return "field '" + strings.Join(names, ", ") + "'"
	case syntax.KindClassDeclaration:
		return "class '" + name + "'"
	case syntax.KindStructDeclaration:
		return "struct '" + name + "'"
	case syntax.KindRecordDeclaration:
		return "record '" + name + "'"
	case syntax.KindInterfaceDeclaration:
		return "interface '" + name + "'"
	case syntax.KindCompilationUnit:
		return "top-level code"
	default:
		return kind.String()
	}
}
