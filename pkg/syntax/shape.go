package syntax

import "strings"

// Shape conventions shared by every frontend and by the syntaxtest helpers.
//
// Named constructs carry their name in Token and do not repeat it as an
// IdentifierName child: type, method, constructor, property, accessor,
// parameter, type parameter, declarator, designation and local function
// nodes. Keywords and operators that distinguish otherwise identical shapes
// are stored as Token too ("return", "case", "=>", "+=", "await",
// "stackalloc", "ref").
//
// Child layouts:
//
//	TypeDeclaration      AttributeList* Modifier* TypeParameterList? ParameterList? BaseList? Constraints* member*
//	MethodDeclaration    AttributeList* Modifier* type ExplicitInterfaceSpecifier? TypeParameterList? ParameterList Constraints* (Block|ArrowExpressionClause)?
//	ConstructorDecl      AttributeList* Modifier* ParameterList ConstructorInitializer? (Block|ArrowExpressionClause)?
//	PropertyDeclaration  AttributeList* Modifier* type (AccessorList|ArrowExpressionClause) initializer?
//	IndexerDeclaration   AttributeList* Modifier* type ParameterList (AccessorList|ArrowExpressionClause)
//	AccessorDeclaration  AttributeList* Modifier* (Block|ArrowExpressionClause)?
//	FieldDeclaration     AttributeList* Modifier* VariableDeclaration
//	Parameter            AttributeList* Modifier* type? default?
//	LocalFunction        AttributeList* Modifier* type TypeParameterList? ParameterList Constraints* (Block|ArrowExpressionClause)
//	LambdaExpression     AttributeList* Modifier* type? (ParameterList|Parameter) body
//	AnonymousMethod      Modifier* ParameterList? Block
//	LocalDeclaration     Modifier* VariableDeclaration
//	VariableDeclaration  type VariableDeclarator+
//	VariableDeclarator   initializer?
//	SwitchStatement      expression SwitchSection*
//	SwitchSection        (CaseSwitchLabel|DefaultSwitchLabel)+ statement*
//	CatchClause          CatchDeclaration? CatchFilterClause? Block
//	CatchDeclaration     type (Token = variable name, may be empty)
//	ForEachStatement     type expression statement (Token = variable name)
//	GlobalStatement      statement

// IsTypeNode reports whether the kind can appear in a type position.
func (k Kind) IsTypeNode() bool {
	switch k {
	case KindPredefinedType, KindIdentifierName, KindGenericName, KindQualifiedName,
		KindArrayType, KindNullableType, KindRefType, KindTupleType:
		return true
	default:
		return false
	}
}

// Modifiers returns the modifier tokens of a declaration-like node.
func (t *Tree) Modifiers(id NodeID) []string {
	var out []string
	for _, c := range t.Children(id) {
		if t.nodes[c].Kind == KindModifier {
			out = append(out, t.nodes[c].Token)
		}
	}
	return out
}

// HasModifier reports whether the node carries the given modifier.
func (t *Tree) HasModifier(id NodeID, modifier string) bool {
	for _, m := range t.Modifiers(id) {
		if m == modifier {
			return true
		}
	}
	return false
}

// TypeChild returns the first child in a type position, or NoNode.
// Only the declared type slot is considered: modifiers and attributes are
// skipped and the search stops at the first non-type structural child.
func (t *Tree) TypeChild(id NodeID) NodeID {
	for _, c := range t.Children(id) {
		k := t.nodes[c].Kind
		switch {
		case k == KindModifier || k == KindAttributeList:
			continue
		case k.IsTypeNode():
			return c
		default:
			return NoNode
		}
	}
	return NoNode
}

// Body returns the Block or ArrowExpressionClause of a function-like node,
// or the expression body of a lambda. NoNode when there is none.
func (t *Tree) Body(id NodeID) NodeID {
	children := t.Children(id)
	switch t.Kind(id) {
	case KindLambdaExpression:
		if len(children) == 0 {
			return NoNode
		}
		return children[len(children)-1]
	case KindCatchClause, KindFinallyClause, KindAnonymousMethodExpression:
		return t.ChildOfKind(id, KindBlock)
	default:
		if b := t.ChildOfKind(id, KindBlock); b != NoNode {
			return b
		}
		return t.ChildOfKind(id, KindArrowExpressionClause)
	}
}

// Parameters returns the parameter nodes of a function-like node.
func (t *Tree) Parameters(id NodeID) []NodeID {
	if list := t.ChildOfKind(id, KindParameterList); list != NoNode {
		return t.ChildrenOfKind(list, KindParameter)
	}
	if t.Kind(id) == KindLambdaExpression {
		return t.ChildrenOfKind(id, KindParameter)
	}
	return nil
}

// ParameterShape renders parameter types and by-ref modifiers, ignoring
// names: "ref int,string".
func (t *Tree) ParameterShape(id NodeID) string {
	params := t.Parameters(id)
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, t.parameterShape(p))
	}
	return strings.Join(parts, ",")
}

func (t *Tree) parameterShape(p NodeID) string {
	shape := strings.Join(t.Modifiers(p), " ")
	if typ := t.TypeChild(p); typ != NoNode {
		shape = strings.TrimSpace(shape + " " + t.Text(typ))
	}
	return shape
}
