package syntax

// Kind classifies a syntax node. The set is closed: every component that
// switches on kinds handles the full enumeration.
type Kind uint16

// Node kinds for declarations, statements, clauses and expressions.
const (
	KindUnknown Kind = iota

	// Declarations.
	KindCompilationUnit
	KindNamespaceDeclaration
	KindClassDeclaration
	KindStructDeclaration
	KindRecordDeclaration
	KindInterfaceDeclaration
	KindMethodDeclaration
	KindConstructorDeclaration
	KindDestructorDeclaration
	KindPropertyDeclaration
	KindIndexerDeclaration
	KindAccessorList
	KindAccessorDeclaration
	KindFieldDeclaration
	KindGlobalStatement
	KindParameterList
	KindParameter
	KindTypeParameterList
	KindTypeParameter
	KindTypeParameterConstraintsClause
	KindAttributeList
	KindAttribute
	KindModifier
	KindArrowExpressionClause
	KindConstructorInitializer
	KindExplicitInterfaceSpecifier
	KindBaseList

	// Statements and clauses.
	KindBlock
	KindLocalDeclarationStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindExpressionStatement
	KindReturnStatement
	KindThrowStatement
	KindIfStatement
	KindElseClause
	KindWhileStatement
	KindDoStatement
	KindForStatement
	KindForEachStatement
	KindSwitchStatement
	KindSwitchSection
	KindCaseSwitchLabel
	KindDefaultSwitchLabel
	KindBreakStatement
	KindContinueStatement
	KindGotoStatement
	KindLabeledStatement
	KindTryStatement
	KindCatchClause
	KindCatchDeclaration
	KindCatchFilterClause
	KindFinallyClause
	KindUsingStatement
	KindLockStatement
	KindFixedStatement
	KindCheckedStatement
	KindUnsafeStatement
	KindYieldReturnStatement
	KindYieldBreakStatement
	KindEmptyStatement
	KindLocalFunctionStatement

	// Types and names.
	KindIdentifierName
	KindGenericName
	KindQualifiedName
	KindPredefinedType
	KindArrayType
	KindNullableType
	KindRefType
	KindTupleType

	// Expressions.
	KindLiteral
	KindInvocationExpression
	KindArgumentList
	KindArgument
	KindMemberAccessExpression
	KindElementAccessExpression
	KindAssignmentExpression
	KindBinaryExpression
	KindPrefixUnaryExpression
	KindPostfixUnaryExpression
	KindParenthesizedExpression
	KindConditionalExpression
	KindCastExpression
	KindObjectCreationExpression
	KindArrayCreationExpression
	KindInitializerExpression
	KindThisExpression
	KindBaseExpression
	KindLambdaExpression
	KindAnonymousMethodExpression
	KindAwaitExpression
	KindStackAllocExpression
	KindTupleExpression
	KindDeclarationExpression

	// Patterns and designations.
	KindIsPatternExpression
	KindDeclarationPattern
	KindVarPattern
	KindConstantPattern
	KindSingleVariableDesignation
	KindParenthesizedVariableDesignation
	KindDiscardDesignation

	// Query expressions.
	KindQueryExpression
	KindFromClause
	KindLetClause
	KindWhereClause
	KindJoinClause
	KindOrderByClause
	KindSelectClause
	KindGroupClause

	// Fallback for constructs the frontend does not model.
	KindOther

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:                          "Unknown",
	KindCompilationUnit:                  "CompilationUnit",
	KindNamespaceDeclaration:             "NamespaceDeclaration",
	KindClassDeclaration:                 "ClassDeclaration",
	KindStructDeclaration:                "StructDeclaration",
	KindRecordDeclaration:                "RecordDeclaration",
	KindInterfaceDeclaration:             "InterfaceDeclaration",
	KindMethodDeclaration:                "MethodDeclaration",
	KindConstructorDeclaration:           "ConstructorDeclaration",
	KindDestructorDeclaration:            "DestructorDeclaration",
	KindPropertyDeclaration:              "PropertyDeclaration",
	KindIndexerDeclaration:               "IndexerDeclaration",
	KindAccessorList:                     "AccessorList",
	KindAccessorDeclaration:              "AccessorDeclaration",
	KindFieldDeclaration:                 "FieldDeclaration",
	KindGlobalStatement:                  "GlobalStatement",
	KindParameterList:                    "ParameterList",
	KindParameter:                        "Parameter",
	KindTypeParameterList:                "TypeParameterList",
	KindTypeParameter:                    "TypeParameter",
	KindTypeParameterConstraintsClause:   "TypeParameterConstraintsClause",
	KindAttributeList:                    "AttributeList",
	KindAttribute:                        "Attribute",
	KindModifier:                         "Modifier",
	KindArrowExpressionClause:            "ArrowExpressionClause",
	KindConstructorInitializer:           "ConstructorInitializer",
	KindExplicitInterfaceSpecifier:       "ExplicitInterfaceSpecifier",
	KindBaseList:                         "BaseList",
	KindBlock:                            "Block",
	KindLocalDeclarationStatement:        "LocalDeclarationStatement",
	KindVariableDeclaration:              "VariableDeclaration",
	KindVariableDeclarator:               "VariableDeclarator",
	KindExpressionStatement:              "ExpressionStatement",
	KindReturnStatement:                  "ReturnStatement",
	KindThrowStatement:                   "ThrowStatement",
	KindIfStatement:                      "IfStatement",
	KindElseClause:                       "ElseClause",
	KindWhileStatement:                   "WhileStatement",
	KindDoStatement:                      "DoStatement",
	KindForStatement:                     "ForStatement",
	KindForEachStatement:                 "ForEachStatement",
	KindSwitchStatement:                  "SwitchStatement",
	KindSwitchSection:                    "SwitchSection",
	KindCaseSwitchLabel:                  "CaseSwitchLabel",
	KindDefaultSwitchLabel:               "DefaultSwitchLabel",
	KindBreakStatement:                   "BreakStatement",
	KindContinueStatement:                "ContinueStatement",
	KindGotoStatement:                    "GotoStatement",
	KindLabeledStatement:                 "LabeledStatement",
	KindTryStatement:                     "TryStatement",
	KindCatchClause:                      "CatchClause",
	KindCatchDeclaration:                 "CatchDeclaration",
	KindCatchFilterClause:                "CatchFilterClause",
	KindFinallyClause:                    "FinallyClause",
	KindUsingStatement:                   "UsingStatement",
	KindLockStatement:                    "LockStatement",
	KindFixedStatement:                   "FixedStatement",
	KindCheckedStatement:                 "CheckedStatement",
	KindUnsafeStatement:                  "UnsafeStatement",
	KindYieldReturnStatement:             "YieldReturnStatement",
	KindYieldBreakStatement:              "YieldBreakStatement",
	KindEmptyStatement:                   "EmptyStatement",
	KindLocalFunctionStatement:           "LocalFunctionStatement",
	KindIdentifierName:                   "IdentifierName",
	KindGenericName:                      "GenericName",
	KindQualifiedName:                    "QualifiedName",
	KindPredefinedType:                   "PredefinedType",
	KindArrayType:                        "ArrayType",
	KindNullableType:                     "NullableType",
	KindRefType:                          "RefType",
	KindTupleType:                        "TupleType",
	KindLiteral:                          "Literal",
	KindInvocationExpression:             "InvocationExpression",
	KindArgumentList:                     "ArgumentList",
	KindArgument:                         "Argument",
	KindMemberAccessExpression:           "MemberAccessExpression",
	KindElementAccessExpression:          "ElementAccessExpression",
	KindAssignmentExpression:             "AssignmentExpression",
	KindBinaryExpression:                 "BinaryExpression",
	KindPrefixUnaryExpression:            "PrefixUnaryExpression",
	KindPostfixUnaryExpression:           "PostfixUnaryExpression",
	KindParenthesizedExpression:          "ParenthesizedExpression",
	KindConditionalExpression:            "ConditionalExpression",
	KindCastExpression:                   "CastExpression",
	KindObjectCreationExpression:         "ObjectCreationExpression",
	KindArrayCreationExpression:          "ArrayCreationExpression",
	KindInitializerExpression:            "InitializerExpression",
	KindThisExpression:                   "ThisExpression",
	KindBaseExpression:                   "BaseExpression",
	KindLambdaExpression:                 "LambdaExpression",
	KindAnonymousMethodExpression:        "AnonymousMethodExpression",
	KindAwaitExpression:                  "AwaitExpression",
	KindStackAllocExpression:             "StackAllocExpression",
	KindTupleExpression:                  "TupleExpression",
	KindDeclarationExpression:            "DeclarationExpression",
	KindIsPatternExpression:              "IsPatternExpression",
	KindDeclarationPattern:               "DeclarationPattern",
	KindVarPattern:                       "VarPattern",
	KindConstantPattern:                  "ConstantPattern",
	KindSingleVariableDesignation:        "SingleVariableDesignation",
	KindParenthesizedVariableDesignation: "ParenthesizedVariableDesignation",
	KindDiscardDesignation:               "DiscardDesignation",
	KindQueryExpression:                  "QueryExpression",
	KindFromClause:                       "FromClause",
	KindLetClause:                        "LetClause",
	KindWhereClause:                      "WhereClause",
	KindJoinClause:                       "JoinClause",
	KindOrderByClause:                    "OrderByClause",
	KindSelectClause:                     "SelectClause",
	KindGroupClause:                      "GroupClause",
	KindOther:                            "Other",
}

// String returns the kind name without the Kind prefix.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsFunction reports whether nodes of this kind introduce a nested function
// body that the compiler lowers into a synthesized method.
func (k Kind) IsFunction() bool {
	switch k {
	case KindLambdaExpression, KindAnonymousMethodExpression, KindLocalFunctionStatement:
		return true
	default:
		return false
	}
}

// IsTypeDeclaration reports whether the kind declares a named type.
func (k Kind) IsTypeDeclaration() bool {
	switch k {
	case KindClassDeclaration, KindStructDeclaration, KindRecordDeclaration, KindInterfaceDeclaration:
		return true
	default:
		return false
	}
}

// IsMemberDeclaration reports whether the kind declares a type member that
// owns executable code.
func (k Kind) IsMemberDeclaration() bool {
	switch k {
	case KindMethodDeclaration, KindConstructorDeclaration, KindDestructorDeclaration,
		KindPropertyDeclaration, KindIndexerDeclaration, KindAccessorDeclaration, KindFieldDeclaration:
		return true
	default:
		return false
	}
}

// IsLoop reports whether the kind is a loop statement.
func (k Kind) IsLoop() bool {
	switch k {
	case KindWhileStatement, KindDoStatement, KindForStatement, KindForEachStatement:
		return true
	default:
		return false
	}
}

// IsQueryClause reports whether the kind is a clause of a query expression.
func (k Kind) IsQueryClause() bool {
	switch k {
	case KindFromClause, KindLetClause, KindWhereClause, KindJoinClause,
		KindOrderByClause, KindSelectClause, KindGroupClause:
		return true
	default:
		return false
	}
}

// IsStatement reports whether the kind is a statement.
func (k Kind) IsStatement() bool {
	switch k {
	case KindBlock, KindLocalDeclarationStatement, KindExpressionStatement, KindReturnStatement,
		KindThrowStatement, KindIfStatement, KindWhileStatement, KindDoStatement, KindForStatement,
		KindForEachStatement, KindSwitchStatement, KindBreakStatement, KindContinueStatement,
		KindGotoStatement, KindLabeledStatement, KindTryStatement, KindUsingStatement,
		KindLockStatement, KindFixedStatement, KindCheckedStatement, KindUnsafeStatement,
		KindYieldReturnStatement, KindYieldBreakStatement, KindEmptyStatement,
		KindLocalFunctionStatement:
		return true
	default:
		return false
	}
}

// IsDesignation reports whether the kind is a variable designation.
func (k Kind) IsDesignation() bool {
	switch k {
	case KindSingleVariableDesignation, KindParenthesizedVariableDesignation, KindDiscardDesignation:
		return true
	default:
		return false
	}
}
