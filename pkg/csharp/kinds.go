package csharp

import (
	"strings"

	"github.com/yaklabco/encheck/pkg/syntax"
)

// kinds maps tree-sitter-c-sharp node types onto the syntax model.
// Types missing from the table become KindOther.
var kinds = map[string]syntax.Kind{
	"compilation_unit":                  syntax.KindCompilationUnit,
	"namespace_declaration":             syntax.KindNamespaceDeclaration,
	"file_scoped_namespace_declaration": syntax.KindNamespaceDeclaration,
	"class_declaration":                 syntax.KindClassDeclaration,
	"struct_declaration":                syntax.KindStructDeclaration,
	"record_declaration":                syntax.KindRecordDeclaration,
	"record_struct_declaration":         syntax.KindRecordDeclaration,
	"interface_declaration":             syntax.KindInterfaceDeclaration,
	"method_declaration":                syntax.KindMethodDeclaration,
	"constructor_declaration":           syntax.KindConstructorDeclaration,
	"destructor_declaration":            syntax.KindDestructorDeclaration,
	"property_declaration":              syntax.KindPropertyDeclaration,
	"indexer_declaration":               syntax.KindIndexerDeclaration,
	"accessor_list":                     syntax.KindAccessorList,
	"accessor_declaration":              syntax.KindAccessorDeclaration,
	"field_declaration":                 syntax.KindFieldDeclaration,
	"event_field_declaration":           syntax.KindFieldDeclaration,
	"global_statement":                  syntax.KindGlobalStatement,

	"parameter_list":                    syntax.KindParameterList,
	"bracketed_parameter_list":          syntax.KindParameterList,
	"parameter":                         syntax.KindParameter,
	"type_parameter_list":               syntax.KindTypeParameterList,
	"type_parameter":                    syntax.KindTypeParameter,
	"type_parameter_constraints_clause": syntax.KindTypeParameterConstraintsClause,
	"attribute_list":                    syntax.KindAttributeList,
	"attribute":                         syntax.KindAttribute,
	"modifier":                          syntax.KindModifier,
	"parameter_modifier":                syntax.KindModifier,
	"arrow_expression_clause":           syntax.KindArrowExpressionClause,
	"constructor_initializer":           syntax.KindConstructorInitializer,
	"explicit_interface_specifier":      syntax.KindExplicitInterfaceSpecifier,
	"base_list":                         syntax.KindBaseList,

	"block":                       syntax.KindBlock,
	"local_declaration_statement": syntax.KindLocalDeclarationStatement,
	"variable_declaration":        syntax.KindVariableDeclaration,
	"variable_declarator":         syntax.KindVariableDeclarator,
	"expression_statement":        syntax.KindExpressionStatement,
	"return_statement":            syntax.KindReturnStatement,
	"throw_statement":             syntax.KindThrowStatement,
	"if_statement":                syntax.KindIfStatement,
	"while_statement":             syntax.KindWhileStatement,
	"do_statement":                syntax.KindDoStatement,
	"for_statement":               syntax.KindForStatement,
	"foreach_statement":           syntax.KindForEachStatement,
	"switch_statement":            syntax.KindSwitchStatement,
	"switch_section":              syntax.KindSwitchSection,
	"case_switch_label":           syntax.KindCaseSwitchLabel,
	"case_pattern_switch_label":   syntax.KindCaseSwitchLabel,
	"default_switch_label":        syntax.KindDefaultSwitchLabel,
	"break_statement":             syntax.KindBreakStatement,
	"continue_statement":          syntax.KindContinueStatement,
	"goto_statement":              syntax.KindGotoStatement,
	"labeled_statement":           syntax.KindLabeledStatement,
	"try_statement":               syntax.KindTryStatement,
	"catch_clause":                syntax.KindCatchClause,
	"catch_declaration":           syntax.KindCatchDeclaration,
	"catch_filter_clause":         syntax.KindCatchFilterClause,
	"finally_clause":              syntax.KindFinallyClause,
	"using_statement":             syntax.KindUsingStatement,
	"lock_statement":              syntax.KindLockStatement,
	"fixed_statement":             syntax.KindFixedStatement,
	"checked_statement":           syntax.KindCheckedStatement,
	"unsafe_statement":            syntax.KindUnsafeStatement,
	"empty_statement":             syntax.KindEmptyStatement,
	"local_function_statement":    syntax.KindLocalFunctionStatement,

	"identifier":           syntax.KindIdentifierName,
	"implicit_type":        syntax.KindIdentifierName,
	"generic_name":         syntax.KindGenericName,
	"qualified_name":       syntax.KindQualifiedName,
	"alias_qualified_name": syntax.KindQualifiedName,
	"predefined_type":      syntax.KindPredefinedType,
	"array_type":           syntax.KindArrayType,
	"nullable_type":        syntax.KindNullableType,
	"ref_type":             syntax.KindRefType,
	"tuple_type":           syntax.KindTupleType,

	"interpolated_string_expression":      syntax.KindLiteral,
	"invocation_expression":               syntax.KindInvocationExpression,
	"argument_list":                       syntax.KindArgumentList,
	"bracketed_argument_list":             syntax.KindArgumentList,
	"argument":                            syntax.KindArgument,
	"member_access_expression":            syntax.KindMemberAccessExpression,
	"element_access_expression":           syntax.KindElementAccessExpression,
	"assignment_expression":               syntax.KindAssignmentExpression,
	"binary_expression":                   syntax.KindBinaryExpression,
	"prefix_unary_expression":             syntax.KindPrefixUnaryExpression,
	"postfix_unary_expression":            syntax.KindPostfixUnaryExpression,
	"parenthesized_expression":            syntax.KindParenthesizedExpression,
	"conditional_expression":              syntax.KindConditionalExpression,
	"cast_expression":                     syntax.KindCastExpression,
	"object_creation_expression":          syntax.KindObjectCreationExpression,
	"implicit_object_creation_expression": syntax.KindObjectCreationExpression,
	"array_creation_expression":           syntax.KindArrayCreationExpression,
	"implicit_array_creation_expression":  syntax.KindArrayCreationExpression,
	"initializer_expression":              syntax.KindInitializerExpression,
	"this_expression":                     syntax.KindThisExpression,
	"this":                                syntax.KindThisExpression,
	"base_expression":                     syntax.KindBaseExpression,
	"base":                                syntax.KindBaseExpression,
	"lambda_expression":                   syntax.KindLambdaExpression,
	"anonymous_method_expression":         syntax.KindAnonymousMethodExpression,
	"await_expression":                    syntax.KindAwaitExpression,

	"stackalloc_array_creation_expression":          syntax.KindStackAllocExpression,
	"stackalloc_expression":                         syntax.KindStackAllocExpression,
	"implicit_stackalloc_array_creation_expression": syntax.KindStackAllocExpression,
	"implicit_stackalloc_expression":                syntax.KindStackAllocExpression,

	"tuple_expression":       syntax.KindTupleExpression,
	"declaration_expression": syntax.KindDeclarationExpression,

	"is_pattern_expression":              syntax.KindIsPatternExpression,
	"declaration_pattern":                syntax.KindDeclarationPattern,
	"var_pattern":                        syntax.KindVarPattern,
	"constant_pattern":                   syntax.KindConstantPattern,
	"single_variable_designation":        syntax.KindSingleVariableDesignation,
	"parenthesized_variable_designation": syntax.KindParenthesizedVariableDesignation,
	"discard":                            syntax.KindDiscardDesignation,

	"query_expression": syntax.KindQueryExpression,
	"from_clause":      syntax.KindFromClause,
	"let_clause":       syntax.KindLetClause,
	"where_clause":     syntax.KindWhereClause,
	"join_clause":      syntax.KindJoinClause,
	"order_by_clause":  syntax.KindOrderByClause,
	"select_clause":    syntax.KindSelectClause,
	"group_clause":     syntax.KindGroupClause,
}

// keywords is the fixed token of kinds distinguished by a keyword.
var keywords = map[syntax.Kind]string{
	syntax.KindReturnStatement:           "return",
	syntax.KindThrowStatement:            "throw",
	syntax.KindIfStatement:               "if",
	syntax.KindElseClause:                "else",
	syntax.KindWhileStatement:            "while",
	syntax.KindDoStatement:               "do",
	syntax.KindForStatement:              "for",
	syntax.KindSwitchStatement:           "switch",
	syntax.KindCaseSwitchLabel:           "case",
	syntax.KindDefaultSwitchLabel:        "default",
	syntax.KindBreakStatement:            "break",
	syntax.KindContinueStatement:         "continue",
	syntax.KindGotoStatement:             "goto",
	syntax.KindTryStatement:              "try",
	syntax.KindCatchClause:               "catch",
	syntax.KindCatchFilterClause:         "when",
	syntax.KindFinallyClause:             "finally",
	syntax.KindUsingStatement:            "using",
	syntax.KindLockStatement:             "lock",
	syntax.KindFixedStatement:            "fixed",
	syntax.KindUnsafeStatement:           "unsafe",
	syntax.KindYieldReturnStatement:      "yield",
	syntax.KindYieldBreakStatement:       "yield",
	syntax.KindIndexerDeclaration:        "this",
	syntax.KindLambdaExpression:          "=>",
	syntax.KindAnonymousMethodExpression: "delegate",
	syntax.KindAwaitExpression:           "await",
	syntax.KindStackAllocExpression:      "stackalloc",
	syntax.KindObjectCreationExpression:  "new",
	syntax.KindArrayCreationExpression:   "new",
	syntax.KindThisExpression:            "this",
	syntax.KindBaseExpression:            "base",
	syntax.KindWhereClause:               "where",
	syntax.KindSelectClause:              "select",
	syntax.KindGroupClause:               "group",
	syntax.KindOrderByClause:             "orderby",
}

// leaves take their source text as token and drop their children.
var leaves = map[syntax.Kind]bool{
	syntax.KindIdentifierName:            true,
	syntax.KindQualifiedName:             true,
	syntax.KindPredefinedType:            true,
	syntax.KindModifier:                  true,
	syntax.KindLiteral:                   true,
	syntax.KindSingleVariableDesignation: true,
	syntax.KindDiscardDesignation:        true,
}

// named kinds carry their declared name as token. The name child is not
// converted.
var named = map[syntax.Kind]bool{
	syntax.KindNamespaceDeclaration:       true,
	syntax.KindClassDeclaration:           true,
	syntax.KindStructDeclaration:          true,
	syntax.KindRecordDeclaration:          true,
	syntax.KindInterfaceDeclaration:       true,
	syntax.KindMethodDeclaration:          true,
	syntax.KindConstructorDeclaration:     true,
	syntax.KindDestructorDeclaration:      true,
	syntax.KindPropertyDeclaration:        true,
	syntax.KindAccessorDeclaration:        true,
	syntax.KindParameter:                  true,
	syntax.KindTypeParameter:              true,
	syntax.KindVariableDeclarator:         true,
	syntax.KindLocalFunctionStatement:     true,
	syntax.KindCatchDeclaration:           true,
	syntax.KindAttribute:                  true,
	syntax.KindExplicitInterfaceSpecifier: true,
	syntax.KindGenericName:                true,
}

// operators take the operator text as token.
var operators = map[syntax.Kind]bool{
	syntax.KindAssignmentExpression:   true,
	syntax.KindBinaryExpression:       true,
	syntax.KindPrefixUnaryExpression:  true,
	syntax.KindPostfixUnaryExpression: true,
}

// skipped node types carry nothing the classifier reads.
var skipped = map[string]bool{
	"comment":                true,
	"using_directive":        true,
	"extern_alias_directive": true,
	"shebang_directive":      true,
}

// flattened node types are replaced by their children.
var flattened = map[string]bool{
	"declaration_list":             true,
	"switch_body":                  true,
	"equals_value_clause":          true,
	"type_argument_list":           true,
	"parenthesized_type":           true,
	"enum_member_declaration_list": true,
}

func kindOf(typ string) syntax.Kind {
	if k, ok := kinds[typ]; ok {
		return k
	}
	if strings.HasSuffix(typ, "_literal") {
		return syntax.KindLiteral
	}
	return syntax.KindOther
}

// collapse folds whitespace runs so multi-line names compare equal.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
