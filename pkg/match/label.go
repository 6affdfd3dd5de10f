package match

import (
	"strings"

	"github.com/yaklabco/encheck/pkg/syntax"
)

// Label groups node kinds that may be matched with each other. Nodes with
// LabelIgnored are not matched individually; they are content of their
// nearest labeled ancestor.
type Label uint8

// Labels in processing order. Labels of nodes that are tied to their parent
// come after every label such a parent can carry.
const (
	LabelIgnored Label = iota

	LabelCompilationUnit
	LabelNamespace
	LabelTypeDeclaration
	LabelMethod
	LabelConstructor
	LabelProperty
	LabelField

	LabelLocalDeclaration
	LabelExpressionStatement
	LabelJump
	LabelIf
	LabelLoop
	LabelSwitch
	LabelSwitchSection
	LabelTry
	LabelResource
	LabelLabeled
	LabelFunction
	LabelQuery
	LabelNestedBlock

	// Tied to their labeled parent.
	LabelAccessor
	LabelElse
	LabelCatch
	LabelFinally
	LabelBodyBlock
	LabelDeclarator
	LabelQueryClause
	LabelDesignation

	labelCount
)

var labelNames = [labelCount]string{
	LabelIgnored:             "Ignored",
	LabelCompilationUnit:     "CompilationUnit",
	LabelNamespace:           "Namespace",
	LabelTypeDeclaration:     "TypeDeclaration",
	LabelMethod:              "Method",
	LabelConstructor:         "Constructor",
	LabelProperty:            "Property",
	LabelField:               "Field",
	LabelLocalDeclaration:    "LocalDeclaration",
	LabelExpressionStatement: "ExpressionStatement",
	LabelJump:                "Jump",
	LabelIf:                  "If",
	LabelLoop:                "Loop",
	LabelSwitch:              "Switch",
	LabelSwitchSection:       "SwitchSection",
	LabelTry:                 "Try",
	LabelResource:            "Resource",
	LabelLabeled:             "Labeled",
	LabelFunction:            "Function",
	LabelQuery:               "Query",
	LabelNestedBlock:         "NestedBlock",
	LabelAccessor:            "Accessor",
	LabelElse:                "Else",
	LabelCatch:               "Catch",
	LabelFinally:             "Finally",
	LabelBodyBlock:           "BodyBlock",
	LabelDeclarator:          "Declarator",
	LabelQueryClause:         "QueryClause",
	LabelDesignation:         "Designation",
}

func (l Label) String() string {
	if l < labelCount {
		return labelNames[l]
	}
	return "Label(?)"
}

// Tied reports whether nodes with this label only match inside the partner
// of their labeled parent.
func (l Label) Tied() bool {
	return l >= LabelAccessor && l < labelCount
}

// IsDeclarationLevel reports whether the label belongs to member or type
// structure rather than to executable code.
func (l Label) IsDeclarationLevel() bool {
	switch l {
	case LabelCompilationUnit, LabelNamespace, LabelTypeDeclaration, LabelMethod,
		LabelConstructor, LabelProperty, LabelField, LabelAccessor:
		return true
	default:
		return false
	}
}

// LabelOf classifies a node of the tree.
func LabelOf(tree *syntax.Tree, id syntax.NodeID) Label {
	switch tree.Kind(id) {
	case syntax.KindCompilationUnit:
		return LabelCompilationUnit
	case syntax.KindNamespaceDeclaration:
		return LabelNamespace
	case syntax.KindClassDeclaration, syntax.KindStructDeclaration,
		syntax.KindRecordDeclaration, syntax.KindInterfaceDeclaration:
		return LabelTypeDeclaration
	case syntax.KindMethodDeclaration, syntax.KindDestructorDeclaration:
		return LabelMethod
	case syntax.KindConstructorDeclaration:
		return LabelConstructor
	case syntax.KindPropertyDeclaration, syntax.KindIndexerDeclaration:
		return LabelProperty
	case syntax.KindFieldDeclaration:
		return LabelField
	case syntax.KindAccessorDeclaration:
		return LabelAccessor

	case syntax.KindLocalDeclarationStatement:
		return LabelLocalDeclaration
	case syntax.KindExpressionStatement, syntax.KindEmptyStatement:
		return LabelExpressionStatement
	case syntax.KindReturnStatement, syntax.KindThrowStatement, syntax.KindBreakStatement,
		syntax.KindContinueStatement, syntax.KindGotoStatement, syntax.KindYieldReturnStatement,
		syntax.KindYieldBreakStatement:
		return LabelJump
	case syntax.KindIfStatement:
		return LabelIf
	case syntax.KindElseClause:
		return LabelElse
	case syntax.KindWhileStatement, syntax.KindDoStatement, syntax.KindForStatement, syntax.KindForEachStatement:
		return LabelLoop
	case syntax.KindSwitchStatement:
		return LabelSwitch
	case syntax.KindSwitchSection:
		return LabelSwitchSection
	case syntax.KindTryStatement:
		return LabelTry
	case syntax.KindCatchClause:
		return LabelCatch
	case syntax.KindFinallyClause:
		return LabelFinally
	case syntax.KindUsingStatement, syntax.KindLockStatement, syntax.KindFixedStatement,
		syntax.KindCheckedStatement, syntax.KindUnsafeStatement:
		return LabelResource
	case syntax.KindLabeledStatement:
		return LabelLabeled
	case syntax.KindLambdaExpression, syntax.KindAnonymousMethodExpression, syntax.KindLocalFunctionStatement:
		return LabelFunction
	case syntax.KindQueryExpression:
		return LabelQuery
	case syntax.KindFromClause, syntax.KindLetClause, syntax.KindWhereClause, syntax.KindJoinClause,
		syntax.KindOrderByClause, syntax.KindSelectClause, syntax.KindGroupClause:
		return LabelQueryClause
	case syntax.KindVariableDeclarator:
		return LabelDeclarator
	case syntax.KindSingleVariableDesignation, syntax.KindParenthesizedVariableDesignation,
		syntax.KindDiscardDesignation:
		return LabelDesignation
	case syntax.KindBlock:
		switch tree.Kind(tree.Parent(id)) {
		case syntax.KindBlock, syntax.KindSwitchSection, syntax.KindGlobalStatement:
			return LabelNestedBlock
		default:
			return LabelBodyBlock
		}
	default:
		return LabelIgnored
	}
}

// kindsCompatible reports whether two nodes sharing a label may match.
// Functions may switch between lambda and local function forms and a
// designation may become a discard; every other label requires equal kinds.
func kindsCompatible(label Label, a, b syntax.Kind) bool {
	switch label {
	case LabelFunction:
		return true
	case LabelDesignation:
		return a == b ||
			(a != syntax.KindParenthesizedVariableDesignation && b != syntax.KindParenthesizedVariableDesignation)
	default:
		return a == b
	}
}

// key returns the identity used by the label-first phase, or "" when the
// node is not keyed.
func key(tree *syntax.Tree, id syntax.NodeID, label Label) string {
	switch label {
	case LabelTypeDeclaration, LabelNamespace:
		return containerPath(tree, id)
	case LabelMethod, LabelConstructor, LabelProperty:
		return containerPath(tree, id) + "(" + tree.ParameterShape(id) + ")"
	case LabelField:
		names := make([]string, 0, 1)
		decl := tree.ChildOfKind(id, syntax.KindVariableDeclaration)
		for _, d := range tree.ChildrenOfKind(decl, syntax.KindVariableDeclarator) {
			names = append(names, tree.Token(d))
		}
		return containerPath(tree, tree.Parent(id)) + ".{" + strings.Join(names, ",") + "}"
	case LabelFunction:
		if tree.Kind(id) == syntax.KindLocalFunctionStatement {
			return "local:" + tree.Token(id)
		}
	case LabelLabeled:
		return "label:" + tree.Token(id)
	}
	return ""
}

func containerPath(tree *syntax.Tree, id syntax.NodeID) string {
	var parts []string
	for cur := id; cur != syntax.NoNode; cur = tree.Parent(cur) {
		k := tree.Kind(cur)
		if k.IsTypeDeclaration() || k.IsMemberDeclaration() || k == syntax.KindNamespaceDeclaration {
			parts = append(parts, k.String()+":"+tree.Token(cur))
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
