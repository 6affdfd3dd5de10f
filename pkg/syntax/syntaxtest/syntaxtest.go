// Package syntaxtest builds C#-shaped syntax trees for tests without a parser.
//
// The helpers follow the shape conventions documented in package syntax, so
// trees built here are interchangeable with frontend output.
package syntaxtest

import (
	"github.com/yaklabco/encheck/pkg/syntax"
)

// Spec is an alias so callers need only import this package.
type Spec = syntax.Spec

var predefined = map[string]bool{
	"bool": true, "byte": true, "char": true, "decimal": true, "double": true,
	"float": true, "int": true, "long": true, "object": true, "sbyte": true,
	"short": true, "string": true, "uint": true, "ulong": true, "ushort": true,
	"void": true, "nint": true, "nuint": true,
}

// Tree builds a tree from a spec.
func Tree(root Spec) *syntax.Tree {
	return syntax.FromSpec("test.cs", root)
}

// Body wraps statements in a method `void M() { ... }` inside `class C`.
func Body(stmts ...Spec) *syntax.Tree {
	return Tree(Unit(Class("C", Method("M", "void", Params(), Block(stmts...)))))
}

// Unit builds a compilation unit.
func Unit(members ...Spec) Spec {
	return syntax.N(syntax.KindCompilationUnit, members...)
}

// Global wraps a top-level statement.
func Global(stmt Spec) Spec {
	return syntax.N(syntax.KindGlobalStatement, stmt)
}

// Class builds `class name { members }`.
func Class(name string, members ...Spec) Spec {
	return syntax.T(syntax.KindClassDeclaration, name, members...)
}

// GenericClass builds `class name<T...> { members }`.
func GenericClass(name string, typeParams []string, members ...Spec) Spec {
	children := append([]Spec{TypeParams(typeParams...)}, members...)
	return syntax.T(syntax.KindClassDeclaration, name, children...)
}

// PrimaryClass builds `class name(params) { members }`.
func PrimaryClass(name string, params Spec, members ...Spec) Spec {
	children := append([]Spec{params}, members...)
	return syntax.T(syntax.KindClassDeclaration, name, children...)
}

// Partial marks a type or method declaration partial.
func Partial(decl Spec) Spec {
	return withModifiers(decl, "partial")
}

// Method builds `mods ret name(params) body`.
func Method(name, ret string, params, body Spec, mods ...string) Spec {
	children := modifiers(mods)
	children = append(children, Type(ret), params)
	if body.Kind != syntax.KindUnknown {
		children = append(children, body)
	}
	return syntax.T(syntax.KindMethodDeclaration, name, children...)
}

// GenericMethod builds `ret name<T...>(params) body`.
func GenericMethod(name, ret string, typeParams []string, params, body Spec, mods ...string) Spec {
	children := modifiers(mods)
	children = append(children, Type(ret), TypeParams(typeParams...), params, body)
	return syntax.T(syntax.KindMethodDeclaration, name, children...)
}

// Ctor builds a constructor declaration.
func Ctor(name string, params, body Spec, mods ...string) Spec {
	children := modifiers(mods)
	children = append(children, params, body)
	return syntax.T(syntax.KindConstructorDeclaration, name, children...)
}

// ChainedCtor builds a constructor with a `: this(args)` initializer.
func ChainedCtor(name string, params Spec, args []Spec, body Spec) Spec {
	init := syntax.T(syntax.KindConstructorInitializer, "this", Args(args...))
	return syntax.T(syntax.KindConstructorDeclaration, name, params, init, body)
}

// Property builds `type name { accessors }`.
func Property(name, typ string, accessors ...Spec) Spec {
	return syntax.T(syntax.KindPropertyDeclaration, name,
		Type(typ), syntax.N(syntax.KindAccessorList, accessors...))
}

// PropertyInit builds an auto-property with an initializer.
func PropertyInit(name, typ string, init Spec, accessors ...Spec) Spec {
	return syntax.T(syntax.KindPropertyDeclaration, name,
		Type(typ), syntax.N(syntax.KindAccessorList, accessors...), init)
}

// Indexer builds `type this[params] { accessors }`.
func Indexer(typ string, params Spec, accessors ...Spec) Spec {
	return syntax.T(syntax.KindIndexerDeclaration, "this",
		Type(typ), params, syntax.N(syntax.KindAccessorList, accessors...))
}

// Accessor builds `get { ... }`, `set { ... }` or an auto accessor when body
// is omitted.
func Accessor(keyword string, body ...Spec) Spec {
	return syntax.T(syntax.KindAccessorDeclaration, keyword, body...)
}

// Field builds `mods type name = init;`.
func Field(typ string, decl Spec, mods ...string) Spec {
	children := modifiers(mods)
	children = append(children, syntax.N(syntax.KindVariableDeclaration, Type(typ), decl))
	return syntax.N(syntax.KindFieldDeclaration, children...)
}

// Params builds a parameter list.
func Params(ps ...Spec) Spec {
	return syntax.N(syntax.KindParameterList, ps...)
}

// Param builds `mods type name`. An empty type yields an implicitly typed
// lambda parameter.
func Param(typ, name string, mods ...string) Spec {
	children := modifiers(mods)
	if typ != "" {
		children = append(children, Type(typ))
	}
	return syntax.T(syntax.KindParameter, name, children...)
}

// TypeParams builds `<T, U>`.
func TypeParams(names ...string) Spec {
	ps := make([]Spec, 0, len(names))
	for _, n := range names {
		ps = append(ps, syntax.T(syntax.KindTypeParameter, n))
	}
	return syntax.N(syntax.KindTypeParameterList, ps...)
}

// Where builds `where T : constraints`.
func Where(typeParam string, constraints ...string) Spec {
	cs := make([]Spec, 0, len(constraints))
	for _, c := range constraints {
		cs = append(cs, Type(c))
	}
	return syntax.T(syntax.KindTypeParameterConstraintsClause, typeParam, cs...)
}

// Attr builds `[name]`.
func Attr(name string) Spec {
	return syntax.N(syntax.KindAttributeList, syntax.T(syntax.KindAttribute, name))
}

// Type builds a type reference.
func Type(name string) Spec {
	if predefined[name] {
		return syntax.T(syntax.KindPredefinedType, name)
	}
	return syntax.T(syntax.KindIdentifierName, name)
}

// Block builds `{ stmts }`.
func Block(stmts ...Spec) Spec {
	return syntax.N(syntax.KindBlock, stmts...)
}

// Local builds `type d1, d2;`.
func Local(typ string, decls ...Spec) Spec {
	children := append([]Spec{Type(typ)}, decls...)
	return syntax.N(syntax.KindLocalDeclarationStatement, syntax.N(syntax.KindVariableDeclaration, children...))
}

// Var builds a declarator `name = init`.
func Var(name string, init ...Spec) Spec {
	return syntax.T(syntax.KindVariableDeclarator, name, init...)
}

// Expr builds an expression statement.
func Expr(e Spec) Spec {
	return syntax.N(syntax.KindExpressionStatement, e)
}

// Return builds `return e;`.
func Return(e ...Spec) Spec {
	return syntax.T(syntax.KindReturnStatement, "return", e...)
}

// Break builds `break;`.
func Break() Spec {
	return syntax.T(syntax.KindBreakStatement, "break")
}

// YieldReturn builds `yield return e;`.
func YieldReturn(e Spec) Spec {
	return syntax.T(syntax.KindYieldReturnStatement, "yield", e)
}

// If builds `if (cond) then else`.
func If(cond, then Spec, els ...Spec) Spec {
	children := []Spec{cond, then}
	if len(els) > 0 {
		children = append(children, syntax.T(syntax.KindElseClause, "else", els[0]))
	}
	return syntax.T(syntax.KindIfStatement, "if", children...)
}

// While builds `while (cond) body`.
func While(cond, body Spec) Spec {
	return syntax.T(syntax.KindWhileStatement, "while", cond, body)
}

// ForEach builds `foreach (type name in e) body`.
func ForEach(typ, name string, e, body Spec) Spec {
	return syntax.T(syntax.KindForEachStatement, name, Type(typ), e, body)
}

// Using builds `using (decl) body`.
func Using(decl, body Spec) Spec {
	return syntax.T(syntax.KindUsingStatement, "using", decl, body)
}

// Try builds `try block catches finally`.
func Try(block Spec, clauses ...Spec) Spec {
	children := append([]Spec{block}, clauses...)
	return syntax.T(syntax.KindTryStatement, "try", children...)
}

// Catch builds `catch (type name) block`.
func Catch(typ, name string, block Spec) Spec {
	return syntax.T(syntax.KindCatchClause, "catch",
		syntax.T(syntax.KindCatchDeclaration, name, Type(typ)), block)
}

// Finally builds `finally block`.
func Finally(block Spec) Spec {
	return syntax.T(syntax.KindFinallyClause, "finally", block)
}

// Switch builds `switch (e) { sections }`.
func Switch(e Spec, sections ...Spec) Spec {
	children := append([]Spec{e}, sections...)
	return syntax.T(syntax.KindSwitchStatement, "switch", children...)
}

// Section builds a switch section.
func Section(labels []Spec, stmts ...Spec) Spec {
	children := append(append([]Spec{}, labels...), stmts...)
	return syntax.N(syntax.KindSwitchSection, children...)
}

// Case builds `case e:`.
func Case(e Spec) Spec {
	return syntax.T(syntax.KindCaseSwitchLabel, "case", e)
}

// Default builds `default:`.
func Default() Spec {
	return syntax.T(syntax.KindDefaultSwitchLabel, "default")
}

// LocalFunc builds `mods ret name(params) body`.
func LocalFunc(name, ret string, params, body Spec, mods ...string) Spec {
	children := modifiers(mods)
	children = append(children, Type(ret), params, body)
	return syntax.T(syntax.KindLocalFunctionStatement, name, children...)
}

// GenericLocalFunc builds a local function with type parameters and constraints.
func GenericLocalFunc(name, ret string, typeParams []string, params Spec, constraints []Spec, body Spec) Spec {
	children := []Spec{Type(ret), TypeParams(typeParams...), params}
	children = append(children, constraints...)
	children = append(children, body)
	return syntax.T(syntax.KindLocalFunctionStatement, name, children...)
}

// Lambda builds `(params) => body`.
func Lambda(params, body Spec, mods ...string) Spec {
	children := modifiers(mods)
	children = append(children, params, body)
	return syntax.T(syntax.KindLambdaExpression, "=>", children...)
}

// TypedLambda builds `ret (params) => body`.
func TypedLambda(ret string, params, body Spec) Spec {
	return syntax.T(syntax.KindLambdaExpression, "=>", Type(ret), params, body)
}

// AttributedLambda builds `[attr] (params) => body`.
func AttributedLambda(attr string, params, body Spec) Spec {
	return syntax.T(syntax.KindLambdaExpression, "=>", Attr(attr), params, body)
}

// SimpleLambda builds `name => body`.
func SimpleLambda(name string, body Spec) Spec {
	return syntax.T(syntax.KindLambdaExpression, "=>", Param("", name), body)
}

// Delegate builds `delegate (params) { ... }`.
func Delegate(params, block Spec) Spec {
	return syntax.T(syntax.KindAnonymousMethodExpression, "delegate", params, block)
}

// Call builds `callee(args)`.
func Call(callee string, args ...Spec) Spec {
	return syntax.N(syntax.KindInvocationExpression, Id(callee), Args(args...))
}

// CallOn builds `receiver.name(args)`.
func CallOn(receiver Spec, name string, args ...Spec) Spec {
	return syntax.N(syntax.KindInvocationExpression, Member(receiver, name), Args(args...))
}

// Args builds an argument list.
func Args(args ...Spec) Spec {
	wrapped := make([]Spec, 0, len(args))
	for _, a := range args {
		wrapped = append(wrapped, syntax.N(syntax.KindArgument, a))
	}
	return syntax.N(syntax.KindArgumentList, wrapped...)
}

// Member builds `e.name`.
func Member(e Spec, name string) Spec {
	return syntax.N(syntax.KindMemberAccessExpression, e, Id(name))
}

// New builds `new T(args)`.
func New(typ string, args ...Spec) Spec {
	return syntax.T(syntax.KindObjectCreationExpression, "new", Type(typ), Args(args...))
}

// Id builds an identifier reference.
func Id(name string) Spec {
	return syntax.T(syntax.KindIdentifierName, name)
}

// Int builds an integer literal.
func Int(v string) Spec {
	return syntax.T(syntax.KindLiteral, v)
}

// Str builds a string literal.
func Str(v string) Spec {
	return syntax.T(syntax.KindLiteral, `"`+v+`"`)
}

// This builds `this`.
func This() Spec {
	return syntax.T(syntax.KindThisExpression, "this")
}

// Assign builds `lhs op rhs`.
func Assign(lhs Spec, op string, rhs Spec) Spec {
	return syntax.T(syntax.KindAssignmentExpression, op, lhs, rhs)
}

// Binary builds `lhs op rhs`.
func Binary(lhs Spec, op string, rhs Spec) Spec {
	return syntax.T(syntax.KindBinaryExpression, op, lhs, rhs)
}

// Await builds `await e`.
func Await(e Spec) Spec {
	return syntax.T(syntax.KindAwaitExpression, "await", e)
}

// StackAlloc builds `stackalloc T[size]`.
func StackAlloc(elem string, size Spec) Spec {
	return syntax.T(syntax.KindStackAllocExpression, "stackalloc",
		syntax.N(syntax.KindArrayType, Type(elem)), size)
}

// DeclExpr builds `var (designation)`.
func DeclExpr(typ string, designation Spec) Spec {
	return syntax.N(syntax.KindDeclarationExpression, Type(typ), designation)
}

// Designate builds a single variable designation.
func Designate(name string) Spec {
	if name == "_" {
		return syntax.T(syntax.KindDiscardDesignation, "_")
	}
	return syntax.T(syntax.KindSingleVariableDesignation, name)
}

// Designations builds `(a, b)`.
func Designations(items ...Spec) Spec {
	return syntax.N(syntax.KindParenthesizedVariableDesignation, items...)
}

// Tuple builds `(a, b)` as an expression.
func Tuple(items ...Spec) Spec {
	wrapped := make([]Spec, 0, len(items))
	for _, it := range items {
		wrapped = append(wrapped, syntax.N(syntax.KindArgument, it))
	}
	return syntax.N(syntax.KindTupleExpression, wrapped...)
}

// Query builds `from name in source clauses`.
func Query(name string, source Spec, clauses ...Spec) Spec {
	children := append([]Spec{syntax.T(syntax.KindFromClause, name, source)}, clauses...)
	return syntax.N(syntax.KindQueryExpression, children...)
}

// Select builds `select e`.
func Select(e Spec) Spec {
	return syntax.T(syntax.KindSelectClause, "select", e)
}

// WhereClause builds `where e`.
func WhereClause(e Spec) Spec {
	return syntax.T(syntax.KindWhereClause, "where", e)
}

// Label builds `name: stmt`.
func Label(name string, stmt Spec) Spec {
	return syntax.T(syntax.KindLabeledStatement, name, stmt)
}

func modifiers(mods []string) []Spec {
	out := make([]Spec, 0, len(mods))
	for _, m := range mods {
		out = append(out, syntax.T(syntax.KindModifier, m))
	}
	return out
}

func withModifiers(decl Spec, mods ...string) Spec {
	children := append(modifiers(mods), decl.Children...)
	decl.Children = children
	return decl
}
