// Package capture builds the lexical scope forest of a declaration, the
// variables each closure captures and the capture groups they form, and
// diffs those between two versions of the declaration.
package capture

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/yaklabco/encheck/pkg/semantic"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// ScopeID indexes the scope arena of an Analysis. NoScope is the sentinel.
type ScopeID uint32

// NoScope is the zero ScopeID.
const NoScope ScopeID = 0

func toScopeID(i int) ScopeID {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("scope arena overflow: %w", err))
	}
	return ScopeID(v)
}

// ScopeKind classifies the construct that opens a scope.
type ScopeKind uint8

// Scope kinds.
const (
	ScopeType ScopeKind = iota + 1
	ScopeMember
	ScopeBlock
	ScopeLoop
	ScopeCatch
	ScopeResource
	ScopeSwitchSection
	ScopeFunction
	ScopeQuery
)

var scopeKindNames = [...]string{
	ScopeType:          "type",
	ScopeMember:        "member",
	ScopeBlock:         "block",
	ScopeLoop:          "loop",
	ScopeCatch:         "catch",
	ScopeResource:      "resource",
	ScopeSwitchSection: "switch section",
	ScopeFunction:      "function",
	ScopeQuery:         "query",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) && scopeKindNames[k] != "" {
		return scopeKindNames[k]
	}
	return fmt.Sprintf("ScopeKind(%d)", k)
}

func scopeKindOf(kind syntax.Kind) (ScopeKind, bool) {
	switch kind {
	case syntax.KindBlock:
		return ScopeBlock, true
	case syntax.KindForStatement, syntax.KindForEachStatement:
		return ScopeLoop, true
	case syntax.KindCatchClause:
		return ScopeCatch, true
	case syntax.KindUsingStatement, syntax.KindFixedStatement:
		return ScopeResource, true
	case syntax.KindSwitchSection:
		return ScopeSwitchSection, true
	case syntax.KindLambdaExpression, syntax.KindAnonymousMethodExpression, syntax.KindLocalFunctionStatement:
		return ScopeFunction, true
	case syntax.KindQueryExpression:
		return ScopeQuery, true
	case syntax.KindMethodDeclaration, syntax.KindConstructorDeclaration, syntax.KindDestructorDeclaration,
		syntax.KindAccessorDeclaration, syntax.KindPropertyDeclaration, syntax.KindIndexerDeclaration,
		syntax.KindFieldDeclaration:
		return ScopeMember, true
	default:
		return 0, false
	}
}

// Scope is one lexical region.
type Scope struct {
	ID     ScopeID
	Parent ScopeID
	Kind   ScopeKind

	// Node opens the scope. NoNode for the type pseudo-scope of top-level
	// code, whose entry point scope is opened by the compilation unit.
	Node syntax.NodeID

	// Vars are the variables declared directly in the scope, in
	// declaration order.
	Vars []semantic.Key
}

// Variable is a local, parameter, range variable, this or primary
// constructor parameter known to the analysis.
type Variable struct {
	Symbol semantic.Symbol
	Scope  ScopeID
}

// Closure is a lambda, anonymous method or local function.
type Closure struct {
	Node syntax.NodeID
	Kind syntax.Kind

	// Scope is the scope the closure appears in; Body is the scope it opens.
	Scope ScopeID
	Body  ScopeID

	// Captures are the outer variables the closure uses directly, through
	// nested closures or through calls to local functions, sorted by
	// declaration.
	Captures []semantic.Key

	calls []syntax.NodeID
}

// CapturesThis reports whether the closure captures the instance.
func (c *Closure) CapturesThis() bool {
	for _, k := range c.Captures {
		if k.Kind == semantic.SymbolThis {
			return true
		}
	}
	return false
}

func compareKeys(a, b semantic.Key) int {
	if a.Decl != b.Decl {
		if a.Decl < b.Decl {
			return -1
		}
		return 1
	}
	return int(a.Kind) - int(b.Kind)
}
