// Package semantic defines the binding oracle the analyzers query and a
// lexical implementation of it.
//
// The analyzers never bind names themselves. They ask a Model which symbol
// an identifier refers to and which symbol a declaration introduces, so a
// full compiler front end can be substituted for LexicalModel.
package semantic

import (
	"fmt"

	"github.com/yaklabco/encheck/pkg/syntax"
)

// SymbolKind classifies a symbol.
type SymbolKind uint8

// Symbol kinds.
const (
	SymbolUnknown SymbolKind = iota
	SymbolLocal
	SymbolParameter
	SymbolThis
	SymbolPrimaryConstructorParameter
	SymbolLocalFunction
	SymbolField
	SymbolProperty
	SymbolMethod
	SymbolType
	SymbolRangeVariable
)

var symbolKindNames = [...]string{
	SymbolUnknown:                     "Unknown",
	SymbolLocal:                       "Local",
	SymbolParameter:                   "Parameter",
	SymbolThis:                        "This",
	SymbolPrimaryConstructorParameter: "PrimaryConstructorParameter",
	SymbolLocalFunction:               "LocalFunction",
	SymbolField:                       "Field",
	SymbolProperty:                    "Property",
	SymbolMethod:                      "Method",
	SymbolType:                        "Type",
	SymbolRangeVariable:               "RangeVariable",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return fmt.Sprintf("SymbolKind(%d)", k)
}

// IsVariable reports whether symbols of this kind hold state a closure can
// capture.
func (k SymbolKind) IsVariable() bool {
	switch k {
	case SymbolLocal, SymbolParameter, SymbolThis, SymbolPrimaryConstructorParameter, SymbolRangeVariable:
		return true
	default:
		return false
	}
}

// IsInstanceMember reports whether the kind is a member reachable through
// an implicit this.
func (k SymbolKind) IsInstanceMember() bool {
	return k == SymbolField || k == SymbolProperty || k == SymbolMethod
}

// Symbol is a named entity introduced by a declaration.
type Symbol struct {
	Kind SymbolKind
	Name string

	// Type is the declared or inferred type text. Empty when unknown.
	Type string

	// Decl is the declaring node. For This it is the type declaration.
	Decl syntax.NodeID

	// Container is the enclosing type declaration, or NoNode.
	Container syntax.NodeID

	Static bool

	// Erroneous is set when binding failed and the symbol must not be
	// classified by type.
	Erroneous bool
}

// Key identifies a symbol within one tree.
type Key struct {
	Kind SymbolKind
	Decl syntax.NodeID
}

// Key returns the identity of the symbol.
func (s Symbol) Key() Key {
	return Key{Kind: s.Kind, Decl: s.Decl}
}

func (s Symbol) String() string {
	if s.Type == "" {
		return fmt.Sprintf("%s %s", s.Kind, s.Name)
	}
	return fmt.Sprintf("%s %s: %s", s.Kind, s.Name, s.Type)
}

// Model answers binding questions for one tree.
type Model interface {
	// Tree returns the tree the model binds.
	Tree() *syntax.Tree

	// ResolveIdentifier returns the symbol a reference node binds to.
	// References are identifier names, generic names and this or base
	// expressions.
	ResolveIdentifier(id syntax.NodeID) (Symbol, bool)

	// DeclaredSymbol returns the symbol a declaring node introduces.
	DeclaredSymbol(id syntax.NodeID) (Symbol, bool)

	// InferType returns the type text of an expression, or "" when unknown.
	InferType(id syntax.NodeID) string
}
