// Package projector turns the edit script of a document into the semantic
// edits the runtime applies: symbol inserts, updates and deletes, with the
// syntax map attached wherever local variables must survive the update.
package projector

import (
	"strings"

	"github.com/yaklabco/encheck/pkg/match"
	"github.com/yaklabco/encheck/pkg/syntax"
)

// EditKind is the operation the runtime performs on a symbol.
type EditKind uint8

// Semantic edit kinds.
const (
	Insert EditKind = iota
	Update
	Delete
)

var editKindNames = [...]string{
	Insert: "Insert",
	Update: "Update",
	Delete: "Delete",
}

func (k EditKind) String() string {
	if int(k) < len(editKindNames) {
		return editKindNames[k]
	}
	return "EditKind(?)"
}

// SymbolKind classifies the symbol a semantic edit targets.
type SymbolKind uint8

// Symbol kinds.
const (
	SymbolMethod SymbolKind = iota
	SymbolConstructor
	SymbolProperty
	SymbolIndexer
	SymbolAccessor
	SymbolField
	SymbolType
	SymbolEntryPoint
)

var symbolKindNames = [...]string{
	SymbolMethod:      "method",
	SymbolConstructor: "constructor",
	SymbolProperty:    "property",
	SymbolIndexer:     "indexer",
	SymbolAccessor:    "accessor",
	SymbolField:       "field",
	SymbolType:        "type",
	SymbolEntryPoint:  "entry point",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "SymbolKind(?)"
}

// Symbol identifies a compiled member by its metadata name.
type Symbol struct {
	Kind SymbolKind

	// Name is the metadata name: "M", ".ctor", ".cctor", "get_P",
	// "get_Item", "<Main>$". Types carry their qualified name.
	Name string

	// Type is the qualified name of the containing type. Empty for types.
	Type string

	// Signature renders arity, parameter shape and return type, for
	// example "`1(ref int,string):void".
	Signature string

	// Node is the declaring syntax node in the tree selected by Side.
	Node syntax.NodeID
	Side match.Side
}

// IsZero reports whether the symbol is unset.
func (s Symbol) IsZero() bool {
	return s.Name == ""
}

func (s Symbol) String() string {
	if s.Type == "" {
		return s.Name + s.Signature
	}
	return s.Type + "." + s.Name + s.Signature
}

// SemanticEdit is one symbol-level change.
type SemanticEdit struct {
	Kind   EditKind
	Symbol Symbol

	// Container is the type that holds the symbol, taken from the new
	// version when the type survives.
	Container Symbol

	// PreserveLocalVariables is set for updates of bodies whose locals
	// live on in closures or state machines. SyntaxMap is attached exactly
	// when it is set.
	PreserveLocalVariables bool
	SyntaxMap              *match.SyntaxMap

	// Partial names the partial type whose implementation part the edit
	// applies to.
	Partial string

	// Blocked is set when a blocking rude edit lies inside the source
	// declaration. The edit is still reported but must not be applied.
	Blocked bool
}

func (e SemanticEdit) String() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteByte(' ')
	b.WriteString(e.Symbol.String())
	if e.PreserveLocalVariables {
		b.WriteString(" [preserve]")
	}
	if e.Partial != "" {
		b.WriteString(" [partial " + e.Partial + "]")
	}
	if e.Blocked {
		b.WriteString(" [blocked]")
	}
	return b.String()
}

func (e SemanticEdit) key() string {
	return e.Kind.String() + " " + e.Symbol.String()
}
