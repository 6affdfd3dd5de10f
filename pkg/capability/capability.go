// Package capability models the edit-and-continue capabilities a runtime
// advertises. A Set is an immutable bit mask.
package capability

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// ErrUnknown is returned by Parse for names that are not capabilities.
var ErrUnknown = errors.New("unknown capability")

// Capability is a single runtime capability bit.
type Capability uint16

// Known capabilities.
const (
	Baseline Capability = 1 << iota
	AddMethodToExistingType
	NewTypeDefinition
	GenericUpdateMethod
	UpdateParameters
	ChangeCustomAttributes
	AddExplicitInterfaceImplementation

	capabilityEnd
)

var names = map[Capability]string{
	Baseline:                           "Baseline",
	AddMethodToExistingType:            "AddMethodToExistingType",
	NewTypeDefinition:                  "NewTypeDefinition",
	GenericUpdateMethod:                "GenericUpdateMethod",
	UpdateParameters:                   "UpdateParameters",
	ChangeCustomAttributes:             "ChangeCustomAttributes",
	AddExplicitInterfaceImplementation: "AddExplicitInterfaceImplementation",
}

func (c Capability) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("Capability(%#x)", uint16(c))
}

// Set is an immutable set of capabilities.
type Set struct {
	mask Capability
}

// None is the empty set.
var None = Set{}

// All contains every known capability.
var All = Set{mask: capabilityEnd - 1}

// Of returns the set of the given capabilities.
func Of(caps ...Capability) Set {
	var s Set
	for _, c := range caps {
		s.mask |= c
	}
	return s
}

// Has reports whether every bit of c is present.
func (s Set) Has(c Capability) bool {
	return s.mask&c == c
}

// HasAll reports whether other is a subset of s.
func (s Set) HasAll(other Set) bool {
	return s.mask&other.mask == other.mask
}

// With returns s extended by the given capabilities.
func (s Set) With(caps ...Capability) Set {
	return Set{mask: s.mask | Of(caps...).mask}
}

// Missing returns the capabilities of required that s lacks.
func (s Set) Missing(required Set) Set {
	return Set{mask: required.mask &^ s.mask}
}

// IsEmpty reports whether the set has no capabilities.
func (s Set) IsEmpty() bool { return s.mask == 0 }

// Len returns the number of capabilities in the set.
func (s Set) Len() int { return bits.OnesCount16(uint16(s.mask)) }

// Capabilities returns the members in bit order.
func (s Set) Capabilities() []Capability {
	out := make([]Capability, 0, s.Len())
	for c := Baseline; c < capabilityEnd; c <<= 1 {
		if s.mask&c != 0 {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the member names in bit order.
func (s Set) Names() []string {
	caps := s.Capabilities()
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = c.String()
	}
	return out
}

// String renders the set as a comma separated list, or "none".
func (s Set) String() string {
	if s.IsEmpty() {
		return "none"
	}
	return strings.Join(s.Names(), ", ")
}

// Lookup finds a capability by case-insensitive name.
func Lookup(name string) (Capability, bool) {
	for c, n := range names {
		if strings.EqualFold(n, name) {
			return c, true
		}
	}
	return 0, false
}

// Parse reads comma or space separated capability names. "all" and
// "none" stand for every and no capability.
func Parse(text string) (Set, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	return ParseNames(fields)
}

// ParseNames builds a set from individual names.
func ParseNames(list []string) (Set, error) {
	var s Set
	for _, name := range list {
		name = strings.TrimSpace(name)
		switch strings.ToLower(name) {
		case "":
			continue
		case "all":
			s = All
			continue
		case "none":
			continue
		}
		c, ok := Lookup(name)
		if !ok {
			return None, fmt.Errorf("%w: %q", ErrUnknown, name)
		}
		s.mask |= c
	}
	return s, nil
}
