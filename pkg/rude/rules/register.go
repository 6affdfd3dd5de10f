package rules

import "github.com/yaklabco/encheck/pkg/rude"

// RegisterAll registers all built-in rules with the given registry.
// Registration order decides which rule owns a shared kind.
func RegisterAll(registry *rude.Registry) {
	// Lambda and local function signatures
	registry.Register(NewLambdaParametersRule())   // ENC001
	registry.Register(NewLambdaReturnTypeRule())   // ENC002
	registry.Register(NewFunctionFormRule())       // ENC010
	registry.Register(NewTypeParametersRule())     // ENC013
	registry.Register(NewFunctionAttributesRule()) // ENC014

	// Captures
	registry.Register(NewCapturedRenameRule()) // ENC003
	registry.Register(NewCapturedTypeRule())   // ENC004
	registry.Register(NewCaptureSetRule())     // ENC005

	// Bodies
	registry.Register(NewStackAllocRule())            // ENC006
	registry.Register(NewAwaitSpillRule())            // ENC007
	registry.Register(NewGenericUpdateRule())         // ENC009
	registry.Register(NewStateMachineAttributeRule()) // ENC011

	// Inserts and declarations
	registry.Register(NewFunctionInsertRule())    // ENC008
	registry.Register(NewParameterRenameRule())   // ENC015
	registry.Register(NewDeclarationInsertRule()) // ENC016

	// Top-level code
	registry.Register(NewTopLevelUpdateRule()) // ENC012
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(rude.DefaultRegistry)
}
