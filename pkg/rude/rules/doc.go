// Package rules provides the built-in rude edit rules for encheck.
//
// # Rule Domains
//
//   - Lambda and local function signatures:
//
//   - ENC001: changing-lambda-parameters - Parameter count, type or rename
//
//   - ENC002: changing-lambda-return-type - Declared or inferred return type
//
//   - ENC010: lambda-local-function-switch - Lambda became a local function or back
//
//   - ENC013: changing-type-parameters - Local function type parameters or constraints
//
//   - ENC014: changing-function-attributes - Attributes on functions and parameters
//
//   - Captures:
//
//   - ENC003: renaming-captured-variable - Never suppressible
//
//   - ENC004: changing-captured-variable-type - Captured variable retyped
//
//   - ENC005: capture-set-change - Began or ceased capturing, joined or split groups
//
//   - Bodies:
//
//   - ENC006: stackalloc-update - Changed body uses stackalloc
//
//   - ENC007: await-statement-update - Await with spilled operands
//
//   - ENC009: generic-update - Changed code in a generic context
//
//   - ENC011: state-machine-attribute - Async or iterator without runtime attribute
//
//   - Inserts and declarations:
//
//   - ENC008: function-insert - Lambda or local function added
//
//   - ENC015: parameter-rename - Method parameter renamed
//
//   - ENC016: declaration-insert - Type or member added
//
//   - Top-level code:
//
//   - ENC012: update-might-not-have-any-effect - Top-level statement changed (warning)
//
// Rules import the rude package and register themselves with
// rude.DefaultRegistry in init.
package rules
