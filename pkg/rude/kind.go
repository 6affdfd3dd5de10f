package rude

import "fmt"

// Kind identifies a class of rude edit. Codes are stable and appear in
// reports; never renumber an existing kind.
type Kind uint16

// Rude edit kinds.
const (
	KindNone Kind = iota
	ChangingLambdaParameters
	ChangingLambdaReturnType
	RenamingCapturedVariable
	ChangingCapturedVariableType
	StackAllocUpdate
	AwaitStatementUpdate
	InsertNotSupportedByRuntime
	UpdatingGenericNotSupportedByRuntime
	SwitchBetweenLambdaAndLocalFunction
	UpdatingStateMachineMethodMissingAttribute
	ChangingTypeParameters
	UpdateMightNotHaveAnyEffect
	CapturingVariable
	NotCapturingVariable
	InsertLambdaWithMultiScopeCapture
	DeleteLambdaWithMultiScopeCapture
	ChangingAttributesNotSupportedByRuntime
	RenamingNotSupportedByRuntime
	InternalError

	kindCount
)

type kindInfo struct {
	name     string
	code     int
	template string
}

var kinds = [kindCount]kindInfo{
	KindNone: {"None", 0, ""},

	ChangingLambdaParameters: {"ChangingLambdaParameters", 1001,
		"Changing parameters of %s requires restarting the application."},
	ChangingLambdaReturnType: {"ChangingLambdaReturnType", 1002,
		"Changing the return type of %s requires restarting the application."},
	RenamingCapturedVariable: {"RenamingCapturedVariable", 1003,
		"Renaming captured variable '%s' to '%s' requires restarting the application."},
	ChangingCapturedVariableType: {"ChangingCapturedVariableType", 1004,
		"Changing the type of captured variable '%s' from '%s' to '%s' requires restarting the application."},
	StackAllocUpdate: {"StackAllocUpdate", 1005,
		"Modifying %s which contains the stackalloc operator requires restarting the application."},
	AwaitStatementUpdate: {"AwaitStatementUpdate", 1006,
		"Updating a complex statement containing an await expression requires restarting the application."},
	InsertNotSupportedByRuntime: {"InsertNotSupportedByRuntime", 1007,
		"Adding %s requires restarting the application: the runtime does not support it."},
	UpdatingGenericNotSupportedByRuntime: {"UpdatingGenericNotSupportedByRuntime", 1008,
		"Updating %s within a generic context requires restarting the application: the runtime does not support it."},
	SwitchBetweenLambdaAndLocalFunction: {"SwitchBetweenLambdaAndLocalFunction", 1009,
		"Switching between a lambda and a local function requires restarting the application."},
	UpdatingStateMachineMethodMissingAttribute: {"UpdatingStateMachineMethodMissingAttribute", 1010,
		"Updating %s requires restarting the application: the runtime library does not define '%s'."},
	ChangingTypeParameters: {"ChangingTypeParameters", 1011,
		"Changing type parameters of %s requires restarting the application."},
	UpdateMightNotHaveAnyEffect: {"UpdateMightNotHaveAnyEffect", 1012,
		"Updating top-level code '%s' might not have any effect until the application is restarted."},
	CapturingVariable: {"CapturingVariable", 1013,
		"Capturing variable '%s' that has not been captured before requires restarting the application."},
	NotCapturingVariable: {"NotCapturingVariable", 1014,
		"Ceasing to capture variable '%s' requires restarting the application."},
	InsertLambdaWithMultiScopeCapture: {"InsertLambdaWithMultiScopeCapture", 1015,
		"Capturing variables '%s' and '%s' declared in different scopes from one closure requires restarting the application."},
	DeleteLambdaWithMultiScopeCapture: {"DeleteLambdaWithMultiScopeCapture", 1016,
		"Removing the closure that captures variables '%s' and '%s' declared in different scopes requires restarting the application."},
	ChangingAttributesNotSupportedByRuntime: {"ChangingAttributesNotSupportedByRuntime", 1017,
		"Changing attributes of %s requires restarting the application: the runtime does not support it."},
	RenamingNotSupportedByRuntime: {"RenamingNotSupportedByRuntime", 1018,
		"Renaming parameter '%s' to '%s' requires restarting the application: the runtime does not support it."},
	InternalError: {"InternalError", 1099,
		"An internal error occurred while analyzing %s: %s"},
}

func (k Kind) String() string {
	if k < kindCount {
		return kinds[k].name
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// Code returns the stable numeric code of the kind.
func (k Kind) Code() int {
	if k < kindCount {
		return kinds[k].code
	}
	return 0
}

// Message formats the kind's message template with args. Missing
// arguments render as "?".
func (k Kind) Message(args ...string) string {
	if k >= kindCount || kinds[k].template == "" {
		return k.String()
	}
	want := arity(kinds[k].template)
	values := make([]any, want)
	for i := range values {
		values[i] = "?"
		if i < len(args) {
			values[i] = args[i]
		}
	}
	return fmt.Sprintf(kinds[k].template, values...)
}

// Kinds returns every kind except KindNone, in code order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindNone + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind looks a kind up by name.
func ParseKind(name string) (Kind, bool) {
	for k := KindNone + 1; k < kindCount; k++ {
		if kinds[k].name == name {
			return k, true
		}
	}
	return KindNone, false
}

func arity(template string) int {
	n := 0
	for i := 0; i < len(template)-1; i++ {
		if template[i] == '%' && template[i+1] == 's' {
			n++
		}
	}
	return n
}
