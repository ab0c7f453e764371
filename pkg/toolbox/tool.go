// Package toolbox defines the calling contract shared by every assistant
// capability: declarative tool specifications, an ordered registry, argument
// validation, and a dispatcher that folds every outcome into a single result
// envelope so one failing tool can never abort the conversation driving it.
package toolbox

import "context"

// ParamType enumerates the argument types a tool parameter may declare.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeInt    ParamType = "int"
	TypeNumber ParamType = "number"
	TypeBool   ParamType = "bool"
)

// Param describes a single declared tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Default     any
	Description string
}

// Spec describes a tool: a unique stable name, a description shown to the
// model, and the ordered parameter list enforced before every invocation.
type Spec struct {
	Name        string
	Description string
	Params      []Param
}

// Handler executes a tool with validated arguments and returns a payload.
// Handlers may assume every declared argument is present and well-typed;
// argument correctness is enforced once, before the handler runs.
type Handler func(ctx context.Context, args Args) (any, error)

// Tool pairs a Spec with the Handler that implements it.
type Tool struct {
	Spec    Spec
	Handler Handler
}
