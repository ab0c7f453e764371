package toolbox

import "fmt"

// DuplicateToolError is returned by Registry.Register when a tool with the
// same name is already present.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("toolbox: tool %q already registered", e.Name)
}

// UnknownToolError is returned by Registry.Get when no tool with the
// requested name is registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ValidationError reports an argument that failed validation against a tool's
// Spec. It never reaches a tool handler and carries the offending parameter
// name so the caller can re-prompt precisely.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("argument %q: %s", e.Param, e.Reason)
}
