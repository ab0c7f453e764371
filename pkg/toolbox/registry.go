package toolbox

import (
	"fmt"
)

// Registry maps tool names to registered tools while preserving registration
// order. It is populated once at process start and treated as read-only
// afterwards, so lookups and listings need no locking.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty Registry ready for registration.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools. A tool whose name is already present is
// rejected with DuplicateToolError; registration stops at the first failure.
func (r *Registry) Register(tools ...Tool) error {
	for _, t := range tools {
		if err := r.register(t); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) register(t Tool) error {
	if t.Spec.Name == "" {
		return fmt.Errorf("toolbox: tool name is required")
	}

	if t.Handler == nil {
		return fmt.Errorf("toolbox: tool %q has no handler", t.Spec.Name)
	}

	if _, exists := r.tools[t.Spec.Name]; exists {
		return &DuplicateToolError{Name: t.Spec.Name}
	}

	seen := make(map[string]struct{}, len(t.Spec.Params))
	for _, p := range t.Spec.Params {
		if p.Name == "" {
			return fmt.Errorf("toolbox: tool %q: parameter name is required", t.Spec.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("toolbox: tool %q: duplicate parameter %q", t.Spec.Name, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.Default != nil {
			if _, err := coerce(p.Default, p.Type); err != nil {
				return fmt.Errorf("toolbox: tool %q: parameter %q: default: %w", t.Spec.Name, p.Name, err)
			}
		}
	}

	r.tools[t.Spec.Name] = t
	r.order = append(r.order, t.Spec.Name)

	return nil
}

// Get returns the tool registered under name, or UnknownToolError.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return Tool{}, &UnknownToolError{Name: name}
	}

	return t, nil
}

// Specs returns the specs of all registered tools in registration order.
// The returned slice is freshly allocated on each call.
func (r *Registry) Specs() []Spec {
	specs := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec)
	}

	return specs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
