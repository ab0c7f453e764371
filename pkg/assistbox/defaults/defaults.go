// Package defaults provides a plug-and-play registry builder. It composes
// the tool sets of multiple capabilities into a single registry in a fixed,
// deterministic order.
package defaults

import "github.com/pavelkurin/multitool/pkg/toolbox"

// Toolset is anything that contributes tools to a registry. All capability
// packages implement it.
type Toolset interface {
	Tools() []toolbox.Tool
}

// New builds a registry by registering each toolset's tools in order. The
// first duplicate name aborts the build.
func New(toolsets ...Toolset) (*toolbox.Registry, error) {
	reg := toolbox.NewRegistry()

	for _, ts := range toolsets {
		if err := reg.Register(ts.Tools()...); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
