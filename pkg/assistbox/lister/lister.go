// Package lister provides the list_tools tool. It reads the registry it is
// itself registered in, returning the name and description of every tool; the
// registry is consulted lazily at call time, so self-listing needs no special
// casing.
package lister

import (
	"context"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// Entry describes one registered tool. Parameter schemas are deliberately
// omitted; the entry is meant for presenting a capability overview.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Lister lists the tools of a registry.
type Lister struct {
	reg *toolbox.Registry
}

// New creates a Lister over the given registry.
func New(reg *toolbox.Registry) *Lister {
	return &Lister{reg: reg}
}

// Tools returns the list_tools tool.
func (l *Lister) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Spec: toolbox.Spec{
				Name:        "list_tools",
				Description: "List every available tool with its description.",
			},
			Handler: l.handleList,
		},
	}
}

func (l *Lister) handleList(_ context.Context, _ toolbox.Args) (any, error) {
	specs := l.reg.Specs()

	entries := make([]Entry, 0, len(specs))
	for _, s := range specs {
		entries = append(entries, Entry{Name: s.Name, Description: s.Description})
	}

	return entries, nil
}
