package lister

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

func noop(_ context.Context, _ toolbox.Args) (any, error) { return nil, nil }

func TestListIncludesSelf(t *testing.T) {
	reg := toolbox.NewRegistry()
	require.NoError(t, reg.Register(
		toolbox.Tool{Spec: toolbox.Spec{Name: "web_search", Description: "Search the web"}, Handler: noop},
		toolbox.Tool{Spec: toolbox.Spec{Name: "weather", Description: "Get the weather"}, Handler: noop},
	))
	require.NoError(t, reg.Register(New(reg).Tools()...))

	d := toolbox.NewDispatcher(reg)
	res := d.Dispatch(context.Background(), toolbox.Request{Tool: "list_tools"})

	require.Equal(t, toolbox.StatusOK, res.Status)
	entries := res.Payload.([]Entry)
	require.Len(t, entries, 3)
	assert.Equal(t, "web_search", entries[0].Name)
	assert.Equal(t, "weather", entries[1].Name)
	assert.Equal(t, "list_tools", entries[2].Name)
	assert.Equal(t, "Search the web", entries[0].Description)
}

func TestListIsIdempotent(t *testing.T) {
	reg := toolbox.NewRegistry()
	require.NoError(t, reg.Register(
		toolbox.Tool{Spec: toolbox.Spec{Name: "b_tool"}, Handler: noop},
		toolbox.Tool{Spec: toolbox.Spec{Name: "a_tool"}, Handler: noop},
	))
	require.NoError(t, reg.Register(New(reg).Tools()...))

	d := toolbox.NewDispatcher(reg)

	first := d.Dispatch(context.Background(), toolbox.Request{Tool: "list_tools"})
	second := d.Dispatch(context.Background(), toolbox.Request{Tool: "list_tools"})

	require.Equal(t, toolbox.StatusOK, first.Status)
	require.Equal(t, toolbox.StatusOK, second.Status)
	assert.Equal(t, first.Payload, second.Payload)

	// Registration order is preserved, not sorted.
	entries := first.Payload.([]Entry)
	assert.Equal(t, "b_tool", entries[0].Name)
	assert.Equal(t, "a_tool", entries[1].Name)
}
