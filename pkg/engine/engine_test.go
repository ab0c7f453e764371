package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelkurin/multitool/pkg/assistbox/lister"
	"github.com/pavelkurin/multitool/pkg/assistbox/memory"
	"github.com/pavelkurin/multitool/pkg/assistbox/rates"
	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// allTools is the expected registry content in registration order.
var allTools = []string{
	"web_search",
	"weather",
	"crypto_price",
	"fiat_rate",
	"file_read",
	"file_write",
	"memory_save",
	"memory_recall",
	"memory_list",
	"qr_code",
	"list_tools",
}

func testConfig(t *testing.T) Config {
	t.Helper()

	dir := t.TempDir()

	return Config{
		Search: SearchConfig{BaseURL: "http://127.0.0.1:0"},
		Files:  FilesConfig{Root: dir},
		Memory: MemoryConfig{Dir: filepath.Join(dir, "memory")},
		QR:     QRConfig{Dir: filepath.Join(dir, "qr")},
	}
}

func TestNewRegistersAllTools(t *testing.T) {
	e, err := New(testConfig(t), nil)
	require.NoError(t, err)

	specs := e.Specs()
	require.Len(t, specs, len(allTools))
	for i, name := range allTools {
		assert.Equal(t, name, specs[i].Name)
	}
}

func TestNewRequiresSearchURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Search.BaseURL = ""

	_, err := New(cfg, nil)
	assert.ErrorContains(t, err, "search.base_url")
}

func TestNewRejectsBadTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timeout = "soon"

	_, err := New(cfg, nil)
	assert.ErrorContains(t, err, "invalid timeout")
}

func TestDispatchUnknownTool(t *testing.T) {
	e, err := New(testConfig(t), nil)
	require.NoError(t, err)

	res := e.Dispatch(context.Background(), toolbox.Request{Tool: "no_such_tool"})

	assert.Equal(t, toolbox.StatusExecutionError, res.Status)
	assert.Contains(t, res.Err, "unknown tool")
}

func TestDispatchCryptoPriceEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"btc":{"usd":65000.12}}`))
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Rates.CryptoURL = srv.URL

	e, err := New(cfg, nil)
	require.NoError(t, err)

	res := e.Dispatch(context.Background(), toolbox.Request{
		Tool: "crypto_price",
		Args: map[string]any{"symbol": "BTC"},
	})

	require.Equal(t, toolbox.StatusOK, res.Status)
	assert.InDelta(t, 65000.12, res.Payload.(rates.Quote).Price, 0.001)
}

func TestDispatchMemoryRoundTrip(t *testing.T) {
	e, err := New(testConfig(t), nil)
	require.NoError(t, err)

	res := e.Dispatch(context.Background(), toolbox.Request{
		Tool: "memory_save",
		Args: map[string]any{"key": "k", "content": "hello"},
	})
	require.Equal(t, toolbox.StatusOK, res.Status)

	res = e.Dispatch(context.Background(), toolbox.Request{
		Tool: "memory_recall",
		Args: map[string]any{"key": "k"},
	})
	require.Equal(t, toolbox.StatusOK, res.Status)
	assert.Equal(t, "hello", res.Payload.(memory.Note).Content)
}

func TestDispatchListToolsSeesEverything(t *testing.T) {
	e, err := New(testConfig(t), nil)
	require.NoError(t, err)

	res := e.Dispatch(context.Background(), toolbox.Request{Tool: "list_tools"})

	require.Equal(t, toolbox.StatusOK, res.Status)
	entries := res.Payload.([]lister.Entry)
	require.Len(t, entries, len(allTools))
	for i, name := range allTools {
		assert.Equal(t, name, entries[i].Name)
	}
}
