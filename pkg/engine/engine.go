// Package engine is the composition root. It assembles the tool registry and
// dispatcher from configuration and exposes the single programmatic surface a
// conversation loop needs: Dispatch and Specs.
package engine

import (
	"context"
	"log/slog"

	"github.com/pavelkurin/multitool/pkg/assistbox/defaults"
	"github.com/pavelkurin/multitool/pkg/assistbox/fileops"
	"github.com/pavelkurin/multitool/pkg/assistbox/lister"
	"github.com/pavelkurin/multitool/pkg/assistbox/memory"
	"github.com/pavelkurin/multitool/pkg/assistbox/qrgen"
	"github.com/pavelkurin/multitool/pkg/assistbox/rates"
	"github.com/pavelkurin/multitool/pkg/assistbox/websearch"
	"github.com/pavelkurin/multitool/pkg/assistbox/weather"
	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// Engine wires every capability into one registry and dispatcher. The
// registry is fully populated in New and read-only afterwards.
type Engine struct {
	registry   *toolbox.Registry
	dispatcher *toolbox.Dispatcher
}

// New creates an Engine from the given configuration. Capabilities register
// in a fixed order so list_tools output is stable across runs; list_tools
// itself registers last.
func New(cfg Config, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	if log == nil {
		log = slog.Default()
	}

	reg, err := defaults.New(
		websearch.New(cfg.Search.BaseURL),
		weather.New(cfg.Weather.GeocodeURL, cfg.Weather.ForecastURL),
		rates.New(cfg.Rates.CryptoURL, cfg.Rates.FiatURL),
		fileops.New(cfg.Files.Root),
		memory.New(cfg.Memory.Dir),
		qrgen.New(cfg.QR.Dir),
	)
	if err != nil {
		return nil, err
	}

	if err := reg.Register(lister.New(reg).Tools()...); err != nil {
		return nil, err
	}

	return &Engine{
		registry: reg,
		dispatcher: toolbox.NewDispatcher(reg,
			toolbox.WithTimeout(cfg.timeout()),
			toolbox.WithLogger(log),
		),
	}, nil
}

// Dispatch runs one tool call and returns its result envelope.
func (e *Engine) Dispatch(ctx context.Context, req toolbox.Request) toolbox.Result {
	return e.dispatcher.Dispatch(ctx, req)
}

// Specs returns the specs of all registered tools in registration order.
func (e *Engine) Specs() []toolbox.Spec {
	return e.registry.Specs()
}
