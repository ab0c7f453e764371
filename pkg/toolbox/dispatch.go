package toolbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Status classifies the outcome of a dispatch.
type Status int

const (
	StatusOK Status = iota
	StatusValidationError
	StatusExecutionError
)

// String returns a stable label for the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusValidationError:
		return "validation_error"
	case StatusExecutionError:
		return "execution_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Request is one tool invocation produced by the agent loop. ID is assigned
// by the dispatcher when empty.
type Request struct {
	ID   string
	Tool string
	Args map[string]any
}

// Result is the uniform envelope returned for every dispatch. Payload is set
// iff Status is StatusOK; Err is set iff it is not.
type Result struct {
	ID      string
	Status  Status
	Payload any
	Err     string
}

// Dispatcher resolves requests against a Registry and shields the caller from
// adapter faults: lookup misses, invalid arguments, handler errors, panics,
// and timeouts all come back as Result values, never as raised faults, so one
// tool's failure cannot terminate the conversation. A Dispatcher is safe for
// concurrent use from independent conversations.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
	log      *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds each tool invocation with the given deadline. Zero
// disables the dispatcher-level deadline.
func WithTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) { dp.timeout = d }
}

// WithLogger sets the logger used to record each dispatch.
func WithLogger(log *slog.Logger) Option {
	return func(dp *Dispatcher) { dp.log = log }
}

// NewDispatcher creates a Dispatcher over the given registry.
func NewDispatcher(reg *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch resolves the requested tool, validates its arguments, and runs the
// handler inside a failure boundary. Side effects happen only inside the
// handler, scoped to exactly one invocation; the dispatcher never retries.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	start := time.Now()
	res := d.dispatch(ctx, req)
	res.ID = id

	if res.Status == StatusOK {
		d.log.InfoContext(ctx, "tool call completed",
			"tool", req.Tool,
			"call_id", id,
			"duration", time.Since(start),
		)
	} else {
		d.log.WarnContext(ctx, "tool call failed",
			"tool", req.Tool,
			"call_id", id,
			"duration", time.Since(start),
			"status", res.Status.String(),
			"error", res.Err,
		)
	}

	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) Result {
	tool, err := d.registry.Get(req.Tool)
	if err != nil {
		return Result{Status: StatusExecutionError, Err: err.Error()}
	}

	args, err := Validate(tool.Spec, req.Args)
	if err != nil {
		return Result{Status: StatusValidationError, Err: fmt.Sprintf("%s: %s", req.Tool, err)}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	payload, err := d.invoke(ctx, tool, args)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Status: StatusExecutionError, Err: fmt.Sprintf("%s: timeout", req.Tool)}
		}

		return Result{Status: StatusExecutionError, Err: err.Error()}
	}

	return Result{Status: StatusOK, Payload: payload}
}

// invoke runs the handler and converts panics into errors so a faulty adapter
// cannot take down the caller.
func (d *Dispatcher) invoke(ctx context.Context, tool Tool, args Args) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("%s: panic: %v", tool.Spec.Name, r)
		}
	}()

	return tool.Handler(ctx, args)
}
