package armature

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/armature/internal/runtime"
	"github.com/aretw0/armature/pkg/domain"
	"github.com/aretw0/armature/pkg/ports"
)

// Engine is the high-level entry point for the Armature library.
// It wraps the internal interpreter and provides a simplified API for
// consumers: configure once, then Run block programs against an effector.
type Engine struct {
	rt          *runtime.Engine
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithPacing sets the fixed delay applied after every executed block.
func WithPacing(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithPacing(d))
	}
}

// WithHomeSettle sets the delay after the homing preamble.
func WithHomeSettle(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithHomeSettle(d))
	}
}

// WithWaitFallback sets the duration used by wait blocks with an
// unparseable seconds parameter.
func WithWaitFallback(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithWaitFallback(d))
	}
}

// WithStepLimit bounds the number of dispatched blocks per run.
func WithStepLimit(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithStepLimit(n))
	}
}

// WithTimeLimit bounds the wall-clock duration of one run.
func WithTimeLimit(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithTimeLimit(d))
	}
}

// New initializes an Armature Engine with the default safety budget of
// 10,000 dispatched blocks or 5 minutes of wall-clock, whichever first.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized so we don't pass nil to the runtime.
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.rt = runtime.NewEngine(runtimeOpts...)
	return eng
}

// Run executes one block program against the effector. It blocks until the
// program completes, the context is cancelled, or a fault unwinds the run.
// The error is nil on success, one of the domain sentinels (ErrAborted,
// ErrConnectionLost, ErrLimitExceeded) for the engine's own faults, or the
// effector's error untouched.
func (e *Engine) Run(ctx context.Context, runID string, blocks []domain.Block, eff ports.Effector) error {
	return e.rt.Run(ctx, runID, blocks, eff)
}
