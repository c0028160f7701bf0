// Package controller owns run lifecycle for a host application: one active
// run at a time, user-triggered stop, precondition checks before the engine
// is ever invoked, and presentation of outcomes. The engine itself stays a
// pure run-to-completion function; everything stateful lives here.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/armature"
	"github.com/aretw0/armature/internal/logging"
	"github.com/aretw0/armature/internal/validator"
	"github.com/aretw0/armature/pkg/domain"
	"github.com/aretw0/armature/pkg/ports"
)

// Precondition failures. These are checked before the engine is invoked and
// are deliberately not part of the engine's own fault taxonomy.
var (
	ErrNoEffector   = errors.New("no effector configured")
	ErrNoBlocks     = errors.New("program has no blocks")
	ErrNotConnected = errors.New("robot is not connected")
)

// Status is a snapshot of the controller for hosts and the HTTP surface.
type Status struct {
	Running     bool           `json:"running"`
	RunID       string         `json:"run_id,omitempty"`
	StartedAt   time.Time      `json:"started_at,omitzero"`
	LastRunID   string         `json:"last_run_id,omitempty"`
	LastOutcome domain.Outcome `json:"last_outcome,omitempty"`
}

// Controller drives the engine. Safe for concurrent use.
type Controller struct {
	engine *armature.Engine
	eff    ports.Effector
	logger *slog.Logger

	maxDepth int

	mu          sync.Mutex
	active      *activeRun
	lastRunID   string
	lastOutcome domain.Outcome
}

type activeRun struct {
	id      string
	started time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxDepth overrides the validation nesting bound.
func WithMaxDepth(depth int) Option {
	return func(c *Controller) {
		c.maxDepth = depth
	}
}

// New creates a Controller around an engine and the host's effector.
func New(engine *armature.Engine, eff ports.Effector, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		eff:    eff,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "controller")
	return c
}

// Start validates preconditions and the program, cancels and awaits any
// active run, then launches the new run. It returns the run id and a
// channel that yields the run's final error (nil on success) exactly once.
//
// An effector without a ConnectionChecker capability is treated as a
// simulation target, so the connectivity precondition does not apply.
func (c *Controller) Start(program *domain.Program) (string, <-chan error, error) {
	if c.eff == nil {
		return "", nil, ErrNoEffector
	}
	if program == nil || len(program.Blocks) == 0 {
		return "", nil, ErrNoBlocks
	}
	if checker, ok := c.eff.(ports.ConnectionChecker); ok && !checker.IsConnected() {
		return "", nil, ErrNotConnected
	}
	if err := validator.Validate(program, validator.Options{MaxDepth: c.maxDepth}); err != nil {
		return "", nil, err
	}

	// Two runs must never interleave hardware calls: the previous run is
	// cancelled and fully unwound before the new run's homing preamble.
	c.stopActive()

	runID := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	run := &activeRun{
		id:      runID,
		started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	c.mu.Lock()
	c.active = run
	c.mu.Unlock()

	result := make(chan error, 1)
	go func() {
		err := c.engine.Run(ctx, runID, program.Blocks, c.eff)
		c.finish(run, err)
		result <- err
	}()

	c.logger.Info("run started", "run_id", runID, "program_id", program.ID, "blocks", len(program.Blocks))
	return runID, result, nil
}

// Stop cancels the active run, if any, and waits for it to unwind.
// Stopping when idle is a no-op.
func (c *Controller) Stop() {
	c.stopActive()
}

// Status reports the current and most recent run.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{
		LastRunID:   c.lastRunID,
		LastOutcome: c.lastOutcome,
	}
	if c.active != nil {
		s.Running = true
		s.RunID = c.active.id
		s.StartedAt = c.active.started
	}
	return s
}

func (c *Controller) stopActive() {
	c.mu.Lock()
	run := c.active
	c.mu.Unlock()

	if run == nil {
		return
	}
	run.cancel()
	<-run.done
}

// finish records the outcome and presents it. The engine never retries any
// of its faults; whether the user re-runs is their call, so presentation is
// the whole job here.
func (c *Controller) finish(run *activeRun, err error) {
	outcome := domain.OutcomeFor(err)

	c.mu.Lock()
	if c.active == run {
		c.active = nil
	}
	c.lastRunID = run.id
	c.lastOutcome = outcome
	c.mu.Unlock()

	switch outcome {
	case domain.OutcomeCompleted:
		c.logger.Info("run completed", "run_id", run.id, "took", time.Since(run.started).Round(time.Millisecond))
	case domain.OutcomeAborted:
		// Expected, user-requested. Quiet state change, not an error.
		c.logger.Info("run stopped", "run_id", run.id)
	case domain.OutcomeDisconnected:
		c.logger.Warn("robot disconnected, run stopped", "run_id", run.id)
	case domain.OutcomeLimited:
		c.logger.Warn("run hit the safety limit; reduce loop counts or program size", "run_id", run.id, "err", err)
	default:
		c.logger.Error("run failed unexpectedly", "run_id", run.id, "err", err)
	}

	close(run.done)
}
