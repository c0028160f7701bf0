package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/armature/pkg/domain"
	"github.com/aretw0/armature/pkg/motion"
	"github.com/aretw0/armature/pkg/ports"
)

// Default timing and budget constants. The pacing delay exists between every
// executed block, including inside recursive child executions, so hardware
// can settle and program pace stays reproducible. The budget numbers are the
// backstop against runaway repeat nesting and while-loops.
const (
	DefaultPacing       = 250 * time.Millisecond
	DefaultHomeSettle   = 1 * time.Second
	DefaultWaitFallback = 1 * time.Second
	DefaultMaxSteps     = 10_000
	DefaultMaxElapsed   = 5 * time.Minute
)

// Engine is the block-program interpreter. It owns no state between runs;
// one Engine value can serve any number of sequential runs.
type Engine struct {
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	pacing       time.Duration
	homeSettle   time.Duration
	waitFallback time.Duration
	maxSteps     int
	maxElapsed   time.Duration
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. The engine never writes to a
// global logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithPacing sets the fixed inter-block delay.
func WithPacing(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.pacing = d
	}
}

// WithHomeSettle sets the delay after the homing preamble.
func WithHomeSettle(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.homeSettle = d
	}
}

// WithWaitFallback sets the duration used by wait-seconds blocks whose
// parameter is neither numeric nor parseable.
func WithWaitFallback(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.waitFallback = d
	}
}

// WithStepLimit bounds the total number of dispatched blocks per run.
// Zero disables the step bound.
func WithStepLimit(n int) EngineOption {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithTimeLimit bounds the wall-clock duration of one run.
// Zero disables the time bound.
func WithTimeLimit(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.maxElapsed = d
	}
}

// NewEngine creates an interpreter with the default safety budget
// (10,000 dispatched blocks or 5 minutes, whichever first).
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		pacing:       DefaultPacing,
		homeSettle:   DefaultHomeSettle,
		waitFallback: DefaultWaitFallback,
		maxSteps:     DefaultMaxSteps,
		maxElapsed:   DefaultMaxElapsed,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "runtime")
	return e
}

// Run executes one program against the effector until completion, abort or
// fault. Blocks are read, never mutated. The error is nil on success, one of
// the domain sentinels (ErrAborted, ErrConnectionLost, ErrLimitExceeded) on
// the engine's own faults, or whatever the effector returned otherwise.
func (e *Engine) Run(ctx context.Context, runID string, blocks []domain.Block, eff ports.Effector) error {
	r := &run{
		engine: e,
		runID:  runID,
		eff:    eff,
		index:  newChildIndex(blocks),
		guard:  newGuard(e.maxSteps, e.maxElapsed),
	}
	// Optional capabilities are discovered once, up front. A missing
	// capability makes the matching blocks no-ops; a missing connection
	// checker disables connectivity checks (pure simulation).
	r.homer, _ = eff.(ports.Homer)
	r.gripper, _ = eff.(ports.Gripper)
	r.conn, _ = eff.(ports.ConnectionChecker)

	e.emitRunStart(ctx, runID, len(blocks))
	err := r.execute(ctx, blocks)
	e.logOutcome(err)
	e.emitRunEnd(ctx, runID, len(blocks), domain.OutcomeFor(err))
	return err
}

func (e *Engine) logOutcome(err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAborted):
		e.logger.Info("run aborted by user")
	case errors.Is(err, domain.ErrConnectionLost):
		e.logger.Warn("connection lost, run unwound")
	case errors.Is(err, domain.ErrLimitExceeded):
		e.logger.Warn("safety limit triggered", "err", err)
	default:
		e.logger.Error("run failed", "err", err)
	}
}

// run carries the per-execution state: capabilities, child index and the
// safety guard. It is discarded when Run returns.
type run struct {
	engine  *Engine
	runID   string
	eff     ports.Effector
	homer   ports.Homer
	gripper ports.Gripper
	conn    ports.ConnectionChecker
	index   *childIndex
	guard   *guard
}

// execute performs the top-level entry checks and the homing preamble, then
// walks the top-level block list. Recursion into children goes through
// execList directly and never re-homes.
func (r *run) execute(ctx context.Context, blocks []domain.Block) error {
	if err := r.checkpoint(ctx); err != nil {
		return err
	}

	if r.homer != nil {
		r.engine.logger.Info("homing started", "run_id", r.runID)
		if err := r.call(ctx, "", "home", func() error {
			return r.homer.Home(ctx)
		}); err != nil {
			return err
		}
		if err := r.sleep(ctx, r.engine.homeSettle); err != nil {
			return err
		}
	}

	return r.execList(ctx, r.index.topLevel())
}

// execList runs one sibling list in array order. Every dispatched block,
// known or not, consumes one guard step and one pacing delay.
func (r *run) execList(ctx context.Context, blocks []domain.Block) error {
	for _, block := range blocks {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}
		if err := r.guard.spend(); err != nil {
			return err
		}
		r.engine.emitBlockEnter(ctx, r.runID, block)

		if err := r.dispatch(ctx, block); err != nil {
			return err
		}

		if err := r.sleep(ctx, r.engine.pacing); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) dispatch(ctx context.Context, block domain.Block) error {
	switch block.DefinitionID {
	case domain.DefHomeRobot:
		if r.homer == nil {
			return nil
		}
		return r.call(ctx, block.ID, "home", func() error {
			return r.homer.Home(ctx)
		})

	case domain.DefMoveTo:
		return r.moveTo(ctx, block)

	case domain.DefOpenGripper:
		if r.gripper == nil {
			return nil
		}
		return r.call(ctx, block.ID, "open_gripper", func() error {
			return r.gripper.OpenGripper(ctx)
		})

	case domain.DefCloseGripper:
		if r.gripper == nil {
			return nil
		}
		return r.call(ctx, block.ID, "close_gripper", func() error {
			return r.gripper.CloseGripper(ctx)
		})

	case domain.DefWaitSeconds:
		return r.sleep(ctx, r.waitDuration(block))

	case domain.DefRepeat:
		return r.repeat(ctx, block)

	case domain.DefIfCondition:
		if truthy, _ := domain.Bool(block.Parameters, "condition"); truthy {
			return r.execList(ctx, r.index.children(block.ID, domain.SlotThen))
		}
		return nil

	case domain.DefIfElse:
		slot := domain.SlotElse
		if truthy, _ := domain.Bool(block.Parameters, "condition"); truthy {
			slot = domain.SlotThen
		}
		return r.execList(ctx, r.index.children(block.ID, slot))

	case domain.DefWhileLoop:
		return r.whileLoop(ctx, block)
	}

	// Unknown definitions are skipped for forward compatibility; the
	// caller still applies the pacing delay.
	r.engine.logger.Debug("skipping unknown block definition",
		"block_id", block.ID, "definition_id", block.DefinitionID)
	return nil
}

// moveTo translates one move block and issues at most one servo command.
// Unknown joints and non-numeric angles are skipped without touching the
// hardware at all.
func (r *run) moveTo(ctx context.Context, block domain.Block) error {
	joint, _ := domain.String(block.Parameters, "joint")
	angle, ok := domain.Number(block.Parameters, "angle")
	if !ok {
		r.engine.logger.Debug("skipping move with non-numeric angle",
			"block_id", block.ID, "joint", joint)
		return nil
	}
	target, ok := motion.Translate(joint, angle)
	if !ok {
		r.engine.logger.Debug("skipping move with unknown joint",
			"block_id", block.ID, "joint", joint)
		return nil
	}
	return r.call(ctx, block.ID, "move_joints", func() error {
		return r.eff.MoveJoints(ctx, []motion.ServoTarget{target})
	})
}

func (r *run) waitDuration(block domain.Block) time.Duration {
	seconds, ok := domain.Number(block.Parameters, "seconds")
	if !ok {
		return r.engine.waitFallback
	}
	if seconds < 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// repeat executes the block's children times over. Children are resolved
// once per iteration through the index; their parameter maps are shared
// with the source collection, so edits between iterations are observed.
// Every iteration spends a guard step so a huge times value with an empty
// (or fully skipped) body still lands in the safety budget.
func (r *run) repeat(ctx context.Context, block domain.Block) error {
	times, ok := domain.Number(block.Parameters, "times")
	if !ok {
		times = 1
	}
	for i := 0; i < int(times); i++ {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}
		if err := r.guard.spend(); err != nil {
			return err
		}
		if err := r.execList(ctx, r.index.children(block.ID, domain.SlotThen)); err != nil {
			return err
		}
	}
	return nil
}

// whileLoop is the only unbounded control structure, so every iteration
// re-checks abort and connectivity, spends a guard step even when the body
// is empty, and pays the pacing delay.
func (r *run) whileLoop(ctx context.Context, block domain.Block) error {
	for {
		truthy, ok := domain.Bool(block.Parameters, "condition")
		if !ok || !truthy {
			return nil
		}
		if err := r.checkpoint(ctx); err != nil {
			return err
		}
		if err := r.guard.spend(); err != nil {
			return err
		}
		if err := r.execList(ctx, r.index.children(block.ID, domain.SlotThen)); err != nil {
			return err
		}
		if err := r.sleep(ctx, r.engine.pacing); err != nil {
			return err
		}
	}
}

// checkpoint enforces the abort and connectivity contract at every dispatch
// point: an already-cancelled context faults before any effector call, and
// a false connectivity probe unwinds the whole run.
func (r *run) checkpoint(ctx context.Context) error {
	if ctx.Err() != nil {
		return domain.ErrAborted
	}
	if r.conn != nil && !r.conn.IsConnected() {
		return domain.ErrConnectionLost
	}
	return nil
}

// sleep performs a cancellable delay. A cancellation mid-sleep rejects
// immediately with ErrAborted instead of finishing the timer.
func (r *run) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if ctx.Err() != nil {
			return domain.ErrAborted
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return domain.ErrAborted
	case <-timer.C:
		return nil
	}
}

// call wraps one effector invocation with lifecycle hooks. A context error
// (cancellation or an expired deadline) surfacing through the effector maps
// to ErrAborted; any other effector error propagates unchanged.
func (r *run) call(ctx context.Context, blockID, name string, fn func() error) error {
	r.engine.emitEffectorCall(ctx, r.runID, blockID, name)
	start := time.Now()
	err := fn()
	r.engine.emitEffectorReturn(ctx, r.runID, blockID, name, time.Since(start), err != nil)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrAborted
	}
	return err
}
