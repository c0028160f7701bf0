// Package sim provides a pure-software effector: every capability is
// implemented by appending to an ordered call journal. It backs simulation
// runs in the CLI and doubles as the recording test double for the engine.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/armature/pkg/motion"
)

// Call is one journal entry: the capability invoked and, for moves, the
// servo targets that were issued.
type Call struct {
	Name    string
	Targets []motion.ServoTarget
}

// Effector implements ports.Effector plus the Homer, Gripper and
// ConnectionChecker capabilities. Safe for concurrent inspection while a
// run is in flight.
type Effector struct {
	mu        sync.Mutex
	calls     []Call
	latency   time.Duration
	connProbe func() bool
	moveErr   error
}

// Option configures the simulated effector.
type Option func(*Effector)

// WithLatency makes every capability call take roughly this long, honoring
// context cancellation while it waits.
func WithLatency(d time.Duration) Option {
	return func(e *Effector) {
		e.latency = d
	}
}

// WithConnectivity installs a connectivity probe. Without one the effector
// always reports connected.
func WithConnectivity(probe func() bool) Option {
	return func(e *Effector) {
		e.connProbe = probe
	}
}

// WithMoveError makes MoveJoints fail with the given error, for exercising
// the generic failure path.
func WithMoveError(err error) Option {
	return func(e *Effector) {
		e.moveErr = err
	}
}

// New creates a simulated effector.
func New(opts ...Option) *Effector {
	e := &Effector{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MoveJoints records the batch of servo targets.
func (e *Effector) MoveJoints(ctx context.Context, targets []motion.ServoTarget) error {
	if err := e.wait(ctx); err != nil {
		return err
	}
	if e.moveErr != nil {
		return e.moveErr
	}
	copied := make([]motion.ServoTarget, len(targets))
	copy(copied, targets)
	e.record(Call{Name: "move_joints", Targets: copied})
	return nil
}

// Home records a homing move.
func (e *Effector) Home(ctx context.Context) error {
	if err := e.wait(ctx); err != nil {
		return err
	}
	e.record(Call{Name: "home"})
	return nil
}

// OpenGripper records a gripper open.
func (e *Effector) OpenGripper(ctx context.Context) error {
	if err := e.wait(ctx); err != nil {
		return err
	}
	e.record(Call{Name: "open_gripper"})
	return nil
}

// CloseGripper records a gripper close.
func (e *Effector) CloseGripper(ctx context.Context) error {
	if err := e.wait(ctx); err != nil {
		return err
	}
	e.record(Call{Name: "close_gripper"})
	return nil
}

// IsConnected reports the probe's answer, defaulting to connected.
func (e *Effector) IsConnected() bool {
	if e.connProbe == nil {
		return true
	}
	return e.connProbe()
}

// Calls returns a copy of the journal in invocation order.
func (e *Effector) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// Names returns just the capability names, in order. Convenient for
// asserting call sequences.
func (e *Effector) Names() []string {
	calls := e.Calls()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}

// Reset clears the journal.
func (e *Effector) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *Effector) record(c Call) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, c)
}

func (e *Effector) wait(ctx context.Context) error {
	if e.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(e.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
