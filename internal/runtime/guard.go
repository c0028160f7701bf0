package runtime

import (
	"time"

	"github.com/aretw0/armature/pkg/domain"
)

// guard is the runaway-execution backstop: a bounded budget of dispatched
// blocks and wall-clock time, summed across all recursion levels of one run.
// It must stay cheap because it is consulted on every dispatched block.
type guard struct {
	maxSteps   int
	maxElapsed time.Duration
	steps      int
	started    time.Time
}

func newGuard(maxSteps int, maxElapsed time.Duration) *guard {
	return &guard{
		maxSteps:   maxSteps,
		maxElapsed: maxElapsed,
		started:    time.Now(),
	}
}

// spend consumes one step and faults when either bound is exceeded.
// A zero bound disables that dimension.
func (g *guard) spend() error {
	g.steps++
	if g.maxSteps > 0 && g.steps > g.maxSteps {
		return &domain.LimitError{Steps: g.steps, Elapsed: time.Since(g.started)}
	}
	if g.maxElapsed > 0 && time.Since(g.started) > g.maxElapsed {
		return &domain.LimitError{Steps: g.steps, Elapsed: time.Since(g.started)}
	}
	return nil
}
