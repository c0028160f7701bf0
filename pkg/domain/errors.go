package domain

import (
	"errors"
	"fmt"
	"time"
)

// The engine has exactly three run-time fault kinds. All of them unwind the
// whole call tree; none are retried internally.

// ErrAborted is returned when the run's context was cancelled, either before
// the first block or mid-run. It is an expected outcome, not an error to
// alarm on.
var ErrAborted = errors.New("execution aborted")

// ErrConnectionLost is returned when the connectivity check went false
// between two dispatch points. The engine stops issuing commands; it does
// not roll anything back.
var ErrConnectionLost = errors.New("robot connection lost")

// ErrLimitExceeded is returned when the safety budget (dispatched blocks or
// wall-clock) is exhausted. It is a deliberate safety stop.
var ErrLimitExceeded = errors.New("execution safety limit exceeded")

// ErrProgramNotFound is returned by program stores for unknown ids.
var ErrProgramNotFound = errors.New("program not found")

// LimitError carries the budget detail behind ErrLimitExceeded.
type LimitError struct {
	Steps   int
	Elapsed time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("execution safety limit exceeded after %d blocks in %s", e.Steps, e.Elapsed.Round(time.Millisecond))
}

func (e *LimitError) Unwrap() error { return ErrLimitExceeded }
