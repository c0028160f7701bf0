package domain

import (
	"context"
	"errors"
	"time"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeCompleted    Outcome = "completed"
	OutcomeAborted      Outcome = "aborted"
	OutcomeDisconnected Outcome = "disconnected"
	OutcomeLimited      Outcome = "limited"
	OutcomeFailed       Outcome = "failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
}

// BlockEvent marks the dispatch of one block.
type BlockEvent struct {
	EventBase
	BlockID      string `json:"block_id"`
	DefinitionID string `json:"definition_id"`
}

// EffectorEvent marks one call through the effector boundary.
type EffectorEvent struct {
	EventBase
	BlockID  string        `json:"block_id"`
	Call     string        `json:"call"` // move_joints, home, open_gripper, close_gripper
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// RunEvent marks the start or end of a run.
type RunEvent struct {
	EventBase
	Blocks  int     `json:"blocks"`
	Outcome Outcome `json:"outcome,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. All fields are
// optional; hooks run inline with execution and must return quickly.
type LifecycleHooks struct {
	OnRunStart       func(context.Context, *RunEvent)
	OnBlockEnter     func(context.Context, *BlockEvent)
	OnEffectorCall   func(context.Context, *EffectorEvent)
	OnEffectorReturn func(context.Context, *EffectorEvent)
	OnRunEnd         func(context.Context, *RunEvent)
}

// OutcomeFor maps a run error to its outcome class. A nil error is a
// completed run; an unrecognized error is the generic failure path.
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.Is(err, ErrAborted):
		return OutcomeAborted
	case errors.Is(err, ErrConnectionLost):
		return OutcomeDisconnected
	case errors.Is(err, ErrLimitExceeded):
		return OutcomeLimited
	}
	return OutcomeFailed
}
