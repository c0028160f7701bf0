package runtime

import (
	"context"
	"time"

	"github.com/aretw0/armature/pkg/domain"
)

// Hook emission helpers. Hooks are optional and run inline; the engine
// guards every field for nil so hosts can register only what they need.

func (e *Engine) emitRunStart(ctx context.Context, runID string, blocks int) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), RunID: runID},
		Blocks:    blocks,
	})
}

func (e *Engine) emitRunEnd(ctx context.Context, runID string, blocks int, outcome domain.Outcome) {
	if e.hooks.OnRunEnd == nil {
		return
	}
	e.hooks.OnRunEnd(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), RunID: runID},
		Blocks:    blocks,
		Outcome:   outcome,
	})
}

func (e *Engine) emitBlockEnter(ctx context.Context, runID string, block domain.Block) {
	if e.hooks.OnBlockEnter == nil {
		return
	}
	e.hooks.OnBlockEnter(ctx, &domain.BlockEvent{
		EventBase:    domain.EventBase{Timestamp: time.Now(), RunID: runID},
		BlockID:      block.ID,
		DefinitionID: block.DefinitionID,
	})
}

func (e *Engine) emitEffectorCall(ctx context.Context, runID, blockID, call string) {
	if e.hooks.OnEffectorCall == nil {
		return
	}
	e.hooks.OnEffectorCall(ctx, &domain.EffectorEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), RunID: runID},
		BlockID:   blockID,
		Call:      call,
	})
}

func (e *Engine) emitEffectorReturn(ctx context.Context, runID, blockID, call string, d time.Duration, isError bool) {
	if e.hooks.OnEffectorReturn == nil {
		return
	}
	e.hooks.OnEffectorReturn(ctx, &domain.EffectorEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), RunID: runID},
		BlockID:   blockID,
		Call:      call,
		Duration:  d,
		IsError:   isError,
	})
}
