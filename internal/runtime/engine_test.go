package runtime_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/armature/internal/runtime"
	"github.com/aretw0/armature/pkg/adapters/sim"
	"github.com/aretw0/armature/pkg/domain"
	"github.com/aretw0/armature/pkg/motion"
)

// movesOnly implements just ports.Effector: no homing, no gripper, no
// connectivity probe. Used to verify optional capabilities stay optional.
type movesOnly struct {
	batches [][]motion.ServoTarget
}

func (m *movesOnly) MoveJoints(_ context.Context, targets []motion.ServoTarget) error {
	copied := make([]motion.ServoTarget, len(targets))
	copy(copied, targets)
	m.batches = append(m.batches, copied)
	return nil
}

// fastEngine returns an engine with sub-millisecond pacing so tests don't
// sit in real settle delays.
func fastEngine(opts ...runtime.EngineOption) *runtime.Engine {
	base := []runtime.EngineOption{
		runtime.WithPacing(time.Microsecond),
		runtime.WithHomeSettle(0),
		runtime.WithWaitFallback(time.Microsecond),
	}
	return runtime.NewEngine(append(base, opts...)...)
}

func move(id, joint string, angle any) domain.Block {
	return domain.Block{
		ID:           id,
		DefinitionID: domain.DefMoveTo,
		Parameters:   map[string]any{"joint": joint, "angle": angle},
	}
}

func TestRun_LinearOrder(t *testing.T) {
	eff := sim.New()
	blocks := []domain.Block{
		move("m1", "base", 100),
		move("m2", "elbow", 120),
		{ID: "g1", DefinitionID: domain.DefOpenGripper},
		move("m3", "wrist", 80),
	}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)

	// Homing preamble first (sim implements Homer), then strict array order.
	assert.Equal(t, []string{"home", "move_joints", "move_joints", "open_gripper", "move_joints"}, eff.Names())

	calls := eff.Calls()
	assert.Equal(t, 1, calls[1].Targets[0].ServoID)
	assert.Equal(t, 3, calls[2].Targets[0].ServoID)
	assert.Equal(t, 4, calls[4].Targets[0].ServoID)
}

func TestRun_NoHomerSkipsPreamble(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{move("m1", "base", 150)}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)
	require.Len(t, eff.batches, 1)
	assert.Equal(t, 150.0, eff.batches[0][0].Value)
}

func TestRun_MoveClamping(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{
		move("low", "base", 0),
		move("high", "base", 360),
		move("ok", "base", 180),
	}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)
	require.Len(t, eff.batches, 3)
	assert.Equal(t, 70.0, eff.batches[0][0].Value)
	assert.Equal(t, 290.0, eff.batches[1][0].Value)
	assert.Equal(t, 180.0, eff.batches[2][0].Value)
}

func TestRun_InvalidMoveIsSkipped(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{
		move("bad-joint", "antenna", 90),
		move("bad-angle", "base", "sideways"),
		move("nan-angle", "wrist", math.NaN()),
		move("nan-string", "wrist", "NaN"),
		move("inf-angle", "elbow", math.Inf(1)),
		move("ok", "shoulder", 90),
	}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)
	require.Len(t, eff.batches, 1, "only the valid move reaches the effector")
	assert.Equal(t, 2, eff.batches[0][0].ServoID)
}

func TestRun_StringAngleParses(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{move("m", "base", "200")}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)
	require.Len(t, eff.batches, 1)
	assert.Equal(t, 200.0, eff.batches[0][0].Value)
}

func TestRun_Repeat(t *testing.T) {
	t.Run("Three Times In Order", func(t *testing.T) {
		eff := &movesOnly{}
		blocks := []domain.Block{
			{ID: "rep", DefinitionID: domain.DefRepeat, Parameters: map[string]any{"times": 3}},
			{ID: "c1", DefinitionID: domain.DefMoveTo, ParentID: "rep", Parameters: map[string]any{"joint": "base", "angle": 90}},
			{ID: "c2", DefinitionID: domain.DefMoveTo, ParentID: "rep", Parameters: map[string]any{"joint": "elbow", "angle": 90}},
		}

		err := fastEngine().Run(context.Background(), "r1", blocks, eff)
		require.NoError(t, err)
		require.Len(t, eff.batches, 6)
		for i := 0; i < 6; i += 2 {
			assert.Equal(t, 1, eff.batches[i][0].ServoID)
			assert.Equal(t, 3, eff.batches[i+1][0].ServoID)
		}
	})

	t.Run("Unparseable Times Defaults To One", func(t *testing.T) {
		eff := &movesOnly{}
		blocks := []domain.Block{
			{ID: "rep", DefinitionID: domain.DefRepeat, Parameters: map[string]any{"times": "invalid"}},
			{ID: "c1", DefinitionID: domain.DefMoveTo, ParentID: "rep", Parameters: map[string]any{"joint": "base", "angle": 90}},
		}

		err := fastEngine().Run(context.Background(), "r1", blocks, eff)
		require.NoError(t, err)
		assert.Len(t, eff.batches, 1)
	})
}

func TestRun_IfCondition(t *testing.T) {
	build := func(condition any) ([]domain.Block, *movesOnly) {
		return []domain.Block{
			{ID: "if", DefinitionID: domain.DefIfCondition, Parameters: map[string]any{"condition": condition}},
			{ID: "c1", DefinitionID: domain.DefMoveTo, ParentID: "if", Parameters: map[string]any{"joint": "base", "angle": 90}},
			{ID: "c2", DefinitionID: domain.DefMoveTo, ParentID: "if", Parameters: map[string]any{"joint": "elbow", "angle": 90}},
		}, &movesOnly{}
	}

	t.Run("False Skips Children", func(t *testing.T) {
		blocks, eff := build(false)
		require.NoError(t, fastEngine().Run(context.Background(), "r1", blocks, eff))
		assert.Empty(t, eff.batches)
	})

	t.Run("True Runs All Children", func(t *testing.T) {
		blocks, eff := build(true)
		require.NoError(t, fastEngine().Run(context.Background(), "r1", blocks, eff))
		assert.Len(t, eff.batches, 2)
	})

	t.Run("String True Is Truthy", func(t *testing.T) {
		blocks, eff := build("true")
		require.NoError(t, fastEngine().Run(context.Background(), "r1", blocks, eff))
		assert.Len(t, eff.batches, 2)
	})
}

func TestRun_IfElseBranches(t *testing.T) {
	build := func(condition bool) ([]domain.Block, *movesOnly) {
		return []domain.Block{
			{ID: "br", DefinitionID: domain.DefIfElse, Parameters: map[string]any{"condition": condition}},
			{ID: "t1", DefinitionID: domain.DefMoveTo, ParentID: "br", ChildSlot: domain.SlotThen, Parameters: map[string]any{"joint": "base", "angle": 90}},
			{ID: "e1", DefinitionID: domain.DefMoveTo, ParentID: "br", ChildSlot: domain.SlotElse, Parameters: map[string]any{"joint": "elbow", "angle": 90}},
		}, &movesOnly{}
	}

	t.Run("True Takes Then Branch", func(t *testing.T) {
		blocks, eff := build(true)
		require.NoError(t, fastEngine().Run(context.Background(), "r1", blocks, eff))
		require.Len(t, eff.batches, 1)
		assert.Equal(t, 1, eff.batches[0][0].ServoID)
	})

	t.Run("False Takes Else Branch", func(t *testing.T) {
		blocks, eff := build(false)
		require.NoError(t, fastEngine().Run(context.Background(), "r1", blocks, eff))
		require.Len(t, eff.batches, 1)
		assert.Equal(t, 3, eff.batches[0][0].ServoID)
	})
}

func TestRun_AbortedBeforeStart(t *testing.T) {
	eff := sim.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastEngine().Run(ctx, "r1", []domain.Block{move("m", "base", 90)}, eff)
	assert.ErrorIs(t, err, domain.ErrAborted)
	assert.Empty(t, eff.Calls(), "no effector call may be issued after abort")
}

func TestRun_AbortMidDelay(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{
		move("m1", "base", 90),
		{ID: "w", DefinitionID: domain.DefWaitSeconds, Parameters: map[string]any{"seconds": 30}},
		move("m2", "elbow", 90),
	}

	ctx, cancel := context.WithCancel(context.Background())
	hooks := domain.LifecycleHooks{
		OnBlockEnter: func(_ context.Context, ev *domain.BlockEvent) {
			if ev.BlockID == "w" {
				cancel()
			}
		},
	}

	start := time.Now()
	err := fastEngine(runtime.WithLifecycleHooks(hooks)).Run(ctx, "r1", blocks, eff)
	assert.ErrorIs(t, err, domain.ErrAborted)
	assert.Less(t, time.Since(start), 5*time.Second, "delay must reject immediately, not finish the sleep")
	assert.Len(t, eff.batches, 1, "no further effector calls after the abort")
}

func TestRun_ConnectionLostBetweenBlocks(t *testing.T) {
	connected := true
	eff := sim.New(sim.WithConnectivity(func() bool { return connected }))
	blocks := []domain.Block{
		move("m1", "base", 90),
		move("m2", "elbow", 90),
	}

	hooks := domain.LifecycleHooks{
		OnEffectorReturn: func(_ context.Context, ev *domain.EffectorEvent) {
			if ev.BlockID == "m1" {
				connected = false
			}
		},
	}

	err := fastEngine(runtime.WithLifecycleHooks(hooks)).Run(context.Background(), "r1", blocks, eff)
	assert.ErrorIs(t, err, domain.ErrConnectionLost)

	names := eff.Names()
	assert.Equal(t, []string{"home", "move_joints"}, names, "the second move must never be issued")
}

func TestRun_WhileLoopHitsSafetyLimit(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{
		{ID: "loop", DefinitionID: domain.DefWhileLoop, Parameters: map[string]any{"condition": true}},
		{ID: "c", DefinitionID: domain.DefMoveTo, ParentID: "loop", Parameters: map[string]any{"joint": "base", "angle": 90}},
	}

	err := fastEngine(runtime.WithStepLimit(50)).Run(context.Background(), "r1", blocks, eff)
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)

	var limitErr *domain.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Greater(t, limitErr.Steps, 50)
}

func TestRun_EmptyRepeatBodyStillBounded(t *testing.T) {
	// A childless repeat with an enormous count must land in the safety
	// budget instead of spinning through every iteration.
	blocks := []domain.Block{
		{ID: "rep", DefinitionID: domain.DefRepeat, Parameters: map[string]any{"times": 300_000_000}},
	}

	start := time.Now()
	err := fastEngine(runtime.WithStepLimit(25)).Run(context.Background(), "r1", blocks, &movesOnly{})
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_RepeatWithSkippedChildrenStillBounded(t *testing.T) {
	// Children that all dispatch to the skip arm spend no effector time,
	// so the per-iteration guard step is what bounds the loop.
	blocks := []domain.Block{
		{ID: "rep", DefinitionID: domain.DefRepeat, Parameters: map[string]any{"times": 300_000_000}},
		{ID: "c", DefinitionID: "dance-macarena", ParentID: "rep"},
	}

	err := fastEngine(runtime.WithStepLimit(25)).Run(context.Background(), "r1", blocks, &movesOnly{})
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
}

func TestRun_EmptyWhileBodyStillBounded(t *testing.T) {
	blocks := []domain.Block{
		{ID: "loop", DefinitionID: domain.DefWhileLoop, Parameters: map[string]any{"condition": "true"}},
	}

	err := fastEngine(runtime.WithStepLimit(25)).Run(context.Background(), "r1", blocks, &movesOnly{})
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
}

func TestRun_WhileLoopObservesParameterEdits(t *testing.T) {
	params := map[string]any{"condition": true}
	blocks := []domain.Block{
		{ID: "loop", DefinitionID: domain.DefWhileLoop, Parameters: params},
		{ID: "c", DefinitionID: domain.DefMoveTo, ParentID: "loop", Parameters: map[string]any{"joint": "base", "angle": 90}},
	}

	eff := &movesOnly{}
	iterations := 0
	hooks := domain.LifecycleHooks{
		OnBlockEnter: func(_ context.Context, ev *domain.BlockEvent) {
			if ev.BlockID == "c" {
				iterations++
				if iterations == 3 {
					// Condition is bound dynamically, so an in-place
					// edit ends the loop on the next check.
					params["condition"] = false
				}
			}
		},
	}

	err := fastEngine(runtime.WithLifecycleHooks(hooks)).Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)
	assert.Len(t, eff.batches, 3)
}

func TestRun_UnknownDefinitionIsSkipped(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{
		{ID: "x", DefinitionID: "dance-macarena"},
		move("m", "base", 90),
	}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)
	assert.Len(t, eff.batches, 1)
}

func TestRun_GripperBlocksAreNoopsWithoutCapability(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{
		{ID: "g1", DefinitionID: domain.DefOpenGripper},
		{ID: "g2", DefinitionID: domain.DefCloseGripper},
		{ID: "h", DefinitionID: domain.DefHomeRobot},
		move("m", "base", 90),
	}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)
	assert.Len(t, eff.batches, 1)
}

func TestRun_EffectorErrorPropagatesUnchanged(t *testing.T) {
	hwErr := errors.New("servo 3 stalled")
	eff := sim.New(sim.WithMoveError(hwErr))
	blocks := []domain.Block{move("m", "base", 90)}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.Error(t, err)
	assert.ErrorIs(t, err, hwErr)
	assert.NotErrorIs(t, err, domain.ErrAborted)
	assert.NotErrorIs(t, err, domain.ErrConnectionLost)
	assert.NotErrorIs(t, err, domain.ErrLimitExceeded)
}

func TestRun_EffectorDeadlineMapsToAborted(t *testing.T) {
	eff := sim.New(sim.WithMoveError(context.DeadlineExceeded))
	blocks := []domain.Block{move("m", "base", 90)}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	assert.ErrorIs(t, err, domain.ErrAborted)
}

func TestRun_NestedControlFlow(t *testing.T) {
	eff := &movesOnly{}
	blocks := []domain.Block{
		{ID: "outer", DefinitionID: domain.DefRepeat, Parameters: map[string]any{"times": 2}},
		{ID: "inner", DefinitionID: domain.DefRepeat, ParentID: "outer", Parameters: map[string]any{"times": "2"}},
		{ID: "c", DefinitionID: domain.DefMoveTo, ParentID: "inner", Parameters: map[string]any{"joint": "base", "angle": 90}},
	}

	err := fastEngine().Run(context.Background(), "r1", blocks, eff)
	require.NoError(t, err)
	assert.Len(t, eff.batches, 4)
}

func TestRun_HooksReportOutcome(t *testing.T) {
	var got domain.Outcome
	hooks := domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			got = ev.Outcome
		},
	}

	err := fastEngine(runtime.WithLifecycleHooks(hooks)).Run(context.Background(), "r1", []domain.Block{move("m", "base", 90)}, &movesOnly{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCompleted, got)
}
