package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/armature"
	"github.com/aretw0/armature/pkg/adapters/sim"
	"github.com/aretw0/armature/pkg/domain"
	"github.com/aretw0/armature/pkg/observability"
)

func TestMetrics_CountRealRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	eng := armature.New(
		armature.WithPacing(time.Microsecond),
		armature.WithHomeSettle(0),
		armature.WithLifecycleHooks(metrics.Hooks()),
	)

	blocks := []domain.Block{
		{ID: "m1", DefinitionID: domain.DefMoveTo, Parameters: map[string]any{"joint": "base", "angle": 90}},
		{ID: "m2", DefinitionID: domain.DefMoveTo, Parameters: map[string]any{"joint": "elbow", "angle": 90}},
		{ID: "g", DefinitionID: domain.DefOpenGripper},
	}

	require.NoError(t, eng.Run(context.Background(), "r1", blocks, sim.New()))

	runs := testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(string(domain.OutcomeCompleted)))
	assert.Equal(t, 1.0, runs)

	moves := testutil.ToFloat64(metrics.BlocksDispatched.WithLabelValues(domain.DefMoveTo))
	assert.Equal(t, 2.0, moves)

	calls := testutil.ToFloat64(metrics.EffectorCalls.WithLabelValues("move_joints", "ok"))
	assert.Equal(t, 2.0, calls)
}
