package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/armature/pkg/domain"
)

// RunProgramStoreContract runs a suite of tests to verify that a
// ProgramStore implementation adheres to the interface contract.
func RunProgramStoreContract(t *testing.T, store ProgramStore) {
	ctx := context.Background()
	programID := "contract-test-program-" + time.Now().Format("20060102150405")

	sample := func(id string) *domain.Program {
		return &domain.Program{
			ID:   id,
			Name: "wave",
			Blocks: []domain.Block{
				{ID: "b1", DefinitionID: domain.DefRepeat, Parameters: map[string]any{"times": 2}},
				{ID: "b2", DefinitionID: domain.DefMoveTo, ParentID: "b1", Parameters: map[string]any{"joint": "base", "angle": 90}},
				{ID: "b3", DefinitionID: domain.DefWaitSeconds, Parameters: map[string]any{"seconds": 0.5}},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, sample(programID))
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, programID)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Blocks, 3)

		// Block order is execution order and must survive the round trip.
		assert.Equal(t, "b1", loaded.Blocks[0].ID)
		assert.Equal(t, "b2", loaded.Blocks[1].ID)
		assert.Equal(t, "b3", loaded.Blocks[2].ID)
		assert.Equal(t, "b1", loaded.Blocks[1].ParentID)

		// Parameter values may change numeric type across persistence
		// (JSON turns ints into floats); check presence, not type.
		assert.NotNil(t, loaded.Blocks[0].Parameters["times"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+programID)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sample(programID)))

		err := store.Delete(ctx, programID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, programID)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound, "Load after Delete should return ErrProgramNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := programID + "-1"
		id2 := programID + "-2"
		_ = store.Save(ctx, sample(id1))
		_ = store.Save(ctx, sample(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
