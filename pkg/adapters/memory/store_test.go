package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/armature/pkg/adapters/memory"
	"github.com/aretw0/armature/pkg/domain"
	"github.com/aretw0/armature/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunProgramStoreContract(t, memory.NewStore())
}

func TestStore_IsolatesStoredPrograms(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	original := &domain.Program{
		ID: "p1",
		Blocks: []domain.Block{
			{ID: "b1", DefinitionID: domain.DefWaitSeconds, Parameters: map[string]any{"seconds": 1}},
		},
	}
	require.NoError(t, store.Save(ctx, original))

	// Mutating the caller's copy after Save must not affect the store.
	original.Blocks[0].Parameters["seconds"] = 99

	loaded, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Blocks[0].Parameters["seconds"])

	// Nor may mutating a loaded copy affect subsequent loads.
	loaded.Blocks[0].Parameters["seconds"] = 42
	again, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Blocks[0].Parameters["seconds"])
}
