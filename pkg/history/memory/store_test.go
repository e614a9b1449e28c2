package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/tictac/pkg/history"
	"github.com/aretw0/tictac/pkg/history/historytest"
	"github.com/aretw0/tictac/pkg/history/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	historytest.RunStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	rec := history.Record{ID: "g1", Moves: []int{1, 2}}
	require.NoError(t, store.Save(context.Background(), rec))

	rec.Moves[0] = 9
	loaded, err := store.Load(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, loaded.Moves)
}
