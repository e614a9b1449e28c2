// Package historytest provides a reusable contract suite for history.Store implementations.
package historytest

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store history.Store) {
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	newRecord := func(id string, finished time.Time) history.Record {
		return history.Record{
			ID:         id,
			Port:       "COM5",
			Mode:       domain.ModeManVsAI,
			Status:     history.StatusFinished,
			Outcome:    domain.OutcomeWin,
			Winner:     "X",
			Moves:      []int{5, 1, 9},
			Board:      "XO..X...X",
			StartedAt:  finished.Add(-time.Minute),
			FinishedAt: finished,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := newRecord("contract-save", base)

		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, rec.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.ID, loaded.ID)
		assert.Equal(t, rec.Mode, loaded.Mode)
		assert.Equal(t, rec.Status, loaded.Status)
		assert.Equal(t, rec.Outcome, loaded.Outcome)
		assert.Equal(t, rec.Moves, loaded.Moves)
		assert.Equal(t, rec.Board, loaded.Board)
		assert.True(t, rec.FinishedAt.Equal(loaded.FinishedAt))
		assert.Equal(t, time.Minute, loaded.Duration())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "contract-missing")
		assert.ErrorIs(t, err, history.ErrNotFound)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		rec := newRecord("contract-overwrite", base)
		require.NoError(t, store.Save(ctx, rec))
		rec.Status = history.StatusFailed
		rec.Error = "timeout"
		require.NoError(t, store.Save(ctx, rec))

		loaded, err := store.Load(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, history.StatusFailed, loaded.Status)
		assert.Equal(t, "timeout", loaded.Error)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := newRecord("contract-delete", base)
		require.NoError(t, store.Save(ctx, rec))

		require.NoError(t, store.Delete(ctx, rec.ID), "Delete should not return error")

		_, err := store.Load(ctx, rec.ID)
		assert.ErrorIs(t, err, history.ErrNotFound, "Load after Delete should return ErrNotFound")
		assert.NoError(t, store.Delete(ctx, rec.ID), "Deleting twice is not an error")
	})

	t.Run("Reserved Looking IDs", func(t *testing.T) {
		kept := newRecord("contract-kept", base.Add(3*time.Hour))
		require.NoError(t, store.Save(ctx, kept))
		defer func() { _ = store.Delete(ctx, kept.ID) }()

		for _, id := range []string{"index", "tmp-index"} {
			_, err := store.Load(ctx, id)
			assert.ErrorIs(t, err, history.ErrNotFound, "Load(%q)", id)
			assert.NoError(t, store.Delete(ctx, id), "Delete(%q)", id)
		}

		recs, err := store.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, kept.ID, "deleting unknown ids leaves other records listed")
	})

	t.Run("List Most Recent First", func(t *testing.T) {
		older := newRecord("contract-list-older", base.Add(time.Hour))
		newer := newRecord("contract-list-newer", base.Add(2*time.Hour))
		require.NoError(t, store.Save(ctx, older))
		require.NoError(t, store.Save(ctx, newer))
		defer func() {
			_ = store.Delete(ctx, older.ID)
			_ = store.Delete(ctx, newer.ID)
		}()

		recs, err := store.List(ctx)
		require.NoError(t, err)

		idx := map[string]int{}
		for i, r := range recs {
			idx[r.ID] = i
		}
		require.Contains(t, idx, older.ID)
		require.Contains(t, idx, newer.ID)
		assert.Less(t, idx[newer.ID], idx[older.ID])
	})
}
