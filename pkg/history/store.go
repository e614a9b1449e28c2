package history

import (
	"context"
	"errors"
	"sort"
)

// ErrNotFound is returned when a record ID is unknown to the store.
var ErrNotFound = errors.New("game record not found")

// Store defines the interface for persisting game records.
type Store interface {
	// Save persists the record under its ID, replacing any previous version.
	Save(ctx context.Context, rec Record) error

	// Load retrieves a record. Returns ErrNotFound if it does not exist.
	Load(ctx context.Context, id string) (Record, error)

	// List returns all records, most recent first.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

// SortRecent orders records by FinishedAt, most recent first.
func SortRecent(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].FinishedAt.After(recs[j].FinishedAt)
	})
}
