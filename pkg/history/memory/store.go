package memory

import (
	"context"
	"sync"

	"github.com/aretw0/tictac/pkg/history"
)

// Store implements history.Store in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]history.Record
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]history.Record),
	}
}

// Save persists the record in memory.
func (s *Store) Save(ctx context.Context, rec history.Record) error {
	// Copy the moves so the caller can't mutate the stored record.
	rec.Moves = append([]int(nil), rec.Moves...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.ID] = rec
	return nil
}

// Load retrieves the record from memory.
func (s *Store) Load(ctx context.Context, id string) (history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return history.Record{}, history.ErrNotFound
	}
	rec.Moves = append([]int(nil), rec.Moves...)
	return rec, nil
}

// List returns all records, most recent first.
func (s *Store) List(ctx context.Context) ([]history.Record, error) {
	s.mu.RLock()
	recs := make([]history.Record, 0, len(s.data))
	for _, rec := range s.data {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	history.SortRecent(recs)
	return recs, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}
