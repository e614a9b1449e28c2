package history

import (
	"time"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/game"
	"github.com/google/uuid"
)

// Status is how a recorded game ended.
type Status string

const (
	StatusFinished    Status = "finished"    // Device reported Wins or Draw
	StatusExited      Status = "exited"      // User typed exit
	StatusFailed      Status = "failed"      // Transport or protocol failure
	StatusInterrupted Status = "interrupted" // Signal or closed input
)

// Record is one played game.
type Record struct {
	ID         string         `json:"id"`
	Port       string         `json:"port"`
	Mode       domain.Mode    `json:"mode"`
	Status     Status         `json:"status"`
	Outcome    domain.Outcome `json:"outcome,omitempty"`
	Winner     string         `json:"winner,omitempty"`
	Moves      []int          `json:"moves,omitempty"`
	Board      string         `json:"board,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Duration returns how long the game lasted.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRecord builds a record with a fresh ID from a session snapshot.
func NewRecord(port string, snap game.Snapshot, status Status) Record {
	finished := snap.EndedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	return Record{
		ID:         uuid.NewString(),
		Port:       port,
		Mode:       snap.Mode,
		Status:     status,
		Outcome:    snap.Outcome,
		Winner:     snap.Winner,
		Moves:      snap.Moves,
		Board:      snap.Board,
		Error:      snap.Error,
		StartedAt:  snap.StartedAt,
		FinishedAt: finished,
	}
}
