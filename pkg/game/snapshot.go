package game

import (
	"time"

	"github.com/aretw0/tictac/pkg/board"
	"github.com/aretw0/tictac/pkg/domain"
)

// Snapshot is a point-in-time copy of a session, safe to serialize.
type Snapshot struct {
	State     domain.SessionState `json:"state"`
	Mode      domain.Mode         `json:"mode"`
	Moves     []int               `json:"moves,omitempty"`
	Board     string              `json:"board,omitempty"`
	Outcome   domain.Outcome      `json:"outcome,omitempty"`
	Winner    string              `json:"winner,omitempty"`
	Exited    bool                `json:"exited,omitempty"`
	Error     string              `json:"error,omitempty"`
	StartedAt time.Time           `json:"started_at,omitzero"`
	EndedAt   time.Time           `json:"ended_at,omitzero"`
}

// Snapshot returns a copy of the session's observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		State:     s.state,
		Mode:      s.mode,
		Moves:     append([]int(nil), s.moves...),
		Outcome:   s.outcome,
		Exited:    s.exited,
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
	}
	if s.hasBoard {
		snap.Board = s.board.Encode()
	}
	if s.outcome == domain.OutcomeWin && s.winner != board.Empty && s.winner.Valid() {
		snap.Winner = s.winner.String()
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}
