package game

import (
	"github.com/aretw0/tictac/pkg/board"
	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/protocol"
)

// Reply is the outcome of one round trip as seen by the session.
type Reply struct {
	Command string
	protocol.Response
	// State is the session state after the reply was applied.
	State domain.SessionState
}

// Finished reports whether the reply ended the game.
func (r Reply) Finished() bool {
	return r.Outcome.IsTerminal()
}

// Render returns the board grid, or "" when the reply carried no board.
func (r Reply) Render() string {
	if !r.HasBoard {
		return ""
	}
	return board.Render(r.Board)
}
