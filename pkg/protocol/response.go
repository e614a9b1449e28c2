package protocol

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/tictac/pkg/board"
	"github.com/aretw0/tictac/pkg/domain"
)

// Response is a parsed device reply.
type Response struct {
	Raw string

	// HasBoard is set when Raw starts with BoardPrefix.
	HasBoard bool
	Board    board.Board
	// Trailer is any text following the 9 board cells on the same line.
	Trailer string

	Outcome domain.Outcome
	// Winner is X or O when the reply names the winning side, Empty otherwise.
	Winner board.Cell
}

// ParseResponse interprets one reply line (without its delimiter).
//
// Lines starting with BoardPrefix carry the board in the 9 characters right
// after the prefix; any other count is ErrMalformedResponse. Text after the
// cells must be separated by whitespace and is kept as Trailer. Any other line is
// not board data. The outcome is a substring test on the whole line, so a
// terminal phrase is detected whether or not a board is present.
func ParseResponse(line string) (Response, error) {
	resp := Response{
		Raw:     line,
		Outcome: outcomeOf(line),
		Winner:  board.Empty,
	}
	if resp.Outcome == domain.OutcomeWin {
		resp.Winner = winnerOf(line)
	}

	payload, ok := strings.CutPrefix(line, BoardPrefix)
	if !ok {
		return resp, nil
	}
	if len(payload) > board.Size {
		rest := payload[board.Size:]
		if !unicode.IsSpace(rune(rest[0])) {
			return resp, fmt.Errorf("%w: board payload has more than %d cells", domain.ErrMalformedResponse, board.Size)
		}
		resp.Trailer = strings.TrimSpace(rest)
		payload = payload[:board.Size]
	}
	b, err := board.Parse(payload)
	if err != nil {
		return resp, err
	}
	resp.HasBoard = true
	resp.Board = b
	return resp, nil
}

func outcomeOf(line string) domain.Outcome {
	switch {
	case strings.Contains(line, MarkerWins):
		return domain.OutcomeWin
	case strings.Contains(line, MarkerDraw):
		return domain.OutcomeDraw
	default:
		return domain.OutcomeNone
	}
}

func winnerOf(line string) board.Cell {
	switch {
	case strings.Contains(line, "X "+MarkerWins):
		return board.X
	case strings.Contains(line, "O "+MarkerWins):
		return board.O
	default:
		return board.Empty
	}
}
