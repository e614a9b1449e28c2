package runner

import (
	"context"

	"github.com/aretw0/tictac/pkg/board"
)

// IOHandler defines the strategy for interacting with the user.
type IOHandler interface {
	// Output presents one line of content (device replies, status).
	Output(ctx context.Context, msg string) error

	// Board presents the 3x3 grid.
	Board(ctx context.Context, b board.Board) error

	// Input shows prompt and reads one line from the user.
	// It returns ctx.Err() when the context ends first and io.EOF when input is closed.
	Input(ctx context.Context, prompt string) (string, error)

	// SystemOutput presents a meta-message (errors, hints) distinct from content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms content before it is written (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)

// CellFormatter decorates a rendered cell (e.g. colour).
type CellFormatter func(c board.Cell, text string) string
