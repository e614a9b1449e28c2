package tui

import (
	"io"

	"github.com/aretw0/tictac/pkg/board"
	"github.com/muesli/termenv"
)

// CellFormatter colours X red and O blue on w's colour profile.
// On a plain writer the profile is Ascii and cells are unchanged.
func CellFormatter(w io.Writer) func(board.Cell, string) string {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	x := p.Color("#ef4444")
	o := p.Color("#3b82f6")

	return func(c board.Cell, text string) string {
		switch c {
		case board.X:
			return out.String(text).Foreground(x).Bold().String()
		case board.O:
			return out.String(text).Foreground(o).Bold().String()
		default:
			return text
		}
	}
}
