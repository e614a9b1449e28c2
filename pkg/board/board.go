// Package board maps the 9-cell board encoding reported by the device to a
// text grid. It performs no I/O and holds no state.
package board

import (
	"fmt"
	"strings"

	"github.com/aretw0/tictac/pkg/domain"
)

// Size is the number of cells on the board.
const Size = 9

// Cell is one square of the board.
type Cell byte

const (
	Empty Cell = ' '
	X     Cell = 'X'
	O     Cell = 'O'
)

// CellFromByte maps a payload character to a cell. Anything other than X or O is Empty.
func CellFromByte(c byte) Cell {
	switch Cell(c) {
	case X:
		return X
	case O:
		return O
	default:
		return Empty
	}
}

// Valid reports whether c is one of Empty, X or O.
func (c Cell) Valid() bool {
	return c == Empty || c == X || c == O
}

func (c Cell) String() string {
	if !c.Valid() {
		return string(Empty)
	}
	return string(c)
}

// Board is the row-major board state: index 0 is top-left, index 8 bottom-right.
type Board [Size]Cell

// Parse decodes a board payload of exactly 9 characters.
func Parse(payload string) (Board, error) {
	var b Board
	if len(payload) != Size {
		return b, fmt.Errorf("%w: board payload has %d cells, want %d", domain.ErrMalformedResponse, len(payload), Size)
	}
	for i := 0; i < Size; i++ {
		b[i] = CellFromByte(payload[i])
	}
	return b, nil
}

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
	n := 0
	for _, cell := range b {
		if cell == c {
			n++
		}
	}
	return n
}

// Encode returns the wire form of b, using '.' for empty cells.
func (b Board) Encode() string {
	var sb strings.Builder
	sb.Grow(Size)
	for _, c := range b {
		switch c {
		case X, O:
			sb.WriteByte(byte(c))
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func (b Board) String() string {
	return Render(b)
}
