package devicesim

import "github.com/aretw0/tictac/pkg/board"

// preference is the fallback order: centre, corners, edges.
var preference = [board.Size]int{4, 0, 2, 6, 8, 1, 3, 5, 7}

// bestMove picks a cell for me: win now, else block, else the first free
// cell in preference order. The board must have a free cell.
func bestMove(b board.Board, me board.Cell) int {
	if i, ok := completing(b, me); ok {
		return i
	}
	if i, ok := completing(b, other(me)); ok {
		return i
	}
	for _, i := range preference {
		if b[i] == board.Empty {
			return i
		}
	}
	return -1
}

// completing finds the empty cell that gives c three in a row.
func completing(b board.Board, c board.Cell) (int, bool) {
	for _, l := range lines {
		n, free := 0, -1
		for _, i := range l {
			switch b[i] {
			case c:
				n++
			case board.Empty:
				free = i
			}
		}
		if n == 2 && free >= 0 {
			return free, true
		}
	}
	return 0, false
}
