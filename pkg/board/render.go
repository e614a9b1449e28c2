package board

import "strings"

const separator = "-------------\n"

// Render draws b as a 3x3 grid:
//
//	-------------
//	| X | O | X |
//	-------------
//	| O | X | O |
//	-------------
//	|   |   | X |
//	-------------
//
// Invalid cells are drawn blank. The output length is the same for every board.
func Render(b Board) string {
	return RenderFunc(b, nil)
}

// RenderFunc draws b like Render, passing each cell's text through format.
// A nil format leaves cells as-is. Output length is only fixed when format
// preserves the width of its input.
func RenderFunc(b Board, format func(Cell, string) string) string {
	var sb strings.Builder
	sb.Grow(len(separator) * 7)
	sb.WriteString(separator)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			c := b[row*3+col]
			text := c.String()
			if format != nil {
				text = format(c, text)
			}
			sb.WriteString("| ")
			sb.WriteString(text)
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
		sb.WriteString(separator)
	}
	return sb.String()
}
