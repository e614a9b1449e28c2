package protocol

import (
	"fmt"
	"strings"

	"github.com/aretw0/tictac/pkg/domain"
)

// Commands understood by the device.
const (
	CmdStartGame    = "StartGame"
	CmdSetMode      = "SetMode"
	CmdMove         = "Move"
	CmdGetGameState = "GetGameState"
)

// Markers looked for in device replies.
const (
	MarkerGameStarted = "GameStarted"
	MarkerWins        = "Wins"
	MarkerDraw        = "Draw"

	// BoardPrefix precedes the 9 board cells. The payload starts at len(BoardPrefix).
	BoardPrefix = "BoardState:"
)

// SetMode builds "SetMode <m>".
func SetMode(m domain.Mode) string {
	return fmt.Sprintf("%s %d", CmdSetMode, int(m))
}

// Move builds "Move <cell>" for a 1-based cell number.
func Move(cell int) string {
	return fmt.Sprintf("%s %d", CmdMove, cell)
}

// CommandName returns the verb of cmd ("Move 5" -> "Move"), used as a metric label.
func CommandName(cmd string) string {
	name, _, _ := strings.Cut(cmd, " ")
	return name
}

// IsGameStarted reports whether a StartGame reply acknowledges the start.
func IsGameStarted(resp string) bool {
	return strings.Contains(resp, MarkerGameStarted)
}
