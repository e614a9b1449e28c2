package devicesim

import (
	"fmt"
	"strings"

	"github.com/aretw0/tictac/pkg/board"
	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/protocol"
)

// Replies the firmware sends for rejected commands.
const (
	ReplyUnknown     = "Error:UnknownCommand"
	ReplyNotStarted  = "Error:NotStarted"
	ReplyInvalidMode = "Error:InvalidMode"
	ReplyInvalidMove = "Error:InvalidMove"
	ReplyNotAllowed  = "Error:NotAllowed"
	ReplyGameOver    = "Error:GameOver"
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Game is the firmware's view of one match. X always moves first.
type Game struct {
	board   board.Board
	mode    domain.Mode
	turn    board.Cell
	started bool
	over    bool
	winner  board.Cell
}

// NewGame returns a game waiting for StartGame.
func NewGame() *Game {
	g := &Game{}
	g.reset()
	return g
}

func (g *Game) reset() {
	for i := range g.board {
		g.board[i] = board.Empty
	}
	g.mode = domain.ModeUnset
	g.turn = board.X
	g.over = false
	g.winner = board.Empty
}

// Board returns the current grid.
func (g *Game) Board() board.Board { return g.board }

// Handle executes one command line and returns the reply line (without delimiter).
func (g *Game) Handle(line string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch name {
	case protocol.CmdStartGame:
		g.reset()
		g.started = true
		return protocol.MarkerGameStarted
	case protocol.CmdSetMode:
		return g.setMode(arg)
	case protocol.CmdMove:
		return g.move(arg)
	case protocol.CmdGetGameState:
		return g.state()
	default:
		return ReplyUnknown
	}
}

func (g *Game) setMode(arg string) string {
	if !g.started {
		return ReplyNotStarted
	}
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || !domain.Mode(n).Valid() {
		return ReplyInvalidMode
	}
	g.reset()
	g.mode = domain.Mode(n)
	return fmt.Sprintf("ModeSet:%d", n)
}

func (g *Game) move(arg string) string {
	switch {
	case !g.started || g.mode == domain.ModeUnset:
		return ReplyNotStarted
	case g.mode.Autoplay():
		return ReplyNotAllowed
	case g.over:
		return ReplyGameOver
	}
	var k int
	if _, err := fmt.Sscanf(arg, "%d", &k); err != nil || k < 1 || k > board.Size || g.board[k-1] != board.Empty {
		return ReplyInvalidMove
	}

	g.place(k - 1)
	if !g.over && g.mode == domain.ModeManVsAI {
		g.place(bestMove(g.board, g.turn))
	}
	return g.report()
}

func (g *Game) state() string {
	if !g.started {
		return ReplyNotStarted
	}
	if g.mode.Autoplay() && !g.over {
		g.place(bestMove(g.board, g.turn))
	}
	return g.report()
}

func (g *Game) place(i int) {
	g.board[i] = g.turn
	if w := winnerOf(g.board); w != board.Empty {
		g.over, g.winner = true, w
		return
	}
	if g.board.Count(board.Empty) == 0 {
		g.over = true
		return
	}
	g.turn = other(g.turn)
}

func (g *Game) report() string {
	msg := protocol.BoardPrefix + g.board.Encode()
	switch {
	case g.over && g.winner != board.Empty:
		msg += " " + g.winner.String() + " " + protocol.MarkerWins
	case g.over:
		msg += " " + protocol.MarkerDraw
	}
	return msg
}

func winnerOf(b board.Board) board.Cell {
	for _, l := range lines {
		c := b[l[0]]
		if c != board.Empty && c == b[l[1]] && c == b[l[2]] {
			return c
		}
	}
	return board.Empty
}

func other(c board.Cell) board.Cell {
	if c == board.X {
		return board.O
	}
	return board.X
}
