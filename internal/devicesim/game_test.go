package devicesim

import (
	"strings"
	"testing"

	"github.com/aretw0/tictac/pkg/board"
	"github.com/aretw0/tictac/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func started(t *testing.T, mode string) *Game {
	t.Helper()
	g := NewGame()
	require.Equal(t, "GameStarted", g.Handle("StartGame"))
	require.Equal(t, "ModeSet:"+mode, g.Handle("SetMode "+mode))
	return g
}

func TestGame_RejectsBeforeStart(t *testing.T) {
	g := NewGame()
	assert.Equal(t, ReplyNotStarted, g.Handle("SetMode 1"))
	assert.Equal(t, ReplyNotStarted, g.Handle("Move 5"))
	assert.Equal(t, ReplyNotStarted, g.Handle("GetGameState"))
	assert.Equal(t, ReplyUnknown, g.Handle("Dance"))
}

func TestGame_SetMode(t *testing.T) {
	g := NewGame()
	g.Handle("StartGame")
	assert.Equal(t, ReplyInvalidMode, g.Handle("SetMode 4"))
	assert.Equal(t, ReplyInvalidMode, g.Handle("SetMode x"))
	assert.Equal(t, "ModeSet:2", g.Handle("SetMode 2"))
}

func TestGame_ManVsMan(t *testing.T) {
	g := started(t, "1")

	assert.Equal(t, "BoardState:....X....", g.Handle("Move 5"))
	assert.Equal(t, "BoardState:O...X....", g.Handle("Move 1"))
	assert.Equal(t, ReplyInvalidMove, g.Handle("Move 5"), "occupied")
	assert.Equal(t, ReplyInvalidMove, g.Handle("Move 0"))
	assert.Equal(t, ReplyInvalidMove, g.Handle("Move 10"))

	g.Handle("Move 3") // X
	g.Handle("Move 2") // O
	resp := g.Handle("Move 7")
	assert.Equal(t, "BoardState:OOX.X.X.. X Wins", resp)
	assert.Equal(t, ReplyGameOver, g.Handle("Move 9"))

	parsed, err := protocol.ParseResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, board.X, parsed.Winner)
}

func TestGame_Draw(t *testing.T) {
	g := started(t, "1")
	// X O X / X O O / O X X
	var resp string
	for _, k := range []string{"1", "2", "3", "5", "4", "6", "8", "7", "9"} {
		resp = g.Handle("Move " + k)
	}
	assert.Equal(t, "BoardState:XOXXOOOXX Draw", resp)
}

func TestGame_ManVsAI_Responds(t *testing.T) {
	g := started(t, "2")
	resp := g.Handle("Move 1")
	// The AI takes the centre.
	assert.Equal(t, "BoardState:X...O....", resp)
}

func TestGame_ManVsAI_Blocks(t *testing.T) {
	g := started(t, "2")
	g.Handle("Move 1") // X1, O5
	resp := g.Handle("Move 2")
	assert.Equal(t, "BoardState:XXO.O....", resp)
}

func TestGame_AutoplayRunsToEnd(t *testing.T) {
	g := started(t, "3")
	assert.Equal(t, ReplyNotAllowed, g.Handle("Move 1"))

	var resp string
	for i := 0; i < board.Size; i++ {
		resp = g.Handle("GetGameState")
		if strings.Contains(resp, "Wins") || strings.Contains(resp, "Draw") {
			break
		}
	}
	assert.True(t, strings.Contains(resp, "Wins") || strings.Contains(resp, "Draw"), resp)

	// Finished games keep reporting the final board.
	assert.Equal(t, resp, g.Handle("GetGameState"))
}

func TestBestMove(t *testing.T) {
	b, err := board.Parse("XX.OO....")
	require.NoError(t, err)
	assert.Equal(t, 2, bestMove(b, board.X), "win first")
	assert.Equal(t, 5, bestMove(b, board.O), "O wins on its own row")

	b, err = board.Parse("XX..O....")
	require.NoError(t, err)
	assert.Equal(t, 2, bestMove(b, board.O), "block")
}
