package protocol

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedConn answers each ReadUntil with the next scripted reply.
type scriptedConn struct {
	mu      sync.Mutex
	open    bool
	replies []string
	readErr error
	block   chan struct{}
	stale   int

	writes []string
	reads  int
}

func (c *scriptedConn) Open(ctx context.Context) error { c.open = true; return nil }
func (c *scriptedConn) Close() error                   { c.open = false; return nil }
func (c *scriptedConn) IsOpen() bool                   { return c.open }

func (c *scriptedConn) Discard() int {
	n := c.stale
	c.stale = 0
	return n
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, string(p))
	return len(p), nil
}

func (c *scriptedConn) ReadUntil(delim byte) (string, error) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.readErr != nil {
		return "", c.readErr
	}
	if len(c.replies) == 0 {
		return "", fmt.Errorf("%w: script exhausted", domain.ErrTimeout)
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func TestSendCommand_StripsDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		cmd   string
		reply string
		want  string
	}{
		{"Start", CmdStartGame, "GameStarted\n", "GameStarted"},
		{"Board", Move(5), "BoardState:....X....\n", "BoardState:....X...."},
		{"CRLF", CmdGetGameState, "BoardState:.........\r\n", "BoardState:........."},
		{"Empty Line", SetMode(domain.ModeManVsAI), "\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &scriptedConn{open: true, replies: []string{tt.reply}}
			c := NewClient(conn)

			got, err := c.SendCommand(context.Background(), tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{tt.cmd + "\n"}, conn.writes, "exactly one write")
			assert.Equal(t, 1, conn.reads, "exactly one read")
		})
	}
}

func TestSendCommand_RejectsEmbeddedNewline(t *testing.T) {
	conn := &scriptedConn{open: true, replies: []string{"ok\n"}}
	c := NewClient(conn)

	_, err := c.SendCommand(context.Background(), "Move 1\nMove 2")
	assert.ErrorIs(t, err, domain.ErrInvalidCommand)
	assert.Empty(t, conn.writes)
}

func TestSendCommand_Disconnected(t *testing.T) {
	conn := &scriptedConn{open: false}
	c := NewClient(conn)

	_, err := c.SendCommand(context.Background(), CmdStartGame)
	assert.ErrorIs(t, err, domain.ErrDisconnected)
	assert.Empty(t, conn.writes)
}

func TestSendCommand_Timeout(t *testing.T) {
	conn := &scriptedConn{open: true, readErr: fmt.Errorf("%w: silent", domain.ErrTimeout)}
	c := NewClient(conn)

	_, err := c.SendCommand(context.Background(), CmdGetGameState)
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestSendCommand_IncompleteLine(t *testing.T) {
	conn := &scriptedConn{open: true, replies: []string{"GameSta"}}
	c := NewClient(conn)

	_, err := c.SendCommand(context.Background(), CmdStartGame)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestSendCommand_CancelledContext(t *testing.T) {
	conn := &scriptedConn{open: true, replies: []string{"GameStarted\n"}}
	c := NewClient(conn)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SendCommand(ctx, CmdStartGame)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, conn.writes)
}

func TestSendCommand_SingleOutstandingRequest(t *testing.T) {
	conn := &scriptedConn{open: true, replies: []string{"GameStarted\n"}, block: make(chan struct{})}
	c := NewClient(conn)

	done := make(chan error, 1)
	go func() {
		_, err := c.SendCommand(context.Background(), CmdStartGame)
		done <- err
	}()

	// Wait until the first request has been written.
	require.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return len(conn.writes) == 1
	}, time.Second, time.Millisecond)

	_, err := c.SendCommand(context.Background(), CmdGetGameState)
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(conn.block)
	require.NoError(t, <-done)
	assert.Len(t, conn.writes, 1, "the rejected command never reached the wire")
}

func TestSendCommand_DiscardsStaleInput(t *testing.T) {
	conn := &scriptedConn{open: true, stale: 7, replies: []string{"GameStarted\n"}}
	c := NewClient(conn)

	_, err := c.SendCommand(context.Background(), CmdStartGame)
	require.NoError(t, err)
	assert.Zero(t, conn.stale)
}

func TestSendCommand_Hooks(t *testing.T) {
	conn := &scriptedConn{open: true, replies: []string{"GameStarted\n"}}
	var events []*domain.CommandEvent
	c := NewClient(conn, WithHooks(domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			events = append(events, e)
		},
	}))

	_, err := c.SendCommand(context.Background(), CmdStartGame)
	require.NoError(t, err)
	_, err = c.SendCommand(context.Background(), CmdGetGameState)
	require.Error(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, CmdStartGame, events[0].Command)
	assert.Equal(t, "GameStarted", events[0].Response)
	assert.NoError(t, events[0].Err)
	assert.True(t, errors.Is(events[1].Err, domain.ErrTimeout))
}

func TestCommands(t *testing.T) {
	assert.Equal(t, "SetMode 3", SetMode(domain.ModeAIvsAI))
	assert.Equal(t, "Move 9", Move(9))
	assert.Equal(t, "Move", CommandName("Move 9"))
	assert.Equal(t, "GetGameState", CommandName(CmdGetGameState))
	assert.True(t, IsGameStarted("OK GameStarted"))
	assert.False(t, IsGameStarted("Busy"))
}
