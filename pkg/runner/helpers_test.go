package runner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tictac/internal/devicesim"
	"github.com/aretw0/tictac/pkg/board"
	"github.com/aretw0/tictac/pkg/game"
	"github.com/aretw0/tictac/pkg/protocol"
	"github.com/aretw0/tictac/pkg/serial"
)

var testConfig = serial.Config{Port: "COM5", BaudRate: 9600}

// pipeOpener connects every Open to a fresh emulated device over net.Pipe.
func pipeOpener(t *testing.T, serve func(ctx context.Context, conn net.Conn)) serial.Opener {
	return func(ctx context.Context, _ serial.Config) (serial.Port, error) {
		client, server := net.Pipe()
		sctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(func() {
			cancel()
			_ = server.Close()
		})
		go func() {
			defer server.Close()
			serve(sctx, server)
		}()
		return serial.NewStreamPort(client), nil
	}
}

func deviceOpener(t *testing.T, opts ...devicesim.Option) serial.Opener {
	dev := devicesim.New(opts...)
	return pipeOpener(t, func(ctx context.Context, conn net.Conn) {
		_ = dev.ServeConn(ctx, conn)
	})
}

// silentAfterMode answers StartGame and SetMode, then never replies again.
func silentAfterMode(t *testing.T) serial.Opener {
	return pipeOpener(t, func(ctx context.Context, conn net.Conn) {
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			switch protocol.CommandName(sc.Text()) {
			case protocol.CmdStartGame:
				_, _ = io.WriteString(conn, "GameStarted\r\n")
			case protocol.CmdSetMode:
				_, _ = io.WriteString(conn, "ModeSet\r\n")
			}
		}
	})
}

func newSession(opener serial.Opener, timeouts serial.Timeouts) *game.Session {
	tr := serial.New(testConfig, serial.WithOpener(opener), serial.WithTimeouts(timeouts))
	return game.NewSession(protocol.NewClient(tr))
}

// scriptHandler replays canned input lines and records everything shown.
type scriptHandler struct {
	mu      sync.Mutex
	inputs  []string
	prompts []string
	outputs []string
	system  []string
	boards  []board.Board
	// block makes Input wait for ctx once inputs run out instead of returning EOF.
	block bool
}

func (h *scriptHandler) Output(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outputs = append(h.outputs, msg)
	return nil
}

func (h *scriptHandler) Board(ctx context.Context, b board.Board) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.boards = append(h.boards, b)
	return nil
}

func (h *scriptHandler) Input(ctx context.Context, prompt string) (string, error) {
	h.mu.Lock()
	h.prompts = append(h.prompts, prompt)
	if len(h.inputs) > 0 {
		next := h.inputs[0]
		h.inputs = h.inputs[1:]
		h.mu.Unlock()
		return next, nil
	}
	h.mu.Unlock()
	if h.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "", io.EOF
}

func (h *scriptHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.system = append(h.system, msg)
	return nil
}

func (h *scriptHandler) joined() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return strings.Join(h.outputs, "\n")
}

var errRefused = errors.New("refused")

func failingOpener(context.Context, serial.Config) (serial.Port, error) {
	return nil, errRefused
}

var fastTimeouts = serial.Timeouts{
	ReadConstant:    40 * time.Millisecond,
	WriteConstant:   50 * time.Millisecond,
	WriteMultiplier: time.Millisecond,
}
