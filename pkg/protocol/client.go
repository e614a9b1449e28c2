package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/tictac/internal/logging"
	"github.com/aretw0/tictac/pkg/domain"
)

// Delimiter terminates every command and reply.
const Delimiter = '\n'

// Conn is the transport contract the Client frames lines over.
// *serial.Transport implements it.
type Conn interface {
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool
	Write(p []byte) (int, error)
	ReadUntil(delim byte) (string, error)
	// Discard drops input buffered from earlier frames and returns its size.
	Discard() int
}

// Client enforces one request, one reply over a Conn.
type Client struct {
	conn   Conn
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	mu sync.Mutex // held for the whole round trip
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHooks configures the lifecycle hooks fired after each round trip.
func WithHooks(h domain.LifecycleHooks) ClientOption {
	return func(c *Client) {
		c.hooks = h
	}
}

// NewClient creates a Client over conn.
func NewClient(conn Conn, opts ...ClientOption) *Client {
	c := &Client{
		conn:   conn,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open opens the underlying connection.
func (c *Client) Open(ctx context.Context) error {
	return c.conn.Open(ctx)
}

// Close releases the underlying connection. Safe to call multiple times.
func (c *Client) Close() error {
	return c.conn.Close()
}

// IsOpen reports whether the underlying connection holds a live handle.
func (c *Client) IsOpen() bool {
	return c.conn.IsOpen()
}

// SendCommand writes cmd followed by a newline and returns the single reply
// line without its delimiter. A trailing carriage return is removed as well.
//
// Only one call may be in flight; a concurrent call fails with ErrBusy.
// The context is checked before any I/O; an in-flight read ends only by its timeout.
func (c *Client) SendCommand(ctx context.Context, cmd string) (string, error) {
	if strings.ContainsAny(cmd, "\r\n") {
		return "", fmt.Errorf("%w: %q contains a line break", domain.ErrInvalidCommand, cmd)
	}
	if !c.mu.TryLock() {
		return "", fmt.Errorf("%w: %q", domain.ErrBusy, cmd)
	}
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.conn.IsOpen() {
		return "", fmt.Errorf("%w: cannot send %q", domain.ErrDisconnected, cmd)
	}

	start := time.Now()
	resp, err := c.roundTrip(cmd)
	c.hooks.EmitCommand(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{Timestamp: start, Type: domain.EventCommand},
		Command:   cmd,
		Response:  resp,
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		c.logger.Debug("Command Failed", "cmd", cmd, "err", err)
		return "", err
	}
	c.logger.Debug("Command", "cmd", cmd, "resp", resp)
	return resp, nil
}

func (c *Client) roundTrip(cmd string) (string, error) {
	if n := c.conn.Discard(); n > 0 {
		c.logger.Warn("Discarded Stale Input", "bytes", n, "before", cmd)
	}

	if _, err := c.conn.Write([]byte(cmd + string(Delimiter))); err != nil {
		return "", fmt.Errorf("send %q: %w", cmd, err)
	}

	line, err := c.conn.ReadUntil(Delimiter)
	if err != nil {
		return "", fmt.Errorf("await reply to %q: %w", cmd, err)
	}
	resp, ok := strings.CutSuffix(line, string(Delimiter))
	if !ok {
		return "", fmt.Errorf("%w: reply to %q is not a complete line", domain.ErrMalformedResponse, cmd)
	}
	return strings.TrimSuffix(resp, "\r"), nil
}
