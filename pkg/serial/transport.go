package serial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tictac/internal/logging"
	"github.com/aretw0/tictac/pkg/domain"
)

// ErrAlreadyOpen is returned by Open when the Transport already holds a live handle.
var ErrAlreadyOpen = errors.New("transport already open")

// Transport owns one communication channel and frames reads on a delimiter.
// Write and ReadUntil must not be called concurrently with each other;
// Close may be called at any time and unblocks pending I/O.
type Transport struct {
	cfg      Config
	timeouts Timeouts
	opener   Opener
	settle   time.Duration
	maxLine  int
	logger   *slog.Logger

	mu   sync.Mutex // guards port
	port Port

	readMu  sync.Mutex // guards pending
	pending []byte
}

// New creates a closed Transport for cfg.
func New(cfg Config, opts ...Option) *Transport {
	t := &Transport{
		cfg:      cfg,
		timeouts: DefaultTimeouts,
		opener:   DefaultOpener,
		maxLine:  DefaultMaxLineLength,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the connection parameters.
func (t *Transport) Config() Config {
	return t.cfg
}

// Timeouts returns the blocking policy in effect.
func (t *Transport) Timeouts() Timeouts {
	return t.timeouts
}

// IsOpen reports whether a live handle is held.
func (t *Transport) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// Open acquires and configures the channel.
// On any failure after the port was acquired, the port is closed before returning.
func (t *Transport) Open(ctx context.Context) error {
	if err := t.cfg.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port != nil {
		return ErrAlreadyOpen
	}

	p, err := t.opener(ctx, t.cfg)
	if err != nil {
		if !errors.Is(err, domain.ErrPortUnavailable) && !errors.Is(err, domain.ErrConfiguration) {
			err = fmt.Errorf("%w: %w", domain.ErrPortUnavailable, err)
		}
		return err
	}

	if err := p.SetReadTimeout(t.timeouts.ReadWindow(ReadBufferSize)); err != nil {
		_ = p.Close()
		return fmt.Errorf("%w: set read timeout on %s: %w", domain.ErrConfiguration, t.cfg.Port, err)
	}

	if t.settle > 0 {
		if err := t.waitSettle(ctx, p); err != nil {
			_ = p.Close()
			return err
		}
	}

	t.readMu.Lock()
	t.pending = nil
	t.readMu.Unlock()

	t.port = p
	t.logger.Debug("Port Opened", "port", t.cfg.Port, "baud", t.cfg.BaudRate)
	return nil
}

type inputResetter interface {
	ResetInputBuffer() error
}

func (t *Transport) waitSettle(ctx context.Context, p Port) error {
	timer := time.NewTimer(t.settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for %s to settle: %w", domain.ErrPortUnavailable, t.cfg.Port, ctx.Err())
	case <-timer.C:
	}
	if r, ok := p.(inputResetter); ok {
		if err := r.ResetInputBuffer(); err != nil {
			return fmt.Errorf("%w: reset input buffer: %w", domain.ErrConfiguration, err)
		}
	}
	return nil
}

func (t *Transport) current() (Port, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil, domain.ErrDisconnected
	}
	return t.port, nil
}

type writeResult struct {
	n   int
	err error
}

// Write sends b within the write budget. No acknowledgment is implied.
func (t *Transport) Write(b []byte) (int, error) {
	port, err := t.current()
	if err != nil {
		return 0, err
	}

	payload := append([]byte(nil), b...)
	done := make(chan writeResult, 1)
	go func() {
		n, err := port.Write(payload)
		done <- writeResult{n: n, err: err}
	}()

	budget := t.timeouts.WriteBudget(len(payload))
	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return res.n, t.ioError("write", res.err)
		}
		if res.n < len(payload) {
			return res.n, fmt.Errorf("%w: short write %d/%d bytes", domain.ErrIO, res.n, len(payload))
		}
		t.logger.Debug("TX", "bytes", res.n, "data", string(payload))
		return res.n, nil
	case <-timer.C:
		return 0, fmt.Errorf("%w: write of %d bytes exceeded %s", domain.ErrTimeout, len(payload), budget)
	}
}

// ReadUntil accumulates input until delim is observed and returns the text up
// to and including delim. Bytes following delim are kept for the next call.
func (t *Transport) ReadUntil(delim byte) (string, error) {
	port, err := t.current()
	if err != nil {
		return "", err
	}

	t.readMu.Lock()
	defer t.readMu.Unlock()

	if line, ok := t.takeLine(delim); ok {
		return line, nil
	}

	buf := make([]byte, ReadBufferSize)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			t.pending = append(t.pending, buf[:n]...)
			if line, ok := t.takeLine(delim); ok {
				t.logger.Debug("RX", "bytes", len(line), "data", line)
				return line, nil
			}
			if len(t.pending) > t.maxLine {
				size := len(t.pending)
				t.pending = nil
				return "", fmt.Errorf("%w: %d bytes without delimiter", domain.ErrMalformedResponse, size)
			}
		}
		if err != nil {
			t.pending = nil
			return "", t.ioError("read", err)
		}
		if n == 0 {
			partial := len(t.pending)
			t.pending = nil
			return "", fmt.Errorf("%w: no delimiter within %s (%d bytes pending)",
				domain.ErrTimeout, t.timeouts.ReadWindow(len(buf)), partial)
		}
	}
}

// takeLine removes and returns the first delimited frame from pending.
func (t *Transport) takeLine(delim byte) (string, bool) {
	i := bytes.IndexByte(t.pending, delim)
	if i < 0 {
		return "", false
	}
	line := string(t.pending[:i+1])
	rest := t.pending[i+1:]
	if len(rest) == 0 {
		t.pending = nil
	} else {
		t.pending = append([]byte(nil), rest...)
	}
	return line, true
}

// Discard drops buffered input left over from earlier frames and reports how many bytes were dropped.
func (t *Transport) Discard() int {
	t.readMu.Lock()
	defer t.readMu.Unlock()
	n := len(t.pending)
	t.pending = nil
	return n
}

// Close releases the channel. It is safe to call multiple times.
func (t *Transport) Close() error {
	t.mu.Lock()
	port := t.port
	t.port = nil
	t.mu.Unlock()

	if port == nil {
		return nil
	}
	t.logger.Debug("Port Closed", "port", t.cfg.Port)
	if err := port.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", domain.ErrIO, t.cfg.Port, err)
	}
	return nil
}

// ioError reports a failure on a port that was closed underneath the call as ErrDisconnected.
func (t *Transport) ioError(op string, err error) error {
	if !t.IsOpen() {
		return fmt.Errorf("%w: %s: %w", domain.ErrDisconnected, op, err)
	}
	return fmt.Errorf("%w: %s %s: %w", domain.ErrIO, op, t.cfg.Port, err)
}
