package devicesim

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/aretw0/tictac/internal/logging"
)

// Device serves the line protocol. Every connection gets its own Game.
type Device struct {
	logger     *slog.Logger
	lineEnding string
	bootBanner string
	latency    time.Duration
}

// Option configures a Device.
type Option func(*Device)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Device) {
		d.logger = logger
	}
}

// WithLineEnding sets the reply terminator. Arduino's println uses "\r\n".
func WithLineEnding(ending string) Option {
	return func(d *Device) {
		d.lineEnding = ending
	}
}

// WithBootBanner makes the device print banner once per connection before
// reading any command, like a board that resets when the port opens.
func WithBootBanner(banner string) Option {
	return func(d *Device) {
		d.bootBanner = banner
	}
}

// WithLatency delays every reply.
func WithLatency(d time.Duration) Option {
	return func(dev *Device) {
		dev.latency = d
	}
}

// New creates a device emulator.
func New(opts ...Option) *Device {
	d := &Device{
		logger:     logging.NewNop(),
		lineEnding: "\r\n",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ServeConn answers commands on rw until it is closed or ctx ends.
func (d *Device) ServeConn(ctx context.Context, rw io.ReadWriter) error {
	g := NewGame()
	w := bufio.NewWriter(rw)

	if d.bootBanner != "" {
		if err := d.reply(w, d.bootBanner); err != nil {
			return err
		}
	}

	sc := bufio.NewScanner(rw)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd := sc.Text()
		resp := g.Handle(cmd)
		d.logger.Debug("Command", "cmd", cmd, "reply", resp)

		if d.latency > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.latency):
			}
		}
		if err := d.reply(w, resp); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func (d *Device) reply(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line + d.lineEnding); err != nil {
		return err
	}
	return w.Flush()
}

// Serve accepts connections on l until ctx ends. It closes l on return.
func (d *Device) Serve(ctx context.Context, l net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()
	defer l.Close()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		d.logger.Info("Client Connected", "remote", conn.RemoteAddr().String())

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer conn.Close()
			cstop := context.AfterFunc(ctx, func() { _ = conn.Close() })
			defer cstop()

			if err := d.ServeConn(ctx, conn); err != nil && ctx.Err() == nil {
				d.logger.Warn("Connection Ended", "remote", conn.RemoteAddr().String(), "err", err)
				return
			}
			d.logger.Info("Client Disconnected", "remote", conn.RemoteAddr().String())
		}()
	}
}

// ListenAndServe listens on the TCP address addr and serves until ctx ends.
func (d *Device) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	d.logger.Info("Device Listening", "addr", l.Addr().String())
	return d.Serve(ctx, l)
}
