package tictac

import (
	"log/slog"
	"time"

	"github.com/aretw0/tictac/internal/logging"
	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/game"
	"github.com/aretw0/tictac/pkg/protocol"
	"github.com/aretw0/tictac/pkg/serial"
)

// Version is the release version, overridden at build time with -ldflags "-X".
var Version = "0.1.0"

type options struct {
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	serial   []serial.Option
	timeouts *serial.Timeouts
}

// Option defines a functional option for NewSession and NewClient.
type Option func(*options)

// WithLogger sets the logger for every layer.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithTimeouts overrides serial.DefaultTimeouts.
func WithTimeouts(t serial.Timeouts) Option {
	return func(o *options) {
		o.timeouts = &t
	}
}

// WithSettleDelay waits d after opening and flushes boot noise.
func WithSettleDelay(d time.Duration) Option {
	return func(o *options) {
		o.serial = append(o.serial, serial.WithSettleDelay(d))
	}
}

// WithMaxLineLength bounds a single reply line.
func WithMaxLineLength(n int) Option {
	return func(o *options) {
		o.serial = append(o.serial, serial.WithMaxLineLength(n))
	}
}

// WithOpener replaces how the port is acquired (tests, custom bridges).
func WithOpener(op serial.Opener) Option {
	return func(o *options) {
		o.serial = append(o.serial, serial.WithOpener(op))
	}
}

func collect(opts []Option) options {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient builds the transport and line protocol client for cfg.
// The connection is not opened until Open or the first session Start.
func NewClient(cfg serial.Config, opts ...Option) *protocol.Client {
	return newClient(cfg, collect(opts))
}

func newClient(cfg serial.Config, o options) *protocol.Client {
	sopts := append([]serial.Option{serial.WithLogger(o.logger)}, o.serial...)
	if o.timeouts != nil {
		sopts = append(sopts, serial.WithTimeouts(*o.timeouts))
	}
	tr := serial.New(cfg, sopts...)
	return protocol.NewClient(tr, protocol.WithLogger(o.logger), protocol.WithHooks(o.hooks))
}

// NewSession wires a transport, a client and a game session for cfg.
func NewSession(cfg serial.Config, opts ...Option) *game.Session {
	o := collect(opts)
	return game.NewSession(newClient(cfg, o), game.WithLogger(o.logger), game.WithHooks(o.hooks))
}
