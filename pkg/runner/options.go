package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/history"
)

// DefaultPollInterval paces GetGameState while watching an AI vs AI game.
const DefaultPollInterval = 500 * time.Millisecond

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithInputHandler configures the IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.handler = handler
	}
}

// WithPollInterval sets the pause between polls in AI vs AI mode.
// Non-positive values poll back to back.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.pollInterval = d
	}
}

// WithPresetMode skips the mode prompt.
func WithPresetMode(m domain.Mode) Option {
	return func(r *Runner) {
		r.presetMode = m
	}
}

// WithHistory records every game that got past Start in store.
// port is copied into each record.
func WithHistory(store history.Store, port string) Option {
	return func(r *Runner) {
		r.store = store
		r.port = port
	}
}

// WithOnFinish registers a callback invoked once per Run with the result.
func WithOnFinish(fn func(Result)) Option {
	return func(r *Runner) {
		r.onFinish = fn
	}
}
