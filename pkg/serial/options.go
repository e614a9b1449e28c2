package serial

import (
	"log/slog"
	"time"
)

// Option defines a functional option for configuring the Transport.
type Option func(*Transport)

// WithTimeouts overrides DefaultTimeouts.
func WithTimeouts(t Timeouts) Option {
	return func(tr *Transport) {
		tr.timeouts = t
	}
}

// WithOpener replaces the port backend (tests, custom bridges).
func WithOpener(o Opener) Option {
	return func(tr *Transport) {
		tr.opener = o
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(tr *Transport) {
		tr.logger = logger
	}
}

// WithSettleDelay waits d after opening and then drops whatever the device
// printed while booting. Boards that reset when the port opens need ~2s.
func WithSettleDelay(d time.Duration) Option {
	return func(tr *Transport) {
		tr.settle = d
	}
}

// WithMaxLineLength bounds how many bytes ReadUntil accumulates without a delimiter.
func WithMaxLineLength(n int) Option {
	return func(tr *Transport) {
		if n > 0 {
			tr.maxLine = n
		}
	}
}
