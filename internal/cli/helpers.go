package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/tictac/internal/config"
	"github.com/aretw0/tictac/internal/logging"
	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/history"
	"github.com/aretw0/tictac/pkg/runner"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc
	once   sync.Once
	sigCh  chan os.Signal
	mu     sync.Mutex
	sigVal os.Signal
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It behaves like signal.NotifyContext but remembers the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}
	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-ctx.Done():
		}
		sc.once.Do(func() { signal.Stop(sc.sigCh) })
	}()
	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// Without --debug or a log file it stays silent so stdout remains the game UI.
func createLogger(cfg config.Config, debug bool) *slog.Logger {
	opts := cfg.LogOptions()
	if debug {
		opts.Level = slog.LevelDebug
		return logging.NewWithOptions(opts)
	}
	if opts.File != "" {
		return logging.NewWithOptions(opts)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			if e.Err != nil {
				logger.Debug("Transition", "from", e.From, "to", e.To, "cause", e.Cause, "err", e.Err)
				return
			}
			logger.Debug("Transition", "from", e.From, "to", e.To, "cause", e.Cause)
		},
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			if e.Err != nil {
				logger.Debug("Command Failed", "command", e.Command, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.Debug("Command", "command", e.Command, "response", e.Response, "duration", e.Duration)
		},
	}
}

// logCompletion reports how the run ended. Errors that need a message of their
// own (connection, session failure) are printed by the caller.
func logCompletion(w io.Writer, res runner.Result, err error, sig os.Signal) {
	if err == nil {
		if res.Status == history.StatusExited {
			printSystemMessage(w, "Game exited.")
		}
		return
	}
	if !runner.IsInterrupted(err) {
		return
	}
	switch {
	case sig == os.Interrupt:
		fmt.Fprintf(w, "[CTRL+C]\n")
		printSystemMessage(w, "Interrupted.")
	case sig != nil:
		fmt.Fprintf(w, "\n")
		printSystemMessage(w, "Terminated.")
	default:
		fmt.Fprintf(w, "\n")
		printSystemMessage(w, "Input closed.")
	}
}
