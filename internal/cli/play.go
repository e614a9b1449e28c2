package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/tictac"
	"github.com/aretw0/tictac/internal/config"
	"github.com/aretw0/tictac/internal/presentation/tui"
	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/history"
	"github.com/aretw0/tictac/pkg/observability"
	"github.com/aretw0/tictac/pkg/runner"
	"github.com/aretw0/tictac/pkg/serial"
)

// PlayOptions configures one interactive game.
type PlayOptions struct {
	Config config.Config
	Debug  bool

	// In and Out default to the process stdin and stdout.
	In  io.Reader
	Out io.Writer

	// Opener replaces the port backend (tests, bridges).
	Opener serial.Opener
}

// RunPlay connects to the device and plays one game in the terminal.
// The returned error is an *ExitError unless the game ended normally or was interrupted.
func RunPlay(ctx context.Context, opts PlayOptions) error {
	cfg := opts.Config
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	logger := createLogger(cfg, opts.Debug)
	tty := tui.IsTerminal(out)

	fmt.Fprintf(out, "Configuration loaded: Port = %s, BaudRate = %d\n", cfg.Connection.Port, cfg.Connection.BaudRate)
	if tty {
		tui.PrintBanner(out)
		if text, err := tui.NewRenderer(tui.Width(out, 80))(tui.Instructions); err == nil {
			fmt.Fprint(out, text)
		}
	} else {
		fmt.Fprintln(out, tui.Welcome)
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	store, closeStore, err := OpenHistory(sigCtx, cfg.History, logger)
	if err != nil {
		return &ExitError{Code: ExitConnection, Err: err}
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("History Close Failed", "err", err)
		}
	}()

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}

	sessionOpts := []tictac.Option{
		tictac.WithLogger(logger),
		tictac.WithLifecycleHooks(hooks),
		tictac.WithTimeouts(cfg.SerialTimeouts()),
		tictac.WithSettleDelay(cfg.Connection.Settle),
		tictac.WithMaxLineLength(cfg.Timeouts.MaxLineLength),
	}
	if opts.Opener != nil {
		sessionOpts = append(sessionOpts, tictac.WithOpener(opts.Opener))
	}
	session := tictac.NewSession(cfg.Serial(), sessionOpts...)

	if cfg.Metrics.Addr != "" {
		srv, err := observability.Listen(cfg.Metrics.Addr,
			observability.NewHandler(metrics, func() any { return session.Snapshot() }),
			observability.WithLogger(logger),
		)
		if err != nil {
			return &ExitError{Code: ExitConnection, Err: fmt.Errorf("metrics: %w", err)}
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		printSystemMessage(out, "Metrics on http://%s/metrics", srv.Addr())
	}

	handlerOpts := []runner.TextHandlerOption{}
	if tty {
		handlerOpts = append(handlerOpts, runner.WithCellFormatter(tui.CellFormatter(out)))
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(runner.NewTextHandler(in, out, handlerOpts...)),
		runner.WithPollInterval(cfg.Game.PollInterval),
		runner.WithHistory(store, cfg.Connection.Port),
		runner.WithOnFinish(func(res runner.Result) {
			metrics.RecordGame(res.Snapshot.Mode, gameOutcome(res))
		}),
	}
	if cfg.Game.Mode != 0 {
		runnerOpts = append(runnerOpts, runner.WithPresetMode(domain.Mode(cfg.Game.Mode)))
	}

	res, runErr := runner.New(runnerOpts...).Run(sigCtx, session)
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}

	logCompletion(out, res, runErr, sigCtx.Signal())
	if runErr != nil && !runner.IsInterrupted(runErr) {
		// A device that never acknowledged StartGame counts as unreachable.
		if errors.Is(runErr, domain.ErrConnection) || !res.Started {
			logger.Error("Connection Failed", "port", cfg.Connection.Port, "err", runErr)
			return connectionError(runErr)
		}
		logger.Error("Session Failed", "state", res.Snapshot.State, "transport", domain.IsTransportError(runErr), "err", runErr)
		return &ExitError{Code: ExitSession, Err: fmt.Errorf("session failed: %w", runErr)}
	}
	if res.RecordID != "" {
		logger.Info("Game Recorded", "id", res.RecordID, "status", res.Status)
	}
	return handleExecutionError(runErr)
}

// gameOutcome is the games_total outcome label for a finished run.
func gameOutcome(res runner.Result) string {
	if res.Status == history.StatusFinished && res.Snapshot.Outcome != domain.OutcomeNone {
		return string(res.Snapshot.Outcome)
	}
	return string(res.Status)
}
