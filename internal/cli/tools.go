package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tictac"
	"github.com/aretw0/tictac/internal/config"
	"github.com/aretw0/tictac/internal/devicesim"
	"github.com/aretw0/tictac/internal/presentation/graph"
	"github.com/aretw0/tictac/pkg/game"
	"github.com/aretw0/tictac/pkg/serial"
)

// ListPorts prints the serial ports found on the host.
func ListPorts(w io.Writer, list func() ([]string, error)) error {
	if list == nil {
		list = serial.ListPorts
	}
	ports, err := list()
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "No serial ports found.")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(w, p)
	}
	return nil
}

// Send performs a single raw round trip and prints the reply.
func Send(ctx context.Context, cfg config.Config, command string, w io.Writer, opts ...tictac.Option) error {
	opts = append([]tictac.Option{
		tictac.WithTimeouts(cfg.SerialTimeouts()),
		tictac.WithSettleDelay(cfg.Connection.Settle),
		tictac.WithMaxLineLength(cfg.Timeouts.MaxLineLength),
	}, opts...)
	client := tictac.NewClient(cfg.Serial(), opts...)
	if err := client.Open(ctx); err != nil {
		return connectionError(err)
	}
	defer client.Close()

	resp, err := client.SendCommand(ctx, command)
	if err != nil {
		return &ExitError{Code: ExitSession, Err: fmt.Errorf("send %q: %w", command, err)}
	}
	fmt.Fprintln(w, resp)
	return nil
}

// Simulate serves an emulated device on addr until ctx is done.
func Simulate(ctx context.Context, addr string, logger *slog.Logger, w io.Writer) error {
	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	printSystemMessage(w, "Emulated device on tcp://%s (Ctrl+C to stop)", addr)
	err := devicesim.New(devicesim.WithLogger(logger)).ListenAndServe(sigCtx, addr)
	return handleExecutionError(err)
}

// WriteStates prints the session state machine as a Mermaid graph.
func WriteStates(w io.Writer) error {
	_, err := fmt.Fprintln(w, graph.GenerateMermaid(game.Transitions(), nil))
	return err
}

// ConfigInit writes a sample configuration file.
func ConfigInit(path string, force bool, w io.Writer) error {
	if err := config.WriteFile(path, config.Sample(), force); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// ConfigShow prints the effective configuration with secrets masked.
func ConfigShow(cfg config.Config, source string, w io.Writer) error {
	if source == "" {
		source = "defaults and environment"
	}
	fmt.Fprintf(w, "# source: %s\n", source)
	return config.WriteYAML(w, cfg, true)
}
