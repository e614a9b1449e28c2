package cli

import (
	"errors"
	"fmt"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/runner"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitConnection = 1 // Port, configuration or handshake failure before play
	ExitSession    = 2 // Protocol or timeout failure during play
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code. Interruptions are a normal end.
func ExitCode(err error) int {
	if err == nil || runner.IsInterrupted(err) {
		return ExitOK
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	if errors.Is(err, domain.ErrConnection) || errors.Is(err, domain.ErrConfiguration) || errors.Is(err, domain.ErrPortUnavailable) {
		return ExitConnection
	}
	return ExitSession
}

// handleExecutionError turns the outcome of a game into what the command returns.
func handleExecutionError(err error) error {
	if err == nil || runner.IsInterrupted(err) {
		return nil
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return err
	}
	return &ExitError{Code: ExitCode(err), Err: err}
}

// connectionError marks a failure to reach the device.
func connectionError(err error) error {
	return &ExitError{Code: ExitConnection, Err: fmt.Errorf("unable to connect to the device: %w", err)}
}
