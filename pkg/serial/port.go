package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
	bugserial "go.bug.st/serial"
)

// Port is the subset of a serial port used by Transport.
// A Read that times out returns 0, nil.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Opener acquires and configures a Port.
type Opener func(ctx context.Context, cfg Config) (Port, error)

const tcpScheme = "tcp://"

// DefaultOpener dispatches "tcp://" identifiers to OpenTCP and everything else to OpenNative.
func DefaultOpener(ctx context.Context, cfg Config) (Port, error) {
	if strings.HasPrefix(cfg.Port, tcpScheme) {
		return OpenTCP(ctx, cfg)
	}
	return OpenNative(ctx, cfg)
}

// OpenNative opens a local serial device as 8N1 at the configured baud rate.
func OpenNative(_ context.Context, cfg Config) (Port, error) {
	mode := &bugserial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   bugserial.NoParity,
		StopBits: bugserial.OneStopBit,
	}
	p, err := bugserial.Open(cfg.Port, mode)
	if err != nil {
		return nil, classifyOpenError(cfg.Port, err)
	}
	return p, nil
}

// classifyOpenError maps driver errors to PortUnavailable or ConfigurationError.
func classifyOpenError(name string, err error) error {
	var pe *bugserial.PortError
	if errors.As(err, &pe) {
		switch pe.Code() {
		case bugserial.InvalidSpeed, bugserial.InvalidDataBits, bugserial.InvalidParity, bugserial.InvalidStopBits:
			return fmt.Errorf("%w: configure %s: %w", domain.ErrConfiguration, name, err)
		}
	}
	return fmt.Errorf("%w: open %s: %w", domain.ErrPortUnavailable, name, err)
}

// ListPorts returns the serial ports present on the host.
func ListPorts() ([]string, error) {
	ports, err := bugserial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate ports: %w", domain.ErrIO, err)
	}
	return ports, nil
}
