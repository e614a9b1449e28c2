package serial

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
)

// Config holds the connection parameters. It is immutable once passed to New.
type Config struct {
	Port     string
	BaudRate int
}

// Validate rejects an empty port identifier or a non-positive baud rate.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("%w: port identifier is empty", domain.ErrConfiguration)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: baud rate must be positive, got %d", domain.ErrConfiguration, c.BaudRate)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s@%d", c.Port, c.BaudRate)
}

// Timeouts is the blocking policy applied to reads and writes.
type Timeouts struct {
	ReadConstant    time.Duration
	ReadMultiplier  time.Duration // per byte requested
	WriteConstant   time.Duration
	WriteMultiplier time.Duration // per byte written
}

// DefaultTimeouts matches the COMMTIMEOUTS used by the device's reference host tool.
var DefaultTimeouts = Timeouts{
	ReadConstant:    50 * time.Millisecond,
	ReadMultiplier:  10 * time.Millisecond,
	WriteConstant:   50 * time.Millisecond,
	WriteMultiplier: 10 * time.Millisecond,
}

// ReadWindow returns the budget of one underlying read of n bytes.
func (t Timeouts) ReadWindow(n int) time.Duration {
	return t.ReadConstant + time.Duration(n)*t.ReadMultiplier
}

// WriteBudget returns the budget for writing n bytes.
func (t Timeouts) WriteBudget(n int) time.Duration {
	return t.WriteConstant + time.Duration(n)*t.WriteMultiplier
}

const (
	// ReadBufferSize is the number of bytes requested per underlying read.
	ReadBufferSize = 255
	// DefaultMaxLineLength bounds how many bytes ReadUntil accumulates without a delimiter.
	DefaultMaxLineLength = 4096
)
