package domain

import "errors"

// Transport errors.
var (
	// ErrPortUnavailable is returned when the channel cannot be acquired.
	ErrPortUnavailable = errors.New("port unavailable")
	// ErrConfiguration is returned when connection parameters are invalid or cannot be applied.
	ErrConfiguration = errors.New("configuration error")
	// ErrIO is returned when a byte-level read or write fails.
	ErrIO = errors.New("i/o error")
	// ErrTimeout is returned when no delimiter arrives within the read budget,
	// or a write does not complete within the write budget.
	ErrTimeout = errors.New("timeout")
)

// Protocol errors.
var (
	// ErrDisconnected is returned when a command is issued without an open handle.
	ErrDisconnected = errors.New("disconnected")
	// ErrMalformedResponse is returned when the accumulated input cannot be framed
	// as a complete line, or a board payload has the wrong length.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrBusy is returned when a command is issued while another is still outstanding.
	ErrBusy = errors.New("request already outstanding")
	// ErrInvalidCommand is returned for commands that would break line framing.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrProtocol is returned when a response does not match the pattern expected
	// in the current session state.
	ErrProtocol = errors.New("protocol error")
)

// Session errors.
var (
	// ErrConnection wraps open failures surfaced by Session.Start.
	ErrConnection = errors.New("connection error")
	// ErrUserInput is returned for a move or mode outside the valid domain.
	// It is recovered locally; no command is sent.
	ErrUserInput = errors.New("invalid user input")
	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrInvalidTransition is returned when the state machine rejects a transition.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// IsTransportError reports whether err originates from the byte channel
// (as opposed to the protocol or the user).
func IsTransportError(err error) bool {
	return errors.Is(err, ErrPortUnavailable) ||
		errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrIO) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrDisconnected)
}
