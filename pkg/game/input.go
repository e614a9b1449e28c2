package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/tictac/pkg/domain"
)

// ExitToken ends the move loop.
const ExitToken = "exit"

// Move bounds (1-based cell numbers, row-major).
const (
	MinMove = 1
	MaxMove = 9
)

// ParseMove validates a move entry. The result is in [MinMove, MaxMove].
func ParseMove(input string) (int, error) {
	s := strings.TrimSpace(input)
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number, enter a number between %d and %d", domain.ErrUserInput, s, MinMove, MaxMove)
	}
	if k < MinMove || k > MaxMove {
		return 0, fmt.Errorf("%w: %d is out of range, enter a number between %d and %d", domain.ErrUserInput, k, MinMove, MaxMove)
	}
	return k, nil
}

// ParseMode validates a mode entry ("1", "2" or "3").
func ParseMode(input string) (domain.Mode, error) {
	s := strings.TrimSpace(input)
	n, err := strconv.Atoi(s)
	if err != nil || !domain.Mode(n).Valid() {
		return domain.ModeUnset, fmt.Errorf("%w: mode must be 1, 2 or 3, got %q", domain.ErrUserInput, s)
	}
	return domain.Mode(n), nil
}

// IsExit reports whether input is the exit token.
func IsExit(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), ExitToken)
}
