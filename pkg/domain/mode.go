package domain

import "fmt"

// Mode is the game mode selected once per session.
// The numeric value is the one sent on the wire in "SetMode <n>".
type Mode int

const (
	ModeUnset    Mode = 0
	ModeManVsMan Mode = 1
	ModeManVsAI  Mode = 2
	ModeAIvsAI   Mode = 3
)

// Valid reports whether m is one of the three selectable modes.
func (m Mode) Valid() bool {
	return m >= ModeManVsMan && m <= ModeAIvsAI
}

// Autoplay reports whether the host only watches (AI vs AI) instead of submitting moves.
func (m Mode) Autoplay() bool {
	return m == ModeAIvsAI
}

func (m Mode) String() string {
	switch m {
	case ModeManVsMan:
		return "man-vs-man"
	case ModeManVsAI:
		return "man-vs-ai"
	case ModeAIvsAI:
		return "ai-vs-ai"
	case ModeUnset:
		return "unset"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Outcome is the terminal result reported by the remote device.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
)

// IsTerminal reports whether the outcome ends the game.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeWin || o == OutcomeDraw
}
