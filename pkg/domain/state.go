package domain

// SessionState is the position of a game session in its state machine.
type SessionState string

const (
	StateIdle             SessionState = "idle"              // Initial state, no handle
	StateConnecting       SessionState = "connecting"        // Transport open in progress
	StateConnected        SessionState = "connected"         // Handle open, game not started
	StateModeSelection    SessionState = "mode_selection"    // Device acknowledged StartGame
	StatePlaying          SessionState = "playing"           // Move loop (ManVsMan, ManVsAI)
	StateAutoplayWatching SessionState = "autoplay_watching" // Polling loop (AIvsAI)
	StateFinished         SessionState = "finished"          // Terminal: game over or user exit
	StateFailed           SessionState = "failed"            // Terminal: connection or protocol failure
)

// IsTerminal reports whether no further protocol activity is allowed in s.
func (s SessionState) IsTerminal() bool {
	return s == StateFinished || s == StateFailed
}

// CanStart reports whether a fresh Start is allowed from s.
func (s SessionState) CanStart() bool {
	return s == StateIdle || s.IsTerminal()
}

func (s SessionState) String() string {
	return string(s)
}
