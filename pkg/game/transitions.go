package game

import "github.com/aretw0/tictac/pkg/domain"

// allowed lists the legal targets of every state. Failed is reachable from
// every non-terminal state and is added by canTransition.
var allowed = map[domain.SessionState][]domain.SessionState{
	domain.StateIdle:             {domain.StateConnecting},
	domain.StateConnecting:       {domain.StateConnected},
	domain.StateConnected:        {domain.StateModeSelection},
	domain.StateModeSelection:    {domain.StatePlaying, domain.StateAutoplayWatching},
	domain.StatePlaying:          {domain.StatePlaying, domain.StateFinished},
	domain.StateAutoplayWatching: {domain.StateAutoplayWatching, domain.StateFinished},
	domain.StateFinished:         {domain.StateConnecting},
	domain.StateFailed:           {domain.StateConnecting},
}

func canTransition(from, to domain.SessionState) bool {
	if to == domain.StateFailed {
		return !from.IsTerminal()
	}
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Edge is one legal transition.
type Edge struct {
	From domain.SessionState
	To   domain.SessionState
}

// States lists every session state in lifecycle order.
var States = []domain.SessionState{
	domain.StateIdle,
	domain.StateConnecting,
	domain.StateConnected,
	domain.StateModeSelection,
	domain.StatePlaying,
	domain.StateAutoplayWatching,
	domain.StateFinished,
	domain.StateFailed,
}

// Transitions returns the transition table in States order, including the
// implicit edges into Failed.
func Transitions() []Edge {
	var edges []Edge
	for _, from := range States {
		for _, to := range allowed[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
		if canTransition(from, domain.StateFailed) {
			edges = append(edges, Edge{From: from, To: domain.StateFailed})
		}
	}
	return edges
}
