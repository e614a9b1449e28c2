package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventCommand    EventType = "command"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TransitionEvent represents a move of the session state machine.
type TransitionEvent struct {
	EventBase
	From  SessionState `json:"from"`
	To    SessionState `json:"to"`
	Cause string       `json:"cause,omitempty"`
	Err   error        `json:"-"`
}

// CommandEvent represents one request/response round trip with the device.
type CommandEvent struct {
	EventBase
	Command  string        `json:"command"`
	Response string        `json:"response,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for session observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnCommand    func(context.Context, *CommandEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnCommand:    chain(h.OnCommand, other.OnCommand),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// EmitTransition fires OnTransition if set.
func (h LifecycleHooks) EmitTransition(ctx context.Context, e *TransitionEvent) {
	if h.OnTransition != nil {
		h.OnTransition(ctx, e)
	}
}

// EmitCommand fires OnCommand if set.
func (h LifecycleHooks) EmitCommand(ctx context.Context, e *CommandEvent) {
	if h.OnCommand != nil {
		h.OnCommand(ctx, e)
	}
}
