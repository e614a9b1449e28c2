package observability

import (
	"context"
	"errors"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors for one process. They live on their own
// registry so tests and embedders never collide with the global one.
type Metrics struct {
	Registry *prometheus.Registry

	commands    *prometheus.CounterVec
	roundTrip   *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	games       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictac_commands_total",
				Help: "Device commands by verb and result.",
			},
			[]string{"command", "result"},
		),
		roundTrip: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tictac_round_trip_seconds",
				Help:    "Time from writing a command to reading its reply line.",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"command"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictac_transitions_total",
				Help: "Session state transitions.",
			},
			[]string{"from", "to"},
		),
		games: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictac_games_total",
				Help: "Games played by mode and how they ended.",
			},
			[]string{"mode", "outcome"},
		),
	}
	m.Registry.MustRegister(
		m.commands, m.roundTrip, m.transitions, m.games,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			name := protocol.CommandName(e.Command)
			m.commands.WithLabelValues(name, ResultLabel(e.Err)).Inc()
			m.roundTrip.WithLabelValues(name).Observe(e.Duration.Seconds())
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
	}
}

// RecordGame counts a finished game. outcome is "win", "draw" or how the game
// otherwise ended ("exited", "failed", "interrupted").
func (m *Metrics) RecordGame(mode domain.Mode, outcome string) {
	m.games.WithLabelValues(mode.String(), outcome).Inc()
}

// ResultLabel maps a round-trip error to a low-cardinality label.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrDisconnected):
		return "disconnected"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, domain.ErrBusy):
		return "busy"
	case errors.Is(err, domain.ErrInvalidCommand):
		return "invalid"
	case errors.Is(err, domain.ErrIO):
		return "io"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
