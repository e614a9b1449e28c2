package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tictac/internal/logging"
	"github.com/aretw0/tictac/pkg/board"
	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/protocol"
)

// Conn is what a Session needs from the line protocol layer.
// *protocol.Client implements it.
type Conn interface {
	Open(ctx context.Context) error
	Close() error
	SendCommand(ctx context.Context, cmd string) (string, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHooks configures the lifecycle hooks fired on every transition.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = h
	}
}

// Session is the game state machine. Its round-trip methods must be called
// from one goroutine; State and Snapshot are safe to call concurrently.
type Session struct {
	conn   Conn
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	mu        sync.RWMutex
	state     domain.SessionState
	mode      domain.Mode
	moves     []int
	board     board.Board
	hasBoard  bool
	outcome   domain.Outcome
	winner    board.Cell
	exited    bool
	lastErr   error
	startedAt time.Time
	endedAt   time.Time
}

// NewSession creates an Idle session over conn.
func NewSession(conn Conn, opts ...Option) *Session {
	s := &Session{
		conn:   conn,
		logger: logging.NewNop(),
		state:  domain.StateIdle,
		winner: board.Empty,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Mode returns the selected mode (ModeUnset before selection).
func (s *Session) Mode() domain.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Moves returns the moves submitted so far.
func (s *Session) Moves() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.moves...)
}

// Start opens the connection and asks the device to start a game.
// It is allowed from Idle, Finished and Failed.
func (s *Session) Start(ctx context.Context) (Reply, error) {
	s.mu.Lock()
	if !s.state.CanStart() {
		from := s.state
		s.mu.Unlock()
		return Reply{State: from}, fmt.Errorf("%w: start from %s", domain.ErrInvalidState, from)
	}
	s.mode = domain.ModeUnset
	s.moves = nil
	s.board = board.Board{}
	s.hasBoard = false
	s.outcome = domain.OutcomeNone
	s.winner = board.Empty
	s.exited = false
	s.lastErr = nil
	s.startedAt = time.Now()
	s.endedAt = time.Time{}
	s.mu.Unlock()

	if err := s.transition(ctx, domain.StateConnecting, "start", nil); err != nil {
		return Reply{State: s.State()}, err
	}

	if err := s.conn.Open(ctx); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrConnection, err)
		return Reply{State: domain.StateFailed}, s.fail(ctx, err)
	}
	if err := s.transition(ctx, domain.StateConnected, "open", nil); err != nil {
		return Reply{State: s.State()}, err
	}

	raw, err := s.send(ctx, protocol.CmdStartGame)
	if err != nil {
		return Reply{Command: protocol.CmdStartGame, State: domain.StateFailed}, err
	}
	reply := Reply{Command: protocol.CmdStartGame, Response: protocol.Response{Raw: raw}}
	if !protocol.IsGameStarted(raw) {
		err := fmt.Errorf("%w: expected %q in reply to %s, got %q", domain.ErrProtocol, protocol.MarkerGameStarted, protocol.CmdStartGame, raw)
		reply.State = domain.StateFailed
		return reply, s.fail(ctx, err)
	}
	if err := s.transition(ctx, domain.StateModeSelection, "game started", nil); err != nil {
		return reply, err
	}
	reply.State = domain.StateModeSelection
	return reply, nil
}

// SelectMode parses input as a mode and sends it. Invalid input returns
// ErrUserInput without contacting the device.
func (s *Session) SelectMode(ctx context.Context, input string) (Reply, error) {
	if st := s.State(); st != domain.StateModeSelection {
		return Reply{State: st}, fmt.Errorf("%w: select mode in %s", domain.ErrInvalidState, st)
	}
	m, err := ParseMode(input)
	if err != nil {
		return Reply{State: domain.StateModeSelection}, err
	}
	return s.SetMode(ctx, m)
}

// SetMode sends "SetMode m" and enters Playing, or AutoplayWatching for AI vs AI.
func (s *Session) SetMode(ctx context.Context, m domain.Mode) (Reply, error) {
	if st := s.State(); st != domain.StateModeSelection {
		return Reply{State: st}, fmt.Errorf("%w: select mode in %s", domain.ErrInvalidState, st)
	}
	if !m.Valid() {
		return Reply{State: domain.StateModeSelection}, fmt.Errorf("%w: mode must be 1, 2 or 3, got %d", domain.ErrUserInput, int(m))
	}

	cmd := protocol.SetMode(m)
	raw, err := s.send(ctx, cmd)
	if err != nil {
		return Reply{Command: cmd, State: domain.StateFailed}, err
	}

	next := domain.StatePlaying
	if m.Autoplay() {
		next = domain.StateAutoplayWatching
	}
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
	if err := s.transition(ctx, next, "mode "+m.String(), nil); err != nil {
		return Reply{Command: cmd, State: s.State()}, err
	}
	return s.apply(ctx, cmd, raw, false)
}

// SubmitMove handles one entry of the move loop: "exit" finishes the session,
// anything else must be a cell number in [1, 9].
func (s *Session) SubmitMove(ctx context.Context, input string) (Reply, error) {
	if st := s.State(); st != domain.StatePlaying {
		return Reply{State: st}, fmt.Errorf("%w: move in %s", domain.ErrInvalidState, st)
	}
	if IsExit(input) {
		if err := s.Exit(ctx); err != nil {
			return Reply{State: s.State()}, err
		}
		return Reply{State: domain.StateFinished}, nil
	}
	k, err := ParseMove(input)
	if err != nil {
		return Reply{State: domain.StatePlaying}, err
	}
	return s.Move(ctx, k)
}

// Move sends "Move k". It is only allowed while Playing.
func (s *Session) Move(ctx context.Context, k int) (Reply, error) {
	if st := s.State(); st != domain.StatePlaying {
		return Reply{State: st}, fmt.Errorf("%w: move in %s", domain.ErrInvalidState, st)
	}
	if k < MinMove || k > MaxMove {
		return Reply{State: domain.StatePlaying}, fmt.Errorf("%w: %d is out of range, enter a number between %d and %d", domain.ErrUserInput, k, MinMove, MaxMove)
	}

	cmd := protocol.Move(k)
	raw, err := s.send(ctx, cmd)
	if err != nil {
		return Reply{Command: cmd, State: domain.StateFailed}, err
	}
	s.mu.Lock()
	s.moves = append(s.moves, k)
	s.mu.Unlock()
	return s.apply(ctx, cmd, raw, true)
}

// Poll asks the device for the board while watching an AI vs AI game.
func (s *Session) Poll(ctx context.Context) (Reply, error) {
	if st := s.State(); st != domain.StateAutoplayWatching {
		return Reply{State: st}, fmt.Errorf("%w: poll in %s", domain.ErrInvalidState, st)
	}
	raw, err := s.send(ctx, protocol.CmdGetGameState)
	if err != nil {
		return Reply{Command: protocol.CmdGetGameState, State: domain.StateFailed}, err
	}
	return s.apply(ctx, protocol.CmdGetGameState, raw, true)
}

// Exit ends an ongoing game at the user's request and releases the connection.
func (s *Session) Exit(ctx context.Context) error {
	st := s.State()
	if st != domain.StatePlaying && st != domain.StateAutoplayWatching {
		return fmt.Errorf("%w: exit in %s", domain.ErrInvalidState, st)
	}
	s.mu.Lock()
	s.exited = true
	s.mu.Unlock()
	return s.finish(ctx, "user exit")
}

// Abort moves a non-terminal session to Failed with cause and releases the
// connection. It is a no-op on Idle or terminal sessions.
func (s *Session) Abort(ctx context.Context, cause error) {
	st := s.State()
	if st == domain.StateIdle || st.IsTerminal() {
		return
	}
	_ = s.fail(ctx, cause)
}

// Close releases the connection. Safe to call multiple times and in any state.
func (s *Session) Close() error {
	return s.conn.Close()
}

// send performs one round trip; any failure moves the session to Failed.
func (s *Session) send(ctx context.Context, cmd string) (string, error) {
	raw, err := s.conn.SendCommand(ctx, cmd)
	if err != nil {
		return "", s.fail(ctx, err)
	}
	return raw, nil
}

// apply interprets a reply: remember the board, finish on Wins/Draw,
// otherwise stay in the current state (recorded as a self transition when loop is set).
func (s *Session) apply(ctx context.Context, cmd, raw string, loop bool) (Reply, error) {
	resp, err := protocol.ParseResponse(raw)
	reply := Reply{Command: cmd, Response: resp}
	if err != nil {
		reply.State = domain.StateFailed
		return reply, s.fail(ctx, fmt.Errorf("%w: reply to %s: %w", domain.ErrProtocol, cmd, err))
	}

	s.mu.Lock()
	if resp.HasBoard {
		s.board = resp.Board
		s.hasBoard = true
	}
	if resp.Outcome.IsTerminal() {
		s.outcome = resp.Outcome
		s.winner = resp.Winner
	}
	current := s.state
	s.mu.Unlock()

	if resp.Outcome.IsTerminal() {
		if err := s.finish(ctx, "game over"); err != nil {
			return reply, err
		}
		reply.State = domain.StateFinished
		return reply, nil
	}
	if loop {
		if err := s.transition(ctx, current, cmd, nil); err != nil {
			return reply, err
		}
	}
	reply.State = current
	return reply, nil
}

func (s *Session) finish(ctx context.Context, cause string) error {
	if err := s.transition(ctx, domain.StateFinished, cause, nil); err != nil {
		return err
	}
	s.mu.Lock()
	s.endedAt = time.Now()
	s.mu.Unlock()
	s.release()
	return nil
}

// fail records cause, enters Failed and releases the connection. It returns cause.
func (s *Session) fail(ctx context.Context, cause error) error {
	s.mu.Lock()
	s.lastErr = cause
	s.endedAt = time.Now()
	s.mu.Unlock()
	if err := s.transition(ctx, domain.StateFailed, "failure", cause); err != nil {
		s.logger.Debug("Failure In Terminal State", "err", cause)
	}
	s.release()
	return cause
}

func (s *Session) release() {
	if err := s.conn.Close(); err != nil {
		s.logger.Warn("Disconnect Failed", "err", err)
	}
}

func (s *Session) transition(ctx context.Context, to domain.SessionState, cause string, err error) error {
	s.mu.Lock()
	from := s.state
	if !canTransition(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	s.state = to
	s.mu.Unlock()

	if from != to {
		s.logger.Debug("Transition", "from", from, "to", to, "cause", cause)
	}
	s.hooks.EmitTransition(ctx, &domain.TransitionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransition},
		From:      from,
		To:        to,
		Cause:     cause,
		Err:       err,
	})
	return nil
}

// Err returns the failure that moved the session to Failed, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// IsUserError reports whether err was a rejected input that left the session untouched.
func IsUserError(err error) bool {
	return errors.Is(err, domain.ErrUserInput)
}
