package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tictac/internal/logging"
	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/game"
	"github.com/aretw0/tictac/pkg/history"
)

// Prompts and messages shown to the player.
const (
	MsgStarted    = "The game has successfully started."
	PromptMode    = "Choose game mode (1 - Man vs Man, 2 - Man vs AI, 3 - AI vs AI): "
	PromptMove    = "Enter your move (1-9) or 'exit' to exit: "
	MsgBadMode    = "Incorrect entry. Choose 1, 2 or 3."
	MsgBadMove    = "Incorrect entry. Enter a number between 1 and 9."
	MsgGameOver   = "The game is over!"
	replyTemplate = "Server response: %s"
)

// Session is the part of game.Session the runner drives.
type Session interface {
	Start(ctx context.Context) (game.Reply, error)
	SetMode(ctx context.Context, m domain.Mode) (game.Reply, error)
	SelectMode(ctx context.Context, input string) (game.Reply, error)
	SubmitMove(ctx context.Context, input string) (game.Reply, error)
	Poll(ctx context.Context) (game.Reply, error)
	Exit(ctx context.Context) error
	Abort(ctx context.Context, cause error)
	Close() error
	State() domain.SessionState
	Snapshot() game.Snapshot
}

// Result summarises one Run.
type Result struct {
	Status   history.Status
	// Started is set once the device acknowledged StartGame. Runs that fail
	// before that are reported to OnFinish but not saved to history.
	Started  bool
	Snapshot game.Snapshot
	// RecordID is set when the game was saved to history.
	RecordID string
}

// Runner handles the interaction loop of a game session using the provided IO.
type Runner struct {
	handler      IOHandler
	logger       *slog.Logger
	pollInterval time.Duration
	presetMode   domain.Mode
	store        history.Store
	port         string
	onFinish     func(Result)
}

// New creates a Runner. Without WithInputHandler it talks to stdin/stdout.
func New(opts ...Option) *Runner {
	r := &Runner{
		pollInterval: DefaultPollInterval,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.handler == nil {
		r.handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run plays one game on s and closes it before returning.
//
// A nil error means the game finished or the user exited. Interruptions
// (context cancellation, closed input) return the cause with StatusInterrupted;
// connection and mid-game failures return the session error with StatusFailed.
func (r *Runner) Run(ctx context.Context, s Session) (res Result, err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil {
			r.logger.Warn("Close Failed", "err", cerr)
		}
	}()

	if _, err := s.Start(ctx); err != nil {
		res := Result{Status: history.StatusFailed, Snapshot: s.Snapshot()}
		if IsInterrupted(err) {
			res.Status = history.StatusInterrupted
		}
		if r.onFinish != nil {
			r.onFinish(res)
		}
		return res, err
	}
	_ = r.handler.Output(ctx, MsgStarted)

	defer func() {
		res = r.finish(ctx, s, res.Status, err)
	}()

	reply, err := r.chooseMode(ctx, s)
	if err != nil {
		return r.stop(ctx, s, err)
	}
	r.show(ctx, reply)
	if reply.Finished() {
		return r.gameOver(ctx)
	}

	if s.State() == domain.StateAutoplayWatching {
		return r.watch(ctx, s)
	}
	return r.play(ctx, s)
}

func (r *Runner) chooseMode(ctx context.Context, s Session) (game.Reply, error) {
	if r.presetMode.Valid() {
		return s.SetMode(ctx, r.presetMode)
	}
	for {
		input, err := r.handler.Input(ctx, PromptMode)
		if err != nil {
			return game.Reply{}, err
		}
		reply, err := s.SelectMode(ctx, input)
		if game.IsUserError(err) {
			_ = r.handler.SystemOutput(ctx, MsgBadMode)
			continue
		}
		return reply, err
	}
}

func (r *Runner) play(ctx context.Context, s Session) (Result, error) {
	for {
		input, err := r.handler.Input(ctx, PromptMove)
		if err != nil {
			return r.stop(ctx, s, err)
		}
		reply, err := s.SubmitMove(ctx, input)
		if game.IsUserError(err) {
			r.logger.Debug("Rejected Move", "input", input, "err", err)
			_ = r.handler.SystemOutput(ctx, MsgBadMove)
			continue
		}
		if err != nil {
			return r.stop(ctx, s, err)
		}
		if game.IsExit(input) {
			return Result{Status: history.StatusExited}, nil
		}
		r.show(ctx, reply)
		if reply.Finished() {
			return r.gameOver(ctx)
		}
	}
}

func (r *Runner) watch(ctx context.Context, s Session) (Result, error) {
	var tick *time.Ticker
	if r.pollInterval > 0 {
		tick = time.NewTicker(r.pollInterval)
		defer tick.Stop()
	}
	for {
		if err := ctx.Err(); err != nil {
			return r.stop(ctx, s, err)
		}
		reply, err := s.Poll(ctx)
		if err != nil {
			return r.stop(ctx, s, err)
		}
		r.show(ctx, reply)
		if reply.Finished() {
			return r.gameOver(ctx)
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return r.stop(ctx, s, ctx.Err())
			case <-tick.C:
			}
		}
	}
}

func (r *Runner) show(ctx context.Context, reply game.Reply) {
	if reply.Raw != "" {
		_ = r.handler.Output(ctx, fmt.Sprintf(replyTemplate, reply.Raw))
	}
	if reply.HasBoard {
		_ = r.handler.Board(ctx, reply.Board)
	}
}

func (r *Runner) gameOver(ctx context.Context) (Result, error) {
	_ = r.handler.Output(ctx, MsgGameOver)
	return Result{Status: history.StatusFinished}, nil
}

// stop ends the session after err. Interruptions close a running game as
// exited by the user; anything else fails the session if it has not failed already.
func (r *Runner) stop(ctx context.Context, s Session, err error) (Result, error) {
	cctx := context.WithoutCancel(ctx)
	if !IsInterrupted(err) {
		s.Abort(cctx, err)
		return Result{Status: history.StatusFailed}, err
	}
	switch s.State() {
	case domain.StatePlaying, domain.StateAutoplayWatching:
		if xerr := s.Exit(cctx); xerr != nil {
			r.logger.Debug("Exit Failed", "err", xerr)
		}
	default:
		s.Abort(cctx, err)
	}
	return Result{Status: history.StatusInterrupted}, err
}

func (r *Runner) finish(ctx context.Context, s Session, status history.Status, runErr error) Result {
	res := Result{Status: status, Started: true, Snapshot: s.Snapshot()}
	if r.store != nil {
		rec := history.NewRecord(r.port, res.Snapshot, status)
		if status == history.StatusInterrupted && rec.Error == "" && runErr != nil {
			rec.Error = runErr.Error()
		}
		if err := r.store.Save(context.WithoutCancel(ctx), rec); err != nil {
			r.logger.Warn("History Save Failed", "err", err)
		} else {
			res.RecordID = rec.ID
		}
	}
	if r.onFinish != nil {
		r.onFinish(res)
	}
	return res
}

// IsInterrupted reports whether err means the user walked away rather than a failure.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}
