/*
Package runner drives a game session from an interactive terminal.

It is the bridge between the session state machine (pkg/game) and the user:
the Runner asks for a mode, loops over moves or polls an AI vs AI game, shows
every device reply and the board, and records the finished game.

# Key Components

  - Runner: the interaction loop.
  - IOHandler: decouples how prompts and boards reach the user.
  - TextHandler: the standard implementation for a terminal, with a stdin pump
    so a cancelled context never blocks on a pending read.
  - SanitizeInput: size, UTF-8 and control-character checks applied to every line.

# Usage

	r := runner.New(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithHistory(store, cfg.Connection.Port),
	)

	res, err := r.Run(ctx, session)
*/
package runner
