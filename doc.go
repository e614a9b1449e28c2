/*
Package tictac is a host-side client for a tic-tac-toe game running on a
microcontroller board attached over a serial line.

The board speaks a newline-terminated text protocol:

	StartGame      -> GameStarted
	SetMode <1..3> -> device-defined acknowledgement
	Move <1..9>    -> BoardState:<9 cells> and/or "X Wins", "O Wins", "Draw"
	GetGameState   -> BoardState:<9 cells>

The library is layered so each part can be used and tested on its own:

  - pkg/serial: a Transport over a native serial port (or tcp://host:port)
    with read and write budgets.
  - pkg/protocol: a Client enforcing one outstanding command at a time.
  - pkg/board: decoding and drawing the 3x3 grid.
  - pkg/game: the session state machine (connect, choose a mode, play or watch).
  - pkg/runner: the interactive terminal loop.

# Usage

	session := tictac.NewSession(serial.Config{Port: "COM5", BaudRate: 9600},
		tictac.WithSettleDelay(2*time.Second),
	)
	defer session.Close()

	if _, err := session.Start(ctx); err != nil {
		log.Fatal(err)
	}
	if _, err := session.SetMode(ctx, domain.ModeManVsAI); err != nil {
		log.Fatal(err)
	}
	reply, err := session.Move(ctx, 5)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(reply.Render())

Sessions are not safe for use by multiple goroutines issuing commands at once;
a second concurrent command fails with domain.ErrBusy.
*/
package tictac
