// Package devicesim emulates the tic-tac-toe device firmware over any byte stream.
//
// It speaks the same line protocol as the board (StartGame, SetMode, Move,
// GetGameState) so the client can be exercised end to end without hardware,
// either in tests over net.Pipe or from `tictac simulate` over TCP.
package devicesim
