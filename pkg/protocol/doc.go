/*
Package protocol implements the line-oriented request/response protocol
spoken by the remote game device.

Every command is one ASCII line; every reply is exactly one line. The device
cannot multiplex, so a Client allows a single outstanding request: a second
SendCommand issued before the first returns fails with domain.ErrBusy instead
of interleaving bytes on the wire.

	StartGame          -> "...GameStarted..."
	SetMode <1|2|3>    -> device-defined acknowledgment
	Move <1-9>         -> "BoardState:<9 cells>" and/or "<X|O> Wins" / "Draw"
	GetGameState       -> "BoardState:<9 cells>"
*/
package protocol
