/*
Package game implements the host side of a game session with the remote device.

A Session sequences connection, mode selection, the move loop (or the
autoplay polling loop) and termination:

	Idle -> Connecting -> Connected -> ModeSelection -> Playing          -> Finished
	                                                 \-> AutoplayWatching -/
	any transport or protocol failure                                    -> Failed

Finished and Failed are terminal; a new Start is required to play again.
User input is validated before any command is sent, so a rejected move or
mode never costs a round trip and never changes the state.
*/
package game
