/*
Package domain contains the core types shared by every tictac component.

It defines the session states and game modes of the host client, the error
taxonomy surfaced by the transport, protocol and session layers, and the
lifecycle hooks used for logging and metrics. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - SessionState: the position of a game session in its state machine.
  - Mode: the game mode selected once per session (ManVsMan, ManVsAI, AIvsAI).
  - Outcome: the terminal result reported by the remote device (Wins, Draw).
  - LifecycleHooks: callbacks fired on transitions and protocol round trips.
*/
package domain
