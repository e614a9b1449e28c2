/*
Package history keeps a ledger of played games.

A Record is written once a session ends (finished, exited or failed). It is an
audit trail for the player, not a checkpoint: sessions are never resumed from
it. Backends implement Store:

  - memory: process-local, the default.
  - file: one JSON document per game under a directory.
  - redis: JSON values plus a sorted index, with optional TTL.
*/
package history
