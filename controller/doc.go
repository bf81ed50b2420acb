// Package controller implements the run orchestration layer for AgentDeck.
//
// The Controller owns the Initiating -> Streaming -> terminal state machine
// for exactly one active run per conversation. It builds outgoing messages
// from user input plus the pending-context window, starts runs against the
// execution backend, attaches update subscriptions and applies their
// snapshots to the conversation log.
//
// # Responsibilities (abridged)
//   - Message synthesis (pending context block + user text)
//   - Run lifecycle management (last-submit-wins, cancel-then-proceed)
//   - Snapshot application (authoritative full replace, never merge)
//   - Local failure recovery (every failure becomes a log entry; nothing is
//     thrown past Submit)
//
// See controller.go for the operational implementation details.
package controller
