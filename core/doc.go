// Package core provides the foundational domain types and interfaces used by
// AgentDeck. It defines the core abstractions for:
//
//   - Conversation entries (the append-only client-side record of a chat)
//   - Context items (externally fetched content queued for the next message)
//   - Runs and snapshots (one execution turn and its push-delivered state)
//   - Events (immutable per-step records carrying artifact deltas)
//   - The RunService contract consumed from the execution backend
//   - Pluggable storage for completed run records
//
// The package intentionally keeps implementation concerns (backends, fetchers,
// controller orchestration) out of scope, exposing small interfaces to enable
// custom collaborators and extensions.
package core
