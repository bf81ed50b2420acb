package testutil

import (
	"github.com/hupe1980/agentdeck/core"
)

// SnapshotBuilder assembles run snapshots for tests. Defaults to a streaming
// snapshot with no events.
type SnapshotBuilder struct {
	snap core.Snapshot
}

// NewSnapshotBuilder creates a builder bound to a run id.
func NewSnapshotBuilder(runID string) *SnapshotBuilder {
	return &SnapshotBuilder{snap: core.Snapshot{RunID: runID, Status: core.StatusStreaming}}
}

// Status sets the run status (chainable).
func (b *SnapshotBuilder) Status(s core.RunStatus) *SnapshotBuilder {
	b.snap.Status = s
	return b
}

// Text sets the final response text (chainable).
func (b *SnapshotBuilder) Text(t string) *SnapshotBuilder {
	b.snap.FinalResponseText = t
	return b
}

// Session sets the backend-issued session id (chainable).
func (b *SnapshotBuilder) Session(id string) *SnapshotBuilder {
	b.snap.SessionID = id
	return b
}

// Diagnostic appends a non-fatal diagnostic message (chainable).
func (b *SnapshotBuilder) Diagnostic(d string) *SnapshotBuilder {
	b.snap.Diagnostics = append(b.snap.Diagnostics, d)
	return b
}

// Event appends one event to the full event list (chainable).
func (b *SnapshotBuilder) Event(ev core.Event) *SnapshotBuilder {
	b.snap.Events = append(b.snap.Events, ev)
	return b
}

// Build returns the assembled snapshot.
func (b *SnapshotBuilder) Build() core.Snapshot {
	return b.snap
}
