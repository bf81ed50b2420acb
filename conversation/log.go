package conversation

import (
	"fmt"
	"sync"

	"github.com/hupe1980/agentdeck/core"
)

var (
	// ErrEntryNotFound is returned when no entry carries the requested id.
	ErrEntryNotFound = fmt.Errorf("entry not found")
	// ErrEntryFrozen is returned when patching an entry whose owning run
	// already reached a terminal status.
	ErrEntryFrozen = fmt.Errorf("entry is frozen")
	// ErrNotAgentEntry is returned when patching anything but an agent entry.
	ErrNotAgentEntry = fmt.Errorf("entry is not an agent entry")
)

// AgentPatch is the full-replace update applied to the in-flight agent entry
// on each snapshot delivery. Text and Events overwrite previous values;
// nothing is merged. Diagnostics and Final are set on the terminal delivery.
type AgentPatch struct {
	Text            string
	Events          []core.Event
	ArtifactUpdates map[string]int
	Diagnostics     []string
	Final           bool
}

// Log is the append-only ordered record of what has happened client-side.
// It is safe for concurrent access.
//
// Contract:
//   - Entries returns a defensive copy to avoid external mutation
//   - UpdateAgentEntry is legal only for a non-final agent entry
//   - PendingContext returns the contiguous run of context bundle entries
//     following the most recent user/agent/error entry
type Log struct {
	mu       sync.RWMutex
	entries  []core.ConversationEntry
	index    map[string]int    // entry id -> position
	runIndex map[string]string // run id -> agent entry id
}

// NewLog constructs an empty conversation log.
func NewLog() *Log {
	return &Log{index: make(map[string]int), runIndex: make(map[string]string)}
}

// Append adds an entry to the tail of the log.
func (l *Log) Append(entry core.ConversationEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index[entry.ID] = len(l.entries)
	if entry.Kind == core.EntryAgent && entry.RunID != "" {
		l.runIndex[entry.RunID] = entry.ID
	}
	l.entries = append(l.entries, entry)
}

// Get returns the entry with the given id.
func (l *Log) Get(id string) (core.ConversationEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pos, ok := l.index[id]
	if !ok {
		return core.ConversationEntry{}, false
	}
	return l.entries[pos], true
}

// EntryIDForRun resolves the agent entry owned by a run.
func (l *Log) EntryIDForRun(runID string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.runIndex[runID]
	return id, ok
}

// UpdateAgentEntry patches the agent entry in place (same id). Text and
// Events are authoritative full replacements. Returns ErrEntryFrozen once the
// entry has been finalized by a terminal delivery.
func (l *Log) UpdateAgentEntry(id string, patch AgentPatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.index[id]
	if !ok {
		return ErrEntryNotFound
	}
	entry := &l.entries[pos]
	if entry.Kind != core.EntryAgent {
		return ErrNotAgentEntry
	}
	if entry.Final {
		return ErrEntryFrozen
	}
	entry.Text = patch.Text
	entry.Events = patch.Events
	entry.ArtifactUpdates = patch.ArtifactUpdates
	if patch.Final {
		entry.Diagnostics = patch.Diagnostics
		entry.Final = true
	}
	return nil
}

// Entries returns a copy of the full entry slice to prevent callers from
// mutating internal state.
func (l *Log) Entries() []core.ConversationEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := make([]core.ConversationEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// PendingContext returns the items of the pending-context window: every
// context item held by the contiguous run of context bundle entries following
// the most recent user/agent/error entry. Appending any non-bundle entry
// closes the window, so stale context never leaks into later turns.
func (l *Log) PendingContext() []core.ContextItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	start := len(l.entries)
	for start > 0 && !l.entries[start-1].ClosesContextWindow() {
		start--
	}
	var items []core.ContextItem
	for _, entry := range l.entries[start:] {
		items = append(items, entry.ContextItems...)
	}
	return items
}

// Reset discards every entry, starting an entirely new conversation.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.index = make(map[string]int)
	l.runIndex = make(map[string]string)
}
