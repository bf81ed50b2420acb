package core

import "time"

// EntryKind discriminates conversation entry variants.
type EntryKind string

const (
	// EntryUser is a message typed by the user, shown as typed.
	EntryUser EntryKind = "user"
	// EntryAgent is the (initially placeholder) agent response for one run.
	EntryAgent EntryKind = "agent"
	// EntryError records a locally recovered failure.
	EntryError EntryKind = "error"
	// EntryContextBundle groups fetched context items queued for the next message.
	EntryContextBundle EntryKind = "context"
)

// ConversationEntry is one record of the append-only client-side conversation
// log. Entries are immutable once appended with a single exception: an agent
// entry is created as a placeholder and patched in place (same ID) until its
// owning run reaches a terminal status, after which Final is set and the entry
// is frozen.
type ConversationEntry struct {
	ID        string    `json:"id"`
	Kind      EntryKind `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// Agent entry fields.
	RunID           string         `json:"run_id,omitempty"`
	Events          []Event        `json:"events,omitempty"`
	ArtifactUpdates map[string]int `json:"artifact_updates,omitempty"`
	Diagnostics     []string       `json:"diagnostics,omitempty"`
	Final           bool           `json:"final,omitempty"`

	// Context bundle fields.
	ContextItems []ContextItem `json:"context_items,omitempty"`
}

// NewUserEntry constructs a user entry showing the literal text as typed.
func NewUserEntry(text string) ConversationEntry {
	return ConversationEntry{ID: NewID(), Kind: EntryUser, Text: text, Timestamp: time.Now().UTC()}
}

// NewAgentEntry constructs the mutable placeholder entry for a freshly
// started run.
func NewAgentEntry(runID string) ConversationEntry {
	return ConversationEntry{ID: NewID(), Kind: EntryAgent, RunID: runID, Timestamp: time.Now().UTC()}
}

// NewErrorEntry records a recovered failure as its own entry.
func NewErrorEntry(text string) ConversationEntry {
	return ConversationEntry{ID: NewID(), Kind: EntryError, Text: text, Timestamp: time.Now().UTC()}
}

// NewContextBundleEntry groups successfully fetched items into one entry.
func NewContextBundleEntry(items []ContextItem) ConversationEntry {
	cp := make([]ContextItem, len(items))
	copy(cp, items)
	return ConversationEntry{ID: NewID(), Kind: EntryContextBundle, ContextItems: cp, Timestamp: time.Now().UTC()}
}

// ClosesContextWindow reports whether appending this entry closes the
// pending-context window (any non-bundle entry does).
func (e ConversationEntry) ClosesContextWindow() bool {
	return e.Kind != EntryContextBundle
}
