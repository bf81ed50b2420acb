package conversation

import "sync"

// Tracker holds the at-most-one continuity token correlating runs into one
// ongoing agent-side conversation. The token is adopted from a run's first
// non-empty returned identifier and frozen until an explicit Clear.
type Tracker struct {
	mu sync.Mutex
	id string
}

// NewTracker constructs an empty session tracker.
func NewTracker() *Tracker { return &Tracker{} }

// Adopt stores the id if the tracker is empty and the id is non-empty.
// Returns true when the token was adopted.
func (t *Tracker) Adopt(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id != "" || id == "" {
		return false
	}
	t.id = id
	return true
}

// ID returns the current session token, or "" when none is held.
func (t *Tracker) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

// Clear discards the token. The next run starts a new agent-side conversation.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id = ""
}
