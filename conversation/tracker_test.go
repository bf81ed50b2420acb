package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_AdoptFirstNonEmptyWins(t *testing.T) {
	tr := NewTracker()
	assert.Empty(t, tr.ID())

	assert.False(t, tr.Adopt(""))
	assert.True(t, tr.Adopt("session-a"))
	assert.Equal(t, "session-a", tr.ID())

	// Frozen until an explicit clear.
	assert.False(t, tr.Adopt("session-b"))
	assert.Equal(t, "session-a", tr.ID())
}

func TestTracker_Clear(t *testing.T) {
	tr := NewTracker()
	tr.Adopt("session-a")
	tr.Clear()
	assert.Empty(t, tr.ID())
	assert.True(t, tr.Adopt("session-b"))
}
