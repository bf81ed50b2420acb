package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentdeck/core"
)

func TestLog_AppendAndGet(t *testing.T) {
	log := NewLog()
	user := core.NewUserEntry("hello")
	log.Append(user)

	got, ok := log.Get(user.ID)
	require.True(t, ok)
	assert.Equal(t, core.EntryUser, got.Kind)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, 1, log.Len())
}

func TestLog_EntriesIsDefensiveCopy(t *testing.T) {
	log := NewLog()
	log.Append(core.NewUserEntry("hello"))

	entries := log.Entries()
	entries[0].Text = "mutated"

	got, _ := log.Get(entries[0].ID)
	assert.Equal(t, "hello", got.Text)
}

func TestLog_UpdateAgentEntry(t *testing.T) {
	log := NewLog()
	agent := core.NewAgentEntry("run-1")
	log.Append(agent)

	err := log.UpdateAgentEntry(agent.ID, AgentPatch{
		Text:   "partial answer",
		Events: []core.Event{core.NewMessageEvent("run-1", "agent", "partial answer")},
	})
	require.NoError(t, err)

	got, _ := log.Get(agent.ID)
	assert.Equal(t, "partial answer", got.Text)
	assert.Len(t, got.Events, 1)
	assert.False(t, got.Final)

	// Terminal patch freezes the entry.
	err = log.UpdateAgentEntry(agent.ID, AgentPatch{
		Text:        "final answer",
		Diagnostics: []string{"tool quota low"},
		Final:       true,
	})
	require.NoError(t, err)

	got, _ = log.Get(agent.ID)
	assert.True(t, got.Final)
	assert.Equal(t, []string{"tool quota low"}, got.Diagnostics)

	err = log.UpdateAgentEntry(agent.ID, AgentPatch{Text: "late delivery"})
	assert.ErrorIs(t, err, ErrEntryFrozen)
	got, _ = log.Get(agent.ID)
	assert.Equal(t, "final answer", got.Text)
}

func TestLog_UpdateAgentEntry_Errors(t *testing.T) {
	log := NewLog()
	user := core.NewUserEntry("hi")
	log.Append(user)

	assert.ErrorIs(t, log.UpdateAgentEntry("missing", AgentPatch{}), ErrEntryNotFound)
	assert.ErrorIs(t, log.UpdateAgentEntry(user.ID, AgentPatch{}), ErrNotAgentEntry)
}

func TestLog_EntryIDForRun(t *testing.T) {
	log := NewLog()
	agent := core.NewAgentEntry("run-42")
	log.Append(agent)

	id, ok := log.EntryIDForRun("run-42")
	require.True(t, ok)
	assert.Equal(t, agent.ID, id)

	_, ok = log.EntryIDForRun("run-unknown")
	assert.False(t, ok)
}

func TestLog_PendingContext(t *testing.T) {
	log := NewLog()
	assert.Empty(t, log.PendingContext())

	log.Append(core.NewUserEntry("earlier turn"))
	log.Append(core.NewContextBundleEntry([]core.ContextItem{
		core.NewContextItem("page.html", "content-a", core.SourceWebPage),
	}))
	log.Append(core.NewContextBundleEntry([]core.ContextItem{
		core.NewContextItem("main.go", "content-b", core.SourceGitFile),
		core.NewContextItem("util.go", "content-c", core.SourceGitFile),
	}))

	items := log.PendingContext()
	require.Len(t, items, 3)
	assert.Equal(t, "page.html", items[0].Name)
	assert.Equal(t, "main.go", items[1].Name)
	assert.Equal(t, "util.go", items[2].Name)
}

func TestLog_PendingContext_ClosedByErrorEntry(t *testing.T) {
	log := NewLog()
	log.Append(core.NewContextBundleEntry([]core.ContextItem{
		core.NewContextItem("page.html", "content", core.SourceWebPage),
	}))
	log.Append(core.NewErrorEntry("fetch of sibling failed"))

	assert.Empty(t, log.PendingContext())
}

func TestLog_Reset(t *testing.T) {
	log := NewLog()
	agent := core.NewAgentEntry("run-1")
	log.Append(agent)
	log.Reset()

	assert.Zero(t, log.Len())
	_, ok := log.Get(agent.ID)
	assert.False(t, ok)
	_, ok = log.EntryIDForRun("run-1")
	assert.False(t, ok)
}
