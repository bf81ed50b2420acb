package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentdeck/conversation"
	"github.com/hupe1980/agentdeck/core"
	"github.com/hupe1980/agentdeck/internal/testutil"
)

func sampleRecord() core.RunRecord {
	return core.RunRecord{
		RunID:     "run-9",
		SessionID: "session-3",
		InputText: "draft the report",
		ContextItems: []core.ContextItem{
			core.NewContextItem("outline.md", "intro, body, close", core.SourceGitFile),
		},
		Status:            core.StatusCompleted,
		FinalResponseText: "report drafted",
		Events: []core.Event{
			testutil.NewEventBuilder().Run("run-9").FunctionCall("write_file", "{}").Build(),
			testutil.NewEventBuilder().Run("run-9").ArtifactDelta("report.md", 1).Build(),
			testutil.NewEventBuilder().Run("run-9").ArtifactDelta("report.md", 2).Build(),
			testutil.NewEventBuilder().Run("run-9").AssistantText("report drafted").Build(),
		},
		Diagnostics: []string{"one search failed"},
		Created:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestEntries_FullReconstruction(t *testing.T) {
	entries := Entries(sampleRecord())
	require.Len(t, entries, 3)

	assert.Equal(t, core.EntryContextBundle, entries[0].Kind)
	require.Len(t, entries[0].ContextItems, 1)
	assert.Equal(t, "outline.md", entries[0].ContextItems[0].Name)

	assert.Equal(t, core.EntryUser, entries[1].Kind)
	assert.Equal(t, "draft the report", entries[1].Text)

	agent := entries[2]
	assert.Equal(t, core.EntryAgent, agent.Kind)
	assert.Equal(t, "run-9", agent.RunID)
	assert.Equal(t, "report drafted", agent.Text)
	assert.True(t, agent.Final)
	assert.Len(t, agent.Events, 4)
	assert.Equal(t, 2, agent.ArtifactUpdates["report.md"], "later event order wins")
	assert.Equal(t, []string{"one search failed"}, agent.Diagnostics)
}

func TestEntries_NoContextItems(t *testing.T) {
	record := sampleRecord()
	record.ContextItems = nil

	entries := Entries(record)
	require.Len(t, entries, 2)
	assert.Equal(t, core.EntryUser, entries[0].Kind)
	assert.Equal(t, core.EntryAgent, entries[1].Kind)
}

func TestEntries_Idempotent(t *testing.T) {
	record := sampleRecord()
	first := Entries(record)
	second := Entries(record)
	assert.Equal(t, first, second, "rebuilding the same record must yield identical entries")
}

func TestRebuild_ProducesFrozenLog(t *testing.T) {
	log := Rebuild(sampleRecord())
	require.Equal(t, 3, log.Len())

	entries := log.Entries()
	assert.True(t, entries[2].Final)

	// A reconstructed agent entry is frozen: patches are rejected.
	err := log.UpdateAgentEntry(entries[2].ID, conversation.AgentPatch{Text: "tampered"})
	assert.ErrorIs(t, err, conversation.ErrEntryFrozen)
}
