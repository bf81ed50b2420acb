package replay

import (
	"github.com/hupe1980/agentdeck/conversation"
	"github.com/hupe1980/agentdeck/core"
)

// Entries reconstructs the ordered conversation entries for one completed run:
// an optional context bundle for the items that rode the submit, the user
// entry, then the frozen agent entry carrying the final text, the full event
// list, merged artifact versions and any terminal diagnostics.
//
// Entry ids are derived from the run id so rebuilding the same record is
// idempotent.
func Entries(record core.RunRecord) []core.ConversationEntry {
	entries := make([]core.ConversationEntry, 0, 3)

	if len(record.ContextItems) > 0 {
		items := make([]core.ContextItem, len(record.ContextItems))
		copy(items, record.ContextItems)
		entries = append(entries, core.ConversationEntry{
			ID:           record.RunID + "/context",
			Kind:         core.EntryContextBundle,
			ContextItems: items,
			Timestamp:    record.Created,
		})
	}

	entries = append(entries, core.ConversationEntry{
		ID:        record.RunID + "/user",
		Kind:      core.EntryUser,
		Text:      record.InputText,
		Timestamp: record.Created,
	})

	events := make([]core.Event, len(record.Events))
	copy(events, record.Events)
	diagnostics := make([]string, len(record.Diagnostics))
	copy(diagnostics, record.Diagnostics)

	entries = append(entries, core.ConversationEntry{
		ID:              record.RunID + "/agent",
		Kind:            core.EntryAgent,
		RunID:           record.RunID,
		Text:            record.FinalResponseText,
		Events:          events,
		ArtifactUpdates: core.MergeArtifactDeltas(events),
		Diagnostics:     diagnostics,
		Final:           true,
		Timestamp:       record.Created,
	})

	return entries
}

// Rebuild materializes the record into a standalone conversation log, ready to
// be rendered by a historical view.
func Rebuild(record core.RunRecord) *conversation.Log {
	log := conversation.NewLog()
	for _, entry := range Entries(record) {
		log.Append(entry)
	}
	return log
}
