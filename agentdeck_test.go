package agentdeck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentdeck/backend/local"
	"github.com/hupe1980/agentdeck/controller"
	"github.com/hupe1980/agentdeck/core"
	"github.com/hupe1980/agentdeck/fetch"
	"github.com/hupe1980/agentdeck/model"
)

func awaitTerminal(t *testing.T, c *Console) {
	t.Helper()
	require.Eventually(t, func() bool {
		state := c.State()
		return state == controller.StateCompleted || state == controller.StateFailed
	}, 2*time.Second, 5*time.Millisecond)
}

func TestConsole_SubmitRoundTrip(t *testing.T) {
	mock := model.NewMockModel("test-model")
	mock.AddResponse("hello", "hi there")
	console := New(local.New(mock))
	defer console.Teardown()

	require.NoError(t, console.Submit(context.Background(), "hello"))
	awaitTerminal(t, console)
	require.Equal(t, controller.StateCompleted, console.State())

	entries := console.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].Text)
	assert.Equal(t, "hi there", entries[1].Text)
	assert.True(t, entries[1].Final)
}

func TestConsole_FetchContextTopLevelFailure(t *testing.T) {
	console := New(local.New(model.NewMockModel("test-model")))
	defer console.Teardown()

	// No web fetcher configured: the whole batch fails top-level and is
	// recorded as a single error entry.
	err := console.FetchContext(context.Background(), fetch.Request{
		Kind: fetch.KindWebPage,
		URL:  "https://example.com/",
	})
	require.NoError(t, err)

	entries := console.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, core.EntryError, entries[0].Kind)
	assert.Contains(t, entries[0].Text, "https://example.com/")

	// The failure does not block a later submit.
	require.NoError(t, console.Submit(context.Background(), "hello"))
	awaitTerminal(t, console)
	assert.Equal(t, controller.StateCompleted, console.State())
}

func TestConsole_HistoryRoundTrip(t *testing.T) {
	mock := model.NewMockModel("test-model")
	mock.AddResponse("hello", "hi there")
	console := New(local.New(mock))
	defer console.Teardown()

	require.NoError(t, console.Submit(context.Background(), "hello"))
	awaitTerminal(t, console)

	runIDs, err := console.Records().List()
	require.NoError(t, err)
	require.Len(t, runIDs, 1)

	history, err := console.EnterHistory(runIDs[0])
	require.NoError(t, err)
	assert.True(t, console.Controller().Historical())

	// Live controls are suspended while viewing history.
	assert.ErrorIs(t, console.Submit(context.Background(), "again"), controller.ErrHistoricalView)

	entries := history.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "hi there", entries[1].Text)

	console.ExitHistory()
	require.NoError(t, console.Submit(context.Background(), "again"))
	awaitTerminal(t, console)
}

func TestConsole_EnterHistoryUnknownRun(t *testing.T) {
	console := New(local.New(model.NewMockModel("test-model")))
	defer console.Teardown()

	_, err := console.EnterHistory("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRecordNotFound)
	assert.False(t, console.Controller().Historical(), "history mode must not engage on a failed load")
}
