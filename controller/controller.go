package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentdeck/conversation"
	"github.com/hupe1980/agentdeck/core"
	"github.com/hupe1980/agentdeck/logging"
)

var (
	// ErrHistoricalView is returned when a live operation is issued while the
	// conversation is showing a historical reconstruction.
	ErrHistoricalView = fmt.Errorf("conversation is in historical view")
	// ErrEmptySubmit is returned when both the user text and the
	// pending-context window are empty.
	ErrEmptySubmit = fmt.Errorf("nothing to submit")
)

// PlaceholderMessage stands in for the user text when a submit carries only
// pending context. It is shown on the user entry and transmitted after the
// context block.
const PlaceholderMessage = "(please use the attached context)"

// State is the controller lifecycle state. It tracks the active run when one
// exists and the outcome of the last run otherwise.
type State string

const (
	// StateIdle means no run has been submitted yet (or the last one was torn down).
	StateIdle State = "idle"
	// StateInitiating covers the window between submit and backend acknowledgement.
	StateInitiating State = "initiating"
	// StateStreaming means a subscription is attached and deliveries are live.
	StateStreaming State = "streaming"
	// StateCompleted means the last run finished successfully.
	StateCompleted State = "completed"
	// StateFailed means the last run failed or was rejected.
	StateFailed State = "failed"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// ConversationRef identifies this conversation towards the backend.
	ConversationRef string
	// Log is the conversation log mutated by this controller.
	Log *conversation.Log
	// Tracker holds the backend session token.
	Tracker *conversation.Tracker
	// RecordStore, when set, receives a RunRecord on every terminal delivery.
	RecordStore core.RunRecordStore
	// Logger for controller observability.
	Logger logging.Logger
}

// Controller drives one conversational turn at a time against a deployed
// agent. All ambient "current run" / "current session" state lives as
// explicit fields on this struct; construct one per conversation. Public
// methods are safe for concurrent use.
type Controller struct {
	service core.RunService
	records core.RunRecordStore
	log     *conversation.Log
	tracker *conversation.Tracker
	ref     string
	logger  logging.Logger

	mu            sync.Mutex
	state         State
	historical    bool
	activity      string
	activeRunID   string
	activeEntryID string
	inputText     string
	boundItems    []core.ContextItem
	unsubscribe   core.Unsubscribe
}

// New constructs a Controller with optional overrides.
func New(service core.RunService, optFns ...func(o *Options)) *Controller {
	opts := Options{
		ConversationRef: core.NewID(),
		Log:             conversation.NewLog(),
		Tracker:         conversation.NewTracker(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Controller{
		service: service,
		records: opts.RecordStore,
		log:     opts.Log,
		tracker: opts.Tracker,
		ref:     opts.ConversationRef,
		logger:  opts.Logger,
		state:   StateIdle,
	}
}

// Log returns the conversation log this controller mutates.
func (c *Controller) Log() *conversation.Log { return c.log }

// Tracker returns the session tracker.
func (c *Controller) Tracker() *conversation.Tracker { return c.tracker }

// ConversationRef returns the backend conversation reference.
func (c *Controller) ConversationRef() string { return c.ref }

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activity returns the transient label derived from the most recent event of
// the active run, or "" when no run is live.
func (c *Controller) Activity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activity
}

// ActiveRunID returns the id of the non-terminal run, or "" when none is active.
func (c *Controller) ActiveRunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeRunID
}

// Historical reports whether live controls are suspended for a historical view.
func (c *Controller) Historical() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.historical
}

// BuildCombinedMessage synthesizes the outgoing message: a delimited block
// listing each pending context item's name and content, followed by the user
// text (or the placeholder marker when the text is empty). With no pending
// items the user text passes through untouched.
func BuildCombinedMessage(items []core.ContextItem, userText string) string {
	if len(items) == 0 {
		return userText
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "--- context: %s ---\n%s\n--- end context ---\n", item.Name, item.Content)
	}
	if userText == "" {
		userText = PlaceholderMessage
	}
	b.WriteString("\n")
	b.WriteString(userText)
	return b.String()
}

// AddContext records assembled context in the log: one bundle entry for the
// valid items followed by one error entry per failed sub-item. Fetch-completion
// order decides the position of concurrent batches.
func (c *Controller) AddContext(valid, failed []core.ContextItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.historical {
		return ErrHistoricalView
	}
	if len(valid) > 0 {
		c.log.Append(core.NewContextBundleEntry(valid))
	}
	for _, item := range failed {
		c.log.Append(core.NewErrorEntry(fmt.Sprintf("failed to fetch %s: %s", item.Name, item.Content)))
	}
	return nil
}

// Submit drives one conversational turn. It returns an error only for
// precondition violations (historical view, nothing to send); run start
// failures are recovered locally into an error entry and a Failed state,
// never propagated to the caller.
//
// A submit issued while a run is non-terminal first tears the current
// subscription down: last submit wins, nothing is queued.
func (c *Controller) Submit(ctx context.Context, userText string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.historical {
		return ErrHistoricalView
	}

	pending := c.log.PendingContext()
	if strings.TrimSpace(userText) == "" && len(pending) == 0 {
		return ErrEmptySubmit
	}

	// Cancel-then-proceed: the previous subscription must be unregistered
	// before any further state mutation.
	c.teardownLocked()

	combined := BuildCombinedMessage(pending, userText)

	display := userText
	if strings.TrimSpace(display) == "" {
		display = PlaceholderMessage
	}
	c.log.Append(core.NewUserEntry(display))

	c.state = StateInitiating
	c.inputText = display
	c.boundItems = pending

	start := time.Now()
	result, err := c.service.StartRun(ctx, c.ref, combined, c.tracker.ID(), pending)
	if err != nil {
		c.logger.Error("start run failed: %v", err)
		c.failStartLocked(fmt.Sprintf("failed to start run: %v", err))
		return nil
	}
	if !result.Success {
		c.logger.Warn("start run rejected: %s", result.Message)
		c.failStartLocked(result.Message)
		return nil
	}

	entry := core.NewAgentEntry(result.RunID)
	c.log.Append(entry)
	c.activeRunID = result.RunID
	c.activeEntryID = entry.ID
	c.state = StateStreaming
	c.logger.Info("run started run_id=%s duration=%s", result.RunID, time.Since(start))

	snapshots, errs, unsubscribe, err := c.service.Subscribe(ctx, c.ref, result.RunID)
	if err != nil {
		c.logger.Error("subscribe failed run_id=%s: %v", result.RunID, err)
		c.failRunLocked(fmt.Sprintf("failed to subscribe to run updates: %v", err))
		return nil
	}
	c.unsubscribe = unsubscribe

	go c.pump(result.RunID, entry.ID, snapshots, errs)

	return nil
}

// pump forwards subscription deliveries into the snapshot handlers until both
// channels close. It runs once per subscription and exits when the backend
// concludes the stream or the subscription is torn down.
func (c *Controller) pump(runID, entryID string, snapshots <-chan core.Snapshot, errs <-chan error) {
	for snapshots != nil || errs != nil {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			c.handleSnapshot(runID, entryID, snap)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				c.handleTransportError(runID, entryID, err)
				return
			}
		}
	}
}

// handleSnapshot applies one full-state delivery. A delivery for a run that
// is no longer the active one is a silent no-op.
func (c *Controller) handleSnapshot(runID, entryID string, snap core.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if runID != c.activeRunID {
		return
	}

	c.tracker.Adopt(snap.SessionID)

	patch := conversation.AgentPatch{
		Text:            snap.FinalResponseText,
		Events:          snap.Events,
		ArtifactUpdates: core.MergeArtifactDeltas(snap.Events),
	}
	terminal := snap.Status.IsTerminal()
	if terminal {
		patch.Diagnostics = snap.Diagnostics
		patch.Final = true
	}
	if err := c.log.UpdateAgentEntry(entryID, patch); err != nil {
		c.logger.Warn("snapshot patch rejected run_id=%s: %v", runID, err)
		return
	}
	c.logger.Debug("snapshot applied run_id=%s status=%s events=%d", runID, string(snap.Status), len(snap.Events))

	if !terminal {
		c.state = StateStreaming
		c.activity = core.ActivityLabel(snap.Events)
		return
	}

	c.saveRecordLocked(snap)
	c.releaseSubscriptionLocked()
	c.activity = ""
	if snap.Status == core.StatusCompleted {
		c.state = StateCompleted
	} else {
		c.state = StateFailed
	}
}

// handleTransportError converts a channel-level failure (including a missing
// run record) into a Failed terminal state with a generic diagnostic.
func (c *Controller) handleTransportError(runID, entryID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if runID != c.activeRunID {
		return
	}

	c.logger.Error("subscription failed run_id=%s: %v", runID, err)
	c.finalizeEntryLocked(entryID, "run update channel failed")
	c.log.Append(core.NewErrorEntry(fmt.Sprintf("lost connection to run: %v", err)))
	c.releaseSubscriptionLocked()
	c.activity = ""
	c.state = StateFailed
}

// Teardown synchronously unregisters the active subscription and abandons the
// in-flight run, if any. Used when the conversation view unmounts.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
}

// EnterHistoricalView suspends live controls after tearing down any active
// subscription. Live and historical modes are mutually exclusive.
func (c *Controller) EnterHistoricalView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
	c.historical = true
}

// ExitHistoricalView re-enables live controls. A run that was live before
// switching away stays abandoned; it must be explicitly restarted.
func (c *Controller) ExitHistoricalView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.historical = false
}

// Reset abandons any active run, clears the session token and the log,
// starting an entirely new conversation.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
	c.tracker.Clear()
	c.log.Reset()
	c.state = StateIdle
}

// failStartLocked records a start-run failure: error entry, Failed state, no
// subscription. Caller must hold c.mu.
func (c *Controller) failStartLocked(message string) {
	if message == "" {
		message = "run could not be started"
	}
	c.log.Append(core.NewErrorEntry(message))
	c.state = StateFailed
	c.activeRunID = ""
	c.activeEntryID = ""
}

// failRunLocked finalizes the placeholder of an acknowledged run whose
// subscription could not be opened. Caller must hold c.mu.
func (c *Controller) failRunLocked(message string) {
	c.finalizeEntryLocked(c.activeEntryID, message)
	c.log.Append(core.NewErrorEntry(message))
	c.activeRunID = ""
	c.activeEntryID = ""
	c.activity = ""
	c.state = StateFailed
}

// finalizeEntryLocked freezes an agent entry preserving whatever content it
// already shows, attaching a diagnostic. Caller must hold c.mu.
func (c *Controller) finalizeEntryLocked(entryID, diagnostic string) {
	entry, ok := c.log.Get(entryID)
	if !ok || entry.Final {
		return
	}
	patch := conversation.AgentPatch{
		Text:            entry.Text,
		Events:          entry.Events,
		ArtifactUpdates: entry.ArtifactUpdates,
		Final:           true,
	}
	if diagnostic != "" {
		patch.Diagnostics = append(append([]string{}, entry.Diagnostics...), diagnostic)
	}
	if err := c.log.UpdateAgentEntry(entryID, patch); err != nil {
		c.logger.Warn("failed to finalize entry %s: %v", entryID, err)
	}
}

// releaseSubscriptionLocked unregisters the subscription and clears the
// active run so any still-in-flight delivery becomes a no-op. Caller must
// hold c.mu.
func (c *Controller) releaseSubscriptionLocked() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.activeRunID = ""
	c.activeEntryID = ""
}

// teardownLocked abandons the in-flight run: unsubscribe first, then freeze
// its placeholder entry. Caller must hold c.mu.
func (c *Controller) teardownLocked() {
	if c.activeRunID == "" {
		c.releaseSubscriptionLocked()
		return
	}
	c.logger.Info("abandoning run run_id=%s", c.activeRunID)
	entryID := c.activeEntryID
	c.releaseSubscriptionLocked()
	c.finalizeEntryLocked(entryID, "run abandoned before completion")
	c.activity = ""
	c.state = StateIdle
}

// saveRecordLocked persists the completed run for historical replay. Caller
// must hold c.mu.
func (c *Controller) saveRecordLocked(snap core.Snapshot) {
	if c.records == nil {
		return
	}
	sessionID := snap.SessionID
	if sessionID == "" {
		sessionID = c.tracker.ID()
	}
	record := core.RunRecord{
		RunID:             c.activeRunID,
		SessionID:         sessionID,
		InputText:         c.inputText,
		ContextItems:      c.boundItems,
		Status:            snap.Status,
		FinalResponseText: snap.FinalResponseText,
		Events:            snap.Events,
		Diagnostics:       snap.Diagnostics,
		Created:           time.Now().UTC(),
	}
	if err := c.records.Save(record); err != nil {
		c.logger.Warn("failed to save run record run_id=%s: %v", record.RunID, err)
	}
}
