// Package agentdeck provides a high-level façade over the run controller and
// its collaborating services (conversation log, session tracking, context
// assembly, run records & logging) enabling rapid construction of interactive
// agent consoles. Most applications interact with this package by:
//  1. Creating a Console via New() around a core.RunService (a deployed
//     backend client or the in-process backend/local service)
//  2. Attaching context with FetchContext and submitting turns with Submit
//  3. Rendering Entries() and Activity() while snapshots stream in
//
// The façade delegates orchestration to controller.Controller while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a durable
// record store and a structured logger.
package agentdeck

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentdeck/controller"
	"github.com/hupe1980/agentdeck/conversation"
	"github.com/hupe1980/agentdeck/core"
	"github.com/hupe1980/agentdeck/fetch"
	"github.com/hupe1980/agentdeck/logging"
	"github.com/hupe1980/agentdeck/replay"
	"github.com/hupe1980/agentdeck/store"
)

// Options configures the Console instance.
type Options struct {
	// ConversationRef identifies this conversation towards the backend.
	// Defaults to a fresh id.
	ConversationRef string

	// RecordStore persists terminal runs for historical replay (defaults to
	// an in-memory implementation).
	RecordStore core.RunRecordStore

	// Assembler resolves context source descriptors. Defaults to an assembler
	// with no fetchers configured, so every fetch fails top-level until real
	// fetchers are supplied.
	Assembler *fetch.Assembler

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Console is the high-level façade aggregating the run controller and its
// services.
type Console struct {
	ctrl      *controller.Controller
	assembler *fetch.Assembler
	records   core.RunRecordStore
	logger    logging.Logger
}

// New creates a new Console instance with optional overrides. Any unset
// service is initialized with a local default.
func New(service core.RunService, optFns ...func(o *Options)) *Console {
	opts := Options{
		ConversationRef: core.NewID(),
		RecordStore:     store.NewInMemoryStore(),
		Assembler:       fetch.NewAssembler(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	ctrl := controller.New(service, func(o *controller.Options) {
		o.ConversationRef = opts.ConversationRef
		o.RecordStore = opts.RecordStore
		o.Logger = opts.Logger
	})

	return &Console{
		ctrl:      ctrl,
		assembler: opts.Assembler,
		records:   opts.RecordStore,
		logger:    opts.Logger,
	}
}

// Controller exposes the underlying run controller for advanced callers.
func (c *Console) Controller() *controller.Controller { return c.ctrl }

// Records exposes the run record store.
func (c *Console) Records() core.RunRecordStore { return c.records }

// Entries returns the current conversation entries in order.
func (c *Console) Entries() []core.ConversationEntry { return c.ctrl.Log().Entries() }

// State returns the controller lifecycle state.
func (c *Console) State() controller.State { return c.ctrl.State() }

// Activity returns the transient activity label of the live run, if any.
func (c *Console) Activity() string { return c.ctrl.Activity() }

// Submit sends one conversational turn; pending context is folded in.
func (c *Console) Submit(ctx context.Context, userText string) error {
	return c.ctrl.Submit(ctx, userText)
}

// FetchContext resolves one source descriptor and records the outcome in the
// conversation: a bundle entry for valid items, an error entry per failed
// sub-item. A top-level fetch failure becomes a single error entry for the
// whole batch; it is never propagated to the caller as a hard error so the
// conversation keeps flowing.
func (c *Console) FetchContext(ctx context.Context, req fetch.Request) error {
	valid, failed, err := c.assembler.Assemble(ctx, req)
	if err != nil {
		item := core.NewErrorContextItem(describeRequest(req), err.Error(), sourceForKind(req.Kind))
		return c.ctrl.AddContext(nil, []core.ContextItem{item})
	}
	return c.ctrl.AddContext(valid, failed)
}

// EnterHistory suspends live controls and reconstructs the conversation slice
// of a recorded run. The returned log is standalone; the live log is left
// untouched.
func (c *Console) EnterHistory(runID string) (*conversation.Log, error) {
	record, err := c.records.Get(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run record: %w", err)
	}
	c.ctrl.EnterHistoricalView()
	return replay.Rebuild(record), nil
}

// ExitHistory re-enables live controls.
func (c *Console) ExitHistory() { c.ctrl.ExitHistoricalView() }

// Reset abandons any live run and starts an entirely new conversation.
func (c *Console) Reset() { c.ctrl.Reset() }

// Teardown abandons any live run without clearing the conversation. Call it
// when the console view unmounts.
func (c *Console) Teardown() { c.ctrl.Teardown() }

// describeRequest derives a display name for a failed batch.
func describeRequest(req fetch.Request) string {
	switch {
	case req.Name != "":
		return req.Name
	case req.URL != "":
		return req.URL
	default:
		return string(req.Kind)
	}
}

// sourceForKind maps a request kind to the context item source type.
func sourceForKind(kind fetch.Kind) core.SourceType {
	switch kind {
	case fetch.KindGitRepo:
		return core.SourceGitFile
	case fetch.KindPdf:
		return core.SourcePdfPage
	case fetch.KindImage:
		return core.SourceImage
	default:
		return core.SourceWebPage
	}
}
