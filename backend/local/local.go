package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentdeck/core"
	"github.com/hupe1980/agentdeck/logging"
	"github.com/hupe1980/agentdeck/model"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// AgentName is the author stamped on emitted events.
	AgentName string
	// Instructions is the system prompt handed to the model on every turn.
	Instructions string
	// SnapshotBufferSize sets channel buffering for subscriber deliveries.
	SnapshotBufferSize int
	// Logger for service observability.
	Logger logging.Logger
}

// Service is an in-process RunService. Public methods are safe for
// concurrent use.
type Service struct {
	model      model.Model
	agentName  string
	prompt     string
	bufferSize int
	logger     logging.Logger

	mu        sync.RWMutex
	runs      map[string]*run
	histories map[string][]core.Content // sessionID -> transcript
	cancels   map[string]context.CancelFunc
}

// New constructs a Service driving the given model, with optional overrides.
func New(m model.Model, optFns ...func(o *Options)) *Service {
	opts := Options{
		AgentName:          "agent",
		SnapshotBufferSize: 16,
		Logger:             logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Service{
		model:      m,
		agentName:  opts.AgentName,
		prompt:     opts.Instructions,
		bufferSize: opts.SnapshotBufferSize,
		logger:     opts.Logger,
		runs:       make(map[string]*run),
		histories:  make(map[string][]core.Content),
		cancels:    make(map[string]context.CancelFunc),
	}
}

// run is the retained state of one execution: the most recent snapshot plus
// the attached subscribers.
type run struct {
	mu   sync.Mutex
	snap core.Snapshot
	done bool
	subs map[int]*subscriber
	next int
}

type subscriber struct {
	snapshots chan core.Snapshot
	errs      chan error
	closed    bool
}

// StartRun implements core.RunService. The returned acknowledgement is
// immediate; generation happens on a detached goroutine so the run outlives
// the caller's context.
func (s *Service) StartRun(_ context.Context, _, message, sessionID string, _ []core.ContextItem) (core.StartRunResult, error) {
	if message == "" {
		return core.StartRunResult{Success: false, Message: "empty message"}, nil
	}
	if sessionID == "" {
		sessionID = core.NewID()
	}

	userContent := core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: message}}}

	runID := core.NewID()
	st := &run{
		snap: core.Snapshot{RunID: runID, Status: core.StatusInitiating, SessionID: sessionID},
		subs: make(map[int]*subscriber),
	}

	genCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	history := append(append([]core.Content{}, s.histories[sessionID]...), userContent)
	s.histories[sessionID] = history
	s.runs[runID] = st
	s.cancels[runID] = cancel
	s.mu.Unlock()

	s.logger.Info("run started run_id=%s session_id=%s model=%s", runID, sessionID, s.model.Info().Name)

	go s.execute(genCtx, st, runID, sessionID, history)

	return core.StartRunResult{Success: true, RunID: runID}, nil
}

// Subscribe implements core.RunService. A subscriber attached after the run
// concluded still receives the terminal snapshot before its channels close.
func (s *Service) Subscribe(_ context.Context, _, runID string) (<-chan core.Snapshot, <-chan error, core.Unsubscribe, error) {
	s.mu.RLock()
	st, ok := s.runs[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, nil, core.ErrRunNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	sub := &subscriber{
		snapshots: make(chan core.Snapshot, s.bufferSize),
		errs:      make(chan error, 1),
	}
	sub.snapshots <- st.snap

	if st.done {
		sub.closed = true
		close(sub.snapshots)
		close(sub.errs)
		return sub.snapshots, sub.errs, func() {}, nil
	}

	id := st.next
	st.next++
	st.subs[id] = sub

	unsubscribe := func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		if sub.closed {
			return
		}
		delete(st.subs, id)
		sub.closed = true
		close(sub.snapshots)
		close(sub.errs)
	}

	return sub.snapshots, sub.errs, unsubscribe, nil
}

// Cancel aborts a running generation by run id.
func (s *Service) Cancel(runID string) error {
	s.mu.Lock()
	cancel, exists := s.cancels[runID]
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()

	return nil
}

// execute drives one generation turn, translating model chunks into snapshot
// publications: streaming snapshots while partial text accumulates, then
// exactly one terminal snapshot.
func (s *Service) execute(ctx context.Context, st *run, runID, sessionID string, history []core.Content) {
	defer func() {
		s.mu.Lock()
		delete(s.cancels, runID)
		s.mu.Unlock()
	}()

	respCh, errCh := s.model.Generate(ctx, model.Request{
		Instructions: s.prompt,
		Contents:     history,
		Stream:       true,
	})

	messageEvent := core.NewMessageEvent(runID, s.agentName, "")
	var accumulated string

	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			s.publish(st, core.Snapshot{
				RunID:       runID,
				Status:      core.StatusFailed,
				SessionID:   sessionID,
				Diagnostics: []string{"run canceled"},
			})
			return
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if resp.Partial {
				accumulated += contentText(resp.Content)
				messageEvent.Content = &core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: accumulated}}}
				s.publish(st, core.Snapshot{
					RunID:             runID,
					Status:            core.StatusStreaming,
					SessionID:         sessionID,
					FinalResponseText: accumulated,
					Events:            []core.Event{messageEvent},
				})
				continue
			}

			finalText := contentText(resp.Content)
			if finalText == "" {
				finalText = accumulated
			}
			messageEvent.Content = &core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: finalText}}}

			s.mu.Lock()
			s.histories[sessionID] = append(s.histories[sessionID], core.Content{
				Role:  "assistant",
				Parts: []core.Part{core.TextPart{Text: finalText}},
			})
			s.mu.Unlock()

			var diagnostics []string
			if resp.FinishReason != "" && resp.FinishReason != "stop" {
				diagnostics = append(diagnostics, fmt.Sprintf("generation finished early: %s", resp.FinishReason))
			}

			s.logger.Info("run completed run_id=%s session_id=%s", runID, sessionID)
			s.publish(st, core.Snapshot{
				RunID:             runID,
				Status:            core.StatusCompleted,
				SessionID:         sessionID,
				FinalResponseText: finalText,
				Events:            []core.Event{messageEvent},
				Diagnostics:       diagnostics,
			})
			return
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err == nil {
				continue
			}
			s.logger.Error("run failed run_id=%s: %v", runID, err)
			s.publish(st, core.Snapshot{
				RunID:       runID,
				Status:      core.StatusFailed,
				SessionID:   sessionID,
				Diagnostics: []string{err.Error()},
			})
			return
		}
	}

	// Both channels closed without a final chunk: treat as failure.
	s.publish(st, core.Snapshot{
		RunID:       runID,
		Status:      core.StatusFailed,
		SessionID:   sessionID,
		Diagnostics: []string{"model produced no final response"},
	})
}

// publish records the snapshot as the run's latest state and fans it out. A
// subscriber whose buffer is full loses its oldest pending delivery; snapshots
// are full state so the newest one is always sufficient. A terminal snapshot
// concludes every subscription.
func (s *Service) publish(st *run, snap core.Snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.done {
		return
	}
	st.snap = snap
	terminal := snap.Status.IsTerminal()

	for _, sub := range st.subs {
		if sub.closed {
			continue
		}
		for {
			select {
			case sub.snapshots <- snap:
			default:
				select {
				case <-sub.snapshots:
				default:
				}
				continue
			}
			break
		}
		if terminal {
			sub.closed = true
			close(sub.snapshots)
			close(sub.errs)
		}
	}

	if terminal {
		st.done = true
		st.subs = make(map[int]*subscriber)
	}
}

func contentText(c core.Content) string {
	var out string
	for _, p := range c.Parts {
		if tp, ok := p.(core.TextPart); ok {
			out += tp.Text
		}
	}
	return out
}

// Interface compliance (compile-time assertion)
var _ core.RunService = (*Service)(nil)
