package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventActions encodes side-effects attached to an Event by the backend.
// All fields are optional so absence can be distinguished from zero values.
type EventActions struct {
	// ArtifactDelta maps output filename to the version written by this step.
	ArtifactDelta map[string]int `json:"artifact_delta,omitempty"`
	// Escalate signals the backend aborted the step chain.
	Escalate *bool `json:"escalate,omitempty"`
}

// Event is one reasoning / tool-call / content step of a run as reported by
// the execution backend. After delivery it must be treated as immutable. It
// captures:
//   - Correlation (RunID, ID, Author)
//   - Conversational content (optional role-based Parts)
//   - Artifact side-effects (Actions.ArtifactDelta)
//   - High precision UTC timestamp
//
// Content may be nil for control-only events.
type Event struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Author    string       `json:"author"`
	Actions   EventActions `json:"actions"`
	Timestamp time.Time    `json:"timestamp"`
	Content   *Content     `json:"content,omitempty"`
}

// NewEvent creates a bare event authored by 'author' bound to a run.
func NewEvent(runID, author string) Event {
	return Event{
		ID:        NewID(),
		RunID:     runID,
		Author:    author,
		Timestamp: time.Now().UTC(),
		Actions:   EventActions{},
	}
}

// NewMessageEvent constructs an assistant-style message event with a single text part.
func NewMessageEvent(runID, author, message string) Event {
	e := NewEvent(runID, author)
	e.Content = &Content{Role: "assistant", Parts: []Part{TextPart{Text: message}}}
	return e
}

// NewFunctionCallEvent represents a tool / function invocation step reported
// by the backend.
func NewFunctionCallEvent(runID, author, functionName, args string) Event {
	e := NewEvent(runID, author)
	e.Content = &Content{
		Role: "assistant",
		Parts: []Part{
			FunctionCallPart{
				FunctionCall: FunctionCall{
					Name:      functionName,
					Arguments: args,
				},
			},
		},
	}
	return e
}

// NewFunctionResponseEvent captures the outcome of a previously reported
// function call. If err is non-nil its message is copied into the response.
func NewFunctionResponseEvent(runID, author, id, functionName string, result interface{}, err error) Event {
	e := NewEvent(runID, author)
	fr := FunctionResponse{ID: id, Name: functionName, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	e.Content = &Content{Role: "tool", Parts: []Part{FunctionResponsePart{FunctionResponse: fr}}}
	return e
}

// NewID generates a new unique identifier for entries, events and runs.
func NewID() string { return uuid.NewString() }

// GetFunctionCalls returns any FunctionCall parts contained within the event
// content preserving their original order.
func (e Event) GetFunctionCalls() []FunctionCall {
	if e.Content == nil {
		return nil
	}
	var calls []FunctionCall
	for _, p := range e.Content.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// GetFunctionResponses returns any FunctionResponse parts contained within the
// event content preserving their original order.
func (e Event) GetFunctionResponses() []FunctionResponse {
	if e.Content == nil {
		return nil
	}
	var responses []FunctionResponse
	for _, p := range e.Content.Parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}

// Text concatenates the text parts of the event content.
func (e Event) Text() string {
	if e.Content == nil {
		return ""
	}
	var out string
	for _, p := range e.Content.Parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}

// MergeArtifactDeltas scans events in order and merges each event's artifact
// delta into one filename -> version map. For a repeated filename the version
// from the event occurring later in event order wins.
func MergeArtifactDeltas(events []Event) map[string]int {
	var merged map[string]int
	for _, ev := range events {
		if len(ev.Actions.ArtifactDelta) == 0 {
			continue
		}
		if merged == nil {
			merged = make(map[string]int, len(ev.Actions.ArtifactDelta))
		}
		for name, version := range ev.Actions.ArtifactDelta {
			merged[name] = version
		}
	}
	return merged
}

// ActivityLabel derives a transient human readable label from the most recent
// event. Returns "" for an empty event list. The label is only meaningful
// while the owning run is non-terminal.
func ActivityLabel(events []Event) string {
	if len(events) == 0 {
		return ""
	}
	last := events[len(events)-1]
	if calls := last.GetFunctionCalls(); len(calls) > 0 {
		return fmt.Sprintf("Running %s", calls[len(calls)-1].Name)
	}
	if responses := last.GetFunctionResponses(); len(responses) > 0 {
		return fmt.Sprintf("Processing %s result", responses[len(responses)-1].Name)
	}
	if len(last.Actions.ArtifactDelta) > 0 {
		return "Writing artifacts"
	}
	return "Composing response"
}

// UnixSeconds returns the timestamp as fractional seconds since Unix epoch.
func (e Event) UnixSeconds() float64 { return float64(e.Timestamp.UnixNano()) / 1e9 }
