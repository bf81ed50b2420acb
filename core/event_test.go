package core

import (
	"errors"
	"testing"
)

// Event constructor & helper method tests
func TestEvent_ConstructorsAndMethods(t *testing.T) {
	e := NewEvent("run-123", "authorA")
	if e.Author != "authorA" || e.RunID != "run-123" || e.ID == "" || e.Timestamp.IsZero() {
		t.Fatalf("NewEvent did not initialize fields correctly: %+v", e)
	}

	msg := NewMessageEvent("run-123", "agent1", "hello world")
	if msg.Content == nil || msg.Content.Role != "assistant" || len(msg.Content.Parts) != 1 {
		t.Fatalf("NewMessageEvent malformed: %+v", msg)
	}
	if msg.Text() != "hello world" {
		t.Fatalf("Text extraction failed: %q", msg.Text())
	}

	callArgs := "test"
	fCall := NewFunctionCallEvent("run-123", "agent2", "do_stuff", callArgs)
	calls := fCall.GetFunctionCalls()
	if len(calls) != 1 || calls[0].Name != "do_stuff" || calls[0].Arguments != callArgs {
		t.Fatalf("GetFunctionCalls extraction failed: %+v", calls)
	}

	fRespOK := NewFunctionResponseEvent("run-123", "agent2", "call-1", "do_stuff", 42, nil)
	resps := fRespOK.GetFunctionResponses()
	if len(resps) != 1 || resps[0].Response.(int) != 42 || resps[0].Error != "" {
		t.Fatalf("Function response success extraction failed: %+v", resps)
	}

	fRespErr := NewFunctionResponseEvent("run-123", "agent2", "call-2", "do_stuff", nil, errors.New("boom"))
	resps = fRespErr.GetFunctionResponses()
	if resps[0].Error == "" {
		t.Fatalf("Expected error message in function response: %+v", resps[0])
	}
}

func TestEvent_IDUniqueness(t *testing.T) {
	a := NewID()
	b := NewID()
	if a == b {
		t.Error("Expected unique IDs")
	}
}

func TestMergeArtifactDeltas_LaterEventWins(t *testing.T) {
	ev1 := NewEvent("run", "agent")
	ev1.Actions.ArtifactDelta = map[string]int{"report.md": 1}
	ev2 := NewEvent("run", "agent")
	ev2.Actions.ArtifactDelta = map[string]int{"report.md": 3, "plot.png": 1}

	merged := MergeArtifactDeltas([]Event{ev1, ev2})
	if merged["report.md"] != 3 {
		t.Errorf("expected later event version to win, got %d", merged["report.md"])
	}
	if merged["plot.png"] != 1 {
		t.Errorf("expected plot.png version 1, got %d", merged["plot.png"])
	}

	if MergeArtifactDeltas(nil) != nil {
		t.Error("expected nil map for empty event list")
	}
}

func TestActivityLabel(t *testing.T) {
	if ActivityLabel(nil) != "" {
		t.Error("expected empty label for no events")
	}

	call := NewFunctionCallEvent("run", "agent", "search_web", "{}")
	if got := ActivityLabel([]Event{call}); got != "Running search_web" {
		t.Errorf("unexpected label: %q", got)
	}

	resp := NewFunctionResponseEvent("run", "agent", "call-1", "search_web", "ok", nil)
	if got := ActivityLabel([]Event{call, resp}); got != "Processing search_web result" {
		t.Errorf("unexpected label: %q", got)
	}

	text := NewMessageEvent("run", "agent", "working on it")
	if got := ActivityLabel([]Event{call, text}); got != "Composing response" {
		t.Errorf("unexpected label: %q", got)
	}

	artifact := NewEvent("run", "agent")
	artifact.Actions.ArtifactDelta = map[string]int{"out.md": 1}
	if got := ActivityLabel([]Event{artifact}); got != "Writing artifacts" {
		t.Errorf("unexpected label: %q", got)
	}
}

func TestRunStatus_IsTerminal(t *testing.T) {
	for status, terminal := range map[RunStatus]bool{
		StatusInitiating: false,
		StatusStreaming:  false,
		StatusCompleted:  true,
		StatusFailed:     true,
	} {
		if status.IsTerminal() != terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, !terminal, terminal)
		}
	}
}

func TestRun_SnapshotIsDefensiveCopy(t *testing.T) {
	run := &Run{
		ID:     "run-1",
		Status: StatusStreaming,
		Events: []Event{NewMessageEvent("run-1", "agent", "partial")},
	}
	snap := run.Snapshot()
	snap.Events[0].Author = "mutated"
	if run.Events[0].Author != "agent" {
		t.Error("snapshot must not share event backing array with run")
	}
}
