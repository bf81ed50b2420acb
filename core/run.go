package core

// RunStatus is the lifecycle status of one execution turn.
type RunStatus string

const (
	// StatusInitiating covers the window between submit and the backend
	// acknowledging the run.
	StatusInitiating RunStatus = "initiating"
	// StatusStreaming means the run is live and snapshots are being delivered.
	StatusStreaming RunStatus = "streaming"
	// StatusCompleted is the successful terminal status.
	StatusCompleted RunStatus = "completed"
	// StatusFailed is the unsuccessful terminal status.
	StatusFailed RunStatus = "failed"
)

// IsTerminal reports whether the status is Completed or Failed.
func (s RunStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is one execution turn of a deployed agent in response to a single,
// possibly context-augmented, message. Created on submit; mutated only by its
// own active subscription; frozen at terminal status.
type Run struct {
	ID                string    `json:"id"`
	Status            RunStatus `json:"status"`
	InputMessage      string    `json:"input_message"`
	SessionID         string    `json:"session_id,omitempty"`
	FinalResponseText string    `json:"final_response_text,omitempty"`
	Events            []Event   `json:"events,omitempty"`
	Diagnostics       []string  `json:"diagnostics,omitempty"`
}

// Snapshot is the complete current state of a run as delivered by its update
// subscription. Deliveries are authoritative full replacements, never deltas.
type Snapshot struct {
	RunID             string    `json:"run_id"`
	Status            RunStatus `json:"status"`
	FinalResponseText string    `json:"final_response_text,omitempty"`
	Events            []Event   `json:"events,omitempty"`
	Diagnostics       []string  `json:"diagnostics,omitempty"`
	SessionID         string    `json:"session_id,omitempty"`
}

// Snapshot captures the current full state of the run.
func (r *Run) Snapshot() Snapshot {
	events := make([]Event, len(r.Events))
	copy(events, r.Events)
	diags := make([]string, len(r.Diagnostics))
	copy(diags, r.Diagnostics)
	return Snapshot{
		RunID:             r.ID,
		Status:            r.Status,
		FinalResponseText: r.FinalResponseText,
		Events:            events,
		Diagnostics:       diags,
		SessionID:         r.SessionID,
	}
}
