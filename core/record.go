package core

import "time"

// RunRecord is the persisted shape of one completed run: everything needed to
// deterministically rebuild its slice of the conversation without opening a
// subscription.
type RunRecord struct {
	RunID             string        `json:"run_id"`
	SessionID         string        `json:"session_id,omitempty"`
	InputText         string        `json:"input_text"`
	ContextItems      []ContextItem `json:"context_items,omitempty"`
	Status            RunStatus     `json:"status"`
	FinalResponseText string        `json:"final_response_text,omitempty"`
	Events            []Event       `json:"events,omitempty"`
	Diagnostics       []string      `json:"diagnostics,omitempty"`
	Created           time.Time     `json:"created"`
}

// RunRecordStore persists completed run records for historical replay.
// Implementations should be thread-safe and keyed by run identifier. Short
// method names (Save/Get/List/Delete) mirror other store interfaces.
type RunRecordStore interface {
	Save(record RunRecord) error
	Get(runID string) (RunRecord, error)
	List() ([]string, error)
	Delete(runID string) error
}
