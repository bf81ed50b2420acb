package store

import (
	"sort"
	"sync"

	"github.com/hupe1980/agentdeck/core"
)

// InMemoryStore is a trivial in-process RunRecordStore implementation useful
// for tests, examples and single-process prototypes. It keeps all records in
// a map guarded by an RWMutex. Slice-valued fields are copied on save and
// retrieval to avoid accidental external mutation of stored state.
//
// This implementation is intentionally minimal; it does not enforce retention
// limits or eviction. For production, prefer a durable implementation that
// survives process restarts.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]core.RunRecord
}

// NewInMemoryStore returns an empty in-memory run record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]core.RunRecord)}
}

// Save stores (or overwrites) the record under its run id. Slice fields are
// copied before storage.
func (s *InMemoryStore) Save(record core.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.RunID] = copyRecord(record)
	return nil
}

// Get returns a copy of the stored record or ErrRecordNotFound.
func (s *InMemoryStore) Get(runID string) (core.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[runID]
	if !ok {
		return core.RunRecord{}, core.ErrRecordNotFound
	}
	return copyRecord(record), nil
}

// List returns the stored run ids sorted by creation time, oldest first. The
// slice is a snapshot and safe for caller mutation.
func (s *InMemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.records[ids[i]], s.records[ids[j]]
		if a.Created.Equal(b.Created) {
			return ids[i] < ids[j]
		}
		return a.Created.Before(b.Created)
	})
	return ids, nil
}

// Delete removes the record if present or returns ErrRecordNotFound.
func (s *InMemoryStore) Delete(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[runID]; !ok {
		return core.ErrRecordNotFound
	}
	delete(s.records, runID)
	return nil
}

func copyRecord(record core.RunRecord) core.RunRecord {
	cp := record
	if record.ContextItems != nil {
		cp.ContextItems = make([]core.ContextItem, len(record.ContextItems))
		copy(cp.ContextItems, record.ContextItems)
	}
	if record.Events != nil {
		cp.Events = make([]core.Event, len(record.Events))
		copy(cp.Events, record.Events)
	}
	if record.Diagnostics != nil {
		cp.Diagnostics = make([]string, len(record.Diagnostics))
		copy(cp.Diagnostics, record.Diagnostics)
	}
	return cp
}
