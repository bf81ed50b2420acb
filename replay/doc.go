// Package replay deterministically reconstructs the conversation slice of a
// completed run from its persisted record. Reconstruction never opens a run
// subscription: everything shown comes from the record, and rebuilding the
// same record twice yields identical entries.
package replay
