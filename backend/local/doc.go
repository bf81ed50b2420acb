// Package local provides an in-process core.RunService backed by a
// model.Model. It exists for development, examples and tests: runs execute
// inside the current process and snapshots are pushed over channels, so the
// full submit / subscribe / replay loop works without a deployed backend.
//
// The service keeps per-session transcripts in memory and issues session ids
// on the first turn, mirroring what a remote execution backend would do.
package local
