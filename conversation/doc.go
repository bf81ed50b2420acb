// Package conversation houses the client-side record of a chat: the
// append-only Log of conversation entries and the Tracker holding the
// at-most-one backend session token.
//
// The Log is the single source of truth the UI observes. It is mutated by the
// run controller in live mode or rebuilt wholesale by historical replay;
// nothing else writes to it. The by-id patch of the in-flight agent entry is
// backed by an explicit index for O(1) lookup.
package conversation
