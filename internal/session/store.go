// Package session keeps a bounded history of recommended song ids per
// client session.
package session

import "context"

// DefaultHistorySize is how many ids a session remembers.
const DefaultHistorySize = 20

// Store owns all session histories. Implementations must serialize
// read-modify-write access per key.
type Store interface {
	// Record appends ids to the session history and keeps the most recent
	// entries. The session is created if absent.
	Record(ctx context.Context, key string, ids []string) error
	// History returns a copy of the session history, oldest first.
	History(ctx context.Context, key string) ([]string, error)
	// Reset clears the history. It reports false for an unknown key
	// without creating it.
	Reset(ctx context.Context, key string) (bool, error)
	// Count returns the number of known sessions.
	Count(ctx context.Context) (int, error)
	// Capacity is the per-session history limit.
	Capacity() int
}

// appendBounded appends ids and keeps the last limit entries.
func appendBounded(history, ids []string, limit int) []string {
	merged := append(history, ids...)
	if len(merged) > limit {
		merged = merged[len(merged)-limit:]
	}
	out := make([]string, len(merged))
	copy(out, merged)
	return out
}
