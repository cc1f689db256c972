// Package cache persists LLM-generated text between runs so the same
// assignment is never summarized twice, and records which assignments have
// already been synced into the reminders app.
package cache

// Kind distinguishes the artifacts cached for an assignment.
type Kind string

const (
	// KindSummary is a one-sentence assignment summary.
	KindSummary Kind = "summary"
	// KindStrategy is a generated multi-day study plan.
	KindStrategy Kind = "strategy"
)

// Key derives the storage key for one artifact of one assignment.
// Kinds never collide because the kind is part of the key.
func Key(assignmentID string, kind Kind) string {
	return string(kind) + ":" + assignmentID
}

// Store is a durable key→text dictionary plus a synced-assignment ledger.
// Get reports a miss as ok=false, which is distinct from a cached empty
// string. Put overwrites and persists immediately (last write wins).
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error

	// Seen/MarkSeen track assignment ids whose reminders were already
	// created, so reruns skip them instead of duplicating.
	Seen(assignmentID string) (bool, error)
	MarkSeen(assignmentID string) error

	Close() error
}
