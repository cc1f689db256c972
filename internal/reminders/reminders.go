// Package reminders writes assignment reminders into the macOS Reminders app
// by driving it with AppleScript through osascript.
package reminders

import (
	"context"
	"time"
)

// Reminder is one entry to create in the reminders app.
type Reminder struct {
	List  string // target list name, from the course mapping
	Title string
	Due   time.Time
	Notes string
}

// Writer creates reminders in the external store. Complete marks any existing
// reminder with the same title done, so a re-synced assignment replaces its
// stale entry instead of piling up next to it.
type Writer interface {
	Add(ctx context.Context, r Reminder) error
	Complete(ctx context.Context, list, title string) error
}
