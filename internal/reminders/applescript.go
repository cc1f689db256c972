package reminders

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// appleDueLayout is the date format the Reminders AppleScript dictionary
// accepts, e.g. "Monday, April 1, 2026 at 11:59:00 PM".
const appleDueLayout = "Monday, January 2, 2006 at 3:04:05 PM"

// AppleScriptWriter implements Writer via `osascript -e`.
type AppleScriptWriter struct {
	// run executes one AppleScript program. Replaceable in tests.
	run func(ctx context.Context, script string) error
}

// NewAppleScriptWriter returns a Writer backed by the osascript binary.
func NewAppleScriptWriter() *AppleScriptWriter {
	return &AppleScriptWriter{run: runOsascript}
}

func runOsascript(ctx context.Context, script string) error {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Add creates the reminder with its title, due date, and notes.
func (w *AppleScriptWriter) Add(ctx context.Context, r Reminder) error {
	if err := w.run(ctx, buildAddScript(r)); err != nil {
		return fmt.Errorf("add reminder %q to list %q: %w", r.Title, r.List, err)
	}
	return nil
}

// Complete marks every reminder named title in the list as done.
func (w *AppleScriptWriter) Complete(ctx context.Context, list, title string) error {
	if err := w.run(ctx, buildCompleteScript(list, title)); err != nil {
		return fmt.Errorf("complete reminder %q in list %q: %w", title, list, err)
	}
	return nil
}

func buildAddScript(r Reminder) string {
	return fmt.Sprintf(`tell application "Reminders"
	set targetList to list "%s"
	set newReminder to make new reminder in targetList
	set name of newReminder to "%s"
	set due date of newReminder to date "%s"
	set body of newReminder to "%s"
end tell`,
		escape(r.List), escape(r.Title), r.Due.Local().Format(appleDueLayout), escape(r.Notes))
}

func buildCompleteScript(list, title string) string {
	return fmt.Sprintf(`tell application "Reminders"
	set targetList to list "%s"
	set matchingReminders to every reminder in targetList whose name is "%s"
	repeat with r in matchingReminders
		set completed of r to true
	end repeat
end tell`,
		escape(list), escape(title))
}

// escape makes a Go string safe inside AppleScript double quotes.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
