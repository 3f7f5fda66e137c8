// Package reminder decides when a task is due soon enough to remind the
// user, and drives the periodic scan that checks for it.
package reminder

import (
	"time"

	"github.com/nhle/taskwhisper/internal/model"
)

// Window is how far ahead of its due instant a task becomes eligible
// for its reminder.
const Window = time.Hour

// DefaultInterval is the scan period.
const DefaultInterval = 60 * time.Second

// ShouldFire reports whether t is due for its one-time reminder at now,
// and returns the time remaining until it is due. Completed or already
// notified tasks, and tasks with an unparsable due instant, never fire.
func ShouldFire(t model.Task, now time.Time) (time.Duration, bool) {
	if t.Completed || t.Notified {
		return 0, false
	}
	due, err := t.DueInstant(now.Location())
	if err != nil {
		return 0, false
	}
	until := due.Sub(now)
	return until, until > 0 && until <= Window
}

// Message builds the toast shown for a reminder.
func Message(t model.Task, now time.Time) model.Notice {
	return model.Notice{
		Kind:        model.NoticeReminder,
		Title:       "Task Reminder",
		Description: `"` + t.Title + `" is due in ` + Until(t, now),
		Duration:    5 * time.Second,
		TaskID:      t.ID,
	}
}

// Spoken builds the sentence spoken for a reminder.
func Spoken(t model.Task, now time.Time) string {
	return "Reminder: Your task " + t.Title + " is due in " + Until(t, now)
}

// Until phrases the time left before t is due, e.g. "30 minutes".
func Until(t model.Task, now time.Time) string {
	due, err := t.DueInstant(now.Location())
	if err != nil {
		return "an unknown time"
	}
	return model.Distance(now, due)
}
