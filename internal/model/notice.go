package model

import "time"

// NoticeKind classifies a user-facing notice.
type NoticeKind string

const (
	NoticeTaskAdded   NoticeKind = "task_added"
	NoticeTaskDeleted NoticeKind = "task_deleted"
	NoticeReminder    NoticeKind = "reminder"
	NoticeVoice       NoticeKind = "voice"
	NoticeError       NoticeKind = "error"
)

// DefaultNoticeDuration is how long a notice stays visible unless it says otherwise.
const DefaultNoticeDuration = 3 * time.Second

// Notice is a transient message for the user, shown as a toast in the TUI.
type Notice struct {
	Kind        NoticeKind
	Title       string
	Description string
	Duration    time.Duration

	// TaskID is set for notices about a single task.
	TaskID string
}
