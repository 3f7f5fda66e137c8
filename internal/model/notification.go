package model

import "time"

// Notification records a reminder that was surfaced to the user.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// TaskID links this notification to the task it was raised for.
	TaskID string `json:"task_id" db:"task_id"`

	// Title is the short heading shown with the message.
	Title string `json:"title" db:"title"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
