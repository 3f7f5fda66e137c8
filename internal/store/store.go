package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/taskwhisper/internal/model"
)

// ErrCorruptData is returned when the stored task collection cannot be decoded.
// The slot is left untouched so the data can be recovered by hand.
var ErrCorruptData = errors.New("stored task data is corrupt")

// KV is a durable mapping from string keys to text values.
type KV interface {
	// Get returns the value stored under key. found is false when the
	// key has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Store defines the persistence interface for the task collection.
type Store interface {
	// GetAll returns every task in insertion order.
	GetAll(ctx context.Context) ([]model.Task, error)

	// Add appends a task to the collection.
	Add(ctx context.Context, task model.Task) error

	// Update replaces the task with the same ID. Unknown IDs are ignored.
	Update(ctx context.Context, task model.Task) error

	// Delete removes the task with the given ID. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// GetByDate returns the tasks due on the calendar day of date.
	GetByDate(ctx context.Context, date time.Time) ([]model.Task, error)

	// GetUpcoming returns incomplete tasks due today or later,
	// ascending by due date.
	GetUpcoming(ctx context.Context) ([]model.Task, error)

	// GetOverdue returns incomplete tasks due before today.
	GetOverdue(ctx context.Context) ([]model.Task, error)
}

// NotificationLog records reminders that have been surfaced.
type NotificationLog interface {
	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}
