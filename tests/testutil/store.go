package testutil

import (
	"testing"
	"time"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestTaskStore returns a TaskStore backed by an in-memory SQLite KV
// under the default slot key, with a clock pinned to now.
func NewTestTaskStore(t *testing.T, now time.Time) *store.TaskStore {
	t.Helper()
	return store.NewTaskStore(NewTestStore(t), model.DefaultStorageKey, FixedClock(now))
}

// FixedClock returns a clock that always reports now.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// Date builds a local time on the given day at hh:mm.
func Date(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

// Task returns a pending medium-priority task due on the given day and time.
func Task(id, title, dueDate, dueTime string) model.Task {
	return model.Task{
		ID:       id,
		Title:    title,
		Priority: model.PriorityMedium,
		DueDate:  dueDate,
		DueTime:  dueTime,
	}
}
