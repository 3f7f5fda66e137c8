package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/store"
	"github.com/nhle/taskwhisper/tests/testutil"
)

var today = testutil.Date(2024, 6, 10, 9, 0)

func TestTaskStore_EmptySlot(t *testing.T) {
	s := testutil.NewTestTaskStore(t, today)

	tasks, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
}

func TestTaskStore_NullAndBlankSlot(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"", "null", "  "} {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.Set(ctx, model.DefaultStorageKey, raw))
		s := store.NewTaskStore(kv, model.DefaultStorageKey, testutil.FixedClock(today))

		tasks, err := s.GetAll(ctx)
		require.NoError(t, err, "raw=%q", raw)
		assert.Empty(t, tasks)
	}
}

func TestTaskStore_AddPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestTaskStore(t, today)

	require.NoError(t, s.Add(ctx, testutil.Task("1", "First", "2024-06-12", "10:00")))
	require.NoError(t, s.Add(ctx, testutil.Task("2", "Second", "2024-06-11", "10:00")))
	require.NoError(t, s.Add(ctx, testutil.Task("3", "Third", "2024-06-10", "10:00")))

	tasks, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "2", tasks[1].ID)
	assert.Equal(t, "3", tasks[2].ID)
}

func TestTaskStore_UpdateInPlace(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestTaskStore(t, today)

	require.NoError(t, s.Add(ctx, testutil.Task("1", "First", "2024-06-12", "10:00")))
	require.NoError(t, s.Add(ctx, testutil.Task("2", "Second", "2024-06-12", "11:00")))

	updated := testutil.Task("1", "First (edited)", "2024-06-12", "10:00")
	updated.Completed = true
	require.NoError(t, s.Update(ctx, updated))

	tasks, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "First (edited)", tasks[0].Title)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, "2", tasks[1].ID)
}

func TestTaskStore_UpdateUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestTaskStore(t, today)
	require.NoError(t, s.Add(ctx, testutil.Task("1", "First", "2024-06-12", "10:00")))

	require.NoError(t, s.Update(ctx, testutil.Task("missing", "Ghost", "2024-06-12", "")))

	tasks, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "First", tasks[0].Title)
}

func TestTaskStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestTaskStore(t, today)
	require.NoError(t, s.Add(ctx, testutil.Task("1", "First", "2024-06-12", "10:00")))
	require.NoError(t, s.Add(ctx, testutil.Task("2", "Second", "2024-06-12", "11:00")))

	require.NoError(t, s.Delete(ctx, "1"))
	require.NoError(t, s.Delete(ctx, "missing"))

	tasks, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2", tasks[0].ID)
}

func TestTaskStore_GetByDate(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestTaskStore(t, today)
	require.NoError(t, s.Add(ctx, testutil.Task("1", "Today", "2024-06-10", "10:00")))
	require.NoError(t, s.Add(ctx, testutil.Task("2", "Tomorrow", "2024-06-11", "10:00")))

	tasks, err := s.GetByDate(ctx, testutil.Date(2024, 6, 10, 23, 0))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1", tasks[0].ID)
}

func TestTaskStore_UpcomingAndOverdue(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestTaskStore(t, today)

	done := testutil.Task("done", "Done", "2024-06-11", "")
	done.Completed = true

	require.NoError(t, s.Add(ctx, testutil.Task("late", "Late", "2024-06-01", "")))
	require.NoError(t, s.Add(ctx, testutil.Task("c", "Far", "2024-06-20", "")))
	require.NoError(t, s.Add(ctx, testutil.Task("a", "Today", "2024-06-10", "")))
	require.NoError(t, s.Add(ctx, done))
	require.NoError(t, s.Add(ctx, testutil.Task("b1", "Next A", "2024-06-15", "")))
	require.NoError(t, s.Add(ctx, testutil.Task("b2", "Next B", "2024-06-15", "")))

	upcoming, err := s.GetUpcoming(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(upcoming))
	for _, task := range upcoming {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids)

	overdue, err := s.GetOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "late", overdue[0].ID)
}

func TestTaskStore_CorruptSlot(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, model.DefaultStorageKey, "{not json"))
	s := store.NewTaskStore(kv, model.DefaultStorageKey, testutil.FixedClock(today))

	_, err := s.GetAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrCorruptData))

	err = s.Add(ctx, testutil.Task("1", "New", "2024-06-10", ""))
	require.ErrorIs(t, err, store.ErrCorruptData)

	raw, found, err := kv.Get(ctx, model.DefaultStorageKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "{not json", raw, "corrupt slot must not be overwritten")
}

func TestTaskStore_PersistedLayout(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := store.NewTaskStore(kv, model.DefaultStorageKey, testutil.FixedClock(today))

	task := testutil.Task("1", "Pay rent", "2024-06-10", "14:00")
	task.Priority = model.PriorityHigh
	require.NoError(t, s.Add(ctx, task))

	raw, found, err := kv.Get(ctx, model.DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"dueDate":"2024-06-10"`)
	assert.Contains(t, raw, `"dueTime":"14:00"`)
	assert.Contains(t, raw, `"priority":"high"`)
	assert.Contains(t, raw, `"notified":false`)
}
