package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nhle/taskwhisper/internal/model"
)

// TaskStore persists the whole task collection as one JSON document in a
// single KV slot. Every mutation is a read-modify-write of that document.
type TaskStore struct {
	kv  KV
	key string
	now func() time.Time
}

// NewTaskStore returns a TaskStore over kv using the given slot key.
// A nil now defaults to time.Now.
func NewTaskStore(kv KV, key string, now func() time.Time) *TaskStore {
	if key == "" {
		key = model.DefaultStorageKey
	}
	if now == nil {
		now = time.Now
	}
	return &TaskStore{kv: kv, key: key, now: now}
}

// GetAll returns every stored task in insertion order. An absent or empty
// slot yields an empty collection; an undecodable one yields ErrCorruptData.
func (s *TaskStore) GetAll(ctx context.Context) ([]model.Task, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if !found || raw == "" || raw == "null" {
		return []model.Task{}, nil
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Add appends task to the end of the collection.
func (s *TaskStore) Add(ctx context.Context, task model.Task) error {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(tasks, task))
}

// Update replaces the task with the same ID in place. Unknown IDs leave the
// collection unchanged.
func (s *TaskStore) Update(ctx context.Context, task model.Task) error {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			return s.save(ctx, tasks)
		}
	}
	return nil
}

// Delete removes the task with the given ID. Unknown IDs leave the
// collection unchanged.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	kept := tasks[:0]
	removed := false
	for _, t := range tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		return nil
	}
	return s.save(ctx, kept)
}

// GetByDate returns the tasks whose due date is the calendar day of date.
func (s *TaskStore) GetByDate(ctx context.Context, date time.Time) ([]model.Task, error) {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Task{}
	for _, t := range tasks {
		if t.DueOn(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetUpcoming returns incomplete tasks due today or later, ordered by due
// date. Tasks sharing a date keep their insertion order.
func (s *TaskStore) GetUpcoming(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	today := model.Day(s.now())
	out := []model.Task{}
	for _, t := range tasks {
		if !t.Completed && t.DueDate >= today {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate < out[j].DueDate
	})
	return out, nil
}

// GetOverdue returns incomplete tasks whose due date is before today.
func (s *TaskStore) GetOverdue(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	today := model.Day(s.now())
	out := []model.Task{}
	for _, t := range tasks {
		if !t.Completed && t.DueDate < today {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TaskStore) save(ctx context.Context, tasks []model.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}
