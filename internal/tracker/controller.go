// Package tracker holds the authoritative in-memory task list and the
// operations a user performs on it.
package tracker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/reminder"
	"github.com/nhle/taskwhisper/internal/store"
	"github.com/nhle/taskwhisper/internal/summary"
)

// Notifier shows a notice to the user.
type Notifier interface {
	Notify(n model.Notice)
}

// Speaker reads text aloud without blocking.
type Speaker interface {
	Speak(text string)
}

// Controller owns the task list, the active filter and the voice flag.
// All methods are safe for concurrent use and run one at a time.
type Controller struct {
	mu sync.Mutex

	store    store.Store
	notifier Notifier
	speaker  Speaker
	summary  summary.Generator
	now      func() time.Time
	newID    func() string

	noticeDuration time.Duration

	tasks  []model.Task
	filter model.Filter
	voice  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDs overrides the task id generator.
func WithIDs(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithVoice sets the initial voice flag.
func WithVoice(enabled bool) Option {
	return func(c *Controller) { c.voice = enabled }
}

// WithNoticeDuration sets how long task and voice notices stay visible.
// Non-positive values keep model.DefaultNoticeDuration.
func WithNoticeDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.noticeDuration = d
		}
	}
}

// WithSummary overrides the summary generator.
func WithSummary(g summary.Generator) Option {
	return func(c *Controller) { c.summary = g }
}

// New creates a Controller over s. A nil notifier or speaker discards output.
func New(s store.Store, n Notifier, sp Speaker, opts ...Option) *Controller {
	c := &Controller{
		store:    s,
		notifier: n,
		speaker:  sp,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		tasks:    []model.Task{},
		filter:   model.FilterAll,

		noticeDuration: model.DefaultNoticeDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = discard{}
	}
	if c.speaker == nil {
		c.speaker = discard{}
	}
	return c
}

// Load replaces the in-memory list with the stored collection.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reloadLocked(ctx)
}

// reloadLocked re-reads the store so that changes written by another
// process, such as a notified flag set by a headless watcher, are not
// overwritten by a stale in-memory copy.
func (c *Controller) reloadLocked(ctx context.Context) error {
	tasks, err := c.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	c.tasks = tasks
	return nil
}

// Tasks returns a copy of every task in insertion order.
func (c *Controller) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]model.Task(nil), c.tasks...)
}

// Task returns the task with the given id.
func (c *Controller) Task(id string) (model.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return c.tasks[i], true
}

// AddTask validates d, persists the new task and appends it to the list.
// Invalid drafts return an error wrapping ErrInvalidDraft and create nothing.
func (c *Controller) AddTask(ctx context.Context, d Draft) (model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if err := d.Validate(now); err != nil {
		return model.Task{}, err
	}
	if err := c.reloadLocked(ctx); err != nil {
		return model.Task{}, err
	}

	task := d.Build(c.newID(), now)
	for c.indexOf(task.ID) >= 0 {
		task.ID = c.newID()
	}

	if err := c.store.Add(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("adding task: %w", err)
	}
	c.tasks = append(c.tasks, task)

	c.notifier.Notify(model.Notice{
		Kind:        model.NoticeTaskAdded,
		Title:       "Task Added",
		Description: "Your new task has been created successfully",
		Duration:    c.noticeDuration,
		TaskID:      task.ID,
	})
	if c.voice {
		c.speaker.Speak(fmt.Sprintf("New task added: %s, due %s", task.Title, c.relative(task, now)))
	}

	return task, nil
}

// ToggleCompletion flips the completed flag of the task with the given id.
// ok is false when no such task exists.
func (c *Controller) ToggleCompletion(ctx context.Context, id string) (task model.Task, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.reloadLocked(ctx); err != nil {
		return model.Task{}, false, err
	}
	i := c.indexOf(id)
	if i < 0 {
		return model.Task{}, false, nil
	}

	task = c.tasks[i]
	task.Completed = !task.Completed
	if err := c.store.Update(ctx, task); err != nil {
		return model.Task{}, true, fmt.Errorf("updating task %s: %w", id, err)
	}
	c.tasks[i] = task

	if task.Completed && c.voice {
		c.speaker.Speak(fmt.Sprintf("Great job! Task \"%s\" marked as complete.", task.Title))
	}

	return task, true, nil
}

// DeleteTask removes the task with the given id. ok is false when no such
// task exists.
func (c *Controller) DeleteTask(ctx context.Context, id string) (ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.reloadLocked(ctx); err != nil {
		return false, err
	}
	i := c.indexOf(id)
	if i < 0 {
		return false, nil
	}

	if err := c.store.Delete(ctx, id); err != nil {
		return true, fmt.Errorf("deleting task %s: %w", id, err)
	}
	c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)

	c.notifier.Notify(model.Notice{
		Kind:        model.NoticeTaskDeleted,
		Title:       "Task Deleted",
		Description: "The task has been removed",
		Duration:    c.noticeDuration,
		TaskID:      id,
	})

	return true, nil
}

// SetFilter selects the active filter and returns the tasks it shows.
func (c *Controller) SetFilter(f model.Filter) []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter = f
	return c.filter.Apply(c.tasks, c.now())
}

// Filter returns the active filter.
func (c *Controller) Filter() model.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.filter
}

// Visible returns the tasks shown under the active filter.
func (c *Controller) Visible() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.filter.Apply(c.tasks, c.now())
}

// VoiceEnabled reports whether spoken output is on.
func (c *Controller) VoiceEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.voice
}

// ToggleVoice flips spoken output and returns the new state.
func (c *Controller) ToggleVoice() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.voice = !c.voice
	state, word := "Disabled", "off"
	if c.voice {
		state, word = "Enabled", "on"
	}
	c.notifier.Notify(model.Notice{
		Kind:        model.NoticeVoice,
		Title:       "Voice Assistant " + state,
		Description: "Voice guidance is now " + word,
		Duration:    c.noticeDuration,
	})
	return c.voice
}

// Summary returns the status report for the current tasks.
func (c *Controller) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.summary.Generate(c.tasks, c.now())
}

// SpeakSummary reads the status report aloud and returns it.
func (c *Controller) SpeakSummary() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := c.summary.Generate(c.tasks, c.now())
	c.speaker.Speak(text)
	return text
}

// CheckReminders fires the one-time reminder for every task that has just
// entered the reminder window, and returns those tasks. Each task is
// persisted as notified before its reminder is shown, so a failed write
// never produces a second reminder.
func (c *Controller) CheckReminders(ctx context.Context) ([]model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.reloadLocked(ctx); err != nil {
		return nil, err
	}

	now := c.now()
	var fired []model.Task
	for i, t := range c.tasks {
		if _, ok := reminder.ShouldFire(t, now); !ok {
			continue
		}

		t.Notified = true
		if err := c.store.Update(ctx, t); err != nil {
			return fired, fmt.Errorf("marking task %s notified: %w", t.ID, err)
		}
		c.tasks[i] = t
		fired = append(fired, t)

		log.Printf("reminder: task %s due in %s", t.ID, reminder.Until(t, now))
		c.notifier.Notify(reminder.Message(t, now))
		if c.voice {
			c.speaker.Speak(reminder.Spoken(t, now))
		}
	}
	return fired, nil
}

func (c *Controller) indexOf(id string) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) relative(t model.Task, now time.Time) string {
	due, err := t.DueInstant(now.Location())
	if err != nil {
		return "soon"
	}
	return model.Relative(due, now)
}

type discard struct{}

func (discard) Notify(model.Notice) {}
func (discard) Speak(string)        {}
