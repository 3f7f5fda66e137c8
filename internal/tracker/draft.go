package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/taskwhisper/internal/model"
)

// ErrInvalidDraft is returned when a draft cannot become a task.
var ErrInvalidDraft = errors.New("invalid task draft")

// Draft is the raw input for a new task.
type Draft struct {
	Title        string
	Description  string
	Priority     model.Priority
	DueDate      string
	DueTime      string
	Requirements string
}

// Validate checks the draft against now. Every failure wraps ErrInvalidDraft.
func (d Draft) Validate(now time.Time) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}
	if d.DueDate == "" {
		return fmt.Errorf("%w: due date is required", ErrInvalidDraft)
	}
	if _, err := time.ParseInLocation(model.DateLayout, d.DueDate, now.Location()); err != nil {
		return fmt.Errorf("%w: due date must be YYYY-MM-DD", ErrInvalidDraft)
	}
	if d.DueDate < model.Day(now) {
		return fmt.Errorf("%w: due date is in the past", ErrInvalidDraft)
	}
	if d.DueTime != "" {
		if _, err := time.Parse(model.TimeLayout, d.DueTime); err != nil {
			return fmt.Errorf("%w: due time must be HH:MM", ErrInvalidDraft)
		}
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidDraft, d.Priority)
	}
	return nil
}

// Build turns a validated draft into a pending task.
func (d Draft) Build(id string, now time.Time) model.Task {
	priority := d.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	dueTime := model.DefaultDueTime
	if parsed, err := time.Parse(model.TimeLayout, d.DueTime); err == nil {
		dueTime = parsed.Format(model.TimeLayout)
	}
	return model.Task{
		ID:           id,
		Title:        strings.TrimSpace(d.Title),
		Description:  d.Description,
		Priority:     priority,
		DueDate:      d.DueDate,
		DueTime:      dueTime,
		Requirements: d.Requirements,
		CreatedAt:    now,
	}
}
