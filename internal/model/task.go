package model

import (
	"fmt"
	"time"
)

// Layouts used for the persisted date and time-of-day fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DefaultDueTime is applied when a task is created without a time of day.
const DefaultDueTime = "23:59"

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in ascending order of urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the capitalized display name.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return string(p)
	}
}

// ParsePriority maps s to a Priority. The empty string maps to medium.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Task is a single tracked item. Its JSON form is the persisted layout.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Priority     Priority  `json:"priority"`
	DueDate      string    `json:"dueDate"`
	DueTime      string    `json:"dueTime"`
	Requirements string    `json:"requirements"`
	Completed    bool      `json:"completed"`
	Notified     bool      `json:"notified"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DueInstant combines DueDate and DueTime in loc.
func (t Task) DueInstant(loc *time.Location) (time.Time, error) {
	dueTime := t.DueTime
	if dueTime == "" {
		dueTime = DefaultDueTime
	}
	due, err := time.ParseInLocation(DateLayout+" "+TimeLayout, t.DueDate+" "+dueTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing due instant of task %s: %w", t.ID, err)
	}
	return due, nil
}

// DueOn reports whether the task's due date is the calendar day of d.
func (t Task) DueOn(d time.Time) bool {
	return t.DueDate == Day(d)
}

// Day formats the calendar day of t in t's own location.
// Comparing two Day values as strings orders them chronologically.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}
