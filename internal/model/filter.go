package model

import (
	"fmt"
	"time"
)

// Filter selects a subset of the task collection for display.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterUpcoming  Filter = "upcoming"
	FilterCompleted Filter = "completed"
)

// Filters lists the filters in tab order.
var Filters = []Filter{FilterAll, FilterToday, FilterUpcoming, FilterCompleted}

// ParseFilter maps s to a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	switch f {
	case FilterAll, FilterToday, FilterUpcoming, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Label returns the tab caption.
func (f Filter) Label() string {
	switch f {
	case FilterAll:
		return "All"
	case FilterToday:
		return "Today"
	case FilterUpcoming:
		return "Upcoming"
	case FilterCompleted:
		return "Completed"
	default:
		return string(f)
	}
}

// Next returns the filter after f in tab order, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Match reports whether t passes the filter. Date predicates compare calendar
// days only; "today" and "upcoming" keep completed tasks.
func (f Filter) Match(t Task, now time.Time) bool {
	switch f {
	case FilterToday:
		return t.DueDate == Day(now)
	case FilterUpcoming:
		return t.DueDate > Day(now)
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the tasks that pass the filter, in their original order.
func (f Filter) Apply(tasks []Task, now time.Time) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, now) {
			out = append(out, t)
		}
	}
	return out
}
