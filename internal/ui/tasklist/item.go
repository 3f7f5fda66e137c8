package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/theme"
)

// DueLayout formats a due instant in the list, e.g. "Jun 10, 2:00 PM".
const DueLayout = "Jan 2, 3:04 PM"

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task

	// Now is the instant the list was built at, for the overdue marker.
	Now time.Time
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns the due instant, or the raw date if it cannot be parsed.
func (i TaskItem) Description() string {
	return dueLabel(i.Task, i.Now.Location())
}

// Overdue reports whether the task is incomplete and past its due instant.
func (i TaskItem) Overdue() bool {
	if i.Task.Completed {
		return false
	}
	due, err := i.Task.DueInstant(i.Now.Location())
	return err == nil && due.Before(i.Now)
}

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct{}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row:
// checkbox, priority badge, title, due instant and an overdue marker.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	task := ti.Task

	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}

	priBadge := theme.PriorityStyle(task.Priority).Render(fmt.Sprintf("%-6s", task.Priority.Label()))
	due := theme.DueDateStyle.Render(" " + ti.Description())

	overdue := ""
	if ti.Overdue() {
		overdue = theme.OverdueStyle.Render(" OVERDUE")
	}

	line := fmt.Sprintf("%s %s %s%s%s", check, priBadge, task.Title, due, overdue)

	if task.Completed {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func dueLabel(t model.Task, loc *time.Location) string {
	due, err := t.DueInstant(loc)
	if err != nil {
		return t.DueDate
	}
	return due.Format(DueLayout)
}
