package tasklist

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskwhisper/internal/keys"
	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/theme"
)

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID string
}

// FilterChangedMsg is sent when the user picks a different filter tab.
type FilterChangedMsg struct {
	Filter model.Filter
}

// Model is the filter tabs plus the task list.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	filter model.Filter
	width  int
	height int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, TaskDelegate{}, width, height-2)
	l.SetShowTitle(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("task", "tasks")
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		keys:   k,
		filter: model.FilterAll,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			task, ok := m.SelectedTask()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedTaskMsg{TaskID: task.ID}
			}

		case key.Matches(msg, m.keys.FilterAll):
			return m, m.selectFilter(model.FilterAll)
		case key.Matches(msg, m.keys.FilterToday):
			return m, m.selectFilter(model.FilterToday)
		case key.Matches(msg, m.keys.FilterUpcoming):
			return m, m.selectFilter(model.FilterUpcoming)
		case key.Matches(msg, m.keys.FilterCompleted):
			return m, m.selectFilter(model.FilterCompleted)
		case key.Matches(msg, m.keys.NextFilter):
			return m, m.selectFilter(m.filter.Next())
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) selectFilter(f model.Filter) tea.Cmd {
	m.filter = f
	return func() tea.Msg {
		return FilterChangedMsg{Filter: f}
	}
}

// SetTasks replaces the visible rows, keeping the cursor on the same task
// when it is still shown.
func (m *Model) SetTasks(tasks []model.Task, now time.Time) tea.Cmd {
	selected, hadSelection := m.SelectedTask()

	items := make([]list.Item, len(tasks))
	cursor := -1
	for i, task := range tasks {
		items[i] = TaskItem{Task: task, Now: now}
		if hadSelection && task.ID == selected.ID {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)

	switch {
	case cursor >= 0:
		m.list.Select(cursor)
	case m.list.Index() >= len(items) && len(items) > 0:
		m.list.Select(len(items) - 1)
	}
	return cmd
}

// SetFilter marks f as the active tab without emitting a message.
func (m *Model) SetFilter(f model.Filter) {
	m.filter = f
}

// Filter returns the active tab.
func (m Model) Filter() model.Filter {
	return m.filter
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// View renders the tabs and the list.
func (m Model) View() string {
	tabs := m.renderTabs()

	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, tabs, m.renderEmptyState())
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, "", m.list.View())
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, len(model.Filters))
	for i, f := range model.Filters {
		label := string(rune('1'+i)) + " " + f.Label()
		if f == m.filter {
			rendered = append(rendered, theme.ActiveTabStyle.Render(label))
		} else {
			rendered = append(rendered, theme.TabStyle.Render(label))
		}
	}
	return strings.Join(rendered, " ")
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter != model.FilterAll {
		return style.Render("No tasks found.\nTry another filter.")
	}

	return style.Render("No tasks found.\n\nPress n to add a new task.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
