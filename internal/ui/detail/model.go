package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskwhisper/internal/keys"
	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ActionMsg asks the parent to run an action on the shown task.
type ActionMsg struct {
	Action string
	TaskID string
}

// Actions carried by ActionMsg.
const (
	ActionToggle = "toggle"
	ActionDelete = "delete"
)

// Model shows every field of one task in a scrollable viewport.
type Model struct {
	task     *model.Task
	now      time.Time
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// SetTask shows task as of now. A nil task clears the view.
func (m *Model) SetTask(task *model.Task, now time.Time) {
	m.task = task
	m.now = now
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// TaskID returns the id of the shown task, or "".
func (m Model) TaskID() string {
	if m.task == nil {
		return ""
	}
	return m.task.ID
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Toggle):
			return m, m.action(ActionToggle)

		case key.Matches(msg, m.keys.Delete):
			return m, m.action(ActionDelete)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	if m.task == nil {
		return nil
	}
	id := m.task.ID
	return func() tea.Msg {
		return ActionMsg{Action: name, TaskID: id}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	state := "Pending"
	if task.Completed {
		state = "Completed"
	}
	priBadge := theme.PriorityStyle(task.Priority).Render(task.Priority.Label() + " priority")
	stateBadge := lipgloss.NewStyle().Foreground(theme.ColorTeal).Render(state)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, priBadge, "  ", stateBadge))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-10s", label+":")), valStyle.Render(value))
	}

	loc := m.now.Location()
	if due, err := task.DueInstant(loc); err == nil {
		sections = append(sections, row("Due", due.Format("Mon, Jan 2 2006 at 3:04 PM")+"  ("+model.Relative(due, m.now)+")"))
	} else {
		sections = append(sections, row("Due", task.DueDate+" "+task.DueTime))
	}
	if !task.CreatedAt.IsZero() {
		sections = append(sections, row("Created", task.CreatedAt.In(loc).Format("2006-01-02 15:04")))
	}
	reminded := "not yet"
	if task.Notified {
		reminded = "sent"
	}
	sections = append(sections, row("Reminder", reminded))

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	placeholder := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Italic(true)

	for _, block := range []struct{ title, body, empty string }{
		{"Description", task.Description, "No description"},
		{"Requirements", task.Requirements, "Nothing required"},
	} {
		sections = append(sections, "", separator, "", headerStyle.Render(block.title))
		if block.body == "" {
			sections = append(sections, placeholder.Render(block.empty))
		} else {
			sections = append(sections, block.body)
		}
	}

	return strings.Join(sections, "\n")
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
