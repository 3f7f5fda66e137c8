package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/theme"
	"github.com/nhle/taskwhisper/internal/tracker"
)

// SubmittedMsg is dispatched when the form is completed.
type SubmittedMsg struct {
	Draft tracker.Draft
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title        string
	description  string
	priority     model.Priority
	dueDate      string
	dueTime      string
	requirements string
}

// Model is the Bubble Tea model for the new-task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	now    func() time.Time
	width  int
	height int
}

// New creates a new task form model. now decides what "today" means for
// due date validation; nil means time.Now.
func New(now func() time.Time, width, height int) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		now:    now,
		width:  width,
		height: height,
	}
}

// Start resets the fields and builds a fresh form. The due date is
// prefilled with today.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{
		priority: model.PriorityMedium,
		dueDate:  model.Day(m.now()),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorTeal).
		MarginBottom(1)

	content := titleStyle.Render("Add New Task") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	priorities := make([]huh.Option[model.Priority], 0, len(model.Priorities))
	for _, p := range model.Priorities {
		priorities = append(priorities, huh.NewOption(p.Label(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorities...).
				Value(&m.fb.priority),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.dueDate).
				Validate(m.validateDueDate),
			huh.NewInput().
				Title("Due Time").
				Placeholder("HH:MM (defaults to " + model.DefaultDueTime + ")").
				Value(&m.fb.dueTime).
				Validate(validateOptionalTime),
			huh.NewText().
				Title("Requirements").
				Placeholder("What will you need?").
				Value(&m.fb.requirements),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	d := tracker.Draft{
		Title:        strings.TrimSpace(m.fb.title),
		Description:  strings.TrimSpace(m.fb.description),
		Priority:     m.fb.priority,
		DueDate:      strings.TrimSpace(m.fb.dueDate),
		DueTime:      normalizeTime(m.fb.dueTime),
		Requirements: strings.TrimSpace(m.fb.requirements),
	}
	return func() tea.Msg { return SubmittedMsg{Draft: d} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

// validateDueDate requires a YYYY-MM-DD date that is today or later.
func (m Model) validateDueDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("due date is required")
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	if s < model.Day(m.now()) {
		return fmt.Errorf("due date cannot be in the past")
	}
	return nil
}

func validateOptionalTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.TimeLayout, s); err != nil {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

// normalizeTime pads a one-digit hour, so "9:05" becomes "09:05".
// Unparsable input is passed through for the controller to reject.
func normalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(model.TimeLayout, s); err == nil {
		return t.Format(model.TimeLayout)
	}
	return s
}
