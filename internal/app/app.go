package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/reminder"
	"github.com/nhle/taskwhisper/internal/store"
	"github.com/nhle/taskwhisper/internal/theme"
	"github.com/nhle/taskwhisper/internal/tracker"
	"github.com/nhle/taskwhisper/internal/ui"
	"github.com/nhle/taskwhisper/internal/ui/command"
	"github.com/nhle/taskwhisper/internal/ui/detail"
	helpview "github.com/nhle/taskwhisper/internal/ui/help"
	"github.com/nhle/taskwhisper/internal/ui/taskform"
	"github.com/nhle/taskwhisper/internal/ui/tasklist"
	"github.com/nhle/taskwhisper/internal/ui/voice"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewForm
	ViewVoice
	ViewHelp
	ViewCommand
)

// Options wires the root model to its collaborators.
type Options struct {
	Controller *tracker.Controller
	Scanner    *reminder.Scanner
	Toasts     *Toasts

	// Notifications backs the unread reminder counter. It may be nil.
	Notifications store.NotificationLog

	// SpeechEngine names the speech command in use, or is empty.
	SpeechEngine string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and the task tracker session.
type Model struct {
	currentView   ViewState
	previousView  ViewState
	layout        ui.Layout
	ctrl          *tracker.Controller
	scanner       *reminder.Scanner
	toasts        *Toasts
	notifications store.NotificationLog
	now           func() time.Time
	keys          *KeyMap
	taskList      tasklist.Model
	detail        detail.Model
	form          taskform.Model
	voiceView     voice.Model
	helpView      helpview.Model
	commandView   command.Model
	ready         bool
	unreadCount   int
	toast         *model.Notice
	toastSeq      int
}

// New creates a new root application model.
func New(opts Options) Model {
	keys := DefaultKeyMap()
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	scanner := opts.Scanner
	if scanner == nil {
		scanner = reminder.NewScanner(reminder.DefaultInterval)
	}
	toasts := opts.Toasts
	if toasts == nil {
		toasts = NewToasts(0)
	}

	return Model{
		currentView:   ViewList,
		ctrl:          opts.Controller,
		scanner:       scanner,
		toasts:        toasts,
		notifications: opts.Notifications,
		now:           now,
		keys:          keys,
		taskList:      tasklist.New(keys, 80, 24),
		detail:        detail.New(keys, 80, 24),
		form:          taskform.New(now, 80, 24),
		voiceView:     voice.New(keys, opts.SpeechEngine, 80, 24),
		helpView:      helpview.New(keys, command.Commands, 80, 24),
		commandView:   command.New(80, 24),
	}
}

// Init loads the tasks and starts the reminder scanner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadTasks(),
		m.scanner.Start(),
		m.toasts.Wait(),
		m.fetchUnreadCount(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.form.SetSize(contentWidth, contentHeight)
		m.voiceView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tasksLoadedMsg:
		if msg.err != nil {
			return m, m.showError("Could not load tasks", msg.err)
		}
		m.taskList.SetFilter(m.ctrl.Filter())
		m.voiceView.SetEnabled(m.ctrl.VoiceEnabled())
		return m, m.refresh()

	case taskAddedMsg:
		if msg.err != nil {
			return m, m.showError("Could not add task", msg.err)
		}
		return m, m.refresh()

	case taskToggledMsg:
		if msg.err != nil {
			return m, m.showError("Could not update task", msg.err)
		}
		return m, m.refresh()

	case taskDeletedMsg:
		if msg.err != nil {
			return m, m.showError("Could not delete task", msg.err)
		}
		if m.currentView == ViewDetail && m.detail.TaskID() == msg.id {
			m.currentView = ViewList
		}
		return m, m.refresh()

	case remindersCheckedMsg:
		var cmds []tea.Cmd
		if msg.err != nil {
			cmds = append(cmds, m.showError("Could not record reminder", msg.err))
		}
		if len(msg.fired) > 0 {
			cmds = append(cmds, m.refresh(), m.fetchUnreadCount())
		}
		return m, tea.Batch(cmds...)

	case reminder.TickMsg:
		return m, tea.Batch(
			m.checkReminders(),
			m.scanner.WaitForNextTick(),
		)

	case noticeMsg:
		return m, tea.Batch(m.showNotice(msg.notice), m.toasts.Wait())

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case notificationsReadMsg:
		if msg.err != nil {
			return m, tea.Batch(m.showError("Could not mark reminders read", msg.err), m.fetchUnreadCount())
		}
		m.unreadCount = msg.unread
		return m, nil

	case voiceToggledMsg:
		m.voiceView.SetEnabled(msg.enabled)
		return m, nil

	case summarySpokenMsg:
		m.voiceView.SetSummary(msg.text)
		return m, nil

	case tasklist.SelectedTaskMsg:
		task, ok := m.ctrl.Task(msg.TaskID)
		if !ok {
			return m, nil
		}
		m.detail.SetTask(&task, m.now())
		m.previousView = m.currentView
		m.currentView = ViewDetail
		if task.Notified {
			return m, m.markTaskRead(task.ID)
		}
		return m, nil

	case tasklist.FilterChangedMsg:
		visible := m.ctrl.SetFilter(msg.Filter)
		return m, m.taskList.SetTasks(visible, m.now())

	case taskform.SubmittedMsg:
		m.currentView = ViewList
		return m, m.addTask(msg.Draft)

	case taskform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		switch msg.Action {
		case detail.ActionToggle:
			return m, m.toggleTask(msg.TaskID)
		case detail.ActionDelete:
			return m, m.deleteTask(msg.TaskID)
		}
		return m, nil

	case voice.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case voice.SpeakMsg:
		return m, m.speakSummary()

	case voice.ToggleMsg:
		return m, m.toggleVoice()

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey handles keys that are not owned by a sub-view. Apart from
// ctrl+c and the help toggle, they only apply on the list.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.scanner.Stop()
		return tea.Quit, true

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		if m.currentView == ViewList || m.currentView == ViewDetail {
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return nil, true
		}

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
	}

	if m.currentView != ViewList {
		return nil, false
	}

	switch msg.String() {
	case "q":
		m.scanner.Stop()
		return tea.Quit, true

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus(), true

	case "n":
		return m.openForm(), true

	case "x":
		if task, ok := m.taskList.SelectedTask(); ok {
			return m.toggleTask(task.ID), true
		}
		return nil, true

	case "d":
		if task, ok := m.taskList.SelectedTask(); ok {
			return m.deleteTask(task.ID), true
		}
		return nil, true

	case "v":
		return m.toggleVoice(), true

	case "s":
		return m.speakSummary(), true

	case "V":
		m.openVoicePanel()
		return nil, true
	}

	return nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewVoice:
		m.voiceView, cmd = m.voiceView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// openForm switches to a fresh add-task form.
func (m *Model) openForm() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewForm
	return m.form.Start()
}

// openVoicePanel shows the voice panel with an up-to-date summary.
func (m *Model) openVoicePanel() {
	m.voiceView.SetSummary(m.ctrl.Summary())
	m.voiceView.SetEnabled(m.ctrl.VoiceEnabled())
	m.previousView = m.currentView
	m.currentView = ViewVoice
}

// refresh pushes the controller's visible tasks into the list and keeps
// the open detail and voice panels current.
func (m *Model) refresh() tea.Cmd {
	now := m.now()
	if m.currentView == ViewDetail {
		if task, ok := m.ctrl.Task(m.detail.TaskID()); ok {
			m.detail.SetTask(&task, now)
		} else {
			m.currentView = ViewList
		}
	}
	if m.currentView == ViewVoice {
		m.voiceView.SetSummary(m.ctrl.Summary())
	}
	return m.taskList.SetTasks(m.ctrl.Visible(), now)
}

// showNotice puts n in the status bar and schedules its removal.
func (m *Model) showNotice(n model.Notice) tea.Cmd {
	if n.Duration <= 0 {
		n.Duration = model.DefaultNoticeDuration
	}
	m.toastSeq++
	m.toast = &n
	seq := m.toastSeq
	return tea.Tick(n.Duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// showError reports a failed operation in the status bar.
func (m *Model) showError(title string, err error) tea.Cmd {
	return m.showNotice(model.Notice{
		Kind:        model.NoticeError,
		Title:       title,
		Description: err.Error(),
		Duration:    5 * time.Second,
	})
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Task Whisper"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("Task Whisper [%d reminders]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.sessionState())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.renderToast(), m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewForm:
		return m.form.View()
	case ViewVoice:
		return m.voiceView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// sessionState summarises the voice flag and the active filter.
func (m Model) sessionState() string {
	voiceState := "voice off"
	if m.ctrl.VoiceEnabled() {
		voiceState = "voice on"
	}
	return fmt.Sprintf("%s | %s", voiceState, m.ctrl.Filter().Label())
}

func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}
	text := m.toast.Title
	if m.toast.Description != "" {
		text += ": " + m.toast.Description
	}
	return theme.ToastStyle(m.toast.Kind).Render(text)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewDetail:
		return "esc back | x toggle | d delete | j/k scroll"
	case ViewForm:
		return "enter next | esc cancel"
	case ViewVoice:
		return "s speak | v toggle voice | esc close"
	default:
		return "q quit | ? help | n new | x done | d delete | 1-4 filter | v voice | s speak"
	}
}
