package app

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/tracker"
)

// tasksLoadedMsg is sent after the controller has read the store.
type tasksLoadedMsg struct{ err error }

// taskAddedMsg is sent after a new task is persisted.
type taskAddedMsg struct {
	task model.Task
	err  error
}

// taskToggledMsg is sent after a task's completion flag is flipped.
type taskToggledMsg struct{ err error }

// taskDeletedMsg is sent after a task is removed.
type taskDeletedMsg struct {
	id  string
	err error
}

// remindersCheckedMsg is sent after a reminder scan.
type remindersCheckedMsg struct {
	fired []model.Task
	err   error
}

// voiceToggledMsg is sent after voice output is switched.
type voiceToggledMsg struct{ enabled bool }

// summarySpokenMsg is sent after the summary was handed to the speaker.
type summarySpokenMsg struct{ text string }

// unreadCountMsg carries the number of unread reminders to the UI.
type unreadCountMsg struct {
	count int
}

// loadTasks reads the store into the controller.
func (m Model) loadTasks() tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		return tasksLoadedMsg{err: c.Load(context.Background())}
	}
}

// addTask validates and persists a draft.
func (m Model) addTask(d tracker.Draft) tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		task, err := c.AddTask(context.Background(), d)
		return taskAddedMsg{task: task, err: err}
	}
}

// toggleTask flips the completed flag of a task.
func (m Model) toggleTask(id string) tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		_, _, err := c.ToggleCompletion(context.Background(), id)
		return taskToggledMsg{err: err}
	}
}

// deleteTask removes a task.
func (m Model) deleteTask(id string) tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		_, err := c.DeleteTask(context.Background(), id)
		return taskDeletedMsg{id: id, err: err}
	}
}

// checkReminders runs one reminder scan.
func (m Model) checkReminders() tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		fired, err := c.CheckReminders(context.Background())
		return remindersCheckedMsg{fired: fired, err: err}
	}
}

// toggleVoice switches voice output.
func (m Model) toggleVoice() tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		return voiceToggledMsg{enabled: c.ToggleVoice()}
	}
}

// speakSummary reads the summary aloud.
func (m Model) speakSummary() tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		return summarySpokenMsg{text: c.SpeakSummary()}
	}
}

// fetchUnreadCount returns a tea.Cmd that queries the notification log
// for the number of unread reminders.
func (m Model) fetchUnreadCount() tea.Cmd {
	l := m.notifications
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		notifications, err := l.GetUnreadNotifications(context.Background())
		if err != nil {
			log.Printf("app: counting unread reminders: %v", err)
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: len(notifications)}
	}
}

// notificationsReadMsg is sent after reminders were marked read.
type notificationsReadMsg struct {
	unread int
	err    error
}

// markAllRead clears the unread reminder count.
func (m Model) markAllRead() tea.Cmd {
	l := m.notifications
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		if err := l.MarkAllNotificationsRead(context.Background()); err != nil {
			return notificationsReadMsg{err: err}
		}
		return notificationsReadMsg{unread: 0}
	}
}

// markTaskRead marks the unread reminders of one task as read, so opening
// a reminded task acknowledges it.
func (m Model) markTaskRead(taskID string) tea.Cmd {
	l := m.notifications
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		unread, err := l.GetUnreadNotifications(ctx)
		if err != nil {
			return notificationsReadMsg{err: err}
		}
		remaining := 0
		for _, n := range unread {
			if n.TaskID != taskID {
				remaining++
				continue
			}
			if err := l.MarkNotificationRead(ctx, n.ID); err != nil {
				return notificationsReadMsg{err: err}
			}
		}
		return notificationsReadMsg{unread: remaining}
	}
}
