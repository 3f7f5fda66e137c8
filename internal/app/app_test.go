package app

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/reminder"
	"github.com/nhle/taskwhisper/internal/store"
	"github.com/nhle/taskwhisper/internal/tracker"
	"github.com/nhle/taskwhisper/internal/ui/taskform"
	"github.com/nhle/taskwhisper/internal/ui/tasklist"
	"github.com/nhle/taskwhisper/tests/testutil"
)

var now = testutil.Date(2024, 6, 10, 9, 0)

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, tasks ...model.Task) (Model, *tracker.Controller, *Toasts) {
	t.Helper()
	return newTestModelWithLog(t, nil, tasks...)
}

func newTestModelWithLog(t *testing.T, l store.NotificationLog, tasks ...model.Task) (Model, *tracker.Controller, *Toasts) {
	t.Helper()

	ts := testutil.NewTestTaskStore(t, now)
	for _, task := range tasks {
		require.NoError(t, ts.Add(context.Background(), task))
	}

	toasts := NewToasts(8)
	ctrl := tracker.New(ts, toasts, nil, tracker.WithClock(testutil.FixedClock(now)))
	scanner := reminder.NewScanner(reminder.DefaultInterval)
	t.Cleanup(scanner.Stop)

	m := New(Options{
		Controller:    ctrl,
		Scanner:       scanner,
		Toasts:        toasts,
		Notifications: l,
		Now:           testutil.FixedClock(now),
	})

	mdl, _ := m.Update(m.loadTasks()())
	mdl, _ = mdl.(Model).Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mdl.(Model), ctrl, toasts
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	mdl, cmd := m.Update(msg)
	return mdl.(Model), cmd
}

func TestToasts_DeliversInOrder(t *testing.T) {
	toasts := NewToasts(2)
	toasts.Notify(model.Notice{Title: "first"})
	toasts.Notify(model.Notice{Title: "second"})
	toasts.Notify(model.Notice{Title: "dropped"})

	msg := toasts.Wait()()
	require.IsType(t, noticeMsg{}, msg)
	assert.Equal(t, "first", msg.(noticeMsg).notice.Title)

	msg = toasts.Wait()()
	assert.Equal(t, "second", msg.(noticeMsg).notice.Title)
}

func TestModel_LoadShowsTasks(t *testing.T) {
	m, _, _ := newTestModel(t,
		testutil.Task("a", "Buy milk", "2024-06-10", "18:00"),
	)

	selected, ok := m.taskList.SelectedTask()
	require.True(t, ok)
	assert.Equal(t, "a", selected.ID)

	view := m.View()
	assert.Contains(t, view, "Task Whisper")
	assert.Contains(t, view, "Buy milk")
}

func TestModel_ToggleSelectedTask(t *testing.T) {
	m, ctrl, _ := newTestModel(t,
		testutil.Task("a", "Buy milk", "2024-06-10", "18:00"),
	)

	m, cmd := update(t, m, keyPress("x"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	task, ok := ctrl.Task("a")
	require.True(t, ok)
	assert.True(t, task.Completed)
}

func TestModel_DeleteSelectedTask(t *testing.T) {
	m, ctrl, _ := newTestModel(t,
		testutil.Task("a", "Buy milk", "2024-06-10", "18:00"),
	)

	m, cmd := update(t, m, keyPress("d"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Empty(t, ctrl.Tasks())
	_, ok := m.taskList.SelectedTask()
	assert.False(t, ok)
}

func TestModel_OpenDetailAndBack(t *testing.T) {
	m, _, _ := newTestModel(t,
		testutil.Task("a", "Buy milk", "2024-06-10", "18:00"),
	)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, ViewDetail, m.currentView)
	assert.Equal(t, "a", m.detail.TaskID())

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, ViewList, m.currentView)
}

func TestModel_NewOpensForm(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, keyPress("n"))
	assert.Equal(t, ViewForm, m.currentView)

	m, _ = update(t, m, taskform.CancelMsg{})
	assert.Equal(t, ViewList, m.currentView)
}

func TestModel_FilterCommand(t *testing.T) {
	m, ctrl, _ := newTestModel(t,
		testutil.Task("a", "Today", "2024-06-10", ""),
		testutil.Task("b", "Later", "2024-06-12", ""),
	)

	m.executeCommand("today")
	assert.Equal(t, model.FilterToday, ctrl.Filter())
	assert.Equal(t, model.FilterToday, m.taskList.Filter())
	require.Len(t, ctrl.Visible(), 1)
	assert.Equal(t, "a", ctrl.Visible()[0].ID)
}

func TestModel_UnknownCommandShowsError(t *testing.T) {
	m, _, _ := newTestModel(t)

	cmd := m.executeCommand("frobnicate")
	require.NotNil(t, cmd)
	require.NotNil(t, m.toast)
	assert.Equal(t, model.NoticeError, m.toast.Kind)
	assert.Equal(t, "Unknown command", m.toast.Title)
}

func TestModel_VoiceToggleRaisesToast(t *testing.T) {
	m, ctrl, toasts := newTestModel(t)

	m, cmd := update(t, m, keyPress("v"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.True(t, ctrl.VoiceEnabled())
	assert.Contains(t, m.sessionState(), "voice on")

	m, _ = update(t, m, toasts.Wait()())
	require.NotNil(t, m.toast)
	assert.Equal(t, "Voice Assistant Enabled", m.toast.Title)
}

func TestModel_ToastExpiry(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.showNotice(model.Notice{Title: "old"})
	stale := m.toastSeq
	m.showNotice(model.Notice{Title: "new"})

	m, _ = update(t, m, toastExpiredMsg{seq: stale})
	require.NotNil(t, m.toast)
	assert.Equal(t, "new", m.toast.Title)

	m, _ = update(t, m, toastExpiredMsg{seq: m.toastSeq})
	assert.Nil(t, m.toast)
}

func TestModel_ReminderTickFiresOnce(t *testing.T) {
	m, ctrl, toasts := newTestModel(t,
		testutil.Task("a", "Call mom", "2024-06-10", "09:30"),
	)

	m, _ = update(t, m, m.checkReminders()())
	task, ok := ctrl.Task("a")
	require.True(t, ok)
	assert.True(t, task.Notified)

	m, _ = update(t, m, toasts.Wait()())
	require.NotNil(t, m.toast)
	assert.Equal(t, "Task Reminder", m.toast.Title)

	msg := m.checkReminders()()
	require.IsType(t, remindersCheckedMsg{}, msg)
	assert.Empty(t, msg.(remindersCheckedMsg).fired)
}

func TestModel_QuitStopsScanner(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.scanner.Start())
}

type brokenLog struct {
	store.NotificationLog
}

func (brokenLog) MarkAllNotificationsRead(context.Context) error {
	return errors.New("database is locked")
}

func (brokenLog) GetUnreadNotifications(context.Context) ([]model.Notification, error) {
	return nil, nil
}

func TestModel_ReadCommandFailureShowsError(t *testing.T) {
	m, _, _ := newTestModelWithLog(t, brokenLog{})
	m.unreadCount = 2

	cmd := m.executeCommand("read")
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	require.NotNil(t, m.toast)
	assert.Equal(t, model.NoticeError, m.toast.Kind)
	assert.Equal(t, "Could not mark reminders read", m.toast.Title)
	assert.Contains(t, m.toast.Description, "database is locked")
	assert.Equal(t, 2, m.unreadCount)
}

func TestModel_ReadCommandClearsCount(t *testing.T) {
	ctx := context.Background()
	log := testutil.NewTestStore(t)
	require.NoError(t, log.CreateNotification(ctx, model.Notification{TaskID: "a", Title: "Task Reminder"}))

	m, _, _ := newTestModelWithLog(t, log)
	m, _ = update(t, m, m.fetchUnreadCount()())
	assert.Equal(t, 1, m.unreadCount)

	m, _ = update(t, m, m.executeCommand("read")())
	assert.Equal(t, 0, m.unreadCount)
	assert.Nil(t, m.toast)
}

func TestModel_OpeningRemindedTaskMarksItRead(t *testing.T) {
	ctx := context.Background()
	log := testutil.NewTestStore(t)
	require.NoError(t, log.CreateNotification(ctx, model.Notification{ID: "n1", TaskID: "a", Title: "Task Reminder"}))
	require.NoError(t, log.CreateNotification(ctx, model.Notification{ID: "n2", TaskID: "b", Title: "Task Reminder"}))

	reminded := testutil.Task("a", "Call mom", "2024-06-10", "09:30")
	reminded.Notified = true
	m, _, _ := newTestModelWithLog(t, log, reminded, testutil.Task("b", "Pay rent", "2024-06-10", "09:45"))

	m, cmd := update(t, m, tasklist.SelectedTaskMsg{TaskID: "a"})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, 1, m.unreadCount)

	unread, err := log.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n2", unread[0].ID)
}
