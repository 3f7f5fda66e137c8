package taskform

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestValidateDueDate(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	m := New(func() time.Time { return now }, 80, 24)

	assert.NoError(t, m.validateDueDate("2024-06-10"))
	assert.NoError(t, m.validateDueDate(" 2024-07-01 "))
	assert.Error(t, m.validateDueDate(""))
	assert.Error(t, m.validateDueDate("2024-06-09"))
	assert.Error(t, m.validateDueDate("June 10"))
}

func TestValidateOptionalTime(t *testing.T) {
	assert.NoError(t, validateOptionalTime(""))
	assert.NoError(t, validateOptionalTime("14:00"))
	assert.Error(t, validateOptionalTime("2pm"))
	assert.Error(t, validateOptionalTime("25:00"))
}

func TestValidateRequired(t *testing.T) {
	v := validateRequired("Title")
	assert.Error(t, v("   "))
	assert.NoError(t, v("Pay rent"))
}

func TestStartPrefillsToday(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	m := New(func() time.Time { return now }, 80, 24)
	m.fb.title = "stale"

	m.Start()
	assert.Equal(t, "2024-06-10", m.fb.dueDate)
	assert.Empty(t, m.fb.title)
	assert.NotNil(t, m.form)
}

func TestHandleSubmitTrimsFields(t *testing.T) {
	m := New(nil, 80, 24)
	m.fb.title = "  Pay rent "
	m.fb.dueDate = "2099-01-01"
	m.fb.dueTime = " 14:00"

	msg := m.handleSubmit()()
	sub, ok := msg.(SubmittedMsg)
	if assert.True(t, ok) {
		assert.Equal(t, "Pay rent", sub.Draft.Title)
		assert.Equal(t, "14:00", sub.Draft.DueTime)
		assert.Equal(t, "2099-01-01", sub.Draft.DueDate)
	}
}

func TestEscCancels(t *testing.T) {
	m := New(nil, 80, 24)
	m.Start()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if assert.NotNil(t, cmd) {
		assert.IsType(t, CancelMsg{}, cmd())
	}
}

func TestHandleSubmitPadsHour(t *testing.T) {
	m := New(nil, 80, 24)
	m.fb.title = "Standup"
	m.fb.dueDate = "2099-01-01"
	m.fb.dueTime = "9:05"

	sub, ok := m.handleSubmit()().(SubmittedMsg)
	if assert.True(t, ok) {
		assert.Equal(t, "09:05", sub.Draft.DueTime)
	}
}
