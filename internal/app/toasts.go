package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskwhisper/internal/model"
)

// noticeMsg delivers a notice raised outside Update to the UI.
type noticeMsg struct {
	notice model.Notice
}

// toastExpiredMsg clears the toast with the given sequence number.
type toastExpiredMsg struct {
	seq int
}

// Toasts is a Notifier that queues notices for the status bar. The
// controller notifies from inside tea.Cmd goroutines, so notices cross
// into Update through a channel.
type Toasts struct {
	ch chan model.Notice
}

// NewToasts returns a Toasts queue holding up to size pending notices.
func NewToasts(size int) *Toasts {
	if size <= 0 {
		size = 16
	}
	return &Toasts{ch: make(chan model.Notice, size)}
}

// Notify implements notify.Notifier. A full queue drops the notice.
func (t *Toasts) Notify(n model.Notice) {
	select {
	case t.ch <- n:
	default:
	}
}

// Wait returns a tea.Cmd that delivers the next queued notice.
func (t *Toasts) Wait() tea.Cmd {
	return func() tea.Msg {
		n, ok := <-t.ch
		if !ok {
			return nil
		}
		return noticeMsg{notice: n}
	}
}
