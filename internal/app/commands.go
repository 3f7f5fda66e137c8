package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskwhisper/internal/model"
)

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "new", "add":
		return m.openForm()
	case "voice":
		return m.toggleVoice()
	case "speak":
		return m.speakSummary()
	case "summary":
		m.openVoicePanel()
		return nil
	case "check":
		m.scanner.Trigger()
		return nil
	case "read":
		return m.markAllRead()
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		m.scanner.Stop()
		return tea.Quit
	}

	if f, err := model.ParseFilter(cmd); err == nil {
		m.taskList.SetFilter(f)
		return m.taskList.SetTasks(m.ctrl.SetFilter(f), m.now())
	}

	return m.showNotice(model.Notice{
		Kind:        model.NoticeError,
		Title:       "Unknown command",
		Description: fmt.Sprintf("%q is not a command", cmd),
		Duration:    model.DefaultNoticeDuration,
	})
}
