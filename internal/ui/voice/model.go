// Package voice is the voice assistant panel: the current spoken summary
// plus controls to play it and to switch voice output on or off.
package voice

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskwhisper/internal/keys"
	"github.com/nhle/taskwhisper/internal/theme"
)

// CloseMsg signals the parent to close the panel.
type CloseMsg struct{}

// SpeakMsg asks the parent to read the summary aloud.
type SpeakMsg struct{}

// ToggleMsg asks the parent to switch voice output.
type ToggleMsg struct{}

// Model is the voice panel.
type Model struct {
	summary   string
	enabled   bool
	available bool
	engine    string
	viewport  viewport.Model
	keys      *keys.KeyMap
	width     int
	height    int
}

// New creates the panel. engine names the speech command in use, or is
// empty when none was found.
func New(k *keys.KeyMap, engine string, width, height int) Model {
	vp := viewport.New(width-6, height-8)
	return Model{
		keys:      k,
		engine:    engine,
		available: engine != "",
		viewport:  vp,
		width:     width,
		height:    height,
	}
}

// SetSummary replaces the summary text.
func (m *Model) SetSummary(text string) {
	m.summary = text
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(text))
}

// SetEnabled records whether voice output is on.
func (m *Model) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.VoicePanel):
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, m.keys.Speak), msg.String() == "enter":
			return m, func() tea.Msg { return SpeakMsg{} }
		case key.Matches(msg, m.keys.Voice):
			return m, func() tea.Msg { return ToggleMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the panel.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorTeal).
		MarginBottom(1)

	state := "Voice Off"
	stateStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if m.enabled {
		state = "Voice On"
		stateStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorTeal)
	}

	engine := "speech engine: " + m.engine
	if !m.available {
		engine = "no speech engine found; summaries are shown but not spoken"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Voice Assistant"),
		stateStyle.Render(state)+"  "+theme.HelpStyle.Render(engine),
		"",
		m.viewport.View(),
		"",
		theme.HelpStyle.Render("s/enter speak summary | v toggle voice | esc close"),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 6
	m.viewport.Height = height - 8
	m.SetSummary(m.summary)
}
