package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskwhisper/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top bar with the title on the left and the
// session state (voice, filter) on the right.
func (l Layout) RenderHeader(title string, state string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	stateRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(state)

	return joinWithFiller(l.Width, titleRendered, stateRendered, theme.HeaderStyle)
}

// RenderStatusBar renders the bottom bar. A non-empty toast replaces the
// left side; keyboard hints stay on the right.
func (l Layout) RenderStatusBar(toast string, hints string) string {
	hintsRendered := theme.StatusBarStyle.Render(hints)
	if toast == "" {
		return joinWithFiller(l.Width, hintsRendered, "", theme.StatusBarStyle)
	}
	return joinWithFiller(l.Width, toast, hintsRendered, theme.StatusBarStyle)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	content = lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// joinWithFiller lays left and right out on one line of the given width,
// padding the gap with the background of style.
func joinWithFiller(width int, left, right string, style lipgloss.Style) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}
