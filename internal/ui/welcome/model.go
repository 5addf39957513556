// Package welcome is the anonymous landing view.
package welcome

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bidbridge/bidbridge/internal/keys"
	"github.com/bidbridge/bidbridge/internal/router"
	"github.com/bidbridge/bidbridge/internal/theme"
)

// NavigateMsg asks the controller to change location.
type NavigateMsg struct {
	Location string
}

// Model is the welcome view. It renders static copy and routes the
// login/register keys.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates the welcome view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// Update handles key input on the welcome view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Login):
			return m, func() tea.Msg {
				return NavigateMsg{Location: router.LocationLogin}
			}
		case key.Matches(msg, m.keys.Register):
			return m, func() tea.Msg {
				return NavigateMsg{Location: router.LocationRegister}
			}
		}
	}
	return m, nil
}

// View renders the landing copy.
func (m Model) View() string {
	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGreen).
		Render("Fast. Local. Trusted.")

	body := theme.SubtitleStyle.Render(
		"Your community's marketplace for getting things done.\n" +
			"Post a task and get bids from trusted locals in minutes.",
	)

	hint := theme.HelpStyle.Render("r register | l log in")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		heading,
		"",
		body,
		"",
		hint,
	)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
