// Package taskdetail is the single-task view: header, bids, owner
// actions and, once assigned, the participant chat.
package taskdetail

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bidbridge/bidbridge/internal/keys"
	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/theme"
)

// BackMsg returns to the dashboard.
type BackMsg struct{}

// PlaceBidMsg submits a new bid on the current task.
type PlaceBidMsg struct {
	Amount       int64
	TimeEstimate string
}

// AcceptBidMsg accepts the selected bid (poster only).
type AcceptBidMsg struct {
	BidID int64
}

// DeleteTaskMsg deletes the current task (poster only).
type DeleteTaskMsg struct{}

// SendChatMsg sends a chat message on the current task.
type SendChatMsg struct {
	Text string
}

// DataLoadedMsg delivers a fresh snapshot of the task and its bids.
type DataLoadedMsg struct {
	Task     model.Task
	Bids     []model.Bid
	Messages []model.Message
}

type focusArea int

const (
	focusBids focusArea = iota
	focusBidForm
	focusChat
)

// Model is the task detail view component.
type Model struct {
	keys     *keys.KeyMap
	viewerID string

	task     model.Task
	bids     []model.Bid
	messages []model.Message
	seen     map[int64]bool

	focus     focusArea
	bidCursor int

	amountInput textinput.Model
	etaInput    textinput.Model
	bidField    int

	chatInput textinput.Model

	width  int
	height int
}

// New creates the task detail view model.
func New(k *keys.KeyMap, viewerID string, width, height int) Model {
	amount := textinput.New()
	amount.Placeholder = "Amount (₹)"
	amount.CharLimit = 9
	amount.Width = 16

	eta := textinput.New()
	eta.Placeholder = "Time estimate (e.g. 2 days)"
	eta.CharLimit = 64
	eta.Width = 32

	chat := textinput.New()
	chat.Placeholder = "Type a message…"
	chat.CharLimit = 500
	chat.Width = 48

	return Model{
		keys:        k,
		viewerID:    viewerID,
		seen:        make(map[int64]bool),
		amountInput: amount,
		etaInput:    eta,
		chatInput:   chat,
		width:       width,
		height:      height,
	}
}

// SetData replaces the view's snapshot of the task, its bids and chat
// history. The bid cursor is clamped into the new list.
func (m *Model) SetData(task model.Task, bids []model.Bid, messages []model.Message) {
	m.task = task
	m.bids = bids
	m.messages = messages
	m.seen = make(map[int64]bool, len(messages))
	for _, msg := range messages {
		m.seen[msg.ID] = true
	}
	if m.bidCursor >= len(bids) {
		m.bidCursor = 0
	}
	if m.focus == focusBidForm && !CanBid(task, m.viewerID) {
		m.focus = focusBids
	}
	if m.focus == focusChat && !ShowChat(task, bids, m.viewerID) {
		m.focus = focusBids
	}
}

// AppendMessage adds a single new chat message. Messages already seen
// (by id) are ignored, so replayed events are harmless.
func (m *Model) AppendMessage(msg model.Message) {
	if m.seen[msg.ID] {
		return
	}
	m.seen[msg.ID] = true
	m.messages = append(m.messages, msg)
}

// TaskID returns the id of the task currently displayed, or 0 before
// any snapshot has loaded.
func (m Model) TaskID() int64 { return m.task.ID }

// Task returns the loaded task snapshot.
func (m Model) Task() model.Task { return m.task }

// Update handles messages for the task detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DataLoadedMsg:
		m.SetData(msg.Task, msg.Bids, msg.Messages)
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusBidForm:
			return m.updateBidForm(msg)
		case focusChat:
			return m.updateChat(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Down):
		if m.bidCursor < len(m.bids)-1 {
			m.bidCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.bidCursor > 0 {
			m.bidCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.PlaceBid):
		if !CanBid(m.task, m.viewerID) {
			return m, nil
		}
		m.focus = focusBidForm
		m.bidField = 0
		m.amountInput.SetValue("")
		m.etaInput.SetValue("")
		m.etaInput.Blur()
		return m, m.amountInput.Focus()

	case key.Matches(msg, m.keys.Accept):
		if !CanAccept(m.task, m.viewerID) || len(m.bids) == 0 {
			return m, nil
		}
		bidID := m.bids[m.bidCursor].ID
		return m, func() tea.Msg { return AcceptBidMsg{BidID: bidID} }

	case key.Matches(msg, m.keys.Delete):
		if !m.task.OwnedBy(m.viewerID) {
			return m, nil
		}
		return m, func() tea.Msg { return DeleteTaskMsg{} }

	case key.Matches(msg, m.keys.FocusChat):
		if !ShowChat(m.task, m.bids, m.viewerID) {
			return m, nil
		}
		m.focus = focusChat
		return m, m.chatInput.Focus()
	}
	return m, nil
}

func (m Model) updateBidForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusBids
		m.amountInput.Blur()
		m.etaInput.Blur()
		return m, nil

	case "tab", "shift+tab":
		m.bidField = 1 - m.bidField
		if m.bidField == 0 {
			m.etaInput.Blur()
			return m, m.amountInput.Focus()
		}
		m.amountInput.Blur()
		return m, m.etaInput.Focus()

	case "enter":
		amount, err := strconv.ParseInt(strings.TrimSpace(m.amountInput.Value()), 10, 64)
		eta := strings.TrimSpace(m.etaInput.Value())
		if err != nil || amount <= 0 || eta == "" {
			return m, nil
		}
		m.focus = focusBids
		m.amountInput.Blur()
		m.etaInput.Blur()
		return m, func() tea.Msg {
			return PlaceBidMsg{Amount: amount, TimeEstimate: eta}
		}
	}

	var cmd tea.Cmd
	if m.bidField == 0 {
		m.amountInput, cmd = m.amountInput.Update(msg)
	} else {
		m.etaInput, cmd = m.etaInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateChat(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.focus = focusBids
		m.chatInput.Blur()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.chatInput.Value())
		if text == "" {
			return m, nil
		}
		m.chatInput.SetValue("")
		return m, func() tea.Msg { return SendChatMsg{Text: text} }
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// View renders the task detail.
func (m Model) View() string {
	if m.task.ID == 0 {
		return theme.DimmedStyle.Render("Loading task…")
	}

	now := time.Now()
	var b strings.Builder

	b.WriteString(HeaderLine(m.task, now))
	b.WriteString("\n")
	b.WriteString(theme.SubtitleStyle.Render(fmt.Sprintf("Posted by %s · %s → %s · Budget %s",
		m.task.PosterEmail, m.task.FromLocation, m.task.ToLocation,
		theme.BudgetStyle.Render(fmt.Sprintf("₹%d", m.task.Budget)))))
	b.WriteString("\n\n")
	b.WriteString(m.task.Description)
	b.WriteString("\n")

	if m.task.OwnedBy(m.viewerID) {
		panel := "This is your task."
		if m.task.Status == model.StatusOpen {
			panel += "  " + theme.HelpStyle.Render("a accept selected bid · d delete")
		}
		b.WriteString("\n")
		b.WriteString(theme.OwnerPanelStyle.Render(panel))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.TitleStyle.Render(fmt.Sprintf("Bids (%d)", len(m.bids))))
	b.WriteString("\n")
	if len(m.bids) == 0 {
		b.WriteString(theme.DimmedStyle.Render("No bids yet."))
		b.WriteString("\n")
	} else {
		for i, bid := range m.bids {
			b.WriteString(BidLine(bid, m.task, i == m.bidCursor && m.focus == focusBids))
			b.WriteString("\n")
		}
	}

	if m.focus == focusBidForm {
		form := lipgloss.JoinVertical(lipgloss.Left,
			theme.TitleStyle.Render("Place a bid"),
			m.amountInput.View(),
			m.etaInput.View(),
			theme.HelpStyle.Render("enter submit · tab switch field · esc cancel"),
		)
		b.WriteString("\n")
		b.WriteString(theme.PanelStyle.Render(form))
		b.WriteString("\n")
	} else if CanBid(m.task, m.viewerID) {
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render("b place a bid"))
		b.WriteString("\n")
	}

	if ShowChat(m.task, m.bids, m.viewerID) {
		b.WriteString("\n")
		b.WriteString(theme.TitleStyle.Render("Chat"))
		b.WriteString("\n")
		if len(m.messages) == 0 {
			b.WriteString(theme.DimmedStyle.Render("No messages yet."))
			b.WriteString("\n")
		} else {
			for _, msg := range m.messages {
				b.WriteString(ChatLine(msg, m.viewerID))
				b.WriteString("\n")
			}
		}
		b.WriteString(m.chatInput.View())
		b.WriteString("\n")
	}

	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
