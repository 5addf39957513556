package taskdetail

import (
	"fmt"
	"time"

	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/theme"
)

// CanBid reports whether the given viewer may place a bid on the task:
// signed in, not the poster, and the task is still open.
func CanBid(t model.Task, viewerID string) bool {
	if viewerID == "" {
		return false
	}
	return !t.OwnedBy(viewerID) && t.Status == model.StatusOpen
}

// CanAccept reports whether the viewer may accept bids on the task.
func CanAccept(t model.Task, viewerID string) bool {
	return t.OwnedBy(viewerID) && t.Status == model.StatusOpen
}

// ShowChat reports whether the chat panel is visible: the task has been
// assigned and the viewer is one of the two participants (poster or
// accepted bidder).
func ShowChat(t model.Task, bids []model.Bid, viewerID string) bool {
	if viewerID == "" || t.Status == model.StatusOpen {
		return false
	}
	if t.OwnedBy(viewerID) {
		return true
	}
	for _, b := range bids {
		if b.AcceptedFor(t) && b.BidderID == viewerID {
			return true
		}
	}
	return false
}

// BidLine renders a single bid row. The accepted bid carries an
// ACCEPTED marker regardless of selection state.
func BidLine(b model.Bid, t model.Task, selected bool) string {
	line := fmt.Sprintf("₹%d · %s · %s", b.Amount, b.TimeEstimate, b.BidderEmail)
	if b.AcceptedFor(t) {
		line += " " + theme.AcceptedBadgeStyle.Render("✓ ACCEPTED")
	}
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// ChatLine renders a single chat message, aligned by authorship.
func ChatLine(m model.Message, viewerID string) string {
	body := fmt.Sprintf("%s  %s", m.Text, theme.DimmedStyle.Render(m.CreatedAt.Format("15:04")))
	if m.SentBy(viewerID) {
		return theme.ChatSentStyle.Render(body)
	}
	return theme.ChatReceivedStyle.Render(fmt.Sprintf("%s: %s", m.SenderEmail, body))
}

// HeaderLine renders the task title line with its status and, when the
// expiry is still in the future, the urgent badge.
func HeaderLine(t model.Task, now time.Time) string {
	line := theme.TitleStyle.Render(t.Title) + " " + theme.StatusStyle(t.Status).Render(t.Status)
	if t.Urgent(now) {
		line += " " + theme.UrgentBadgeStyle.Render("⏶ URGENT")
	}
	return line
}
