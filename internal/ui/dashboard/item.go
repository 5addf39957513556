package dashboard

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// TaskDelegate implements list.ItemDelegate for rendering task cards.
type TaskDelegate struct{}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task card.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	line := RenderTaskLine(ti.Task, time.Now())
	route := theme.DimmedStyle.Render(
		fmt.Sprintf("  %s → %s", ti.Task.FromLocation, ti.Task.ToLocation),
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line+"\n"+theme.ListItemStyle.Render(route))
}

// RenderTaskLine renders a task's summary line: budget, title, status,
// and the urgent badge when the expiry is still in the future.
func RenderTaskLine(t model.Task, now time.Time) string {
	budget := theme.BudgetStyle.Render(fmt.Sprintf("₹%d", t.Budget))
	status := theme.StatusStyle(t.Status).Render(t.Status)

	line := fmt.Sprintf("%s %s %s", budget, t.Title, status)
	if t.Urgent(now) {
		line += " " + theme.UrgentBadgeStyle.Render("⏶ URGENT")
	}
	return line
}
