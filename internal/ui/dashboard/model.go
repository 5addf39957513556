// Package dashboard is the available-tasks list view.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bidbridge/bidbridge/internal/keys"
	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/theme"
	"github.com/bidbridge/bidbridge/internal/ui"
)

// TasksLoadedMsg is sent when the task list has been fetched and cached.
type TasksLoadedMsg struct {
	Tasks []model.Task
}

// SelectedTaskMsg is sent when the user opens a task's detail view.
type SelectedTaskMsg struct {
	TaskID int64
}

// NewTaskMsg asks the controller to open the post-task form.
type NewTaskMsg struct{}

// RefreshMsg asks the controller to refetch the task list.
type RefreshMsg struct{}

// Model is the dashboard view component.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	empty  bool
	width  int
	height int
}

// New creates the dashboard view model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, TaskDelegate{}, width, height-2)
	l.Title = "Available Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		empty:  true,
		width:  width,
		height: height,
	}
}

// SetTasks replaces the rendered task list with a fresh snapshot.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
	}
	m.empty = len(tasks) == 0
	return m.list.SetItems(items)
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		cmd := m.SetTasks(msg.Tasks)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(TaskItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedTaskMsg{TaskID: item.Task.ID}
			}

		case key.Matches(msg, m.keys.NewTask):
			return m, func() tea.Msg { return NewTaskMsg{} }

		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.empty {
		return ui.EmptyState("No tasks yet", "Why not post the first one?")
	}
	return m.list.View()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
