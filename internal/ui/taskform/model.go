// Package taskform is the post-a-task form view.
package taskform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bidbridge/bidbridge/internal/api"
	"github.com/bidbridge/bidbridge/internal/theme"
)

// SubmitMsg carries the completed task draft to the controller.
type SubmitMsg struct {
	Task api.NewTask
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// SuggestRequestMsg asks the controller to fetch a suggested
// description for the entered title.
type SuggestRequestMsg struct {
	Title string
}

// SuggestResultMsg delivers the suggested description back to the form.
type SuggestResultMsg struct {
	Suggestion string
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	from        string
	to          string
	budget      string
	urgent      bool
}

// Model is the post-task form view.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	suggesting bool
	width      int
	height     int
}

// New creates the task form view model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the form for a fresh draft.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{}
	m.suggesting = false
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.fb.title).
				Validate(required("title")),
			huh.NewText().
				Title("Description").
				Description("ctrl+s suggests details from the title").
				Value(&m.fb.description).
				Validate(required("description")),
			huh.NewInput().
				Title("From").
				Value(&m.fb.from).
				Validate(required("from location")),
			huh.NewInput().
				Title("To").
				Value(&m.fb.to).
				Validate(required("to location")),
			huh.NewInput().
				Title("Budget (₹)").
				Value(&m.fb.budget).
				Validate(validateBudget),
			huh.NewConfirm().
				Title("Urgent?").
				Description("Urgent tasks expire after 24 hours.").
				Value(&m.fb.urgent),
		),
	).WithWidth(min(m.width-4, 70))
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case SuggestResultMsg:
		m.suggesting = false
		if msg.Suggestion != "" {
			m.fb.description = msg.Suggestion
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			title := strings.TrimSpace(m.fb.title)
			if title == "" || m.suggesting {
				return m, nil
			}
			m.suggesting = true
			return m, func() tea.Msg {
				return SuggestRequestMsg{Title: title}
			}
		}
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		budget, _ := strconv.ParseInt(strings.TrimSpace(m.fb.budget), 10, 64)
		draft := api.NewTask{
			Title:        strings.TrimSpace(m.fb.title),
			Description:  strings.TrimSpace(m.fb.description),
			FromLocation: strings.TrimSpace(m.fb.from),
			ToLocation:   strings.TrimSpace(m.fb.to),
			Budget:       budget,
			IsUrgent:     m.fb.urgent,
		}
		return m, func() tea.Msg { return SubmitMsg{Task: draft} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	subtitle := "Describe the job and what you'll pay."
	if m.suggesting {
		subtitle = "Fetching a suggested description…"
	}

	content := theme.TitleStyle.Render("Post a Task") + "\n" +
		theme.SubtitleStyle.Render(subtitle) + "\n\n" +
		m.form.View()

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func validateBudget(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("budget must be a positive whole amount")
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
