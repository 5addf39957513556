package app

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bidbridge/bidbridge/internal/api"
	"github.com/bidbridge/bidbridge/internal/credential"
	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/observability"
	"github.com/bidbridge/bidbridge/internal/platform"
)

const requestTimeout = 30 * time.Second

// Messages produced by the async commands below. Load results carry the
// navigation generation they were issued under; the controller drops
// results whose generation is stale.

type sessionResumedMsg struct {
	auth *platform.AuthSession
	err  error
}

type loginDoneMsg struct {
	auth *platform.AuthSession
	err  error
}

type registerDoneMsg struct {
	message string
	err     error
}

type logoutDoneMsg struct{}

type tasksLoadedMsg struct {
	gen   int
	tasks []model.Task
	err   error
}

type taskDetailLoadedMsg struct {
	gen      int
	task     model.Task
	bids     []model.Bid
	messages []model.Message
	err      error
}

type unreadMsg struct {
	count int
	err   error
}

type taskCreatedMsg struct {
	task *model.Task
	err  error
}

type taskDeletedMsg struct {
	err error
}

type bidPlacedMsg struct {
	err error
}

type bidAcceptedMsg struct {
	err error
}

type chatSentMsg struct {
	err error
}

type chatFetchedMsg struct {
	taskID  int64
	message *model.Message
	err     error
}

type suggestionMsg struct {
	suggestion string
	err        error
}

type bannerClearMsg struct {
	seq int
}

func reqContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// resumeSession tries to restore the previous session from the keyring.
// No stored token is not an error; it just means a fresh start.
func (m Model) resumeSession() tea.Cmd {
	return func() tea.Msg {
		token := credential.LoadRefreshToken()
		if token == "" {
			return sessionResumedMsg{}
		}
		ctx, cancel := reqContext()
		defer cancel()
		auth, err := m.platform.RefreshSession(ctx, token)
		if err != nil {
			observability.Logger().Warn("session resume failed", "error", err)
			return sessionResumedMsg{err: err}
		}
		return sessionResumedMsg{auth: auth}
	}
}

func (m Model) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		auth, err := m.platform.SignIn(ctx, email, password)
		return loginDoneMsg{auth: auth, err: err}
	}
}

func (m Model) registerAccount(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		message, err := m.api.Register(ctx, email, password)
		return registerDoneMsg{message: message, err: err}
	}
}

func (m Model) signOut() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		if err := m.platform.SignOut(ctx); err != nil {
			observability.Logger().Warn("sign out failed", "error", err)
		}
		if err := credential.ClearRefreshToken(); err != nil {
			observability.Logger().Warn("clearing refresh token failed", "error", err)
		}
		return logoutDoneMsg{}
	}
}

// loadTasks fetches the task list, replaces the cached snapshot, and
// reads the snapshot back out so the view always renders cached rows.
func (m Model) loadTasks(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()

		tasks, err := m.api.ListTasks(ctx)
		if err != nil {
			return tasksLoadedMsg{gen: gen, err: err}
		}
		if err := m.cache.ReplaceTasks(ctx, tasks); err != nil {
			return tasksLoadedMsg{gen: gen, err: err}
		}
		cached, err := m.cache.Tasks(ctx)
		if err != nil {
			return tasksLoadedMsg{gen: gen, err: err}
		}
		return tasksLoadedMsg{gen: gen, tasks: cached}
	}
}

// loadTaskDetail fetches one task with its bids, and the chat history
// once the task has been assigned. The snapshot cache is refreshed on
// the way through.
func (m Model) loadTaskDetail(gen int, taskID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()

		detail, err := m.api.GetTaskDetail(ctx, taskID)
		if err != nil {
			return taskDetailLoadedMsg{gen: gen, err: err}
		}
		if err := m.cache.UpsertTask(ctx, detail.Task); err != nil {
			return taskDetailLoadedMsg{gen: gen, err: err}
		}
		if err := m.cache.ReplaceBids(ctx, taskID, detail.Bids); err != nil {
			return taskDetailLoadedMsg{gen: gen, err: err}
		}

		var messages []model.Message
		if detail.Task.Status != model.StatusOpen {
			messages, err = m.platform.TaskMessages(ctx, taskID)
			if err != nil {
				return taskDetailLoadedMsg{gen: gen, err: err}
			}
			if err := m.cache.ReplaceMessages(ctx, taskID, messages); err != nil {
				return taskDetailLoadedMsg{gen: gen, err: err}
			}
		}

		return taskDetailLoadedMsg{
			gen:      gen,
			task:     detail.Task,
			bids:     detail.Bids,
			messages: messages,
		}
	}
}

func (m Model) loadUnread() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()

		notifications, err := m.platform.UnreadNotifications(ctx)
		if err != nil {
			return unreadMsg{err: err}
		}
		if err := m.cache.ReplaceNotifications(ctx, notifications); err != nil {
			return unreadMsg{err: err}
		}
		count, err := m.cache.UnreadCount(ctx)
		if err != nil {
			return unreadMsg{err: err}
		}
		return unreadMsg{count: count}
	}
}

func (m Model) createTask(draft api.NewTask) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		task, err := m.api.CreateTask(ctx, draft)
		return taskCreatedMsg{task: task, err: err}
	}
}

func (m Model) deleteTask(taskID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		return taskDeletedMsg{err: m.api.DeleteTask(ctx, taskID)}
	}
}

func (m Model) placeBid(taskID, amount int64, timeEstimate string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		_, err := m.api.CreateBid(ctx, taskID, amount, timeEstimate)
		return bidPlacedMsg{err: err}
	}
}

func (m Model) acceptBid(taskID, bidID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		return bidAcceptedMsg{err: m.api.AcceptBid(ctx, taskID, bidID)}
	}
}

func (m Model) sendChat(taskID int64, senderID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		return chatSentMsg{err: m.platform.SendMessage(ctx, taskID, senderID, text)}
	}
}

// fetchChatMessage resolves a chat insert event: the event record only
// carries the row, without the sender's email joined in, so the full
// message is fetched before it is appended.
func (m Model) fetchChatMessage(taskID int64, record json.RawMessage) tea.Cmd {
	return func() tea.Msg {
		var row struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(record, &row); err != nil || row.ID == 0 {
			return chatFetchedMsg{taskID: taskID, err: err}
		}

		ctx, cancel := reqContext()
		defer cancel()
		msg, err := m.platform.GetMessage(ctx, row.ID)
		if err != nil {
			return chatFetchedMsg{taskID: taskID, err: err}
		}
		if err := m.cache.AppendMessage(ctx, *msg); err != nil {
			observability.Logger().Warn("caching chat message failed", "error", err)
		}
		return chatFetchedMsg{taskID: taskID, message: msg}
	}
}

func (m Model) suggestDescription(title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		suggestion, err := m.api.SuggestDescription(ctx, title)
		return suggestionMsg{suggestion: suggestion, err: err}
	}
}
