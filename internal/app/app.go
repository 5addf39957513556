// Package app is the root Bubble Tea model: it owns navigation, the
// per-view realtime subscriptions, and the dispatch of every async
// result back into the views.
package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bidbridge/bidbridge/internal/api"
	"github.com/bidbridge/bidbridge/internal/credential"
	"github.com/bidbridge/bidbridge/internal/keys"
	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/observability"
	"github.com/bidbridge/bidbridge/internal/platform"
	"github.com/bidbridge/bidbridge/internal/realtime"
	"github.com/bidbridge/bidbridge/internal/router"
	"github.com/bidbridge/bidbridge/internal/session"
	"github.com/bidbridge/bidbridge/internal/store"
	"github.com/bidbridge/bidbridge/internal/ui"
	"github.com/bidbridge/bidbridge/internal/ui/dashboard"
	"github.com/bidbridge/bidbridge/internal/ui/login"
	"github.com/bidbridge/bidbridge/internal/ui/register"
	"github.com/bidbridge/bidbridge/internal/ui/taskdetail"
	"github.com/bidbridge/bidbridge/internal/ui/taskform"
	"github.com/bidbridge/bidbridge/internal/ui/welcome"
)

// navigateMsg changes locations. All navigation, including redirects
// from the route guards, funnels through this one message.
type navigateMsg struct {
	location string
}

// Navigate returns a command that moves the app to the given location.
func Navigate(location string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{location: location} }
}

// Deps are the external collaborators the controller drives.
type Deps struct {
	Config   *model.AppConfig
	Session  *session.Session
	API      *api.Client
	Platform *platform.Client
	Realtime *realtime.Manager
	Cache    *store.Cache
}

// Model is the application root.
type Model struct {
	cfg      *model.AppConfig
	session  *session.Session
	api      *api.Client
	platform *platform.Client
	realtime *realtime.Manager
	cache    *store.Cache
	keys     *keys.KeyMap

	layout ui.Layout
	ready  bool

	location string
	route    router.Route

	// gen is bumped on every navigation; async load results carry the
	// generation they were issued under and are dropped when stale.
	gen int

	welcome    welcome.Model
	login      login.Model
	register   register.Model
	dashboard  dashboard.Model
	taskdetail taskdetail.Model
	taskform   taskform.Model

	// formOpen overlays the post-task form on top of the dashboard.
	formOpen bool

	banner    *ui.Banner
	bannerSeq int

	unread int
}

// New wires the application root from its dependencies.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()
	return Model{
		cfg:      deps.Config,
		session:  deps.Session,
		api:      deps.API,
		platform: deps.Platform,
		realtime: deps.Realtime,
		cache:    deps.Cache,
		keys:     k,

		welcome:  welcome.New(k, 80, 24),
		login:    login.New(80, 24),
		register: register.New(80, 24),
		taskform: taskform.New(80, 24),
	}
}

// Init resumes the previous session from the keyring and starts the
// realtime event consumer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.resumeSession(), m.realtime.WaitForEvent())
}

// Update is the application's single message loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case navigateMsg:
		return m.navigate(msg.location)

	case realtime.EventMsg:
		return m.handleEvent(msg)

	case bannerClearMsg:
		if msg.seq == m.bannerSeq {
			m.banner = nil
		}
		return m, nil

	case sessionResumedMsg:
		if msg.auth != nil {
			m.establish(msg.auth)
			return m.navigate(router.LocationDashboard)
		}
		return m.navigate(router.LocationWelcome)

	case loginDoneMsg:
		if msg.err != nil {
			mm, cmd := m.showError(msg.err)
			// Reopen the form so the user can retry.
			return mm, tea.Batch(cmd, mm.login.Start())
		}
		m.establish(msg.auth)
		return m.navigate(router.LocationDashboard)

	case registerDoneMsg:
		if msg.err != nil {
			mm, cmd := m.showError(msg.err)
			return mm, tea.Batch(cmd, mm.register.Start())
		}
		text := msg.message
		if text == "" {
			text = "Registration successful! Please log in."
		}
		mm, bannerCmd := m.showBanner(text, false)
		next, navCmd := mm.navigate(router.LocationLogin)
		return next, tea.Batch(bannerCmd, navCmd)

	case logoutDoneMsg:
		m.session.Clear()
		m.unread = 0
		return m.navigate(router.LocationWelcome)

	case tasksLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			return m.showError(msg.err)
		}
		cmd := m.dashboard.SetTasks(msg.tasks)
		return m, cmd

	case taskDetailLoadedMsg:
		return m.handleDetailLoaded(msg)

	case unreadMsg:
		if msg.err != nil {
			observability.Logger().Warn("unread fetch failed", "error", msg.err)
			return m, nil
		}
		m.unread = msg.count
		return m, nil

	case taskCreatedMsg:
		if msg.err != nil {
			return m.showError(msg.err)
		}
		m.formOpen = false
		mm, cmd := m.showBanner("Task posted successfully!", false)
		return mm, tea.Batch(cmd, mm.loadTasks(mm.gen))

	case taskDeletedMsg:
		if msg.err != nil {
			return m.showError(msg.err)
		}
		mm, bannerCmd := m.showBanner("Task deleted successfully.", false)
		next, navCmd := mm.navigate(router.LocationDashboard)
		return next, tea.Batch(bannerCmd, navCmd)

	case bidPlacedMsg:
		if msg.err != nil {
			return m.showError(msg.err)
		}
		mm, cmd := m.showBanner("Bid placed successfully!", false)
		return mm, tea.Batch(cmd, mm.reloadDetail())

	case bidAcceptedMsg:
		if msg.err != nil {
			return m.showError(msg.err)
		}
		mm, cmd := m.showBanner("Bid accepted!", false)
		return mm, tea.Batch(cmd, mm.reloadDetail())

	case chatSentMsg:
		// The insert comes back through the change feed; nothing to do
		// on success.
		if msg.err != nil {
			return m.showError(msg.err)
		}
		return m, nil

	case chatFetchedMsg:
		if msg.err != nil || msg.message == nil {
			observability.Logger().Warn("chat fetch failed", "error", msg.err)
			return m, nil
		}
		if m.route.Kind == router.RouteTaskDetail && m.taskdetail.TaskID() == msg.taskID {
			m.taskdetail.AppendMessage(*msg.message)
		}
		return m, nil

	case suggestionMsg:
		if msg.err != nil {
			mm, cmd := m.showError(msg.err)
			var formCmd tea.Cmd
			mm.taskform, formCmd = mm.taskform.Update(taskform.SuggestResultMsg{})
			return mm, tea.Batch(cmd, formCmd)
		}
		var cmd tea.Cmd
		m.taskform, cmd = m.taskform.Update(taskform.SuggestResultMsg{Suggestion: msg.suggestion})
		return m, cmd

	// View-emitted intents.
	case welcome.NavigateMsg:
		return m.navigate(msg.Location)

	case login.SubmitMsg:
		return m, m.signIn(msg.Email, msg.Password)
	case login.CancelMsg:
		return m.navigate(router.LocationWelcome)

	case register.SubmitMsg:
		return m, m.registerAccount(msg.Email, msg.Password)
	case register.CancelMsg:
		return m.navigate(router.LocationWelcome)

	case dashboard.SelectedTaskMsg:
		return m.navigate(router.TaskLocation(msg.TaskID))
	case dashboard.NewTaskMsg:
		m.formOpen = true
		return m, m.taskform.Start()
	case dashboard.RefreshMsg:
		return m, m.loadTasks(m.gen)

	case taskform.SubmitMsg:
		return m, m.createTask(msg.Task)
	case taskform.CancelMsg:
		m.formOpen = false
		return m, nil
	case taskform.SuggestRequestMsg:
		return m, m.suggestDescription(msg.Title)

	case taskdetail.BackMsg:
		return m.navigate(router.LocationDashboard)
	case taskdetail.PlaceBidMsg:
		return m, m.placeBid(m.taskdetail.TaskID(), msg.Amount, msg.TimeEstimate)
	case taskdetail.AcceptBidMsg:
		return m, m.acceptBid(m.taskdetail.TaskID(), msg.BidID)
	case taskdetail.DeleteTaskMsg:
		return m, m.deleteTask(m.taskdetail.TaskID())
	case taskdetail.SendChatMsg:
		return m, m.sendChat(m.taskdetail.TaskID(), m.session.UserID(), msg.Text)
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey handles bindings that work regardless of which view
// is focused. Returns handled=false to let the active view see the key.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.realtime.Close()
		return tea.Quit, true

	case "ctrl+l":
		if !m.session.SignedIn() {
			return nil, false
		}
		m.realtime.ReleaseAll()
		return m.signOut(), true
	}
	return nil, false
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.layout = ui.NewLayout(msg.Width, msg.Height)
	m.ready = true

	w, h := msg.Width, m.layout.ContentHeight()
	m.welcome.SetSize(w, h)
	m.login.SetSize(w, h)
	m.register.SetSize(w, h)
	m.taskform.SetSize(w, h)
	m.taskdetail.SetSize(w, h)
	if m.route.Kind == router.RouteDashboard {
		m.dashboard.SetSize(w, h)
	}
	return m
}

// navigate is the single navigation entry point: it bumps the
// generation, tears down every live subscription, resolves the route
// guards (following redirects), and starts the target view.
func (m Model) navigate(location string) (Model, tea.Cmd) {
	m.gen++
	m.realtime.ReleaseAll()
	m.formOpen = false

	route := router.Parse(location)
	for {
		decision := router.Resolve(route, m.session.SignedIn())
		if decision.Redirect == "" {
			m.route = decision.Route
			break
		}
		location = decision.Redirect
		route = router.Parse(location)
	}
	m.location = location

	if m.route.Kind == router.RouteTaskDetail {
		m.session.SetCurrentTask(m.route.TaskID)
	} else {
		m.session.ClearCurrentTask()
	}

	observability.Logger().Info("navigate",
		"location", m.location, "route", m.route.Kind.String())

	switch m.route.Kind {
	case router.RouteLogin:
		return m, m.login.Start()

	case router.RouteRegister:
		return m, m.register.Start()

	case router.RouteDashboard:
		m.dashboard = dashboard.New(m.keys, m.layout.Width, m.layout.ContentHeight())
		cmds := []tea.Cmd{m.loadTasks(m.gen), m.loadUnread()}
		m.subscribe(realtime.TopicTasks, "", realtime.EventAll)
		m.subscribeNotifications()
		return m, tea.Batch(cmds...)

	case router.RouteTaskDetail:
		m.taskdetail = taskdetail.New(
			m.keys, m.session.UserID(),
			m.layout.Width, m.layout.ContentHeight(),
		)
		m.subscribe(
			realtime.BidsTopic(m.route.TaskID),
			fmt.Sprintf("task_id=eq.%d", m.route.TaskID),
			realtime.EventInsert,
		)
		m.subscribeNotifications()
		return m, m.loadTaskDetail(m.gen, m.route.TaskID)
	}

	return m, nil
}

func (m *Model) subscribe(topic, filter, events string) {
	if err := m.realtime.Subscribe(topic, filter, events); err != nil {
		observability.Logger().Warn("subscribe failed",
			"topic", topic, "error", err)
	}
}

func (m *Model) subscribeNotifications() {
	m.subscribe(
		realtime.TopicNotifications,
		fmt.Sprintf("user_id=eq.%s", m.session.UserID()),
		realtime.EventInsert,
	)
}

// handleDetailLoaded installs a fresh task snapshot and, once the task
// leaves the open state, joins its chat channel.
func (m Model) handleDetailLoaded(msg taskDetailLoadedMsg) (Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}
	if msg.err != nil {
		return m.showError(msg.err)
	}

	m.taskdetail.SetData(msg.task, msg.bids, msg.messages)

	if msg.task.Status != model.StatusOpen {
		chatTopic := realtime.ChatTopic(msg.task.ID)
		if !m.subscribed(chatTopic) {
			m.subscribe(
				chatTopic,
				fmt.Sprintf("task_id=eq.%d", msg.task.ID),
				realtime.EventInsert,
			)
		}
	}
	return m, nil
}

func (m Model) subscribed(topic string) bool {
	for _, t := range m.realtime.ActiveTopics() {
		if t == topic {
			return true
		}
	}
	return false
}

// handleEvent dispatches one change-feed event and re-arms the
// single-consumer wait command.
func (m Model) handleEvent(msg realtime.EventMsg) (Model, tea.Cmd) {
	rearm := m.realtime.WaitForEvent()

	switch {
	case msg.Topic == realtime.TopicTasks:
		if m.route.Kind == router.RouteDashboard {
			return m, tea.Batch(rearm, m.loadTasks(m.gen))
		}

	case msg.Topic == realtime.TopicNotifications:
		mm, bannerCmd := m.showBanner("You have a new notification!", false)
		return mm, tea.Batch(rearm, bannerCmd, mm.loadUnread())

	case m.route.Kind == router.RouteTaskDetail &&
		msg.Topic == realtime.BidsTopic(m.route.TaskID):
		return m, tea.Batch(rearm, m.reloadDetail())

	case m.route.Kind == router.RouteTaskDetail &&
		msg.Topic == realtime.ChatTopic(m.route.TaskID):
		return m, tea.Batch(rearm, m.fetchChatMessage(m.route.TaskID, msg.Record))
	}

	return m, rearm
}

func (m Model) reloadDetail() tea.Cmd {
	if m.route.Kind != router.RouteTaskDetail {
		return nil
	}
	return m.loadTaskDetail(m.gen, m.route.TaskID)
}

func (m *Model) establish(auth *platform.AuthSession) {
	m.session.Establish(auth.User, auth.AccessToken, auth.RefreshToken)
	if err := credential.SaveRefreshToken(auth.RefreshToken); err != nil {
		observability.Logger().Warn("saving refresh token failed", "error", err)
	}
}

func (m Model) bannerDuration() time.Duration {
	seconds := 4
	if m.cfg != nil && m.cfg.Display.BannerSeconds > 0 {
		seconds = m.cfg.Display.BannerSeconds
	}
	return time.Duration(seconds) * time.Second
}

// showBanner displays a transient status-bar banner and schedules its
// dismissal. A newer banner supersedes the pending dismissal of an
// older one.
func (m Model) showBanner(text string, isError bool) (Model, tea.Cmd) {
	m.bannerSeq++
	m.banner = &ui.Banner{Text: text, IsError: isError}
	seq := m.bannerSeq
	return m, tea.Tick(m.bannerDuration(), func(time.Time) tea.Msg {
		return bannerClearMsg{seq: seq}
	})
}

func (m Model) showError(err error) (Model, tea.Cmd) {
	observability.Logger().Error("operation failed", "error", err)
	return m.showBanner(err.Error(), true)
}

// updateActiveView forwards a message to whichever view is focused.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.formOpen {
		m.taskform, cmd = m.taskform.Update(msg)
		return m, cmd
	}

	switch m.route.Kind {
	case router.RouteWelcome:
		m.welcome, cmd = m.welcome.Update(msg)
	case router.RouteLogin:
		m.login, cmd = m.login.Update(msg)
	case router.RouteRegister:
		m.register, cmd = m.register.Update(msg)
	case router.RouteDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case router.RouteTaskDetail:
		m.taskdetail, cmd = m.taskdetail.Update(msg)
	}
	return m, cmd
}

// View renders the full frame: header, active view, status bar.
func (m Model) View() string {
	if !m.ready {
		return "Starting BidBridge…"
	}

	title := "BidBridge"
	if m.unread > 0 {
		title = fmt.Sprintf("BidBridge [%d new]", m.unread)
	}

	sessionInfo := "signed out"
	if m.session.SignedIn() {
		sessionInfo = m.session.Email()
	}

	var content string
	if m.formOpen {
		content = m.taskform.View()
	} else {
		switch m.route.Kind {
		case router.RouteWelcome:
			content = m.welcome.View()
		case router.RouteLogin:
			content = m.login.View()
		case router.RouteRegister:
			content = m.register.View()
		case router.RouteDashboard:
			content = m.dashboard.View()
		case router.RouteTaskDetail:
			content = m.taskdetail.View()
		}
	}

	return m.layout.RenderWithFrame(
		m.layout.RenderHeader(title, sessionInfo),
		content,
		m.layout.RenderStatusBar(m.keyHints(), m.banner),
	)
}

// keyHints returns the status-bar shortcut summary for the active view.
func (m Model) keyHints() string {
	if m.formOpen {
		return "ctrl+s suggest description · esc cancel"
	}

	var hints []string
	switch m.route.Kind {
	case router.RouteWelcome:
		hints = []string{"r register", "l log in", "ctrl+c quit"}
	case router.RouteLogin, router.RouteRegister:
		hints = []string{"esc cancel", "ctrl+c quit"}
	case router.RouteDashboard:
		hints = []string{"enter open", "n post a task", "R refresh", "ctrl+l log out"}
	case router.RouteTaskDetail:
		hints = []string{"esc back"}
		task := m.taskdetail.Task()
		if taskdetail.CanBid(task, m.session.UserID()) {
			hints = append(hints, "b bid")
		}
		if taskdetail.CanAccept(task, m.session.UserID()) {
			hints = append(hints, "a accept", "d delete")
		}
		hints = append(hints, "ctrl+l log out")
	}
	return strings.Join(hints, " · ")
}
