package app

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/realtime"
	"github.com/bidbridge/bidbridge/internal/router"
	"github.com/bidbridge/bidbridge/internal/session"
	"github.com/bidbridge/bidbridge/internal/store"
)

// fakeConn satisfies realtime.Conn so navigation tests can observe
// subscription churn without a network.
type fakeConn struct {
	events chan realtime.EventMsg
}

func (c *fakeConn) Join(topic, filter, events string) error { return nil }
func (c *fakeConn) Leave(topic string) error                { return nil }
func (c *fakeConn) Events() <-chan realtime.EventMsg        { return c.events }
func (c *fakeConn) Close() error                            { close(c.events); return nil }

func newTestModel(t *testing.T) Model {
	t.Helper()

	cache, err := store.NewCache("")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	manager := realtime.NewManager(func() (realtime.Conn, error) {
		return &fakeConn{events: make(chan realtime.EventMsg, 16)}, nil
	})
	t.Cleanup(manager.Close)

	cfg := &model.AppConfig{}
	cfg.Display.BannerSeconds = 1

	m := New(Deps{
		Config:   cfg,
		Session:  session.New(),
		Realtime: manager,
		Cache:    cache,
	})
	m = m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func signIn(m Model) Model {
	m.session.Establish(model.User{ID: "u1", Email: "a@b.c"}, "access", "refresh")
	return m
}

func TestAnonymousNavigationGuard(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.navigate(router.LocationDashboard)
	if m.route.Kind != router.RouteLogin {
		t.Errorf("anonymous #dashboard landed on %v, want login", m.route.Kind)
	}

	m, _ = m.navigate(router.TaskLocation(5))
	if m.route.Kind != router.RouteLogin {
		t.Errorf("anonymous task detail landed on %v, want login", m.route.Kind)
	}
}

func TestSignedInNavigationGuard(t *testing.T) {
	m := signIn(newTestModel(t))

	for _, location := range []string{
		router.LocationWelcome, router.LocationLogin, router.LocationRegister,
	} {
		m, _ = m.navigate(location)
		if m.route.Kind != router.RouteDashboard {
			t.Errorf("signed-in %q landed on %v, want dashboard", location, m.route.Kind)
		}
	}
}

func TestDashboardSubscriptions(t *testing.T) {
	m := signIn(newTestModel(t))

	m, _ = m.navigate(router.LocationDashboard)

	want := []string{realtime.TopicNotifications, realtime.TopicTasks}
	if got := m.realtime.ActiveTopics(); !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveTopics = %v, want %v", got, want)
	}
}

func TestTaskDetailSubscriptionsFollowNavigation(t *testing.T) {
	m := signIn(newTestModel(t))

	m, _ = m.navigate(router.LocationDashboard)
	m, _ = m.navigate(router.TaskLocation(7))

	want := []string{realtime.BidsTopic(7), realtime.TopicNotifications}
	if got := m.realtime.ActiveTopics(); !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveTopics = %v, want %v", got, want)
	}
	if m.session.CurrentTaskID == nil || *m.session.CurrentTaskID != 7 {
		t.Errorf("CurrentTaskID = %v, want 7", m.session.CurrentTaskID)
	}

	// Navigating away tears everything down before resubscribing.
	m, _ = m.navigate(router.LocationDashboard)
	want = []string{realtime.TopicNotifications, realtime.TopicTasks}
	if got := m.realtime.ActiveTopics(); !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveTopics after leaving detail = %v, want %v", got, want)
	}
	if m.session.CurrentTaskID != nil {
		t.Errorf("CurrentTaskID = %v, want cleared", m.session.CurrentTaskID)
	}
}

func TestChatChannelJoinedOnceAssigned(t *testing.T) {
	m := signIn(newTestModel(t))

	m, _ = m.navigate(router.TaskLocation(7))

	accepted := int64(4)
	m, _ = m.handleDetailLoaded(taskDetailLoadedMsg{
		gen: m.gen,
		task: model.Task{
			ID: 7, PosterID: "u1",
			Status: model.StatusAssigned, AcceptedBidID: &accepted,
		},
		bids: []model.Bid{{ID: 4, TaskID: 7, BidderID: "u2"}},
	})

	want := []string{realtime.BidsTopic(7), realtime.ChatTopic(7), realtime.TopicNotifications}
	if got := m.realtime.ActiveTopics(); !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveTopics = %v, want %v", got, want)
	}

	// A refetch on the same task does not double-join the chat channel.
	m, _ = m.handleDetailLoaded(taskDetailLoadedMsg{
		gen: m.gen,
		task: model.Task{
			ID: 7, PosterID: "u1",
			Status: model.StatusAssigned, AcceptedBidID: &accepted,
		},
	})
	if got := m.realtime.ActiveTopics(); !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveTopics after refetch = %v, want %v", got, want)
	}
}

func TestStaleLoadResultDropped(t *testing.T) {
	m := signIn(newTestModel(t))

	m, _ = m.navigate(router.LocationDashboard)
	staleGen := m.gen

	// A second navigation bumps the generation; the first fetch is now
	// stale and its result must not touch the view.
	m, _ = m.navigate(router.LocationDashboard)

	updated, _ := m.Update(tasksLoadedMsg{
		gen:   staleGen,
		tasks: []model.Task{{ID: 1, Title: "stale snapshot"}},
	})
	m = updated.(Model)

	if !strings.Contains(m.dashboard.View(), "No tasks yet") {
		t.Error("stale task snapshot reached the dashboard")
	}

	// The current generation's result lands.
	updated, _ = m.Update(tasksLoadedMsg{
		gen:   m.gen,
		tasks: []model.Task{{ID: 1, Title: "fresh snapshot"}},
	})
	m = updated.(Model)

	if strings.Contains(m.dashboard.View(), "No tasks yet") {
		t.Error("fresh task snapshot did not reach the dashboard")
	}
}

func TestStaleDetailResultDropped(t *testing.T) {
	m := signIn(newTestModel(t))

	m, _ = m.navigate(router.TaskLocation(7))
	staleGen := m.gen
	m, _ = m.navigate(router.LocationDashboard)

	m, _ = m.handleDetailLoaded(taskDetailLoadedMsg{
		gen:  staleGen,
		task: model.Task{ID: 7, Title: "stale"},
	})
	if m.taskdetail.TaskID() != 0 {
		t.Error("stale detail snapshot reached the view")
	}
}

func TestNotificationEventShowsBanner(t *testing.T) {
	m := signIn(newTestModel(t))
	m, _ = m.navigate(router.LocationDashboard)

	updated, cmd := m.Update(realtime.EventMsg{
		Topic: realtime.TopicNotifications,
		Event: realtime.EventInsert,
	})
	m = updated.(Model)

	if m.banner == nil || m.banner.Text != "You have a new notification!" {
		t.Fatalf("banner = %+v, want notification text", m.banner)
	}
	if m.banner.IsError {
		t.Error("notification banner marked as error")
	}
	if cmd == nil {
		t.Error("expected follow-up commands (rearm + unread refetch)")
	}
}

func TestBannerClearIgnoresSupersededSeq(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.showBanner("first", false)
	firstSeq := m.bannerSeq
	m, _ = m.showBanner("second", false)

	updated, _ := m.Update(bannerClearMsg{seq: firstSeq})
	m = updated.(Model)
	if m.banner == nil || m.banner.Text != "second" {
		t.Fatalf("banner = %+v, want the newer banner kept", m.banner)
	}

	updated, _ = m.Update(bannerClearMsg{seq: m.bannerSeq})
	m = updated.(Model)
	if m.banner != nil {
		t.Errorf("banner = %+v, want cleared", m.banner)
	}
}

func TestBannerDuration(t *testing.T) {
	m := newTestModel(t)
	if got := m.bannerDuration(); got != time.Second {
		t.Errorf("bannerDuration = %v, want 1s from config", got)
	}

	m.cfg = nil
	if got := m.bannerDuration(); got != 4*time.Second {
		t.Errorf("bannerDuration without config = %v, want 4s default", got)
	}
}

func TestQuitTearsDownSubscriptions(t *testing.T) {
	m := signIn(newTestModel(t))
	m, _ = m.navigate(router.LocationDashboard)

	cmd, handled := m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !handled || cmd == nil {
		t.Fatal("ctrl+c not handled")
	}
	if got := m.realtime.ActiveTopics(); len(got) != 0 {
		t.Errorf("ActiveTopics after quit = %v, want empty", got)
	}
}
