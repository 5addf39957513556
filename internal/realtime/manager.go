package realtime

import (
	"fmt"
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Topics the views subscribe to. Bids and chat are scoped per task.
const (
	TopicTasks         = "tasks"
	TopicNotifications = "notifications"
)

// BidsTopic returns the topic carrying new bids for one task.
func BidsTopic(taskID int64) string {
	return fmt.Sprintf("bids:%d", taskID)
}

// ChatTopic returns the topic carrying new chat messages for one task.
func ChatTopic(taskID int64) string {
	return fmt.Sprintf("chat:%d", taskID)
}

// Subscription is a live channel handle.
type Subscription struct {
	Topic  string
	Filter string
	Events string
}

// Manager owns the client's subscription lifecycle. It guarantees at
// most one live channel per topic: Subscribe rejects a duplicate topic
// outright rather than silently deduping, so leaks show up as errors in
// tests instead of as accumulated channels in production.
type Manager struct {
	dial func() (Conn, error)

	mu     sync.Mutex
	conn   Conn
	active map[string]Subscription

	events chan EventMsg
	done   chan struct{}
	once   sync.Once
}

// NewManager creates a manager that dials the change feed lazily on the
// first Subscribe.
func NewManager(dial func() (Conn, error)) *Manager {
	return &Manager{
		dial:   dial,
		active: make(map[string]Subscription),
		events: make(chan EventMsg, 64),
		done:   make(chan struct{}),
	}
}

// Subscribe opens a channel for the topic. The caller must have
// released any prior channel for the same topic first.
func (m *Manager) Subscribe(topic, filter, events string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[topic]; exists {
		return fmt.Errorf("topic %q already has a live channel", topic)
	}

	if m.conn == nil {
		conn, err := m.dial()
		if err != nil {
			return fmt.Errorf("connecting to change feed: %w", err)
		}
		m.conn = conn
		go m.forward(conn)
	}

	if err := m.conn.Join(topic, filter, events); err != nil {
		return err
	}

	m.active[topic] = Subscription{Topic: topic, Filter: filter, Events: events}
	return nil
}

// Release closes the channel for the topic. Releasing a topic with no
// live channel is a no-op.
func (m *Manager) Release(topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[topic]; !exists {
		return nil
	}
	delete(m.active, topic)

	if m.conn == nil {
		return nil
	}
	return m.conn.Leave(topic)
}

// ReleaseAll closes every live channel. Called unconditionally before
// each navigation dispatch; safe when nothing is subscribed.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for topic := range m.active {
		if m.conn != nil {
			_ = m.conn.Leave(topic)
		}
		delete(m.active, topic)
	}
}

// ActiveTopics returns the topics with a live channel, sorted for
// stable comparison.
func (m *Manager) ActiveTopics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	topics := make([]string, 0, len(m.active))
	for topic := range m.active {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// WaitForEvent returns a command that blocks until the next change
// event arrives. The controller re-issues it after handling each
// EventMsg, giving a single-consumer event queue. Events for topics
// without a live channel (a handler raced a release) are skipped.
func (m *Manager) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-m.done:
				return nil
			case msg, ok := <-m.events:
				if !ok {
					return nil
				}
				m.mu.Lock()
				_, live := m.active[msg.Topic]
				m.mu.Unlock()
				if !live {
					continue
				}
				return msg
			}
		}
	}
}

// Close releases all channels and shuts down the connection.
func (m *Manager) Close() {
	m.ReleaseAll()

	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	m.once.Do(func() { close(m.done) })
}

// forward drains a connection's events into the manager's queue without
// blocking.
func (m *Manager) forward(conn Conn) {
	for msg := range conn.Events() {
		select {
		case m.events <- msg:
		case <-m.done:
			return
		}
	}
}
