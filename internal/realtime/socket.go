// Package realtime manages channels to the platform's change-feed
// service. A Socket multiplexes joined topics over one websocket; a
// Manager enforces the subscription lifecycle the views rely on: at
// most one live channel per topic, and all channels torn down before a
// navigation dispatches.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bidbridge/bidbridge/internal/observability"
)

// Change event kinds a subscription can ask for.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
	EventAll    = "*"
)

// EventMsg is delivered to the program's message loop for every change
// event on a joined topic.
type EventMsg struct {
	Topic  string
	Event  string
	Record json.RawMessage
}

// frame is the wire format exchanged with the change-feed service.
type frame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

// joinPayload configures a channel when joining a topic.
type joinPayload struct {
	Filter string `json:"filter,omitempty"`
	Events string `json:"events"`
}

// changePayload is the body of a change event frame.
type changePayload struct {
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
}

// Protocol-level event names; everything else on a joined topic is a
// change event.
const (
	eventJoin      = "phx_join"
	eventLeave     = "phx_leave"
	eventReply     = "phx_reply"
	eventHeartbeat = "heartbeat"
	topicControl   = "phoenix"
)

const heartbeatInterval = 30 * time.Second

// Conn is the transport a Manager multiplexes topics over. It exists so
// tests can drive the manager without a network.
type Conn interface {
	Join(topic, filter, events string) error
	Leave(topic string) error
	Events() <-chan EventMsg
	Close() error
}

// Socket is the websocket implementation of Conn.
type Socket struct {
	conn   *websocket.Conn
	events chan EventMsg

	// writeMu serializes writes; the websocket allows one writer.
	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the change-feed service and starts the read and
// heartbeat loops.
func Dial(socketURL string) (*Socket, error) {
	conn, _, err := websocket.DefaultDialer.Dial(socketURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing change feed: %w", err)
	}

	s := &Socket{
		conn:   conn,
		events: make(chan EventMsg, 64),
		done:   make(chan struct{}),
	}

	go s.readPump()
	go s.heartbeatLoop()

	return s, nil
}

// Join opens a channel for the topic, optionally filtered to matching
// rows and a single event kind.
func (s *Socket) Join(topic, filter, events string) error {
	payload, err := json.Marshal(joinPayload{Filter: filter, Events: events})
	if err != nil {
		return fmt.Errorf("marshaling join payload: %w", err)
	}
	return s.writeFrame(frame{
		Topic:   topic,
		Event:   eventJoin,
		Payload: payload,
		Ref:     uuid.New().String(),
	})
}

// Leave closes the channel for the topic.
func (s *Socket) Leave(topic string) error {
	return s.writeFrame(frame{
		Topic: topic,
		Event: eventLeave,
		Ref:   uuid.New().String(),
	})
}

// Events returns the channel change events are delivered on. It is
// closed when the socket shuts down.
func (s *Socket) Events() <-chan EventMsg {
	return s.events
}

// Close tears down the connection and stops the pumps.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Socket) writeFrame(f frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("writing %s frame for %q: %w", f.Event, f.Topic, err)
	}
	return nil
}

// readPump reads frames until the connection dies, forwarding change
// events and skipping protocol replies. Sends never block: if the
// consumer is behind, the event is dropped and the view catches up on
// its next full refetch.
func (s *Socket) readPump() {
	defer close(s.events)

	for {
		var f frame
		if err := s.conn.ReadJSON(&f); err != nil {
			select {
			case <-s.done:
			default:
				observability.Logger().Error(
					"change feed read failed", "error", err,
				)
			}
			return
		}

		if f.Topic == topicControl || f.Event == eventReply {
			continue
		}

		msg := EventMsg{Topic: f.Topic, Event: f.Event}
		var change changePayload
		if len(f.Payload) > 0 && json.Unmarshal(f.Payload, &change) == nil &&
			change.Type != "" {
			msg.Event = change.Type
			msg.Record = change.Record
		} else {
			msg.Record = f.Payload
		}

		select {
		case s.events <- msg:
		default:
			observability.Logger().Warn(
				"dropping change event, consumer behind", "topic", f.Topic,
			)
		}
	}
}

// heartbeatLoop keeps the connection alive.
func (s *Socket) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			err := s.writeFrame(frame{
				Topic: topicControl,
				Event: eventHeartbeat,
				Ref:   uuid.New().String(),
			})
			if err != nil {
				return
			}
		}
	}
}
