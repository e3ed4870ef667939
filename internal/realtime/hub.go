package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Topic names. Drivers share one room for new-ride fan-out; every account has
// a personal room for ride-state broadcasts.
const (
	TopicDrivers = "drivers"
	userPrefix   = "user:"
)

// UserTopic returns the personal topic for an account.
func UserTopic(accountID string) string {
	return userPrefix + accountID
}

// Event is one fan-out message. Delivery is at-most-once and best-effort;
// nothing downstream may treat it as the record of truth.
type Event struct {
	Type      string         `json:"type"`
	Topic     string         `json:"topic,omitempty"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Hub fans events out to websocket subscribers grouped by topic.
type Hub struct {
	clients    map[*Client]bool
	topics     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan Event
	mu         sync.RWMutex
	log        *logrus.Logger
}

// NewHub creates a new Hub. Run must be started in its own goroutine.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 256),
		log:        log,
	}
}

// Run processes registrations and event fan-out until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.events:
			h.fanOut(event)
		}
	}
}

// Publish enqueues an event for subscribers of the topic. Never blocks: when
// the hub is saturated the event is dropped and logged, because a slow
// notification channel must not stall a mutation path.
func (h *Hub) Publish(topic, eventType string, data map[string]any) {
	event := Event{
		Type:      eventType,
		Topic:     topic,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}

	select {
	case h.events <- event:
	default:
		h.log.WithFields(logrus.Fields{"topic": topic, "type": eventType}).
			Warn("realtime hub saturated, event dropped")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.joinTopic(client, UserTopic(client.AccountID))
	if client.Role == "driver" {
		h.joinTopic(client, TopicDrivers)
	}

	h.log.WithField("account_id", client.AccountID).Debug("realtime client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	for topic, members := range h.topics {
		if _, ok := members[client]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.topics, topic)
			}
		}
	}

	h.log.WithField("account_id", client.AccountID).Debug("realtime client disconnected")
}

func (h *Hub) joinTopic(client *Client, topic string) {
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]bool)
	}
	h.topics[topic][client] = true
}

func (h *Hub) fanOut(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Warn("failed to marshal realtime event")
		return
	}

	for client := range h.topics[event.Topic] {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop the event for this client.
		}
	}
}
