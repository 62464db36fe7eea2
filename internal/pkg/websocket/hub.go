// Package websocket pushes server events to subscribed browser clients.
// Clients only listen; every message originates from Publish.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrHubClosed is returned by Serve once the hub has stopped
var ErrHubClosed = errors.New("event hub closed")

// broadcastBuffer bounds the events waiting for the hub loop
const broadcastBuffer = 256

// Message is one event delivered to the subscribers of its topics
type Message struct {
	// Type names the event, e.g. "assignment.created"
	Type string `json:"type"`

	// Topics selects the receivers; a client subscribed to any of them gets the message once
	Topics []string `json:"-"`

	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher accepts messages for delivery
type Publisher interface {
	Publish(msg Message)
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients organized by topic
	clients map[string]map[*Client]struct{}

	// Every registered client, whatever its topics
	members map[*Client]struct{}

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan Message

	logger zerolog.Logger
}

// NewHub creates a new Hub instance. Nothing is delivered until Run is started.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		members:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Publish queues a message without blocking. When the queue is full the
// message is dropped and logged.
func (h *Hub) Publish(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn().Str("type", msg.Type).Msg("Event queue full, dropping event")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.members[client] = struct{}{}
	for _, topic := range client.topics {
		if _, ok := h.clients[topic]; !ok {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][client] = struct{}{}
	}

	h.logger.Info().
		Str("clientID", client.id).
		Strs("topics", client.topics).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.remove(client) {
		h.logger.Info().Str("clientID", client.id).Msg("Client unregistered")
	}
}

// remove drops the client from every topic and closes its send channel.
// The caller holds h.mu.
func (h *Hub) remove(client *Client) bool {
	if _, ok := h.members[client]; !ok {
		return false
	}
	delete(h.members, client)
	for _, topic := range client.topics {
		delete(h.clients[topic], client)
		if len(h.clients[topic]) == 0 {
			delete(h.clients, topic)
		}
	}
	close(client.send)
	return true
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.members {
		h.remove(client)
	}
	h.logger.Info().Msg("Event hub stopped")
}

func (h *Hub) broadcastMessage(message Message) {
	h.notifyListeners(message)

	h.mu.Lock()
	defer h.mu.Unlock()

	targets := make(map[*Client]struct{})
	for _, topic := range message.Topics {
		for client := range h.clients[topic] {
			targets[client] = struct{}{}
		}
	}
	if len(targets) == 0 {
		h.logger.Debug().Str("type", message.Type).Msg("No subscribers for event")
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Str("type", message.Type).Msg("Failed to marshal event for broadcast")
		return
	}

	for client := range targets {
		select {
		case client.send <- data:
		default:
			// slow reader, its writePump sees the closed channel and hangs up
			h.remove(client)
			h.logger.Warn().Str("clientID", client.id).Msg("Dropped slow event client")
		}
	}

	h.logger.Debug().
		Str("type", message.Type).
		Int("clientCount", len(targets)).
		Msg("Event broadcasted")
}

func (h *Hub) notifyListeners(message Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- message:
		default:
			h.logger.Warn().Msg("Skipped slow event listener")
		}
	}
}

// ClientCount returns the number of connected clients following a topic
func (h *Hub) ClientCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// AddListener registers a channel that receives every published message
func (h *Hub) AddListener(listener chan Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveListener removes a listener from the hub
func (h *Hub) RemoveListener(listener chan Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}
