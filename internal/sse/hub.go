// Package sse pushes resource updates to connected front ends over
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types broadcast by the scheduler.
const (
	EventRefreshStarted    = "refresh-started"
	EventGameUpdated       = "game-resource-updated"
	EventResourcesUpdated  = "resources-updated"
	EventNotificationFired = "notification-fired"
	EventRefreshFailed     = "refresh-failed"
)

const (
	broadcastBuffer = 64
	clientBuffer    = 16
)

// Event is one message pushed to every connected client.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload,omitempty"`
}

// Client is one connected event stream consumer.
type Client struct {
	ID     string
	Events chan Event
}

// Hub fans events out to connected clients. Slow clients drop events rather
// than stall the broadcast loop; the HTTP payload always carries full state,
// so a dropped event costs at most one repaint.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	shutdown   chan struct{}
	wg         sync.WaitGroup
}

// NewHub creates a Hub. Call Start before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, broadcastBuffer),
		register:   make(chan *Client, 4),
		unregister: make(chan string, 4),
		shutdown:   make(chan struct{}),
	}
}

// Start runs the broadcast loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop shuts the hub down and closes every client channel.
func (h *Hub) Stop() {
	close(h.shutdown)
	h.wg.Wait()

	h.mu.Lock()
	for _, c := range h.clients {
		close(c.Events)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()

		case id := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[id]; ok {
				close(c.Events)
				delete(h.clients, id)
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				select {
				case c.Events <- ev:
				default:
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register attaches a new client and returns it.
func (h *Hub) Register() *Client {
	c := &Client{
		ID:     uuid.New().String(),
		Events: make(chan Event, clientBuffer),
	}
	h.register <- c
	return c
}

// Unregister detaches a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every connected client. Drops the event if
// the broadcast buffer is full.
func (h *Hub) Broadcast(eventType string, payload any) {
	ev := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
	select {
	case h.broadcast <- ev:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Marshal renders an event in wire format:
// "id: <id>\nevent: <type>\ndata: <json>\n\n".
func Marshal(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	msg := "id: " + ev.ID + "\nevent: " + ev.Type + "\ndata: " + string(data) + "\n\n"
	return []byte(msg), nil
}
