package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Message is the wire envelope pushed to subscribers.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the subset of *websocket.Conn the hub needs. Tests use fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub tracks connected subscribers and fans events out to them.
// Delivery is best-effort: no queueing, no replay, no acknowledgment.
// A subscriber that connects after an event was published never sees it.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     log,
	}
}

// Register adds a connection and returns its client handle.
func (h *Hub) Register(conn Conn) *Client {
	client := &Client{conn: conn}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.log.Info("websocket client connected", zap.Int("subscribers", h.Count()))
	return client
}

// Unregister removes a client and closes its connection. Safe to call
// more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, present := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()
	if present {
		client.close()
		h.log.Info("websocket client disconnected", zap.Int("subscribers", h.Count()))
	}
}

// Count reports the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends {event, data} to a snapshot of current subscribers.
// Failed sends are logged and the dead client is dropped; the failure is
// never surfaced to the caller.
func (h *Hub) Publish(event string, data interface{}) {
	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		snapshot = append(snapshot, client)
	}
	h.mu.RUnlock()

	msg := Message{Event: event, Data: data}
	for _, client := range snapshot {
		if err := client.Send(msg); err != nil {
			h.log.Warn("dropping websocket client after failed send",
				zap.String("event", event), zap.Error(err))
			h.Unregister(client)
		}
	}
}
