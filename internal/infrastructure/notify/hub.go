package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
)

// Hub maintains active WebSocket connections and broadcasts notifications
type Hub struct {
	// Registered clients (client ID -> Client)
	clients map[string]*Client

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger logger.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, client := range h.clients {
				client.closeSend()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client connected", "clientId", client.ID, "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client disconnected", "clientId", client.ID, "total", total)

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				if !client.trySend(message) {
					// Client buffer full, disconnect
					client.closeSend()
					delete(h.clients, id)
					h.logger.Warn("WebSocket client buffer full, disconnecting", "clientId", id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends data to every connected client. It never blocks: when the
// broadcast queue is full the message is dropped.
func (h *Hub) Broadcast(data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", "error", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("Broadcast queue full, dropping message")
	}
}

func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
