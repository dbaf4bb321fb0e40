package api

import (
	"context"

	"github.com/devaa4522/Vortex-Engine/pkg/logger"
)

// Hub manages all active websocket connections and broadcasts book
// snapshots to them. Register, unregister and broadcast all flow through
// channels serviced by one Run goroutine, so the client map needs no lock.
type Hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	logger     *logger.Logger
}

// NewHub creates a hub with no connected clients.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		logger:     log,
	}
}

// Run services the hub channels until the context ends. Must run in its
// own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("websocket client connected",
				logger.Field{Key: "clients", Value: len(h.clients)})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.logger.Info("websocket client disconnected",
				logger.Field{Key: "clients", Value: len(h.clients)})

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast queues a message for every connected client. Drops the message
// when the hub is saturated.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast channel full, dropping snapshot")
	}
}
