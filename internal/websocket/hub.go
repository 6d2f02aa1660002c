// Package websocket pushes validation run events to browser clients.
//
// A single Hub goroutine owns the client set. Clients register through the
// HTTP Handler and receive every event published while they are connected;
// nothing is replayed to late joiners.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"skucheck/internal/infrastructure"
	"skucheck/pkg/contracts"
	"skucheck/pkg/contracts/events"
)

const (
	// broadcastQueue bounds pending broadcasts before events are dropped
	broadcastQueue = 64

	// sendBuffer bounds pending messages per client
	sendBuffer = 256
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}

	logger *slog.Logger

	totalConnections atomic.Int64
	messagesSent     atomic.Int64
	messagesDropped  atomic.Int64
}

// NewHub creates a hub. It does nothing until Start is called.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// Start runs the hub loop in a new goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop ends the hub loop and disconnects every client. A stopped hub cannot
// be restarted.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

// Running reports whether the hub loop is active
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shut down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.totalConnections.Add(1)

			ctx := client.context()
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			greeting := events.NewMessage(events.MessageTypeConnect, client.traceID, events.ConnectEvent{
				ClientID:      client.id,
				ServerVersion: contracts.Version,
				APIVersion:    contracts.APIVersion,
			})
			if data, err := json.Marshal(greeting); err == nil {
				client.trySend(data)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				count := len(h.clients)
				h.mu.Unlock()

				h.logger.InfoContext(client.context(), "Client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.Lock()
			delivered := 0
			for client := range h.clients {
				if client.trySend(message) {
					delivered++
					continue
				}
				// A client that cannot keep up is dropped rather than
				// stalling everyone else.
				client.closeSend()
				delete(h.clients, client)
				h.logger.WarnContext(client.context(), "Client send buffer full, disconnecting",
					slog.String("client_id", client.id))
			}
			h.mu.Unlock()
			h.messagesSent.Add(int64(delivered))

			h.logger.Debug("Broadcast delivered",
				slog.Int("clients", delivered),
				slog.Int("message_size", len(message)))
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Publish queues msg for every connected client. It never blocks: when the
// hub is stopped or its queue is full the message is dropped and false is
// returned.
func (h *Hub) Publish(msg events.WebSocketMessage) bool {
	if !h.Running() {
		return false
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error marshaling message",
			slog.String("message_type", string(msg.Type)),
			slog.String("error", err.Error()))
		return false
	}

	select {
	case h.broadcast <- data:
		return true
	default:
		h.messagesDropped.Add(1)
		h.logger.Warn("Broadcast queue full, dropping message",
			slog.String("message_type", string(msg.Type)))
		return false
	}
}

// PublishRun broadcasts a run event stamped with the trace ID in ctx
func (h *Hub) PublishRun(ctx context.Context, t events.MessageType, event events.RunEvent) {
	h.Publish(events.NewMessage(t, infrastructure.GetTraceID(ctx), event))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns hub counters for the health endpoint
func (h *Hub) Stats() map[string]interface{} {
	return map[string]interface{}{
		"active_clients":    h.ClientCount(),
		"total_connections": h.totalConnections.Load(),
		"messages_sent":     h.messagesSent.Load(),
		"messages_dropped":  h.messagesDropped.Load(),
	}
}
