package websocket

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// Hub maintains the set of active Clients and broadcasts messages to them.
type Hub struct {
	// Clients maps user IDs to their active connections
	// A single user can have multiple connections (multiple tabs/devices)
	clients map[uuid.UUID]map[*Client]bool

	// Rooms maps request IDs to subscribed clients
	rooms map[int64]map[*Client]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients and rooms maps
	mu sync.RWMutex

	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		rooms:      make(map[int64]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast sends an event to the hub's internal broadcast channel.
// This method implements the ports.EventBroadcaster interface.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"request_id", event.RequestID,
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true

	h.logger.Info("client registered",
		"user_id", client.UserID,
		"total_connections", len(h.clients[client.UserID]),
	)
}

// unregisterClient removes a client from the hub and all rooms
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscriptions := client.GetSubscriptions()

	if userClients, ok := h.clients[client.UserID]; ok {
		if _, exists := userClients[client]; exists {
			delete(userClients, client)
			if len(userClients) == 0 {
				delete(h.clients, client.UserID)
			}
		}
	}

	for _, requestID := range subscriptions {
		if room, ok := h.rooms[requestID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, requestID)
			}
		}
	}

	client.CloseSend()

	h.logger.Info("client unregistered",
		"user_id", client.UserID,
	)
}

// broadcastEvent routes an event to its audience. Events carrying a
// request ID go to that request's room; events without one (such as
// metrics invalidation) fan out to every connected client.
func (h *Hub) broadcastEvent(event domain.Event) {
	var clients []*Client

	h.mu.RLock()
	if event.RequestID != 0 {
		room, ok := h.rooms[event.RequestID]
		if !ok {
			h.mu.RUnlock()
			return
		}
		clients = make([]*Client, 0, len(room))
		for client := range room {
			clients = append(clients, client)
		}
	} else {
		for _, userClients := range h.clients {
			for client := range userClients {
				clients = append(clients, client)
			}
		}
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"request_id", event.RequestID,
		"client_count", len(clients),
	)

	for _, client := range clients {
		select {
		case client.Send <- event:
			// Successfully queued
		default:
			// Client's send buffer is full, unregister them
			h.logger.Warn("client send buffer full, unregistering",
				"user_id", client.UserID,
			)
			h.Unregister <- client
		}
	}
}

// subscribeClientToRequest adds a client to a request's room
func (h *Hub) subscribeClientToRequest(client *Client, requestID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[requestID] == nil {
		h.rooms[requestID] = make(map[*Client]bool)
	}
	h.rooms[requestID][client] = true
	client.AddSubscription(requestID)

	h.logger.Debug("client subscribed to request",
		"user_id", client.UserID,
		"request_id", requestID,
	)
}

// unsubscribeClientFromRequest removes a client from a request's room
func (h *Hub) unsubscribeClientFromRequest(client *Client, requestID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[requestID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, requestID)
		}
	}
	client.RemoveSubscription(requestID)

	h.logger.Debug("client unsubscribed from request",
		"user_id", client.UserID,
		"request_id", requestID,
	)
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, userClients := range h.clients {
		count += len(userClients)
	}
	return count
}

// GetRoomCount returns the number of active rooms
func (h *Hub) GetRoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// GetClientsInRoom returns the number of clients subscribed to a request
func (h *Hub) GetClientsInRoom(requestID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[requestID]; ok {
		return len(room)
	}
	return 0
}

// IsUserConnected checks if a user has any active connections
func (h *Hub) IsUserConnected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[userID]
	return ok && len(clients) > 0
}

// SendToUser sends an event directly to a specific user (all their connections)
func (h *Hub) SendToUser(userID uuid.UUID, event domain.Event) {
	h.mu.RLock()
	clients, ok := h.clients[userID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	for _, client := range clientList {
		select {
		case client.Send <- event:
		default:
			// Buffer full, skip this connection
		}
	}
}
