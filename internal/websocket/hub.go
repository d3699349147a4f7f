package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kerov/travel-force/internal/models"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeViewState MessageType = "view_state"
	MessageTypeToast     MessageType = "toast"
	MessageTypeNavigate  MessageType = "navigate"
)

// Message represents a WebSocket message pushed to clients watching a trip
type Message struct {
	Type      MessageType          `json:"type"`
	TripID    string               `json:"tripId"`
	State     *models.ViewState    `json:"state,omitempty"`
	Toast     *models.Notification `json:"toast,omitempty"`
	Target    *models.RecordRef    `json:"target,omitempty"`
	Timestamp int64                `json:"timestamp"`
}

// Hub manages WebSocket connections per trip
type Hub struct {
	log        zerolog.Logger
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:        log.With().Str("component", "websocket").Logger(),
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.tripID] == nil {
				h.clients[client.tripID] = make(map[*Client]bool)
			}
			h.clients[client.tripID][client] = true
			h.log.Debug().Str("tripId", client.tripID.String()).
				Int("total", len(h.clients[client.tripID])).
				Msg("client registered")
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.tripID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.tripID)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			tripID, err := uuid.Parse(message.TripID)
			if err != nil {
				h.log.Error().Str("tripId", message.TripID).Msg("invalid trip id in broadcast")
				continue
			}

			data, err := json.Marshal(message)
			if err != nil {
				h.log.Error().Err(err).Msg("failed to marshal message")
				continue
			}

			h.mu.RLock()
			clients := h.clients[tripID]
			h.mu.RUnlock()

			for client := range clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer: drop it rather than stall the hub.
					h.mu.Lock()
					delete(h.clients[tripID], client)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// BroadcastViewState pushes a fresh view state snapshot to all clients
// watching a trip.
func (h *Hub) BroadcastViewState(tripID string, state models.ViewState) {
	h.broadcast <- &Message{
		Type:      MessageTypeViewState,
		TripID:    tripID,
		State:     &state,
		Timestamp: time.Now().UnixMilli(),
	}
}

// BroadcastToast pushes a user-visible notification to all clients watching
// a trip.
func (h *Hub) BroadcastToast(tripID string, toast models.Notification) {
	h.broadcast <- &Message{
		Type:      MessageTypeToast,
		TripID:    tripID,
		Toast:     &toast,
		Timestamp: time.Now().UnixMilli(),
	}
}

// BroadcastNavigate asks clients watching a trip to navigate to a record.
func (h *Hub) BroadcastNavigate(tripID string, target models.RecordRef) {
	h.broadcast <- &Message{
		Type:      MessageTypeNavigate,
		TripID:    tripID,
		Target:    &target,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ClientCount returns the number of clients watching a trip
func (h *Hub) ClientCount(tripID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[tripID])
}
