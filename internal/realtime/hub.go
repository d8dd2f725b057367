// Package realtime implements the room broker: ephemeral socket-to-room
// membership and fan-out of newly persisted messages. It delivers live events
// only; clients reconcile history through the paginated message listing.
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/chainlance/marketplace-api/internal/api/metrics"
	"github.com/chainlance/marketplace-api/internal/core/domain"
)

// Event is the envelope pushed to subscribed sockets.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Session is one live client connection. Send must not block: slow consumers
// are the session's problem, not the hub's.
type Session interface {
	ID() string
	Send(event Event)
}

// Hub tracks which sessions are joined to which conversation rooms and fans
// published messages out to current members. Membership is purely in-memory
// and disappears with the connection.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[string]Session  // conversation id -> session id -> session
	sessions map[string]map[string]struct{} // session id -> joined conversation ids
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms:    make(map[string]map[string]Session),
		sessions: make(map[string]map[string]struct{}),
		log:      log,
	}
}

// Join adds the session to a conversation room. Idempotent.
func (h *Hub) Join(s Session, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[conversationID]
	if !ok {
		room = make(map[string]Session)
		h.rooms[conversationID] = room
	}
	if _, ok := room[s.ID()]; ok {
		return
	}
	room[s.ID()] = s

	joined, ok := h.sessions[s.ID()]
	if !ok {
		joined = make(map[string]struct{})
		h.sessions[s.ID()] = joined
	}
	joined[conversationID] = struct{}{}

	metrics.RoomMembers.Inc()
	h.log.Debug().Str("session", s.ID()).Str("conversation", conversationID).Msg("joined room")
}

// Leave removes the session from one room.
func (h *Hub) Leave(s Session, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(s.ID(), conversationID)
}

// Disconnect removes all memberships for the session. Called on socket close;
// no trace of membership survives.
func (h *Hub) Disconnect(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conversationID := range h.sessions[s.ID()] {
		h.leaveLocked(s.ID(), conversationID)
	}
	delete(h.sessions, s.ID())
}

// Publish delivers msg to every session currently joined to the conversation.
// Delivery is at-most-once per live socket; sessions joining after this call
// do not receive the event.
func (h *Hub) Publish(conversationID string, msg *domain.Message) {
	h.mu.RLock()
	members := make([]Session, 0, len(h.rooms[conversationID]))
	for _, s := range h.rooms[conversationID] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	event := Event{Event: "new_message", Data: msg}
	for _, s := range members {
		s.Send(event)
	}
}

func (h *Hub) leaveLocked(sessionID, conversationID string) {
	room, ok := h.rooms[conversationID]
	if !ok {
		return
	}
	if _, ok := room[sessionID]; !ok {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(h.rooms, conversationID)
	}
	if joined, ok := h.sessions[sessionID]; ok {
		delete(joined, conversationID)
	}
	metrics.RoomMembers.Dec()
}
