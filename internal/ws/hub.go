package ws

import (
	"encoding/json"
	"sync"

	"tasktracker/internal/logger"
)

// Hub tracks the open event-feed connections per user. Events for a user are
// fanned out only to that user's own connections.
type Hub struct {
	mu   sync.RWMutex
	subs map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) Subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.subs[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[c.UserID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.subs, c.UserID)
	}
}

// Publish queues the event on every open connection of the given user.
// A client whose send buffer is full is skipped rather than blocking the
// request that triggered the event.
func (h *Hub) Publish(userID int64, ev Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to marshal ws event", "type", ev.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.subs[userID] {
		select {
		case c.Send <- raw:
		default:
			logger.Warn("ws send buffer full, dropping event", "user_id", userID, "type", ev.Type)
		}
	}
}

// Subscribers reports how many connections a user currently has.
func (h *Hub) Subscribers(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
