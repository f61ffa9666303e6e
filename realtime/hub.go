// Package realtime is the per-match pub/sub relay. It tracks ephemeral
// socket connections in a room per match id and rebroadcasts events between
// participants. The registry is process-local and rebuilt empty on restart:
// authoritative match state always lives in the database, so relay delivery
// is best-effort, at-most-once per connected peer.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// sendBuffer bounds each client's outbound queue. A consumer that falls
// this far behind starts losing events; it recovers by refetching.
const sendBuffer = 32

// Client is one connected participant in a match room.
type Client struct {
	MatchID string
	UserID  string

	send chan []byte
}

// Outbox exposes the client's outbound event stream (FIFO per sender).
func (c *Client) Outbox() <-chan []byte {
	return c.send
}

// Hub is the room registry, keyed by match id.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

// Join registers a connection in the match room and returns its client.
func (h *Hub) Join(matchID, userID string) *Client {
	c := &Client{
		MatchID: matchID,
		UserID:  userID,
		send:    make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	room, ok := h.rooms[matchID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[matchID] = room
	}
	room[c] = true
	h.mu.Unlock()

	log.Printf("🔌 %s joined match room %s", userID, matchID)
	return c
}

// Leave removes a client from its room and closes its outbox. Empty rooms
// are dropped from the registry.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.MatchID]
	if !ok || !room[c] {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.MatchID)
	}
	close(c.send)
	log.Printf("🔌 %s left match room %s", c.UserID, c.MatchID)
}

// Broadcast rebroadcasts an event to every member of its match room except
// the sender. Slow consumers are skipped rather than blocking the room.
func (h *Hub) Broadcast(e Event, except *Client) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("relay: failed to encode %s event for match %s: %v", e.Type, e.MatchID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for member := range h.rooms[e.MatchID] {
		if member == except {
			continue
		}
		select {
		case member.send <- data:
		default:
			// at-most-once: drop for this peer, it refetches on reconnect
		}
	}
}

// RoomSize reports how many connections a match room currently holds.
func (h *Hub) RoomSize(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}
