// internal/server/hub.go
package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hanabi/service/internal/game"
	"github.com/sirupsen/logrus"
)

// sendBuffer is the number of outgoing messages queued per connection. A
// connection that falls further behind misses messages; it can resync from
// the private_sync_state sent after every action.
const sendBuffer = 64

// client is one WebSocket connection bound to a seat.
type client struct {
	gameID   uuid.UUID
	playerID uuid.UUID
	send     chan []byte
}

// Hub fans game events out to the connections of each game.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*client]struct{} // game ID -> connections
	log     *logrus.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*client]struct{}),
		log:     logger,
	}
}

// Attach routes g's broadcasts through the hub.
func (h *Hub) Attach(g *game.HanabiGame) {
	id := g.ID
	g.BroadcastFn = func(ev game.GameEvent) { h.Broadcast(id, ev) }
	g.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.GameEvent) { h.SendTo(id, playerID, ev) }
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.gameID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.gameID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.gameID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.gameID)
	}
}

// Broadcast sends ev to every connection of the game.
func (h *Hub) Broadcast(gameID uuid.UUID, ev game.GameEvent) {
	h.deliver(gameID, ev, func(*client) bool { return true })
}

// SendTo sends ev to the connections of one player.
func (h *Hub) SendTo(gameID, playerID uuid.UUID, ev game.GameEvent) {
	h.deliver(gameID, ev, func(c *client) bool { return c.playerID == playerID })
}

// Connections returns the number of open connections to the game.
func (h *Hub) Connections(gameID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[gameID])
}

func (h *Hub) deliver(gameID uuid.UUID, ev game.GameEvent, match func(*client) bool) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).Errorf("Failed encoding %s event.", ev.Type)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[gameID] {
		if !match(c) {
			continue
		}
		select {
		case c.send <- b:
		default:
			h.log.WithFields(logrus.Fields{"game": gameID, "player": c.playerID}).Warn("Send buffer full, dropping event.")
		}
	}
}
