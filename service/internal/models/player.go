// internal/models/player.go
package models

import "github.com/google/uuid"

// Player is a seat in a game session. The engine knows the player only by Name;
// the service addresses it by ID.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Admin     bool      `json:"admin,omitempty"` // Created the session and may deal or close it.
	Connected bool      `json:"connected"`       // A live WebSocket is attached to this seat.
}
