// internal/game/events.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/hanabi/engine"
)

// GameEventType represents the type of a game-related event broadcast via WebSockets.
type GameEventType string

// Constants defining the GameEvent types used for WebSocket communication.
const (
	EventPlayerJoined     GameEventType = "player_joined"      // Public: a seat was taken before dealing.
	EventGameStarted      GameEventType = "game_started"       // Public: cards were dealt.
	EventPlayerAction     GameEventType = "player_action"      // Public: an action succeeded, with its caption.
	EventGamePlayerTurn   GameEventType = "game_player_turn"   // Public: notification of the current player's turn.
	EventPrivateSyncState GameEventType = "private_sync_state" // Private: board as seen by one player.
	EventGameEnd          GameEventType = "game_end"           // Public: game has ended, includes status and score.
	EventError            GameEventType = "error"              // Private: an action from this connection was rejected.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`    // The user initiating or targeted by the event.
	Action  *engine.LastActionInfo `json:"action,omitempty"`  // Structured record of the action, for player_action.
	Caption string                 `json:"caption,omitempty"` // Human-readable description of the last action.
	Payload map[string]interface{} `json:"payload,omitempty"` // Additional arbitrary data.

	State *SyncState `json:"state,omitempty"` // Viewer-filtered state for sync events.
}
