// internal/models/result.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GameResult is the persisted summary of a finished game.
type GameResult struct {
	GameID     uuid.UUID       `json:"gameId"`
	Players    []string        `json:"players"`    // Seat order.
	Score      int             `json:"score"`      // Sum of pile heights, 0..25.
	Status     string          `json:"status"`     // Engine end status, e.g. "max score", or the abort reason.
	Turns      int             `json:"turns"`      // Successful actions taken.
	Board      json.RawMessage `json:"board"`      // Final omniscient board view.
	FinishedAt time.Time       `json:"finishedAt"` // UTC.
}

// Won reports whether the game ended with every pile complete.
func (r GameResult) Won() bool { return r.Status == "max score" }
