// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/service/internal/models"
)

// SyncPlayer describes one seat for client synchronization.
type SyncPlayer struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	Admin         bool      `json:"admin"`
	Connected     bool      `json:"connected"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
}

// SyncState is the session state as seen by one participant.
type SyncState struct {
	GameID          uuid.UUID         `json:"gameId"`
	Started         bool              `json:"started"`
	GameOver        bool              `json:"gameOver"`
	TestMode        bool              `json:"testMode"`
	CurrentPlayerID uuid.UUID         `json:"currentPlayerId"`
	Players         []SyncPlayer      `json:"players"`
	Board           *engine.BoardView `json:"board,omitempty"` // Nil until cards are dealt.
	HouseRules      engine.HouseRules `json:"houseRules"`
}

// buildSyncState generates a snapshot of the session tailored to forUser.
// The viewer's own cards show only what they know; once the game is over
// every card is revealed. In test mode the admin sees the active seat's view.
// Assumes lock is held by caller.
func (g *HanabiGame) buildSyncState(forUser uuid.UUID) SyncState {
	s := SyncState{
		GameID:     g.ID,
		Started:    g.Started,
		GameOver:   g.GameOver,
		TestMode:   g.TestMode,
		HouseRules: g.Rules,
		Players:    make([]SyncPlayer, 0, len(g.Players)),
	}

	var current *models.Player
	if g.Engine != nil && !g.GameOver {
		current = g.playerByName(g.Engine.Active())
		if current != nil {
			s.CurrentPlayerID = current.ID
		}
	}
	for _, p := range g.Players {
		s.Players = append(s.Players, SyncPlayer{
			PlayerID:      p.ID,
			Name:          p.Name,
			Admin:         p.Admin,
			Connected:     p.Connected,
			IsCurrentTurn: current != nil && p.ID == current.ID,
		})
	}

	if g.Engine == nil {
		return s
	}
	switch {
	case g.GameOver:
		board := g.Engine.View(nil)
		s.Board = &board
	case g.isController(forUser):
		active := g.Engine.Active()
		board := g.Engine.View(&active)
		s.Board = &board
	default:
		p := g.getPlayerByID(forUser)
		if p == nil {
			return s
		}
		viewer := engine.Player(p.Name)
		board := g.Engine.View(&viewer)
		s.Board = &board
	}
	return s
}
