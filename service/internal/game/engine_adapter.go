// internal/game/engine_adapter.go
package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/service/internal/models"
)

// The engine knows players only by name. These helpers translate between
// service seats (UUIDs) and engine players. All of them assume the lock is held.

// getPlayerByID returns the seated player with playerID, or the test-mode
// controller when it matches.
func (g *HanabiGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	if g.Admin != nil && g.Admin.ID == playerID {
		return g.Admin
	}
	return nil
}

// playerByName returns the seat the engine calls name.
func (g *HanabiGame) playerByName(name engine.Player) *models.Player {
	for _, p := range g.Players {
		if strings.EqualFold(p.Name, string(name)) {
			return p
		}
	}
	return nil
}

// isController reports whether playerID acts for every seat (test mode admin).
func (g *HanabiGame) isController(playerID uuid.UUID) bool {
	return g.TestMode && g.Admin != nil && g.Admin.ID == playerID
}

// rosterNames returns the engine roster in seat order.
func (g *HanabiGame) rosterNames() []engine.Player {
	names := make([]engine.Player, len(g.Players))
	for i, p := range g.Players {
		names[i] = engine.Player(p.Name)
	}
	return names
}

// actorFor resolves which engine player playerID may act as right now.
func (g *HanabiGame) actorFor(playerID uuid.UUID) (engine.Player, error) {
	p := g.getPlayerByID(playerID)
	if p == nil {
		return "", ErrPlayerNotFound
	}
	active := g.Engine.Active()
	if g.isController(playerID) {
		return active, nil
	}
	if !strings.EqualFold(p.Name, string(active)) {
		return "", fmt.Errorf("%w: waiting for %s", ErrNotYourTurn, active)
	}
	return active, nil
}

// takenName reports whether name is already seated, ignoring case.
func (g *HanabiGame) takenName(name string) bool {
	return g.playerByName(engine.Player(name)) != nil
}

// uniqueName replaces whitespace with underscores and, when the name is
// taken, appends "_<n>" where n starts at the number of seated players.
func (g *HanabiGame) uniqueName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		return "", ErrInvalidName
	}
	if !g.takenName(name) {
		return name, nil
	}
	for n := len(g.Players); ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !g.takenName(candidate) {
			return candidate, nil
		}
	}
}

// result builds the persisted summary of the game. It returns nil when no
// cards were dealt.
func (g *HanabiGame) result(reason string) *models.GameResult {
	if g.Engine == nil {
		return nil
	}
	status := g.Engine.CheckState()
	res := &models.GameResult{
		GameID:     g.ID,
		Players:    make([]string, len(g.Players)),
		Score:      g.Engine.Score(),
		Status:     status.String(),
		Turns:      g.Engine.Turn,
		FinishedAt: time.Now().UTC(),
	}
	if status == engine.Running {
		res.Status = reason
	}
	for i, p := range g.Players {
		res.Players[i] = p.Name
	}
	board, err := json.Marshal(g.Engine.View(nil))
	if err != nil {
		g.log.WithError(err).Warn("Failed encoding final board.")
	} else {
		res.Board = board
	}
	return res
}
