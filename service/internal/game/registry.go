// internal/game/registry.go
package game

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/service/internal/database"
	"github.com/jason-s-yu/hanabi/service/internal/models"
	"github.com/sirupsen/logrus"
)

// saveTimeout bounds persisting one finished game.
const saveTimeout = 5 * time.Second

// Registry owns every live session, keyed by game ID. Finished games are
// persisted to the result store (if any) and forgotten.
type Registry struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*HanabiGame

	store     database.ResultStore
	publisher Publisher
	logger    *logrus.Logger
	saves     sync.WaitGroup

	// Attach, if set, is called with each new game before any event fires,
	// so the transport can install its broadcast callbacks.
	Attach func(g *HanabiGame)
}

// NewRegistry creates an empty registry. store and publisher may be nil.
func NewRegistry(store database.ResultStore, publisher Publisher, logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		games:     make(map[uuid.UUID]*HanabiGame),
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Create starts a session administered by adminName and returns it with the
// admin's seat. With opts.TestPlayers set, the admin controls that many
// canned players and the cards are dealt immediately.
func (r *Registry) Create(adminName string, opts Options) (*HanabiGame, *models.Player, error) {
	g := NewHanabiGame(opts, r.logger)
	g.Publisher = r.publisher
	g.OnGameEnd = r.onGameEnd
	if r.Attach != nil {
		r.Attach(g)
	}

	g.Mu.Lock()
	var admin *models.Player
	if opts.TestPlayers > 0 {
		n := min(opts.TestPlayers, engine.MaxPlayers)
		if n < engine.MinPlayers {
			g.Mu.Unlock()
			return nil, nil, fmt.Errorf("%w: a test game needs at least %d", ErrTooFewPlayers, engine.MinPlayers)
		}
		name, err := g.uniqueName(adminName)
		if err != nil {
			g.Mu.Unlock()
			return nil, nil, err
		}
		admin = &models.Player{ID: uuid.New(), Name: name, Admin: true}
		g.Admin = admin
		g.TestMode = true
		for _, canned := range TestPlayerNames[:n] {
			if _, err := g.addPlayer(canned); err != nil {
				g.Mu.Unlock()
				return nil, nil, err
			}
		}
	} else {
		p, err := g.addPlayer(adminName)
		if err != nil {
			g.Mu.Unlock()
			return nil, nil, err
		}
		p.Admin = true
		admin = p
		g.Admin = p
	}
	g.Mu.Unlock()

	if g.TestMode {
		if err := g.Deal(admin.ID); err != nil {
			return nil, nil, err
		}
	}

	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()
	r.logger.WithFields(logrus.Fields{"game": g.ID, "admin": admin.Name, "test": g.TestMode}).Info("Game created.")
	return g, admin, nil
}

// Get returns the live game with id.
func (r *Registry) Get(id uuid.UUID) (*HanabiGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// End finishes the game with id for reason. Its result, if any, is persisted.
func (r *Registry) End(id uuid.UUID, reason string) error {
	g, err := r.Get(id)
	if err != nil {
		return err
	}
	g.EndGame(reason)
	return nil
}

// List summarizes the live games, oldest first.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	games := make([]*HanabiGame, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	r.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool { return games[i].CreatedAt.Before(games[j].CreatedAt) })
	out := make([]Summary, len(games))
	for i, g := range games {
		out[i] = g.Summary()
	}
	return out
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Wait blocks until every pending result save has finished.
func (r *Registry) Wait() {
	r.saves.Wait()
}

// onGameEnd forgets the game and persists its result in the background.
// Runs with the game's lock held.
func (r *Registry) onGameEnd(gameID uuid.UUID, result *models.GameResult) {
	r.mu.Lock()
	delete(r.games, gameID)
	r.mu.Unlock()

	if result == nil || r.store == nil {
		return
	}
	r.saves.Add(1)
	go func() {
		defer r.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		logger := r.logger.WithFields(logrus.Fields{"game": gameID, "score": result.Score, "status": result.Status})
		if err := r.store.SaveResult(ctx, *result); err != nil {
			logger.WithError(err).Error("Failed saving game result.")
			return
		}
		logger.Info("Game result saved.")
	}()
}
