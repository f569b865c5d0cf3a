// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/service/internal/models"
	"github.com/sirupsen/logrus"
)

// Errors returned by session operations. Rejected moves return the engine's
// *engine.ActionError instead.
var (
	ErrNotYourTurn    = errors.New("not your turn")
	ErrGameNotStarted = errors.New("game has not started")
	ErrGameFull       = errors.New("game is full")
	ErrGameNotFound   = errors.New("game not found")
	ErrAlreadyStarted = errors.New("game already started")
	ErrNotAdmin       = errors.New("only the game admin can do that")
	ErrTooFewPlayers  = errors.New("not enough players")
	ErrPlayerNotFound = errors.New("player not in this game")
	ErrInvalidName    = errors.New("player name must not be empty")
)

// publishTimeout bounds each asynchronous publication to the Publisher.
const publishTimeout = 2 * time.Second

// TestPlayerNames are the seats created for a test game, in order.
var TestPlayerNames = []string{"Alice", "Bob", "Carol", "Dan", "Erin", "Frank"}

// OnGameEndFunc defines the signature for a callback function executed when a game ends.
// result is nil when the game ended before cards were dealt.
type OnGameEndFunc func(gameID uuid.UUID, result *models.GameResult)

// Publisher mirrors public game state to an external store. cache.RedisPublisher implements it.
type Publisher interface {
	PublishSnapshot(ctx context.Context, gameID uuid.UUID, board any) error
	PublishEvent(ctx context.Context, gameID uuid.UUID, event any) error
}

// Options configures a new session.
type Options struct {
	Rules       engine.HouseRules `json:"houseRules"`
	Seed        uint64            `json:"seed,omitempty"`        // Deck shuffle seed; 0 picks one at random.
	TestPlayers int               `json:"testPlayers,omitempty"` // If > 0, the admin plays every seat of a game with this many canned players.
}

// HanabiGame is one session: a roster gathered before dealing and, once
// dealt, the authoritative engine Game it drives.
type HanabiGame struct {
	ID        uuid.UUID
	Admin     *models.Player // Creator of the session. Seated unless TestMode.
	Rules     engine.HouseRules
	Seed      uint64
	TestMode  bool
	CreatedAt time.Time

	Players []*models.Player // Seats in turn order.
	Engine  *engine.Game     // Nil until Deal.

	// Game Lifecycle State
	Started   bool
	GameOver  bool
	EndReason string

	Mu sync.Mutex // Mutex protecting concurrent access to game state.

	// Communication Callbacks
	BroadcastFn         func(ev GameEvent)                     // Sends an event to all connected players.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent) // Sends an event to a single player.
	OnGameEnd           OnGameEndFunc                          // Callback executed when the game finishes.
	Publisher           Publisher                              // Optional mirror of public events and snapshots.

	log     *logrus.Entry
	pending sync.WaitGroup // In-flight publications.
}

// NewHanabiGame creates an empty session. Rules left at zero take their defaults.
func NewHanabiGame(opts Options, logger *logrus.Logger) *HanabiGame {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rules := opts.Rules
	def := engine.DefaultHouseRules()
	if rules.MaxHints <= 0 {
		rules.MaxHints = def.MaxHints
	}
	if rules.MaxErrors <= 0 {
		rules.MaxErrors = def.MaxErrors
	}
	id := uuid.New()
	return &HanabiGame{
		ID:        id,
		Rules:     rules,
		Seed:      seed,
		CreatedAt: time.Now(),
		log:       logger.WithField("game", id),
	}
}

// AddPlayer seats a new player. A name already taken gets a numeric suffix.
func (g *HanabiGame) AddPlayer(name string) (*models.Player, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.addPlayer(name)
}

// addPlayer seats a player.
// Assumes lock is held by caller.
func (g *HanabiGame) addPlayer(name string) (*models.Player, error) {
	if g.GameOver {
		return nil, engine.ErrGameOver
	}
	if g.Started {
		return nil, ErrAlreadyStarted
	}
	if len(g.Players) >= engine.MaxPlayers {
		return nil, fmt.Errorf("%w: %d players already joined", ErrGameFull, engine.MaxPlayers)
	}
	unique, err := g.uniqueName(name)
	if err != nil {
		return nil, err
	}

	p := &models.Player{ID: uuid.New(), Name: unique}
	g.Players = append(g.Players, p)
	g.log.WithField("player", p.Name).Info("Player joined.")
	g.fireEvent(GameEvent{
		Type: EventPlayerJoined,
		User: &EventUser{ID: p.ID, Name: p.Name},
	})
	return p, nil
}

// Deal builds the engine game from the current roster and starts play.
// Only the admin may deal.
func (g *HanabiGame) Deal(requester uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.GameOver {
		return engine.ErrGameOver
	}
	if g.Started {
		return ErrAlreadyStarted
	}
	if g.Admin == nil || g.Admin.ID != requester {
		return ErrNotAdmin
	}
	if len(g.Players) < engine.MinPlayers {
		return fmt.Errorf("%w: need at least %d, have %d", ErrTooFewPlayers, engine.MinPlayers, len(g.Players))
	}

	eg, err := engine.NewGame(g.rosterNames(), g.Seed, g.Rules)
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	g.Engine = eg
	g.Rules = eg.Rules
	g.Started = true
	g.log.WithFields(logrus.Fields{"players": len(g.Players), "seed": g.Seed}).Info("Cards dealt.")

	g.fireEvent(GameEvent{
		Type:    EventGameStarted,
		Caption: eg.LastActionDescription,
		Payload: map[string]interface{}{"players": len(g.Players), "deckSize": eg.Deck.Len()},
	})
	g.broadcastSyncStateToAll()
	g.publishSnapshot()
	g.broadcastPlayerTurn()
	return nil
}

// SubmitAction applies one command line for playerID. On success every
// participant receives the action, their sync state and the next turn (or the
// end of the game). Rejected commands leave the game unchanged.
func (g *HanabiGame) SubmitAction(playerID uuid.UUID, text string) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.GameOver {
		return engine.ErrGameOver
	}
	if !g.Started {
		return ErrGameNotStarted
	}
	actor, err := g.actorFor(playerID)
	if err != nil {
		return err
	}
	logger := g.log.WithFields(logrus.Fields{"player": actor, "action": text})
	if err := g.Engine.PerformAction(actor, text); err != nil {
		logger.WithError(err).Debug("Action rejected.")
		return err
	}

	info := g.Engine.LastAction
	caption := g.Engine.LastActionDescription
	logger.Info(caption)
	seat := g.playerByName(actor)
	g.fireEvent(GameEvent{
		Type:    EventPlayerAction,
		User:    &EventUser{ID: seat.ID, Name: seat.Name},
		Action:  &info,
		Caption: caption,
	})
	g.broadcastSyncStateToAll()
	g.publishSnapshot()

	if g.Engine.IsTerminal() {
		g.endGame(g.Engine.CheckState().String())
		return nil
	}
	g.broadcastPlayerTurn()
	return nil
}

// EndGame finishes the session for reason. It is a no-op once the game is over.
func (g *HanabiGame) EndGame(reason string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.endGame(reason)
}

// endGame marks the game over, reveals the final board, broadcasts results,
// and triggers the OnGameEnd callback.
// Assumes lock is held by caller.
func (g *HanabiGame) endGame(reason string) {
	if g.GameOver {
		g.log.Debug("EndGame called, but game is already over.")
		return
	}
	g.GameOver = true
	g.EndReason = reason

	payload := map[string]interface{}{"reason": reason}
	if g.Engine != nil {
		status := g.Engine.CheckState()
		payload["status"] = status.String()
		payload["score"] = g.Engine.Score()
		payload["won"] = status.Won()
		payload["turns"] = g.Engine.Turn
	}
	g.log.WithFields(logrus.Fields(payload)).Info("Game ended.")
	g.fireEvent(GameEvent{Type: EventGameEnd, Payload: payload})
	if g.Started {
		g.broadcastSyncStateToAll()
	}

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, g.result(reason))
	}
}

// SyncState returns the session as seen by playerID.
func (g *HanabiGame) SyncState(playerID uuid.UUID) (SyncState, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.getPlayerByID(playerID) == nil {
		return SyncState{}, ErrPlayerNotFound
	}
	return g.buildSyncState(playerID), nil
}

// MarkConnected records whether playerID has a live connection. A player
// who connects is sent their sync state.
func (g *HanabiGame) MarkConnected(playerID uuid.UUID, connected bool) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	p := g.getPlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Connected = connected
	g.log.WithFields(logrus.Fields{"player": p.Name, "connected": connected}).Debug("Connection changed.")
	if connected {
		g.sendSyncState(playerID)
	}
	return nil
}

// IsAdmin reports whether playerID created this session.
func (g *HanabiGame) IsAdmin(playerID uuid.UUID) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Admin != nil && g.Admin.ID == playerID
}

// Summary is a short public description of a session for listings.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	Players  []string  `json:"players"`
	Started  bool      `json:"started"`
	GameOver bool      `json:"gameOver"`
	TestMode bool      `json:"testMode"`
	Turn     int       `json:"turn"`
	Score    int       `json:"score"`
}

// Summary describes the session.
func (g *HanabiGame) Summary() Summary {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	s := Summary{
		ID:       g.ID,
		Players:  make([]string, len(g.Players)),
		Started:  g.Started,
		GameOver: g.GameOver,
		TestMode: g.TestMode,
	}
	for i, p := range g.Players {
		s.Players[i] = p.Name
	}
	if g.Engine != nil {
		s.Turn = g.Engine.Turn
		s.Score = g.Engine.Score()
	}
	return s
}

// Wait blocks until every pending publication has finished.
func (g *HanabiGame) Wait() {
	g.pending.Wait()
}

// participants are the users who receive private events: the controller
// in test mode, every seat otherwise.
// Assumes lock is held by caller.
func (g *HanabiGame) participants() []*models.Player {
	if g.TestMode && g.Admin != nil {
		return []*models.Player{g.Admin}
	}
	return g.Players
}

// broadcastPlayerTurn announces whose turn it is.
// Assumes lock is held by caller.
func (g *HanabiGame) broadcastPlayerTurn() {
	active := g.playerByName(g.Engine.Active())
	if active == nil {
		return
	}
	g.fireEvent(GameEvent{
		Type:    EventGamePlayerTurn,
		User:    &EventUser{ID: active.ID, Name: active.Name},
		Payload: map[string]interface{}{"turn": g.Engine.Turn},
	})
}

// fireEvent broadcasts an event to all connected players via the BroadcastFn
// callback and mirrors it to the Publisher.
// Assumes lock is held by caller.
func (g *HanabiGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	} else {
		g.log.Warnf("BroadcastFn is nil, cannot broadcast event type %s.", ev.Type)
	}
	g.publishEvent(ev)
}

// fireEventToPlayer sends an event to a specific player via the BroadcastToPlayerFn callback.
// Checks if the player is connected before sending.
// Assumes lock is held by caller.
func (g *HanabiGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		g.log.Warnf("BroadcastToPlayerFn is nil, cannot send private event type %s to player %s.", ev.Type, playerID)
		return
	}
	target := g.getPlayerByID(playerID)
	if target != nil && target.Connected {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// sendSyncState sends playerID their view of the session.
// Assumes lock is held by caller.
func (g *HanabiGame) sendSyncState(playerID uuid.UUID) {
	state := g.buildSyncState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends each connected participant their own view.
// Assumes lock is held by caller.
func (g *HanabiGame) broadcastSyncStateToAll() {
	for _, p := range g.participants() {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

// publishSnapshot mirrors the omniscient board.
// Assumes lock is held by caller.
func (g *HanabiGame) publishSnapshot() {
	if g.Publisher == nil || g.Engine == nil {
		return
	}
	board := g.Engine.View(nil)
	g.publish("snapshot", func(ctx context.Context, pub Publisher) error {
		return pub.PublishSnapshot(ctx, g.ID, board)
	})
}

// publishEvent mirrors a public event.
// Assumes lock is held by caller.
func (g *HanabiGame) publishEvent(ev GameEvent) {
	if g.Publisher == nil {
		return
	}
	g.publish(string(ev.Type), func(ctx context.Context, pub Publisher) error {
		return pub.PublishEvent(ctx, g.ID, ev)
	})
}

// publish runs fn asynchronously with a short timeout.
func (g *HanabiGame) publish(what string, fn func(ctx context.Context, pub Publisher) error) {
	pub := g.Publisher
	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := fn(ctx, pub); err != nil {
			g.log.WithError(err).Warnf("Failed publishing %s.", what)
		}
	}()
}
