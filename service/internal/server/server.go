// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/service/internal/auth"
	"github.com/jason-s-yu/hanabi/service/internal/cache"
	"github.com/jason-s-yu/hanabi/service/internal/database"
	"github.com/jason-s-yu/hanabi/service/internal/game"
	"github.com/jason-s-yu/hanabi/service/internal/models"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

// SnapshotSource reads the last board published for a game.
// cache.RedisPublisher implements it.
type SnapshotSource interface {
	Snapshot(ctx context.Context, gameID uuid.UUID) (json.RawMessage, error)
}

// Server exposes the game registry over HTTP and WebSocket.
type Server struct {
	games  *game.Registry
	hub    *Hub
	tokens *auth.Issuer
	store  database.ResultStore // nil disables /results
	log    *logrus.Logger

	// Snapshots, if set, serves GET /games/{id}/snapshot to spectators.
	Snapshots SnapshotSource

	// AllowOrigins lists the origins allowed to open WebSockets. Empty allows any.
	AllowOrigins []string
}

// New creates a server over games and installs the hub on every game it creates.
func New(games *game.Registry, tokens *auth.Issuer, store database.ResultStore, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	hub := NewHub(logger)
	games.Attach = hub.Attach
	return &Server{
		games:  games,
		hub:    hub,
		tokens: tokens,
		store:  store,
		log:    logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("GET /games", s.handleListGames)
	mux.HandleFunc("POST /games/{id}/players", s.handleJoin)
	mux.HandleFunc("POST /games/{id}/deal", s.handleDeal)
	mux.HandleFunc("GET /games/{id}/state", s.handleState)
	mux.HandleFunc("DELETE /games/{id}", s.handleEndGame)
	mux.HandleFunc("GET /games/{id}/ws", s.handleWS)
	mux.HandleFunc("GET /games/{id}/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /results", s.handleResults)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Debug("Request.")
		next.ServeHTTP(w, r)
	})
}

type createGameRequest struct {
	Admin       string            `json:"admin"`
	TestPlayers int               `json:"testPlayers,omitempty"`
	Seed        uint64            `json:"seed,omitempty"`
	HouseRules  engine.HouseRules `json:"houseRules"`
}

type joinRequest struct {
	Name string `json:"name"`
}

// seatResponse is returned to whoever takes a seat, with the token that
// authenticates it.
type seatResponse struct {
	GameID   uuid.UUID `json:"gameId"`
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name"`
	Admin    bool      `json:"admin"`
	Token    string    `json:"token"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g, admin, err := s.games.Create(req.Admin, game.Options{
		Rules:       req.HouseRules,
		Seed:        req.Seed,
		TestPlayers: req.TestPlayers,
	})
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeSeat(w, g.ID, admin)
}

func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.games.List())
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookupGame(w, r)
	if !ok {
		return
	}
	var req joinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := g.AddPlayer(req.Name)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	s.writeSeat(w, g.ID, p)
}

func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	g, seat, ok := s.authorize(w, r)
	if !ok {
		return
	}
	if err := g.Deal(seat.PlayerID); err != nil {
		s.writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	g, seat, ok := s.authorize(w, r)
	if !ok {
		return
	}
	state, err := g.SyncState(seat.PlayerID)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	g, seat, ok := s.authorize(w, r)
	if !ok {
		return
	}
	if !g.IsAdmin(seat.PlayerID) {
		s.writeGameError(w, game.ErrNotAdmin)
		return
	}
	if err := s.games.End(g.ID, "ended by admin"); err != nil {
		s.writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSnapshot returns the omniscient board last published for a game. It
// keeps working after the game ends, until the snapshot expires.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.Snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("snapshots are not published"))
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid game id"))
		return
	}
	board, err := s.Snapshots.Snapshot(r.Context(), id)
	if errors.Is(err, cache.ErrNoSnapshot) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.log.WithError(err).Error("Failed reading snapshot.")
		writeError(w, http.StatusInternalServerError, errors.New("could not read snapshot"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(board)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("results are not stored"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a number"))
			return
		}
		limit = n
	}
	results, err := s.store.RecentResults(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("Failed listing results.")
		writeError(w, http.StatusInternalServerError, errors.New("could not list results"))
		return
	}
	if results == nil {
		results = []models.GameResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// writeSeat issues a token for p and writes it with the seat.
func (s *Server) writeSeat(w http.ResponseWriter, gameID uuid.UUID, p *models.Player) {
	token, err := s.tokens.Issue(auth.Seat{GameID: gameID, PlayerID: p.ID, Admin: p.Admin})
	if err != nil {
		s.log.WithError(err).Error("Failed issuing seat token.")
		writeError(w, http.StatusInternalServerError, errors.New("could not issue token"))
		return
	}
	writeJSON(w, http.StatusCreated, seatResponse{
		GameID:   gameID,
		PlayerID: p.ID,
		Name:     p.Name,
		Admin:    p.Admin,
		Token:    token,
	})
}

// lookupGame resolves the {id} path value to a live game.
func (s *Server) lookupGame(w http.ResponseWriter, r *http.Request) (*game.HanabiGame, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid game id"))
		return nil, false
	}
	g, err := s.games.Get(id)
	if err != nil {
		s.writeGameError(w, err)
		return nil, false
	}
	return g, true
}

// authorize resolves the game and verifies the bearer token (or the token
// query parameter) belongs to a seat in it.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (*game.HanabiGame, auth.Seat, bool) {
	g, ok := s.lookupGame(w, r)
	if !ok {
		return nil, auth.Seat{}, false
	}
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		token = r.URL.Query().Get("token")
	}
	seat, err := s.tokens.Verify(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return nil, auth.Seat{}, false
	}
	if seat.GameID != g.ID {
		writeError(w, http.StatusForbidden, errors.New("token belongs to another game"))
		return nil, auth.Seat{}, false
	}
	return g, seat, true
}

// statusFor maps session and engine errors to HTTP status codes.
func statusFor(err error) int {
	var actionErr *engine.ActionError
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotAdmin), errors.Is(err, game.ErrNotYourTurn):
		return http.StatusForbidden
	case errors.Is(err, game.ErrGameFull), errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrTooFewPlayers), errors.Is(err, game.ErrGameNotStarted),
		errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidName):
		return http.StatusBadRequest
	case errors.As(err, &actionErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("Request failed.")
	}
	writeError(w, status, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
