// internal/server/ws.go
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/jason-s-yu/hanabi/service/internal/game"
	"github.com/sirupsen/logrus"
)

// pingInterval is how often idle connections are pinged.
const pingInterval = 15 * time.Second

// clientMessage is what a connection sends: one command line.
type clientMessage struct {
	Action string `json:"action"`
}

// handleWS upgrades a seat to a WebSocket. The client first receives its
// sync state, then every event of the game; each message it sends is
// submitted as an action and rejected ones are answered with an error event.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	g, seat, ok := s.authorize(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.originPatterns()})
	if err != nil {
		s.log.WithError(err).Warn("WebSocket accept failed.")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	logger := s.log.WithFields(logrus.Fields{"game": g.ID, "player": seat.PlayerID})

	c := &client{gameID: g.ID, playerID: seat.PlayerID, send: make(chan []byte, sendBuffer)}
	s.hub.register(c)
	defer s.hub.unregister(c)

	if err := g.MarkConnected(seat.PlayerID, true); err != nil {
		_ = conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}
	defer func() { _ = g.MarkConnected(seat.PlayerID, false) }()
	logger.Info("Player connected.")

	go s.writeLoop(ctx, cancel, conn, c)

	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				logger.Info("Player disconnected.")
			} else {
				logger.WithError(err).Debug("Read failed.")
			}
			return
		}
		if err := g.SubmitAction(seat.PlayerID, msg.Action); err != nil {
			s.hub.SendTo(g.ID, seat.PlayerID, game.GameEvent{
				Type:    game.EventError,
				Caption: err.Error(),
				Payload: map[string]interface{}{"action": msg.Action, "status": statusFor(err)},
			})
		}
	}
}

// writeLoop drains the client's queue onto the connection and keeps it alive.
func (s *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, c *client) {
	defer cancel()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "bye")
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}

// originPatterns converts AllowOrigins to the host patterns websocket.Accept expects.
func (s *Server) originPatterns() []string {
	if len(s.AllowOrigins) == 0 {
		return []string{"*"}
	}
	patterns := make([]string, 0, len(s.AllowOrigins))
	for _, o := range s.AllowOrigins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		} else {
			patterns = append(patterns, o)
		}
	}
	return patterns
}
