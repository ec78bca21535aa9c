package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/render"
	"github.com/vancomm/sweeper/internal/token"
)

const maxBatchBytes = 64 << 10

var ErrNoToken = errors.New("game token required")

type GameHandler struct {
	log     logrus.FieldLogger
	host    *game.Host
	jwt     *token.JWT
	cookies *config.Cookies
	ws      *config.WebSocket
}

func NewGameHandler(
	log logrus.FieldLogger,
	host *game.Host,
	jwt *token.JWT,
	cookies *config.Cookies,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		log:     log,
		host:    host,
		jwt:     jwt,
		cookies: cookies,
		ws:      ws,
	}
}

// gameID returns the game the request's token was issued for, replying 401
// when there is none.
func (g GameHandler) gameID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := middleware.GameClaims(r.Context())
	if !ok {
		sendJSONOrLog(w, g.log, http.StatusUnauthorized, wrapError(ErrNoToken))
		return uuid.Nil, false
	}
	id, err := claims.GameID()
	if err != nil {
		sendJSONOrLog(w, g.log, http.StatusUnauthorized, wrapError(err))
		return uuid.Nil, false
	}
	return id, true
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseGameParams(r.URL.Query())
	if err != nil {
		badRequest(w, g.log, err)
		return
	}

	snap, err := g.host.NewGame(params)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	tok, expires, err := g.jwt.Sign(snap.GameID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to sign game token")
		return
	}
	if err := g.cookies.Refresh(w, tok, expires); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to set game cookies")
		return
	}

	sendJSONOrLog(w, g.log, http.StatusOK, CreatedGameDTO{
		GameDTO:   NewGameDTO(snap),
		Token:     tok,
		ExpiresAt: expires.UnixMilli(),
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	snap, err := g.host.Snapshot()
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameDTO(snap))
}

func (g GameHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, ok := g.gameID(w, r)
	if !ok {
		return
	}
	p, err := ParsePosition(r.URL.Query())
	if err != nil {
		badRequest(w, g.log, err)
		return
	}
	snap, outcome, err := g.host.Open(id, p)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameDTO(snap).WithOutcome(outcome))
}

func (g GameHandler) Chord(w http.ResponseWriter, r *http.Request) {
	id, ok := g.gameID(w, r)
	if !ok {
		return
	}
	p, err := ParsePosition(r.URL.Query())
	if err != nil {
		badRequest(w, g.log, err)
		return
	}
	snap, outcome, err := g.host.Chord(id, p)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameDTO(snap).WithOutcome(outcome))
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	id, ok := g.gameID(w, r)
	if !ok {
		return
	}
	p, err := ParsePosition(r.URL.Query())
	if err != nil {
		badRequest(w, g.log, err)
		return
	}
	snap, changed, err := g.host.ToggleFlag(id, p)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameDTO(snap).WithFlagged(changed))
}

// Batch runs the command lines in the request body. A malformed command
// yields 400 together with the state reached before it.
func (g GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	id, ok := g.gameID(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBatchBytes))
	if err != nil {
		badRequest(w, g.log, err)
		return
	}
	snap, results, err := g.host.Batch(id, string(body))
	status := http.StatusOK
	var cmdErr *commands.Error
	switch {
	case errors.As(err, &cmdErr):
		status = http.StatusBadRequest
	case err != nil:
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, status, NewBatchDTO(snap, results, err))
}

func (g GameHandler) Text(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("glyphs")
	glyphs, ok := render.ByName(name)
	if !ok {
		badRequest(w, g.log, fmt.Errorf("unknown glyph set %q", name))
		return
	}
	text, err := g.host.Render(glyphs)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}

func (g GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	if snap, err := g.host.Snapshot(); err == nil {
		status["game_id"] = snap.GameID.String()
		status["phase"] = snap.Phase
	}
	sendJSONOrLog(w, g.log, http.StatusOK, status)
}

// ConnectWS upgrades to a websocket on which every text frame is a batch of
// commands, answered with a [BatchDTO].
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, ok := g.gameID(w, r)
	if !ok {
		return
	}
	if _, err := g.host.Snapshot(); err != nil {
		sendError(w, g.log, err)
		return
	}
	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer c.Close()

	log := g.log.WithField("game_id", id)
	log.Debug("websocket connected")
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			log.Debug("closing websocket on non-text frame")
			return
		}
		log.WithField("frame", string(message)).Debug("websocket >")

		snap, results, err := g.host.Batch(id, string(message))
		var cmdErr *commands.Error
		if err != nil && !errors.As(err, &cmdErr) {
			c.WriteJSON(wrapError(err))
			return
		}
		if err := c.WriteJSON(NewBatchDTO(snap, results, err)); err != nil {
			log.WithError(err).Warn("websocket write failed")
			return
		}
	}
}
