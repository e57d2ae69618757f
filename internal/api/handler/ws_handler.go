package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campusconnect/alumni-api/internal/core/ports"
	"github.com/campusconnect/alumni-api/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	// registerDeadline bounds how long a fresh connection may sit idle
	// before announcing itself.
	registerDeadline = 10 * time.Second
	// readDeadline is refreshed on every inbound frame; clients ping well
	// inside it.
	readDeadline = 60 * time.Second
)

// clientEvent is the single client-to-server control event: the session
// announces the identity it wants pushes for.
type clientEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// WSHandler upgrades GET /ws and maintains the session's registry entry for
// its lifetime. The announced id must match the authenticated identity; the
// handshake itself already went through the Auth middleware.
type WSHandler struct {
	registry *realtime.Registry
	presence ports.Presence
	logger   zerolog.Logger
}

func NewWSHandler(registry *realtime.Registry, presence ports.Presence, logger zerolog.Logger) *WSHandler {
	return &WSHandler{registry: registry, presence: presence, logger: logger}
}

func (h *WSHandler) Realtime(c echo.Context) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return err
	}
	defer ws.Close()

	// The session is not routable until it announces itself.
	_ = ws.SetReadDeadline(time.Now().Add(registerDeadline))
	var reg clientEvent
	if err := ws.ReadJSON(&reg); err != nil {
		h.logger.Debug().Err(err).Str("id", self.ID).Msg("no register event received")
		return nil
	}
	if reg.Type != "register" || reg.ID != self.ID {
		h.logger.Warn().Str("id", self.ID).Str("announced", reg.ID).Msg("register event mismatch, closing")
		_ = ws.WriteJSON(map[string]string{"type": "error", "error": "register id mismatch"})
		return nil
	}

	h.registry.Register(self.ID, ws)
	h.markOnline(c.Request().Context(), self.ID)

	defer func() {
		// A displaced conn unregisters as "": a newer session for the same
		// identity owns the presence marker and must not be marked offline.
		if id := h.registry.UnregisterConn(ws); id != "" {
			h.markOffline(id)
		}
	}()

	// Read loop: refreshes deadlines and presence; inbound frames other than
	// the initial register are ignored.
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(readDeadline))
		h.markOnline(c.Request().Context(), self.ID)
		return nil
	})
	_ = ws.SetReadDeadline(time.Now().Add(readDeadline))

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug().Err(err).Str("id", self.ID).Msg("websocket closed unexpectedly")
			}
			return nil
		}
		_ = ws.SetReadDeadline(time.Now().Add(readDeadline))
		h.markOnline(c.Request().Context(), self.ID)
	}
}

func (h *WSHandler) markOnline(ctx context.Context, id string) {
	if h.presence == nil {
		return
	}
	if err := h.presence.MarkOnline(ctx, id); err != nil {
		h.logger.Warn().Err(err).Str("id", id).Msg("presence mark online failed")
	}
}

func (h *WSHandler) markOffline(id string) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.presence.MarkOffline(ctx, id); err != nil {
		h.logger.Warn().Err(err).Str("id", id).Msg("presence mark offline failed")
	}
}
