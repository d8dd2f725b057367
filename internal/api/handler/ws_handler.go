package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chainlance/marketplace-api/internal/api/metrics"
	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
	"github.com/chainlance/marketplace-api/internal/realtime"
)

// roomCommand is the client-to-server websocket protocol: join or leave a
// conversation room. Server-to-client traffic is realtime.Event.
type roomCommand struct {
	Action         string `json:"action"`
	ConversationID string `json:"conversation_id"`
}

// WSHandler upgrades authenticated clients to a websocket and bridges room
// commands into the hub. Browsers cannot set an Authorization header on a
// websocket, so the access token travels in the token query parameter.
type WSHandler struct {
	hub      *realtime.Hub
	tokens   ports.TokenService
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(hub *realtime.Hub, tokens ports.TokenService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is the reverse proxy's job.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve handles GET /ws?token=<access token>.
func (h *WSHandler) Serve(c echo.Context) error {
	claims, err := h.tokens.VerifyAccess(c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	session := realtime.NewWSSession(conn, h.log)
	metrics.WSConnections.Inc()
	h.log.Debug().Str("session", session.ID()).Str("wallet", claims.Wallet).Msg("websocket connected")

	go session.WriteLoop()
	h.readLoop(conn, session, claims.Wallet)

	h.hub.Disconnect(session)
	session.Close()
	metrics.WSConnections.Dec()
	h.log.Debug().Str("session", session.ID()).Msg("websocket disconnected")
	return nil
}

// readLoop consumes room commands until the client disconnects. A transport
// error is a normal disconnect, not a failure to surface. Pair rooms enforce
// the same membership rule as the history endpoint: joining one you are not a
// participant of is refused, so the push channel never leaks what the pull
// channel denies.
func (h *WSHandler) readLoop(conn *websocket.Conn, session *realtime.WSSession, wallet string) {
	for {
		var cmd roomCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		if cmd.ConversationID == "" {
			continue
		}
		switch cmd.Action {
		case "join":
			if domain.IsPairConversation(cmd.ConversationID) && !domain.PairParticipant(cmd.ConversationID, wallet) {
				session.Send(realtime.Event{Event: "error", Data: "not a conversation participant"})
				continue
			}
			h.hub.Join(session, cmd.ConversationID)
		case "leave":
			h.hub.Leave(session, cmd.ConversationID)
		}
	}
}
