package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades incoming HTTP requests to websocket connections and
// registers the resulting Client with a Hub.
type Handler struct {
	hub    *Hub
	auth   Authenticator
	logger zerolog.Logger
}

func NewHandler(hub *Hub, auth Authenticator, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, auth: auth, logger: logger.With().Str("component", "ws_handler").Logger()}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.Authenticate(r)
	if err != nil {
		h.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket authentication failed")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	clientID := uuid.New().String()
	client := NewClient(clientID, userID, h.hub, conn)

	h.logger.Info().Str("client_id", clientID).Str("user_id", userID).Msg("websocket client connected")

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
