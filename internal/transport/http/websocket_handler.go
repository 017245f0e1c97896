package http

import (
	"log/slog"
	"net/http"

	ws "stocklens/internal/websocket"
)

// WebSocketHandler upgrades dashboard clients onto the hub.
type WebSocketHandler struct {
	hub    *ws.Hub
	logger *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler.
func NewWebSocketHandler(hub *ws.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger.With(slog.String("handler", "websocket")),
	}
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := ws.ServeWS(h.hub, w, r); err != nil {
		// Upgrade failures already wrote a response; just record them.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()))
	}
}
