package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"skucheck/internal/config"
	apierrors "skucheck/internal/errors"
	"skucheck/internal/infrastructure"
)

// Handler upgrades HTTP requests and attaches the connection to a hub
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	opts     ClientOptions
	logger   *slog.Logger
}

// NewHandler builds the /ws endpoint. Cross-origin upgrades are accepted
// only from allowedOrigins; "*" accepts any origin.
func NewHandler(hub *Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	h := &Handler{
		hub: hub,
		opts: ClientOptions{
			PingPeriod: cfg.PingPeriod,
			PongWait:   cfg.PongWait,
		},
		logger: logger.With(slog.String("component", "websocket.handler")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r, allowedOrigins)
		},
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.logger.WarnContext(r.Context(), "WebSocket upgrade rejected",
				slog.Int("status", status),
				slog.String("error", reason.Error()))
			apierrors.WriteError(w, apierrors.New(status, apierrors.CodeWebSocketUpgrade, reason.Error()))
		},
	}
	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.hub.Running() {
		apierrors.WriteError(w, apierrors.ErrServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied
		return
	}

	client := NewClient(h.hub, newConnectionWrapper(conn), infrastructure.GetTraceID(r.Context()), h.opts, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// originAllowed accepts requests without an Origin header, same-host
// requests, and listed origins
func originAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
