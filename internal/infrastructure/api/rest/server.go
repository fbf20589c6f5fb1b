// Package rest is the thin HTTP surface around the session-scoped
// Workflow API: session lifecycle endpoints plus the websocket upgrade
// that streams scheduler output to a connected frontend.
package rest

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/infrastructure/frontend/ws"
	"github.com/dashql/dashql/internal/infrastructure/storage"
	"github.com/dashql/dashql/pkg/workflow"
)

// ServerConfig controls the optional middlewares wrapped around every
// route.
type ServerConfig struct {
	EnableCORS      bool
	EnableRateLimit bool
	RateLimitMax    int
	RateLimitWindow time.Duration
	APIKeys         []string
}

// Server is the HTTP entry point: session CRUD plus a websocket upgrade,
// all backed by a shared workflow.API and ws.Hub.
type Server struct {
	api       *workflow.API
	hub       *ws.Hub
	wsHandler http.Handler
	auth      *ws.JWTAuth
	audit     storage.AuditStore

	mux    *http.ServeMux
	logger zerolog.Logger
	config ServerConfig
}

// NewServer wires api/hub/wsHandler behind the session REST routes. auth
// may be nil, in which case created sessions carry no bearer token and
// the websocket upgrade must use a different Authenticator (e.g.
// ws.NoAuth) for local development. audit may be nil to skip persisting
// task-status transitions.
func NewServer(api *workflow.API, hub *ws.Hub, wsHandler http.Handler, auth *ws.JWTAuth, audit storage.AuditStore, logger zerolog.Logger, cfg ServerConfig) *Server {
	s := &Server{api: api, hub: hub, wsHandler: wsHandler, auth: auth, audit: audit, mux: http.NewServeMux(), logger: logger, config: cfg}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleHealth)

	s.mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	s.mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleReleaseSession)
	s.mux.HandleFunc("POST /api/v1/sessions/{id}/program", s.handleUpdateProgram)
	s.mux.HandleFunc("POST /api/v1/sessions/{id}/inputs/{stmt}", s.handleUpdateInputValue)

	s.mux.Handle("GET /ws", s.wsHandler)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) frontendFor() domain.Frontend {
	wsFrontend := ws.NewFrontend(s.hub)
	if s.audit == nil {
		return wsFrontend
	}
	return &storage.AuditingFrontend{Inner: wsFrontend, Store: s.audit}
}

// ServeHTTP applies the configured middleware stack around the mux, the
// same ordering the teacher's handler chain used: recovery, logging, then
// the optional CORS/rate-limit/auth layers closest to the routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var h http.Handler = s.mux

	if len(s.config.APIKeys) > 0 {
		h = newAuthMiddleware(s.config.APIKeys).middleware(h)
	}
	if s.config.EnableRateLimit {
		h = newRateLimiter(s.config.RateLimitMax, s.config.RateLimitWindow).middleware(h)
	}
	if s.config.EnableCORS {
		h = corsMiddleware(h)
	}
	h = contentTypeMiddleware(h)
	h = loggingMiddleware(s.logger, h)
	h = recoveryMiddleware(s.logger, h)

	h.ServeHTTP(w, r)
}

func domainStatementID(id int) domain.StatementID {
	return domain.StatementID(id)
}

func tokenExpiry() time.Time {
	return time.Now().Add(24 * time.Hour)
}
