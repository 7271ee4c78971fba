package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
//
// Unknown routes fall through to chi's default 404 handler.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Actuation endpoint. Authentication happens inside the handler, not in
	// middleware: the verifier needs the raw body bytes, and its outcome must
	// take precedence over any body-format error.
	r.Post("/relay/trigger", s.handleRelayTrigger)

	// Read-only endpoints (no auth required)
	r.Get("/system/health", s.handleHealth)
	r.Get("/system/status", s.handleStatus)

	// Read-only actuation event stream (no auth required; carries no secrets)
	r.Get("/ws", s.handleWebSocket)

	return r
}
