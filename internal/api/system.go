package api

import (
	"net/http"

	"github.com/nerrad567/relay-core/internal/relay"
)

// handleHealth reports service liveness.
//
// Always returns 200 while the process is serving requests; no authentication
// is required and no hardware is touched.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthEnvelope{
		Status:    "healthy",
		Service:   s.service.Name,
		Timestamp: timestamp(),
	})
}

// handleStatus reports the service's operational parameters: the pin
// allow-list and the pulse duration. Read-only and unauthenticated, so
// clients can discover the contract without holding the secret.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusEnvelope{
		Status:            "running",
		Service:           s.service.Name,
		SupportedGPIOPins: []int(s.pins),
		PulseDuration:     relay.PulseDuration.Seconds(),
		Timestamp:         timestamp(),
	})
}
