// Package api implements the HTTP server for Relay Core.
//
// This package provides:
//   - POST /relay/trigger: the authenticated actuation endpoint
//   - GET  /system/health: liveness probe, no auth
//   - GET  /system/status: service configuration snapshot, no auth
//   - GET  /ws: read-only WebSocket stream of actuation events
//   - Middleware stack (request ID, logging, recovery, CORS, body size limit)
//   - TLS support for production deployments
//
// # Request Pipeline
//
// The trigger handler sequences the core pipeline and nothing else:
//
//	authenticate (raw body + shared secret)
//	  → validate (JSON parse + pin allow-list)
//	    → actuate (relay.Controller, exclusive hardware lock)
//	      → respond (outcome → status code + JSON envelope)
//
// Each stage short-circuits on failure. Authentication is evaluated over the
// exact body bytes before any parsing, and hardware is only touched after
// both authentication and validation succeed.
//
// # Security
//
// The trigger endpoint requires a body-HMAC bearer proof (see internal/auth).
// The read-only endpoints expose no secrets and require no authentication.
// Error envelopes never echo internal exception text that could carry
// secret material.
package api
