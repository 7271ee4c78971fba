package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/nerrad567/relay-core/internal/auth"
	"github.com/nerrad567/relay-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/relay-core/internal/relay"
)

// handleRelayTrigger actuates a relay pin.
//
// The request pipeline is strictly ordered: authenticate the raw body first,
// then validate the JSON payload, then touch hardware. A request that fails
// authentication is rejected before its body is parsed, so unauthenticated
// callers learn nothing about payload validation and never reach the GPIO
// layer.
func (s *Server) handleRelayTrigger(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		// Body read failures (including MaxBytesReader trips) cannot be
		// authenticated, so they get the same response as a bad signature.
		s.logger.Warn("trigger request body read failed", "error", err)
		writeUnauthorized(w)
		return
	}

	if !auth.Verify(s.secret, rawBody, r.Header.Get("Authorization")) {
		s.logger.Warn("trigger request failed authentication",
			"remote", r.RemoteAddr,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeUnauthorized(w)
		return
	}

	pin, err := relay.ParseTrigger(rawBody, s.pins)
	if err != nil {
		switch {
		case errors.Is(err, relay.ErrMalformedBody):
			writeMalformedBody(w)
		default:
			writeUnsupportedPin(w, s.pins)
		}
		return
	}

	outcome, err := s.controller.Pulse(r.Context(), pin)
	if err != nil {
		s.logger.Error("relay actuation failed",
			"gpio_pin", pin,
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeInternalError(w)
		return
	}

	s.logger.Info("relay triggered",
		"gpio_pin", outcome.GPIOPin,
		"actuation_id", outcome.ID,
		"request_id", r.Context().Value(ctxKeyRequestID),
	)

	writeTriggerSuccess(w, outcome)

	s.announce(outcome)
}

// announce fans the actuation event out to WebSocket clients and, when a
// broker is connected, to MQTT. Delivery is best-effort: the actuation has
// already succeeded and been acknowledged to the caller.
func (s *Server) announce(outcome relay.Outcome) {
	if s.hub != nil {
		s.hub.Broadcast(PulseEvent{
			ActuationID:   outcome.ID,
			GPIOPin:       outcome.GPIOPin,
			PulseDuration: outcome.PulseDuration.Seconds(),
			Timestamp:     outcome.Timestamp,
		})
	}

	if s.mqtt != nil && s.mqtt.IsConnected() {
		payload, err := json.Marshal(map[string]any{
			"actuation_id":   outcome.ID,
			"gpio_pin":       outcome.GPIOPin,
			"pulse_duration": outcome.PulseDuration.Seconds(),
			"timestamp":      outcome.Timestamp.Format(time.RFC3339),
		})
		if err != nil {
			s.logger.Warn("failed to serialise pulse event", "error", err)
			return
		}
		topic := mqtt.Topics{}.PulseEvent(outcome.GPIOPin)
		if err := s.mqtt.PublishEvent(topic, payload); err != nil {
			s.logger.Warn("failed to publish pulse event", "topic", topic, "error", err)
		}
	}
}
