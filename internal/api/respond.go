package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/relay-core/internal/relay"
)

// User-visible messages. These are part of the HTTP contract: clients match
// on them, so changes here are breaking changes.
const (
	msgUnauthorized   = "Unauthorized - Invalid or missing authorization hash"
	msgInvalidJSON    = "Invalid JSON in request body"
	msgInternalError  = "Internal error: relay actuation failed"
	supportedPinsNote = "Invalid GPIO pin. Supported pins: "
)

// ErrorEnvelope is the JSON body for every error response.
type ErrorEnvelope struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// TriggerEnvelope is the JSON body for a successful actuation.
type TriggerEnvelope struct {
	Status        string  `json:"status"`
	Message       string  `json:"message"`
	GPIOPin       int     `json:"gpio_pin"`
	PulseDuration float64 `json:"pulse_duration"`
	Timestamp     string  `json:"timestamp"`
}

// HealthEnvelope is the JSON body for the health endpoint.
type HealthEnvelope struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// StatusEnvelope is the JSON body for the status endpoint.
type StatusEnvelope struct {
	Status            string  `json:"status"`
	Service           string  `json:"service"`
	SupportedGPIOPins []int   `json:"supported_gpio_pins"`
	PulseDuration     float64 `json:"pulse_duration"`
	Timestamp         string  `json:"timestamp"`
}

// timestamp returns the current time formatted for response envelopes.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes an error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorEnvelope{
		Status:    "error",
		Message:   message,
		Timestamp: timestamp(),
	})
}

// writeUnauthorized writes the 401 authentication-failure envelope.
func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, msgUnauthorized)
}

// writeMalformedBody writes the 400 malformed-JSON envelope.
func writeMalformedBody(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, msgInvalidJSON)
}

// writeUnsupportedPin writes the 400 allow-list-failure envelope, naming the
// pins the service will actuate.
func writeUnsupportedPin(w http.ResponseWriter, supported relay.PinSet) {
	writeError(w, http.StatusBadRequest, supportedPinsNote+supported.String())
}

// writeInternalError writes the 500 hardware-failure envelope. The hardware
// error itself goes to the log, not to the caller.
func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, msgInternalError)
}

// writeTriggerSuccess writes the 200 actuation envelope for an outcome.
func writeTriggerSuccess(w http.ResponseWriter, outcome relay.Outcome) {
	writeJSON(w, http.StatusOK, TriggerEnvelope{
		Status:        "success",
		Message:       "Relay triggered on GPIO " + strconv.Itoa(outcome.GPIOPin),
		GPIOPin:       outcome.GPIOPin,
		PulseDuration: outcome.PulseDuration.Seconds(),
		Timestamp:     outcome.Timestamp.Format(time.RFC3339),
	})
}
