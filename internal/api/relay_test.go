package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nerrad567/relay-core/internal/auth"
	"github.com/nerrad567/relay-core/internal/relay"
)

// triggerRequest builds a POST /relay/trigger request with a valid signature
// over the given body.
func triggerRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/relay/trigger", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+auth.Token(testSecret, []byte(body)))
	return req
}

func TestTrigger_Success(t *testing.T) {
	srv, line := testServer(t)
	router := srv.buildRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, triggerRequest(t, `{"gpio_pin": 23}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("trigger status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var body TriggerEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal trigger response: %v", err)
	}
	if body.Status != "success" {
		t.Errorf("status = %q, want %q", body.Status, "success")
	}
	if body.GPIOPin != 23 {
		t.Errorf("gpio_pin = %d, want 23", body.GPIOPin)
	}
	if body.PulseDuration != 0.25 {
		t.Errorf("pulse_duration = %v, want 0.25", body.PulseDuration)
	}
	if !strings.Contains(body.Message, "GPIO 23") {
		t.Errorf("message = %q, want mention of GPIO 23", body.Message)
	}

	// Full actuation cycle: configure, assert, deassert, release.
	ops := line.Ops()
	if len(ops) != 4 {
		t.Fatalf("hardware ops = %d, want 4 (%v)", len(ops), ops)
	}
	wantSeq := []string{relay.OpConfigure, relay.OpAssert, relay.OpDeassert, relay.OpRelease}
	for i, want := range wantSeq {
		if ops[i].Name != want {
			t.Errorf("op[%d] = %q, want %q", i, ops[i].Name, want)
		}
	}
	if !line.IsIdle() {
		t.Error("line not released after successful trigger")
	}
}

func TestTrigger_MissingAuthorization(t *testing.T) {
	srv, line := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/relay/trigger", strings.NewReader(`{"gpio_pin": 23}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var body ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if body.Status != "error" {
		t.Errorf("status = %q, want %q", body.Status, "error")
	}
	if !strings.Contains(body.Message, "authorization") {
		t.Errorf("message = %q, want mention of authorization", body.Message)
	}

	// An unauthenticated request must never reach the hardware layer.
	if line.TotalOps() != 0 {
		t.Errorf("unauthenticated request performed %d hardware operations", line.TotalOps())
	}
}

func TestTrigger_AuthAnomalies(t *testing.T) {
	body := `{"gpio_pin": 23}`
	validToken := auth.Token(testSecret, []byte(body))

	tests := []struct {
		name   string
		header string
	}{
		{"empty header", ""},
		{"wrong scheme", "Basic " + validToken},
		{"lowercase scheme", "bearer " + validToken},
		{"no space after scheme", "Bearer" + validToken},
		{"non-hex token", "Bearer not-a-hex-string"},
		{"truncated token", "Bearer " + validToken[:32]},
		{"wrong token", "Bearer " + auth.Token([]byte("other-secret"), []byte(body))},
		{"token for different body", "Bearer " + auth.Token(testSecret, []byte(`{"gpio_pin": 28}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, line := testServer(t)
			router := srv.buildRouter()

			req := httptest.NewRequest(http.MethodPost, "/relay/trigger", strings.NewReader(body))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if line.TotalOps() != 0 {
				t.Errorf("request performed %d hardware operations", line.TotalOps())
			}
		})
	}
}

func TestTrigger_MalformedJSONWithValidAuth(t *testing.T) {
	srv, line := testServer(t)
	router := srv.buildRouter()

	// The signature covers the raw bytes, so a correctly signed malformed
	// body passes authentication and fails at the parse step.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, triggerRequest(t, `{"gpio_pin": `))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if body.Message != "Invalid JSON in request body" {
		t.Errorf("message = %q, want %q", body.Message, "Invalid JSON in request body")
	}
	if line.TotalOps() != 0 {
		t.Errorf("malformed request performed %d hardware operations", line.TotalOps())
	}
}

func TestTrigger_UnsupportedPin(t *testing.T) {
	srv, line := testServer(t)
	router := srv.buildRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, triggerRequest(t, `{"gpio_pin": 99}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if !strings.Contains(body.Message, "[23, 28]") {
		t.Errorf("message = %q, want supported pin list", body.Message)
	}
	if line.TotalOps() != 0 {
		t.Errorf("unsupported-pin request performed %d hardware operations", line.TotalOps())
	}
}

func TestTrigger_HardwareFailure(t *testing.T) {
	srv, line := testServer(t)
	router := srv.buildRouter()

	driverErr := errors.New("line busy")
	line.FailAssert = driverErr

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, triggerRequest(t, `{"gpio_pin": 23}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if body.Message != "Internal error: relay actuation failed" {
		t.Errorf("message = %q, want generic internal error", body.Message)
	}
	// The response must not leak driver details.
	if strings.Contains(rec.Body.String(), driverErr.Error()) {
		t.Error("response leaked driver error text")
	}

	// Cleanup still ran: the line is released and back to idle.
	if line.Count(relay.OpRelease) != 1 {
		t.Errorf("release count = %d, want 1", line.Count(relay.OpRelease))
	}
	if !line.IsIdle() {
		t.Error("line not idle after hardware failure")
	}
}

func TestTrigger_WrongMethod(t *testing.T) {
	srv, line := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/relay/trigger", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if line.TotalOps() != 0 {
		t.Errorf("GET request performed %d hardware operations", line.TotalOps())
	}
}
