package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nerrad567/relay-core/internal/infrastructure/config"
	"github.com/nerrad567/relay-core/internal/infrastructure/logging"
	"github.com/nerrad567/relay-core/internal/relay"
)

var testSecret = []byte("test-shared-secret")

// testServer creates a Server backed by a FakeLine so no hardware is touched.
func testServer(t *testing.T) (*Server, *relay.FakeLine) {
	t.Helper()

	line := relay.NewFakeLine()
	controller := relay.NewController(line)

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		Service:    config.ServiceConfig{Name: "relay-core"},
		Logger:     log,
		Controller: controller,
		Pins:       relay.PinSet{23, 28},
		Secret:     testSecret,
		Version:    "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests
	srv.hub = NewHub(log)
	go srv.hub.Run(context.Background())

	return srv, line
}

func TestNew_MissingDependencies(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	controller := relay.NewController(relay.NewFakeLine())

	tests := []struct {
		name string
		deps Deps
	}{
		{
			name: "missing logger",
			deps: Deps{Controller: controller, Pins: relay.PinSet{23}, Secret: testSecret},
		},
		{
			name: "missing controller",
			deps: Deps{Logger: log, Pins: relay.PinSet{23}, Secret: testSecret},
		},
		{
			name: "empty pin allow-list",
			deps: Deps{Logger: log, Controller: controller, Secret: testSecret},
		},
		{
			name: "empty secret",
			deps: Deps{Logger: log, Controller: controller, Pins: relay.PinSet{23}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.deps); err == nil {
				t.Error("New() should fail with missing dependency")
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/system/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}

	var body HealthEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health response: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q, want %q", body.Status, "healthy")
	}
	if body.Service != "relay-core" {
		t.Errorf("service = %q, want %q", body.Service, "relay-core")
	}
	if body.Timestamp == "" {
		t.Error("timestamp missing from health response")
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, line := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/system/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status status = %d, want 200", rec.Code)
	}

	var body StatusEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal status response: %v", err)
	}
	if body.Status != "running" {
		t.Errorf("status = %q, want %q", body.Status, "running")
	}
	if len(body.SupportedGPIOPins) != 2 || body.SupportedGPIOPins[0] != 23 || body.SupportedGPIOPins[1] != 28 {
		t.Errorf("supported_gpio_pins = %v, want [23 28]", body.SupportedGPIOPins)
	}
	if body.PulseDuration != 0.25 {
		t.Errorf("pulse_duration = %v, want 0.25", body.PulseDuration)
	}

	// Read-only endpoints never touch hardware.
	if line.TotalOps() != 0 {
		t.Errorf("status endpoint performed %d hardware operations", line.TotalOps())
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/relay/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoint_NoAuthRequired(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	// No Authorization header at all.
	req := httptest.NewRequest(http.MethodGet, "/system/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("health without auth = %d, want 200", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/system/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}

	// Client-supplied IDs are echoed back.
	req = httptest.NewRequest(http.MethodGet, "/system/health", nil)
	req.Header.Set("X-Request-ID", "client-id-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-id-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-id-123")
	}
}
