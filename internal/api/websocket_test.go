package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/relay-core/internal/auth"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
	"github.com/nerrad567/relay-core/internal/infrastructure/logging"
)

// dialWS connects a WebSocket client through the full router stack and waits
// until the hub has registered it.
func dialWS(t *testing.T, srv *Server, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v (resp: %+v)", err, resp)
	}
	t.Cleanup(func() { conn.Close() })

	// Registration happens after the upgrade returns; wait for the hub to
	// see the client before broadcasting at it.
	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("hub never registered the client")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

// TestWebSocket_HandshakeThroughRouter upgrades through the complete
// middleware chain. The logging wrapper sits on every response, so the
// upgrade exercises its Hijack delegation.
func TestWebSocket_HandshakeThroughRouter(t *testing.T) {
	srv, _ := testServer(t)
	ts := httptest.NewServer(srv.buildRouter())
	defer ts.Close()

	conn := dialWS(t, srv, ts)

	srv.hub.Broadcast(PulseEvent{
		ActuationID:   "test-actuation",
		GPIOPin:       23,
		PulseDuration: 0.25,
		Timestamp:     time.Now().UTC(),
	})

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast frame: %v", err)
	}

	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if msg.Type != WSTypeEvent {
		t.Errorf("type = %q, want %q", msg.Type, WSTypeEvent)
	}
	if msg.EventType != wsEventPulse {
		t.Errorf("event_type = %q, want %q", msg.EventType, wsEventPulse)
	}
	payload, ok := msg.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T, want object", msg.Payload)
	}
	if pin, _ := payload["gpio_pin"].(float64); pin != 23 {
		t.Errorf("payload gpio_pin = %v, want 23", payload["gpio_pin"])
	}
}

// TestWebSocket_ReceivesTriggerEvent covers the end-to-end path: a signed
// trigger request over HTTP produces one event frame on a connected stream.
func TestWebSocket_ReceivesTriggerEvent(t *testing.T) {
	srv, _ := testServer(t)
	ts := httptest.NewServer(srv.buildRouter())
	defer ts.Close()

	conn := dialWS(t, srv, ts)

	body := []byte(`{"gpio_pin": 23}`)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/relay/trigger", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+auth.Token(testSecret, body))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("trigger request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trigger status = %d, want 200", resp.StatusCode)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading event frame: %v", err)
	}

	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if msg.EventType != wsEventPulse {
		t.Errorf("event_type = %q, want %q", msg.EventType, wsEventPulse)
	}
	payload, ok := msg.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T, want object", msg.Payload)
	}
	if id, _ := payload["actuation_id"].(string); id == "" {
		t.Error("payload missing actuation_id")
	}
	if dur, _ := payload["pulse_duration"].(float64); dur != 0.25 {
		t.Errorf("payload pulse_duration = %v, want 0.25", payload["pulse_duration"])
	}
}

func testHub(t *testing.T) *Hub {
	t.Helper()
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	return NewHub(log)
}

// TestHub_UnregisterCloseOnce verifies the send channel is closed exactly
// once even when Unregister races or repeats.
func TestHub_UnregisterCloseOnce(t *testing.T) {
	hub := testHub(t)
	client := &WSClient{hub: hub, send: make(chan []byte, 1)}

	hub.Register(client)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("ClientCount() = %d, want 1", got)
	}

	hub.Unregister(client)
	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("ClientCount() = %d, want 0", got)
	}

	// A second Unregister must not close the channel again.
	hub.Unregister(client)

	if _, open := <-client.send; open {
		t.Error("send channel still open after Unregister")
	}
}

// TestHub_BroadcastAfterDisconnect verifies a broadcast racing a disconnect
// neither panics nor blocks.
func TestHub_BroadcastAfterDisconnect(t *testing.T) {
	hub := testHub(t)
	connected := &WSClient{hub: hub, send: make(chan []byte, 1)}
	leaving := &WSClient{hub: hub, send: make(chan []byte, 1)}

	hub.Register(connected)
	hub.Register(leaving)
	hub.Unregister(leaving)

	// The leaving client's channel is closed; trySend must absorb that.
	hub.Broadcast(PulseEvent{ActuationID: "x", GPIOPin: 23, PulseDuration: 0.25})

	select {
	case data := <-connected.send:
		if !strings.Contains(string(data), wsEventPulse) {
			t.Errorf("frame = %s, want %s event", data, wsEventPulse)
		}
	default:
		t.Error("connected client received no frame")
	}
}

// TestHub_BroadcastSkipsFullBuffer verifies a slow client cannot block a
// broadcast.
func TestHub_BroadcastSkipsFullBuffer(t *testing.T) {
	hub := testHub(t)
	slow := &WSClient{hub: hub, send: make(chan []byte)} // unbuffered, nobody reading
	hub.Register(slow)

	done := make(chan struct{})
	go func() {
		hub.Broadcast(PulseEvent{ActuationID: "x", GPIOPin: 23, PulseDuration: 0.25})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a slow client")
	}
}
