package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skucheck/internal/config"
	"skucheck/pkg/contracts/events"
)

func newTestServer(t *testing.T, hub *Hub, origins ...string) *httptest.Server {
	t.Helper()
	h := NewHandler(hub, config.Default().WebSocket, origins, testLogger())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readMessage(t *testing.T, conn *websocket.Conn) events.WebSocketMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg events.WebSocketMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandlerStreamsRunEvents(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	srv := newTestServer(t, hub)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, events.MessageTypeConnect, readMessage(t, conn).Type)

	hub.Publish(events.NewMessage(events.MessageTypeRunStarted, "", events.RunEvent{
		RunID:  "run-42",
		Status: events.RunStatusRunning,
	}))

	msg := readMessage(t, conn)
	assert.Equal(t, events.MessageTypeRunStarted, msg.Type)
	assert.Equal(t, "run-42", msg.Data.(map[string]interface{})["run_id"])
}

func TestHandlerRejectsForeignOrigin(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Start()
	defer hub.Stop()

	srv := newTestServer(t, hub, "http://localhost:8080")

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestHandlerHubNotRunning(t *testing.T) {
	srv := newTestServer(t, NewHub(testLogger()))

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"no origin", "", nil, true},
		{"same host", "http://example.com", nil, true},
		{"listed", "http://localhost:8080", []string{"http://localhost:8080"}, true},
		{"wildcard", "http://anything.test", []string{"*"}, true},
		{"foreign", "http://evil.example", []string{"http://localhost:8080"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://example.com/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originAllowed(r, tt.allowed))
		})
	}
}
