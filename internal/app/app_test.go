package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skucheck/internal/config"
	"skucheck/pkg/contracts/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	app, err := NewApplication(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Stop(ctx)
	})
	return app
}

func catalogCSV() string {
	var b strings.Builder
	b.WriteString("EAN;Descripcion;Contenido;Precio KG/LT;NIVEL1\n")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "789%03d;CAIXA 12X1KG;12000;10,00;MERCEARIA\n", i)
	}
	b.WriteString("789011;CAIXA 12X1KG;12000;1000,00;MERCEARIA\n")
	return b.String()
}

func validateRequest(t *testing.T, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "catalogo.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/validate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestNewApplication(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.ValidationService)
	assert.NotNil(t, app.HealthService)
	assert.NotNil(t, app.Metrics)
	require.NotNil(t, app.WebSocketHub)
	assert.True(t, app.WebSocketHub.Running())
	assert.Equal(t, "127.0.0.1:0", app.Server.Addr)

	assert.DirExists(t, app.Paths.ExportsDir)
	assert.DirExists(t, app.Paths.LogsDir)
	assert.True(t, strings.HasPrefix(app.Paths.ExportsDir, cfg.Paths.BaseDir))
}

func TestNewApplicationRequiresConfig(t *testing.T) {
	_, err := NewApplication(nil, testLogger())
	assert.Error(t, err)
}

func TestHealthRoutes(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	for _, path := range []string{"/api/health", "/api/health/live", "/api/health/ready", "/api/version"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestNotFoundIsProblem(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	for _, path := range []string{"/nope", "/api/nope"} {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "/errors/not-found", body["type"])
	}
}

func TestValidateEndToEnd(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, validateRequest(t, catalogCSV()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "catalogo.csv", body["source"])
	assert.EqualValues(t, 11, body["input_rows"])
}

func TestUploadLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Upload.MaxBytes = 64
	app := newTestApp(t, cfg)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, validateRequest(t, catalogCSV()))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	app := newTestApp(t, cfg)

	first := httptest.NewRecorder()
	app.Router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	app.Router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/validate", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	app.Router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), "http_requests")
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricExporter = "none"
	app := newTestApp(t, cfg)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebSocketDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.WebSocket.Enabled = false
	app := newTestApp(t, cfg)

	assert.Nil(t, app.WebSocketHub)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, validateRequest(t, catalogCSV()))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebSocketReceivesRunEvents(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() events.WebSocketMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg events.WebSocketMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	assert.Equal(t, events.MessageTypeConnect, read().Type)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "catalogo.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(catalogCSV()))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/validate", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	runID := resp.Header.Get("X-Run-ID")

	started := read()
	assert.Equal(t, events.MessageTypeRunStarted, started.Type)
	completed := read()
	assert.Equal(t, events.MessageTypeRunCompleted, completed.Type)
	assert.Equal(t, runID, completed.Data.(map[string]interface{})["run_id"])
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.runOn(ctx, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/health/live")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.False(t, app.WebSocketHub.Running())
}

func TestNewApplicationFailsOnUnwritableBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o644))

	cfg := testConfig(t)
	cfg.Paths.BaseDir = base
	_, err := NewApplication(cfg, testLogger())
	assert.Error(t, err)
}
