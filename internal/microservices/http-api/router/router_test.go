package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"georush/internal/config"
	"georush/internal/microservices/http-api/handler"
	"georush/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := discardLogger()
	ws := NewRealtime(cfg, logger)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = ws.Stop(ctx)
	})
	return New(cfg, logger, ws)
}

func get(h http.Handler, target, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStaticEndpoints(t *testing.T) {
	h := newHandler(t, config.Default())

	w := get(h, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"`+handler.RunningBanner+`"}`, w.Body.String())

	w = get(h, "/api/test", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"`+handler.TestSuccessBanner+`"}`, w.Body.String())

	w = get(h, "/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	h := newHandler(t, config.Default())

	w := get(h, "/api/test", "http://localhost:3000")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_MismatchedOriginGetsNoGrant(t *testing.T) {
	h := newHandler(t, config.Default())

	w := get(h, "/", "http://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ConfiguredClientURL(t *testing.T) {
	cfg := config.Default()
	cfg.ClientURL = "https://play.georush.example"
	h := newHandler(t, cfg)

	w := get(h, "/", "https://play.georush.example")
	assert.Equal(t, "https://play.georush.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(h, "/", "http://localhost:3000")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	h := newHandler(t, config.Default())

	req := httptest.NewRequest(http.MethodOptions, "/api/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodGet, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		h := newHandler(t, config.Default())
		assert.Equal(t, http.StatusNotFound, get(h, MetricsPath, "").Code)
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.MetricsEnabled = true
		h := newHandler(t, cfg)

		get(h, "/api/test", "")
		w := get(h, MetricsPath, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "georush_http_requests_total")
		assert.Contains(t, w.Body.String(), `route="/api/test"`)
	})
}

func dialWS(t *testing.T, base, origin string) *gorilla.Conn {
	t.Helper()
	header := http.Header{}
	header.Set("Origin", origin)
	conn, resp, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(base, "http")+WSPath, header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

// Two simultaneous connections on one listener: only the sender gets the acknowledgement.
func TestEndToEnd_TestEventReachesOnlySender(t *testing.T) {
	ts := httptest.NewServer(newHandler(t, config.Default()))
	defer ts.Close()

	a := dialWS(t, ts.URL, "http://localhost:3000")
	b := dialWS(t, ts.URL, "http://localhost:3000")

	require.NoError(t, a.WriteMessage(gorilla.TextMessage, []byte(`{"event":"test","data":{"foo":1}}`)))

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := a.ReadMessage()
	require.NoError(t, err)

	var env websocket.Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, websocket.EventTestResponse, env.Event)
	assert.JSONEq(t, `{"message":"테스트 응답!"}`, string(env.Data))

	require.NoError(t, b.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, frame, err = b.ReadMessage()
	require.Error(t, err, "B must not receive anything, got %s", frame)
	var netErr net.Error
	assert.True(t, errors.As(err, &netErr) && netErr.Timeout())

	// HTTP keeps working on the same listener
	resp, err := http.Get(ts.URL + "/api/test")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEndToEnd_MismatchedOriginHandshakeRejected(t *testing.T) {
	ts := httptest.NewServer(newHandler(t, config.Default()))
	defer ts.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.example.com")
	_, resp, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+WSPath, header)
	require.ErrorIs(t, err, gorilla.ErrBadHandshake)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
