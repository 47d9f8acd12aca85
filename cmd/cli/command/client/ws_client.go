package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"

	ws "georush/internal/microservices/websocket"
)

// ws_client.go = realtime round trip against the /ws endpoint

const wsPath = "/ws"

type WSClient struct {
	url    string
	origin string
	dialer *websocket.Dialer
}

// NewWSClient derives the ws:// (or wss://) URL from the HTTP API URL
func NewWSClient(apiURL, origin string, handshakeTimeout time.Duration) (*WSClient, error) {
	u, err := url.Parse(strings.TrimRight(apiURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported API URL scheme %q", u.Scheme)
	}
	u.Path += wsPath

	return &WSClient{
		url:    u.String(),
		origin: origin,
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}, nil
}

// URL returns the realtime endpoint the client dials
func (c *WSClient) URL() string {
	return c.url
}

// TestResult is what came back for one test event
type TestResult struct {
	Message string
	RTT     time.Duration
}

// SendTest opens a connection, emits one "test" event with payload and waits for "test-response".
// Frames with other event names are skipped.
func (c *WSClient) SendTest(ctx context.Context, payload json.RawMessage) (*TestResult, error) {
	header := http.Header{}
	if c.origin != "" {
		header.Set("Origin", c.origin)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("connection failed: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}

	frame, err := json.Marshal(ws.Envelope{Event: ws.EventTest, Data: payload})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return nil, fmt.Errorf("send test event: %w", err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("waiting for %s: %w", ws.EventTestResponse, err)
		}

		env, err := ws.EnvelopeFromJSON(data)
		if err != nil || env.Event != ws.EventTestResponse {
			continue
		}

		var ack ws.AckPayload
		if err := json.Unmarshal(env.Data, &ack); err != nil {
			return nil, fmt.Errorf("decode %s: %w", ws.EventTestResponse, err)
		}

		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return &TestResult{Message: ack.Message, RTT: time.Since(start)}, nil
	}
}

// ParsePayload accepts any JSON value; anything else is sent as a JSON string
func ParsePayload(raw string) json.RawMessage {
	if raw == "" {
		return nil
	}
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw)
	}
	quoted, _ := json.Marshal(raw)
	return quoted
}

func PrintTestResult(event string, result *TestResult) {
	color.Green("✅ %s: %s", event, result.Message)
	color.HiBlack("   round trip %s", result.RTT.Round(time.Microsecond))
}

func PrintStatusResult(result *StatusResult) {
	color.Cyan("%-10s %d %s", result.Path, result.StatusCode, result.Message)
	if result.AllowOrigin != "" {
		color.HiBlack("           Access-Control-Allow-Origin: %s", result.AllowOrigin)
	}
}

func PrintError(err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		color.Red("❌ connection closed by server (%d %s)", closeErr.Code, closeErr.Text)
		return
	}
	color.Red("❌ %v", err)
}
