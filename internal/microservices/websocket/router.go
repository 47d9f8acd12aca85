package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"georush/internal/metrics"
)

// HandlerFunc handles one named event for one connection.
// data is the raw payload exactly as the peer sent it, nil when absent.
type HandlerFunc func(c *Client, data json.RawMessage)

// ConnectHook runs once, right after a connection is accepted.
type ConnectHook func(c *Client)

// DisconnectHook runs once, after the connection reached Disconnected.
type DisconnectHook func(c *Client, reason error)

// EventRouter maps event names to handlers, plus connect and disconnect hooks.
// Register everything before the server starts accepting connections.
type EventRouter struct {
	mu           sync.RWMutex
	handlers     map[string]HandlerFunc
	onConnect    []ConnectHook
	onDisconnect []DisconnectHook
	logger       *slog.Logger
}

func NewEventRouter(logger *slog.Logger) *EventRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventRouter{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// On registers h for event, replacing any previous handler.
func (r *EventRouter) On(event string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[event] = h
}

func (r *EventRouter) OnConnect(h ConnectHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onConnect = append(r.onConnect, h)
}

func (r *EventRouter) OnDisconnect(h DisconnectHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDisconnect = append(r.onDisconnect, h)
}

// Dispatch decodes one frame and runs the matching handler.
// Malformed frames and unknown events are dropped; it reports whether a handler ran.
func (r *EventRouter) Dispatch(c *Client, frame []byte) bool {
	env, err := EnvelopeFromJSON(frame)
	if err != nil {
		metrics.WSEventsReceived.WithLabelValues("malformed").Inc()
		r.logger.Debug("malformed_frame_ignored",
			"client_id", c.ID,
			"error", err,
		)
		return false
	}

	r.mu.RLock()
	h, ok := r.handlers[env.Event]
	r.mu.RUnlock()

	if !ok {
		metrics.WSEventsReceived.WithLabelValues("unknown").Inc()
		r.logger.Debug("unknown_event_ignored",
			"client_id", c.ID,
			"event", env.Event,
		)
		return false
	}

	metrics.WSEventsReceived.WithLabelValues(env.Event).Inc()
	h(c, env.Data)
	return true
}

func (r *EventRouter) connected(c *Client) {
	r.mu.RLock()
	hooks := append([]ConnectHook(nil), r.onConnect...)
	r.mu.RUnlock()
	for _, h := range hooks {
		h(c)
	}
}

func (r *EventRouter) disconnected(c *Client, reason error) {
	r.mu.RLock()
	hooks := append([]DisconnectHook(nil), r.onDisconnect...)
	r.mu.RUnlock()
	for _, h := range hooks {
		h(c, reason)
	}
}
