package websocket

import (
	"encoding/json"
	"log/slog"
)

// RegisterTestHandlers wires the connectivity smoke test: connect and disconnect are logged,
// and every "test" event is answered with a fixed "test-response" to the sender only.
func RegisterTestHandlers(r *EventRouter, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	r.OnConnect(func(c *Client) {
		logger.Info("client_connected",
			"client_id", c.ID,
			"remote_addr", c.RemoteAddr,
		)
	})

	r.On(EventTest, func(c *Client, data json.RawMessage) {
		logger.Info("test_message_received",
			"client_id", c.ID,
			"data", string(data),
		)
		if err := c.Emit(EventTestResponse, AckPayload{Message: TestAckMessage}); err != nil {
			logger.Warn("test_response_failed",
				"client_id", c.ID,
				"error", err,
			)
		}
	})

	r.OnDisconnect(func(c *Client, reason error) {
		attrs := []any{"client_id", c.ID}
		if reason != nil {
			attrs = append(attrs, "reason", reason.Error())
		}
		logger.Info("client_disconnected", attrs...)
	})
}
