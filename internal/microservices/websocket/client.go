package websocket

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"georush/internal/metrics"
)

// Individual client connection handler

const (
	WriteWait        = 10 * time.Second // max time to write a frame to the peer
	CloseGracePeriod = time.Second      // how long to wait for the peer's close reply on shutdown
	SendBufferSize   = 256              // outbound frames queued per connection
)

var (
	ErrConnectionClosed = errors.New("connection is closed")
	errServerShutdown   = errors.New("server shutting down")
)

// State of a single connection. Disconnected is terminal.
type State int32

const (
	StateConnected State = iota
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

type Client struct {
	ID         string          // session id, unique for the connection's lifetime
	RemoteAddr string          // peer address as seen by the listener
	conn       *websocket.Conn // underlying WebSocket connection
	send       chan []byte     // outbound frames, drained by WritePump
	server     *Server         // owning server, for options, router and shutdown signal
	state      atomic.Int32
	closed     chan struct{} // closed once the connection is Disconnected
	closeOnce  sync.Once
	logger     *slog.Logger
}

// constructor new client
func NewClient(conn *websocket.Conn, server *Server, remoteAddr string) *Client {
	id := uuid.NewString()
	c := &Client{
		ID:         id,
		RemoteAddr: remoteAddr,
		conn:       conn,
		send:       make(chan []byte, SendBufferSize),
		server:     server,
		closed:     make(chan struct{}),
		logger:     server.logger.With("client_id", id),
	}
	c.state.Store(int32(StateConnected))
	return c
}

// State returns the current connection state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Done is closed when the connection reaches Disconnected.
func (c *Client) Done() <-chan struct{} {
	return c.closed
}

// Emit queues event with data for this connection only.
// A full send queue blocks the caller until the write pump catches up or the connection closes.
func (c *Client) Emit(event string, data any) error {
	env, err := NewEnvelope(event, data)
	if err != nil {
		return err
	}
	frame, err := env.ToJSON()
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- frame:
		metrics.WSEventsSent.WithLabelValues(event).Inc()
		return nil
	case <-c.closed:
		return ErrConnectionClosed
	}
}

// run drives the connection from accept to Disconnected.
func (c *Client) run() {
	c.server.router.connected(c)

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		c.WritePump()
	}()

	c.ReadPump()
	<-writeDone
}

// ReadPump reads frames until the transport fails, dispatching them in arrival order.
func (c *Client) ReadPump() {
	var reason error
	defer func() {
		c.disconnect(reason)
	}()

	pongWait := c.server.opts.PingInterval + c.server.opts.PingTimeout
	c.conn.SetReadLimit(c.server.opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			reason = err
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				c.logger.Warn("unexpected_read_error", "error", err)
			} else {
				c.logger.Debug("read_loop_finished", "error", err)
			}
			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.server.router.Dispatch(c, frame)
	}
}

// WritePump drains the send queue and keeps the peer alive with pings.
// Once it stops nothing drains the queue, so it always finishes the Disconnected transition.
func (c *Client) WritePump() {
	var reason error
	ticker := time.NewTicker(c.server.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.disconnect(reason)
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("write_failed", "error", err)
				reason = err
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping_failed", "error", err)
				reason = err
				return
			}

		case <-c.closed:
			return

		case <-c.server.quit:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(WriteWait))
			select {
			case <-c.closed:
			case <-time.After(CloseGracePeriod):
				reason = errServerShutdown
			}
			return
		}
	}
}

// disconnect performs the one-way Connected -> Disconnected transition.
func (c *Client) disconnect(reason error) {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateDisconnected))
		close(c.closed)
		_ = c.conn.Close()
		c.server.router.disconnected(c, reason)
	})
}
