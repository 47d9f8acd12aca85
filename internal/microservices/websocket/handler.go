package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"georush/internal/metrics"
)

// HTTP upgrade handler and lifecycle of all realtime connections

// Options tune the transport; zero values fall back to the defaults below.
type Options struct {
	AllowedOrigins []string
	PingInterval   time.Duration
	PingTimeout    time.Duration
	MaxMessageSize int64
}

const (
	DefaultPingInterval   = 25 * time.Second
	DefaultPingTimeout    = 20 * time.Second
	DefaultMaxMessageSize = 1_000_000
)

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = DefaultPingInterval
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = DefaultPingTimeout
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = DefaultMaxMessageSize
	}
	return o
}

// Server upgrades HTTP requests and owns the goroutines of every live connection.
// It keeps no registry of clients; connections only share the shutdown signal.
type Server struct {
	router   *EventRouter
	origins  *OriginPolicy
	opts     Options
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.Mutex
	stopped  bool
	quit     chan struct{} // closed by Stop, every write pump listens on it
	wg       sync.WaitGroup
	active   atomic.Int64
	accepted atomic.Int64
}

// constructor for Server
func NewServer(router *EventRouter, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()

	s := &Server{
		router:  router,
		origins: NewOriginPolicy(opts.AllowedOrigins),
		opts:    opts,
		logger:  logger,
		quit:    make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.origins.Allowed(r) {
		return true
	}
	metrics.WSRejectedTotal.WithLabelValues("origin").Inc()
	s.logger.Warn("origin_blocked",
		"origin", r.Header.Get("Origin"),
		"remote_addr", r.RemoteAddr,
	)
	return false
}

// ServeHTTP upgrades the request and starts the connection's pumps.
// Rejected handshakes are answered by the upgrader itself.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.origins.Allowed(r) {
			metrics.WSRejectedTotal.WithLabelValues("handshake").Inc()
		}
		s.logger.Debug("websocket_upgrade_failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(WriteWait))
		_ = conn.Close()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	client := NewClient(conn, s, r.RemoteAddr)
	s.active.Add(1)
	s.accepted.Add(1)
	metrics.WSConnectionsActive.Inc()
	metrics.WSConnectionsTotal.Inc()

	go func() {
		defer s.wg.Done()
		defer func() {
			s.active.Add(-1)
			metrics.WSConnectionsActive.Dec()
		}()
		client.run()
	}()
}

// WSHandler: gin adapter for the upgrade endpoint
func WSHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.ServeHTTP(c.Writer, c.Request)
	}
}

// ActiveConnections returns the number of connections not yet Disconnected.
func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

// AcceptedConnections returns how many connections were ever accepted.
func (s *Server) AcceptedConnections() int64 {
	return s.accepted.Load()
}

// Stop refuses new upgrades, sends a going-away close to every live connection and
// waits for their goroutines until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.quit)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("realtime_server_stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("realtime_server_stop_timed_out", "active", s.active.Load())
		return ctx.Err()
	}
}
