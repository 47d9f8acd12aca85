// Package router assembles the single HTTP handler that serves both the JSON endpoints
// and the realtime upgrade path behind one CORS policy.
package router

import (
	"log/slog"
	"net/http"

	"georush/internal/config"
	"georush/internal/microservices/http-api/handler"
	"georush/internal/microservices/http-api/middleware"
	"georush/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	WSPath      = "/ws"
	MetricsPath = "/metrics"
)

// NewRealtime builds the realtime server with the smoke-test event handlers registered.
func NewRealtime(cfg *config.Config, logger *slog.Logger) *websocket.Server {
	events := websocket.NewEventRouter(logger)
	websocket.RegisterTestHandlers(events, logger)

	return websocket.NewServer(events, websocket.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		PingInterval:   cfg.PingInterval,
		PingTimeout:    cfg.PingTimeout,
		MaxMessageSize: cfg.MaxMessageSize,
	}, logger)
}

// New returns the root handler. The route table is /, /api/test and the upgrade path,
// plus /metrics when enabled; everything else falls through to gin's 404.
func New(cfg *config.Config, logger *slog.Logger, ws *websocket.Server) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
		r.GET(MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	handler.NewStatusHandler().RegisterRoutes(r)
	r.GET(WSPath, websocket.WSHandler(ws))

	return middleware.CORS(cfg.AllowedOrigins())(r)
}
