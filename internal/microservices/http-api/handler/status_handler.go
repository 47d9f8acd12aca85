package handler

import (
	"net/http"

	"georush/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

const (
	RunningBanner     = "GeoRush API 서버가 실행 중입니다!"
	TestSuccessBanner = "API 테스트 성공!"
)

// StatusHandler serves the fixed smoke-test endpoints. It reads nothing from the request.
type StatusHandler struct{}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

func (h *StatusHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/api/test", h.APITest)
}

// Root: GET / => running banner
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: RunningBanner})
}

// APITest: GET /api/test => test-success banner
func (h *StatusHandler) APITest(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: TestSuccessBanner})
}
