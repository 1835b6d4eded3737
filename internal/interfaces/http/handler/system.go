package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logiport/backend/internal/interfaces/http/dto"
	"github.com/logiport/backend/internal/interfaces/http/router"
)

// Version is the API version reported by /system/info
const Version = "1.0.0"

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	ping      func(ctx context.Context) error
	routes    func() []router.RouteInfo
}

// SystemOption configures a SystemHandler
type SystemOption func(*SystemHandler)

// WithDatabasePing makes /system/health check the store with ping
func WithDatabasePing(ping func(ctx context.Context) error) SystemOption {
	return func(h *SystemHandler) { h.ping = ping }
}

// WithRoutes makes /system/routes list the registered endpoints
func WithRoutes(routes func() []router.RouteInfo) SystemOption {
	return func(h *SystemHandler) { h.routes = routes }
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(opts ...SystemOption) *SystemHandler {
	h := &SystemHandler{startTime: time.Now()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Logiport Document Service"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Logiport Document Service",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// HealthResponse reports dependency health
// @name HandlerHealthResponse
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}

// Health godoc
// @ID           getSystemHealth
// @Summary      Check service health
// @Description  Pings the database; answers 503 when it is unreachable
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} ErrorResponse
// @Router       /system/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	if h.ping == nil {
		h.Success(c, HealthResponse{Status: "ok", Database: "unchecked"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.ping(ctx); err != nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "database unreachable: "+err.Error())
		return
	}
	h.Success(c, HealthResponse{Status: "ok", Database: "ok"})
}

// Routes godoc
// @ID           listSystemRoutes
// @Summary      List API routes
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[[]router.RouteInfo]
// @Router       /system/routes [get]
func (h *SystemHandler) Routes(c *gin.Context) {
	if h.routes == nil {
		h.Success(c, []router.RouteInfo{})
		return
	}
	h.Success(c, h.routes())
}
