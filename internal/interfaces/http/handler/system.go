package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

// SystemHandler serves the info and ping endpoints used by monitoring.
type SystemHandler struct {
	BaseHandler
	appName   string
	env       string
	startTime time.Time
}

// NewSystemHandler creates a SystemHandler reporting the given identity.
func NewSystemHandler(appName, env string) *SystemHandler {
	return &SystemHandler{
		appName:   appName,
		env:       env,
		startTime: time.Now(),
	}
}

// SystemInfoResponse identifies the running instance.
type SystemInfoResponse struct {
	Name      string `json:"name" example:"negoce-backend"`
	Env       string `json:"env" example:"production"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns the instance identity, version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.appName,
		Env:       h.env,
		Version:   apiVersion,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse answers a liveness probe.
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Cheap responsiveness check, no database access
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
