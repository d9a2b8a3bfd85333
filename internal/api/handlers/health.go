package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/facturacloud/sri-api/internal/models"
	"github.com/facturacloud/sri-api/internal/services"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *services.Container
	logger    *logrus.Logger
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *services.Container, logger *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		container: container,
		logger:    logger,
		startTime: time.Now(),
		version:   version,
	}
}

// GetHealth performs a comprehensive health check
// @Summary Health check
// @Description Report the health of the API and its dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *gin.Context) {
	now := time.Now()
	servicesHealth := h.container.Health()

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Version:   h.version,
		Services:  make(map[string]models.ServiceInfo),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	for name, health := range servicesHealth {
		info := models.ServiceInfo{
			Status:    "healthy",
			LastCheck: now.UTC(),
		}

		if m, ok := health.(map[string]interface{}); ok {
			if status, ok := m["status"].(string); ok && status != "healthy" {
				info.Status = status
				response.Status = "degraded"
			}
			if errMsg, ok := m["error"].(string); ok {
				info.Error = errMsg
			}
		}

		response.Services[name] = info
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}

// GetReadiness checks whether the service can reach its dependencies
// @Summary Readiness check
// @Description Report whether the API is ready to serve lookups
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/ready [get]
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	ctx := c.Request.Context()

	registryStatus, err := h.container.RegistryClient.Status(ctx)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Registry status probe failed")
		registryStatus = "unknown"
	}

	ready := registryStatus != "degraded"

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"ready":           ready,
		"registry_status": registryStatus,
		"timestamp":       time.Now().UTC(),
	})
}

// GetLiveness reports that the process is running
// @Summary Liveness check
// @Description Report that the API process is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/live [get]
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	})
}
