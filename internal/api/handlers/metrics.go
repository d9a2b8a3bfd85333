package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facturacloud/sri-api/internal/models"
	"github.com/facturacloud/sri-api/internal/services"
)

// MetricsHandler handles metrics requests
type MetricsHandler struct {
	sriService services.SriServiceInterface
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(sriService services.SriServiceInterface) *MetricsHandler {
	return &MetricsHandler{sriService: sriService}
}

// GetMetrics returns request, cache and system metrics
// @Summary Service metrics
// @Description Report lookup counters, cache hit rates and runtime stats
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.MetricsResponse
// @Router /metrics [get]
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	requests, cache := h.sriService.Counters()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	c.JSON(http.StatusOK, models.MetricsResponse{
		Requests: requests,
		Cache:    cache,
		System: models.SystemMetrics{
			MemoryUsageMB: float64(memStats.Alloc) / 1024 / 1024,
			Goroutines:    runtime.NumGoroutine(),
		},
		Timestamp: time.Now().UTC(),
	})
}
