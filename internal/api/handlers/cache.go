package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/facturacloud/sri-api/internal/services"
	"github.com/facturacloud/sri-api/internal/utils"
)

// CacheHandler handles cache administration requests
type CacheHandler struct {
	cacheService services.CacheServiceInterface
	logger       *logrus.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cacheService services.CacheServiceInterface, logger *logrus.Logger) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
		logger:       logger,
	}
}

// GetStats returns cache statistics
// @Summary Cache statistics
// @Description Report cache backend statistics
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /cache/stats [get]
func (h *CacheHandler) GetStats(c *gin.Context) {
	stats, err := h.cacheService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to get cache stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to retrieve cache statistics",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":     stats,
		"timestamp": time.Now().UTC(),
	})
}

// Clear removes all cached taxpayer records
// @Summary Clear cache
// @Description Remove every cached taxpayer record
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /cache/clear [delete]
func (h *CacheHandler) Clear(c *gin.Context) {
	requestID := c.GetString("request_id")

	if err := h.cacheService.Clear(c.Request.Context()); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to clear cache")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to clear cache",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	h.logger.WithField("request_id", requestID).Info("Cache cleared")

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cache cleared successfully",
		"timestamp": time.Now().UTC(),
	})
}

// Delete evicts the cached record of a single RUC
// @Summary Evict cached record
// @Description Remove the cached taxpayer record of one RUC
// @Tags Cache
// @Produce json
// @Param ruc path string true "13-digit RUC"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /cache/{ruc} [delete]
func (h *CacheHandler) Delete(c *gin.Context) {
	ruc := utils.CleanIdentification(c.Param("ruc"))

	if !utils.ValidateRucBasicFormat(ruc) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "El RUC debe tener 13 dígitos con un formato válido",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	key := services.CacheKey(ruc)
	if err := h.cacheService.Delete(c.Request.Context(), key); err != nil {
		h.logger.WithFields(logrus.Fields{
			"ruc":   ruc,
			"error": err.Error(),
		}).Error("Failed to evict cached record")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to evict cached record",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cached record evicted",
		"ruc":       ruc,
		"cache_key": key,
		"timestamp": time.Now().UTC(),
	})
}
