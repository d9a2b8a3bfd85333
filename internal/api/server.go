package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/facturacloud/sri-api/docs"
	"github.com/facturacloud/sri-api/internal/api/handlers"
	"github.com/facturacloud/sri-api/internal/api/middleware"
	"github.com/facturacloud/sri-api/internal/config"
	"github.com/facturacloud/sri-api/internal/services"
)

// Version is the API version reported by health and info endpoints.
const Version = "1.0.0"

// Server wraps the gin engine with its dependencies
type Server struct {
	config    *config.Config
	logger    *logrus.Logger
	container *services.Container
	router    *gin.Engine
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, logger *logrus.Logger, container *services.Container) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		config:    cfg,
		logger:    logger,
		container: container,
		router:    gin.New(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// Router exposes the underlying handler for the HTTP server
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.CORS(s.config.Security.CORS))
	s.router.Use(middleware.Security())

	rateLimiter := middleware.NewRateLimiter(s.config.Security.RateLimit)
	s.router.Use(rateLimiter.Middleware())
}

func (s *Server) setupRoutes() {
	sriHandler := handlers.NewSriHandler(s.container.SriService, s.logger)
	cacheHandler := handlers.NewCacheHandler(s.container.CacheService, s.logger)
	healthHandler := handlers.NewHealthHandler(s.container, s.logger, Version)
	metricsHandler := handlers.NewMetricsHandler(s.container.SriService)

	health := s.router.Group("/health")
	{
		health.GET("", healthHandler.GetHealth)
		health.GET("/ready", healthHandler.GetReadiness)
		health.GET("/live", healthHandler.GetLiveness)
	}

	s.router.GET("/metrics", metricsHandler.GetMetrics)

	v1 := s.router.Group("/api/v1")
	{
		sris := v1.Group("/sris")
		{
			sris.POST("/search", sriHandler.Search)
			sris.POST("/search-batch", sriHandler.SearchBatch)
			sris.GET("/info", sriHandler.Info)
		}

		cache := v1.Group("/cache")
		{
			cache.GET("/stats", cacheHandler.GetStats)
			cache.DELETE("/clear", cacheHandler.Clear)
			cache.DELETE("/:ruc", cacheHandler.Delete)
		}
	}

	if s.config.Server.Environment != "production" {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": "The requested resource does not exist",
			"path":    c.Request.URL.Path,
		})
	})

	s.router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method not allowed",
			"message": "The requested method is not allowed for this resource",
		})
	})
}
