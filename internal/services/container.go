package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/facturacloud/sri-api/internal/config"
	"github.com/facturacloud/sri-api/internal/sri"
)

// Container holds all service dependencies
type Container struct {
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client

	SriService     SriServiceInterface
	CacheService   CacheServiceInterface
	RegistryClient RegistryClient
}

// NewContainer creates a new service container
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	container.initRedis()
	container.initServices()

	return container, nil
}

// initRedis initializes the Redis client; when Redis is unreachable the cache
// service degrades to its in-memory fallback.
func (c *Container) initRedis() {
	c.redisClient = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", c.config.Redis.Host, c.config.Redis.Port),
		Password:     c.config.Redis.Password,
		DB:           c.config.Redis.DB,
		PoolSize:     c.config.Redis.PoolSize,
		DialTimeout:  c.config.Redis.DialTimeout,
		ReadTimeout:  c.config.Redis.ReadTimeout,
		WriteTimeout: c.config.Redis.WriteTimeout,
	})

	ctx := context.Background()
	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		c.logger.Warn("Redis connection failed, running with in-memory cache only")
		c.redisClient = nil
	} else {
		c.logger.Info("Redis connection established")
	}
}

// initServices initializes all services
func (c *Container) initServices() {
	cacheService := NewCacheService(c.redisClient, c.config.SRI.CacheTTL, c.logger)
	cacheService.StartCleanupRoutine()
	c.CacheService = cacheService

	c.RegistryClient = sri.NewClient(c.config.SRI, c.logger)

	c.SriService = NewSriService(c.config.SRI, c.CacheService, c.RegistryClient, c.logger)
}

// Health aggregates the health of every service in the container
func (c *Container) Health() map[string]interface{} {
	return map[string]interface{}{
		"sri":   c.SriService.Health(),
		"cache": c.CacheService.Health(),
	}
}

// Close releases container resources
func (c *Container) Close() error {
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			return fmt.Errorf("closing redis client: %w", err)
		}
	}

	c.logger.Info("Service container closed")
	return nil
}
