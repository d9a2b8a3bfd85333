package services

import (
	"context"

	"github.com/facturacloud/sri-api/internal/models"
	"github.com/facturacloud/sri-api/internal/sri"
)

// SriServiceInterface defines the interface for the taxpayer lookup gateway
type SriServiceInterface interface {
	// Search retrieves taxpayer information for a validated 13-digit RUC,
	// serving from cache when fresh and from the registry otherwise
	Search(ctx context.Context, identification string) (*models.SearchResult, error)

	// SearchBatch retrieves taxpayer information for multiple RUCs with
	// bounded concurrency
	SearchBatch(ctx context.Context, identifications []string) ([]models.BatchSearchResult, error)

	// Counters returns request/cache counters collected since start
	Counters() (models.RequestsMetrics, models.CacheMetrics)

	// Health returns service health status
	Health() map[string]interface{}
}

// CacheServiceInterface defines the interface for cache service
type CacheServiceInterface interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value string) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear clears all cache entries
	Clear(ctx context.Context) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// GetStats returns cache statistics
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Health returns cache service health status
	Health() map[string]interface{}
}

// RegistryClient is the outbound port to the SRI registry. The HTTP client in
// internal/sri implements it; tests substitute a stub.
type RegistryClient interface {
	// FetchRuc retrieves raw registry data for a RUC
	FetchRuc(ctx context.Context, identification string) (*sri.RucData, error)

	// Status probes the registry's advertised availability
	Status(ctx context.Context) (string, error)
}
