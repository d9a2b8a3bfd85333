package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturacloud/sri-api/internal/config"
	"github.com/facturacloud/sri-api/internal/sri"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubRegistry is a RegistryClient double counting upstream calls.
type stubRegistry struct {
	mu     sync.Mutex
	calls  int
	fetch  func(ctx context.Context, identification string) (*sri.RucData, error)
	status string
}

func (s *stubRegistry) FetchRuc(ctx context.Context, identification string) (*sri.RucData, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fetch(ctx, identification)
}

func (s *stubRegistry) Status(ctx context.Context) (string, error) {
	if s.status == "" {
		return "operational", nil
	}
	return s.status, nil
}

func (s *stubRegistry) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func strPtr(s string) *string { return &s }

func registryPayload(ruc string) *sri.RucData {
	return &sri.RucData{
		NumeroRuc:                  strPtr(ruc),
		RazonSocial:                strPtr("ACME DEL ECUADOR S.A."),
		EstadoContribuyenteRuc:     strPtr("ACTIVO"),
		TipoContribuyente:          strPtr("SOCIEDAD"),
		Regimen:                    strPtr("GENERAL"),
		ObligadoLlevarContabilidad: strPtr("SI"),
		AgenteRetencion:            strPtr("NO"),
		ContribuyenteEspecial:      strPtr("NO"),
		ContribuyenteFantasma:      strPtr("NO"),
		TransaccionesInexistente:   strPtr("NO"),
		InformacionFechasContribuyente: &sri.FechasContribuyente{
			FechaInicioActividades: strPtr("2015-03-18"),
			FechaActualizacion:     strPtr("2024-01-09"),
		},
		Establecimientos: []sri.EstablecimientoData{
			{
				NumeroEstablecimiento:    strPtr("001"),
				UbicacionEstablecimiento: strPtr("PICHINCHA / QUITO / IÑAQUITO"),
				Estado:                   strPtr("ABIERTO"),
				Provincia:                strPtr("PICHINCHA"),
				Canton:                   strPtr("QUITO"),
				Parroquia:                strPtr("IÑAQUITO"),
				Matriz:                   strPtr("SI"),
			},
		},
	}
}

func newTestService(t *testing.T, registry *stubRegistry, ttl time.Duration) (*SriService, *CacheService) {
	t.Helper()

	logger := testLogger()
	cache := NewCacheService(nil, ttl, logger)

	cfg := config.SRIConfig{CacheTTL: ttl}
	return NewSriService(cfg, cache, registry, logger), cache
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("1792146739001")

	assert.True(t, strings.HasPrefix(key, "sri:"))
	assert.Len(t, key, len("sri:")+32)
	assert.Equal(t, key, CacheKey("1792146739001"))
	assert.NotEqual(t, key, CacheKey("1712345675001"))
}

func TestSearchMissThenHit(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, id string) (*sri.RucData, error) {
			return registryPayload(id), nil
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	first, err := service.Search(context.Background(), "1792146739001")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "1792146739001", first.Record.Identification)
	assert.Equal(t, 1, registry.callCount())

	second, err := service.Search(context.Background(), "1792146739001")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Record.Identification, second.Record.Identification)
	assert.Equal(t, first.CacheKey, second.CacheKey)
	assert.Equal(t, 1, registry.callCount(), "cache hit must not call upstream")
}

func TestSearchCacheExpiryRefetches(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, id string) (*sri.RucData, error) {
			return registryPayload(id), nil
		},
	}
	service, cache := newTestService(t, registry, 6*time.Hour)

	base := time.Now()
	cache.SetClock(func() time.Time { return base })

	_, err := service.Search(context.Background(), "1792146739001")
	require.NoError(t, err)
	require.Equal(t, 1, registry.callCount())

	// Still fresh just before the deadline.
	cache.SetClock(func() time.Time { return base.Add(6*time.Hour - time.Second) })
	result, err := service.Search(context.Background(), "1792146739001")
	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, 1, registry.callCount())

	// Past the deadline the entry is a miss and upstream is consulted again.
	cache.SetClock(func() time.Time { return base.Add(6*time.Hour + time.Second) })
	result, err = service.Search(context.Background(), "1792146739001")
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, registry.callCount())
}

func TestSearchNotFoundNeverCached(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, _ string) (*sri.RucData, error) {
			return nil, sri.ErrNotFound
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	_, err := service.Search(context.Background(), "1792146739001")
	assert.ErrorIs(t, err, sri.ErrNotFound)

	_, err = service.Search(context.Background(), "1792146739001")
	assert.ErrorIs(t, err, sri.ErrNotFound)
	assert.Equal(t, 2, registry.callCount(), "not-found must not be cached")
}

func TestSearchUnavailablePassesThrough(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, _ string) (*sri.RucData, error) {
			return nil, sri.ErrServiceUnavailable
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	_, err := service.Search(context.Background(), "1792146739001")
	assert.ErrorIs(t, err, sri.ErrServiceUnavailable)
}

func TestSearchNormalization(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, id string) (*sri.RucData, error) {
			return registryPayload(id), nil
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	result, err := service.Search(context.Background(), "1792146739001")
	require.NoError(t, err)

	record := result.Record
	require.NotNil(t, record.LegalName)
	assert.Equal(t, "ACME DEL ECUADOR S.A.", *record.LegalName)
	assert.Equal(t, record.LegalName, record.BusinessName)
	assert.True(t, record.AccountingRequired)
	assert.False(t, record.WithholdingAgent)
	assert.False(t, record.SpecialTaxpayer)
	assert.False(t, record.GhostTaxpayer)
	assert.Nil(t, record.CommercialName)
	assert.Nil(t, record.DebtAmount)
	require.NotNil(t, record.StartDate)
	assert.Equal(t, "2015-03-18", *record.StartDate)
	assert.Nil(t, record.CessationDate)

	require.Len(t, record.Establishments, 1)
	est := record.Establishments[0]
	assert.Equal(t, "001", *est.Number)
	assert.Equal(t, "QUITO", *est.District)
	assert.Equal(t, "IÑAQUITO", *est.Parish)
	assert.Nil(t, est.Department)
	assert.True(t, est.IsHeadquarters)
}

func TestSearchSpecialTaxpayerResolution(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, id string) (*sri.RucData, error) {
			payload := registryPayload(id)
			payload.ContribuyenteEspecial = strPtr("Resolución 1234")
			return payload, nil
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	result, err := service.Search(context.Background(), "1792146739001")
	require.NoError(t, err)
	assert.True(t, result.Record.SpecialTaxpayer)
}

func TestSearchKeepsCallerIdentification(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, _ string) (*sri.RucData, error) {
			// Upstream answers with a different RUC; the record must keep
			// the caller's identification.
			return registryPayload("9999999999999"), nil
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	result, err := service.Search(context.Background(), "1792146739001")
	require.NoError(t, err)
	assert.Equal(t, "1792146739001", result.Record.Identification)
}

func TestSearchBatch(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, id string) (*sri.RucData, error) {
			if id == "1712345675001" {
				return nil, sri.ErrNotFound
			}
			return registryPayload(id), nil
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	ids := []string{"1792146739001", "1712345675001", "1760001550000"}
	results, err := service.SearchBatch(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results keep request order regardless of goroutine scheduling.
	assert.Equal(t, "1792146739001", results[0].Identification)
	assert.True(t, results[0].Success)
	require.NotNil(t, results[0].Data)

	assert.Equal(t, "1712345675001", results[1].Identification)
	assert.False(t, results[1].Success)
	assert.Nil(t, results[1].Data)
	assert.NotEmpty(t, results[1].Error)

	assert.True(t, results[2].Success)
}

func TestCounters(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, id string) (*sri.RucData, error) {
			if id == "1712345675001" {
				return nil, sri.ErrNotFound
			}
			return registryPayload(id), nil
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	ctx := context.Background()
	_, _ = service.Search(ctx, "1792146739001") // miss, success
	_, _ = service.Search(ctx, "1792146739001") // hit, success
	_, _ = service.Search(ctx, "1712345675001") // miss, failure

	requests, cache := service.Counters()
	assert.Equal(t, int64(3), requests.Total)
	assert.Equal(t, int64(2), requests.Success)
	assert.Equal(t, int64(1), requests.Errors)
	assert.InDelta(t, 66.6, requests.SuccessRate, 0.1)

	assert.Equal(t, int64(1), cache.Hits)
	assert.Equal(t, int64(2), cache.Misses)
	assert.InDelta(t, 33.3, cache.HitRate, 0.1)
}

func TestHealth(t *testing.T) {
	registry := &stubRegistry{
		fetch: func(_ context.Context, id string) (*sri.RucData, error) {
			return registryPayload(id), nil
		},
	}
	service, _ := newTestService(t, registry, time.Hour)

	health := service.Health()
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, true, health["cache_enabled"])
}
