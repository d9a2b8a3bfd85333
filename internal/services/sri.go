package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/facturacloud/sri-api/internal/config"
	"github.com/facturacloud/sri-api/internal/models"
	"github.com/facturacloud/sri-api/internal/sri"
)

// batchConcurrency bounds the upstream fan-out of a batch search.
const batchConcurrency = 5

// SriService is the read-through lookup gateway in front of the SRI registry.
// It does not de-duplicate concurrent identical lookups: two simultaneous
// misses for the same RUC both call upstream and race on the cache write,
// which is a benign last-write-wins overwrite of the same value.
type SriService struct {
	config config.SRIConfig
	cache  CacheServiceInterface
	client RegistryClient
	logger *logrus.Logger

	requests  atomic.Int64
	successes atomic.Int64
	failures  atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewSriService creates a new lookup gateway
func NewSriService(cfg config.SRIConfig, cache CacheServiceInterface, client RegistryClient, logger *logrus.Logger) *SriService {
	return &SriService{
		config: cfg,
		cache:  cache,
		client: client,
		logger: logger,
	}
}

// CacheKey derives the cache key for an identification. A stable one-way hash
// keeps keys uniform; uniqueness matters here, not cryptographic strength.
func CacheKey(identification string) string {
	sum := md5.Sum([]byte(identification))
	return "sri:" + hex.EncodeToString(sum[:])
}

// Search retrieves taxpayer information for a RUC that already passed
// structural validation. Cache hits answer immediately; misses call the
// registry, normalize the payload and cache it for the configured TTL.
// Not-found and unavailable outcomes are never cached.
func (s *SriService) Search(ctx context.Context, identification string) (*models.SearchResult, error) {
	start := time.Now()
	s.requests.Add(1)

	logger := s.logger.WithField("ruc", identification)
	cacheKey := CacheKey(identification)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var record models.TaxpayerRecord
		if err := json.Unmarshal([]byte(cached), &record); err == nil {
			s.hits.Add(1)
			s.successes.Add(1)
			logger.WithField("duration", time.Since(start)).Info("RUC served from cache")
			return &models.SearchResult{
				Record:     &record,
				Cached:     true,
				CacheKey:   cacheKey,
				DurationMs: time.Since(start).Milliseconds(),
			}, nil
		}
		logger.WithError(err).Warn("Failed to unmarshal cached taxpayer record")
	}
	s.misses.Add(1)

	data, err := s.client.FetchRuc(ctx, identification)
	if err != nil {
		s.failures.Add(1)
		logger.WithError(err).WithField("duration", time.Since(start)).Error("Registry lookup failed")
		return nil, err
	}

	record := normalizeRucData(data, identification)

	if data.NumeroRuc != nil && *data.NumeroRuc != identification {
		// The record keeps the caller's identification; a mismatch is an
		// upstream anomaly worth an operator's attention, not a correction.
		logger.WithField("upstream_ruc", *data.NumeroRuc).Warn("Upstream identification differs from requested RUC")
	}

	if encoded, err := json.Marshal(record); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(encoded)); err != nil {
			logger.WithError(err).Warn("Failed to cache taxpayer record")
		}
	} else {
		logger.WithError(err).Warn("Failed to marshal taxpayer record for cache")
	}

	s.successes.Add(1)
	logger.WithField("duration", time.Since(start)).Info("RUC fetched from registry")

	return &models.SearchResult{
		Record:     record,
		Cached:     false,
		CacheKey:   cacheKey,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// SearchBatch looks up multiple RUCs concurrently, bounded by a semaphore so a
// large batch cannot flood the registry.
func (s *SriService) SearchBatch(ctx context.Context, identifications []string) ([]models.BatchSearchResult, error) {
	results := make([]models.BatchSearchResult, len(identifications))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, batchConcurrency)

	for i, identification := range identifications {
		wg.Add(1)
		go func(index int, id string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			start := time.Now()
			result, err := s.Search(ctx, id)
			duration := time.Since(start)

			if err != nil {
				results[index] = models.BatchSearchResult{
					Identification: id,
					Success:        false,
					Error:          err.Error(),
					DurationMs:     duration.Milliseconds(),
				}
				return
			}

			results[index] = models.BatchSearchResult{
				Identification: id,
				Success:        true,
				Data:           result.Record,
				Cached:         result.Cached,
				DurationMs:     duration.Milliseconds(),
			}
		}(i, identification)
	}

	wg.Wait()
	return results, nil
}

// Counters returns request/cache counters collected since start.
func (s *SriService) Counters() (models.RequestsMetrics, models.CacheMetrics) {
	requests := models.RequestsMetrics{
		Total:   s.requests.Load(),
		Success: s.successes.Load(),
		Errors:  s.failures.Load(),
	}
	if requests.Total > 0 {
		requests.SuccessRate = float64(requests.Success) / float64(requests.Total) * 100
	}

	cache := models.CacheMetrics{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
	if total := cache.Hits + cache.Misses; total > 0 {
		cache.HitRate = float64(cache.Hits) / float64(total) * 100
	}

	return requests, cache
}

// Health returns service health status
func (s *SriService) Health() map[string]interface{} {
	return map[string]interface{}{
		"status":        "healthy",
		"request_count": s.requests.Load(),
		"cache_enabled": s.cache != nil,
		"cache_ttl":     s.config.CacheTTL.String(),
	}
}

// normalizeRucData maps the registry's Spanish payload into the canonical
// taxpayer record. Fields the upstream did not report stay nil; nothing is
// defaulted. Identification always carries the caller-supplied value.
func normalizeRucData(data *sri.RucData, identification string) *models.TaxpayerRecord {
	record := &models.TaxpayerRecord{
		Identification:          identification,
		BusinessName:            data.RazonSocial,
		LegalName:               data.RazonSocial,
		CommercialName:          data.NombreComercial,
		Status:                  data.EstadoContribuyenteRuc,
		TaxpayerStatus:          data.ClaseContribuyente,
		TaxpayerType:            data.TipoContribuyente,
		Regime:                  data.Regimen,
		MainActivity:            data.ActividadEconomicaPrincipal,
		AccountingRequired:      affirmative(data.ObligadoLlevarContabilidad),
		WithholdingAgent:        affirmative(data.AgenteRetencion),
		SpecialTaxpayer:         specialTaxpayer(data.ContribuyenteEspecial),
		HeadOfficeAddress:       data.DireccionMatriz,
		CancellationReason:      data.MotivoCancelacionSuspension,
		GhostTaxpayer:           affirmative(data.ContribuyenteFantasma),
		NonexistentTransactions: affirmative(data.TransaccionesInexistente),
		LegalRepresentatives:    make([]models.LegalRepresentative, 0, len(data.RepresentantesLegales)),
		Establishments:          make([]models.Establishment, 0, len(data.Establecimientos)),
	}

	if data.Deuda != nil {
		record.DebtAmount = data.Deuda.Monto
		record.DebtDescription = data.Deuda.Descripcion
	}

	if dates := data.InformacionFechasContribuyente; dates != nil {
		record.StartDate = dates.FechaInicioActividades
		record.CessationDate = dates.FechaCese
		record.RestartDate = dates.FechaReinicio
		record.UpdateDate = dates.FechaActualizacion
	}

	for _, rep := range data.RepresentantesLegales {
		record.LegalRepresentatives = append(record.LegalRepresentatives, models.LegalRepresentative{
			Identification: rep.Identificacion,
			Name:           rep.Nombre,
		})
	}

	for _, est := range data.Establecimientos {
		record.Establishments = append(record.Establishments, models.Establishment{
			Number:            est.NumeroEstablecimiento,
			CommercialName:    est.NombreFantasiaComercial,
			Address:           est.UbicacionEstablecimiento,
			Status:            est.Estado,
			Province:          est.Provincia,
			District:          est.Canton,
			Parish:            est.Parroquia,
			EstablishmentType: est.TipoEstablecimiento,
			IsHeadquarters:    affirmative(est.Matriz),
		})
	}

	return record
}

// affirmative interprets the registry's "SI"/"NO" flags; absent means false.
func affirmative(value *string) bool {
	return value != nil && strings.EqualFold(strings.TrimSpace(*value), "SI")
}

// specialTaxpayer is reported as a resolution number rather than a flag; any
// value other than an explicit negative marks the taxpayer as special.
func specialTaxpayer(value *string) bool {
	if value == nil {
		return false
	}
	v := strings.TrimSpace(*value)
	return v != "" && !strings.EqualFold(v, "NO")
}
