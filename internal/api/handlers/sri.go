package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/facturacloud/sri-api/internal/models"
	"github.com/facturacloud/sri-api/internal/services"
	"github.com/facturacloud/sri-api/internal/sri"
	"github.com/facturacloud/sri-api/internal/utils"
)

const jsonAPIVersion = "1.0"

// SriHandler handles taxpayer lookup requests
type SriHandler struct {
	sriService services.SriServiceInterface
	logger     *logrus.Logger
}

// NewSriHandler creates a new SRI handler
func NewSriHandler(sriService services.SriServiceInterface, logger *logrus.Logger) *SriHandler {
	return &SriHandler{
		sriService: sriService,
		logger:     logger,
	}
}

// Search handles single RUC consultation
// @Summary Search taxpayer information
// @Description Retrieve taxpayer registry data for a 13-digit RUC from SRI Ecuador
// @Tags SRI
// @Accept json
// @Produce json
// @Param request body models.SearchRequest true "JSON:API search request"
// @Success 200 {object} models.SearchResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /sris/search [post]
func (h *SriHandler) Search(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Malformed search request")

		c.JSON(http.StatusUnprocessableEntity, validationError("El RUC es obligatorio"))
		return
	}

	identification, apiErr := validateIdentification(request.Data.Attributes.Identification)
	if apiErr != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id":     requestID,
			"identification": request.Data.Attributes.Identification,
			"detail":         apiErr.Detail,
		}).Warn("Invalid RUC in search request")

		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			JSONAPI: models.JSONAPIVersion{Version: jsonAPIVersion},
			Errors:  []models.APIError{*apiErr},
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"ruc":        identification,
	}).Info("Processing RUC consultation")

	result, err := h.sriService.Search(c.Request.Context(), identification)
	if err != nil {
		h.respondSearchError(c, err, identification, requestID, start)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"ruc":        identification,
		"duration":   time.Since(start),
		"cache":      result.Cached,
	}).Info("RUC consultation completed")

	if result.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}

	c.JSON(http.StatusOK, buildSearchResponse(result))
}

// SearchBatch handles batch RUC consultation
// @Summary Search multiple taxpayers
// @Description Retrieve taxpayer registry data for up to 50 RUCs
// @Tags SRI
// @Accept json
// @Produce json
// @Param request body models.BatchSearchRequest true "Batch search request"
// @Success 200 {object} models.BatchSearchResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /sris/search-batch [post]
func (h *SriHandler) SearchBatch(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.BatchSearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, validationError("Se requiere una lista de 1 a 50 identificaciones"))
		return
	}

	valid := make([]string, 0, len(request.Identifications))
	for _, id := range request.Identifications {
		cleaned := utils.CleanIdentification(id)
		if utils.ValidateRucBasicFormat(cleaned) {
			valid = append(valid, cleaned)
		}
	}

	if len(valid) == 0 {
		c.JSON(http.StatusUnprocessableEntity, validationError("Ninguna de las identificaciones tiene un formato válido"))
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"total":      len(request.Identifications),
		"valid":      len(valid),
	}).Info("Processing batch RUC consultation")

	results, err := h.sriService.SearchBatch(c.Request.Context(), valid)
	if err != nil {
		errorID := uuid.New().String()
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error_id":   errorID,
			"error":      err.Error(),
		}).Error("Batch RUC consultation failed")

		c.JSON(http.StatusInternalServerError, internalError(errorID))
		return
	}

	success := 0
	for _, result := range results {
		if result.Success {
			success++
		}
	}

	c.JSON(http.StatusOK, models.BatchSearchResponse{
		Results:    results,
		Total:      len(results),
		Success:    success,
		Errors:     len(results) - success,
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now().UTC(),
	})
}

// Info describes the API surface
// @Summary API usage information
// @Description Describe the SRI consultation endpoints and their limits
// @Tags SRI
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sris/info [get]
func (h *SriHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"jsonapi": gin.H{"version": jsonAPIVersion},
		"meta": gin.H{
			"service":     "API de Consulta SRI",
			"description": "Servicio para consultar información de contribuyentes registrados en el SRI Ecuador",
			"version":     "1.0.0",
			"endpoints": []gin.H{
				{
					"method":      "POST",
					"path":        "/api/v1/sris/search",
					"description": "Consulta información de un contribuyente por RUC (13 dígitos)",
				},
				{
					"method":      "POST",
					"path":        "/api/v1/sris/search-batch",
					"description": "Consulta información de hasta 50 contribuyentes",
				},
			},
			"rate_limits": gin.H{
				"max_requests": 100,
				"per_minutes":  1,
			},
		},
	})
}

// respondSearchError maps gateway errors onto the JSON:API error envelope.
func (h *SriHandler) respondSearchError(c *gin.Context, err error, identification, requestID string, start time.Time) {
	switch {
	case errors.Is(err, sri.ErrNotFound):
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"ruc":        identification,
			"duration":   time.Since(start),
		}).Warn("Taxpayer not found")

		c.JSON(http.StatusNotFound, models.ErrorResponse{
			JSONAPI: models.JSONAPIVersion{Version: jsonAPIVersion},
			Errors: []models.APIError{{
				Status: "404",
				Title:  "Contribuyente no encontrado",
				Detail: "No se encontró información para el identificador proporcionado",
				Meta: map[string]interface{}{
					"identification": identification,
					"suggestion":     "Verifique el número e intente nuevamente",
					"reference":      "https://srienlinea.sri.gob.ec",
					"timestamp":      time.Now().UTC().Format(time.RFC3339),
				},
			}},
		})

	case errors.Is(err, sri.ErrServiceUnavailable):
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"ruc":        identification,
			"error":      err.Error(),
			"duration":   time.Since(start),
		}).Error("SRI registry unavailable")

		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			JSONAPI: models.JSONAPIVersion{Version: jsonAPIVersion},
			Errors: []models.APIError{{
				Status: "503",
				Title:  "Servicio no disponible",
				Detail: "El servicio del SRI no está disponible en este momento",
				Meta: map[string]interface{}{
					"retry_after":    300,
					"service_status": "https://estado.sri.gob.ec",
					"timestamp":      time.Now().UTC().Format(time.RFC3339),
				},
			}},
		})

	default:
		errorID := uuid.New().String()
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error_id":   errorID,
			"ruc":        identification,
			"error":      err.Error(),
			"duration":   time.Since(start),
		}).Error("Unexpected error during RUC consultation")

		c.JSON(http.StatusInternalServerError, internalError(errorID))
	}
}

// validateIdentification applies the structural gate of the search endpoint.
// It deliberately stops short of the embedded-cédula checksum so callers that
// registered with registry-issued but checksum-odd RUCs keep working.
func validateIdentification(raw string) (string, *models.APIError) {
	cleaned := utils.CleanIdentification(raw)

	detail := ""
	switch {
	case raw == "":
		detail = "El RUC es obligatorio"
	case strings.ContainsFunc(raw, unicode.IsLetter):
		detail = "El RUC solo debe contener números"
	case len(cleaned) != 13:
		detail = "El RUC debe tener exactamente 13 dígitos"
	case !utils.ValidateRucBasicFormat(cleaned):
		detail = "El RUC no tiene un formato válido."
	}

	if detail == "" {
		return cleaned, nil
	}

	return "", &models.APIError{
		Status: "422",
		Title:  "Error de validación",
		Detail: detail,
		Source: &models.ErrorSource{Pointer: "/data/attributes/identification"},
		Meta: map[string]interface{}{
			"validation": true,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// buildSearchResponse assembles the JSON:API envelope: flattened taxpayer
// attributes, establishment relationships plus included resources, and the
// cache metadata block.
func buildSearchResponse(result *models.SearchResult) models.SearchResponse {
	record := result.Record

	identifiers := make([]models.ResourceIdentifier, 0, len(record.Establishments))
	included := make([]models.Resource, 0, len(record.Establishments))

	for _, est := range record.Establishments {
		id := uuid.New().String()
		if est.Number != nil && *est.Number != "" {
			id = *est.Number
		}

		identifiers = append(identifiers, models.ResourceIdentifier{
			Type: "establishments",
			ID:   id,
		})

		included = append(included, models.Resource{
			Type: "establishments",
			ID:   id,
			Attributes: map[string]interface{}{
				"number":             est.Number,
				"commercial_name":    est.CommercialName,
				"address":            est.Address,
				"status":             est.Status,
				"department":         est.Department,
				"province":           est.Province,
				"district":           est.District,
				"parish":             est.Parish,
				"establishment_type": est.EstablishmentType,
				"is_headquarters":    est.IsHeadquarters,
			},
		})
	}

	return models.SearchResponse{
		JSONAPI: models.JSONAPIVersion{Version: jsonAPIVersion},
		Data: models.Resource{
			Type:       "sris",
			ID:         record.Identification,
			Attributes: flattenRecord(record),
			Relationships: map[string]models.Relation{
				"establishments": {Data: identifiers},
			},
		},
		Included: included,
		Meta: map[string]interface{}{
			"cached":               result.Cached,
			"timestamp":            time.Now().UTC().Format(time.RFC3339),
			"source":               "SRI Ecuador",
			"establishments_count": len(included),
			"cache_key":            result.CacheKey,
		},
	}
}

// flattenRecord produces the attribute map of the primary resource, keeping
// the legacy ruc_number/company_name aliases existing consumers read.
func flattenRecord(record *models.TaxpayerRecord) map[string]interface{} {
	return map[string]interface{}{
		"identification":      record.Identification,
		"business_name":       record.BusinessName,
		"legal_name":          record.LegalName,
		"commercial_name":     record.CommercialName,
		"status":              record.Status,
		"taxpayer_status":     record.TaxpayerStatus,
		"taxpayer_type":       record.TaxpayerType,
		"regime":              record.Regime,
		"main_activity":       record.MainActivity,
		"accounting_required": record.AccountingRequired,
		"withholding_agent":   record.WithholdingAgent,
		"special_taxpayer":    record.SpecialTaxpayer,
		"head_office_address": record.HeadOfficeAddress,
		"debt_amount":         record.DebtAmount,
		"debt_description":    record.DebtDescription,
		"ruc_number":          record.Identification,
		"company_name":        record.LegalName,
		"taxpayer_dates_information": map[string]interface{}{
			"start_date":     record.StartDate,
			"cessation_date": record.CessationDate,
			"restart_date":   record.RestartDate,
			"update_date":    record.UpdateDate,
		},
		"legal_representatives":    record.LegalRepresentatives,
		"cancellation_reason":      record.CancellationReason,
		"ghost_taxpayer":           record.GhostTaxpayer,
		"nonexistent_transactions": record.NonexistentTransactions,
	}
}

// validationError wraps a single validation message in the error envelope.
func validationError(detail string) models.ErrorResponse {
	return models.ErrorResponse{
		JSONAPI: models.JSONAPIVersion{Version: jsonAPIVersion},
		Errors: []models.APIError{{
			Status: "422",
			Title:  "Error de validación",
			Detail: detail,
			Source: &models.ErrorSource{Pointer: "/data/attributes/identification"},
			Meta: map[string]interface{}{
				"validation": true,
				"timestamp":  time.Now().UTC().Format(time.RFC3339),
			},
		}},
	}
}

// internalError builds the opaque 500 envelope with a correlation id.
func internalError(errorID string) models.ErrorResponse {
	return models.ErrorResponse{
		JSONAPI: models.JSONAPIVersion{Version: jsonAPIVersion},
		Errors: []models.APIError{{
			Status: "500",
			Title:  "Error interno del servidor",
			Detail: "Ocurrió un error inesperado. Nuestro equipo ha sido notificado.",
			Meta: map[string]interface{}{
				"error_id":  errorID,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		}},
	}
}
