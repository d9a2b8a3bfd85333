// Package sri talks to the external SRI taxpayer registry.
package sri

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/facturacloud/sri-api/internal/config"
)

// Sentinel errors for the expected, recoverable upstream outcomes. Callers
// dispatch on these with errors.Is; anything else is an internal failure.
var (
	// ErrNotFound means the registry explicitly reported no such taxpayer.
	ErrNotFound = errors.New("taxpayer not found in SRI registry")

	// ErrServiceUnavailable means the registry could not be reached or
	// answered with a server failure or an unreadable payload.
	ErrServiceUnavailable = errors.New("SRI registry unavailable")
)

// RucData is the provider-specific payload of a RUC lookup. Field names follow
// the registry's Spanish schema; every field is optional and absent fields
// stay nil.
type RucData struct {
	NumeroRuc                      *string               `json:"numeroRuc"`
	RazonSocial                    *string               `json:"razonSocial"`
	NombreComercial                *string               `json:"nombreComercial"`
	EstadoContribuyenteRuc         *string               `json:"estadoContribuyenteRuc"`
	ClaseContribuyente             *string               `json:"claseContribuyente"`
	TipoContribuyente              *string               `json:"tipoContribuyente"`
	Regimen                        *string               `json:"regimen"`
	ActividadEconomicaPrincipal    *string               `json:"actividadEconomicaPrincipal"`
	ObligadoLlevarContabilidad     *string               `json:"obligadoLlevarContabilidad"`
	AgenteRetencion                *string               `json:"agenteRetencion"`
	ContribuyenteEspecial          *string               `json:"contribuyenteEspecial"`
	DireccionMatriz                *string               `json:"direccionMatriz"`
	Deuda                          *Deuda                `json:"deuda"`
	InformacionFechasContribuyente *FechasContribuyente  `json:"informacionFechasContribuyente"`
	RepresentantesLegales          []RepresentanteLegal  `json:"representantesLegales"`
	MotivoCancelacionSuspension    *string               `json:"motivoCancelacionSuspension"`
	ContribuyenteFantasma          *string               `json:"contribuyenteFantasma"`
	TransaccionesInexistente       *string               `json:"transaccionesInexistente"`
	Establecimientos               []EstablecimientoData `json:"establecimientos"`
}

// Deuda reports outstanding debt with the tax authority.
type Deuda struct {
	Monto       *float64 `json:"monto"`
	Descripcion *string  `json:"descripcion"`
}

// FechasContribuyente groups the registry's lifecycle dates.
type FechasContribuyente struct {
	FechaInicioActividades *string `json:"fechaInicioActividades"`
	FechaCese              *string `json:"fechaCese"`
	FechaReinicio          *string `json:"fechaReinicioActividades"`
	FechaActualizacion     *string `json:"fechaActualizacion"`
}

// RepresentanteLegal identifies a registered legal representative.
type RepresentanteLegal struct {
	Identificacion *string `json:"identificacion"`
	Nombre         *string `json:"nombre"`
}

// EstablecimientoData is one registered place of business in the payload.
type EstablecimientoData struct {
	NumeroEstablecimiento    *string `json:"numeroEstablecimiento"`
	NombreFantasiaComercial  *string `json:"nombreFantasiaComercial"`
	UbicacionEstablecimiento *string `json:"ubicacionEstablecimiento"`
	Estado                   *string `json:"estado"`
	TipoEstablecimiento      *string `json:"tipoEstablecimiento"`
	Provincia                *string `json:"provincia"`
	Canton                   *string `json:"canton"`
	Parroquia                *string `json:"parroquia"`
	Matriz                   *string `json:"matriz"`
}

// errorPayload is the registry's error body shape.
type errorPayload struct {
	Mensaje *string `json:"mensaje"`
	Error   *string `json:"error"`
}

// Client performs authenticated lookups against the SRI registry. The zero
// value is not usable; construct it with NewClient.
type Client struct {
	baseURL    string
	statusURL  string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a registry client with a bounded request timeout so a slow
// upstream cannot hold a request goroutine indefinitely.
func NewClient(cfg config.SRIConfig, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		statusURL: cfg.StatusURL,
		token:     cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// FetchRuc retrieves the raw registry data for a 13-digit RUC. It returns
// ErrNotFound when the registry reports no such taxpayer and
// ErrServiceUnavailable on transport failures, server errors, or payloads the
// decoder cannot read.
func (c *Client) FetchRuc(ctx context.Context, identification string) (*RucData, error) {
	url := fmt.Sprintf("%s/ruc/%s", c.baseURL, identification)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building SRI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"ruc":   identification,
			"error": err.Error(),
		}).Warn("SRI request failed")
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrServiceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.WithFields(logrus.Fields{
			"ruc":    identification,
			"status": resp.StatusCode,
		}).Warn("SRI answered with server error")
		return nil, fmt.Errorf("%w: upstream status %d", ErrServiceUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected upstream status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var data RucData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v", ErrServiceUnavailable, err)
	}

	// Some registry errors come back as 200 with an error body.
	if data.NumeroRuc == nil && data.RazonSocial == nil {
		var errBody errorPayload
		if json.Unmarshal(body, &errBody) == nil {
			msg := ""
			if errBody.Mensaje != nil {
				msg = *errBody.Mensaje
			} else if errBody.Error != nil {
				msg = *errBody.Error
			}
			if strings.Contains(strings.ToLower(msg), "no encontrado") ||
				strings.Contains(strings.ToLower(msg), "no existe") {
				return nil, ErrNotFound
			}
		}
		return nil, fmt.Errorf("%w: empty payload", ErrServiceUnavailable)
	}

	return &data, nil
}

// Status probes the SRI status page and reports whether the service advertises
// itself as operational. Used by the readiness surface only; lookup requests
// never depend on it.
func (c *Client) Status(ctx context.Context) (string, error) {
	if c.statusURL == "" {
		return "unknown", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL, nil)
	if err != nil {
		return "", fmt.Errorf("building status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status page answered %d", ErrServiceUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing status page: %w", err)
	}

	// The status page renders per-service availability rows; any row flagged
	// unavailable marks the registry as degraded.
	status := "operational"
	doc.Find(".service-status, .estado-servicio").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if strings.Contains(text, "no disponible") || strings.Contains(text, "fuera de servicio") {
			status = "degraded"
			return false
		}
		return true
	})

	return status, nil
}
