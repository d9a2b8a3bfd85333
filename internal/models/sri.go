package models

import (
	"time"
)

// SearchRequest is the JSON:API shaped body of POST /sris/search.
type SearchRequest struct {
	Data SearchRequestData `json:"data" binding:"required"`
}

// SearchRequestData holds the resource object of a search request.
type SearchRequestData struct {
	Attributes SearchRequestAttributes `json:"attributes" binding:"required"`
}

// SearchRequestAttributes holds the identifier being looked up.
type SearchRequestAttributes struct {
	Identification string `json:"identification" example:"1792146739001"`
}

// BatchSearchRequest is the body of POST /sris/search-batch.
type BatchSearchRequest struct {
	Identifications []string `json:"identifications" binding:"required,min=1,max=50" example:"[\"1792146739001\"]"`
}

// TaxpayerRecord is the canonical, normalized result of an SRI lookup.
// Identification always carries the value the caller supplied; it is never
// overwritten by upstream data. Fields the upstream did not report stay nil.
type TaxpayerRecord struct {
	Identification          string                `json:"identification" example:"1792146739001"`
	BusinessName            *string               `json:"business_name"`
	LegalName               *string               `json:"legal_name" example:"ACME S.A."`
	CommercialName          *string               `json:"commercial_name"`
	Status                  *string               `json:"status" example:"ACTIVO"`
	TaxpayerStatus          *string               `json:"taxpayer_status"`
	TaxpayerType            *string               `json:"taxpayer_type" example:"SOCIEDAD"`
	Regime                  *string               `json:"regime" example:"GENERAL"`
	MainActivity            *string               `json:"main_activity"`
	AccountingRequired      bool                  `json:"accounting_required"`
	WithholdingAgent        bool                  `json:"withholding_agent"`
	SpecialTaxpayer         bool                  `json:"special_taxpayer"`
	HeadOfficeAddress       *string               `json:"head_office_address"`
	DebtAmount              *float64              `json:"debt_amount"`
	DebtDescription         *string               `json:"debt_description"`
	StartDate               *string               `json:"start_date"`
	CessationDate           *string               `json:"cessation_date"`
	RestartDate             *string               `json:"restart_date"`
	UpdateDate              *string               `json:"update_date"`
	LegalRepresentatives    []LegalRepresentative `json:"legal_representatives"`
	CancellationReason      *string               `json:"cancellation_reason"`
	GhostTaxpayer           bool                  `json:"ghost_taxpayer"`
	NonexistentTransactions bool                  `json:"nonexistent_transactions"`
	Establishments          []Establishment       `json:"establishments"`
}

// LegalRepresentative identifies a person registered as representing the
// taxpayer before the SRI.
type LegalRepresentative struct {
	Identification *string `json:"identification"`
	Name           *string `json:"name"`
}

// Establishment is a registered place of business belonging to a taxpayer.
// It has no identity outside its parent TaxpayerRecord.
type Establishment struct {
	Number            *string `json:"number" example:"001"`
	CommercialName    *string `json:"commercial_name"`
	Address           *string `json:"address"`
	Status            *string `json:"status" example:"ABIERTO"`
	Department        *string `json:"department"`
	Province          *string `json:"province"`
	District          *string `json:"district"`
	Parish            *string `json:"parish"`
	EstablishmentType *string `json:"establishment_type"`
	IsHeadquarters    bool    `json:"is_headquarters"`
}

// SearchResult is what the lookup gateway returns for a successful search.
type SearchResult struct {
	Record     *TaxpayerRecord `json:"record"`
	Cached     bool            `json:"cached"`
	CacheKey   string          `json:"cache_key"`
	DurationMs int64           `json:"duration_ms"`
}

// BatchSearchResult is one entry of a batch search response.
type BatchSearchResult struct {
	Identification string          `json:"identification"`
	Success        bool            `json:"success"`
	Data           *TaxpayerRecord `json:"data,omitempty"`
	Error          string          `json:"error,omitempty"`
	Cached         bool            `json:"cached"`
	DurationMs     int64           `json:"duration_ms"`
}

// BatchSearchResponse is the body of a batch search response.
type BatchSearchResponse struct {
	Results    []BatchSearchResult `json:"results"`
	Total      int                 `json:"total"`
	Success    int                 `json:"success"`
	Errors     int                 `json:"errors"`
	DurationMs int64               `json:"duration_ms"`
	Timestamp  time.Time           `json:"timestamp"`
}

// JSONAPIVersion tags every JSON:API response envelope.
type JSONAPIVersion struct {
	Version string `json:"version" example:"1.0"`
}

// ResourceIdentifier is a JSON:API {type, id} reference.
type ResourceIdentifier struct {
	Type string `json:"type" example:"establishments"`
	ID   string `json:"id" example:"001"`
}

// Resource is a full JSON:API resource object.
type Resource struct {
	Type          string                 `json:"type" example:"sris"`
	ID            string                 `json:"id" example:"1792146739001"`
	Attributes    map[string]interface{} `json:"attributes"`
	Relationships map[string]Relation    `json:"relationships,omitempty"`
}

// Relation is a JSON:API relationship listing resource identifiers.
type Relation struct {
	Data []ResourceIdentifier `json:"data"`
}

// SearchResponse is the 200 envelope of a successful search.
type SearchResponse struct {
	JSONAPI  JSONAPIVersion         `json:"jsonapi"`
	Data     Resource               `json:"data"`
	Included []Resource             `json:"included"`
	Meta     map[string]interface{} `json:"meta"`
}

// APIError is one JSON:API error object.
type APIError struct {
	Status string                 `json:"status" example:"422"`
	Title  string                 `json:"title" example:"Error de validación"`
	Detail string                 `json:"detail"`
	Source *ErrorSource           `json:"source,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

// ErrorSource points at the request field an error refers to.
type ErrorSource struct {
	Pointer string `json:"pointer" example:"/data/attributes/identification"`
}

// ErrorResponse is the envelope of every non-2xx response.
type ErrorResponse struct {
	JSONAPI JSONAPIVersion `json:"jsonapi"`
	Errors  []APIError     `json:"errors"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version" example:"1.0.0"`
	Services  map[string]ServiceInfo `json:"services"`
	Uptime    string                 `json:"uptime" example:"2h30m45s"`
}

// ServiceInfo reports the health of one dependency.
type ServiceInfo struct {
	Status    string    `json:"status" example:"healthy"`
	LastCheck time.Time `json:"last_check"`
	Error     string    `json:"error,omitempty"`
}

// MetricsResponse is the body of GET /metrics.
type MetricsResponse struct {
	Requests  RequestsMetrics `json:"requests"`
	Cache     CacheMetrics    `json:"cache"`
	System    SystemMetrics   `json:"system"`
	Timestamp time.Time       `json:"timestamp"`
}

// RequestsMetrics counts lookups handled by the gateway since start.
type RequestsMetrics struct {
	Total       int64   `json:"total"`
	Success     int64   `json:"success"`
	Errors      int64   `json:"errors"`
	SuccessRate float64 `json:"success_rate"`
}

// CacheMetrics counts cache outcomes since start.
type CacheMetrics struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// SystemMetrics reports process-level runtime stats.
type SystemMetrics struct {
	MemoryUsageMB float64 `json:"memory_usage_mb"`
	Goroutines    int     `json:"goroutines"`
}
