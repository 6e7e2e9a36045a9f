package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/helixlab/labtrack-backend/internal/adapters/primary/http/middleware"
	"github.com/helixlab/labtrack-backend/internal/adapters/primary/validation"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// MetricsHandler handles HTTP requests for request metrics
type MetricsHandler struct {
	metricsService ports.MetricsService
	errorHandler   *ErrorHandler
	logger         *slog.Logger

	// Defaults applied when the query omits the corresponding parameter.
	defaultGranularity string
	gapFillDefault     bool
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(
	metricsService ports.MetricsService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
	defaultGranularity string,
	gapFillDefault bool,
) *MetricsHandler {
	return &MetricsHandler{
		metricsService:     metricsService,
		errorHandler:       errorHandler,
		logger:             logger.With("handler", "metrics"),
		defaultGranularity: defaultGranularity,
		gapFillDefault:     gapFillDefault,
	}
}

// Router sets up a new chi Router for metrics routes.
func (h *MetricsHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for metrics endpoints.
func (h *MetricsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/requests", h.HandleGetRequestMetrics)
}

// HandleGetRequestMetrics handles GET /metrics/requests
//
// Query parameters:
//
//	granularities  comma-separated list (day,week,month,quarter,year,all)
//	from, to       date (2006-01-02) or RFC 3339 timestamp, inclusive
//	gapFill        boolean, insert zero-activity buckets
func (h *MetricsHandler) HandleGetRequestMetrics(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	granularities := h.parseGranularities(r)
	gapFill := validation.ParseBoolQueryParam(r, "gapFill", h.gapFillDefault)

	v := validation.NewValidator()

	from, err := validation.ParseTimeQueryParam(r, "from")
	if err != nil {
		v.Custom("from", false, "Must be a valid date or timestamp")
	}

	to, err := validation.ParseTimeQueryParam(r, "to")
	if err != nil {
		v.Custom("to", false, "Must be a valid date or timestamp")
	}

	var dateFrom *time.Time
	if from != nil {
		dateFrom = &from.Time
	}

	// A date-only upper bound means "through the end of that day".
	var dateTo *time.Time
	if to != nil {
		adjusted := to.Time
		if to.DateOnly {
			adjusted = adjusted.Add(24*time.Hour - time.Nanosecond)
		}
		dateTo = &adjusted
	}

	if dateFrom != nil && dateTo != nil && dateFrom.After(*dateTo) {
		v.Custom("from", false, "Must be before to")
	}

	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	params := ports.MetricsParams{
		ViewerID:      claims.UserID,
		Granularities: granularities,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		GapFill:       gapFill,
	}

	result, err := h.metricsService.GetRequestMetrics(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("request metrics computed",
		"user_id", claims.UserID,
		"granularities", granularities,
		"excluded", result.ExcludedCount,
		"filtered_out", result.FilteredOutCount,
	)

	WriteJSON(w, http.StatusOK, result)
}

// parseGranularities splits the comma-separated granularities parameter,
// falling back to the configured default when absent.
func (h *MetricsHandler) parseGranularities(r *http.Request) []string {
	raw := r.URL.Query().Get("granularities")
	if raw == "" {
		return []string{h.defaultGranularity}
	}

	parts := strings.Split(raw, ",")
	granularities := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			granularities = append(granularities, trimmed)
		}
	}

	if len(granularities) == 0 {
		return []string{h.defaultGranularity}
	}

	return granularities
}
