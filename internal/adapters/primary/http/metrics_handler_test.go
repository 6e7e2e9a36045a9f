package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/helixlab/labtrack-backend/internal/adapters/primary/http"
	mw "github.com/helixlab/labtrack-backend/internal/adapters/primary/http/middleware"
	"github.com/helixlab/labtrack-backend/internal/auth"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
	"github.com/helixlab/labtrack-backend/internal/core/metrics"
	"github.com/helixlab/labtrack-backend/internal/core/mocks"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMetricsTestServer(svc ports.MetricsService) http.Handler {
	logger := newTestLogger()
	handler := httpadapter.NewMetricsHandler(
		svc,
		httpadapter.NewErrorHandler(logger),
		logger,
		"month",
		false,
	)
	return handler.Router()
}

func requestWithClaims(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	claims := &auth.Claims{UserID: userID, LabID: uuid.New()}
	ctx := context.WithValue(req.Context(), mw.UserClaimsKey, claims)
	return req.WithContext(ctx)
}

func TestMetricsHandler_GetRequestMetrics(t *testing.T) {
	viewerID := uuid.New()

	t.Run("success with explicit parameters", func(t *testing.T) {
		mockSvc := mocks.NewMockMetricsService()
		server := newMetricsTestServer(mockSvc)

		result := &metrics.Result{
			Series: map[metrics.Granularity][]metrics.Bucket{
				metrics.GranularityMonth: {},
			},
			ExcludedCount:    2,
			FilteredOutCount: 1,
		}

		mockSvc.On("GetRequestMetrics", mock.Anything, mock.MatchedBy(func(p ports.MetricsParams) bool {
			if p.ViewerID != viewerID || !p.GapFill {
				return false
			}
			if len(p.Granularities) != 2 || p.Granularities[0] != "month" || p.Granularities[1] != "week" {
				return false
			}
			if p.DateFrom == nil || !p.DateFrom.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
				return false
			}
			// A date-only upper bound extends through the end of that day.
			return p.DateTo != nil &&
				p.DateTo.After(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)) &&
				p.DateTo.Before(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
		})).Return(result, nil)

		req := requestWithClaims(http.MethodGet,
			"/requests?granularities=month,week&from=2024-01-01&to=2024-03-31&gapFill=true",
			viewerID)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			ExcludedCount    int `json:"excludedCount"`
			FilteredOutCount int `json:"filteredOutCount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2, body.ExcludedCount)
		assert.Equal(t, 1, body.FilteredOutCount)

		mockSvc.AssertExpectations(t)
	})

	t.Run("defaults applied when parameters absent", func(t *testing.T) {
		mockSvc := mocks.NewMockMetricsService()
		server := newMetricsTestServer(mockSvc)

		mockSvc.On("GetRequestMetrics", mock.Anything, mock.MatchedBy(func(p ports.MetricsParams) bool {
			return len(p.Granularities) == 1 &&
				p.Granularities[0] == "month" &&
				!p.GapFill &&
				p.DateFrom == nil &&
				p.DateTo == nil
		})).Return(&metrics.Result{}, nil)

		req := requestWithClaims(http.MethodGet, "/requests", viewerID)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing claims returns unauthorized", func(t *testing.T) {
		mockSvc := mocks.NewMockMetricsService()
		server := newMetricsTestServer(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/requests", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockSvc.AssertNotCalled(t, "GetRequestMetrics")
	})

	t.Run("malformed from parameter", func(t *testing.T) {
		mockSvc := mocks.NewMockMetricsService()
		server := newMetricsTestServer(mockSvc)

		req := requestWithClaims(http.MethodGet, "/requests?from=not-a-date", viewerID)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
		mockSvc.AssertNotCalled(t, "GetRequestMetrics")
	})

	t.Run("from after to is rejected", func(t *testing.T) {
		mockSvc := mocks.NewMockMetricsService()
		server := newMetricsTestServer(mockSvc)

		req := requestWithClaims(http.MethodGet,
			"/requests?from=2024-06-01&to=2024-01-01", viewerID)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		mockSvc.AssertNotCalled(t, "GetRequestMetrics")
	})

	t.Run("invalid granularity surfaces as bad request", func(t *testing.T) {
		mockSvc := mocks.NewMockMetricsService()
		server := newMetricsTestServer(mockSvc)

		mockSvc.On("GetRequestMetrics", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrInvalidGranularity)

		req := requestWithClaims(http.MethodGet, "/requests?granularities=fortnight", viewerID)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("forbidden viewer", func(t *testing.T) {
		mockSvc := mocks.NewMockMetricsService()
		server := newMetricsTestServer(mockSvc)

		mockSvc.On("GetRequestMetrics", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrForbidden)

		req := requestWithClaims(http.MethodGet, "/requests", viewerID)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	})
}
