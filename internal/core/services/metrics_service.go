package services

import (
	"context"

	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
	"github.com/helixlab/labtrack-backend/internal/core/metrics"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// MetricsService implements request metrics computation. It fetches both
// record families and delegates the aggregation to the metrics core; no
// caching happens here, every call recomputes from the current data.
type MetricsService struct {
	metricsRepo ports.MetricsRepository
	authzSvc    ports.AuthorizationService
}

var _ ports.MetricsService = (*MetricsService)(nil)

// NewMetricsService creates a new metrics service
func NewMetricsService(metricsRepo ports.MetricsRepository, authzSvc ports.AuthorizationService) ports.MetricsService {
	return &MetricsService{
		metricsRepo: metricsRepo,
		authzSvc:    authzSvc,
	}
}

// GetRequestMetrics computes time-bucketed rollups over both request
// families for the requested granularities.
func (s *MetricsService) GetRequestMetrics(ctx context.Context, params ports.MetricsParams) (*metrics.Result, error) {
	canRead, err := s.authzSvc.Can(ctx, params.ViewerID, "metrics:read")
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, apperrors.ErrForbidden
	}

	granularities := make([]metrics.Granularity, 0, len(params.Granularities))
	for _, raw := range params.Granularities {
		g, err := metrics.ParseGranularity(raw)
		if err != nil {
			return nil, apperrors.NewBadRequestError(err, "unknown granularity: "+raw)
		}
		granularities = append(granularities, g)
	}

	solutions, err := s.metricsRepo.ListSolutionRecords(ctx)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.metricsRepo.ListDeliveryRecords(ctx)
	if err != nil {
		return nil, err
	}

	result, err := metrics.Compute(
		metrics.Input{Solutions: solutions, Deliveries: deliveries},
		metrics.Config{
			Granularities: granularities,
			DateFrom:      params.DateFrom,
			DateTo:        params.DateTo,
			GapFill:       params.GapFill,
		},
	)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err, err.Error())
	}

	return result, nil
}
