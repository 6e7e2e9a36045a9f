package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helixlab/labtrack-backend/internal/core/metrics"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// MetricsRepository fetches raw record collections for aggregation.
// Rows come back in wire shape: IDs and submission timestamps as text,
// amounts as float8. The metrics core owns parsing and clamping, so one
// unparseable timestamp excludes that record instead of failing the query.
type MetricsRepository struct {
	pool *pgxpool.Pool
}

var _ ports.MetricsRepository = (*MetricsRepository)(nil)

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(pool *pgxpool.Pool) ports.MetricsRepository {
	return &MetricsRepository{pool: pool}
}

// ListSolutionRecords returns every solution request row in wire shape.
func (r *MetricsRepository) ListSolutionRecords(ctx context.Context) ([]metrics.RawSolutionRecord, error) {
	const query = `
		SELECT id::text,
		       to_char(submitted_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		       status,
		       training_total::float8,
		       estimated_cost::float8
		FROM solution_requests
	`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]metrics.RawSolutionRecord, 0)
	for rows.Next() {
		var record metrics.RawSolutionRecord
		if err := rows.Scan(&record.ID, &record.SubmittedAt, &record.Status, &record.TrainingTotal, &record.EstimatedCost); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ListDeliveryRecords returns every delivery request row in wire shape.
func (r *MetricsRepository) ListDeliveryRecords(ctx context.Context) ([]metrics.RawDeliveryRecord, error) {
	const query = `
		SELECT id::text,
		       to_char(submitted_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		       status,
		       invoiced_amount::float8,
		       courier_cost::float8
		FROM delivery_requests
	`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]metrics.RawDeliveryRecord, 0)
	for rows.Next() {
		var record metrics.RawDeliveryRecord
		if err := rows.Scan(&record.ID, &record.SubmittedAt, &record.Status, &record.InvoicedAmount, &record.CourierCost); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
