package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
	"github.com/helixlab/labtrack-backend/internal/core/utils"
)

// DeliveryRepository is the secondary adapter for delivery request persistence.
type DeliveryRepository struct {
	pool *pgxpool.Pool
}

var _ ports.DeliveryRepository = (*DeliveryRepository)(nil)

// NewDeliveryRepository creates a new delivery request repository.
func NewDeliveryRepository(pool *pgxpool.Pool) ports.DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

const deliveryColumns = `id, title, status, requester_id, courier_id,
	invoiced_amount, courier_cost, submitted_at, created_at, updated_at, delivered_at`

func scanDeliveryRequest(row pgx.Row) (*domain.DeliveryRequest, error) {
	var (
		request        domain.DeliveryRequest
		requesterID    pgtype.UUID
		courierID      pgtype.UUID
		invoicedAmount pgtype.Numeric
		courierCost    pgtype.Numeric
		submittedAt    pgtype.Timestamptz
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
		deliveredAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&request.ID,
		&request.Title,
		&request.Status,
		&requesterID,
		&courierID,
		&invoicedAmount,
		&courierCost,
		&submittedAt,
		&createdAt,
		&updatedAt,
		&deliveredAt,
	)
	if err != nil {
		return nil, err
	}

	request.RequesterID = requesterID.Bytes
	if courierID.Valid {
		value := uuid.UUID(courierID.Bytes)
		request.CourierID = &value
	}
	request.InvoicedAmount = utils.FromNumeric(invoicedAmount)
	request.CourierCost = utils.FromNumeric(courierCost)
	request.SubmittedAt = submittedAt.Time
	request.CreatedAt = createdAt.Time
	if updatedAt.Valid {
		request.UpdatedAt = &updatedAt.Time
	}
	if deliveredAt.Valid {
		request.DeliveredAt = &deliveredAt.Time
	}

	return &request, nil
}

// Create persists a new delivery request.
func (r *DeliveryRepository) Create(ctx context.Context, request *domain.DeliveryRequest) (*domain.DeliveryRequest, error) {
	const query = `
		INSERT INTO delivery_requests (title, status, requester_id, invoiced_amount, courier_cost, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + deliveryColumns

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		request.Title,
		string(request.Status),
		pgtype.UUID{Bytes: request.RequesterID, Valid: true},
		utils.ToNumeric(request.InvoicedAmount),
		utils.ToNumeric(request.CourierCost),
		request.SubmittedAt,
		request.CreatedAt,
	)

	return scanDeliveryRequest(row)
}

// GetByID retrieves a single delivery request by its ID.
func (r *DeliveryRepository) GetByID(ctx context.Context, id int64) (*domain.DeliveryRequest, error) {
	const query = `
		SELECT ` + deliveryColumns + `
		FROM delivery_requests
		WHERE id = $1
	`

	request, err := scanDeliveryRequest(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDeliveryRequestNotFound
		}
		return nil, err
	}

	return request, nil
}

// Update persists status, courier and timestamp changes.
func (r *DeliveryRepository) Update(ctx context.Context, request *domain.DeliveryRequest) (*domain.DeliveryRequest, error) {
	const query = `
		UPDATE delivery_requests
		SET status = $2, courier_id = $3, updated_at = $4, delivered_at = $5
		WHERE id = $1
		RETURNING ` + deliveryColumns

	courierID := pgtype.UUID{Valid: request.CourierID != nil}
	if request.CourierID != nil {
		courierID.Bytes = *request.CourierID
	}

	updatedAt := pgtype.Timestamptz{Valid: request.UpdatedAt != nil}
	if request.UpdatedAt != nil {
		updatedAt.Time = *request.UpdatedAt
	}

	deliveredAt := pgtype.Timestamptz{Valid: request.DeliveredAt != nil}
	if request.DeliveredAt != nil {
		deliveredAt.Time = *request.DeliveredAt
	}

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		request.ID,
		string(request.Status),
		courierID,
		updatedAt,
		deliveredAt,
	)

	updated, err := scanDeliveryRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDeliveryRequestNotFound
		}
		return nil, err
	}

	return updated, nil
}

func (r *DeliveryRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.DeliveryRequest, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.DeliveryRequest, 0)
	for rows.Next() {
		request, err := scanDeliveryRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ListPaginated retrieves all delivery requests with pagination and an
// optional status filter.
func (r *DeliveryRepository) ListPaginated(ctx context.Context, params ports.ListRequestsRepoParams) ([]*domain.DeliveryRequest, error) {
	const query = `
		SELECT ` + deliveryColumns + `
		FROM delivery_requests
		WHERE ($3::text IS NULL OR status = $3)
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	return r.list(ctx, query, params.Limit, params.Offset, params.Status)
}

// ListByRequesterPaginated retrieves delivery requests submitted by a
// specific user.
func (r *DeliveryRepository) ListByRequesterPaginated(ctx context.Context, params ports.ListRequestsRepoParams) ([]*domain.DeliveryRequest, error) {
	const query = `
		SELECT ` + deliveryColumns + `
		FROM delivery_requests
		WHERE requester_id = $4
		  AND ($3::text IS NULL OR status = $3)
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	return r.list(ctx, query, params.Limit, params.Offset, params.Status, params.RequesterID)
}
