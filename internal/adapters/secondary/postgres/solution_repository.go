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

// SolutionRepository is the secondary adapter for solution request persistence.
type SolutionRepository struct {
	pool *pgxpool.Pool
}

var _ ports.SolutionRepository = (*SolutionRepository)(nil)

// NewSolutionRepository creates a new solution request repository.
func NewSolutionRepository(pool *pgxpool.Pool) ports.SolutionRepository {
	return &SolutionRepository{pool: pool}
}

const solutionColumns = `id, title, description, status, requester_id, assignee_id,
	training_total, estimated_cost, submitted_at, created_at, updated_at`

func scanSolutionRequest(row pgx.Row) (*domain.SolutionRequest, error) {
	var (
		request       domain.SolutionRequest
		description   pgtype.Text
		requesterID   pgtype.UUID
		assigneeID    pgtype.UUID
		trainingTotal pgtype.Numeric
		estimatedCost pgtype.Numeric
		submittedAt   pgtype.Timestamptz
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&request.ID,
		&request.Title,
		&description,
		&request.Status,
		&requesterID,
		&assigneeID,
		&trainingTotal,
		&estimatedCost,
		&submittedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	request.Description = utils.FromString(description)
	request.RequesterID = requesterID.Bytes
	if assigneeID.Valid {
		value := uuid.UUID(assigneeID.Bytes)
		request.AssigneeID = &value
	}
	request.TrainingTotal = utils.FromNumeric(trainingTotal)
	request.EstimatedCost = utils.FromNumeric(estimatedCost)
	request.SubmittedAt = submittedAt.Time
	request.CreatedAt = createdAt.Time
	if updatedAt.Valid {
		request.UpdatedAt = &updatedAt.Time
	}

	return &request, nil
}

// Create persists a new solution request.
func (r *SolutionRepository) Create(ctx context.Context, request *domain.SolutionRequest) (*domain.SolutionRequest, error) {
	const query = `
		INSERT INTO solution_requests (title, description, status, requester_id, training_total, estimated_cost, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + solutionColumns

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		request.Title,
		utils.ToString(request.Description),
		string(request.Status),
		pgtype.UUID{Bytes: request.RequesterID, Valid: true},
		utils.ToNumeric(request.TrainingTotal),
		utils.ToNumeric(request.EstimatedCost),
		request.SubmittedAt,
		request.CreatedAt,
	)

	return scanSolutionRequest(row)
}

// GetByID retrieves a single solution request by its ID.
func (r *SolutionRepository) GetByID(ctx context.Context, id int64) (*domain.SolutionRequest, error) {
	const query = `
		SELECT ` + solutionColumns + `
		FROM solution_requests
		WHERE id = $1
	`

	request, err := scanSolutionRequest(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSolutionRequestNotFound
		}
		return nil, err
	}

	return request, nil
}

// Update persists status, assignee and timestamp changes.
func (r *SolutionRepository) Update(ctx context.Context, request *domain.SolutionRequest) (*domain.SolutionRequest, error) {
	const query = `
		UPDATE solution_requests
		SET status = $2, assignee_id = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + solutionColumns

	assigneeID := pgtype.UUID{Valid: request.AssigneeID != nil}
	if request.AssigneeID != nil {
		assigneeID.Bytes = *request.AssigneeID
	}

	updatedAt := pgtype.Timestamptz{Valid: request.UpdatedAt != nil}
	if request.UpdatedAt != nil {
		updatedAt.Time = *request.UpdatedAt
	}

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		request.ID,
		string(request.Status),
		assigneeID,
		updatedAt,
	)

	updated, err := scanSolutionRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSolutionRequestNotFound
		}
		return nil, err
	}

	return updated, nil
}

func (r *SolutionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.SolutionRequest, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.SolutionRequest, 0)
	for rows.Next() {
		request, err := scanSolutionRequest(rows)
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

// ListPaginated retrieves all solution requests with pagination and an
// optional status filter.
func (r *SolutionRepository) ListPaginated(ctx context.Context, params ports.ListRequestsRepoParams) ([]*domain.SolutionRequest, error) {
	const query = `
		SELECT ` + solutionColumns + `
		FROM solution_requests
		WHERE ($3::text IS NULL OR status = $3)
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	return r.list(ctx, query, params.Limit, params.Offset, params.Status)
}

// ListByRequesterPaginated retrieves solution requests submitted by a
// specific user.
func (r *SolutionRepository) ListByRequesterPaginated(ctx context.Context, params ports.ListRequestsRepoParams) ([]*domain.SolutionRequest, error) {
	const query = `
		SELECT ` + solutionColumns + `
		FROM solution_requests
		WHERE requester_id = $4
		  AND ($3::text IS NULL OR status = $3)
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	return r.list(ctx, query, params.Limit, params.Offset, params.Status, params.RequesterID)
}
