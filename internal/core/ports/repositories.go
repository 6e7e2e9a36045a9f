package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	"github.com/helixlab/labtrack-backend/internal/core/metrics"
)

// UserRepository defines the port for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthorizationRepository defines the port for role and permission lookups.
type AuthorizationRepository interface {
	GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role string) error
}

// ListRequestsRepoParams carries pagination and filters down to the
// repository layer in its native types.
type ListRequestsRepoParams struct {
	Limit       int32
	Offset      int32
	Status      pgtype.Text
	RequesterID pgtype.UUID
}

// SolutionRepository defines the port for solution request persistence.
type SolutionRepository interface {
	Create(ctx context.Context, request *domain.SolutionRequest) (*domain.SolutionRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.SolutionRequest, error)
	Update(ctx context.Context, request *domain.SolutionRequest) (*domain.SolutionRequest, error)
	ListPaginated(ctx context.Context, params ListRequestsRepoParams) ([]*domain.SolutionRequest, error)
	ListByRequesterPaginated(ctx context.Context, params ListRequestsRepoParams) ([]*domain.SolutionRequest, error)
}

// DeliveryRepository defines the port for delivery request persistence.
type DeliveryRepository interface {
	Create(ctx context.Context, request *domain.DeliveryRequest) (*domain.DeliveryRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.DeliveryRequest, error)
	Update(ctx context.Context, request *domain.DeliveryRequest) (*domain.DeliveryRequest, error)
	ListPaginated(ctx context.Context, params ListRequestsRepoParams) ([]*domain.DeliveryRequest, error)
	ListByRequesterPaginated(ctx context.Context, params ListRequestsRepoParams) ([]*domain.DeliveryRequest, error)
}

// MetricsRepository defines the port for fetching raw record collections
// for aggregation. Rows come back in wire shape (string timestamps,
// float amounts); the metrics core owns all parsing and clamping, so a
// single malformed row can never fail the whole query.
type MetricsRepository interface {
	ListSolutionRecords(ctx context.Context) ([]metrics.RawSolutionRecord, error)
	ListDeliveryRecords(ctx context.Context) ([]metrics.RawDeliveryRecord, error)
}

// TransactionManager defines the port for running atomic operations.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
