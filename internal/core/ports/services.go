package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	"github.com/helixlab/labtrack-backend/internal/core/metrics"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string, labID uuid.UUID) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// AuthorizationService defines the port for checking user permissions.
type AuthorizationService interface {
	Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
	GetPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// CreateSolutionParams defines the required input for submitting a new
// solution request.
type CreateSolutionParams struct {
	Title         string
	Description   string
	RequesterID   uuid.UUID
	TrainingTotal decimal.Decimal
	EstimatedCost decimal.Decimal
}

// UpdateSolutionStatusParams defines the input for changing a solution
// request's status.
type UpdateSolutionStatusParams struct {
	RequestID int64
	Status    domain.SolutionStatus
	ActorID   uuid.UUID
}

// AssignSolutionParams defines the input for assigning a reviewer.
type AssignSolutionParams struct {
	RequestID  int64
	AssigneeID uuid.UUID
	ActorID    uuid.UUID
}

// CreateDeliveryParams defines the required input for submitting a new
// delivery request.
type CreateDeliveryParams struct {
	Title          string
	RequesterID    uuid.UUID
	InvoicedAmount decimal.Decimal
	CourierCost    decimal.Decimal
}

// UpdateDeliveryStatusParams defines the input for changing a delivery
// request's status.
type UpdateDeliveryStatusParams struct {
	RequestID int64
	Status    domain.DeliveryStatus
	ActorID   uuid.UUID
}

// AssignCourierParams defines the input for assigning a courier.
type AssignCourierParams struct {
	RequestID int64
	CourierID uuid.UUID
	ActorID   uuid.UUID
}

// ListRequestsParams defines the input for listing either request family.
type ListRequestsParams struct {
	ViewerID uuid.UUID
	Limit    int
	Offset   int
	Status   *string
}

// NotificationParams defines the input for sending a notification.
type NotificationParams struct {
	RecipientUserID uuid.UUID
	Subject         string
	Message         string
	RequestID       int64
}

// SolutionService defines the core business operations for solution
// requests.
type SolutionService interface {
	CreateSolutionRequest(ctx context.Context, params CreateSolutionParams) (*domain.SolutionRequest, error)
	GetSolutionRequest(ctx context.Context, requestID int64, viewerID uuid.UUID) (*domain.SolutionRequest, error)
	UpdateStatus(ctx context.Context, params UpdateSolutionStatusParams) (*domain.SolutionRequest, error)
	AssignSolutionRequest(ctx context.Context, params AssignSolutionParams) (*domain.SolutionRequest, error)
	ListSolutionRequests(ctx context.Context, params ListRequestsParams) ([]*domain.SolutionRequest, error)
	Shutdown()
}

// DeliveryService defines the core business operations for delivery
// requests.
type DeliveryService interface {
	CreateDeliveryRequest(ctx context.Context, params CreateDeliveryParams) (*domain.DeliveryRequest, error)
	GetDeliveryRequest(ctx context.Context, requestID int64, viewerID uuid.UUID) (*domain.DeliveryRequest, error)
	UpdateStatus(ctx context.Context, params UpdateDeliveryStatusParams) (*domain.DeliveryRequest, error)
	AssignCourier(ctx context.Context, params AssignCourierParams) (*domain.DeliveryRequest, error)
	ListDeliveryRequests(ctx context.Context, params ListRequestsParams) ([]*domain.DeliveryRequest, error)
	Shutdown()
}

// MetricsParams defines the input for a metrics computation.
type MetricsParams struct {
	ViewerID      uuid.UUID
	Granularities []string
	DateFrom      *time.Time
	DateTo        *time.Time
	GapFill       bool
}

// MetricsService defines the port for request metrics computation.
type MetricsService interface {
	GetRequestMetrics(ctx context.Context, params MetricsParams) (*metrics.Result, error)
}

// Notifier defines the port for sending asynchronous notifications.
type Notifier interface {
	Notify(ctx context.Context, params NotificationParams)
}

// EventBroadcaster defines the port for pushing real-time events to
// connected clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
