package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
	"github.com/helixlab/labtrack-backend/internal/core/utils"
)

// DeliveryService implements business logic for delivery requests
type DeliveryService struct {
	deliveryRepo ports.DeliveryRepository
	authzSvc     ports.AuthorizationService
	notifier     ports.Notifier
	broadcaster  ports.EventBroadcaster
	wg           sync.WaitGroup
}

var _ ports.DeliveryService = (*DeliveryService)(nil)

// NewDeliveryService creates a new delivery request service
func NewDeliveryService(
	deliveryRepo ports.DeliveryRepository,
	authzSvc ports.AuthorizationService,
	notifier ports.Notifier,
	broadcaster ports.EventBroadcaster,
) ports.DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		authzSvc:     authzSvc,
		notifier:     notifier,
		broadcaster:  broadcaster,
	}
}

// CreateDeliveryRequest handles the use case for submitting a new request
func (s *DeliveryService) CreateDeliveryRequest(ctx context.Context, params ports.CreateDeliveryParams) (*domain.DeliveryRequest, error) {
	canCreate, err := s.authzSvc.Can(ctx, params.RequesterID, "deliveries:create")
	if err != nil {
		return nil, err
	}
	if !canCreate {
		return nil, apperrors.ErrForbidden
	}

	request, err := domain.NewDeliveryRequest(domain.DeliveryRequestParams{
		Title:          params.Title,
		RequesterID:    params.RequesterID,
		InvoicedAmount: params.InvoicedAmount,
		CourierCost:    params.CourierCost,
	})
	if err != nil {
		return nil, err
	}

	return s.deliveryRepo.Create(ctx, request)
}

// GetDeliveryRequest retrieves a specific request with authorization
func (s *DeliveryService) GetDeliveryRequest(ctx context.Context, requestID int64, viewerID uuid.UUID) (*domain.DeliveryRequest, error) {
	canRead, err := s.authzSvc.Can(ctx, viewerID, "deliveries:read")
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, apperrors.ErrForbidden
	}

	request, err := s.deliveryRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.IsOwnedBy(viewerID) {
		canReadAll, _ := s.authzSvc.Can(ctx, viewerID, "deliveries:read:all")
		if !canReadAll {
			return nil, apperrors.ErrForbidden
		}
	}

	return request, nil
}

// UpdateStatus changes a request's status with business rule enforcement
func (s *DeliveryService) UpdateStatus(ctx context.Context, params ports.UpdateDeliveryStatusParams) (*domain.DeliveryRequest, error) {
	canUpdate, err := s.authzSvc.Can(ctx, params.ActorID, "deliveries:update:status")
	if err != nil {
		return nil, err
	}
	if !canUpdate {
		return nil, apperrors.ErrForbidden
	}

	request, err := s.deliveryRepo.GetByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}

	oldStatus := request.Status

	if err := request.UpdateStatus(params.Status); err != nil {
		return nil, err
	}

	updated, err := s.deliveryRepo.Update(ctx, request)
	if err != nil {
		return nil, err
	}

	if request.RequesterID != params.ActorID {
		s.notifyStatusUpdate(updated, params.ActorID)
	}

	go s.broadcastStatusUpdate(updated, oldStatus, params.ActorID)

	return updated, nil
}

// AssignCourier assigns a courier to the delivery
func (s *DeliveryService) AssignCourier(ctx context.Context, params ports.AssignCourierParams) (*domain.DeliveryRequest, error) {
	canAssign, err := s.authzSvc.Can(ctx, params.ActorID, "deliveries:assign")
	if err != nil {
		return nil, err
	}
	if !canAssign {
		return nil, apperrors.ErrForbidden
	}

	request, err := s.deliveryRepo.GetByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}

	if err := request.AssignCourier(params.CourierID); err != nil {
		return nil, err
	}

	return s.deliveryRepo.Update(ctx, request)
}

// ListDeliveryRequests retrieves requests based on user permissions
func (s *DeliveryService) ListDeliveryRequests(ctx context.Context, params ports.ListRequestsParams) ([]*domain.DeliveryRequest, error) {
	canListAll, err := s.authzSvc.Can(ctx, params.ViewerID, "deliveries:list:all")
	if err != nil {
		return nil, err
	}

	repoParams := ports.ListRequestsRepoParams{
		Limit:  int32(params.Limit),
		Offset: int32(params.Offset),
		Status: utils.ToNullString(params.Status),
	}

	if canListAll {
		return s.deliveryRepo.ListPaginated(ctx, repoParams)
	}

	repoParams.RequesterID = pgtype.UUID{Bytes: params.ViewerID, Valid: true}
	return s.deliveryRepo.ListByRequesterPaginated(ctx, repoParams)
}

func (s *DeliveryService) notifyStatusUpdate(request *domain.DeliveryRequest, actorID uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx := context.Background()

		s.notifier.Notify(ctx, ports.NotificationParams{
			RecipientUserID: request.RequesterID,
			Subject:         fmt.Sprintf("Your delivery request status has been updated: #%d", request.ID),
			Message:         fmt.Sprintf("The status of your delivery '%s' was changed to %s.", request.Title, request.Status),
			RequestID:       request.ID,
		})
	}()
}

func (s *DeliveryService) broadcastStatusUpdate(request *domain.DeliveryRequest, oldStatus domain.DeliveryStatus, actorID uuid.UUID) {
	event := domain.Event{
		Type: domain.EventDeliveryStatusUpdated,
		Payload: domain.StatusUpdatedPayload{
			RequestID: request.ID,
			OldStatus: string(oldStatus),
			NewStatus: string(request.Status),
			UpdatedBy: actorID.String(),
		},
		RequestID: request.ID,
	}
	_ = s.broadcaster.Broadcast(event)
}

func (s *DeliveryService) Shutdown() {
	s.wg.Wait()
}
