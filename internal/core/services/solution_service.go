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

// SolutionService implements business logic for solution requests
type SolutionService struct {
	solutionRepo ports.SolutionRepository
	authzSvc     ports.AuthorizationService
	notifier     ports.Notifier
	broadcaster  ports.EventBroadcaster
	wg           sync.WaitGroup
}

var _ ports.SolutionService = (*SolutionService)(nil)

// NewSolutionService creates a new solution request service
func NewSolutionService(
	solutionRepo ports.SolutionRepository,
	authzSvc ports.AuthorizationService,
	notifier ports.Notifier,
	broadcaster ports.EventBroadcaster,
) ports.SolutionService {
	return &SolutionService{
		solutionRepo: solutionRepo,
		authzSvc:     authzSvc,
		notifier:     notifier,
		broadcaster:  broadcaster,
	}
}

// CreateSolutionRequest handles the use case for submitting a new request
func (s *SolutionService) CreateSolutionRequest(ctx context.Context, params ports.CreateSolutionParams) (*domain.SolutionRequest, error) {
	canCreate, err := s.authzSvc.Can(ctx, params.RequesterID, "solutions:create")
	if err != nil {
		return nil, err
	}
	if !canCreate {
		return nil, apperrors.ErrForbidden
	}

	request, err := domain.NewSolutionRequest(domain.SolutionRequestParams{
		Title:         params.Title,
		Description:   params.Description,
		RequesterID:   params.RequesterID,
		TrainingTotal: params.TrainingTotal,
		EstimatedCost: params.EstimatedCost,
	})
	if err != nil {
		return nil, err // validation errors are returned here
	}

	return s.solutionRepo.Create(ctx, request)
}

// GetSolutionRequest retrieves a specific request with authorization
func (s *SolutionService) GetSolutionRequest(ctx context.Context, requestID int64, viewerID uuid.UUID) (*domain.SolutionRequest, error) {
	canRead, err := s.authzSvc.Can(ctx, viewerID, "solutions:read")
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, apperrors.ErrForbidden
	}

	request, err := s.solutionRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.IsOwnedBy(viewerID) && !request.IsAssignedTo(viewerID) {
		canReadAll, _ := s.authzSvc.Can(ctx, viewerID, "solutions:read:all")
		if !canReadAll {
			return nil, apperrors.ErrForbidden
		}
	}

	return request, nil
}

// UpdateStatus changes a request's status with business rule enforcement
func (s *SolutionService) UpdateStatus(ctx context.Context, params ports.UpdateSolutionStatusParams) (*domain.SolutionRequest, error) {
	canUpdate, err := s.authzSvc.Can(ctx, params.ActorID, "solutions:update:status")
	if err != nil {
		return nil, err
	}
	if !canUpdate {
		return nil, apperrors.ErrForbidden
	}

	request, err := s.solutionRepo.GetByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}

	oldStatus := request.Status

	// Domain validates the transition
	if err := request.UpdateStatus(params.Status); err != nil {
		return nil, err
	}

	updated, err := s.solutionRepo.Update(ctx, request)
	if err != nil {
		return nil, err
	}

	if request.RequesterID != params.ActorID {
		s.notifyStatusUpdate(updated, params.ActorID)
	}

	go s.broadcastStatusUpdate(updated, oldStatus, params.ActorID)

	return updated, nil
}

// AssignSolutionRequest assigns a request to a reviewer
func (s *SolutionService) AssignSolutionRequest(ctx context.Context, params ports.AssignSolutionParams) (*domain.SolutionRequest, error) {
	canAssign, err := s.authzSvc.Can(ctx, params.ActorID, "solutions:assign")
	if err != nil {
		return nil, err
	}
	if !canAssign {
		return nil, apperrors.ErrForbidden
	}

	request, err := s.solutionRepo.GetByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}

	if err := request.Assign(params.AssigneeID); err != nil {
		return nil, err
	}

	return s.solutionRepo.Update(ctx, request)
}

// ListSolutionRequests retrieves requests based on user permissions
func (s *SolutionService) ListSolutionRequests(ctx context.Context, params ports.ListRequestsParams) ([]*domain.SolutionRequest, error) {
	canListAll, err := s.authzSvc.Can(ctx, params.ViewerID, "solutions:list:all")
	if err != nil {
		return nil, err
	}

	repoParams := ports.ListRequestsRepoParams{
		Limit:  int32(params.Limit),
		Offset: int32(params.Offset),
		Status: utils.ToNullString(params.Status),
	}

	if canListAll {
		return s.solutionRepo.ListPaginated(ctx, repoParams)
	}

	// Default: scope query to the requesting user's requests
	repoParams.RequesterID = pgtype.UUID{Bytes: params.ViewerID, Valid: true}
	return s.solutionRepo.ListByRequesterPaginated(ctx, repoParams)
}

// notifyStatusUpdate sends an email notification for status changes
func (s *SolutionService) notifyStatusUpdate(request *domain.SolutionRequest, actorID uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Use background context since the HTTP request may be done
		ctx := context.Background()

		s.notifier.Notify(ctx, ports.NotificationParams{
			RecipientUserID: request.RequesterID,
			Subject:         fmt.Sprintf("Your solution request status has been updated: #%d", request.ID),
			Message:         fmt.Sprintf("The status of your request '%s' was changed to %s.", request.Title, request.Status),
			RequestID:       request.ID,
		})
	}()
}

// broadcastStatusUpdate sends a real-time event for status changes
func (s *SolutionService) broadcastStatusUpdate(request *domain.SolutionRequest, oldStatus domain.SolutionStatus, actorID uuid.UUID) {
	event := domain.Event{
		Type: domain.EventSolutionStatusUpdated,
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

func (s *SolutionService) Shutdown() {
	s.wg.Wait()
}
