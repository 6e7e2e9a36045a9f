package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
	"github.com/helixlab/labtrack-backend/internal/core/mocks"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
	"github.com/helixlab/labtrack-backend/internal/core/services"
)

func newDeliveryService(repo *mocks.MockDeliveryRepository, authz *mocks.MockAuthorizationService) ports.DeliveryService {
	return services.NewDeliveryService(repo, authz, mocks.NewMockNotifier(), mocks.NewMockEventBroadcaster())
}

func TestDeliveryService_AssignCourier(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	courierID := uuid.New()
	requestID := int64(7)

	t.Run("success", func(t *testing.T) {
		mockRepo := mocks.NewMockDeliveryRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		svc := newDeliveryService(mockRepo, mockAuthz)

		mockAuthz.On("Can", ctx, actorID, "deliveries:assign").Return(true, nil)
		mockRepo.On("GetByID", ctx, requestID).
			Return(&domain.DeliveryRequest{ID: requestID, Status: domain.DeliveryStatusPending}, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.DeliveryRequest) bool {
			return r.CourierID != nil && *r.CourierID == courierID
		})).Return(&domain.DeliveryRequest{ID: requestID, CourierID: &courierID}, nil)

		updated, err := svc.AssignCourier(ctx, ports.AssignCourierParams{
			RequestID: requestID,
			CourierID: courierID,
			ActorID:   actorID,
		})

		require.NoError(t, err)
		require.NotNil(t, updated.CourierID)
		assert.Equal(t, courierID, *updated.CourierID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("terminal request cannot be assigned", func(t *testing.T) {
		mockRepo := mocks.NewMockDeliveryRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		svc := newDeliveryService(mockRepo, mockAuthz)

		mockAuthz.On("Can", ctx, actorID, "deliveries:assign").Return(true, nil)
		mockRepo.On("GetByID", ctx, requestID).
			Return(&domain.DeliveryRequest{ID: requestID, Status: domain.DeliveryStatusCancelled}, nil)

		updated, err := svc.AssignCourier(ctx, ports.AssignCourierParams{
			RequestID: requestID,
			CourierID: courierID,
			ActorID:   actorID,
		})

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, apperrors.ErrCannotAssignTerminal)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("forbidden without assign permission", func(t *testing.T) {
		mockRepo := mocks.NewMockDeliveryRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		svc := newDeliveryService(mockRepo, mockAuthz)

		mockAuthz.On("Can", ctx, actorID, "deliveries:assign").Return(false, nil)

		updated, err := svc.AssignCourier(ctx, ports.AssignCourierParams{
			RequestID: requestID,
			CourierID: courierID,
			ActorID:   actorID,
		})

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "GetByID")
	})
}

func TestDeliveryService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	ownerID := uuid.New()
	requestID := int64(7)

	t.Run("delivered transition stamps delivered at", func(t *testing.T) {
		mockRepo := mocks.NewMockDeliveryRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		mockNotifier := mocks.NewMockNotifier()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewDeliveryService(mockRepo, mockAuthz, mockNotifier, mockBroadcaster)

		mockAuthz.On("Can", ctx, actorID, "deliveries:update:status").Return(true, nil)
		mockRepo.On("GetByID", ctx, requestID).
			Return(&domain.DeliveryRequest{ID: requestID, Title: "Reagents", Status: domain.DeliveryStatusWorkInProgress, RequesterID: ownerID}, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.DeliveryRequest) bool {
			return r.Status == domain.DeliveryStatusDelivered && r.DeliveredAt != nil
		})).Return(&domain.DeliveryRequest{ID: requestID, Title: "Reagents", Status: domain.DeliveryStatusDelivered, RequesterID: ownerID}, nil)
		mockNotifier.On("Notify", mock.Anything, mock.AnythingOfType("ports.NotificationParams")).Maybe()
		mockBroadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).Return(nil).Maybe()

		updated, err := svc.UpdateStatus(ctx, ports.UpdateDeliveryStatusParams{
			RequestID: requestID,
			Status:    domain.DeliveryStatusDelivered,
			ActorID:   actorID,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.DeliveryStatusDelivered, updated.Status)

		svc.Shutdown()
	})

	t.Run("pending cannot jump straight to delivered", func(t *testing.T) {
		mockRepo := mocks.NewMockDeliveryRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		svc := newDeliveryService(mockRepo, mockAuthz)

		mockAuthz.On("Can", ctx, actorID, "deliveries:update:status").Return(true, nil)
		mockRepo.On("GetByID", ctx, requestID).
			Return(&domain.DeliveryRequest{ID: requestID, Status: domain.DeliveryStatusPending, RequesterID: ownerID}, nil)

		updated, err := svc.UpdateStatus(ctx, ports.UpdateDeliveryStatusParams{
			RequestID: requestID,
			Status:    domain.DeliveryStatusDelivered,
			ActorID:   actorID,
		})

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestDeliveryService_ListDeliveryRequests(t *testing.T) {
	ctx := context.Background()
	viewerID := uuid.New()

	t.Run("plain viewer only sees own requests", func(t *testing.T) {
		mockRepo := mocks.NewMockDeliveryRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		svc := newDeliveryService(mockRepo, mockAuthz)

		mockAuthz.On("Can", ctx, viewerID, "deliveries:list:all").Return(false, nil)
		mockRepo.On("ListByRequesterPaginated", ctx, mock.AnythingOfType("ports.ListRequestsRepoParams")).
			Return([]*domain.DeliveryRequest{{ID: 1, RequesterID: viewerID}}, nil)

		requests, err := svc.ListDeliveryRequests(ctx, ports.ListRequestsParams{ViewerID: viewerID, Limit: 20})

		require.NoError(t, err)
		assert.Len(t, requests, 1)
		mockRepo.AssertNotCalled(t, "ListPaginated")
	})
}
