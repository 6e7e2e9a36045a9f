package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	"github.com/helixlab/labtrack-backend/internal/core/metrics"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAuthorizationRepository is a mock implementation of ports.AuthorizationRepository
type MockAuthorizationRepository struct {
	mock.Mock
}

func NewMockAuthorizationRepository() *MockAuthorizationRepository {
	return &MockAuthorizationRepository{}
}

func (m *MockAuthorizationRepository) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAuthorizationRepository) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// MockTransactionManager is a mock implementation of ports.TransactionManager.
// WithTransaction records the call and runs the callback with the same context.
type MockTransactionManager struct {
	mock.Mock
}

func NewMockTransactionManager() *MockTransactionManager {
	m := &MockTransactionManager{}
	m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// MockSolutionRepository is a mock implementation of ports.SolutionRepository
type MockSolutionRepository struct {
	mock.Mock
}

func NewMockSolutionRepository() *MockSolutionRepository {
	return &MockSolutionRepository{}
}

func (m *MockSolutionRepository) Create(ctx context.Context, request *domain.SolutionRequest) (*domain.SolutionRequest, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionRepository) GetByID(ctx context.Context, id int64) (*domain.SolutionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionRepository) Update(ctx context.Context, request *domain.SolutionRequest) (*domain.SolutionRequest, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionRepository) ListPaginated(ctx context.Context, params ports.ListRequestsRepoParams) ([]*domain.SolutionRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionRepository) ListByRequesterPaginated(ctx context.Context, params ports.ListRequestsRepoParams) ([]*domain.SolutionRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SolutionRequest), args.Error(1)
}

// MockDeliveryRepository is a mock implementation of ports.DeliveryRepository
type MockDeliveryRepository struct {
	mock.Mock
}

func NewMockDeliveryRepository() *MockDeliveryRepository {
	return &MockDeliveryRepository{}
}

func (m *MockDeliveryRepository) Create(ctx context.Context, request *domain.DeliveryRequest) (*domain.DeliveryRequest, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryRepository) GetByID(ctx context.Context, id int64) (*domain.DeliveryRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, request *domain.DeliveryRequest) (*domain.DeliveryRequest, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryRepository) ListPaginated(ctx context.Context, params ports.ListRequestsRepoParams) ([]*domain.DeliveryRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryRepository) ListByRequesterPaginated(ctx context.Context, params ports.ListRequestsRepoParams) ([]*domain.DeliveryRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeliveryRequest), args.Error(1)
}

// MockMetricsRepository is a mock implementation of ports.MetricsRepository
type MockMetricsRepository struct {
	mock.Mock
}

func NewMockMetricsRepository() *MockMetricsRepository {
	return &MockMetricsRepository{}
}

func (m *MockMetricsRepository) ListSolutionRecords(ctx context.Context) ([]metrics.RawSolutionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]metrics.RawSolutionRecord), args.Error(1)
}

func (m *MockMetricsRepository) ListDeliveryRecords(ctx context.Context) ([]metrics.RawDeliveryRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]metrics.RawDeliveryRecord), args.Error(1)
}

// MockAuthorizationService is a mock implementation of ports.AuthorizationService
type MockAuthorizationService struct {
	mock.Mock
}

func NewMockAuthorizationService() *MockAuthorizationService {
	return &MockAuthorizationService{}
}

func (m *MockAuthorizationService) Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorizationService) GetPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockSolutionService is a mock implementation of ports.SolutionService
type MockSolutionService struct {
	mock.Mock
}

func NewMockSolutionService() *MockSolutionService {
	return &MockSolutionService{}
}

func (m *MockSolutionService) CreateSolutionRequest(ctx context.Context, params ports.CreateSolutionParams) (*domain.SolutionRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionService) GetSolutionRequest(ctx context.Context, requestID int64, viewerID uuid.UUID) (*domain.SolutionRequest, error) {
	args := m.Called(ctx, requestID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionService) UpdateStatus(ctx context.Context, params ports.UpdateSolutionStatusParams) (*domain.SolutionRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionService) AssignSolutionRequest(ctx context.Context, params ports.AssignSolutionParams) (*domain.SolutionRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionService) ListSolutionRequests(ctx context.Context, params ports.ListRequestsParams) ([]*domain.SolutionRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SolutionRequest), args.Error(1)
}

func (m *MockSolutionService) Shutdown() {
	m.Called()
}

// MockDeliveryService is a mock implementation of ports.DeliveryService
type MockDeliveryService struct {
	mock.Mock
}

func NewMockDeliveryService() *MockDeliveryService {
	return &MockDeliveryService{}
}

func (m *MockDeliveryService) CreateDeliveryRequest(ctx context.Context, params ports.CreateDeliveryParams) (*domain.DeliveryRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryService) GetDeliveryRequest(ctx context.Context, requestID int64, viewerID uuid.UUID) (*domain.DeliveryRequest, error) {
	args := m.Called(ctx, requestID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryService) UpdateStatus(ctx context.Context, params ports.UpdateDeliveryStatusParams) (*domain.DeliveryRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryService) AssignCourier(ctx context.Context, params ports.AssignCourierParams) (*domain.DeliveryRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryService) ListDeliveryRequests(ctx context.Context, params ports.ListRequestsParams) ([]*domain.DeliveryRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeliveryRequest), args.Error(1)
}

func (m *MockDeliveryService) Shutdown() {
	m.Called()
}

// MockMetricsService is a mock implementation of ports.MetricsService
type MockMetricsService struct {
	mock.Mock
}

func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) GetRequestMetrics(ctx context.Context, params ports.MetricsParams) (*metrics.Result, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metrics.Result), args.Error(1)
}

// MockNotifier is a mock implementation of ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, params ports.NotificationParams) {
	m.Called(ctx, params)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
