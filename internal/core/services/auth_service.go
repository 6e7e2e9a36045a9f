package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// defaultRole is granted to every newly registered user.
const defaultRole = "researcher"

// AuthService implements authentication business logic
type AuthService struct {
	userRepo     ports.UserRepository
	authzRepo    ports.AuthorizationRepository
	txManager    ports.TransactionManager
	defaultLabID uuid.UUID
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo ports.UserRepository,
	authzRepo ports.AuthorizationRepository,
	txManager ports.TransactionManager,
	defaultLabID uuid.UUID,
) ports.AuthService {
	return &AuthService{
		userRepo:     userRepo,
		authzRepo:    authzRepo,
		txManager:    txManager,
		defaultLabID: defaultLabID,
	}
}

// Register creates a new user account with validated credentials
func (s *AuthService) Register(ctx context.Context, fullName, email, password string, labID uuid.UUID) (*domain.User, error) {
	params := domain.UserRegistrationParams{
		FullName: fullName,
		Email:    email,
		Password: password,
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err // an actual DB error occurred
	}

	targetLabID := labID
	if targetLabID == uuid.Nil {
		targetLabID = s.defaultLabID
	}

	user, err := domain.NewUser(params, targetLabID)
	if err != nil {
		return nil, err
	}

	// Create the account and grant the default role atomically; a user
	// without any role would be locked out of every endpoint.
	var created *domain.User
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.userRepo.Create(txCtx, user)
		if txErr != nil {
			return txErr
		}
		return s.authzRepo.AssignRole(txCtx, created.ID, defaultRole)
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Login authenticates a user with email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Don't reveal whether email exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}
