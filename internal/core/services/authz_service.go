package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// AuthorizationService implements the business logic for RBAC.
type AuthorizationService struct {
	authRepo ports.AuthorizationRepository
}

var _ ports.AuthorizationService = (*AuthorizationService)(nil)

// NewAuthorizationService creates a new service for authorization logic.
func NewAuthorizationService(authRepo ports.AuthorizationRepository) ports.AuthorizationService {
	return &AuthorizationService{
		authRepo: authRepo,
	}
}

// Can checks if a user has a specific permission.
func (s *AuthorizationService) Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	userPermissions, err := s.ensurePermissions(ctx, userID)
	if err != nil {
		// If permissions cannot be fetched, deny access.
		return false, err
	}

	for _, p := range userPermissions {
		if p == permission {
			return true, nil
		}
	}

	return false, nil
}

// GetPermissions returns all permissions for a user.
func (s *AuthorizationService) GetPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.ensurePermissions(ctx, userID)
}

// ensurePermissions fetches the user's permissions, bootstrapping the
// default role for users that have none yet.
func (s *AuthorizationService) ensurePermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	permissions, err := s.authRepo.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(permissions) == 0 {
		if err := s.authRepo.AssignRole(ctx, userID, defaultRole); err != nil && !errors.Is(err, apperrors.ErrRoleAlreadyAssigned) {
			return nil, err
		}

		permissions, err = s.authRepo.GetUserPermissions(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if permissions == nil {
		return []string{}, nil
	}

	return permissions, nil
}
