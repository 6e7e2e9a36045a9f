package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
)

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	tm := NewTransactionManager(testPool)
	userRepo := NewUserRepository(testPool)
	authRepo := NewAuthorizationRepository(testPool)

	email := fmt.Sprintf("tx-user-%s@example.com", uuid.NewString())
	user, err := domain.NewUser(domain.UserRegistrationParams{
		FullName: "Tx User",
		Email:    email,
		Password: "Password123",
	}, uuid.New())
	require.NoError(t, err)

	var createdID uuid.UUID
	err = tm.WithTransaction(ctx, func(txCtx context.Context) error {
		created, err := userRepo.Create(txCtx, user)
		if err != nil {
			return err
		}
		createdID = created.ID
		return authRepo.AssignRole(txCtx, created.ID, "researcher")
	})
	require.NoError(t, err)

	// Both writes are visible after commit.
	found, err := userRepo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, createdID, found.ID)

	perms, err := authRepo.GetUserPermissions(ctx, createdID)
	require.NoError(t, err)
	assert.Contains(t, perms, "solutions:create")
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	tm := NewTransactionManager(testPool)
	userRepo := NewUserRepository(testPool)

	email := fmt.Sprintf("tx-rollback-%s@example.com", uuid.NewString())
	user, err := domain.NewUser(domain.UserRegistrationParams{
		FullName: "Rollback User",
		Email:    email,
		Password: "Password123",
	}, uuid.New())
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tm.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := userRepo.Create(txCtx, user); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The insert inside the failed transaction must not be visible.
	_, err = userRepo.GetByEmail(ctx, email)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
