package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
)

func createTestDeliveryRequest(t *testing.T, requester *domain.User) *domain.DeliveryRequest {
	t.Helper()

	repo := NewDeliveryRepository(testPool)

	request, err := domain.NewDeliveryRequest(domain.DeliveryRequestParams{
		Title:          "Reagent shipment",
		RequesterID:    requester.ID,
		InvoicedAmount: decimal.RequireFromString("89.99"),
		CourierCost:    decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)

	created, err := repo.Create(context.Background(), request)
	require.NoError(t, err, "Failed to create delivery request")
	return created
}

func TestDeliveryRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewDeliveryRepository(testPool)

	requester := createTestUser(t)
	created := createTestDeliveryRequest(t, requester)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err, "Failed to get delivery request")

	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, domain.DeliveryStatusPending, found.Status)
	assert.Nil(t, found.CourierID)
	assert.Nil(t, found.DeliveredAt)
	assert.True(t, found.InvoicedAmount.Equal(decimal.RequireFromString("89.99")),
		"expected 89.99, got %s", found.InvoicedAmount)
}

func TestDeliveryRepository_Update_StampsDeliveredAt(t *testing.T) {
	ctx := context.Background()
	repo := NewDeliveryRepository(testPool)

	requester := createTestUser(t)
	courier := createTestUser(t)
	created := createTestDeliveryRequest(t, requester)

	require.NoError(t, created.UpdateStatus(domain.DeliveryStatusWorkInProgress))
	require.NoError(t, created.AssignCourier(courier.ID))
	require.NoError(t, created.UpdateStatus(domain.DeliveryStatusDelivered))

	updated, err := repo.Update(ctx, created)
	require.NoError(t, err, "Failed to update delivery request")

	assert.Equal(t, domain.DeliveryStatusDelivered, updated.Status)
	require.NotNil(t, updated.CourierID)
	assert.Equal(t, courier.ID, *updated.CourierID)
	require.NotNil(t, updated.DeliveredAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, updated.UpdatedAt.UTC(), updated.DeliveredAt.UTC())
}

func TestDeliveryRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewDeliveryRepository(testPool)

	_, err := repo.GetByID(ctx, 999999)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDeliveryRequestNotFound)
}
