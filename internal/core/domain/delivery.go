package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
)

// DeliveryStatus represents the lifecycle state of a delivery request.
type DeliveryStatus string

const (
	DeliveryStatusPending        DeliveryStatus = "PENDING"
	DeliveryStatusWorkInProgress DeliveryStatus = "WORK_IN_PROGRESS"
	DeliveryStatusDelivered      DeliveryStatus = "DELIVERED"
	DeliveryStatusCancelled      DeliveryStatus = "CANCELLED"
)

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusPending:        {DeliveryStatusWorkInProgress, DeliveryStatusCancelled},
	DeliveryStatusWorkInProgress: {DeliveryStatusDelivered, DeliveryStatusCancelled},
	DeliveryStatusDelivered:      {},
	DeliveryStatusCancelled:      {},
}

// DeliveryRequest is a request to have lab materials delivered, with
// the invoiced amount and the cost of the courier leg.
type DeliveryRequest struct {
	ID             int64
	Title          string
	Status         DeliveryStatus
	RequesterID    uuid.UUID
	CourierID      *uuid.UUID
	InvoicedAmount decimal.Decimal
	CourierCost    decimal.Decimal
	SubmittedAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeliveredAt    *time.Time
}

// DeliveryRequestParams holds the caller-supplied fields for creation.
type DeliveryRequestParams struct {
	Title          string
	RequesterID    uuid.UUID
	InvoicedAmount decimal.Decimal
	CourierCost    decimal.Decimal
	SubmittedAt    *time.Time
}

// NewDeliveryRequest is a factory function to create a valid new request.
func NewDeliveryRequest(params DeliveryRequestParams) (*DeliveryRequest, error) {
	if params.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if len(params.Title) > MaxTitleLength {
		return nil, apperrors.ErrTitleTooLong
	}
	if params.RequesterID == uuid.Nil {
		return nil, apperrors.ErrRequesterRequired
	}
	if params.InvoicedAmount.IsNegative() || params.CourierCost.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	submittedAt := time.Now().UTC()
	if params.SubmittedAt != nil {
		submittedAt = params.SubmittedAt.UTC()
	}

	return &DeliveryRequest{
		Title:          params.Title,
		Status:         DeliveryStatusPending,
		RequesterID:    params.RequesterID,
		InvoicedAmount: params.InvoicedAmount,
		CourierCost:    params.CourierCost,
		SubmittedAt:    submittedAt,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// IsValidDeliveryStatus reports whether s is a known status value.
func IsValidDeliveryStatus(s DeliveryStatus) bool {
	_, ok := deliveryTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s DeliveryStatus) IsTerminal() bool {
	allowed, ok := deliveryTransitions[s]
	return ok && len(allowed) == 0
}

// UpdateStatus changes the request's status, enforcing the state machine.
// Reaching DELIVERED stamps the delivery time.
func (r *DeliveryRequest) UpdateStatus(newStatus DeliveryStatus) error {
	allowed, ok := deliveryTransitions[r.Status]
	if !ok {
		return apperrors.ErrInvalidStatusTransition
	}

	for _, s := range allowed {
		if s == newStatus {
			r.Status = newStatus
			now := time.Now().UTC()
			r.UpdatedAt = &now
			if newStatus == DeliveryStatusDelivered {
				r.DeliveredAt = &now
			}
			return nil
		}
	}

	return apperrors.ErrInvalidStatusTransition
}

// AssignCourier sets or changes the courier handling the delivery.
func (r *DeliveryRequest) AssignCourier(courierID uuid.UUID) error {
	if r.Status.IsTerminal() {
		return apperrors.ErrCannotAssignTerminal
	}
	r.CourierID = &courierID
	now := time.Now().UTC()
	r.UpdatedAt = &now
	return nil
}

// IsOwnedBy reports whether the given user submitted this request.
func (r *DeliveryRequest) IsOwnedBy(userID uuid.UUID) bool {
	return r.RequesterID == userID
}
