package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixlab/labtrack-backend/internal/core/domain"
	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
)

func TestNewSolutionRequest(t *testing.T) {
	validRequesterID := uuid.New()

	tests := []struct {
		name      string
		params    domain.SolutionRequestParams
		wantError error
	}{
		{
			name: "valid request",
			params: domain.SolutionRequestParams{
				Title:         "Calibration training package",
				Description:   "Quarterly calibration training for the wet lab",
				RequesterID:   validRequesterID,
				TrainingTotal: decimal.NewFromInt(1000),
				EstimatedCost: decimal.NewFromInt(800),
			},
		},
		{
			name: "missing title",
			params: domain.SolutionRequestParams{
				RequesterID:   validRequesterID,
				TrainingTotal: decimal.NewFromInt(1000),
			},
			wantError: apperrors.ErrTitleRequired,
		},
		{
			name: "title too long",
			params: domain.SolutionRequestParams{
				Title:       strings.Repeat("a", 256),
				RequesterID: validRequesterID,
			},
			wantError: apperrors.ErrTitleTooLong,
		},
		{
			name: "description too long",
			params: domain.SolutionRequestParams{
				Title:       "Valid title",
				Description: strings.Repeat("a", 10001),
				RequesterID: validRequesterID,
			},
			wantError: apperrors.ErrDescriptionTooLong,
		},
		{
			name: "missing requester ID",
			params: domain.SolutionRequestParams{
				Title: "Valid title",
			},
			wantError: apperrors.ErrRequesterRequired,
		},
		{
			name: "negative training total",
			params: domain.SolutionRequestParams{
				Title:         "Valid title",
				RequesterID:   validRequesterID,
				TrainingTotal: decimal.NewFromInt(-1),
			},
			wantError: apperrors.ErrNegativeAmount,
		},
		{
			name: "negative estimated cost",
			params: domain.SolutionRequestParams{
				Title:         "Valid title",
				RequesterID:   validRequesterID,
				EstimatedCost: decimal.NewFromInt(-1),
			},
			wantError: apperrors.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := domain.NewSolutionRequest(tt.params)

			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, request)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, request)
			assert.Equal(t, tt.params.Title, request.Title)
			assert.Equal(t, domain.SolutionStatusSubmitted, request.Status)
			assert.Equal(t, tt.params.RequesterID, request.RequesterID)
			assert.False(t, request.SubmittedAt.IsZero())
		})
	}
}

func TestSolutionRequest_UpdateStatus(t *testing.T) {
	tests := []struct {
		name          string
		initialStatus domain.SolutionStatus
		newStatus     domain.SolutionStatus
		expectError   bool
	}{
		{"SUBMITTED to IN_REVIEW", domain.SolutionStatusSubmitted, domain.SolutionStatusInReview, false},
		{"SUBMITTED to APPROVED skips review", domain.SolutionStatusSubmitted, domain.SolutionStatusApproved, true},
		{"IN_REVIEW to APPROVED", domain.SolutionStatusInReview, domain.SolutionStatusApproved, false},
		{"IN_REVIEW to REJECTED", domain.SolutionStatusInReview, domain.SolutionStatusRejected, false},
		{"IN_REVIEW to COMPLETED skips approval", domain.SolutionStatusInReview, domain.SolutionStatusCompleted, true},
		{"APPROVED to COMPLETED", domain.SolutionStatusApproved, domain.SolutionStatusCompleted, false},
		{"REJECTED is terminal", domain.SolutionStatusRejected, domain.SolutionStatusInReview, true},
		{"COMPLETED is terminal", domain.SolutionStatusCompleted, domain.SolutionStatusSubmitted, true},
		{"unknown target status", domain.SolutionStatusSubmitted, domain.SolutionStatus("ARCHIVED"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := &domain.SolutionRequest{
				ID:          1,
				Title:       "Test",
				Status:      tt.initialStatus,
				RequesterID: uuid.New(),
			}

			err := request.UpdateStatus(tt.newStatus)

			if tt.expectError {
				assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
				assert.Equal(t, tt.initialStatus, request.Status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.newStatus, request.Status)
				assert.NotNil(t, request.UpdatedAt)
			}
		})
	}
}

func TestSolutionStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.SolutionStatusSubmitted.IsTerminal())
	assert.False(t, domain.SolutionStatusInReview.IsTerminal())
	assert.False(t, domain.SolutionStatusApproved.IsTerminal())
	assert.True(t, domain.SolutionStatusRejected.IsTerminal())
	assert.True(t, domain.SolutionStatusCompleted.IsTerminal())
}

func TestIsValidSolutionStatus(t *testing.T) {
	assert.True(t, domain.IsValidSolutionStatus(domain.SolutionStatusSubmitted))
	assert.False(t, domain.IsValidSolutionStatus(domain.SolutionStatus("OPEN")))
	assert.False(t, domain.IsValidSolutionStatus(domain.SolutionStatus("")))
}

func TestSolutionRequest_Assign(t *testing.T) {
	assigneeID := uuid.New()

	tests := []struct {
		name        string
		status      domain.SolutionStatus
		expectError bool
	}{
		{"assign while SUBMITTED", domain.SolutionStatusSubmitted, false},
		{"assign while IN_REVIEW", domain.SolutionStatusInReview, false},
		{"assign while REJECTED", domain.SolutionStatusRejected, true},
		{"assign while COMPLETED", domain.SolutionStatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := &domain.SolutionRequest{
				ID:          1,
				Title:       "Test",
				Status:      tt.status,
				RequesterID: uuid.New(),
			}

			err := request.Assign(assigneeID)

			if tt.expectError {
				assert.ErrorIs(t, err, apperrors.ErrCannotAssignTerminal)
				assert.Nil(t, request.AssigneeID)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, request.AssigneeID)
				assert.Equal(t, assigneeID, *request.AssigneeID)
			}
		})
	}
}

func TestSolutionRequest_Ownership(t *testing.T) {
	ownerID := uuid.New()
	assigneeID := uuid.New()
	otherID := uuid.New()

	request := &domain.SolutionRequest{
		ID:          1,
		RequesterID: ownerID,
		AssigneeID:  &assigneeID,
	}

	assert.True(t, request.IsOwnedBy(ownerID))
	assert.False(t, request.IsOwnedBy(otherID))
	assert.True(t, request.IsAssignedTo(assigneeID))
	assert.False(t, request.IsAssignedTo(otherID))

	unassigned := &domain.SolutionRequest{ID: 2, RequesterID: ownerID}
	assert.False(t, unassigned.IsAssignedTo(assigneeID))
}
