package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/helixlab/labtrack-backend/internal/core/errors"
)

// Field length constants shared by both request families.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 10000
)

// SolutionStatus represents the lifecycle state of a solution request.
type SolutionStatus string

const (
	SolutionStatusSubmitted SolutionStatus = "SUBMITTED"
	SolutionStatusInReview  SolutionStatus = "IN_REVIEW"
	SolutionStatusApproved  SolutionStatus = "APPROVED"
	SolutionStatusRejected  SolutionStatus = "REJECTED"
	SolutionStatusCompleted SolutionStatus = "COMPLETED"
)

// solutionTransitions defines the valid state machine. Terminal states
// have no outgoing edges.
var solutionTransitions = map[SolutionStatus][]SolutionStatus{
	SolutionStatusSubmitted: {SolutionStatusInReview},
	SolutionStatusInReview:  {SolutionStatusApproved, SolutionStatusRejected},
	SolutionStatusApproved:  {SolutionStatusCompleted},
	SolutionStatusRejected:  {},
	SolutionStatusCompleted: {},
}

// SolutionRequest is a lab solution request: a proposal with an
// associated training budget that moves through review.
type SolutionRequest struct {
	ID            int64
	Title         string
	Description   string
	Status        SolutionStatus
	RequesterID   uuid.UUID
	AssigneeID    *uuid.UUID
	TrainingTotal decimal.Decimal
	EstimatedCost decimal.Decimal
	SubmittedAt   time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// SolutionRequestParams holds the caller-supplied fields for creation.
type SolutionRequestParams struct {
	Title         string
	Description   string
	RequesterID   uuid.UUID
	TrainingTotal decimal.Decimal
	EstimatedCost decimal.Decimal
	SubmittedAt   *time.Time
}

// NewSolutionRequest is a factory function to create a valid new request.
func NewSolutionRequest(params SolutionRequestParams) (*SolutionRequest, error) {
	if params.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if len(params.Title) > MaxTitleLength {
		return nil, apperrors.ErrTitleTooLong
	}
	if len(params.Description) > MaxDescriptionLength {
		return nil, apperrors.ErrDescriptionTooLong
	}
	if params.RequesterID == uuid.Nil {
		return nil, apperrors.ErrRequesterRequired
	}
	if params.TrainingTotal.IsNegative() || params.EstimatedCost.IsNegative() {
		return nil, apperrors.ErrNegativeAmount
	}

	submittedAt := time.Now().UTC()
	if params.SubmittedAt != nil {
		submittedAt = params.SubmittedAt.UTC()
	}

	return &SolutionRequest{
		Title:         params.Title,
		Description:   params.Description,
		Status:        SolutionStatusSubmitted,
		RequesterID:   params.RequesterID,
		TrainingTotal: params.TrainingTotal,
		EstimatedCost: params.EstimatedCost,
		SubmittedAt:   submittedAt,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// IsValidSolutionStatus reports whether s is a known status value.
func IsValidSolutionStatus(s SolutionStatus) bool {
	_, ok := solutionTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s SolutionStatus) IsTerminal() bool {
	allowed, ok := solutionTransitions[s]
	return ok && len(allowed) == 0
}

// UpdateStatus changes the request's status, enforcing the state machine.
func (r *SolutionRequest) UpdateStatus(newStatus SolutionStatus) error {
	allowed, ok := solutionTransitions[r.Status]
	if !ok {
		return apperrors.ErrInvalidStatusTransition
	}

	for _, s := range allowed {
		if s == newStatus {
			r.Status = newStatus
			r.touch()
			return nil
		}
	}

	return apperrors.ErrInvalidStatusTransition
}

// Assign sets or changes the reviewer assigned to the request.
func (r *SolutionRequest) Assign(assigneeID uuid.UUID) error {
	if r.Status.IsTerminal() {
		return apperrors.ErrCannotAssignTerminal
	}
	r.AssigneeID = &assigneeID
	r.touch()
	return nil
}

// IsOwnedBy reports whether the given user submitted this request.
func (r *SolutionRequest) IsOwnedBy(userID uuid.UUID) bool {
	return r.RequesterID == userID
}

// IsAssignedTo reports whether the given user is the current assignee.
func (r *SolutionRequest) IsAssignedTo(userID uuid.UUID) bool {
	return r.AssigneeID != nil && *r.AssigneeID == userID
}

func (r *SolutionRequest) touch() {
	now := time.Now().UTC()
	r.UpdatedAt = &now
}
