package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	mw "github.com/helixlab/labtrack-backend/internal/adapters/primary/http/middleware"
	"github.com/helixlab/labtrack-backend/internal/adapters/primary/validation"
	"github.com/helixlab/labtrack-backend/internal/auth"
	"github.com/helixlab/labtrack-backend/internal/core/domain"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

const maxRequestsPerPage = 100

// SolutionHandler handles HTTP requests for solution requests
type SolutionHandler struct {
	solutionService ports.SolutionService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewSolutionHandler creates a new solution handler
func NewSolutionHandler(
	solutionService ports.SolutionService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *SolutionHandler {
	return &SolutionHandler{
		solutionService: solutionService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "solution"),
	}
}

// Router sets up a new chi Router for all solution request routes.
func (h *SolutionHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all solution request endpoints.
func (h *SolutionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListSolutionRequests)
	r.Post("/", h.HandleCreateSolutionRequest)

	r.Route("/{requestID}", func(r chi.Router) {
		r.Get("/", h.HandleGetSolutionRequest)
		r.Patch("/status", h.HandleUpdateStatus)
		r.Patch("/assignee", h.HandleAssignSolutionRequest)
	})
}

// --- Request/Response DTOs ---

// CreateSolutionRequestBody defines the expected JSON body for submitting
// a solution request
type CreateSolutionRequestBody struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	TrainingTotal decimal.Decimal `json:"trainingTotal"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
}

// Validate validates the create solution request body
func (r *CreateSolutionRequestBody) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)

	v.Custom("trainingTotal", !r.TrainingTotal.IsNegative(), "Must not be negative")
	v.Custom("estimatedCost", !r.EstimatedCost.IsNegative(), "Must not be negative")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateStatusRequest defines the expected JSON body for status updates
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the update status request
func (r *UpdateStatusRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("status", r.Status).
		OneOf("status", r.Status, []string{"SUBMITTED", "IN_REVIEW", "APPROVED", "REJECTED", "COMPLETED"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AssignRequest defines the expected JSON body for assigning a reviewer
type AssignRequest struct {
	AssigneeID string `json:"assigneeId"`
}

// Validate validates the assign request
func (r *AssignRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("assigneeId", r.AssigneeID).
		UUID("assigneeId", r.AssigneeID)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// SolutionRequestDTO defines the JSON response for solution requests.
type SolutionRequestDTO struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	RequesterID   string          `json:"requesterId"`
	AssigneeID    *string         `json:"assigneeId"`
	TrainingTotal decimal.Decimal `json:"trainingTotal"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	SubmittedAt   string          `json:"submittedAt"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     *string         `json:"updatedAt"`
}

func toSolutionRequestDTO(request *domain.SolutionRequest) SolutionRequestDTO {
	var assigneeID *string
	if request.AssigneeID != nil {
		value := request.AssigneeID.String()
		assigneeID = &value
	}

	var updatedAt *string
	if request.UpdatedAt != nil {
		value := request.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return SolutionRequestDTO{
		ID:            request.ID,
		Title:         request.Title,
		Description:   request.Description,
		Status:        string(request.Status),
		RequesterID:   request.RequesterID.String(),
		AssigneeID:    assigneeID,
		TrainingTotal: request.TrainingTotal,
		EstimatedCost: request.EstimatedCost,
		SubmittedAt:   request.SubmittedAt.Format(time.RFC3339),
		CreatedAt:     request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     updatedAt,
	}
}

func toSolutionRequestDTOs(requests []*domain.SolutionRequest) []SolutionRequestDTO {
	response := make([]SolutionRequestDTO, 0, len(requests))
	for _, request := range requests {
		response = append(response, toSolutionRequestDTO(request))
	}
	return response
}

// --- Handlers ---

// HandleListSolutionRequests handles GET /solution-requests
func (h *SolutionHandler) HandleListSolutionRequests(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxRequestsPerPage)
	status := validation.ParseStringQueryParam(r, "status")

	params := ports.ListRequestsParams{
		ViewerID: claims.UserID,
		Limit:    pagination.Limit + 1,
		Offset:   pagination.Offset,
		Status:   status,
	}

	requests, err := h.solutionService.ListSolutionRequests(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginatedSimple(w, toSolutionRequestDTOs(requests), pagination.Limit, pagination.Offset)
}

// HandleCreateSolutionRequest handles POST /solution-requests
func (h *SolutionHandler) HandleCreateSolutionRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateSolutionRequestBody](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateSolutionParams{
		Title:         req.Title,
		Description:   req.Description,
		RequesterID:   claims.UserID,
		TrainingTotal: req.TrainingTotal,
		EstimatedCost: req.EstimatedCost,
	}

	request, err := h.solutionService.CreateSolutionRequest(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("solution request created",
		"request_id", request.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toSolutionRequestDTO(request))
}

// HandleGetSolutionRequest handles GET /solution-requests/{requestID}
func (h *SolutionHandler) HandleGetSolutionRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	requestID, err := h.parseRequestID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	request, err := h.solutionService.GetSolutionRequest(r.Context(), requestID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toSolutionRequestDTO(request))
}

// HandleUpdateStatus handles PATCH /solution-requests/{requestID}/status
func (h *SolutionHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	requestID, err := h.parseRequestID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateStatusRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateSolutionStatusParams{
		RequestID: requestID,
		Status:    domain.SolutionStatus(req.Status),
		ActorID:   claims.UserID,
	}

	request, err := h.solutionService.UpdateStatus(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("solution request status updated",
		"request_id", requestID,
		"new_status", req.Status,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toSolutionRequestDTO(request))
}

// HandleAssignSolutionRequest handles PATCH /solution-requests/{requestID}/assignee
func (h *SolutionHandler) HandleAssignSolutionRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	requestID, err := h.parseRequestID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AssignRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	assigneeID, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.AssignSolutionParams{
		RequestID:  requestID,
		AssigneeID: assigneeID,
		ActorID:    claims.UserID,
	}

	request, err := h.solutionService.AssignSolutionRequest(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("solution request assigned",
		"request_id", requestID,
		"assignee_id", assigneeID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toSolutionRequestDTO(request))
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *SolutionHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// parseRequestID extracts and validates the request ID from the URL
func (h *SolutionHandler) parseRequestID(r *http.Request) (int64, error) {
	requestIDStr := chi.URLParam(r, "requestID")
	requestID, err := strconv.ParseInt(requestIDStr, 10, 64)
	if err != nil || requestID <= 0 {
		v := validation.NewValidator()
		v.Custom("requestID", false, "Invalid request ID")
		return 0, v.Errors()
	}
	return requestID, nil
}
