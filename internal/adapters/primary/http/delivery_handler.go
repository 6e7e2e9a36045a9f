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

// DeliveryHandler handles HTTP requests for delivery requests
type DeliveryHandler struct {
	deliveryService ports.DeliveryService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(
	deliveryService ports.DeliveryService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "delivery"),
	}
}

// Router sets up a new chi Router for all delivery request routes.
func (h *DeliveryHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all delivery request endpoints.
func (h *DeliveryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListDeliveryRequests)
	r.Post("/", h.HandleCreateDeliveryRequest)

	r.Route("/{requestID}", func(r chi.Router) {
		r.Get("/", h.HandleGetDeliveryRequest)
		r.Patch("/status", h.HandleUpdateStatus)
		r.Patch("/courier", h.HandleAssignCourier)
	})
}

// --- Request/Response DTOs ---

// CreateDeliveryRequestBody defines the expected JSON body for submitting
// a delivery request
type CreateDeliveryRequestBody struct {
	Title          string          `json:"title"`
	InvoicedAmount decimal.Decimal `json:"invoicedAmount"`
	CourierCost    decimal.Decimal `json:"courierCost"`
}

// Validate validates the create delivery request body
func (r *CreateDeliveryRequestBody) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.Custom("invoicedAmount", !r.InvoicedAmount.IsNegative(), "Must not be negative")
	v.Custom("courierCost", !r.CourierCost.IsNegative(), "Must not be negative")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateDeliveryStatusRequest defines the expected JSON body for status updates
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the update status request
func (r *UpdateDeliveryStatusRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("status", r.Status).
		OneOf("status", r.Status, []string{"PENDING", "WORK_IN_PROGRESS", "DELIVERED", "CANCELLED"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AssignCourierRequest defines the expected JSON body for assigning a courier
type AssignCourierRequest struct {
	CourierID string `json:"courierId"`
}

// Validate validates the assign courier request
func (r *AssignCourierRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("courierId", r.CourierID).
		UUID("courierId", r.CourierID)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// DeliveryRequestDTO defines the JSON response for delivery requests.
type DeliveryRequestDTO struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Status         string          `json:"status"`
	RequesterID    string          `json:"requesterId"`
	CourierID      *string         `json:"courierId"`
	InvoicedAmount decimal.Decimal `json:"invoicedAmount"`
	CourierCost    decimal.Decimal `json:"courierCost"`
	SubmittedAt    string          `json:"submittedAt"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      *string         `json:"updatedAt"`
	DeliveredAt    *string         `json:"deliveredAt"`
}

func toDeliveryRequestDTO(request *domain.DeliveryRequest) DeliveryRequestDTO {
	var courierID *string
	if request.CourierID != nil {
		value := request.CourierID.String()
		courierID = &value
	}

	var updatedAt *string
	if request.UpdatedAt != nil {
		value := request.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	var deliveredAt *string
	if request.DeliveredAt != nil {
		value := request.DeliveredAt.Format(time.RFC3339)
		deliveredAt = &value
	}

	return DeliveryRequestDTO{
		ID:             request.ID,
		Title:          request.Title,
		Status:         string(request.Status),
		RequesterID:    request.RequesterID.String(),
		CourierID:      courierID,
		InvoicedAmount: request.InvoicedAmount,
		CourierCost:    request.CourierCost,
		SubmittedAt:    request.SubmittedAt.Format(time.RFC3339),
		CreatedAt:      request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      updatedAt,
		DeliveredAt:    deliveredAt,
	}
}

func toDeliveryRequestDTOs(requests []*domain.DeliveryRequest) []DeliveryRequestDTO {
	response := make([]DeliveryRequestDTO, 0, len(requests))
	for _, request := range requests {
		response = append(response, toDeliveryRequestDTO(request))
	}
	return response
}

// --- Handlers ---

// HandleListDeliveryRequests handles GET /delivery-requests
func (h *DeliveryHandler) HandleListDeliveryRequests(w http.ResponseWriter, r *http.Request) {
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

	requests, err := h.deliveryService.ListDeliveryRequests(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginatedSimple(w, toDeliveryRequestDTOs(requests), pagination.Limit, pagination.Offset)
}

// HandleCreateDeliveryRequest handles POST /delivery-requests
func (h *DeliveryHandler) HandleCreateDeliveryRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateDeliveryRequestBody](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateDeliveryParams{
		Title:          req.Title,
		RequesterID:    claims.UserID,
		InvoicedAmount: req.InvoicedAmount,
		CourierCost:    req.CourierCost,
	}

	request, err := h.deliveryService.CreateDeliveryRequest(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("delivery request created",
		"request_id", request.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toDeliveryRequestDTO(request))
}

// HandleGetDeliveryRequest handles GET /delivery-requests/{requestID}
func (h *DeliveryHandler) HandleGetDeliveryRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	requestID, err := h.parseRequestID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	request, err := h.deliveryService.GetDeliveryRequest(r.Context(), requestID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toDeliveryRequestDTO(request))
}

// HandleUpdateStatus handles PATCH /delivery-requests/{requestID}/status
func (h *DeliveryHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	requestID, err := h.parseRequestID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateDeliveryStatusRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateDeliveryStatusParams{
		RequestID: requestID,
		Status:    domain.DeliveryStatus(req.Status),
		ActorID:   claims.UserID,
	}

	request, err := h.deliveryService.UpdateStatus(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("delivery request status updated",
		"request_id", requestID,
		"new_status", req.Status,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toDeliveryRequestDTO(request))
}

// HandleAssignCourier handles PATCH /delivery-requests/{requestID}/courier
func (h *DeliveryHandler) HandleAssignCourier(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	requestID, err := h.parseRequestID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AssignCourierRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	courierID, err := uuid.Parse(req.CourierID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.AssignCourierParams{
		RequestID: requestID,
		CourierID: courierID,
		ActorID:   claims.UserID,
	}

	request, err := h.deliveryService.AssignCourier(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("courier assigned",
		"request_id", requestID,
		"courier_id", courierID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toDeliveryRequestDTO(request))
}

// --- Helper methods ---

func (h *DeliveryHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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

func (h *DeliveryHandler) parseRequestID(r *http.Request) (int64, error) {
	requestIDStr := chi.URLParam(r, "requestID")
	requestID, err := strconv.ParseInt(requestIDStr, 10, 64)
	if err != nil || requestID <= 0 {
		v := validation.NewValidator()
		v.Custom("requestID", false, "Invalid request ID")
		return 0, v.Errors()
	}
	return requestID, nil
}
