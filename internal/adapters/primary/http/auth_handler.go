package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/helixlab/labtrack-backend/internal/adapters/primary/validation"
	"github.com/helixlab/labtrack-backend/internal/auth"
	"github.com/helixlab/labtrack-backend/internal/core/domain"
	"github.com/helixlab/labtrack-backend/internal/core/ports"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService ports.AuthService,
	tokenManager *auth.TokenManager,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// Router sets up a new chi Router for authentication routes.
func (h *AuthHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for authentication endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
}

// --- Request/Response DTOs ---

// RegisterRequest defines the expected JSON body for registration
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	LabID    string `json:"labId,omitempty"`
}

// Validate runs surface-level validation; the domain layer enforces
// password strength and name constraints.
func (r *RegisterRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("fullName", r.FullName)
	v.Required("email", r.Email).
		Email("email", r.Email)
	v.Required("password", r.Password)
	if r.LabID != "" {
		v.UUID("labId", r.LabID)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// LoginRequest defines the expected JSON body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request
func (r *LoginRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email)
	v.Required("password", r.Password)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UserDTO defines the JSON representation of a user
type UserDTO struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	LabID    string `json:"labId"`
}

// TokenResponse carries the issued access token and its subject
type TokenResponse struct {
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	User        UserDTO `json:"user"`
}

func toUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:       user.ID.String(),
		FullName: user.FullName,
		Email:    user.Email,
		LabID:    user.LabID.String(),
	}
}

// --- Handlers ---

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[RegisterRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var labID uuid.UUID
	if req.LabID != "" {
		parsed, err := uuid.Parse(req.LabID)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
		labID = parsed
	}

	user, err := h.authService.Register(r.Context(), req.FullName, req.Email, req.Password, labID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user registered",
		"user_id", user.ID,
		"lab_id", user.LabID,
	)

	token, err := h.tokenManager.GenerateToken(user.ID, user.LabID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteCreated(w, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        toUserDTO(user),
	})
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(user.ID, user.LabID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)

	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        toUserDTO(user),
	})
}
