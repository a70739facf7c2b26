package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/validation"
	"fintrack-backend/pkg/utils"
)

// AuthService is the slice of the user service the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
}

type AuthHandler struct {
	Service AuthService
}

func NewAuthHandler(s AuthService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	authResp, err := h.Service.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}
	utils.Created(w, "Account created", authResp)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}
	utils.OK(w, "Login successful", authResp)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}
	utils.OK(w, "", user)
}
