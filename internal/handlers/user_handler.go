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

// ProfileService is the slice of the user service the account-management
// endpoints need.
type ProfileService interface {
	UpdateProfile(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, id int, req *models.ChangePasswordRequest) error
	UpdateSalary(ctx context.Context, id int, req *models.UpdateSalaryRequest) (*models.User, error)
	GetSettings(ctx context.Context, id int) (map[string]any, error)
	UpdateSettings(ctx context.Context, id int, settings map[string]any) (map[string]any, error)
}

type UserHandler struct {
	Service ProfileService
}

func NewUserHandler(s ProfileService) *UserHandler {
	return &UserHandler{Service: s}
}

// UpdateProfile changes the authenticated user's name and/or email
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	user, err := h.Service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}
	utils.OK(w, "Profile updated", user)
}

// ChangePassword verifies the current password before setting a new one
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), userID, &req); err != nil {
		respondServiceError(w, err, "User not found")
		return
	}
	utils.OK(w, "Password changed", nil)
}

// UpdateSalary sets the monthly salary and budget allocation
func (h *UserHandler) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	user, err := h.Service.UpdateSalary(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}
	utils.OK(w, "Salary updated", user)
}

// GetSettings returns the user's settings blob
func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	settings, err := h.Service.GetSettings(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}
	utils.OK(w, "", settings)
}

// UpdateSettings replaces the user's settings blob
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var settings map[string]any
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.Service.UpdateSettings(r.Context(), userID, settings)
	if err != nil {
		respondServiceError(w, err, "User not found")
		return
	}
	utils.OK(w, "Settings updated", updated)
}
