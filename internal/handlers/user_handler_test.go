package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"fintrack-backend/internal/models"
	"fintrack-backend/internal/services"
)

type mockProfileService struct {
	updateProfileFn  func(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.User, error)
	changePasswordFn func(ctx context.Context, id int, req *models.ChangePasswordRequest) error
	updateSalaryFn   func(ctx context.Context, id int, req *models.UpdateSalaryRequest) (*models.User, error)
	getSettingsFn    func(ctx context.Context, id int) (map[string]any, error)
	updateSettingsFn func(ctx context.Context, id int, settings map[string]any) (map[string]any, error)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, req)
	}
	return nil, fmt.Errorf("updateProfileFn not configured")
}

func (m *mockProfileService) ChangePassword(ctx context.Context, id int, req *models.ChangePasswordRequest) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, id, req)
	}
	return fmt.Errorf("changePasswordFn not configured")
}

func (m *mockProfileService) UpdateSalary(ctx context.Context, id int, req *models.UpdateSalaryRequest) (*models.User, error) {
	if m.updateSalaryFn != nil {
		return m.updateSalaryFn(ctx, id, req)
	}
	return nil, fmt.Errorf("updateSalaryFn not configured")
}

func (m *mockProfileService) GetSettings(ctx context.Context, id int) (map[string]any, error) {
	if m.getSettingsFn != nil {
		return m.getSettingsFn(ctx, id)
	}
	return nil, fmt.Errorf("getSettingsFn not configured")
}

func (m *mockProfileService) UpdateSettings(ctx context.Context, id int, settings map[string]any) (map[string]any, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(ctx, id, settings)
	}
	return nil, fmt.Errorf("updateSettingsFn not configured")
}

func newUserTestRouter(svc ProfileService, userID int) *mux.Router {
	h := NewUserHandler(svc)
	r := mux.NewRouter()
	api := r.PathPrefix("/api/auth").Subrouter()
	api.Use(fakeAuth(userID))
	api.HandleFunc("/updateprofile", h.UpdateProfile).Methods("PUT")
	api.HandleFunc("/changepassword", h.ChangePassword).Methods("PUT")
	return r
}

func TestUserHandlerUpdateProfile(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		serviceErr error
		wantStatus int
	}{
		{name: "updated", body: map[string]any{"name": "Jo Renamed"}, wantStatus: http.StatusOK},
		{
			name:       "email taken conflicts",
			body:       map[string]any{"email": "taken@example.test"},
			serviceErr: services.ErrDuplicateUser,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid email rejected",
			body:       map[string]any{"email": "not-an-email"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProfileService{
				updateProfileFn: func(_ context.Context, id int, req *models.UpdateProfileRequest) (*models.User, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.User{ID: id, Name: req.Name, Email: req.Email}, nil
				},
			}
			rec := doJSONRequest(t, newUserTestRouter(svc, 1), http.MethodPut, "/api/auth/updateprofile", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserHandlerChangePassword(t *testing.T) {
	svc := &mockProfileService{
		changePasswordFn: func(_ context.Context, _ int, req *models.ChangePasswordRequest) error {
			if req.CurrentPassword != "hunter22" {
				return services.ErrInvalidCredentials
			}
			return nil
		},
	}

	rec := doJSONRequest(t, newUserTestRouter(svc, 1), http.MethodPut, "/api/auth/changepassword",
		map[string]any{"currentPassword": "hunter22", "newPassword": "hunter23"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(t, newUserTestRouter(svc, 1), http.MethodPut, "/api/auth/changepassword",
		map[string]any{"currentPassword": "wrong", "newPassword": "hunter23"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
