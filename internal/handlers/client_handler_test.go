package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/services"
)

// mockClientService implements ClientService with overridable fn fields.
// Unset calls fail loudly so a test only wires what it exercises.
type mockClientService struct {
	createFn func(ctx context.Context, userID int, req *models.CreateClientRequest) (*models.Client, error)
	getFn    func(ctx context.Context, userID, id int) (*models.Client, error)
	listFn   func(ctx context.Context, filter *models.ClientListFilter) ([]*models.Client, int, error)
	updateFn func(ctx context.Context, userID, id int, req *models.UpdateClientRequest) (*models.Client, error)
	deleteFn func(ctx context.Context, userID, id int) error
	statsFn  func(ctx context.Context, userID int) (*models.ClientStats, error)
}

func (m *mockClientService) Create(ctx context.Context, userID int, req *models.CreateClientRequest) (*models.Client, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("createFn not configured")
}

func (m *mockClientService) Get(ctx context.Context, userID, id int) (*models.Client, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, id)
	}
	return nil, fmt.Errorf("getFn not configured")
}

func (m *mockClientService) List(ctx context.Context, filter *models.ClientListFilter) ([]*models.Client, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, fmt.Errorf("listFn not configured")
}

func (m *mockClientService) Update(ctx context.Context, userID, id int, req *models.UpdateClientRequest) (*models.Client, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, req)
	}
	return nil, fmt.Errorf("updateFn not configured")
}

func (m *mockClientService) Delete(ctx context.Context, userID, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return fmt.Errorf("deleteFn not configured")
}

func (m *mockClientService) Stats(ctx context.Context, userID int) (*models.ClientStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, userID)
	}
	return nil, fmt.Errorf("statsFn not configured")
}

// fakeAuth injects an authenticated user the way the real middleware does.
func fakeAuth(userID int) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newClientTestRouter(svc ClientService, userID int) *mux.Router {
	h := NewClientHandler(svc)
	r := mux.NewRouter()
	api := r.PathPrefix("/api/clients").Subrouter()
	api.Use(fakeAuth(userID))
	api.HandleFunc("", h.Create).Methods("POST")
	api.HandleFunc("", h.List).Methods("GET")
	api.HandleFunc("/stats", h.Stats).Methods("GET")
	api.HandleFunc("/{id}", h.Get).Methods("GET")
	api.HandleFunc("/{id}", h.Update).Methods("PUT")
	api.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	return r
}

func doJSONRequest(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validClientBody() map[string]any {
	return map[string]any{
		"name":    "Acme Corp",
		"email":   "billing@acme.test",
		"phone":   "555-0101",
		"address": "1 Main St",
	}
}

func TestClientHandlerCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		createFn   func(ctx context.Context, userID int, req *models.CreateClientRequest) (*models.Client, error)
		wantStatus int
	}{
		{
			name: "created",
			body: validClientBody(),
			createFn: func(_ context.Context, userID int, req *models.CreateClientRequest) (*models.Client, error) {
				return &models.Client{ID: 1, UserID: userID, Name: req.Name, Email: req.Email}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email conflicts",
			body: validClientBody(),
			createFn: func(_ context.Context, _ int, _ *models.CreateClientRequest) (*models.Client, error) {
				return nil, services.ErrDuplicateEmail
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "missing fields rejected",
			body:       map[string]any{"name": "Acme Corp"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body rejected",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newClientTestRouter(&mockClientService{createFn: tt.createFn}, 1)
			rec := doJSONRequest(t, router, http.MethodPost, "/api/clients", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestClientHandlerGetPrecedence(t *testing.T) {
	svc := &mockClientService{
		getFn: func(_ context.Context, userID, id int) (*models.Client, error) {
			switch {
			case id != 7:
				return nil, services.ErrNotFound
			case userID != 1:
				return nil, services.ErrNotOwner
			}
			return &models.Client{ID: 7, UserID: 1, Name: "Acme Corp"}, nil
		},
	}

	// Owner sees the client
	rec := doJSONRequest(t, newClientTestRouter(svc, 1), http.MethodGet, "/api/clients/7", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A missing row is 404 regardless of who asks
	rec = doJSONRequest(t, newClientTestRouter(svc, 2), http.MethodGet, "/api/clients/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// An existing row owned by someone else is 401, never 404
	rec = doJSONRequest(t, newClientTestRouter(svc, 2), http.MethodGet, "/api/clients/7", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestClientHandlerUpdateDuplicateEmail(t *testing.T) {
	svc := &mockClientService{
		updateFn: func(_ context.Context, _, _ int, _ *models.UpdateClientRequest) (*models.Client, error) {
			return nil, services.ErrDuplicateEmail
		},
	}
	rec := doJSONRequest(t, newClientTestRouter(svc, 1), http.MethodPut, "/api/clients/7", validClientBody())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClientHandlerList(t *testing.T) {
	svc := &mockClientService{
		listFn: func(_ context.Context, filter *models.ClientListFilter) ([]*models.Client, int, error) {
			assert.Equal(t, 1, filter.UserID)
			assert.Equal(t, 2, filter.Page)
			return []*models.Client{{ID: 1, UserID: 1}}, 11, nil
		},
	}
	rec := doJSONRequest(t, newClientTestRouter(svc, 1), http.MethodGet, "/api/clients?page=2&limit=10", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["totalPages"])
	assert.Equal(t, float64(2), data["currentPage"])
	assert.Equal(t, float64(11), data["total"])
}

func TestClientHandlerDelete(t *testing.T) {
	svc := &mockClientService{
		deleteFn: func(_ context.Context, userID, id int) error {
			if userID != 1 {
				return services.ErrNotOwner
			}
			return nil
		},
	}
	rec := doJSONRequest(t, newClientTestRouter(svc, 1), http.MethodDelete, "/api/clients/7", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(t, newClientTestRouter(svc, 2), http.MethodDelete, "/api/clients/7", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
