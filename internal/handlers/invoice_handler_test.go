package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-backend/internal/billing"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/services"
)

type mockInvoiceService struct {
	createFn       func(ctx context.Context, userID int, req *models.CreateInvoiceRequest) (*models.Invoice, error)
	getFn          func(ctx context.Context, userID, id int) (*models.Invoice, error)
	listFn         func(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error)
	updateFn       func(ctx context.Context, userID, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error)
	updateStatusFn func(ctx context.Context, userID, id int, status string) (*models.Invoice, error)
	deleteFn       func(ctx context.Context, userID, id int) error
	statsFn        func(ctx context.Context, userID int) (*models.InvoiceStats, error)
}

func (m *mockInvoiceService) Create(ctx context.Context, userID int, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("createFn not configured")
}

func (m *mockInvoiceService) Get(ctx context.Context, userID, id int) (*models.Invoice, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, id)
	}
	return nil, fmt.Errorf("getFn not configured")
}

func (m *mockInvoiceService) List(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, fmt.Errorf("listFn not configured")
}

func (m *mockInvoiceService) Update(ctx context.Context, userID, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, req)
	}
	return nil, fmt.Errorf("updateFn not configured")
}

func (m *mockInvoiceService) UpdateStatus(ctx context.Context, userID, id int, status string) (*models.Invoice, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, userID, id, status)
	}
	return nil, fmt.Errorf("updateStatusFn not configured")
}

func (m *mockInvoiceService) Delete(ctx context.Context, userID, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return fmt.Errorf("deleteFn not configured")
}

func (m *mockInvoiceService) Stats(ctx context.Context, userID int) (*models.InvoiceStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, userID)
	}
	return nil, fmt.Errorf("statsFn not configured")
}

func newInvoiceTestRouter(svc InvoiceService, userID int) *mux.Router {
	h := NewInvoiceHandler(svc)
	r := mux.NewRouter()
	api := r.PathPrefix("/api/invoices").Subrouter()
	api.Use(fakeAuth(userID))
	api.HandleFunc("", h.Create).Methods("POST")
	api.HandleFunc("", h.List).Methods("GET")
	api.HandleFunc("/{id}", h.Get).Methods("GET")
	api.HandleFunc("/{id}", h.Update).Methods("PUT")
	api.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	api.HandleFunc("/{id}/status", h.UpdateStatus).Methods("PATCH")
	return r
}

func validInvoiceBody() map[string]any {
	return map[string]any{
		"clientId":  7,
		"issueDate": "2026-08-01T00:00:00Z",
		"dueDate":   "2026-09-01T00:00:00Z",
		"items": []map[string]any{
			{"description": "Consulting", "quantity": 10, "rate": 150},
		},
		"tax": 10,
	}
}

func TestInvoiceHandlerCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		createFn   func(ctx context.Context, userID int, req *models.CreateInvoiceRequest) (*models.Invoice, error)
		wantStatus int
	}{
		{
			name: "created",
			body: validInvoiceBody(),
			createFn: func(_ context.Context, userID int, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
				return &models.Invoice{ID: 1, UserID: userID, ClientID: req.ClientID, Status: billing.StatusDraft}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "unknown client is 404",
			body: validInvoiceBody(),
			createFn: func(_ context.Context, _ int, _ *models.CreateInvoiceRequest) (*models.Invoice, error) {
				return nil, services.ErrNotFound
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "foreign client is 401",
			body: validInvoiceBody(),
			createFn: func(_ context.Context, _ int, _ *models.CreateInvoiceRequest) (*models.Invoice, error) {
				return nil, services.ErrNotOwner
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "duplicate number conflicts",
			body: validInvoiceBody(),
			createFn: func(_ context.Context, _ int, _ *models.CreateInvoiceRequest) (*models.Invoice, error) {
				return nil, services.ErrDuplicateNumber
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "empty items rejected",
			body: validInvoiceBody(),
			createFn: func(_ context.Context, _ int, _ *models.CreateInvoiceRequest) (*models.Invoice, error) {
				return nil, billing.ErrNoItems
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing dates rejected",
			body:       map[string]any{"clientId": 7},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newInvoiceTestRouter(&mockInvoiceService{createFn: tt.createFn}, 1)
			rec := doJSONRequest(t, router, http.MethodPost, "/api/invoices", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestInvoiceHandlerGetKeepsSnapshot(t *testing.T) {
	svc := &mockInvoiceService{
		getFn: func(_ context.Context, userID, id int) (*models.Invoice, error) {
			return &models.Invoice{
				ID:     id,
				UserID: userID,
				Status: billing.StatusSent,
				ClientSnapshot: models.ClientSnapshot{
					Name:  "Acme Corp",
					Email: "billing@acme.test",
				},
			}, nil
		},
	}
	rec := doJSONRequest(t, newInvoiceTestRouter(svc, 1), http.MethodGet, "/api/invoices/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	snapshot := data["clientSnapshot"].(map[string]any)
	assert.Equal(t, "Acme Corp", snapshot["name"])
	assert.Equal(t, "billing@acme.test", snapshot["email"])
}

func TestInvoiceHandlerUpdateStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc := &mockInvoiceService{
		updateStatusFn: func(_ context.Context, userID, id int, status string) (*models.Invoice, error) {
			if status == "void" {
				return nil, billing.ErrInvalidStatus
			}
			return &models.Invoice{ID: id, UserID: userID, Status: status, PaidDate: &now}, nil
		},
	}

	rec := doJSONRequest(t, newInvoiceTestRouter(svc, 1), http.MethodPatch, "/api/invoices/5/status",
		map[string]any{"status": "paid"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(t, newInvoiceTestRouter(svc, 1), http.MethodPatch, "/api/invoices/5/status",
		map[string]any{"status": "void"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceHandlerOwnershipPrecedence(t *testing.T) {
	svc := &mockInvoiceService{
		getFn: func(_ context.Context, userID, id int) (*models.Invoice, error) {
			if id != 5 {
				return nil, services.ErrNotFound
			}
			if userID != 1 {
				return nil, services.ErrNotOwner
			}
			return &models.Invoice{ID: 5, UserID: 1}, nil
		},
	}

	rec := doJSONRequest(t, newInvoiceTestRouter(svc, 2), http.MethodGet, "/api/invoices/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSONRequest(t, newInvoiceTestRouter(svc, 2), http.MethodGet, "/api/invoices/5", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
