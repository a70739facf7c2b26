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

// InvoiceService is what the invoice endpoints need from the service tier.
type InvoiceService interface {
	Create(ctx context.Context, userID int, req *models.CreateInvoiceRequest) (*models.Invoice, error)
	Get(ctx context.Context, userID, id int) (*models.Invoice, error)
	List(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error)
	Update(ctx context.Context, userID, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error)
	UpdateStatus(ctx context.Context, userID, id int, status string) (*models.Invoice, error)
	Delete(ctx context.Context, userID, id int) error
	Stats(ctx context.Context, userID int) (*models.InvoiceStats, error)
}

type InvoiceHandler struct {
	Service InvoiceService
}

func NewInvoiceHandler(s InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

// Create builds an invoice with server-computed totals and a frozen client
// snapshot
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	inv, err := h.Service.Create(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, err, "Client not found")
		return
	}
	utils.Created(w, "Invoice created", inv)
}

// List returns the user's invoices with pagination, status filter and search
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	page, limit := parsePagination(r)

	filter := &models.InvoiceListFilter{
		UserID: userID,
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}
	invoices, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, "Invoice not found")
		return
	}

	utils.OK(w, "", map[string]any{
		"invoices":    invoices,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// Get returns a single invoice
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	inv, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, err, "Invoice not found")
		return
	}
	utils.OK(w, "", inv)
}

// Update applies partial edits, recomputing totals when items or tax change
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	var req models.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	inv, err := h.Service.Update(r.Context(), userID, id, &req)
	if err != nil {
		respondServiceError(w, err, "Invoice not found")
		return
	}
	utils.OK(w, "Invoice updated", inv)
}

// UpdateStatus moves an invoice through its lifecycle
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	var req models.UpdateInvoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	inv, err := h.Service.UpdateStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		respondServiceError(w, err, "Invoice not found")
		return
	}
	utils.OK(w, "Invoice status updated", inv)
}

// Delete removes an invoice
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		respondServiceError(w, err, "Invoice not found")
		return
	}
	utils.OK(w, "Invoice deleted", nil)
}

// Stats returns the per-status invoice rollup
func (h *InvoiceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	stats, err := h.Service.Stats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Invoice not found")
		return
	}
	utils.OK(w, "", stats)
}
