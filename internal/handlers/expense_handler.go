package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/validation"
	"fintrack-backend/pkg/utils"
)

const maxReceiptSize = 10 << 20 // 10 MB

// ExpenseService is what the expense endpoints need from the service tier.
type ExpenseService interface {
	Create(ctx context.Context, userID int, req *models.CreateExpenseRequest) (*models.Expense, error)
	Get(ctx context.Context, userID, id int) (*models.Expense, error)
	List(ctx context.Context, filter *models.ExpenseListFilter) ([]*models.Expense, int, error)
	Update(ctx context.Context, userID, id int, req *models.UpdateExpenseRequest) (*models.Expense, error)
	Delete(ctx context.Context, userID, id int) error
	UploadReceipt(ctx context.Context, userID, id int, contentType string, body io.Reader) (*models.Expense, error)
	FetchReceipt(ctx context.Context, userID, id int) (io.ReadCloser, string, error)
	Stats(ctx context.Context, userID int, startDate, endDate *time.Time) (*models.ExpenseStats, error)
	Categories() []string
}

type ExpenseHandler struct {
	Service ExpenseService
}

func NewExpenseHandler(s ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Service: s}
}

// Create records a new expense
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	expense, err := h.Service.Create(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, err, "Expense not found")
		return
	}
	utils.Created(w, "Expense created", expense)
}

// List returns the user's expenses with pagination, category, date range
// and search filters
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	page, limit := parsePagination(r)

	filter := &models.ExpenseListFilter{
		UserID:   userID,
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Page:     page,
		Limit:    limit,
	}

	var parseErr error
	filter.StartDate, parseErr = parseDateParam(r, "startDate")
	if parseErr != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD")
		return
	}
	filter.EndDate, parseErr = parseDateParam(r, "endDate")
	if parseErr != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD")
		return
	}

	expenses, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, "Expense not found")
		return
	}

	utils.OK(w, "", map[string]any{
		"expenses":    expenses,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
		"total":       total,
	})
}

// Get returns a single expense
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	expense, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, err, "Expense not found")
		return
	}
	utils.OK(w, "", expense)
}

// Update applies partial edits to an expense
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	var req models.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Check(&req); errs != nil {
		utils.ValidationError(w, errs)
		return
	}

	expense, err := h.Service.Update(r.Context(), userID, id, &req)
	if err != nil {
		respondServiceError(w, err, "Expense not found")
		return
	}
	utils.OK(w, "Expense updated", expense)
}

// Delete removes an expense
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		respondServiceError(w, err, "Expense not found")
		return
	}
	utils.OK(w, "Expense deleted", nil)
}

// Stats returns category and trailing-month expense rollups
func (h *ExpenseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	startDate, err := parseDateParam(r, "startDate")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD")
		return
	}
	endDate, err := parseDateParam(r, "endDate")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD")
		return
	}

	stats, err := h.Service.Stats(r.Context(), userID, startDate, endDate)
	if err != nil {
		respondServiceError(w, err, "Expense not found")
		return
	}
	utils.OK(w, "", stats)
}

// Categories returns the fixed category list
func (h *ExpenseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	utils.OK(w, "", h.Service.Categories())
}

// UploadReceipt stores a receipt file for an expense
func (h *ExpenseHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Missing receipt file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	expense, err := h.Service.UploadReceipt(r.Context(), userID, id, contentType, file)
	if err != nil {
		respondServiceError(w, err, "Expense not found")
		return
	}
	utils.OK(w, "Receipt uploaded", expense)
}

// GetReceipt streams the stored receipt file back to the caller
func (h *ExpenseHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	body, contentType, err := h.Service.FetchReceipt(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, err, "Receipt not found")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, body)
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
