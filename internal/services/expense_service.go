package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"fintrack-backend/internal/cache"
	"fintrack-backend/internal/metrics"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/storage"
	"fintrack-backend/internal/validation"
)

var (
	ErrInvalidCategory      = errors.New("invalid expense category")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrReceiptsDisabled     = errors.New("receipt storage is not configured")
)

// ExpenseStore is the persistence surface the expense service depends on.
type ExpenseStore interface {
	Create(ctx context.Context, e *models.Expense) error
	Get(ctx context.Context, id int) (*models.Expense, error)
	List(ctx context.Context, filter *models.ExpenseListFilter) ([]*models.Expense, int, error)
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id int) error
	SetReceipt(ctx context.Context, id int, receipt string) error
	Stats(ctx context.Context, userID int, startDate, endDate *time.Time) (*models.ExpenseStats, error)
}

type ExpenseService struct {
	Repo     ExpenseStore
	Receipts *storage.ReceiptStore // nil when object storage is not configured
}

func NewExpenseService(repo ExpenseStore, receipts *storage.ReceiptStore) *ExpenseService {
	return &ExpenseService{Repo: repo, Receipts: receipts}
}

// Create records an expense. The raw request is frozen into a details
// snapshot so later edits never rewrite what was originally submitted.
func (s *ExpenseService) Create(ctx context.Context, userID int, req *models.CreateExpenseRequest) (*models.Expense, error) {
	if !validation.OneOf(req.Category, models.ExpenseCategories) {
		return nil, ErrInvalidCategory
	}
	if req.PaymentMethod != "" && !validation.OneOf(req.PaymentMethod, models.PaymentMethods) {
		return nil, ErrInvalidPaymentMethod
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	var snapshot map[string]any
	if raw, err := json.Marshal(req); err == nil {
		// Round-tripping a just-marshaled request cannot fail to decode.
		_ = json.Unmarshal(raw, &snapshot)
	}

	e := &models.Expense{
		UserID:          userID,
		Description:     req.Description,
		Amount:          req.Amount,
		Category:        req.Category,
		Date:            date,
		PaymentMethod:   req.PaymentMethod,
		Receipt:         req.Receipt,
		Notes:           req.Notes,
		DetailsSnapshot: snapshot,
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}

	metrics.ExpensesCreatedTotal.Inc()
	cache.InvalidateStats(ctx, cache.ExpenseStatsKeyFmt, userID)
	return e, nil
}

// Get returns a single expense after the ownership check.
func (s *ExpenseService) Get(ctx context.Context, userID, id int) (*models.Expense, error) {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := authorize(e.UserID, userID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, filter *models.ExpenseListFilter) ([]*models.Expense, int, error) {
	return s.Repo.List(ctx, filter)
}

// Update applies the supplied fields, leaving omitted ones unchanged. The
// details snapshot keeps the values from creation.
func (s *ExpenseService) Update(ctx context.Context, userID, id int, req *models.UpdateExpenseRequest) (*models.Expense, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		if !validation.OneOf(*req.Category, models.ExpenseCategories) {
			return nil, ErrInvalidCategory
		}
		e.Category = *req.Category
	}
	if req.PaymentMethod != nil {
		if *req.PaymentMethod != "" && !validation.OneOf(*req.PaymentMethod, models.PaymentMethods) {
			return nil, ErrInvalidPaymentMethod
		}
		e.PaymentMethod = *req.PaymentMethod
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if req.Receipt != nil {
		e.Receipt = *req.Receipt
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}

	if err := s.Repo.Update(ctx, e); err != nil {
		return nil, err
	}

	cache.InvalidateStats(ctx, cache.ExpenseStatsKeyFmt, userID)
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id int) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateStats(ctx, cache.ExpenseStatsKeyFmt, userID)
	return nil
}

// UploadReceipt stores a receipt image in object storage and records its
// key on the expense.
func (s *ExpenseService) UploadReceipt(ctx context.Context, userID, id int, contentType string, body io.Reader) (*models.Expense, error) {
	if s.Receipts == nil {
		return nil, ErrReceiptsDisabled
	}

	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	key, err := s.Receipts.Upload(ctx, userID, id, contentType, body)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetReceipt(ctx, id, key); err != nil {
		return nil, err
	}
	e.Receipt = key
	return e, nil
}

// FetchReceipt streams a stored receipt back. The caller must close the
// reader.
func (s *ExpenseService) FetchReceipt(ctx context.Context, userID, id int) (io.ReadCloser, string, error) {
	if s.Receipts == nil {
		return nil, "", ErrReceiptsDisabled
	}

	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	if e.Receipt == "" {
		return nil, "", ErrNotFound
	}
	return s.Receipts.Fetch(ctx, e.Receipt)
}

// Stats returns category and trailing-month rollups, served from the Redis
// cache when warm. Date-filtered queries bypass the cache.
func (s *ExpenseService) Stats(ctx context.Context, userID int, startDate, endDate *time.Time) (*models.ExpenseStats, error) {
	cacheable := startDate == nil && endDate == nil
	if cacheable {
		if data, ok := cache.GetCachedStats(ctx, cache.ExpenseStatsKeyFmt, userID); ok {
			var stats models.ExpenseStats
			if err := json.Unmarshal(data, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.Repo.Stats(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if data, err := json.Marshal(stats); err == nil {
			cache.CacheStats(ctx, cache.ExpenseStatsKeyFmt, userID, data)
		}
	}
	return stats, nil
}

// Categories returns the allowed category list for pickers.
func (s *ExpenseService) Categories() []string {
	return models.ExpenseCategories
}
