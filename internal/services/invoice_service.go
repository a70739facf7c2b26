package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"fintrack-backend/internal/billing"
	"fintrack-backend/internal/cache"
	"fintrack-backend/internal/metrics"
	"fintrack-backend/internal/models"
)

// InvoiceStore is the persistence surface the invoice service depends on.
type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	Get(ctx context.Context, id int) (*models.Invoice, error)
	List(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error)
	Update(ctx context.Context, inv *models.Invoice) error
	UpdateStatus(ctx context.Context, id int, status string, paidDate *time.Time) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context, userID int) (*models.InvoiceStats, error)
}

// ClientReader is the slice of the client store invoice creation needs
// to resolve and freeze the billed client.
type ClientReader interface {
	Get(ctx context.Context, id int) (*models.Client, error)
}

type InvoiceService struct {
	Repo       InvoiceStore
	ClientRepo ClientReader
}

func NewInvoiceService(repo InvoiceStore, clientRepo ClientReader) *InvoiceService {
	return &InvoiceService{Repo: repo, ClientRepo: clientRepo}
}

// Create builds an invoice from the request: the referenced client must
// belong to the user, totals are computed server-side, the client's contact
// details are frozen into a snapshot, and a sequential number is assigned
// when none is supplied.
func (s *InvoiceService) Create(ctx context.Context, userID int, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	client, err := s.ClientRepo.Get(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := authorize(client.UserID, userID); err != nil {
		return nil, err
	}

	totals, err := billing.Compute(req.Items, req.TaxRate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = billing.StatusDraft
	}
	paidDate, err := billing.Transition(status, nil, time.Now())
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		UserID:        userID,
		ClientID:      client.ID,
		InvoiceNumber: req.InvoiceNumber,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Items:         totals.Items,
		Subtotal:      totals.Subtotal,
		TaxRate:       req.TaxRate,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		Status:        status,
		PaidDate:      paidDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		ClientSnapshot: models.ClientSnapshot{
			Name:    client.Name,
			Email:   client.Email,
			Phone:   client.Phone,
			Address: client.Address,
			Company: client.Company,
			TaxID:   client.TaxID,
		},
	}
	if err := s.Repo.Create(ctx, inv); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}

	metrics.InvoicesCreatedTotal.Inc()
	cache.InvalidateStats(ctx, cache.InvoiceStatsKeyFmt, userID)
	return inv, nil
}

// Get returns a single invoice after the ownership check.
func (s *InvoiceService) Get(ctx context.Context, userID, id int) (*models.Invoice, error) {
	inv, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := authorize(inv.UserID, userID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error) {
	return s.Repo.List(ctx, filter)
}

// Update applies the supplied fields and recomputes totals whenever the
// items or the tax rate change. The client snapshot is never rewritten.
func (s *InvoiceService) Update(ctx context.Context, userID, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	inv, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if req.PaymentMethod != nil {
		inv.PaymentMethod = *req.PaymentMethod
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}

	items := inv.Items
	if req.Items != nil {
		items = req.Items
	}
	taxRate := inv.TaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	totals, err := billing.Compute(items, taxRate)
	if err != nil {
		return nil, err
	}
	inv.Items = totals.Items
	inv.Subtotal = totals.Subtotal
	inv.TaxRate = taxRate
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total

	if req.Status != "" && req.Status != inv.Status {
		paidDate, err := billing.Transition(req.Status, inv.PaidDate, time.Now())
		if err != nil {
			return nil, err
		}
		inv.Status = req.Status
		inv.PaidDate = paidDate
	}

	if err := s.Repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	cache.InvalidateStats(ctx, cache.InvoiceStatsKeyFmt, userID)
	return inv, nil
}

// UpdateStatus moves an invoice through its lifecycle. Entering paid stamps
// the paid date; leaving paid keeps the original stamp.
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, id int, status string) (*models.Invoice, error) {
	inv, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	paidDate, err := billing.Transition(status, inv.PaidDate, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, id, status, paidDate); err != nil {
		return nil, err
	}
	inv.Status = status
	inv.PaidDate = paidDate

	cache.InvalidateStats(ctx, cache.InvoiceStatsKeyFmt, userID)
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, userID, id int) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateStats(ctx, cache.InvoiceStatsKeyFmt, userID)
	return nil
}

// Stats returns the per-status rollup for a user, served from the Redis
// cache when warm.
func (s *InvoiceService) Stats(ctx context.Context, userID int) (*models.InvoiceStats, error) {
	if data, ok := cache.GetCachedStats(ctx, cache.InvoiceStatsKeyFmt, userID); ok {
		var stats models.InvoiceStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.Repo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(stats); err == nil {
		cache.CacheStats(ctx, cache.InvoiceStatsKeyFmt, userID, data)
	}
	return stats, nil
}
