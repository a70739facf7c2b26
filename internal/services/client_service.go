package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"fintrack-backend/internal/cache"
	"fintrack-backend/internal/models"
)

// ClientStore is the persistence surface the client service depends on.
type ClientStore interface {
	Create(ctx context.Context, c *models.Client) error
	Get(ctx context.Context, id int) (*models.Client, error)
	GetByEmail(ctx context.Context, userID int, email string) (*models.Client, error)
	List(ctx context.Context, filter *models.ClientListFilter) ([]*models.Client, int, error)
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context, userID int) (*models.ClientStats, error)
}

type ClientService struct {
	Repo ClientStore
}

func NewClientService(repo ClientStore) *ClientService {
	return &ClientService{Repo: repo}
}

// Create adds a client for the user. The (user, email) pair must be unique.
func (s *ClientService) Create(ctx context.Context, userID int, req *models.CreateClientRequest) (*models.Client, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.Repo.GetByEmail(ctx, userID, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	c := &models.Client{
		UserID:  userID,
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Phone:   req.Phone,
		Address: req.Address,
		Company: req.Company,
		TaxID:   req.TaxID,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	cache.InvalidateStats(ctx, cache.ClientStatsKeyFmt, userID)
	return c, nil
}

// Get returns a single client after the ownership check.
func (s *ClientService) Get(ctx context.Context, userID, id int) (*models.Client, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := authorize(c.UserID, userID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context, filter *models.ClientListFilter) ([]*models.Client, int, error) {
	return s.Repo.List(ctx, filter)
}

// Update replaces the client's mutable fields. Changing the email to one
// already used by another of the user's clients is rejected.
func (s *ClientService) Update(ctx context.Context, userID, id int, req *models.UpdateClientRequest) (*models.Client, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != c.Email {
		existing, err := s.Repo.GetByEmail(ctx, userID, email)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateEmail
		}
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Email = email
	c.Phone = req.Phone
	c.Address = req.Address
	c.Company = req.Company
	c.TaxID = req.TaxID

	if err := s.Repo.Update(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	cache.InvalidateStats(ctx, cache.ClientStatsKeyFmt, userID)
	return c, nil
}

// Delete removes a client. Existing invoices keep their snapshot and are
// untouched.
func (s *ClientService) Delete(ctx context.Context, userID, id int) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateStats(ctx, cache.ClientStatsKeyFmt, userID)
	return nil
}

// Stats returns the total count and five most recent clients, served from
// the Redis cache when warm.
func (s *ClientService) Stats(ctx context.Context, userID int) (*models.ClientStats, error) {
	if data, ok := cache.GetCachedStats(ctx, cache.ClientStatsKeyFmt, userID); ok {
		var stats models.ClientStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.Repo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(stats); err == nil {
		cache.CacheStats(ctx, cache.ClientStatsKeyFmt, userID, data)
	}
	return stats, nil
}
