package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/cache"
	"fintrack-backend/internal/models"
)

// UserStore is the persistence surface the user service depends on.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, name, email string) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	UpdateSalary(ctx context.Context, id int, salary float64, alloc models.SalaryAllocation) error
	GetSettings(ctx context.Context, id int) (map[string]any, error)
	UpdateSettings(ctx context.Context, id int, settings map[string]any) error
}

type UserService struct {
	Repo       UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// Register creates a new user with hashed password and issues a token.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		// Default 50/30/20 split until the user configures one
		SalaryAllocation: models.SalaryAllocation{Needs: 50, Wants: 30, Savings: 20},
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates a credential pair. The error never reveals whether
// the email or the password was wrong.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Redis fast path skips bcrypt on repeat logins
	if cachedID, ok := cache.GetCachedAuth(ctx, email, req.Password); !ok || cachedID != user.ID {
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, ErrInvalidCredentials
		}
		cache.CacheAuth(ctx, email, req.Password, user.ID)
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes name and/or email, keeping current values for
// omitted fields.
func (s *UserService) UpdateProfile(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if req.Name != "" {
		name = strings.TrimSpace(req.Name)
	}
	email := user.Email
	if req.Email != "" {
		email = strings.ToLower(strings.TrimSpace(req.Email))
	}

	if err := s.Repo.UpdateProfile(ctx, id, name, email); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id int, req *models.ChangePasswordRequest) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, id, hashedPassword); err != nil {
		return err
	}

	// The old credential pair must stop working immediately
	cache.InvalidateAuth(ctx, user.Email, req.CurrentPassword)
	return nil
}

// UpdateSalary sets the monthly salary and, when supplied, the allocation
// split. The split is not validated to sum to 100.
func (s *UserService) UpdateSalary(ctx context.Context, id int, req *models.UpdateSalaryRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	alloc := user.SalaryAllocation
	if req.Allocation != nil {
		alloc = *req.Allocation
	}

	if err := s.Repo.UpdateSalary(ctx, id, req.Salary, alloc); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *UserService) GetSettings(ctx context.Context, id int) (map[string]any, error) {
	settings, err := s.Repo.GetSettings(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return settings, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, id int, settings map[string]any) (map[string]any, error) {
	if err := s.Repo.UpdateSettings(ctx, id, settings); err != nil {
		return nil, err
	}
	return s.Repo.GetSettings(ctx, id)
}
