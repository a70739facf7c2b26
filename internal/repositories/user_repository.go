package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO users(name, email, password_hash, monthly_salary, salary_needs, salary_wants, salary_savings)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.MonthlySalary,
		u.SalaryAllocation.Needs, u.SalaryAllocation.Wants, u.SalaryAllocation.Savings,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, password_hash, monthly_salary,
                salary_needs, salary_wants, salary_savings, created_at, updated_at
         FROM users WHERE id=$1`, id)

	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.MonthlySalary,
		&u.SalaryAllocation.Needs, &u.SalaryAllocation.Wants, &u.SalaryAllocation.Savings,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, password_hash, monthly_salary,
                salary_needs, salary_wants, salary_savings, created_at, updated_at
         FROM users WHERE email=$1`, email)

	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.MonthlySalary,
		&u.SalaryAllocation.Needs, &u.SalaryAllocation.Wants, &u.SalaryAllocation.Savings,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int, name, email string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET name=$1, email=$2, updated_at=NOW() WHERE id=$3`,
		name, email, id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`,
		passwordHash, id)
	return err
}

func (r *UserRepository) UpdateSalary(ctx context.Context, id int, salary float64, alloc models.SalaryAllocation) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET monthly_salary=$1, salary_needs=$2, salary_wants=$3, salary_savings=$4, updated_at=NOW()
         WHERE id=$5`,
		salary, alloc.Needs, alloc.Wants, alloc.Savings, id)
	return err
}

func (r *UserRepository) GetSettings(ctx context.Context, id int) (map[string]any, error) {
	var raw []byte
	if err := r.DB.QueryRow(ctx, `SELECT settings FROM users WHERE id=$1`, id).Scan(&raw); err != nil {
		return nil, err
	}
	settings := make(map[string]any)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &settings); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

func (r *UserRepository) UpdateSettings(ctx context.Context, id int, settings map[string]any) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx,
		`UPDATE users SET settings=$1, updated_at=NOW() WHERE id=$2`, raw, id)
	return err
}
