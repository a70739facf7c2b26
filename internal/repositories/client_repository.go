package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-backend/internal/models"
)

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `id, user_id, name, email, phone, address,
	COALESCE(company, '') as company, COALESCE(tax_id, '') as tax_id,
	created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.Company, &c.TaxID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO clients(user_id, name, email, phone, address, company, tax_id)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		c.UserID, c.Name, c.Email, c.Phone, c.Address, c.Company, c.TaxID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ClientRepository) Get(ctx context.Context, id int) (*models.Client, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id=$1`, id)
	return scanClient(row)
}

// GetByEmail looks up a client by owner and email (stored lowercased).
func (r *ClientRepository) GetByEmail(ctx context.Context, userID int, email string) (*models.Client, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE user_id=$1 AND email=$2`,
		userID, strings.ToLower(email))
	return scanClient(row)
}

// List returns one page of a user's clients plus the unpaged total.
// Search matches name or email case-insensitively.
func (r *ClientRepository) List(ctx context.Context, filter *models.ClientListFilter) ([]*models.Client, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}
	argNum := 2

	if filter.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM clients ` + whereClause
	if err := r.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := fmt.Sprintf(`SELECT `+clientColumns+` FROM clients %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		clients = append(clients, c)
	}
	return clients, total, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE clients SET name=$1, email=$2, phone=$3, address=$4, company=$5, tax_id=$6, updated_at=NOW()
         WHERE id=$7`,
		c.Name, c.Email, c.Phone, c.Address, c.Company, c.TaxID, c.ID)
	return err
}

func (r *ClientRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	return err
}

// Stats returns the client count and the five most recent clients.
func (r *ClientRepository) Stats(ctx context.Context, userID int) (*models.ClientStats, error) {
	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM clients WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE user_id=$1
         ORDER BY created_at DESC LIMIT 5`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recent := []*models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		recent = append(recent, c)
	}
	return &models.ClientStats{TotalClients: total, RecentClients: recent}, rows.Err()
}
