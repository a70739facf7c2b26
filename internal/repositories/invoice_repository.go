package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-backend/internal/models"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// GenerateInvoiceNumber generates a unique invoice number from a database
// sequence (O(1), unlike counting rows).
func (r *InvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('invoice_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", nextNum), nil
}

const invoiceColumns = `id, user_id, client_id, invoice_number, issue_date, due_date,
	items, subtotal, tax_rate, tax_amount, total, status, paid_date,
	COALESCE(payment_method, '') as payment_method, COALESCE(notes, '') as notes,
	client_snapshot, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (*models.Invoice, error) {
	var inv models.Invoice
	var itemsRaw, snapshotRaw []byte
	err := row.Scan(&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber,
		&inv.IssueDate, &inv.DueDate, &itemsRaw, &inv.Subtotal, &inv.TaxRate,
		&inv.TaxAmount, &inv.Total, &inv.Status, &inv.PaidDate,
		&inv.PaymentMethod, &inv.Notes, &snapshotRaw, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsRaw, &inv.Items); err != nil {
		return nil, fmt.Errorf("failed to decode invoice items: %w", err)
	}
	if err := json.Unmarshal(snapshotRaw, &inv.ClientSnapshot); err != nil {
		return nil, fmt.Errorf("failed to decode client snapshot: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	if inv.InvoiceNumber == "" {
		number, err := r.GenerateInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
	}

	itemsRaw, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}
	snapshotRaw, err := json.Marshal(inv.ClientSnapshot)
	if err != nil {
		return err
	}

	return r.DB.QueryRow(ctx,
		`INSERT INTO invoices(user_id, client_id, invoice_number, issue_date, due_date,
			items, subtotal, tax_rate, tax_amount, total, status, paid_date,
			payment_method, notes, client_snapshot)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
         RETURNING id, created_at, updated_at`,
		inv.UserID, inv.ClientID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate,
		itemsRaw, inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Total, inv.Status,
		inv.PaidDate, inv.PaymentMethod, inv.Notes, snapshotRaw,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id=$1`, id)
	return scanInvoice(row)
}

// List returns one page of a user's invoices plus the unpaged total.
// Search matches the invoice number or the snapshotted client name.
func (r *InvoiceRepository) List(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}
	argNum := 2

	if filter.Status != "" && filter.Status != "all" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}

	if filter.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(invoice_number ILIKE $%d OR client_snapshot->>'name' ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM invoices `+whereClause, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT `+invoiceColumns+` FROM invoices %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	itemsRaw, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}

	_, err = r.DB.Exec(ctx,
		`UPDATE invoices SET issue_date=$1, due_date=$2, items=$3, subtotal=$4,
			tax_rate=$5, tax_amount=$6, total=$7, status=$8, paid_date=$9,
			payment_method=$10, notes=$11, updated_at=NOW()
         WHERE id=$12`,
		inv.IssueDate, inv.DueDate, itemsRaw, inv.Subtotal, inv.TaxRate,
		inv.TaxAmount, inv.Total, inv.Status, inv.PaidDate, inv.PaymentMethod,
		inv.Notes, inv.ID)
	return err
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int, status string, paidDate *time.Time) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status=$1, paid_date=$2, updated_at=NOW() WHERE id=$3`,
		status, paidDate, id)
	return err
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM invoices WHERE id=$1`, id)
	return err
}

// Stats folds a user's invoices into per-status counts and totals plus a
// grand total. Empty collections yield zeroes, not errors.
func (r *InvoiceRepository) Stats(ctx context.Context, userID int) (*models.InvoiceStats, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(total), 0)
         FROM invoices WHERE user_id=$1
         GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.InvoiceStats{Stats: []models.InvoiceStatusStat{}}
	for rows.Next() {
		var s models.InvoiceStatusStat
		if err := rows.Scan(&s.Status, &s.Count, &s.Total); err != nil {
			return nil, err
		}
		stats.Stats = append(stats.Stats, s)
		stats.TotalInvoices += s.Count
		stats.TotalAmount += s.Total
	}
	return stats, rows.Err()
}
