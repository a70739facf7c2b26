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

type ExpenseRepository struct {
	DB *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

const expenseColumns = `id, user_id, description, amount, category, date,
	COALESCE(payment_method, '') as payment_method, COALESCE(receipt, '') as receipt,
	COALESCE(notes, '') as notes, details_snapshot, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	var e models.Expense
	var snapshotRaw []byte
	err := row.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Category,
		&e.Date, &e.PaymentMethod, &e.Receipt, &e.Notes, &snapshotRaw,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(snapshotRaw) > 0 {
		if err := json.Unmarshal(snapshotRaw, &e.DetailsSnapshot); err != nil {
			return nil, fmt.Errorf("failed to decode details snapshot: %w", err)
		}
	}
	return &e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	snapshotRaw, err := json.Marshal(e.DetailsSnapshot)
	if err != nil {
		return err
	}

	return r.DB.QueryRow(ctx,
		`INSERT INTO expenses(user_id, description, amount, category, date,
			payment_method, receipt, notes, details_snapshot)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at, updated_at`,
		e.UserID, e.Description, e.Amount, e.Category, e.Date,
		e.PaymentMethod, e.Receipt, e.Notes, snapshotRaw,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *ExpenseRepository) Get(ctx context.Context, id int) (*models.Expense, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id=$1`, id)
	return scanExpense(row)
}

// List returns one page of a user's expenses plus the unpaged total,
// ordered most recent first by expense date.
func (r *ExpenseRepository) List(ctx context.Context, filter *models.ExpenseListFilter) ([]*models.Expense, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}
	argNum := 2

	if filter.Category != "" && filter.Category != "all" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argNum))
		args = append(args, filter.Category)
		argNum++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argNum))
		args = append(args, *filter.StartDate)
		argNum++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argNum))
		args = append(args, *filter.EndDate)
		argNum++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("description ILIKE $%d", argNum))
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM expenses `+whereClause, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT `+expenseColumns+` FROM expenses %s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, e)
	}
	return expenses, total, rows.Err()
}

func (r *ExpenseRepository) Update(ctx context.Context, e *models.Expense) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE expenses SET description=$1, amount=$2, category=$3, date=$4,
			payment_method=$5, receipt=$6, notes=$7, updated_at=NOW()
         WHERE id=$8`,
		e.Description, e.Amount, e.Category, e.Date, e.PaymentMethod,
		e.Receipt, e.Notes, e.ID)
	return err
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id)
	return err
}

// Stats folds a user's expenses into category totals (optionally bounded by
// a date range), a grand total, and a monthly rollup for the trailing six
// months. Empty collections yield empty groupings.
func (r *ExpenseRepository) Stats(ctx context.Context, userID int, startDate, endDate *time.Time) (*models.ExpenseStats, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	argNum := 2

	if startDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argNum))
		args = append(args, *startDate)
		argNum++
	}
	if endDate != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argNum))
		args = append(args, *endDate)
		argNum++
	}
	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	stats := &models.ExpenseStats{
		CategoryStats: []models.ExpenseCategoryStat{},
		MonthlyStats:  []models.ExpenseMonthStat{},
	}

	rows, err := r.DB.Query(ctx,
		`SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
         FROM expenses `+whereClause+`
         GROUP BY category
         ORDER BY SUM(amount) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.ExpenseCategoryStat
		if err := rows.Scan(&s.Category, &s.Total, &s.Count); err != nil {
			return nil, err
		}
		stats.CategoryStats = append(stats.CategoryStats, s)
		stats.TotalExpenses += s.Total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	monthRows, err := r.DB.Query(ctx,
		`SELECT EXTRACT(YEAR FROM date)::int, EXTRACT(MONTH FROM date)::int, COALESCE(SUM(amount), 0)
         FROM expenses
         WHERE user_id=$1 AND date >= $2
         GROUP BY 1, 2
         ORDER BY 1, 2`, userID, sixMonthsAgo)
	if err != nil {
		return nil, err
	}
	defer monthRows.Close()

	for monthRows.Next() {
		var m models.ExpenseMonthStat
		if err := monthRows.Scan(&m.Year, &m.Month, &m.Total); err != nil {
			return nil, err
		}
		stats.MonthlyStats = append(stats.MonthlyStats, m)
	}
	return stats, monthRows.Err()
}

// SetReceipt stores the object key of an uploaded receipt.
func (r *ExpenseRepository) SetReceipt(ctx context.Context, id int, receipt string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE expenses SET receipt=$1, updated_at=NOW() WHERE id=$2`, receipt, id)
	return err
}
