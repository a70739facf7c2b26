package models

import "time"

// ExpenseCategories is the fixed set of allowed expense categories.
var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Healthcare",
	"Education",
	"Housing",
	"Utilities",
	"Insurance",
	"Travel",
	"Business",
	"Other",
}

// PaymentMethods is the fixed set of allowed expense payment methods.
var PaymentMethods = []string{
	"Cash",
	"Credit Card",
	"Debit Card",
	"Bank Transfer",
	"Digital Wallet",
	"Other",
}

type Expense struct {
	ID              int            `json:"id"`
	UserID          int            `json:"user"`
	Description     string         `json:"description"`
	Amount          float64        `json:"amount"`
	Category        string         `json:"category"`
	Date            time.Time      `json:"date"`
	PaymentMethod   string         `json:"paymentMethod,omitempty"`
	Receipt         string         `json:"receipt,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	DetailsSnapshot map[string]any `json:"detailsSnapshot,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// CreateExpenseRequest represents the request body for creating an expense
type CreateExpenseRequest struct {
	Description   string     `json:"description" validate:"required,max=200"`
	Amount        float64    `json:"amount" validate:"gte=0"`
	Category      string     `json:"category" validate:"required"`
	Date          *time.Time `json:"date"`
	PaymentMethod string     `json:"paymentMethod"`
	Receipt       string     `json:"receipt"`
	Notes         string     `json:"notes" validate:"max=500"`
}

// UpdateExpenseRequest represents the request body for updating an expense
type UpdateExpenseRequest struct {
	Description   *string    `json:"description" validate:"omitempty,min=1,max=200"`
	Amount        *float64   `json:"amount" validate:"omitempty,gte=0"`
	Category      *string    `json:"category"`
	Date          *time.Time `json:"date"`
	PaymentMethod *string    `json:"paymentMethod"`
	Receipt       *string    `json:"receipt"`
	Notes         *string    `json:"notes" validate:"omitempty,max=500"`
}

// ExpenseListFilter narrows expense list queries
type ExpenseListFilter struct {
	UserID    int
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Page      int
	Limit     int
}

// ExpenseCategoryStat is the per-category rollup of an expense stats query
type ExpenseCategoryStat struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// ExpenseMonthStat is one month of the trailing rollup, keyed by (year, month)
type ExpenseMonthStat struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// ExpenseStats is the read-only expense summary for a user
type ExpenseStats struct {
	CategoryStats []ExpenseCategoryStat `json:"categoryStats"`
	TotalExpenses float64               `json:"totalExpenses"`
	MonthlyStats  []ExpenseMonthStat    `json:"monthlyStats"`
}
