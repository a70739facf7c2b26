package models

import "time"

// InvoiceItem is a single billable row on an invoice. Amount is derived
// server-side as quantity × rate and never trusted from the request.
type InvoiceItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gte=1"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	Amount      float64 `json:"amount"`
}

// ClientSnapshot freezes the client's contact details at invoice creation.
// Invoices are financial documents and must not change when the client
// record is later edited or deleted.
type ClientSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Company string `json:"company,omitempty"`
	TaxID   string `json:"taxId,omitempty"`
}

type Invoice struct {
	ID             int            `json:"id"`
	UserID         int            `json:"user"`
	ClientID       int            `json:"client"`
	InvoiceNumber  string         `json:"invoiceNumber"`
	IssueDate      time.Time      `json:"issueDate"`
	DueDate        time.Time      `json:"dueDate"`
	Items          []InvoiceItem  `json:"items"`
	Subtotal       float64        `json:"subtotal"`
	TaxRate        float64        `json:"taxRate"`
	TaxAmount      float64        `json:"taxAmount"`
	Total          float64        `json:"total"`
	Status         string         `json:"status"`
	PaidDate       *time.Time     `json:"paidDate,omitempty"`
	PaymentMethod  string         `json:"paymentMethod,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	ClientSnapshot ClientSnapshot `json:"clientSnapshot"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// CreateInvoiceRequest represents the request body for creating an invoice
type CreateInvoiceRequest struct {
	ClientID      int           `json:"clientId" validate:"required,gt=0"`
	InvoiceNumber string        `json:"invoiceNumber"`
	IssueDate     time.Time     `json:"issueDate" validate:"required"`
	DueDate       time.Time     `json:"dueDate" validate:"required"`
	Items         []InvoiceItem `json:"items" validate:"required,min=1,dive"`
	TaxRate       float64       `json:"tax" validate:"gte=0"`
	Status        string        `json:"status" validate:"omitempty,oneof=draft sent paid overdue"`
	PaymentMethod string        `json:"paymentMethod"`
	Notes         string        `json:"notes"`
}

// UpdateInvoiceRequest represents the request body for updating an invoice.
// Items are optional; when present they replace the stored items and totals
// are recomputed.
type UpdateInvoiceRequest struct {
	IssueDate     *time.Time    `json:"issueDate"`
	DueDate       *time.Time    `json:"dueDate"`
	Items         []InvoiceItem `json:"items" validate:"omitempty,min=1,dive"`
	TaxRate       *float64      `json:"tax" validate:"omitempty,gte=0"`
	Status        string        `json:"status" validate:"omitempty,oneof=draft sent paid overdue"`
	PaymentMethod *string       `json:"paymentMethod"`
	Notes         *string       `json:"notes"`
}

// UpdateInvoiceStatusRequest represents the request body for status patches
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent paid overdue"`
}

// InvoiceListFilter narrows invoice list queries
type InvoiceListFilter struct {
	UserID int
	Status string
	Search string
	Page   int
	Limit  int
}

// InvoiceStatusStat is the per-status rollup of an invoice stats query
type InvoiceStatusStat struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
}

// InvoiceStats is the read-only invoice summary for a user
type InvoiceStats struct {
	Stats         []InvoiceStatusStat `json:"stats"`
	TotalInvoices int                 `json:"totalInvoices"`
	TotalAmount   float64             `json:"totalAmount"`
}
