package models

import "time"

// Client is a billable customer owned by a single user. The (user, email)
// pair is unique; emails are stored lowercased.
type Client struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Company   string    `json:"company,omitempty"`
	TaxID     string    `json:"taxId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Company string `json:"company"`
	TaxID   string `json:"taxId"`
}

// UpdateClientRequest represents the request body for updating a client
type UpdateClientRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Company string `json:"company"`
	TaxID   string `json:"taxId"`
}

// ClientListFilter narrows client list queries
type ClientListFilter struct {
	UserID int
	Search string
	Page   int
	Limit  int
}

// ClientStats is the read-only client summary for a user
type ClientStats struct {
	TotalClients  int       `json:"totalClients"`
	RecentClients []*Client `json:"recentClients"`
}
