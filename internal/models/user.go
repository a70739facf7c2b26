package models

import "time"

// SalaryAllocation splits the monthly salary into budget buckets.
// The three percentages are expected to sum to 100 but this is not
// enforced server-side.
type SalaryAllocation struct {
	Needs   int `json:"needs"`
	Wants   int `json:"wants"`
	Savings int `json:"savings"`
}

type User struct {
	ID               int              `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"-"` // Never expose in JSON
	MonthlySalary    float64          `json:"monthlySalary"`
	SalaryAllocation SalaryAllocation `json:"salaryAllocation"`
	Settings         map[string]any   `json:"settings,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordRequest represents the request body for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// UpdateSalaryRequest represents the request body for salary updates.
// Allocation is optional; when omitted the stored split is kept.
type UpdateSalaryRequest struct {
	Salary     float64           `json:"salary" validate:"gte=0"`
	Allocation *SalaryAllocation `json:"allocation"`
}
