package billing

import (
	"errors"
	"time"
)

// Invoice statuses. Any status may follow any other; there is no terminal
// state and no enforced forward-only graph.
const (
	StatusDraft   = "draft"
	StatusSent    = "sent"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

var ErrInvalidStatus = errors.New("invalid invoice status")

// ValidStatus reports whether s is a known invoice status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Transition applies a status change and returns the paid date that should
// be stored. Entering paid stamps the clock; leaving paid keeps the
// existing stamp (it records when the invoice was last paid, not whether
// it currently is).
func Transition(newStatus string, currentPaidDate *time.Time, now time.Time) (*time.Time, error) {
	if !ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}
	if newStatus == StatusPaid {
		t := now
		return &t, nil
	}
	return currentPaidDate, nil
}
