package billing

import (
	"errors"
	"math"

	"fintrack-backend/internal/models"
)

// The server is the sole source of truth for monetary totals: amounts,
// subtotal, tax and total are always recomputed here and never accepted
// from the request.
//
// Currency arithmetic is fixed-point at cents: every derived value is
// rounded to two decimals (half away from zero) at each step, so repeated
// recomputation of the same items cannot drift.

var (
	ErrNoItems          = errors.New("at least one item is required")
	ErrQuantityTooSmall = errors.New("quantity must be at least 1")
	ErrNegativeRate     = errors.New("rate cannot be negative")
	ErrNegativeTaxRate  = errors.New("tax rate cannot be negative")
)

// Totals is the derived monetary summary of a set of line items.
type Totals struct {
	Items     []models.InvoiceItem
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// Round2 rounds a monetary value to whole cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute derives per-item amounts, subtotal, tax amount and total from
// line items and a tax percentage. It rejects invalid items instead of
// silently clamping them. The input slice is not modified.
func Compute(items []models.InvoiceItem, taxRate float64) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, ErrNoItems
	}
	if taxRate < 0 {
		return Totals{}, ErrNegativeTaxRate
	}

	out := make([]models.InvoiceItem, len(items))
	subtotal := 0.0
	for i, item := range items {
		if item.Quantity < 1 {
			return Totals{}, ErrQuantityTooSmall
		}
		if item.Rate < 0 {
			return Totals{}, ErrNegativeRate
		}
		item.Amount = Round2(item.Quantity * item.Rate)
		out[i] = item
		subtotal = Round2(subtotal + item.Amount)
	}

	taxAmount := Round2(subtotal * taxRate / 100)
	return Totals{
		Items:     out,
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     Round2(subtotal + taxAmount),
	}, nil
}
