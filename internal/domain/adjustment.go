package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Adjustment is a single signed delta applied to a plan's production figure.
// Adjustments are append-only: once recorded they are never amended,
// reordered, or removed.
type Adjustment struct {
	ID        int64
	PlanID    string
	Seq       int
	Amount    decimal.Decimal
	Reason    string
	CreatedAt time.Time
}

// NewAdjustment creates an Adjustment with the given amount. The amount may
// be negative, zero, or fractional; validating it is the boundary layer's
// concern, not the domain's.
func NewAdjustment(amount decimal.Decimal, reason string) Adjustment {
	return Adjustment{
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}
