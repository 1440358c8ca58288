package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionPlan tracks a running production figure derived from a fixed
// baseline and an ordered history of adjustments.
//
// The production figure is never stored: Production computes it fresh from
// InitialProduction and the adjustment sequence on every read, so the
// adjustment history is the single source of truth. A cached total would
// have to be kept in lockstep by every mutation path and would silently
// drift the moment one path forgot.
//
// A ProductionPlan assumes exclusive access by one logical owner at a time;
// callers sharing an instance across goroutines must synchronize externally.
type ProductionPlan struct {
	ID                string
	InitialProduction decimal.Decimal
	Adjustments       []Adjustment
	Metadata          map[string]string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int64
}

// NewProductionPlan creates a plan with a zero baseline and an empty
// adjustment sequence.
func NewProductionPlan(id string) *ProductionPlan {
	return NewProductionPlanWithBaseline(id, decimal.Zero)
}

// NewProductionPlanWithBaseline creates a plan with the given baseline.
// The baseline is fixed for the life of the plan.
func NewProductionPlanWithBaseline(id string, initial decimal.Decimal) *ProductionPlan {
	now := time.Now().UTC()
	return &ProductionPlan{
		ID:                id,
		InitialProduction: initial,
		Metadata:          make(map[string]string),
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}
}

// Production returns the current production figure:
// InitialProduction plus the sum of every adjustment amount, in order.
// An empty sequence yields exactly the baseline.
func (p *ProductionPlan) Production() decimal.Decimal {
	total := p.InitialProduction
	for _, a := range p.Adjustments {
		total = total.Add(a.Amount)
	}
	return total
}

// ApplyAdjustment appends an adjustment to the end of the sequence. The
// sequence grows by one; no other state changes beyond the updated
// timestamp.
func (p *ProductionPlan) ApplyAdjustment(a Adjustment) {
	a.PlanID = p.ID
	a.Seq = len(p.Adjustments)
	p.Adjustments = append(p.Adjustments, a)
	p.UpdatedAt = time.Now().UTC()
}
