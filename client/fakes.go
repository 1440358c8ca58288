package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Fake is an in-memory API implementation for consumers' tests. It mirrors
// the server's semantics: production is derived from the baseline and the
// adjustment sequence on every read, never cached.
type Fake struct {
	mu      sync.Mutex
	nextID  int
	plans   map[string]*fakePlan
}

type fakePlan struct {
	id          string
	initial     decimal.Decimal
	adjustments []Adjustment
	metadata    map[string]string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{plans: make(map[string]*fakePlan)}
}

var _ API = (*Fake)(nil)

func (f *Fake) CreatePlan(_ context.Context, opts CreatePlanOptions) (*Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	now := time.Now().UTC()
	fp := &fakePlan{
		id:        fmt.Sprintf("fake-plan-%d", f.nextID),
		initial:   decimal.Zero,
		metadata:  opts.Metadata,
		createdAt: now,
		updatedAt: now,
	}
	if opts.InitialProduction != nil {
		fp.initial = *opts.InitialProduction
	}
	f.plans[fp.id] = fp

	return fp.toPlan(), nil
}

func (f *Fake) GetPlan(_ context.Context, planID string) (*Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, ok := f.plans[planID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, planID)
	}
	return fp.toPlan(), nil
}

func (f *Fake) Production(_ context.Context, planID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, ok := f.plans[planID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNotFound, planID)
	}
	return fp.production(), nil
}

func (f *Fake) ApplyAdjustment(_ context.Context, planID string, amount decimal.Decimal, reason string) (*AppliedAdjustment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, ok := f.plans[planID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, planID)
	}

	a := Adjustment{
		ID:        int64(len(fp.adjustments) + 1),
		Seq:       len(fp.adjustments),
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	fp.adjustments = append(fp.adjustments, a)
	fp.updatedAt = a.CreatedAt

	return &AppliedAdjustment{
		PlanID:     planID,
		Adjustment: a,
		Production: fp.production(),
	}, nil
}

func (f *Fake) ListAdjustments(_ context.Context, planID string) ([]Adjustment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, ok := f.plans[planID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, planID)
	}
	out := make([]Adjustment, len(fp.adjustments))
	copy(out, fp.adjustments)
	return out, nil
}

func (f *Fake) ListPlans(_ context.Context) ([]PlanSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	summaries := make([]PlanSummary, 0, len(f.plans))
	for _, fp := range f.plans {
		summaries = append(summaries, PlanSummary{
			ID:              fp.id,
			Production:      fp.production(),
			AdjustmentCount: len(fp.adjustments),
			Metadata:        fp.metadata,
			CreatedAt:       fp.createdAt,
			UpdatedAt:       fp.updatedAt,
		})
	}
	return summaries, nil
}

func (f *Fake) DeletePlan(_ context.Context, planID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.plans[planID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, planID)
	}
	delete(f.plans, planID)
	return nil
}

func (fp *fakePlan) production() decimal.Decimal {
	total := fp.initial
	for _, a := range fp.adjustments {
		total = total.Add(a.Amount)
	}
	return total
}

func (fp *fakePlan) toPlan() *Plan {
	adjustments := make([]Adjustment, len(fp.adjustments))
	copy(adjustments, fp.adjustments)
	return &Plan{
		ID:                fp.id,
		InitialProduction: fp.initial,
		Production:        fp.production(),
		Adjustments:       adjustments,
		Metadata:          fp.metadata,
		CreatedAt:         fp.createdAt,
		UpdatedAt:         fp.updatedAt,
	}
}
