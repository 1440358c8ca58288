package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/prodplan/internal/domain"
	"github.com/example/prodplan/internal/observability"
	"github.com/example/prodplan/internal/storage"
	"github.com/example/prodplan/pkg/id"
)

// PlanService provides the core production plan ledger logic. It is the one
// logical owner of a plan while a request is in flight: all reads and writes
// go through a storage transaction, which gives the exclusive access the
// domain type assumes.
type PlanService struct {
	storage storage.Storage
	metrics *observability.Metrics
}

// NewPlanService creates a new PlanService.
func NewPlanService(store storage.Storage) *PlanService {
	return NewPlanServiceWithMetrics(store, observability.NewMetrics())
}

// NewPlanServiceWithMetrics creates a PlanService that records operation
// timings into the given metrics.
func NewPlanServiceWithMetrics(store storage.Storage, metrics *observability.Metrics) *PlanService {
	return &PlanService{storage: store, metrics: metrics}
}

func (s *PlanService) observe(op string, start time.Time) {
	s.metrics.ServiceOpDuration().WithLabels(op).Observe(time.Since(start))
}

// CreatePlanRequest is the request for CreatePlan. A nil InitialProduction
// means a zero baseline.
type CreatePlanRequest struct {
	InitialProduction *decimal.Decimal
	Metadata          map[string]string
}

// CreatePlan creates a new plan with an empty adjustment sequence.
func (s *PlanService) CreatePlan(ctx context.Context, req *CreatePlanRequest) (*domain.ProductionPlan, error) {
	defer s.observe("create_plan", time.Now())

	p := domain.NewProductionPlan(id.Generate())
	if req != nil {
		if req.InitialProduction != nil {
			p.InitialProduction = *req.InitialProduction
		}
		if req.Metadata != nil {
			p.Metadata = req.Metadata
		}
	}

	uow, err := s.storage.BeginImmediate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.Plans().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.metrics.PlansCreated().Inc()
	return p, nil
}

// GetPlan retrieves a plan by ID with its full adjustment sequence loaded.
func (s *PlanService) GetPlan(ctx context.Context, planID string) (*domain.ProductionPlan, error) {
	defer s.observe("get_plan", time.Now())

	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return loadPlan(ctx, uow, planID)
}

// Production returns the plan's current production figure, derived from the
// baseline and the adjustment ledger. Nothing is read from a stored total
// because no stored total exists.
func (s *PlanService) Production(ctx context.Context, planID string) (decimal.Decimal, error) {
	defer s.observe("production", time.Now())

	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	p, err := loadPlan(ctx, uow, planID)
	if err != nil {
		return decimal.Zero, err
	}

	s.metrics.ProductionReads().Inc()
	return p.Production(), nil
}

// ApplyAdjustmentRequest is the request for ApplyAdjustment.
type ApplyAdjustmentRequest struct {
	PlanID string
	Amount decimal.Decimal
	Reason string
}

// ApplyAdjustmentResponse is the response from ApplyAdjustment. Production
// is the figure derived after the append, returned for convenience.
type ApplyAdjustmentResponse struct {
	Adjustment domain.Adjustment
	Production decimal.Decimal
}

// ApplyAdjustment atomically appends one adjustment to a plan's sequence.
func (s *PlanService) ApplyAdjustment(ctx context.Context, req *ApplyAdjustmentRequest) (*ApplyAdjustmentResponse, error) {
	defer s.observe("apply_adjustment", time.Now())

	uow, err := s.storage.BeginImmediate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	p, err := loadPlan(ctx, uow, req.PlanID)
	if err != nil {
		return nil, err
	}

	a := domain.NewAdjustment(req.Amount, req.Reason)
	p.ApplyAdjustment(a)

	appended := &p.Adjustments[len(p.Adjustments)-1]
	if err := uow.Adjustments().Append(ctx, appended); err != nil {
		return nil, fmt.Errorf("failed to append adjustment: %w", err)
	}

	// Bump the plan's updated_at / version so concurrent writers are visible.
	if err := uow.Plans().Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.metrics.AdjustmentsApplied().Inc()
	return &ApplyAdjustmentResponse{
		Adjustment: *appended,
		Production: p.Production(),
	}, nil
}

// ListAdjustments returns a plan's adjustments in insertion order.
func (s *PlanService) ListAdjustments(ctx context.Context, planID string) ([]domain.Adjustment, error) {
	defer s.observe("list_adjustments", time.Now())

	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.Plans().Get(ctx, planID); err != nil {
		return nil, err
	}

	return uow.Adjustments().ListByPlan(ctx, planID)
}

// ListPlans lists plans with their adjustment sequences loaded.
func (s *PlanService) ListPlans(ctx context.Context, opts storage.ListOptions) ([]*domain.ProductionPlan, error) {
	defer s.observe("list_plans", time.Now())

	uow, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	plans, err := uow.Plans().List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	for _, p := range plans {
		p.Adjustments, err = uow.Adjustments().ListByPlan(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load adjustments for plan %s: %w", p.ID, err)
		}
	}

	return plans, nil
}

// DeletePlan deletes a plan and its adjustments.
func (s *PlanService) DeletePlan(ctx context.Context, planID string) error {
	defer s.observe("delete_plan", time.Now())

	uow, err := s.storage.BeginImmediate(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.Plans().Delete(ctx, planID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.metrics.PlansDeleted().Inc()
	return nil
}

// loadPlan reads a plan row and its adjustment ledger inside one transaction.
func loadPlan(ctx context.Context, uow storage.UnitOfWork, planID string) (*domain.ProductionPlan, error) {
	p, err := uow.Plans().Get(ctx, planID)
	if err != nil {
		return nil, err
	}

	p.Adjustments, err = uow.Adjustments().ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load adjustments: %w", err)
	}

	return p, nil
}
