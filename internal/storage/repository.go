package storage

import (
	"context"

	"github.com/example/prodplan/internal/domain"
)

// ListOptions provides pagination for list operations.
type ListOptions struct {
	Limit  int
	Offset int
}

// PlanRepository provides access to ProductionPlan storage. Only the
// baseline and bookkeeping columns live in the plan row; the production
// figure itself is never persisted.
type PlanRepository interface {
	// Create creates a new plan.
	Create(ctx context.Context, p *domain.ProductionPlan) error

	// Get retrieves a plan by ID, without its adjustments.
	Get(ctx context.Context, id string) (*domain.ProductionPlan, error)

	// Update updates a plan's metadata and bookkeeping columns.
	Update(ctx context.Context, p *domain.ProductionPlan) error

	// List lists plans with optional pagination.
	List(ctx context.Context, opts ListOptions) ([]*domain.ProductionPlan, error)

	// Delete deletes a plan and, via cascade, its adjustments.
	Delete(ctx context.Context, id string) error
}

// AdjustmentRepository provides access to the append-only adjustment ledger.
// There is deliberately no update or delete for individual adjustments.
type AdjustmentRepository interface {
	// Append appends an adjustment to a plan's sequence and fills in the
	// assigned ID and sequence number.
	Append(ctx context.Context, a *domain.Adjustment) error

	// ListByPlan returns a plan's adjustments in insertion order.
	ListByPlan(ctx context.Context, planID string) ([]domain.Adjustment, error)

	// CountByPlan returns the number of adjustments recorded for a plan.
	CountByPlan(ctx context.Context, planID string) (int, error)
}

// UnitOfWork provides transactional access to all repositories.
type UnitOfWork interface {
	Plans() PlanRepository
	Adjustments() AdjustmentRepository

	// Transaction control
	Commit() error
	Rollback() error
}

// Storage provides the main entry point for storage operations.
type Storage interface {
	// Begin starts a read transaction and returns a UnitOfWork.
	Begin(ctx context.Context) (UnitOfWork, error)

	// BeginImmediate starts a write transaction, taking the write lock up
	// front so concurrent writers queue instead of failing at commit.
	BeginImmediate(ctx context.Context) (UnitOfWork, error)

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate(ctx context.Context) error
}
