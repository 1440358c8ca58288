package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/example/prodplan/internal/domain"
	"github.com/example/prodplan/internal/storage"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "sqlite_test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(dbPath)
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return store
}

func mustBegin(t *testing.T, store *SQLiteStorage) storage.UnitOfWork {
	t.Helper()
	uow, err := store.BeginImmediate(context.Background())
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	return uow
}

func TestPlanRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	p := domain.NewProductionPlanWithBaseline("plan-1", decimal.RequireFromString("12.5"))
	p.Metadata["line"] = "assembly-1"

	uow := mustBegin(t, store)
	if err := uow.Plans().Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	uow = mustBegin(t, store)
	defer uow.Rollback()

	got, err := uow.Plans().Get(ctx, "plan-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.InitialProduction.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("initial production: want 12.5, got %s", got.InitialProduction)
	}
	if got.Metadata["line"] != "assembly-1" {
		t.Errorf("metadata not round-tripped: %v", got.Metadata)
	}
	if got.Version != 1 {
		t.Errorf("version: want 1, got %d", got.Version)
	}
}

func TestGetMissingPlan(t *testing.T) {
	store := newTestStorage(t)

	uow := mustBegin(t, store)
	defer uow.Rollback()

	_, err := uow.Plans().Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestOptimisticLocking(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	p := domain.NewProductionPlan("plan-1")

	uow := mustBegin(t, store)
	if err := uow.Plans().Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// First update succeeds and bumps the version.
	uow = mustBegin(t, store)
	if err := uow.Plans().Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if p.Version != 2 {
		t.Errorf("version after update: want 2, got %d", p.Version)
	}

	// Updating with a stale version fails.
	stale := domain.NewProductionPlan("plan-1")
	stale.Version = 1

	uow = mustBegin(t, store)
	defer uow.Rollback()
	if err := uow.Plans().Update(ctx, stale); !errors.Is(err, domain.ErrConcurrentModify) {
		t.Errorf("want ErrConcurrentModify, got %v", err)
	}
}

func TestAdjustmentsAreSequencedAndOrdered(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	p := domain.NewProductionPlan("plan-1")
	uow := mustBegin(t, store)
	if err := uow.Plans().Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	amounts := []string{"10", "-4", "0.5"}
	for _, s := range amounts {
		a := domain.NewAdjustment(decimal.RequireFromString(s), "")
		a.PlanID = "plan-1"
		if err := uow.Adjustments().Append(ctx, &a); err != nil {
			t.Fatalf("append %s: %v", s, err)
		}
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	uow = mustBegin(t, store)
	defer uow.Rollback()

	got, err := uow.Adjustments().ListByPlan(ctx, "plan-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(amounts) {
		t.Fatalf("want %d adjustments, got %d", len(amounts), len(got))
	}
	for i, a := range got {
		if a.Seq != i {
			t.Errorf("adjustment[%d]: want seq %d, got %d", i, i, a.Seq)
		}
		if !a.Amount.Equal(decimal.RequireFromString(amounts[i])) {
			t.Errorf("adjustment[%d]: want amount %s, got %s", i, amounts[i], a.Amount)
		}
		if a.ID == 0 {
			t.Errorf("adjustment[%d]: ID not assigned", i)
		}
	}

	count, err := uow.Adjustments().CountByPlan(ctx, "plan-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != len(amounts) {
		t.Errorf("count: want %d, got %d", len(amounts), count)
	}
}

func TestDeletePlanCascadesToAdjustments(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	p := domain.NewProductionPlan("plan-1")
	uow := mustBegin(t, store)
	if err := uow.Plans().Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	a := domain.NewAdjustment(decimal.NewFromInt(1), "")
	a.PlanID = "plan-1"
	if err := uow.Adjustments().Append(ctx, &a); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	uow = mustBegin(t, store)
	if err := uow.Plans().Delete(ctx, "plan-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	uow = mustBegin(t, store)
	defer uow.Rollback()

	got, err := uow.Adjustments().ListByPlan(ctx, "plan-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("adjustments not cascaded: %d left", len(got))
	}

	if err := uow.Plans().Delete(ctx, "plan-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("double delete: want ErrNotFound, got %v", err)
	}
}

func TestListPlansPagination(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	uow := mustBegin(t, store)
	for _, id := range []string{"a", "b", "c"} {
		if err := uow.Plans().Create(ctx, domain.NewProductionPlan(id)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	uow = mustBegin(t, store)
	defer uow.Rollback()

	page, err := uow.Plans().List(ctx, storage.ListOptions{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("want 2 plans, got %d", len(page))
	}

	all, err := uow.Plans().List(ctx, storage.ListOptions{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("want 3 plans, got %d", len(all))
	}
}
