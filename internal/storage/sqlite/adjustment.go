package sqlite

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/example/prodplan/internal/domain"
)

type adjustmentRepo struct {
	tx *sql.Tx
}

// Append inserts the adjustment at the end of its plan's sequence. The seq
// column is assigned inside the same transaction, so insertion order is
// exactly sequence order.
func (r *adjustmentRepo) Append(ctx context.Context, a *domain.Adjustment) error {
	row := r.tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM adjustments WHERE plan_id = ?`, a.PlanID)
	if err := row.Scan(&a.Seq); err != nil {
		return err
	}

	result, err := r.tx.ExecContext(ctx, `
		INSERT INTO adjustments (plan_id, seq, amount, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.PlanID, a.Seq, a.Amount.String(), a.Reason, a.CreatedAt)
	if err != nil {
		return err
	}

	a.ID, err = result.LastInsertId()
	return err
}

func (r *adjustmentRepo) ListByPlan(ctx context.Context, planID string) ([]domain.Adjustment, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, plan_id, seq, amount, reason, created_at
		FROM adjustments WHERE plan_id = ? ORDER BY seq
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []domain.Adjustment
	for rows.Next() {
		var a domain.Adjustment
		var amount string
		if err := rows.Scan(&a.ID, &a.PlanID, &a.Seq, &amount, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (r *adjustmentRepo) CountByPlan(ctx context.Context, planID string) (int, error) {
	var count int
	err := r.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM adjustments WHERE plan_id = ?`, planID).Scan(&count)
	return count, err
}
