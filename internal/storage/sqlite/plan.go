package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/example/prodplan/internal/domain"
	"github.com/example/prodplan/internal/storage"
)

type planRepo struct {
	tx *sql.Tx
}

func (r *planRepo) Create(ctx context.Context, p *domain.ProductionPlan) error {
	metadataJSON, err := json.Marshal(p.Metadata)
	if err != nil {
		return err
	}

	_, err = r.tx.ExecContext(ctx, `
		INSERT INTO plans (id, initial_production, metadata_json, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.InitialProduction.String(), string(metadataJSON), p.CreatedAt, p.UpdatedAt, p.Version)
	return err
}

func (r *planRepo) Get(ctx context.Context, id string) (*domain.ProductionPlan, error) {
	row := r.tx.QueryRowContext(ctx, `
		SELECT id, initial_production, metadata_json, created_at, updated_at, version
		FROM plans WHERE id = ?
	`, id)

	return scanPlan(row)
}

func (r *planRepo) Update(ctx context.Context, p *domain.ProductionPlan) error {
	metadataJSON, err := json.Marshal(p.Metadata)
	if err != nil {
		return err
	}

	// initial_production is fixed at creation and deliberately absent here.
	result, err := r.tx.ExecContext(ctx, `
		UPDATE plans
		SET metadata_json = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, string(metadataJSON), p.UpdatedAt, p.ID, p.Version)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrConcurrentModify
	}

	p.Version++
	return nil
}

func (r *planRepo) List(ctx context.Context, opts storage.ListOptions) ([]*domain.ProductionPlan, error) {
	query := `
		SELECT id, initial_production, metadata_json, created_at, updated_at, version
		FROM plans ORDER BY created_at, id
	`
	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.ProductionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	result, err := r.tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (*domain.ProductionPlan, error) {
	p := &domain.ProductionPlan{}
	var initial, metadataJSON string

	err := row.Scan(&p.ID, &initial, &metadataJSON, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.InitialProduction, err = decimal.NewFromString(initial)
	if err != nil {
		return nil, err
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &p.Metadata); err != nil {
			return nil, err
		}
	}
	if p.Metadata == nil {
		p.Metadata = make(map[string]string)
	}

	return p, nil
}
