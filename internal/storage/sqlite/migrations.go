package sqlite

import (
	"context"
	"database/sql"
)

// Migrate runs all database migrations.
//
// Note the plans table carries no production column: the figure is derived
// from initial_production and the adjustments ledger on every read.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		// Plans table
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			initial_production TEXT NOT NULL DEFAULT '0',
			metadata_json TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		)`,

		// Adjustments ledger: append-only, insertion order preserved by seq
		`CREATE TABLE IF NOT EXISTS adjustments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			amount TEXT NOT NULL,
			reason TEXT,
			created_at DATETIME NOT NULL,
			UNIQUE(plan_id, seq),
			FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
		)`,

		// Indexes for efficient queries
		`CREATE INDEX IF NOT EXISTS idx_adjustments_plan ON adjustments(plan_id, seq)`,
	}

	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}
