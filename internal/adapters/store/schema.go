package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the solution archive tables. The statements are valid
// for both Postgres and SQLite.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSolutionsQuery := `
	CREATE TABLE IF NOT EXISTS solutions (
		plan_id TEXT PRIMARY KEY,
		stage TEXT NOT NULL,
		progress DOUBLE PRECISION NOT NULL,
		raw_response TEXT NOT NULL,
		general_settings TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	createSolutionStopsQuery := `
	CREATE TABLE IF NOT EXISTS solution_stops (
		plan_id TEXT NOT NULL,
		name TEXT NOT NULL,
		assign_to TEXT,
		run INTEGER,
		seq INTEGER,
		eta TEXT,
		exception TEXT,
		PRIMARY KEY (plan_id, name)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solution_stops_assign_to
	ON solution_stops(plan_id, assign_to);
	`

	statements := []string{
		createSolutionsQuery,
		createSolutionStopsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
