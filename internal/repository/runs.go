package repository

import (
	"context"
	"time"

	"github.com/paiban/gunmupyo/internal/database"
)

// Run is one past solve request/result pair, kept only when the
// audit log is enabled (internal/config SolverConfig.AuditEnabled).
// The core solver never reads this table back — it exists purely for
// operators reviewing past requests.
type Run struct {
	RunID      string
	Year       int
	Month      int
	Employees  int
	Status     string
	Objective  int
	DurationMs int64
	CreatedAt  time.Time
}

// RunRepository persists Run records to Postgres via lib/pq (wired in
// internal/database). It is the sole write path into the audit table;
// nothing in pkg/rota depends on it.
type RunRepository struct {
	db *database.DB
}

// NewRunRepository wraps db for audit-log writes.
func NewRunRepository(db *database.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the audit table if it doesn't already exist.
// Called once at startup when the audit log is enabled.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS solve_runs (
	run_id       TEXT PRIMARY KEY,
	year         INTEGER NOT NULL,
	month        INTEGER NOT NULL,
	employees    INTEGER NOT NULL,
	status       TEXT NOT NULL,
	objective    INTEGER NOT NULL,
	duration_ms  BIGINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Record inserts one completed solve's summary.
func (r *RunRepository) Record(ctx context.Context, run Run) error {
	const stmt = `
INSERT INTO solve_runs (run_id, year, month, employees, status, objective, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (run_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, stmt,
		run.RunID, run.Year, run.Month, run.Employees, run.Status, run.Objective, run.DurationMs)
	return err
}

// Recent returns the most recent n audit rows, newest first.
func (r *RunRepository) Recent(ctx context.Context, n int) ([]Run, error) {
	const q = `
SELECT run_id, year, month, employees, status, objective, duration_ms, created_at
FROM solve_runs
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.RunID, &run.Year, &run.Month, &run.Employees,
			&run.Status, &run.Objective, &run.DurationMs, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
