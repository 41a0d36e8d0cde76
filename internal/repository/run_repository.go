package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"perfumeprj/internal/ingest"
)

// Run is one row of import_runs.
type Run struct {
	ID         string
	Command    string
	Source     string
	Found      int
	Mapped     int
	Skipped    int
	Inserted   int
	Updated    int
	Failed     int
	PageErrors int
	Errors     []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRun snapshots a finished pipeline summary.
func NewRun(command, source string, s ingest.Summary, started, finished time.Time) Run {
	return Run{
		ID:         uuid.NewString(),
		Command:    command,
		Source:     source,
		Found:      s.Found,
		Mapped:     s.Mapped,
		Skipped:    s.Skipped,
		Inserted:   s.Inserted,
		Updated:    s.Updated,
		Failed:     s.Failed,
		PageErrors: s.PageErrors,
		Errors:     s.Errors,
		StartedAt:  started,
		FinishedAt: finished,
	}
}

type RunRepository struct {
	DB *sql.DB
}

func (r *RunRepository) Record(ctx context.Context, run Run) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO import_runs
		(id, command, source, found, mapped, skipped, inserted, updated, failed, page_errors, errors, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, run.ID, run.Command, run.Source, run.Found, run.Mapped, run.Skipped, run.Inserted,
		run.Updated, run.Failed, run.PageErrors, pq.Array(run.Errors), run.StartedAt, run.FinishedAt)
	return err
}

// Recent lists the latest runs, newest first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, command, source, found, mapped, skipped, inserted, updated, failed, page_errors, errors, started_at, finished_at
		FROM import_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Command, &run.Source, &run.Found, &run.Mapped, &run.Skipped,
			&run.Inserted, &run.Updated, &run.Failed, &run.PageErrors, pq.Array(&run.Errors),
			&run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		list = append(list, run)
	}
	return list, rows.Err()
}
