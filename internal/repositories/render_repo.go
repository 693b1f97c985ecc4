package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RenderRecord is the persisted trail of a render job. Session state lives
// in memory; only submitted renders and their outcomes survive restarts.
type RenderRecord struct {
	JobID       string     `json:"job_id"`
	SessionID   uuid.UUID  `json:"session_id"`
	Template    string     `json:"template"`
	Brand       string     `json:"brand"`
	Headline    string     `json:"headline"`
	Status      string     `json:"status"`
	ResultURL   *string    `json:"result_url,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type RenderRepo struct {
	pool *pgxpool.Pool
}

func NewRenderRepo(pool *pgxpool.Pool) *RenderRepo {
	return &RenderRepo{pool: pool}
}

func (r *RenderRepo) Create(ctx context.Context, rec *RenderRecord) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO render_jobs (job_id, session_id, template, brand, headline, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING submitted_at, updated_at
	`, rec.JobID, rec.SessionID, rec.Template, rec.Brand, rec.Headline, rec.Status,
	).Scan(&rec.SubmittedAt, &rec.UpdatedAt)
}

// UpdateStatus records a status transition. resultURL must be nil for any
// terminal value other than done.
func (r *RenderRepo) UpdateStatus(ctx context.Context, jobID, status string, resultURL *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE render_jobs SET status = $1, result_url = $2, updated_at = now()
		WHERE job_id = $3
	`, status, resultURL, jobID)
	return err
}

func (r *RenderRepo) GetByJobID(ctx context.Context, jobID string) (*RenderRecord, error) {
	var rec RenderRecord
	err := r.pool.QueryRow(ctx, `
		SELECT job_id, session_id, template, brand, headline, status, result_url, submitted_at, updated_at
		FROM render_jobs WHERE job_id = $1
	`, jobID).Scan(&rec.JobID, &rec.SessionID, &rec.Template, &rec.Brand, &rec.Headline,
		&rec.Status, &rec.ResultURL, &rec.SubmittedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RenderRepo) List(ctx context.Context, limit, offset int) ([]RenderRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT job_id, session_id, template, brand, headline, status, result_url, submitted_at, updated_at
		FROM render_jobs ORDER BY submitted_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		var rec RenderRecord
		if err := rows.Scan(&rec.JobID, &rec.SessionID, &rec.Template, &rec.Brand, &rec.Headline,
			&rec.Status, &rec.ResultURL, &rec.SubmittedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetStale returns non-terminal renders not touched for at least age.
// The reaper worker re-polls these in case their watcher died with the
// API process.
func (r *RenderRepo) GetStale(ctx context.Context, age time.Duration) ([]RenderRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT job_id, session_id, template, brand, headline, status, result_url, submitted_at, updated_at
		FROM render_jobs
		WHERE status NOT IN ('done', 'failed', 'canceled')
		  AND updated_at < now() - make_interval(secs => $1)
		ORDER BY submitted_at
	`, age.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		var rec RenderRecord
		if err := rows.Scan(&rec.JobID, &rec.SessionID, &rec.Template, &rec.Brand, &rec.Headline,
			&rec.Status, &rec.ResultURL, &rec.SubmittedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
