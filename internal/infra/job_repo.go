package infra

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/masa1724/pdf2image/internal/ports"
)

var ErrJobNotFound = errors.New("job not found")

const schema = `
CREATE TABLE IF NOT EXISTS conversion_jobs (
	id          TEXT PRIMARY KEY,
	source_name TEXT NOT NULL,
	mode        TEXT NOT NULL,
	pages       BIGINT[] NOT NULL,
	dpi         INTEGER NOT NULL,
	status      TEXT NOT NULL,
	error_text  TEXT,
	artifacts   TEXT[] NOT NULL DEFAULT '{}',
	created_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ
)`

// Migrate создаёт таблицу, если её ещё нет.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

type jobRepo struct {
	db *sql.DB
}

func NewJobRepo(db *sql.DB) ports.JobRepo {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *ports.Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversion_jobs (id, source_name, mode, pages, dpi, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, job.ID, job.SourceName, string(job.Mode), pq.Array(job.Pages), job.DPI, string(job.Status), job.CreatedAt)
	return err
}

func (r *jobRepo) Finish(ctx context.Context, id string, status ports.JobStatus, artifacts []string, errText *string) error {
	if artifacts == nil {
		artifacts = []string{}
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE conversion_jobs
		SET status = $2, artifacts = $3, error_text = $4, finished_at = $5
		WHERE id = $1
	`, id, string(status), pq.Array(artifacts), errText, time.Now())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *jobRepo) Get(ctx context.Context, id string) (*ports.Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_name, mode, pages, dpi, status, error_text, artifacts, created_at, finished_at
		FROM conversion_jobs
		WHERE id = $1
	`, id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	return job, err
}

func (r *jobRepo) ListRecent(ctx context.Context, limit int) ([]ports.Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_name, mode, pages, dpi, status, error_text, artifacts, created_at, finished_at
		FROM conversion_jobs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []ports.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*ports.Job, error) {
	var (
		job      ports.Job
		mode     string
		status   string
		finished sql.NullTime
	)
	if err := s.Scan(
		&job.ID,
		&job.SourceName,
		&mode,
		pq.Array(&job.Pages),
		&job.DPI,
		&status,
		&job.Error,
		pq.Array(&job.Artifacts),
		&job.CreatedAt,
		&finished,
	); err != nil {
		return nil, err
	}
	job.Mode = ports.Mode(mode)
	job.Status = ports.JobStatus(status)
	if finished.Valid {
		job.FinishedAt = &finished.Time
	}
	return &job, nil
}

// memJobRepo — история в памяти, когда DATABASE_URL не задан
type memJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*ports.Job
	ids  []string
}

func NewMemJobRepo() ports.JobRepo {
	return &memJobRepo{jobs: make(map[string]*ports.Job)}
}

func (r *memJobRepo) Create(_ context.Context, job *ports.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		r.ids = append(r.ids, job.ID)
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) Finish(_ context.Context, id string, status ports.JobStatus, artifacts []string, errText *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	now := time.Now()
	job.Status = status
	job.Artifacts = append([]string(nil), artifacts...)
	job.Error = errText
	job.FinishedAt = &now
	return nil
}

func (r *memJobRepo) Get(_ context.Context, id string) (*ports.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *memJobRepo) ListRecent(_ context.Context, limit int) ([]ports.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ports.Job
	for i := len(r.ids) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.jobs[r.ids[i]])
	}
	return out, nil
}
