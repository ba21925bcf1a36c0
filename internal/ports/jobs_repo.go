package ports

import (
	"context"
	"time"
)

type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// DTO для истории конвертаций
type Job struct {
	ID         string     `json:"id"`
	SourceName string     `json:"source_name"`
	Mode       Mode       `json:"mode"`
	Pages      []int64    `json:"pages"`
	DPI        int        `json:"dpi"`
	Status     JobStatus  `json:"status"`
	Error      *string    `json:"error,omitempty"`
	Artifacts  []string   `json:"artifacts,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Репозиторий Postgres
type JobRepo interface {
	Create(ctx context.Context, job *Job) error
	Finish(ctx context.Context, id string, status JobStatus, artifacts []string, errText *string) error
	Get(ctx context.Context, id string) (*Job, error)
	ListRecent(ctx context.Context, limit int) ([]Job, error)
}
