package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medscan/facesheet-extractor/constants"
	"github.com/medscan/facesheet-extractor/internal/entity"
)

type ExtractJobRepository interface {
	Start(ctx context.Context, pageID uuid.UUID) (*entity.ExtractJob, error)
	FinishSuccess(ctx context.Context, jobID uuid.UUID) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
}

type extractJobRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewExtractJobRepository(db *sql.DB, log *slog.Logger) ExtractJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractJobRepo{db: db, log: log}
}

func (r *extractJobRepo) Start(ctx context.Context, pageID uuid.UUID) (*entity.ExtractJob, error) {
	job := &entity.ExtractJob{
		ID:        uuid.New(),
		PageID:    pageID,
		Status:    string(constants.JobStatusRunning),
		StartedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extract_jobs (id, page_id, status, started_at) VALUES (?, ?, ?, ?)`,
		job.ID.String(), job.PageID.String(), job.Status, job.StartedAt,
	)
	if err != nil {
		r.log.Error("extract_job start failed", "page_id", pageID, "err", err)
		return nil, err
	}
	r.log.Info("extract_job started", "job_id", job.ID, "page_id", pageID)
	return job, nil
}

func (r *extractJobRepo) FinishSuccess(ctx context.Context, jobID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = ?, finished_at = ? WHERE id = ?`,
		string(constants.JobStatusExtracted), time.Now().UTC(), jobID.String(),
	)
	if err != nil {
		r.log.Error("extract_job finish(OK) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("extract_job finished", "job_id", jobID, "status", constants.JobStatusExtracted)
	return nil
}

func (r *extractJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = ?, finished_at = ?, error_message = ? WHERE id = ?`,
		string(constants.JobStatusFailed), time.Now().UTC(), message, jobID.String(),
	)
	if err != nil {
		r.log.Error("extract_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("extract_job failed", "job_id", jobID, "message", message)
	return nil
}
