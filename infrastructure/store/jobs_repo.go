package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shailu9/MediaInfoApi/domain/job"
)

var _ job.Repository = (*Store)(nil)

// dbJob represents a job as stored in the database
type dbJob struct {
	ID           uuid.UUID      `db:"id"`
	Kind         string         `db:"kind"`
	Source       string         `db:"source"`
	Params       sql.NullString `db:"params"`
	Status       string         `db:"status"`
	Error        string         `db:"error"`
	Result       sql.NullString `db:"result"`
	ArtifactPath string         `db:"artifact_path"`
	ArchiveURL   string         `db:"archive_url"`
	CreatedAt    time.Time      `db:"created_at"`
	StartedAt    sql.NullTime   `db:"started_at"`
	FinishedAt   sql.NullTime   `db:"finished_at"`
}

// toDomainJob converts a dbJob to a job.Job
func toDomainJob(row *dbJob) *job.Job {
	j := &job.Job{
		ID:           row.ID,
		Kind:         job.Kind(row.Kind),
		Source:       row.Source,
		Status:       job.Status(row.Status),
		Error:        row.Error,
		ArtifactPath: row.ArtifactPath,
		ArchiveURL:   row.ArchiveURL,
		CreatedAt:    row.CreatedAt,
	}

	if row.Params.Valid && row.Params.String != "" {
		j.Params = json.RawMessage(row.Params.String)
	}
	if row.Result.Valid && row.Result.String != "" {
		j.Result = json.RawMessage(row.Result.String)
	}
	if row.StartedAt.Valid {
		t := row.StartedAt.Time
		j.StartedAt = &t
	}
	if row.FinishedAt.Valid {
		t := row.FinishedAt.Time
		j.FinishedAt = &t
	}

	return j
}

// fromDomainJob converts a job.Job to a dbJob
func fromDomainJob(j *job.Job) *dbJob {
	row := &dbJob{
		ID:           j.ID,
		Kind:         string(j.Kind),
		Source:       j.Source,
		Status:       string(j.Status),
		Error:        j.Error,
		ArtifactPath: j.ArtifactPath,
		ArchiveURL:   j.ArchiveURL,
		CreatedAt:    j.CreatedAt,
	}

	if len(j.Params) > 0 {
		row.Params = sql.NullString{String: string(j.Params), Valid: true}
	}
	if len(j.Result) > 0 {
		row.Result = sql.NullString{String: string(j.Result), Valid: true}
	}
	if j.StartedAt != nil {
		row.StartedAt = sql.NullTime{Time: *j.StartedAt, Valid: true}
	}
	if j.FinishedAt != nil {
		row.FinishedAt = sql.NullTime{Time: *j.FinishedAt, Valid: true}
	}

	return row
}

// Insert stores a new job
func (s *Store) Insert(ctx context.Context, j *job.Job) error {
	query := `INSERT INTO jobs (id, kind, source, params, status, error, result, artifact_path, archive_url, created_at, started_at, finished_at)
	          VALUES (:id, :kind, :source, :params, :status, :error, :result, :artifact_path, :archive_url, :created_at, :started_at, :finished_at)`

	if _, err := s.db.NamedExecContext(ctx, query, fromDomainJob(j)); err != nil {
		return fmt.Errorf("inserting job %s: %w", j.ID, err)
	}
	return nil
}

// Update rewrites a job's mutable fields
func (s *Store) Update(ctx context.Context, j *job.Job) error {
	query := `UPDATE jobs
	          SET status = :status, error = :error, result = :result,
	              artifact_path = :artifact_path, archive_url = :archive_url,
	              started_at = :started_at, finished_at = :finished_at
	          WHERE id = :id`

	res, err := s.db.NamedExecContext(ctx, query, fromDomainJob(j))
	if err != nil {
		return fmt.Errorf("updating job %s: %w", j.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating job %s: %w", j.ID, job.ErrJobNotFound)
	}
	return nil
}

// Get fetches a job by id
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	var row dbJob
	err := s.db.GetContext(ctx, &row, `SELECT * FROM jobs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting job %s: %w", id, err)
	}
	return toDomainJob(&row), nil
}

// List returns jobs matching the filter, newest first
func (s *Store) List(ctx context.Context, f job.Filter) ([]*job.Job, error) {
	query := `SELECT * FROM jobs`
	var (
		conds []string
		args  []interface{}
	)

	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	var rows []*dbJob
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	jobs := make([]*job.Job, len(rows))
	for i, row := range rows {
		jobs[i] = toDomainJob(row)
	}
	return jobs, nil
}

// FailUnfinished marks all queued and running jobs failed with the given
// reason
func (s *Store) FailUnfinished(ctx context.Context, reason string) (int64, error) {
	query := `UPDATE jobs
	          SET status = ?, error = ?, finished_at = ?
	          WHERE status IN (?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		string(job.StatusFailed), reason, time.Now().UTC(),
		string(job.StatusQueued), string(job.StatusRunning))
	if err != nil {
		return 0, fmt.Errorf("failing unfinished jobs: %w", err)
	}

	return res.RowsAffected()
}
