package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shailu9/MediaInfoApi/domain/job"
	"github.com/shailu9/MediaInfoApi/domain/media"
)

// Worker pool defaults; override with the service options
const (
	DefaultWorkers   = 2
	DefaultQueueSize = 64
	DefaultTimeout   = 10 * time.Minute
)

// ErrQueueFull is returned when a submission cannot be enqueued
var ErrQueueFull = errors.New("job queue is full")

// ValidationError reports a submission the service refuses to queue
type ValidationError struct {
	Field   string // Part of the submission that failed
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Service accepts media jobs, runs them on a bounded worker pool and
// tracks their lifecycle in the repository
type Service struct {
	repo     job.Repository
	checker  media.FileChecker
	executor Executor

	queue   chan uuid.UUID
	workers int
	timeout time.Duration

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc

	wg sync.WaitGroup
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithWorkers sets the number of concurrent workers
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithQueueSize sets how many jobs may wait for a worker
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queue = make(chan uuid.UUID, n)
		}
	}
}

// WithTimeout caps how long a single job may run
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService creates a new job service
func NewService(repo job.Repository, checker media.FileChecker, executor Executor, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		checker:  checker,
		executor: executor,
		workers:  DefaultWorkers,
		timeout:  DefaultTimeout,
		cancels:  make(map[uuid.UUID]context.CancelFunc),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.queue == nil {
		s.queue = make(chan uuid.UUID, DefaultQueueSize)
	}

	return s
}

// SubmitRequest contains the parameters for a new job
type SubmitRequest struct {
	Kind   string
	Source string
	Params []byte // Kind-specific options as raw JSON
}

// Submit validates and persists a new job, then hands it to the worker
// pool. When the queue is full the job is persisted as failed and
// ErrQueueFull is returned.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*job.Job, error) {
	kind, err := job.ParseKind(req.Kind)
	if err != nil {
		return nil, &ValidationError{Field: "kind", Message: err.Error()}
	}

	src, err := media.NewSource(req.Source)
	if err != nil {
		return nil, &ValidationError{Field: "url", Message: err.Error()}
	}
	if !src.IsRemote() && !s.checker.Exists(src.String()) {
		return nil, &ValidationError{Field: "url", Message: fmt.Sprintf("source file does not exist: %s", src)}
	}

	if err := job.ValidateParams(kind, req.Params); err != nil {
		return nil, &ValidationError{Field: "params", Message: err.Error()}
	}

	j := job.New(kind, src.String(), req.Params)
	if err := s.repo.Insert(ctx, j); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	select {
	case s.queue <- j.ID:
	default:
		// Keep the audit trail honest: the row exists, mark it rejected
		if ferr := j.Fail("rejected: queue full"); ferr == nil {
			if uerr := s.repo.Update(ctx, j); uerr != nil {
				zerolog.Ctx(ctx).Error().Err(uerr).
					Str("job_id", j.ID.String()).
					Msg("failed to record queue rejection")
			}
		}
		return nil, ErrQueueFull
	}

	return j, nil
}

// Get fetches a job by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return s.repo.Get(ctx, id)
}

// ListRequest narrows a job listing. Zero fields are ignored.
type ListRequest struct {
	Status string
	Kind   string
	Limit  int
}

// List returns jobs matching the request, newest first
func (s *Service) List(ctx context.Context, req ListRequest) ([]*job.Job, error) {
	var f job.Filter

	if req.Status != "" {
		status, err := job.ParseStatus(req.Status)
		if err != nil {
			return nil, &ValidationError{Field: "status", Message: err.Error()}
		}
		f.Status = status
	}

	if req.Kind != "" {
		kind, err := job.ParseKind(req.Kind)
		if err != nil {
			return nil, &ValidationError{Field: "kind", Message: err.Error()}
		}
		f.Kind = kind
	}

	f.Limit = req.Limit
	return s.repo.List(ctx, f)
}

// Cancel stops a queued or running job. Queued jobs never start; running
// jobs have their context canceled. Finished jobs return ErrBadTransition.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := j.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("failed to persist cancellation: %w", err)
	}

	s.mu.Lock()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
	}
	s.mu.Unlock()

	return j, nil
}

// Recover reconciles jobs left queued or running by a previous run.
// Call once at startup, before the workers start.
func (s *Service) Recover(ctx context.Context) (int64, error) {
	n, err := s.repo.FailUnfinished(ctx, "interrupted by restart")
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile unfinished jobs: %w", err)
	}
	return n, nil
}
