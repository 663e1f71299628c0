package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrJobNotFound is returned when no job matches the given id
var ErrJobNotFound = errors.New("job not found")

// Filter narrows a job listing. Zero fields are ignored.
type Filter struct {
	Status Status
	Kind   Kind
	Limit  int
}

// Repository persists jobs across restarts
// This is a port implemented by the storage layer
type Repository interface {
	// Insert stores a new job
	Insert(ctx context.Context, j *Job) error

	// Update rewrites a job's mutable fields
	Update(ctx context.Context, j *Job) error

	// Get fetches a job by id; returns ErrJobNotFound when absent
	Get(ctx context.Context, id uuid.UUID) (*Job, error)

	// List returns jobs matching the filter, newest first
	List(ctx context.Context, f Filter) ([]*Job, error)

	// FailUnfinished marks all queued and running jobs failed with the
	// given reason and reports how many rows changed. Called at startup
	// to reconcile jobs interrupted by a crash.
	FailUnfinished(ctx context.Context, reason string) (int64, error)
}
