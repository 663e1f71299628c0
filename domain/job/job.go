package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the type of work a job performs
type Kind string

// Supported job kinds
const (
	KindProbe        Kind = "probe"
	KindExtractAudio Kind = "extract_audio"
	KindTrim         Kind = "trim"
	KindSilenceScan  Kind = "silence_scan"
	KindTemplateScan Kind = "template_scan"
)

// ErrUnknownKind is returned for job kinds the service does not implement
var ErrUnknownKind = errors.New("unknown job kind")

// ParseKind validates a raw kind string
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindProbe, KindExtractAudio, KindTrim, KindSilenceScan, KindTemplateScan:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Status tracks a job through its lifecycle
type Status string

// Job lifecycle states. Queued jobs wait for a worker; running jobs hold
// one. The remaining states are terminal.
const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// ErrUnknownStatus is returned for status strings outside the lifecycle
var ErrUnknownStatus = errors.New("unknown job status")

// ParseStatus validates a raw status string
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusQueued, StatusRunning, StatusSucceeded, StatusFailed, StatusCanceled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// Terminal returns true once a job can no longer change state
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// ErrBadTransition is returned when a lifecycle change is not allowed from
// the job's current status
var ErrBadTransition = errors.New("invalid job state transition")

// Job is a unit of asynchronous media work. The zero value is not usable;
// construct with New.
type Job struct {
	ID           uuid.UUID
	Kind         Kind
	Source       string
	Params       json.RawMessage
	Status       Status
	Error        string
	Result       json.RawMessage
	ArtifactPath string
	ArchiveURL   string
	CreatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// New creates a queued job for the given source. Params carry the
// kind-specific options exactly as submitted.
func New(kind Kind, source string, params json.RawMessage) *Job {
	return &Job{
		ID:        uuid.New(),
		Kind:      kind,
		Source:    source,
		Params:    params,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
}

// Start moves a queued job to running
func (j *Job) Start() error {
	if j.Status != StatusQueued {
		return fmt.Errorf("%w: cannot start a %s job", ErrBadTransition, j.Status)
	}
	now := time.Now().UTC()
	j.Status = StatusRunning
	j.StartedAt = &now
	return nil
}

// Succeed moves a running job to succeeded, recording its result document
func (j *Job) Succeed(result json.RawMessage) error {
	if j.Status != StatusRunning {
		return fmt.Errorf("%w: cannot complete a %s job", ErrBadTransition, j.Status)
	}
	now := time.Now().UTC()
	j.Status = StatusSucceeded
	j.Result = result
	j.FinishedAt = &now
	return nil
}

// Fail moves a queued or running job to failed with the given reason
func (j *Job) Fail(reason string) error {
	if j.Status.Terminal() {
		return fmt.Errorf("%w: cannot fail a %s job", ErrBadTransition, j.Status)
	}
	now := time.Now().UTC()
	j.Status = StatusFailed
	j.Error = reason
	j.FinishedAt = &now
	return nil
}

// Cancel moves a queued or running job to canceled
func (j *Job) Cancel() error {
	if j.Status.Terminal() {
		return fmt.Errorf("%w: cannot cancel a %s job", ErrBadTransition, j.Status)
	}
	now := time.Now().UTC()
	j.Status = StatusCanceled
	j.FinishedAt = &now
	return nil
}

// DurationSeconds returns how long the job ran, or 0 before it finishes
func (j *Job) DurationSeconds() float64 {
	if j.StartedAt == nil || j.FinishedAt == nil {
		return 0
	}
	return j.FinishedAt.Sub(*j.StartedAt).Seconds()
}
