package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shailu9/MediaInfoApi/domain/job"
)

// Start launches the worker pool. Workers run until ctx is canceled;
// use Wait to block until they have drained.
func (s *Service) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
	zerolog.Ctx(ctx).Info().
		Int("workers", s.workers).
		Int("queue_size", cap(s.queue)).
		Msg("worker pool started")
}

// Wait blocks until every worker has stopped
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) worker(ctx context.Context, n int) {
	defer s.wg.Done()
	logger := zerolog.Ctx(ctx).With().Int("worker", n).Logger()

	for {
		select {
		case <-ctx.Done():
			return
		case id := <-s.queue:
			s.process(ctx, logger, id)
		}
	}
}

// process runs a single queued job through the executor and persists the
// terminal state. Jobs canceled before pickup are skipped; jobs canceled
// mid-run keep the state the cancellation wrote.
func (s *Service) process(ctx context.Context, logger zerolog.Logger, id uuid.UUID) {
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		logger.Error().Err(err).Str("job_id", id.String()).Msg("queued job could not be loaded")
		return
	}
	if j.Status != job.StatusQueued {
		return
	}

	if err := j.Start(); err != nil {
		return
	}
	if err := s.repo.Update(ctx, j); err != nil {
		logger.Error().Err(err).Str("job_id", id.String()).Msg("failed to mark job running")
		return
	}

	jlog := logger.With().
		Str("job_id", j.ID.String()).
		Str("kind", string(j.Kind)).
		Logger()

	jctx, cancel := context.WithTimeout(ctx, s.timeout)
	jctx = jlog.WithContext(jctx)

	s.mu.Lock()
	s.cancels[j.ID] = cancel
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.cancels, j.ID)
		s.mu.Unlock()
	}()

	jlog.Info().Str("source", j.Source).Msg("job started")
	outcome, err := s.executor.Execute(jctx, j)

	if outcome != nil {
		j.ArtifactPath = outcome.ArtifactPath
		j.ArchiveURL = outcome.ArchiveURL
	}

	switch {
	case err == nil:
		var result json.RawMessage
		if outcome != nil {
			result = outcome.Result
		}
		if serr := j.Succeed(result); serr != nil {
			jlog.Error().Err(serr).Msg("job finished in an unexpected state")
			return
		}
		s.persist(jlog, j)
		jlog.Info().Float64("seconds", j.DurationSeconds()).Msg("job finished")

	case errors.Is(err, context.Canceled) || errors.Is(jctx.Err(), context.Canceled):
		// Cancellation already wrote the terminal state, or shutdown
		// interrupted the run and startup recovery will reconcile it
		jlog.Info().Msg("job canceled")

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(jctx.Err(), context.DeadlineExceeded):
		if ferr := j.Fail(fmt.Sprintf("timed out after %s", s.timeout)); ferr == nil {
			s.persist(jlog, j)
		}
		jlog.Warn().Dur("timeout", s.timeout).Msg("job timed out")

	default:
		if ferr := j.Fail(err.Error()); ferr == nil {
			s.persist(jlog, j)
		}
		jlog.Error().Err(err).Msg("job failed")
	}
}

// persist writes a terminal job state outside the job's own context, so
// a canceled or expired context cannot lose the final status
func (s *Service) persist(logger zerolog.Logger, j *job.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Update(ctx, j); err != nil {
		logger.Error().Err(err).Str("job_id", j.ID.String()).Msg("failed to persist job state")
	}
}
