package probe

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// ErrSourceNotFound is returned when a local source path does not exist
var ErrSourceNotFound = media.ErrSourceNotFound

// Service coordinates media probing and keeps the probe history
type Service struct {
	prober  media.Prober
	checker media.FileChecker
	store   media.ReportStore
}

// NewService creates a new probe service. The store may be nil, in which
// case no history is kept.
func NewService(prober media.Prober, checker media.FileChecker, store media.ReportStore) *Service {
	return &Service{
		prober:  prober,
		checker: checker,
		store:   store,
	}
}

// Probe validates the source, runs the prober, and records the result.
// A history write failure is logged but does not fail the probe.
func (s *Service) Probe(ctx context.Context, rawSource string) (*media.ReportRecord, error) {
	src, err := media.NewSource(rawSource)
	if err != nil {
		return nil, err
	}

	if !src.IsRemote() && !s.checker.Exists(src.String()) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, src)
	}

	report, err := s.prober.Probe(ctx, src)
	if err != nil {
		return nil, err
	}

	rec := media.NewReportRecord(src, report)

	if s.store != nil {
		if err := s.store.SaveReport(ctx, rec); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).
				Str("source", src.String()).
				Msg("failed to record probe report")
		}
	}

	return rec, nil
}

// Report fetches a stored probe report by id
func (s *Service) Report(ctx context.Context, id uuid.UUID) (*media.ReportRecord, error) {
	if s.store == nil {
		return nil, media.ErrReportNotFound
	}
	return s.store.GetReport(ctx, id)
}

// Reports returns the most recent probe reports, newest first
func (s *Service) Reports(ctx context.Context, limit int) ([]*media.ReportRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListReports(ctx, limit)
}
