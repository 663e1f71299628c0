package analysis

import (
	"context"
	"fmt"

	"github.com/shailu9/MediaInfoApi/domain/analysis"
	"github.com/shailu9/MediaInfoApi/domain/media"
)

// SilenceResult contains the outcome of a silence scan
type SilenceResult struct {
	Source       string
	NoiseDB      float64
	MinDuration  float64
	Segments     []analysis.Segment
	TotalSilence float64
}

// SilenceService coordinates silence scans
type SilenceService struct {
	detector analysis.SilenceDetector
	checker  media.FileChecker
	defaults analysis.SilenceOptions
}

// NewSilenceService creates a new silence scan service. Zero fields of
// defaults fall back to the package defaults.
func NewSilenceService(detector analysis.SilenceDetector, checker media.FileChecker, defaults analysis.SilenceOptions) *SilenceService {
	return &SilenceService{
		detector: detector,
		checker:  checker,
		defaults: defaults.WithDefaults(),
	}
}

// SilenceInput represents the input for a silence scan
type SilenceInput struct {
	Source      string
	NoiseDB     float64 // Optional, service default if zero
	MinDuration float64 // Optional, service default if zero
}

// Scan runs silence detection over the source's audio track
func (s *SilenceService) Scan(ctx context.Context, input SilenceInput) (*SilenceResult, error) {
	src, err := media.NewSource(input.Source)
	if err != nil {
		return nil, err
	}

	if !src.IsRemote() && !s.checker.Exists(src.String()) {
		return nil, fmt.Errorf("%w: %s", media.ErrSourceNotFound, src)
	}

	opts := analysis.SilenceOptions{
		NoiseDB:           input.NoiseDB,
		MinSilenceSeconds: input.MinDuration,
	}
	if opts.NoiseDB == 0 {
		opts.NoiseDB = s.defaults.NoiseDB
	}
	if opts.MinSilenceSeconds <= 0 {
		opts.MinSilenceSeconds = s.defaults.MinSilenceSeconds
	}

	segments, err := s.detector.DetectSilence(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, seg := range segments {
		total += seg.Duration()
	}

	return &SilenceResult{
		Source:       src.String(),
		NoiseDB:      opts.NoiseDB,
		MinDuration:  opts.MinSilenceSeconds,
		Segments:     segments,
		TotalSilence: total,
	}, nil
}
