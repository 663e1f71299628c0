package analysis

import (
	"context"
	"errors"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// Analysis defaults, used when a request leaves the tuning knobs unset
const (
	// DefaultNoiseDB is the silence threshold in dBFS
	DefaultNoiseDB = -30.0

	// DefaultMinSilenceSeconds is the shortest gap reported as silence
	DefaultMinSilenceSeconds = 2.0

	// DefaultFrameInterval is the sampling step for template scans, in seconds
	DefaultFrameInterval = 5

	// DefaultMatchThreshold is the minimum template match score counted as a hit
	DefaultMatchThreshold = 0.8
)

// ErrDetectorUnavailable is returned when template scanning support was not
// compiled into the binary
var ErrDetectorUnavailable = errors.New("template detection is not available in this build")

// SilenceOptions tunes a silence scan
type SilenceOptions struct {
	// NoiseDB is the level below which audio counts as silence, in dBFS
	NoiseDB float64

	// MinSilenceSeconds is the shortest gap worth reporting
	MinSilenceSeconds float64
}

// WithDefaults fills unset options with the package defaults
func (o SilenceOptions) WithDefaults() SilenceOptions {
	if o.NoiseDB == 0 {
		o.NoiseDB = DefaultNoiseDB
	}
	if o.MinSilenceSeconds <= 0 {
		o.MinSilenceSeconds = DefaultMinSilenceSeconds
	}
	return o
}

// Segment is a span of detected silence within a stream
type Segment struct {
	// Start is the segment begin offset in seconds
	Start float64

	// End is the segment end offset in seconds
	End float64
}

// Duration returns the segment length in seconds
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// SilenceDetector finds quiet spans in a source's audio track
// This is a port implemented by the ffmpeg adapter
type SilenceDetector interface {
	DetectSilence(ctx context.Context, src media.Source, opts SilenceOptions) ([]Segment, error)
}

// TemplateOptions tunes a template scan
type TemplateOptions struct {
	// FrameInterval is the sampling step in seconds
	FrameInterval int

	// MatchThreshold is the minimum match score counted as a hit (0.0-1.0)
	MatchThreshold float64
}

// WithDefaults fills unset options with the package defaults
func (o TemplateOptions) WithDefaults() TemplateOptions {
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.MatchThreshold <= 0 {
		o.MatchThreshold = DefaultMatchThreshold
	}
	return o
}

// TemplateMatch contains the outcome of a template scan
type TemplateMatch struct {
	// Found reports whether any frame scored above the threshold
	Found bool

	// Timestamp is the match position in HH:MM:SS form
	Timestamp media.Timestamp

	// OffsetSeconds is the match position in seconds
	OffsetSeconds float64

	// Confidence is the template match score (0.0-1.0)
	Confidence float64

	// FramesAnalyzed is the number of frames processed during the scan
	FramesAnalyzed int
}

// TemplateDetector scans video frames for a reference image
// This is a port implemented by the OpenCV adapter
type TemplateDetector interface {
	// FindTemplate samples frames from the video and reports the first
	// position where the template image matches above the threshold
	FindTemplate(ctx context.Context, videoPath, templatePath string, opts TemplateOptions) (*TemplateMatch, error)

	// Close releases any resources
	Close()
}
