package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/shailu9/MediaInfoApi/domain/analysis"
	"github.com/shailu9/MediaInfoApi/domain/media"
)

// SilenceScanner implements analysis.SilenceDetector using ffmpeg's
// silencedetect filter. The filter reports on stderr, so the command runs
// at the default log level and the scanner parses that stream.
type SilenceScanner struct {
	ffmpegPath string
	runner     CommandRunner
}

// SilenceScannerOption is a functional option for configuring SilenceScanner
type SilenceScannerOption func(*SilenceScanner)

// WithScannerFFmpegPath sets a custom ffmpeg executable path
func WithScannerFFmpegPath(path string) SilenceScannerOption {
	return func(s *SilenceScanner) {
		s.ffmpegPath = path
	}
}

// WithScannerCommandRunner sets a custom command runner (for testing)
func WithScannerCommandRunner(runner CommandRunner) SilenceScannerOption {
	return func(s *SilenceScanner) {
		s.runner = runner
	}
}

// NewSilenceScanner creates a new ffmpeg-based silence detector
func NewSilenceScanner(opts ...SilenceScannerOption) *SilenceScanner {
	s := &SilenceScanner{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var (
	silenceStartRegex = regexp.MustCompile(`silence_start:\s*(-?\d+(?:\.\d+)?)`)
	silenceEndRegex   = regexp.MustCompile(`silence_end:\s*(-?\d+(?:\.\d+)?)`)

	// inputDurationRegex matches the Duration line of ffmpeg's input
	// report, used to close a silence span that runs to end of stream
	inputDurationRegex = regexp.MustCompile(`Duration:\s*(\d+):(\d{2}):(\d{2})(?:\.(\d+))?`)
)

// DetectSilence implements analysis.SilenceDetector
func (s *SilenceScanner) DetectSilence(ctx context.Context, src media.Source, opts analysis.SilenceOptions) ([]analysis.Segment, error) {
	opts = opts.WithDefaults()

	filter := fmt.Sprintf("silencedetect=noise=%gdB:d=%g", opts.NoiseDB, opts.MinSilenceSeconds)
	args := []string{
		"-hide_banner",
		"-nostats",
		"-i", src.String(),
		"-af", filter,
		"-f", "null", "-",
	}

	_, stderr, err := s.runner.Capture(ctx, s.ffmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg silence scan failed: %w", err)
	}

	return parseSilenceOutput(stderr), nil
}

// parseSilenceOutput walks the filter's stderr report. Starts and ends
// arrive on separate lines; a start with no matching end means the stream
// finished silent, and is closed at the input duration when known.
func parseSilenceOutput(stderr []byte) []analysis.Segment {
	var (
		segments  []analysis.Segment
		openStart *float64
		duration  float64
	)

	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	for scanner.Scan() {
		line := scanner.Text()

		if m := inputDurationRegex.FindStringSubmatch(line); m != nil {
			duration = parseClockDuration(m)
			continue
		}

		if m := silenceStartRegex.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				start := v
				if start < 0 {
					start = 0
				}
				openStart = &start
			}
			continue
		}

		if m := silenceEndRegex.FindStringSubmatch(line); m != nil && openStart != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > *openStart {
				segments = append(segments, analysis.Segment{Start: *openStart, End: v})
			}
			openStart = nil
		}
	}

	if openStart != nil && duration > *openStart {
		segments = append(segments, analysis.Segment{Start: *openStart, End: duration})
	}

	return segments
}

func parseClockDuration(m []string) float64 {
	hours, _ := strconv.ParseFloat(m[1], 64)
	minutes, _ := strconv.ParseFloat(m[2], 64)
	seconds, _ := strconv.ParseFloat(m[3], 64)
	total := hours*3600 + minutes*60 + seconds
	if m[4] != "" {
		if frac, err := strconv.ParseFloat("0."+m[4], 64); err == nil {
			total += frac
		}
	}
	return total
}

// VerifyInstalled checks that ffmpeg is available
func (s *SilenceScanner) VerifyInstalled(ctx context.Context) error {
	_, err := s.runner.Output(ctx, s.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure SilenceScanner implements analysis.SilenceDetector
var _ analysis.SilenceDetector = (*SilenceScanner)(nil)
