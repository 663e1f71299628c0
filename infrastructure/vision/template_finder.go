//go:build detection

package vision

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"github.com/shailu9/MediaInfoApi/domain/analysis"
	"github.com/shailu9/MediaInfoApi/domain/media"
)

// TemplateFinder implements analysis.TemplateDetector using GoCV template
// matching over frames extracted with ffmpeg
type TemplateFinder struct {
	ffmpegPath  string
	ffprobePath string
	tempDir     string
}

// TemplateFinderOption is a functional option for configuring TemplateFinder
type TemplateFinderOption func(*TemplateFinder)

// WithFinderFFmpegPath sets a custom ffmpeg path
func WithFinderFFmpegPath(path string) TemplateFinderOption {
	return func(f *TemplateFinder) {
		f.ffmpegPath = path
	}
}

// WithFinderFFprobePath sets a custom ffprobe path
func WithFinderFFprobePath(path string) TemplateFinderOption {
	return func(f *TemplateFinder) {
		f.ffprobePath = path
	}
}

// NewTemplateFinder creates a new template finder
func NewTemplateFinder(opts ...TemplateFinderOption) *TemplateFinder {
	f := &TemplateFinder{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FindTemplate implements analysis.TemplateDetector. Frames are sampled at
// the configured interval and matched against the template; the scan stops
// at the first frame scoring above the threshold.
func (f *TemplateFinder) FindTemplate(ctx context.Context, videoPath, templatePath string, opts analysis.TemplateOptions) (*analysis.TemplateMatch, error) {
	opts = opts.WithDefaults()

	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template image not found: %w", err)
	}

	template := gocv.IMRead(templatePath, gocv.IMReadGrayScale)
	if template.Empty() {
		return nil, fmt.Errorf("failed to load template image: %s", templatePath)
	}
	defer template.Close()

	duration, err := f.videoDuration(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	f.tempDir, err = os.MkdirTemp("", "mediainfo-scan-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	var (
		framesAnalyzed int
		bestScore      float64
	)

	for t := 0; float64(t) < duration; t += opts.FrameInterval {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score, err := f.matchFrame(ctx, videoPath, template, t)
		framesAnalyzed++
		if err != nil {
			continue // Skip frames that fail to extract
		}

		if score > bestScore {
			bestScore = score
		}

		if score >= opts.MatchThreshold {
			return &analysis.TemplateMatch{
				Found:          true,
				Timestamp:      media.TimestampFromSeconds(float64(t)),
				OffsetSeconds:  float64(t),
				Confidence:     score,
				FramesAnalyzed: framesAnalyzed,
			}, nil
		}
	}

	// No frame scored above the threshold; report the best score seen
	return &analysis.TemplateMatch{
		Found:          false,
		Confidence:     bestScore,
		FramesAnalyzed: framesAnalyzed,
	}, nil
}

// Close removes the frame extraction scratch directory
func (f *TemplateFinder) Close() {
	if f.tempDir != "" {
		os.RemoveAll(f.tempDir)
		f.tempDir = ""
	}
}

// matchFrame extracts a single frame and scores it against the template
func (f *TemplateFinder) matchFrame(ctx context.Context, videoPath string, template gocv.Mat, offsetSeconds int) (float64, error) {
	ts := media.TimestampFromSeconds(float64(offsetSeconds))

	framePath := filepath.Join(f.tempDir, fmt.Sprintf("frame_%d.png", offsetSeconds))
	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-ss", ts.String(),
		"-i", videoPath,
		"-frames:v", "1",
		"-y",
		framePath,
	)
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("failed to extract frame at %s: %w", ts, err)
	}
	defer os.Remove(framePath)

	frame := gocv.IMRead(framePath, gocv.IMReadGrayScale)
	if frame.Empty() {
		return 0, fmt.Errorf("failed to read extracted frame")
	}
	defer frame.Close()

	result := gocv.NewMat()
	defer result.Close()
	gocv.MatchTemplate(frame, template, &result, gocv.TmCcoeffNormed, gocv.NewMat())
	_, maxVal, _, _ := gocv.MinMaxLoc(result)

	return float64(maxVal), nil
}

// videoDuration reads the container duration via ffprobe
func (f *TemplateFinder) videoDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to read video duration: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected duration output %q: %w", string(output), err)
	}
	return duration, nil
}

// Ensure TemplateFinder implements analysis.TemplateDetector
var _ analysis.TemplateDetector = (*TemplateFinder)(nil)
