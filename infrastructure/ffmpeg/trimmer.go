package ffmpeg

import (
	"context"
	"fmt"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// Trimmer implements media.Trimmer using ffmpeg
type Trimmer struct {
	ffmpegPath string
	runner     CommandRunner
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		t.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// NewTrimmer creates a new FFmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Trim implements media.Trimmer. The cut is a stream copy, so it lands on
// the nearest keyframes rather than the exact timestamps.
func (t *Trimmer) Trim(ctx context.Context, req *media.TrimRequest, outputPath string) error {
	args := []string{
		"-i", req.Source.String(),
		"-ss", req.Start.String(),
		"-to", req.End.String(),
		"-c", "copy",
		"-y", // Overwrite output file if it exists
		outputPath,
	}

	if err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg trim failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	_, err := t.runner.Output(ctx, t.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Trimmer implements media.Trimmer
var _ media.Trimmer = (*Trimmer)(nil)
