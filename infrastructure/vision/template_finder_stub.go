//go:build !detection

package vision

import (
	"context"
	"fmt"

	"github.com/shailu9/MediaInfoApi/domain/analysis"
)

// TemplateFinder is a stub when GoCV/OpenCV is not available
type TemplateFinder struct{}

// TemplateFinderOption is a functional option for configuring TemplateFinder
type TemplateFinderOption func(*TemplateFinder)

// WithFinderFFmpegPath is a no-op in stub mode
func WithFinderFFmpegPath(path string) TemplateFinderOption {
	return func(f *TemplateFinder) {}
}

// WithFinderFFprobePath is a no-op in stub mode
func WithFinderFFprobePath(path string) TemplateFinderOption {
	return func(f *TemplateFinder) {}
}

// NewTemplateFinder creates a stub finder (requires building with -tags=detection)
func NewTemplateFinder(opts ...TemplateFinderOption) *TemplateFinder {
	return &TemplateFinder{}
}

// FindTemplate returns an error indicating template scanning is not available
func (f *TemplateFinder) FindTemplate(ctx context.Context, videoPath, templatePath string, opts analysis.TemplateOptions) (*analysis.TemplateMatch, error) {
	return nil, fmt.Errorf("%w: build with '-tags=detection' and install OpenCV/GoCV", analysis.ErrDetectorUnavailable)
}

// Close is a no-op in stub mode
func (f *TemplateFinder) Close() {}

// Ensure TemplateFinder implements analysis.TemplateDetector
var _ analysis.TemplateDetector = (*TemplateFinder)(nil)
