package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/shailu9/MediaInfoApi/domain/analysis"
	"github.com/shailu9/MediaInfoApi/domain/media"
)

// Errors returned by template resolution
var (
	ErrTemplateNotFound    = errors.New("template image not found")
	ErrInvalidTemplateName = errors.New("invalid template name")
)

// TemplateService coordinates template scans over video sources
type TemplateService struct {
	finder       analysis.TemplateDetector
	checker      media.FileChecker
	templatesDir string
	defaults     analysis.TemplateOptions
}

// NewTemplateService creates a new template scan service
func NewTemplateService(finder analysis.TemplateDetector, checker media.FileChecker, templatesDir string, defaults analysis.TemplateOptions) *TemplateService {
	return &TemplateService{
		finder:       finder,
		checker:      checker,
		templatesDir: templatesDir,
		defaults:     defaults.WithDefaults(),
	}
}

// TemplateInput represents the input for a template scan
type TemplateInput struct {
	Source         string
	Template       string  // Template image name within the templates directory
	FrameInterval  int     // Optional, service default if zero
	MatchThreshold float64 // Optional, service default if zero
}

// Scan samples frames from the source and looks for the template image
func (s *TemplateService) Scan(ctx context.Context, input TemplateInput) (*analysis.TemplateMatch, error) {
	src, err := media.NewSource(input.Source)
	if err != nil {
		return nil, err
	}

	if !src.IsRemote() && !s.checker.Exists(src.String()) {
		return nil, fmt.Errorf("%w: %s", media.ErrSourceNotFound, src)
	}

	templatePath, err := s.resolveTemplate(input.Template)
	if err != nil {
		return nil, err
	}

	opts := analysis.TemplateOptions{
		FrameInterval:  input.FrameInterval,
		MatchThreshold: input.MatchThreshold,
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = s.defaults.FrameInterval
	}
	if opts.MatchThreshold <= 0 {
		opts.MatchThreshold = s.defaults.MatchThreshold
	}

	return s.finder.FindTemplate(ctx, src.String(), templatePath, opts)
}

// resolveTemplate maps a template name to a path inside the templates
// directory. Names carrying path separators are refused so a request
// cannot reach outside the directory.
func (s *TemplateService) resolveTemplate(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidTemplateName)
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("%w: %q must not contain path separators", ErrInvalidTemplateName, name)
	}

	path := filepath.Join(s.templatesDir, name)
	if !s.checker.Exists(path) {
		// Try the conventional extension before giving up
		if withExt := path + ".png"; s.checker.Exists(withExt) {
			return withExt, nil
		}
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return path, nil
}
