package media

import (
	"context"
	"fmt"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// TrimResult contains the result of a trim operation
type TrimResult struct {
	OutputPath   string
	RangeSeconds int
}

// TrimService coordinates container-copy trim operations
type TrimService struct {
	trimmer   media.Trimmer
	checker   media.FileChecker
	sniffer   media.TypeSniffer
	outputDir string
}

// NewTrimService creates a new TrimService. The sniffer may be nil to skip
// content checking.
func NewTrimService(trimmer media.Trimmer, checker media.FileChecker, sniffer media.TypeSniffer, outputDir string) *TrimService {
	return &TrimService{
		trimmer:   trimmer,
		checker:   checker,
		sniffer:   sniffer,
		outputDir: outputDir,
	}
}

// TrimInput represents the input for a trim operation
type TrimInput struct {
	Source    string
	StartTime string // HH:MM:SS
	EndTime   string // HH:MM:SS
	OutputDir string // Optional override of the service output directory
}

// Trim cuts a time range out of the source without re-encoding
func (s *TrimService) Trim(ctx context.Context, input TrimInput) (*TrimResult, error) {
	src, err := media.NewSource(input.Source)
	if err != nil {
		return nil, err
	}

	if err := verifyLocalSource(src, s.checker, s.sniffer); err != nil {
		return nil, err
	}

	start, err := media.ParseTimestamp(input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	end, err := media.ParseTimestamp(input.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}

	req, err := media.NewTrimRequest(src, start, end)
	if err != nil {
		return nil, err
	}

	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = s.outputDir
	}

	outputPath := req.OutputPath(outputDir)
	if err := s.trimmer.Trim(ctx, req, outputPath); err != nil {
		return nil, err
	}

	return &TrimResult{
		OutputPath:   outputPath,
		RangeSeconds: req.RangeSeconds(),
	}, nil
}
