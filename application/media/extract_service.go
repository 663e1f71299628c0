package media

import (
	"context"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// ExtractResult contains the result of an audio extraction operation
type ExtractResult struct {
	OutputPath string
	Bitrate    string
}

// ExtractService coordinates audio extraction operations
type ExtractService struct {
	extractor media.AudioExtractor
	checker   media.FileChecker
	sniffer   media.TypeSniffer
	outputDir string
	bitrate   string
}

// NewExtractService creates a new ExtractService. The sniffer may be nil to
// skip content checking.
func NewExtractService(extractor media.AudioExtractor, checker media.FileChecker, sniffer media.TypeSniffer, outputDir, bitrate string) *ExtractService {
	if bitrate == "" {
		bitrate = media.DefaultAudioBitrate
	}
	return &ExtractService{
		extractor: extractor,
		checker:   checker,
		sniffer:   sniffer,
		outputDir: outputDir,
		bitrate:   bitrate,
	}
}

// ExtractInput represents the input for an audio extraction operation
type ExtractInput struct {
	Source    string
	Bitrate   string // Optional, uses service default if empty
	StartTime string // Optional HH:MM:SS range restriction
	EndTime   string
	OutputDir string // Optional override of the service output directory
}

// Extract extracts the audio track of the source as MP3
func (s *ExtractService) Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	src, err := media.NewSource(input.Source)
	if err != nil {
		return nil, err
	}

	if err := verifyLocalSource(src, s.checker, s.sniffer); err != nil {
		return nil, err
	}

	bitrate := input.Bitrate
	if bitrate == "" {
		bitrate = s.bitrate
	}

	var req *media.ExtractRequest
	if input.StartTime != "" || input.EndTime != "" {
		req, err = media.NewExtractRequestWithRange(src, bitrate, input.StartTime, input.EndTime)
	} else {
		req, err = media.NewExtractRequest(src, bitrate)
	}
	if err != nil {
		return nil, err
	}

	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = s.outputDir
	}

	outputPath := req.OutputPath(outputDir)
	if err := s.extractor.Extract(ctx, req, outputPath); err != nil {
		return nil, err
	}

	return &ExtractResult{
		OutputPath: outputPath,
		Bitrate:    bitrate,
	}, nil
}
