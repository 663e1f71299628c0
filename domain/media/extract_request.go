package media

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// DefaultAudioBitrate is the default bitrate for audio extraction
const DefaultAudioBitrate = "192k"

// bitrateRegex matches ffmpeg audio bitrate notation: plain bits per second
// or a k-suffixed kilobit value, e.g. "128000" or "192k"
var bitrateRegex = regexp.MustCompile(`^\d+k?$`)

// ValidateBitrate checks ffmpeg audio bitrate notation
func ValidateBitrate(bitrate string) error {
	if !bitrateRegex.MatchString(bitrate) {
		return fmt.Errorf("invalid audio bitrate %q: expected e.g. \"192k\"", bitrate)
	}
	return nil
}

// ExtractRequest represents a request to extract the audio track of a
// source as MP3
type ExtractRequest struct {
	Source  Source
	Bitrate string
	Start   *Timestamp // Optional: restrict extraction to a range
	End     *Timestamp
}

// NewExtractRequest creates a validated ExtractRequest covering the whole
// source
func NewExtractRequest(source Source, bitrate string) (*ExtractRequest, error) {
	if source.IsZero() {
		return nil, ErrEmptySource
	}

	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}
	if err := ValidateBitrate(bitrate); err != nil {
		return nil, err
	}

	return &ExtractRequest{
		Source:  source,
		Bitrate: bitrate,
	}, nil
}

// NewExtractRequestWithRange creates a request restricted to the
// start..end range of the source
func NewExtractRequestWithRange(source Source, bitrate, startTime, endTime string) (*ExtractRequest, error) {
	req, err := NewExtractRequest(source, bitrate)
	if err != nil {
		return nil, err
	}

	start, err := ParseTimestamp(startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	end, err := ParseTimestamp(endTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}

	if !end.After(start) {
		return nil, fmt.Errorf("end time %s must be after start time %s", end, start)
	}

	req.Start = &start
	req.End = &end
	return req, nil
}

// HasRange returns true if the request is restricted to a time range
func (r *ExtractRequest) HasRange() bool {
	return r.Start != nil && r.End != nil
}

// OutputFilename returns the artifact name derived from the source name
func (r *ExtractRequest) OutputFilename() string {
	return r.Source.Base() + ".mp3"
}

// OutputPath returns the full artifact path under outputDir
func (r *ExtractRequest) OutputPath(outputDir string) string {
	return filepath.Join(outputDir, r.OutputFilename())
}
