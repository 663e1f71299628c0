package media

import (
	"fmt"
	"path/filepath"
)

// TrimRequest represents a request to cut a time range from a source into a
// new container without re-encoding
type TrimRequest struct {
	Source Source
	Start  Timestamp
	End    Timestamp
}

// NewTrimRequest creates a validated TrimRequest
func NewTrimRequest(source Source, start, end Timestamp) (*TrimRequest, error) {
	req := &TrimRequest{
		Source: source,
		Start:  start,
		End:    end,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks that the trim request is well formed
func (r *TrimRequest) Validate() error {
	if r.Source.IsZero() {
		return ErrEmptySource
	}

	if !r.End.After(r.Start) {
		return fmt.Errorf("end time %s must be after start time %s", r.End, r.Start)
	}

	return nil
}

// RangeSeconds returns the length of the requested cut in seconds
func (r *TrimRequest) RangeSeconds() int {
	return r.End.TotalSeconds() - r.Start.TotalSeconds()
}

// OutputFilename returns the artifact name, derived from the source name
// and keeping its container extension
func (r *TrimRequest) OutputFilename() string {
	return r.Source.Base() + "-trimmed" + r.Source.Ext()
}

// OutputPath returns the full artifact path under outputDir
func (r *TrimRequest) OutputPath(outputDir string) string {
	return filepath.Join(outputDir, r.OutputFilename())
}
