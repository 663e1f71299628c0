package media

import "context"

// AudioExtractor defines the interface for audio extraction operations
// This is a port that can be implemented by different infrastructure adapters
type AudioExtractor interface {
	// Extract extracts audio from the source according to the request and
	// saves to outputPath
	Extract(ctx context.Context, req *ExtractRequest, outputPath string) error
}
