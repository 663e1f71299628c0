package media

import "context"

// Trimmer defines the interface for media trimming operations
// This is a port that can be implemented by different infrastructure adapters
type Trimmer interface {
	// Trim cuts the source according to the request and saves to outputPath
	Trim(ctx context.Context, req *TrimRequest, outputPath string) error
}

// FileChecker defines the interface for checking file existence
// This is used to validate that local sources exist before running a tool
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// TypeSniffer detects the media type of a local file before it is handed
// to the tools, guarding against probing arbitrary non-media files
type TypeSniffer interface {
	// DetectFile returns the MIME type of the file at path
	DetectFile(path string) (string, error)
}
