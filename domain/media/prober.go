package media

import "context"

// Prober defines the interface for media inspection operations
// This is a port that can be implemented by different infrastructure adapters
type Prober interface {
	// Probe inspects the source and returns the parsed stream/format report
	Probe(ctx context.Context, src Source) (*Report, error)
}

// ProbeError is returned when the probe tool itself ran and failed; Stderr
// carries its diagnostic output so callers can surface it verbatim
type ProbeError struct {
	Stderr string
	Err    error
}

func (e *ProbeError) Error() string {
	return "ffprobe failed"
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
