package media

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Errors returned by source validation
var (
	ErrEmptySource       = errors.New("source is required")
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
	ErrSourceNotFound    = errors.New("source file does not exist")
)

// remoteSchemes are the URL schemes handed directly to ffprobe/ffmpeg.
// Anything else is treated as a configuration mistake rather than passed
// through to the tools.
var remoteSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"rtmp":  true,
	"rtsp":  true,
}

// Source identifies the media input of a probe or processing operation:
// either a remote URL or a local file path. Validation checks form only;
// local file existence is the caller's concern.
type Source struct {
	raw    string
	remote bool
}

// NewSource validates and classifies a raw source string
func NewSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, ErrEmptySource
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		// Not URL-shaped: a local path
		return Source{raw: raw}, nil
	}

	if !remoteSchemes[u.Scheme] {
		return Source{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return Source{}, fmt.Errorf("%w: %q has no host", ErrUnsupportedScheme, u.Scheme)
	}

	return Source{raw: raw, remote: true}, nil
}

// String returns the source exactly as it will be passed to ffprobe/ffmpeg
func (s Source) String() string {
	return s.raw
}

// IsRemote returns true for URL sources
func (s Source) IsRemote() bool {
	return s.remote
}

// IsZero returns true for the zero Source
func (s Source) IsZero() bool {
	return s.raw == ""
}

// Base returns the file name portion of the source with its extension
// stripped, for deriving artifact names. Remote sources without a usable
// path component fall back to "stream".
func (s Source) Base() string {
	name := ""
	if s.remote {
		if u, err := url.Parse(s.raw); err == nil {
			name = path.Base(u.Path)
		}
	} else {
		name = filepath.Base(s.raw)
	}

	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" {
		return "stream"
	}
	return name
}

// Ext returns the source file extension including the dot, or ".mp4" when
// the source has none. Used to name container-copy artifacts.
func (s Source) Ext() string {
	raw := s.raw
	if s.remote {
		if u, err := url.Parse(s.raw); err == nil {
			raw = u.Path
		}
	}
	if ext := path.Ext(raw); ext != "" {
		return ext
	}
	return ".mp4"
}
