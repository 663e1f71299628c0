package media

import (
	"errors"
	"testing"
)

func TestNewSource(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantRemote bool
		wantErr    error
	}{
		{
			name:  "local absolute path",
			input: "/recordings/2024-01-02 10-00-00.mp4",
		},
		{
			name:  "local relative path",
			input: "clips/intro.mkv",
		},
		{
			name:       "https url",
			input:      "https://cdn.example.com/media/clip.mp4",
			wantRemote: true,
		},
		{
			name:       "http url",
			input:      "http://example.com/clip.mp4",
			wantRemote: true,
		},
		{
			name:       "rtsp url",
			input:      "rtsp://camera.local/stream1",
			wantRemote: true,
		},
		{
			name:       "rtmp url",
			input:      "rtmp://live.example.com/app/key",
			wantRemote: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: ErrEmptySource,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: ErrEmptySource,
		},
		{
			name:    "ftp url rejected",
			input:   "ftp://example.com/clip.mp4",
			wantErr: ErrUnsupportedScheme,
		},
		{
			name:    "file url rejected",
			input:   "file:///etc/passwd",
			wantErr: ErrUnsupportedScheme,
		},
		{
			name:    "url without host",
			input:   "http://",
			wantErr: ErrUnsupportedScheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewSource(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("NewSource(%q) unexpected error: %v", tt.input, err)
				return
			}
			if src.IsRemote() != tt.wantRemote {
				t.Errorf("NewSource(%q).IsRemote() = %v, want %v", tt.input, src.IsRemote(), tt.wantRemote)
			}
			if src.IsZero() {
				t.Errorf("NewSource(%q) returned zero source", tt.input)
			}
		})
	}
}

func TestNewSource_TrimsWhitespace(t *testing.T) {
	src, err := NewSource("  /videos/clip.mp4 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.String() != "/videos/clip.mp4" {
		t.Errorf("String() = %q, want %q", src.String(), "/videos/clip.mp4")
	}
}

func TestSource_Base(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local file", "/recordings/session.mp4", "session"},
		{"local file with spaces", "/recordings/2024-01-02 10-00-00.mp4", "2024-01-02 10-00-00"},
		{"no extension", "/recordings/session", "session"},
		{"remote url", "https://cdn.example.com/media/clip.mp4", "clip"},
		{"remote url with query", "https://cdn.example.com/clip.mp4?token=abc", "clip"},
		{"remote url without path", "http://example.com", "stream"},
		{"remote url root path", "http://example.com/", "stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.input)
			if err != nil {
				t.Fatalf("NewSource(%q) unexpected error: %v", tt.input, err)
			}
			if got := src.Base(); got != tt.want {
				t.Errorf("Base() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSource_Ext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mp4 file", "/recordings/session.mp4", ".mp4"},
		{"mkv file", "clips/intro.mkv", ".mkv"},
		{"no extension falls back", "/recordings/session", ".mp4"},
		{"remote url", "https://cdn.example.com/media/clip.webm", ".webm"},
		{"remote url with query", "https://cdn.example.com/clip.mov?token=abc", ".mov"},
		{"remote stream without extension", "rtsp://camera.local/stream1", ".mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.input)
			if err != nil {
				t.Fatalf("NewSource(%q) unexpected error: %v", tt.input, err)
			}
			if got := src.Ext(); got != tt.want {
				t.Errorf("Ext() = %q, want %q", got, tt.want)
			}
		})
	}
}
