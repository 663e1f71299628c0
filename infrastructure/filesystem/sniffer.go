package filesystem

import (
	"github.com/gabriel-vasile/mimetype"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// Sniffer implements media.TypeSniffer by reading file content, so a
// renamed extension cannot disguise a file
type Sniffer struct{}

// NewSniffer creates a new content-based MIME sniffer
func NewSniffer() *Sniffer {
	return &Sniffer{}
}

// DetectFile returns the MIME type of the file at path
func (s *Sniffer) DetectFile(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// Ensure Sniffer implements media.TypeSniffer
var _ media.TypeSniffer = (*Sniffer)(nil)
