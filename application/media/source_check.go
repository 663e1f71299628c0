package media

import (
	"fmt"
	"strings"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// verifyLocalSource checks that a local source exists and, when a sniffer
// is available, that its content looks like media before an ffmpeg run is
// spent on it. Remote sources are passed through untouched.
func verifyLocalSource(src media.Source, checker media.FileChecker, sniffer media.TypeSniffer) error {
	if src.IsRemote() {
		return nil
	}

	if !checker.Exists(src.String()) {
		return fmt.Errorf("%w: %s", media.ErrSourceNotFound, src)
	}

	if sniffer != nil {
		mime, err := sniffer.DetectFile(src.String())
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", src, err)
		}
		if !strings.HasPrefix(mime, "video/") && !strings.HasPrefix(mime, "audio/") {
			return fmt.Errorf("source %s is not a media file (detected %s)", src, mime)
		}
	}

	return nil
}
