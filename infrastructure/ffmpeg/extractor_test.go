package ffmpeg

import (
	"context"
	"errors"
	"testing"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

func TestExtractor_Extract(t *testing.T) {
	runner := &fakeRunner{}
	extractor := NewExtractor(WithExtractorCommandRunner(runner))

	req, err := media.NewExtractRequest(testSource(t, "/videos/session.mp4"), "128k")
	if err != nil {
		t.Fatalf("NewExtractRequest error: %v", err)
	}

	if err := extractor.Extract(context.Background(), req, "/output/session.mp3"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if got := argAfter(runner.lastArgs, "-i"); got != "/videos/session.mp4" {
		t.Errorf("-i = %q", got)
	}
	if !hasArg(runner.lastArgs, "-vn") {
		t.Error("args missing -vn")
	}
	if got := argAfter(runner.lastArgs, "-acodec"); got != "libmp3lame" {
		t.Errorf("-acodec = %q", got)
	}
	if got := argAfter(runner.lastArgs, "-ab"); got != "128k" {
		t.Errorf("-ab = %q", got)
	}
	if hasArg(runner.lastArgs, "-ss") || hasArg(runner.lastArgs, "-to") {
		t.Error("whole-source extraction should not carry a time range")
	}
	if last := runner.lastArgs[len(runner.lastArgs)-1]; last != "/output/session.mp3" {
		t.Errorf("output path should be the final argument, got %q", last)
	}
}

func TestExtractor_Extract_WithRange(t *testing.T) {
	runner := &fakeRunner{}
	extractor := NewExtractor(WithExtractorCommandRunner(runner))

	req, err := media.NewExtractRequestWithRange(
		testSource(t, "/videos/session.mp4"), "", "00:10:00", "00:55:00")
	if err != nil {
		t.Fatalf("NewExtractRequestWithRange error: %v", err)
	}

	if err := extractor.Extract(context.Background(), req, "/output/session.mp3"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if got := argAfter(runner.lastArgs, "-ss"); got != "00:10:00" {
		t.Errorf("-ss = %q", got)
	}
	if got := argAfter(runner.lastArgs, "-to"); got != "00:55:00" {
		t.Errorf("-to = %q", got)
	}
	if got := argAfter(runner.lastArgs, "-ab"); got != media.DefaultAudioBitrate {
		t.Errorf("-ab = %q, want default bitrate", got)
	}
}

func TestExtractor_Extract_CommandFails(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	extractor := NewExtractor(WithExtractorCommandRunner(runner))

	req, err := media.NewExtractRequest(testSource(t, "/videos/session.mp4"), "")
	if err != nil {
		t.Fatalf("NewExtractRequest error: %v", err)
	}

	if err := extractor.Extract(context.Background(), req, "/output/out.mp3"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
