package ffmpeg

import (
	"context"
	"errors"
	"testing"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

func trimRequest(t *testing.T, source, start, end string) *media.TrimRequest {
	t.Helper()
	src := testSource(t, source)
	startTS, err := media.ParseTimestamp(start)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q) error: %v", start, err)
	}
	endTS, err := media.ParseTimestamp(end)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q) error: %v", end, err)
	}
	req, err := media.NewTrimRequest(src, startTS, endTS)
	if err != nil {
		t.Fatalf("NewTrimRequest error: %v", err)
	}
	return req
}

func TestTrimmer_Trim(t *testing.T) {
	runner := &fakeRunner{}
	trimmer := NewTrimmer(WithCommandRunner(runner))

	req := trimRequest(t, "/videos/session.mp4", "00:05:00", "00:45:30")

	err := trimmer.Trim(context.Background(), req, "/output/session-trimmed.mp4")
	if err != nil {
		t.Fatalf("Trim() error = %v", err)
	}

	if runner.lastName != "ffmpeg" {
		t.Errorf("executable = %q, want ffmpeg", runner.lastName)
	}
	if got := argAfter(runner.lastArgs, "-i"); got != "/videos/session.mp4" {
		t.Errorf("-i = %q", got)
	}
	if got := argAfter(runner.lastArgs, "-ss"); got != "00:05:00" {
		t.Errorf("-ss = %q", got)
	}
	if got := argAfter(runner.lastArgs, "-to"); got != "00:45:30" {
		t.Errorf("-to = %q", got)
	}
	if got := argAfter(runner.lastArgs, "-c"); got != "copy" {
		t.Errorf("-c = %q, want copy (no re-encode)", got)
	}
	if !hasArg(runner.lastArgs, "-y") {
		t.Error("args missing -y overwrite flag")
	}
	if last := runner.lastArgs[len(runner.lastArgs)-1]; last != "/output/session-trimmed.mp4" {
		t.Errorf("output path should be the final argument, got %q", last)
	}
}

func TestTrimmer_Trim_CommandFails(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	trimmer := NewTrimmer(WithCommandRunner(runner))

	req := trimRequest(t, "/videos/session.mp4", "00:00:10", "00:00:20")

	err := trimmer.Trim(context.Background(), req, "/output/out.mp4")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestTrimmer_CustomFFmpegPath(t *testing.T) {
	runner := &fakeRunner{}
	trimmer := NewTrimmer(WithFFmpegPath("/usr/local/bin/ffmpeg"), WithCommandRunner(runner))

	req := trimRequest(t, "/videos/session.mp4", "00:00:10", "00:00:20")
	if err := trimmer.Trim(context.Background(), req, "/output/out.mp4"); err != nil {
		t.Fatalf("Trim() error = %v", err)
	}
	if runner.lastName != "/usr/local/bin/ffmpeg" {
		t.Errorf("executable = %q", runner.lastName)
	}
}
