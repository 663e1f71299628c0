package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

const probeOutput = `{
    "streams": [
        {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1280, "height": 720},
        {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2, "sample_rate": "44100"}
    ],
    "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "60.500000"}
}`

func testSource(t *testing.T, raw string) media.Source {
	t.Helper()
	src, err := media.NewSource(raw)
	if err != nil {
		t.Fatalf("NewSource(%q) unexpected error: %v", raw, err)
	}
	return src
}

func TestProber_Probe(t *testing.T) {
	runner := &fakeRunner{output: []byte(probeOutput)}
	prober := NewProber(WithProberCommandRunner(runner))

	report, err := prober.Probe(context.Background(), testSource(t, "/videos/clip.mp4"))
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	if runner.lastName != "ffprobe" {
		t.Errorf("executable = %q, want ffprobe", runner.lastName)
	}
	for _, want := range []string{"-print_format", "json", "-show_streams", "-show_format"} {
		if !hasArg(runner.lastArgs, want) {
			t.Errorf("args missing %q: %v", want, runner.lastArgs)
		}
	}
	if last := runner.lastArgs[len(runner.lastArgs)-1]; last != "/videos/clip.mp4" {
		t.Errorf("source should be the final argument, got %q", last)
	}

	if len(report.Streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(report.Streams))
	}
	if !report.HasAudio() {
		t.Error("expected HasAudio to be true")
	}
	if report.Format.Duration != "60.500000" {
		t.Errorf("format duration = %q", report.Format.Duration)
	}
}

func TestProber_Probe_ToolFailure(t *testing.T) {
	exitErr := &exec.ExitError{Stderr: []byte("/videos/missing.mp4: No such file or directory\n")}
	runner := &fakeRunner{err: exitErr}
	prober := NewProber(WithProberCommandRunner(runner))

	_, err := prober.Probe(context.Background(), testSource(t, "/videos/missing.mp4"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var probeErr *media.ProbeError
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected *media.ProbeError, got %T", err)
	}
	if probeErr.Stderr != "/videos/missing.mp4: No such file or directory" {
		t.Errorf("Stderr = %q", probeErr.Stderr)
	}
	if probeErr.Error() != "ffprobe failed" {
		t.Errorf("Error() = %q, want %q", probeErr.Error(), "ffprobe failed")
	}
}

func TestProber_Probe_NotRunnable(t *testing.T) {
	runner := &fakeRunner{err: exec.ErrNotFound}
	prober := NewProber(WithProberCommandRunner(runner))

	_, err := prober.Probe(context.Background(), testSource(t, "/videos/clip.mp4"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var probeErr *media.ProbeError
	if errors.As(err, &probeErr) {
		t.Error("a missing executable should not be reported as a probe failure")
	}
}

func TestProber_Probe_MalformedOutput(t *testing.T) {
	runner := &fakeRunner{output: []byte("not json")}
	prober := NewProber(WithProberCommandRunner(runner))

	_, err := prober.Probe(context.Background(), testSource(t, "/videos/clip.mp4"))
	if err == nil {
		t.Fatal("expected error for malformed output")
	}
}

func TestProber_CustomPath(t *testing.T) {
	runner := &fakeRunner{output: []byte(probeOutput)}
	prober := NewProber(
		WithFFprobePath("/opt/ffmpeg/bin/ffprobe"),
		WithProberCommandRunner(runner),
	)

	if _, err := prober.Probe(context.Background(), testSource(t, "/videos/clip.mp4")); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if runner.lastName != "/opt/ffmpeg/bin/ffprobe" {
		t.Errorf("executable = %q", runner.lastName)
	}
}

func TestProber_VerifyInstalled(t *testing.T) {
	runner := &fakeRunner{output: []byte("ffprobe version 6.1")}
	prober := NewProber(WithProberCommandRunner(runner))

	if err := prober.VerifyInstalled(context.Background()); err != nil {
		t.Errorf("VerifyInstalled() error = %v", err)
	}

	failing := NewProber(WithProberCommandRunner(&fakeRunner{err: exec.ErrNotFound}))
	if err := failing.VerifyInstalled(context.Background()); err == nil {
		t.Error("expected error when ffprobe is missing")
	}
}
