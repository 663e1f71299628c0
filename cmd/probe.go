package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shailu9/MediaInfoApi/application/probe"
	"github.com/shailu9/MediaInfoApi/domain/media"
	"github.com/shailu9/MediaInfoApi/infrastructure/ffmpeg"
	"github.com/shailu9/MediaInfoApi/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var probeJSON bool

var probeCmd = &cobra.Command{
	Use:   "probe <source>",
	Short: "Probe a media source and print its stream report",
	Long: `Probe a media source with ffprobe and print a stream summary.

The source may be a local file or a remote URL (http, https, rtmp, rtsp).
Use --json to print the full parsed report instead of the summary.

Example:
  mediainfo-api probe /media/session.mp4
  mediainfo-api probe https://cdn.example.com/clip.mp4 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "Print the full report as JSON")
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	// Create dependencies using production implementations
	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath))
	fileChecker := filesystem.NewChecker()

	return RunProbeWithDependencies(
		cmd.Context(),
		prober,
		fileChecker,
		args[0],
		probeJSON,
		os.Stdout,
	)
}

// RunProbeWithDependencies runs the probe command with injected dependencies (for testing)
func RunProbeWithDependencies(
	ctx context.Context,
	prober media.Prober,
	fileChecker media.FileChecker,
	source string,
	asJSON bool,
	output OutputWriter,
) error {
	// Verify ffprobe is available if prober supports it
	if verifiable, ok := prober.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffprobe verification failed: %w", err)
		}
	}

	// One-shot probes keep no history
	service := probe.NewService(prober, fileChecker, nil)

	rec, err := service.Probe(ctx, source)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(rec.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		fmt.Fprintln(output, string(data))
		return nil
	}

	fmt.Fprintf(output, "Source: %s\n", rec.Source)
	fmt.Fprintf(output, "Container: %s\n", rec.Container)
	fmt.Fprintf(output, "Duration: %.2fs\n", rec.DurationSeconds)
	fmt.Fprintf(output, "Streams: %d (%d audio, %d video)\n", rec.StreamCount, rec.AudioStreams, rec.VideoStreams)
	return nil
}
