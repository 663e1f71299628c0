package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	appmedia "github.com/shailu9/MediaInfoApi/application/media"
	"github.com/shailu9/MediaInfoApi/domain/media"
	"github.com/shailu9/MediaInfoApi/infrastructure/ffmpeg"
	"github.com/shailu9/MediaInfoApi/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	trimSourcePath string
	trimStartTime  string
	trimEndTime    string
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Trim a video to specified timestamps",
	Long: `Trim a video file to the specified start and end timestamps.

The cut is a container copy, so no re-encoding happens. The output file is
named <source>-trimmed.<ext> in the configured output directory.

Example:
  mediainfo-api trim --source "/media/session.mp4" --start "00:05:30" --end "01:45:00"`,
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().StringVar(&trimSourcePath, "source", "", "Path to source video file (required)")
	trimCmd.Flags().StringVar(&trimStartTime, "start", "", "Start timestamp in HH:MM:SS format (required)")
	trimCmd.Flags().StringVar(&trimEndTime, "end", "", "End timestamp in HH:MM:SS format (required)")
	trimCmd.MarkFlagRequired("source")
	trimCmd.MarkFlagRequired("start")
	trimCmd.MarkFlagRequired("end")
}

func runTrim(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	// Create dependencies using production implementations
	trimmer := ffmpeg.NewTrimmer(ffmpeg.WithFFmpegPath(cfg.FFmpeg.FFmpegPath))
	fileChecker := filesystem.NewChecker()
	sniffer := filesystem.NewSniffer()

	return RunTrimWithDependencies(
		cmd.Context(),
		trimmer,
		fileChecker,
		sniffer,
		cfg.Paths.OutputDir,
		trimSourcePath,
		trimStartTime,
		trimEndTime,
		os.Stdout,
	)
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// RunTrimWithDependencies runs the trim command with injected dependencies (for testing)
func RunTrimWithDependencies(
	ctx context.Context,
	trimmer media.Trimmer,
	fileChecker media.FileChecker,
	sniffer media.TypeSniffer,
	outputDir string,
	sourcePath string,
	startTime string,
	endTime string,
	output OutputWriter,
) error {
	// Verify ffmpeg is available if trimmer supports it
	if verifiable, ok := trimmer.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	// Create service with injected dependencies
	service := appmedia.NewTrimService(trimmer, fileChecker, sniffer, outputDir)

	input := appmedia.TrimInput{
		Source:    sourcePath,
		StartTime: startTime,
		EndTime:   endTime,
	}

	fmt.Fprintf(output, "Trimming video from %s to %s...\n", startTime, endTime)

	result, err := service.Trim(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputPath)
	return nil
}
