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
	extractSourcePath string
	extractBitrate    string
	extractStartTime  string
	extractEndTime    string
)

var extractAudioCmd = &cobra.Command{
	Use:   "extract-audio",
	Short: "Extract audio from a video file",
	Long: `Extract audio from a video file to MP3 format.

The output is saved as <source>.mp3 in the configured output directory.
Pass --start and --end to extract only part of the track.

Example:
  mediainfo-api extract-audio --source "/media/session.mp4"
  mediainfo-api extract-audio --source "/media/session.mp4" --bitrate "128k" --start "00:05:30" --end "01:45:00"`,
	RunE: runExtractAudio,
}

func init() {
	rootCmd.AddCommand(extractAudioCmd)
	extractAudioCmd.Flags().StringVar(&extractSourcePath, "source", "", "Path to source video file (required)")
	extractAudioCmd.Flags().StringVar(&extractBitrate, "bitrate", "", "Audio bitrate (default from config or 192k)")
	extractAudioCmd.Flags().StringVar(&extractStartTime, "start", "", "Optional range start in HH:MM:SS format")
	extractAudioCmd.Flags().StringVar(&extractEndTime, "end", "", "Optional range end in HH:MM:SS format")
	extractAudioCmd.MarkFlagRequired("source")
}

func runExtractAudio(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	// Determine bitrate
	bitrate := extractBitrate
	if bitrate == "" {
		bitrate = cfg.Audio.Bitrate
	}

	// Create dependencies using production implementations
	extractor := ffmpeg.NewExtractor(ffmpeg.WithExtractorFFmpegPath(cfg.FFmpeg.FFmpegPath))
	fileChecker := filesystem.NewChecker()
	sniffer := filesystem.NewSniffer()

	return RunExtractAudioWithDependencies(
		cmd.Context(),
		extractor,
		fileChecker,
		sniffer,
		cfg.Paths.OutputDir,
		bitrate,
		extractSourcePath,
		extractStartTime,
		extractEndTime,
		os.Stdout,
	)
}

// RunExtractAudioWithDependencies runs the extract-audio command with injected dependencies (for testing)
func RunExtractAudioWithDependencies(
	ctx context.Context,
	extractor media.AudioExtractor,
	fileChecker media.FileChecker,
	sniffer media.TypeSniffer,
	outputDir string,
	bitrate string,
	sourcePath string,
	startTime string,
	endTime string,
	output OutputWriter,
) error {
	// Verify ffmpeg is available if extractor supports it
	if verifiable, ok := extractor.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	// Create service with injected dependencies
	service := appmedia.NewExtractService(extractor, fileChecker, sniffer, outputDir, bitrate)

	input := appmedia.ExtractInput{
		Source:    sourcePath,
		Bitrate:   bitrate,
		StartTime: startTime,
		EndTime:   endTime,
	}

	fmt.Fprintf(output, "Extracting audio from %s with bitrate %s...\n", sourcePath, bitrate)

	result, err := service.Extract(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputPath)
	return nil
}
