package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/shailu9/MediaInfoApi/infrastructure/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	cfgErr   error
)

var rootCmd = &cobra.Command{
	Use:   "mediainfo-api",
	Short: "Inspect and process media files with ffmpeg",
	Long: `mediainfo-api wraps ffprobe and ffmpeg behind an HTTP API and a CLI:

  - Probe stream and container metadata as JSON
  - Trim video by start/end timestamps without re-encoding
  - Extract audio as MP3
  - Scan for silence and for known template images
  - Run the same operations over HTTP with an async job queue

Example:
  mediainfo-api serve --port 9090
  mediainfo-api probe /media/session.mp4 --json`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	// Defaults stand in when no config file exists; a file that exists
	// but cannot be parsed is reported by loadedConfig
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

func initLogging() {
	switch strings.ToLower(logLevel) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadedConfig returns the effective configuration
func loadedConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfgFile, cfgErr)
	}
	return cfg, nil
}
