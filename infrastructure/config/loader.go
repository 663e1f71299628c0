package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Paths    PathsConfig    `yaml:"paths"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Audio    AudioConfig    `yaml:"audio"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Store    StoreConfig    `yaml:"store"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Google   GoogleConfig   `yaml:"google"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Email    EmailConfig    `yaml:"email"`
}

// ServerConfig contains the HTTP listener settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PathsConfig contains directory paths for media processing
type PathsConfig struct {
	ScratchRoot  string `yaml:"scratch_root"`
	OutputDir    string `yaml:"output_dir"`
	TemplatesDir string `yaml:"templates_dir"`
}

// FFmpegConfig contains tool locations and execution limits
type FFmpegConfig struct {
	FFmpegPath     string `yaml:"ffmpeg_path"`
	FFprobePath    string `yaml:"ffprobe_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AudioConfig contains audio extraction settings
type AudioConfig struct {
	Bitrate string `yaml:"bitrate"`
}

// JobsConfig contains worker pool settings
type JobsConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// StoreConfig contains persistence settings
type StoreConfig struct {
	Path string `yaml:"path"`
}

// AnalysisConfig contains silence and template scan defaults
type AnalysisConfig struct {
	NoiseDB           float64 `yaml:"noise_db"`
	MinSilenceSeconds float64 `yaml:"min_silence_seconds"`
	FrameInterval     int     `yaml:"frame_interval"`
	MatchThreshold    float64 `yaml:"match_threshold"`
}

// GoogleConfig contains Google API settings. The Drive and Gmail scopes
// are authorized separately, so each keeps its own token file.
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	GmailTokenFile  string `yaml:"gmail_token_file"`
}

// ArchiveConfig contains remote artifact archival settings
type ArchiveConfig struct {
	Enabled  bool   `yaml:"enabled"`
	FolderID string `yaml:"folder_id"`
}

// EmailConfig contains email notification settings
type EmailConfig struct {
	Enabled     bool                       `yaml:"enabled"`
	FromName    string                     `yaml:"from_name"`
	FromAddress string                     `yaml:"from_address"`
	SenderName  string                     `yaml:"sender_name"`
	Notify      []string                   `yaml:"notify"` // Recipient keys mailed on job completion
	DefaultCC   []RecipientConfig          `yaml:"default_cc"`
	Recipients  map[string]RecipientConfig `yaml:"recipients"`
}

// RecipientConfig represents an email recipient
type RecipientConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// Default returns the configuration the service runs with when no file
// overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 9090,
		},
		Paths: PathsConfig{
			ScratchRoot: os.TempDir(),
			OutputDir:   "artifacts",
		},
		FFmpeg: FFmpegConfig{
			FFmpegPath:     "ffmpeg",
			FFprobePath:    "ffprobe",
			TimeoutSeconds: 600,
		},
		Audio: AudioConfig{
			Bitrate: "192k",
		},
		Jobs: JobsConfig{
			Workers:   2,
			QueueSize: 64,
		},
		Store: StoreConfig{
			Path: "mediainfo.db",
		},
		Analysis: AnalysisConfig{
			NoiseDB:           -30,
			MinSilenceSeconds: 2,
			FrameInterval:     5,
			MatchThreshold:    0.8,
		},
		Google: GoogleConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
			GmailTokenFile:  "gmail_token.json",
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// File values are applied over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the file when it exists and falls back to the
// defaults when it does not
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
