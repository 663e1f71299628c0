package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shailu9/MediaInfoApi/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up your configuration file
with the server listener, processing paths, and the optional Google
Drive archival and email notification integrations.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to mediainfo-api setup!")
	fmt.Println()

	// Start from the defaults so every prompt shows what an empty answer keeps
	cfg := config.Default()

	// Server section
	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	// Paths section
	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}

	// Audio section
	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}

	// Archive section
	if err := promptArchive(prompter, cfg); err != nil {
		return err
	}

	// Email section
	if err := promptEmail(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	host, err := prompter.Input("Host to bind the API server on?", cfg.Server.Host)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if host != "" {
		cfg.Server.Host = host
	}

	portStr, err := prompter.Input("Port to bind the API server on?", strconv.Itoa(cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port %q", portStr)
		}
		cfg.Server.Port = port
	}

	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	scratch, err := prompter.Input("Where should per-job scratch directories go?", cfg.Paths.ScratchRoot)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if scratch != "" {
		cfg.Paths.ScratchRoot = scratch
	}

	output, err := prompter.Input("Where should produced artifacts go?", cfg.Paths.OutputDir)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if output != "" {
		cfg.Paths.OutputDir = output
	}

	templates, err := prompter.Input("Directory holding template images for scans?", cfg.Paths.TemplatesDir)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Paths.TemplatesDir = templates

	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	bitrate, err := prompter.Input("Audio bitrate for mp3 extraction?", cfg.Audio.Bitrate)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bitrate != "" {
		cfg.Audio.Bitrate = bitrate
	}
	return nil
}

func promptArchive(prompter Prompter, cfg *config.Config) error {
	enabled, err := prompter.Confirm("Archive finished artifacts to Google Drive?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Archive.Enabled = enabled
	if !enabled {
		return nil
	}

	credentials, err := prompter.Input("Path to Google credentials file?", cfg.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials != "" {
		cfg.Google.CredentialsFile = credentials
	}

	folder, err := prompter.Input("Google Drive folder ID for artifacts?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if folder == "" {
		return fmt.Errorf("folder ID is required")
	}
	cfg.Archive.FolderID = folder

	return nil
}

func promptEmail(prompter Prompter, cfg *config.Config) error {
	enabled, err := prompter.Confirm("Send email notifications when jobs finish?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Email.Enabled = enabled
	if !enabled {
		return nil
	}

	// From details
	fromName, err := prompter.Input("Display name for outgoing emails?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if fromName == "" {
		return fmt.Errorf("from name is required")
	}
	cfg.Email.FromName = fromName

	fromAddress, err := prompter.Input("Gmail address to send from?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if fromAddress == "" {
		return fmt.Errorf("from address is required")
	}
	cfg.Email.FromAddress = fromAddress

	senderName, err := prompter.Input("Name to sign emails with?", fromName)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if senderName == "" {
		senderName = fromName
	}
	cfg.Email.SenderName = senderName

	// Default CC recipients
	cfg.Email.DefaultCC = []config.RecipientConfig{}
	for {
		addCC, err := prompter.Confirm("Add a CC recipient?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !addCC {
			break
		}

		recipient, err := promptRecipientWithPrompter(prompter)
		if err != nil {
			return err
		}
		cfg.Email.DefaultCC = append(cfg.Email.DefaultCC, recipient)
	}

	// Quick-lookup recipients
	cfg.Email.Recipients = make(map[string]config.RecipientConfig)
	for {
		addRecipient, err := prompter.Confirm("Add a quick-lookup recipient?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !addRecipient {
			break
		}

		nickname, err := prompter.Input("  Nickname:", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if nickname == "" {
			return fmt.Errorf("nickname is required")
		}

		recipient, err := promptRecipientWithPrompter(prompter)
		if err != nil {
			return err
		}
		cfg.Email.Recipients[nickname] = recipient

		notify, err := prompter.Confirm("  Notify this recipient when jobs finish?", true)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if notify {
			cfg.Email.Notify = append(cfg.Email.Notify, nickname)
		}
	}

	return nil
}

func promptRecipientWithPrompter(prompter Prompter) (config.RecipientConfig, error) {
	name, err := prompter.Input("  Full name:", "")
	if err != nil {
		return config.RecipientConfig{}, fmt.Errorf("prompt cancelled")
	}
	if name == "" {
		return config.RecipientConfig{}, fmt.Errorf("name is required")
	}

	address, err := prompter.Input("  Email:", "")
	if err != nil {
		return config.RecipientConfig{}, fmt.Errorf("prompt cancelled")
	}
	if address == "" {
		return config.RecipientConfig{}, fmt.Errorf("email is required")
	}

	return config.RecipientConfig{
		Name:    name,
		Address: address,
	}, nil
}
