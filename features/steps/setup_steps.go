//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shailu9/MediaInfoApi/cmd"
	"github.com/shailu9/MediaInfoApi/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	setupCancelled  bool
	originalContent string
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.setupCancelled = false
		testCtx.originalContent = ""
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		// Cleanup temp directory
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with responses:$`, testCtx.iRunTheSetupCommandWithResponses)
	ctx.Step(`^I attempt the setup command with responses:$`, testCtx.iAttemptTheSetupCommandWithResponses)
	ctx.Step(`^I run the setup command declining the overwrite$`, testCtx.iRunTheSetupCommandDecliningTheOverwrite)
	ctx.Step(`^I run the setup command accepting the overwrite with responses:$`, testCtx.iRunTheSetupCommandAcceptingTheOverwriteWithResponses)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config should have server host "([^"]*)" and port (\d+)$`, testCtx.theConfigShouldHaveServerHostAndPort)
	ctx.Step(`^the config should have scratch_root "([^"]*)"$`, testCtx.theConfigShouldHaveScratchRoot)
	ctx.Step(`^the config should have output_dir "([^"]*)"$`, testCtx.theConfigShouldHaveOutputDir)
	ctx.Step(`^the config should have templates_dir "([^"]*)"$`, testCtx.theConfigShouldHaveTemplatesDir)
	ctx.Step(`^the config should have bitrate "([^"]*)"$`, testCtx.theConfigShouldHaveBitrate)
	ctx.Step(`^the config should have archive folder "([^"]*)"$`, testCtx.theConfigShouldHaveArchiveFolder)
	ctx.Step(`^the config should have from_address "([^"]*)"$`, testCtx.theConfigShouldHaveFromAddress)
	ctx.Step(`^the config should have a CC recipient "([^"]*)"$`, testCtx.theConfigShouldHaveACCRecipient)
	ctx.Step(`^the config should have a quick-lookup recipient "([^"]*)"$`, testCtx.theConfigShouldHaveAQuickLookupRecipient)
	ctx.Step(`^the config should notify "([^"]*)"$`, testCtx.theConfigShouldNotify)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
	ctx.Step(`^the setup should fail with "([^"]*)"$`, testCtx.theSetupShouldFailWith)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	// Just ensure the config path directory exists but no config file
	configDir := filepath.Dir(s.configPath)
	return os.MkdirAll(configDir, 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	// Create the config file with some content
	configDir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	content := `server:
  host: "10.0.0.5"
  port: 7070
paths:
  scratch_root: "/original/scratch"
  output_dir: "/original/artifacts"
audio:
  bitrate: "192k"
google:
  credentials_file: "original-creds.json"
email:
  from_name: "Original Ops"
  from_address: "original@example.com"
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func (s *setupContext) iRunTheSetupCommandWithResponses(table *godog.Table) error {
	inputs, confirms := parseResponseTable(table)
	prompter := NewMockPrompter(inputs, confirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func (s *setupContext) iAttemptTheSetupCommandWithResponses(table *godog.Table) error {
	inputs, confirms := parseResponseTable(table)
	prompter := NewMockPrompter(inputs, confirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	return nil
}

func (s *setupContext) iRunTheSetupCommandDecliningTheOverwrite() error {
	prompter := NewMockPrompter([]string{}, []bool{false})

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	s.setupCancelled = true
	return nil
}

func (s *setupContext) iRunTheSetupCommandAcceptingTheOverwriteWithResponses(table *godog.Table) error {
	inputs, confirms := parseResponseTable(table)

	// Prepend the overwrite confirmation
	allConfirms := append([]bool{true}, confirms...)
	prompter := NewMockPrompter(inputs, allConfirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

// parseResponseTable reads a prompt/type/value table. The prompt column is
// documentation; responses are consumed in row order per type.
func parseResponseTable(table *godog.Table) ([]string, []bool) {
	var inputs []string
	var confirms []bool

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		kind := strings.ToLower(row.Cells[1].Value)
		value := row.Cells[2].Value

		if kind == "confirm" {
			confirms = append(confirms, strings.ToLower(value) == "y")
		} else {
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms
}

func (s *setupContext) loadSavedConfig() (*config.Config, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveServerHostAndPort(host string, port int) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Server.Host != host {
		return fmt.Errorf("expected host %q, got %q", host, cfg.Server.Host)
	}
	if cfg.Server.Port != port {
		return fmt.Errorf("expected port %d, got %d", port, cfg.Server.Port)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveScratchRoot(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.ScratchRoot != expected {
		return fmt.Errorf("expected scratch_root %q, got %q", expected, cfg.Paths.ScratchRoot)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveOutputDir(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.OutputDir != expected {
		return fmt.Errorf("expected output_dir %q, got %q", expected, cfg.Paths.OutputDir)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveTemplatesDir(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.TemplatesDir != expected {
		return fmt.Errorf("expected templates_dir %q, got %q", expected, cfg.Paths.TemplatesDir)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveBitrate(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Audio.Bitrate != expected {
		return fmt.Errorf("expected bitrate %q, got %q", expected, cfg.Audio.Bitrate)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveArchiveFolder(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if !cfg.Archive.Enabled {
		return fmt.Errorf("expected archive to be enabled")
	}
	if cfg.Archive.FolderID != expected {
		return fmt.Errorf("expected archive folder %q, got %q", expected, cfg.Archive.FolderID)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveFromAddress(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Email.FromAddress != expected {
		return fmt.Errorf("expected from_address %q, got %q", expected, cfg.Email.FromAddress)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveACCRecipient(expectedName string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	for _, cc := range cfg.Email.DefaultCC {
		if cc.Name == expectedName {
			return nil
		}
	}
	return fmt.Errorf("CC recipient %q not found in %v", expectedName, cfg.Email.DefaultCC)
}

func (s *setupContext) theConfigShouldHaveAQuickLookupRecipient(nickname string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Email.Recipients[nickname]; !ok {
		return fmt.Errorf("quick-lookup recipient %q not found in %v", nickname, cfg.Email.Recipients)
	}
	return nil
}

func (s *setupContext) theConfigShouldNotify(nickname string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	for _, key := range cfg.Email.Notify {
		if key == nickname {
			return nil
		}
	}
	return fmt.Errorf("notify list %v does not include %q", cfg.Email.Notify, nickname)
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	if s.err != nil {
		return fmt.Errorf("expected cancelled setup to exit cleanly, got error: %v", s.err)
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}

func (s *setupContext) theSetupShouldFailWith(expected string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail but it succeeded")
	}
	if !strings.Contains(s.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, s.err)
	}
	return nil
}
