package config

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Errors for config management
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrCCNotFound        = errors.New("cc not found")
	ErrDuplicateKey      = errors.New("key already exists")
	ErrInvalidEmail      = errors.New("invalid email format")
)

// ConfigManager provides CRUD operations for config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Recipient represents a recipient entry (used for both recipients and CCs)
type Recipient struct {
	Key     string
	Name    string
	Address string
}

// --- Recipient CRUD ---

// AddRecipient adds a new recipient to config
func (m *ConfigManager) AddRecipient(key, name, email string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if key == "" {
		return fmt.Errorf("recipient key is required")
	}
	if name == "" {
		return fmt.Errorf("recipient name is required")
	}
	if !isValidEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	if m.config.Email.Recipients == nil {
		m.config.Email.Recipients = make(map[string]RecipientConfig)
	}

	if _, exists := m.config.Email.Recipients[key]; exists {
		return fmt.Errorf("%w: recipient %q", ErrDuplicateKey, key)
	}

	m.config.Email.Recipients[key] = RecipientConfig{Name: name, Address: email}
	return Save(m.config, m.configPath)
}

// ListRecipients returns all recipients
func (m *ConfigManager) ListRecipients() []Recipient {
	result := make([]Recipient, 0, len(m.config.Email.Recipients))
	for key, rc := range m.config.Email.Recipients {
		result = append(result, Recipient{
			Key:     key,
			Name:    rc.Name,
			Address: rc.Address,
		})
	}
	return result
}

// GetRecipient gets a recipient by key (case-insensitive)
func (m *ConfigManager) GetRecipient(key string) (Recipient, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if rc, exists := m.config.Email.Recipients[key]; exists {
		return Recipient{Key: key, Name: rc.Name, Address: rc.Address}, nil
	}
	return Recipient{}, fmt.Errorf("%w: %q", ErrRecipientNotFound, key)
}

// RemoveRecipient removes a recipient by key
func (m *ConfigManager) RemoveRecipient(key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, exists := m.config.Email.Recipients[key]; !exists {
		return fmt.Errorf("%w: %q", ErrRecipientNotFound, key)
	}

	delete(m.config.Email.Recipients, key)
	return Save(m.config, m.configPath)
}

// UpdateRecipient updates a recipient's name and/or email
func (m *ConfigManager) UpdateRecipient(key, name, email string) error {
	key = strings.ToLower(strings.TrimSpace(key))

	rc, exists := m.config.Email.Recipients[key]
	if !exists {
		return fmt.Errorf("%w: %q", ErrRecipientNotFound, key)
	}

	// Update only provided values
	if name = strings.TrimSpace(name); name != "" {
		rc.Name = name
	}
	if email = strings.TrimSpace(email); email != "" {
		if !isValidEmail(email) {
			return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
		}
		rc.Address = email
	}

	m.config.Email.Recipients[key] = rc
	return Save(m.config, m.configPath)
}

// --- CC CRUD ---

// AddCC adds a new default CC recipient
func (m *ConfigManager) AddCC(name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return fmt.Errorf("cc name is required")
	}
	if !isValidEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	for _, cc := range m.config.Email.DefaultCC {
		if strings.EqualFold(cc.Address, email) {
			return fmt.Errorf("%w: cc %q", ErrDuplicateKey, email)
		}
	}

	m.config.Email.DefaultCC = append(m.config.Email.DefaultCC, RecipientConfig{
		Name:    name,
		Address: email,
	})

	return Save(m.config, m.configPath)
}

// ListCCs returns all default CC recipients
func (m *ConfigManager) ListCCs() []Recipient {
	result := make([]Recipient, 0, len(m.config.Email.DefaultCC))
	for _, cc := range m.config.Email.DefaultCC {
		result = append(result, Recipient{
			Key:     strings.ToLower(firstWord(cc.Name)),
			Name:    cc.Name,
			Address: cc.Address,
		})
	}
	return result
}

// RemoveCC removes a default CC recipient by address
func (m *ConfigManager) RemoveCC(email string) error {
	email = strings.TrimSpace(email)

	for i, cc := range m.config.Email.DefaultCC {
		if strings.EqualFold(cc.Address, email) {
			m.config.Email.DefaultCC = append(
				m.config.Email.DefaultCC[:i], m.config.Email.DefaultCC[i+1:]...)
			return Save(m.config, m.configPath)
		}
	}

	return fmt.Errorf("%w: %q", ErrCCNotFound, email)
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
