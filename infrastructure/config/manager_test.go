package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *ConfigManager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	return NewConfigManager(Default(), path)
}

func TestConfigManager_RecipientCRUD(t *testing.T) {
	m := newTestManager(t)

	if err := m.AddRecipient("John", "John Smith", "john@example.com"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}

	// Keys are lowercased
	rec, err := m.GetRecipient("JOHN")
	if err != nil {
		t.Fatalf("GetRecipient() error = %v", err)
	}
	if rec.Name != "John Smith" || rec.Address != "john@example.com" {
		t.Errorf("recipient = %+v", rec)
	}

	if err := m.AddRecipient("john", "Other John", "other@example.com"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate AddRecipient() error = %v, want ErrDuplicateKey", err)
	}

	if err := m.UpdateRecipient("john", "", "john.smith@example.com"); err != nil {
		t.Fatalf("UpdateRecipient() error = %v", err)
	}
	rec, _ = m.GetRecipient("john")
	if rec.Address != "john.smith@example.com" {
		t.Errorf("address after update = %q", rec.Address)
	}
	if rec.Name != "John Smith" {
		t.Errorf("name should be unchanged, got %q", rec.Name)
	}

	if got := len(m.ListRecipients()); got != 1 {
		t.Errorf("ListRecipients() returned %d entries, want 1", got)
	}

	if err := m.RemoveRecipient("john"); err != nil {
		t.Fatalf("RemoveRecipient() error = %v", err)
	}
	if _, err := m.GetRecipient("john"); !errors.Is(err, ErrRecipientNotFound) {
		t.Errorf("GetRecipient() after remove error = %v, want ErrRecipientNotFound", err)
	}
}

func TestConfigManager_AddRecipient_Validation(t *testing.T) {
	m := newTestManager(t)

	if err := m.AddRecipient("", "John Smith", "john@example.com"); err == nil {
		t.Error("expected error for empty key")
	}
	if err := m.AddRecipient("john", "", "john@example.com"); err == nil {
		t.Error("expected error for empty name")
	}
	if err := m.AddRecipient("john", "John Smith", "not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("error = %v, want ErrInvalidEmail", err)
	}
}

func TestConfigManager_CCCRUD(t *testing.T) {
	m := newTestManager(t)

	if err := m.AddCC("Jane Doe", "jane@example.com"); err != nil {
		t.Fatalf("AddCC() error = %v", err)
	}
	if err := m.AddCC("Jane Again", "JANE@example.com"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate AddCC() error = %v, want ErrDuplicateKey", err)
	}

	ccs := m.ListCCs()
	if len(ccs) != 1 || ccs[0].Address != "jane@example.com" {
		t.Errorf("ListCCs() = %+v", ccs)
	}

	if err := m.RemoveCC("jane@example.com"); err != nil {
		t.Fatalf("RemoveCC() error = %v", err)
	}
	if err := m.RemoveCC("jane@example.com"); !errors.Is(err, ErrCCNotFound) {
		t.Errorf("RemoveCC() error = %v, want ErrCCNotFound", err)
	}
}

func TestConfigManager_PersistsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := NewConfigManager(Default(), path)

	if err := m.AddRecipient("john", "John Smith", "john@example.com"); err != nil {
		t.Fatalf("AddRecipient() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rc, ok := loaded.Email.Recipients["john"]; !ok || rc.Address != "john@example.com" {
		t.Errorf("persisted recipients = %+v", loaded.Email.Recipients)
	}
}
