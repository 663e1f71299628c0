package store

import (
	"context"
	"os"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	s, err := Open(tempFile.Name())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestOpen_AppliesMigrations(t *testing.T) {
	s := setupTestStore(t)

	// Both tables exist and are queryable after migration
	if _, err := s.List(context.Background(), jobFilterNone()); err != nil {
		t.Errorf("jobs table not usable: %v", err)
	}
	if _, err := s.ListReports(context.Background(), 0); err != nil {
		t.Errorf("reports table not usable: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	s, err := Open(tempFile.Name())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Migrations must be idempotent across restarts
	s, err = Open(tempFile.Name())
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	s.Close()
}
