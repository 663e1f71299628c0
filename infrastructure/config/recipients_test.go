package config

import (
	"errors"
	"testing"

	"github.com/shailu9/MediaInfoApi/domain/notification"
)

func lookupFixture() *RecipientLookup {
	cfg := Default()
	cfg.Email.Recipients = map[string]RecipientConfig{
		"john":  {Name: "John Smith", Address: "john@example.com"},
		"jane":  {Name: "Jane Doe", Address: "jane@example.com"},
		"jdoe":  {Name: "Jim Doe", Address: "jim@example.com"},
		"board": {Name: "Board List", Address: "board@example.com"},
	}
	cfg.Email.DefaultCC = []RecipientConfig{
		{Name: "Archive Box", Address: "archive@example.com"},
	}
	return NewRecipientLookup(cfg)
}

func TestRecipientLookup_LookupRecipient(t *testing.T) {
	lookup := lookupFixture()

	tests := []struct {
		name      string
		query     string
		wantCount int
		wantErr   error
	}{
		{name: "by key", query: "john", wantCount: 1},
		{name: "by first name", query: "Jane", wantCount: 1},
		{name: "by last name", query: "smith", wantCount: 1},
		{name: "by full name", query: "john smith", wantCount: 1},
		{name: "shared last name is ambiguous", query: "doe", wantCount: 2},
		{name: "unknown", query: "nobody", wantErr: notification.ErrRecipientNotFound},
		{name: "empty", query: "", wantErr: notification.ErrRecipientNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := lookup.LookupRecipient(tt.query)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(matches) != tt.wantCount {
				t.Errorf("got %d matches, want %d: %+v", len(matches), tt.wantCount, matches)
			}
		})
	}
}

func TestRecipientLookup_ResolveOne(t *testing.T) {
	lookup := lookupFixture()

	rec, err := lookup.ResolveOne("jane")
	if err != nil {
		t.Fatalf("ResolveOne() error = %v", err)
	}
	if rec.Address != "jane@example.com" {
		t.Errorf("recipient = %+v", rec)
	}

	if _, err := lookup.ResolveOne("doe"); !errors.Is(err, notification.ErrAmbiguousRecipient) {
		t.Errorf("ResolveOne(ambiguous) error = %v, want ErrAmbiguousRecipient", err)
	}
}

func TestRecipientLookup_DefaultCCs(t *testing.T) {
	lookup := lookupFixture()

	ccs := lookup.DefaultCCs()
	if len(ccs) != 1 || ccs[0].Address != "archive@example.com" {
		t.Errorf("DefaultCCs() = %+v", ccs)
	}
}

func TestRecipientLookup_AllRecipients(t *testing.T) {
	lookup := lookupFixture()

	if got := len(lookup.AllRecipients()); got != 4 {
		t.Errorf("AllRecipients() returned %d entries, want 4", got)
	}
}
