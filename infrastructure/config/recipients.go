package config

import (
	"fmt"
	"strings"

	"github.com/shailu9/MediaInfoApi/domain/notification"
)

// RecipientLookup resolves human-friendly queries against the configured
// recipient book
type RecipientLookup struct {
	config *Config
}

// NewRecipientLookup creates a new recipient lookup from config
func NewRecipientLookup(cfg *Config) *RecipientLookup {
	return &RecipientLookup{config: cfg}
}

// LookupRecipient finds recipients matching the query (first name, last
// name, full name, or key). Returns all matches so the caller can handle
// ambiguity.
func (r *RecipientLookup) LookupRecipient(query string) ([]notification.Recipient, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, notification.ErrRecipientNotFound
	}

	var matches []notification.Recipient

	for key, rc := range r.config.Email.Recipients {
		keyLower := strings.ToLower(key)
		nameLower := strings.ToLower(rc.Name)
		nameParts := strings.Fields(nameLower)

		var firstName, lastName string
		if len(nameParts) > 0 {
			firstName = nameParts[0]
		}
		if len(nameParts) > 1 {
			lastName = nameParts[len(nameParts)-1]
		}

		// Match on: key, first name, last name, or full name
		if keyLower == query || firstName == query || lastName == query || nameLower == query {
			matches = append(matches, notification.Recipient{
				Name:    rc.Name,
				Address: rc.Address,
			})
		}
	}

	if len(matches) == 0 {
		return nil, notification.ErrRecipientNotFound
	}

	return matches, nil
}

// ResolveOne resolves a query to exactly one recipient, failing on
// ambiguity
func (r *RecipientLookup) ResolveOne(query string) (notification.Recipient, error) {
	matches, err := r.LookupRecipient(query)
	if err != nil {
		return notification.Recipient{}, err
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return notification.Recipient{}, fmt.Errorf("%w: %q matches %s",
			notification.ErrAmbiguousRecipient, query, strings.Join(names, ", "))
	}
	return matches[0], nil
}

// AllRecipients returns every configured recipient
func (r *RecipientLookup) AllRecipients() []notification.Recipient {
	out := make([]notification.Recipient, 0, len(r.config.Email.Recipients))
	for _, rc := range r.config.Email.Recipients {
		out = append(out, notification.Recipient{Name: rc.Name, Address: rc.Address})
	}
	return out
}

// DefaultCCs returns the configured default CC list
func (r *RecipientLookup) DefaultCCs() []notification.Recipient {
	out := make([]notification.Recipient, 0, len(r.config.Email.DefaultCC))
	for _, cc := range r.config.Email.DefaultCC {
		out = append(out, notification.Recipient{Name: cc.Name, Address: cc.Address})
	}
	return out
}
