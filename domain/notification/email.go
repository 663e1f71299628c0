package notification

import (
	"time"
)

// Recipient represents an email recipient with name and address
type Recipient struct {
	Name    string
	Address string
}

// EmailRequest contains the data needed to announce a finished artifact
type EmailRequest struct {
	To           []Recipient // Primary recipients
	CC           []Recipient // Carbon copy recipients
	KindLabel    string      // Human label for the work done, e.g. "Audio extraction"
	SourceName   string      // Display name of the processed source
	ArtifactName string      // Name of the produced file
	ArtifactURL  string      // Shareable URL of the archived artifact
	FinishedAt   time.Time   // When the work completed
	SenderName   string      // Name to sign the email
}

// Validate checks that the email request has all required fields
func (r *EmailRequest) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range r.To {
		if to.Address == "" {
			return ErrInvalidRecipient
		}
	}
	if r.ArtifactName == "" || r.ArtifactURL == "" {
		return ErrNoArtifact
	}
	return nil
}

// EmailSender defines the interface for sending emails
type EmailSender interface {
	Send(req *EmailRequest) error
}
