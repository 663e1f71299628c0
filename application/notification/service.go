package notification

import (
	"time"

	"github.com/shailu9/MediaInfoApi/domain/notification"
)

// Service handles email notification operations
type Service struct {
	sender     notification.EmailSender
	senderName string
}

// NewService creates a new notification service
func NewService(sender notification.EmailSender, senderName string) *Service {
	return &Service{
		sender:     sender,
		senderName: senderName,
	}
}

// SendRequest contains the parameters for announcing a finished artifact
type SendRequest struct {
	To           []notification.Recipient
	CC           []notification.Recipient
	KindLabel    string
	SourceName   string
	ArtifactName string
	ArtifactURL  string
	FinishedAt   time.Time
}

// Send sends a notification email for a finished artifact
func (s *Service) Send(req SendRequest) error {
	emailReq := &notification.EmailRequest{
		To:           req.To,
		CC:           req.CC,
		KindLabel:    req.KindLabel,
		SourceName:   req.SourceName,
		ArtifactName: req.ArtifactName,
		ArtifactURL:  req.ArtifactURL,
		FinishedAt:   req.FinishedAt,
		SenderName:   s.senderName,
	}

	return s.sender.Send(emailReq)
}
