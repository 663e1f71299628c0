package gmail

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/gmail/v1"

	"github.com/shailu9/MediaInfoApi/domain/notification"
)

// mockGmailService is a mock implementation for testing
type mockGmailService struct {
	sentMessages []*gmail.Message
	shouldFail   bool
	failError    error
}

func (m *mockGmailService) SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	m.sentMessages = append(m.sentMessages, message)
	return &gmail.Message{Id: "test-message-id"}, nil
}

func TestClient_Send(t *testing.T) {
	mock := &mockGmailService{}
	from := notification.Recipient{Name: "Media Service", Address: "mediainfo@example.com"}

	client := NewClient(from, WithGmailService(mock))

	req := &notification.EmailRequest{
		To:           []notification.Recipient{{Name: "John Doe", Address: "john@example.com"}},
		CC:           []notification.Recipient{{Name: "Jane Doe", Address: "jane@example.com"}},
		KindLabel:    "Audio extraction",
		SourceName:   "session.mp4",
		ArtifactName: "session.mp3",
		ArtifactURL:  "https://drive.google.com/file/d/abc/view",
		FinishedAt:   time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC),
		SenderName:   "Sam",
	}

	err := client.Send(req)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(mock.sentMessages) != 1 {
		t.Fatalf("expected 1 message sent, got %d", len(mock.sentMessages))
	}

	// Decode the raw message to verify content
	// The message is base64 URL encoded
	rawBytes, err := decodeBase64URL(mock.sentMessages[0].Raw)
	if err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	raw := string(rawBytes)

	// Verify headers
	checks := []string{
		"From: Media Service <mediainfo@example.com>",
		"To: John Doe <john@example.com>",
		"Cc: Jane Doe <jane@example.com>",
		"Subject: Audio extraction ready: session.mp3",
		"Dear John,", // Single recipient greeting
		"session.mp4",
		"08/15/2026",
		"https://drive.google.com/file/d/abc/view",
		"~Sam",
	}

	for _, check := range checks {
		if !strings.Contains(raw, check) {
			t.Errorf("message missing %q in:\n%s", check, raw)
		}
	}
}

func TestClient_Send_MultipleRecipients(t *testing.T) {
	mock := &mockGmailService{}
	from := notification.Recipient{Name: "Media Service", Address: "mediainfo@example.com"}

	client := NewClient(from, WithGmailService(mock))

	req := &notification.EmailRequest{
		To: []notification.Recipient{
			{Name: "John Doe", Address: "john@example.com"},
			{Name: "Alice Smith", Address: "alice@example.com"},
		},
		KindLabel:    "Trim",
		SourceName:   "recording.mp4",
		ArtifactName: "recording-trimmed.mp4",
		ArtifactURL:  "https://drive.google.com/file/d/xyz/view",
		FinishedAt:   time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC),
		SenderName:   "Sam",
	}

	err := client.Send(req)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	rawBytes, _ := decodeBase64URL(mock.sentMessages[0].Raw)
	raw := string(rawBytes)

	// Verify multiple recipients in To header
	if !strings.Contains(raw, "To: John Doe <john@example.com>, Alice Smith <alice@example.com>") {
		t.Errorf("message missing multiple recipients in To header:\n%s", raw)
	}

	// Greeting should use both recipients' names for two recipients
	if !strings.Contains(raw, "Dear John & Alice,") {
		t.Errorf("message should greet both recipients by name:\n%s", raw)
	}
}

func TestClient_Send_NoCC(t *testing.T) {
	mock := &mockGmailService{}
	from := notification.Recipient{Name: "Media Service", Address: "mediainfo@example.com"}

	client := NewClient(from, WithGmailService(mock))

	req := &notification.EmailRequest{
		To:           []notification.Recipient{{Name: "John Doe", Address: "john@example.com"}},
		KindLabel:    "Probe",
		SourceName:   "clip.mp4",
		ArtifactName: "clip.mp4",
		ArtifactURL:  "https://drive.google.com/file/d/abc/view",
		FinishedAt:   time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		SenderName:   "Sam",
	}

	if err := client.Send(req); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	rawBytes, _ := decodeBase64URL(mock.sentMessages[0].Raw)
	if strings.Contains(string(rawBytes), "Cc:") {
		t.Error("message should not have a Cc header when no CC recipients")
	}
}

func TestClient_Send_ValidationError(t *testing.T) {
	mock := &mockGmailService{}
	from := notification.Recipient{Name: "Media Service", Address: "mediainfo@example.com"}

	client := NewClient(from, WithGmailService(mock))

	req := &notification.EmailRequest{
		// Missing To recipients
		KindLabel:    "Trim",
		ArtifactName: "out.mp4",
		ArtifactURL:  "https://drive.google.com/file/d/abc/view",
	}

	err := client.Send(req)
	if err == nil {
		t.Fatal("Send() expected error for invalid request, got nil")
	}
	if !strings.Contains(err.Error(), "invalid email request") {
		t.Errorf("Send() error = %v, want invalid email request error", err)
	}
	if len(mock.sentMessages) != 0 {
		t.Errorf("no message should be sent on validation failure")
	}
}

// decodeBase64URL decodes a base64 URL encoded string
func decodeBase64URL(s string) ([]byte, error) {
	return base64.URLEncoding.DecodeString(s)
}
