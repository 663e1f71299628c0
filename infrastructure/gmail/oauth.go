package gmail

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/shailu9/MediaInfoApi/domain/notification"
	"github.com/shailu9/MediaInfoApi/infrastructure/googleauth"
)

// OAuthConfig holds the configuration for OAuth 2.0 authentication
type OAuthConfig struct {
	CredentialsFile string // Path to OAuth client credentials JSON
	TokenFile       string // Path to store/load token
}

// NewClientWithOAuth creates a new Gmail client using OAuth 2.0 user
// authentication. The send scope needs its own token file, separate from
// the Drive token.
func NewClientWithOAuth(ctx context.Context, cfg OAuthConfig, from notification.Recipient, opts ...ClientOption) (*Client, error) {
	c := NewClient(from, opts...)

	if c.gmailService == nil {
		svc, err := newOAuthGmailService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.gmailService = svc
	}

	return c, nil
}

// newOAuthGmailService creates a Gmail service using OAuth 2.0 user authentication
func newOAuthGmailService(ctx context.Context, cfg OAuthConfig) (*GoogleGmailService, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse OAuth credentials: %w", err)
	}

	token, err := googleauth.Token(ctx, config, cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to get OAuth token: %w", err)
	}

	client := config.Client(ctx, token)
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}

	return &GoogleGmailService{service: srv}, nil
}
