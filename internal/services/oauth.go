// Google OAuth token persistence for the YouTube Music catalog
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"tunebridge/internal/shared"
)

// googleEndpoint is the OAuth2 endpoint for Google accounts.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// youtubeScope grants playlist read/write access.
const youtubeScope = "https://www.googleapis.com/auth/youtube"

// storedToken mirrors the JSON layout ytmusicapi writes to oauth.json.
type storedToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

// TokenStore manages a Google OAuth token persisted to a JSON file.
//
// Token returns a valid access token, refreshing through the OAuth endpoint
// when the stored one has expired and writing the refreshed token back to the
// file. Safe for concurrent use.
type TokenStore struct {
	mu     sync.Mutex
	path   string
	config *oauth2.Config
	token  *oauth2.Token
}

// NewTokenStore creates a TokenStore backed by the JSON file at path.
//
// The file does not need to exist yet; Save writes it after an initial
// authorization flow.
func NewTokenStore(path, clientID, clientSecret string) *TokenStore {
	return &TokenStore{
		path: path,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     googleEndpoint,
			Scopes:       []string{youtubeScope},
		},
	}
}

// OAuthConfig returns the underlying [oauth2.Config] for authorization flows.
func (s *TokenStore) OAuthConfig() *oauth2.Config {
	return s.config
}

// Load reads the token file from disk.
func (s *TokenStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked()
}

func (s *TokenStore) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse token file: %w", err)
	}

	if stored.RefreshToken == "" {
		return fmt.Errorf("token file %s: %w", s.path, shared.ErrMissingCredentials)
	}

	s.token = &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    stored.TokenType,
	}
	if stored.ExpiresAt > 0 {
		s.token.Expiry = time.Unix(stored.ExpiresAt, 0)
	}

	return nil
}

// Save persists the given token to the file, preserving the refresh token
// when the refresh response omits it.
func (s *TokenStore) Save(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(token)
}

func (s *TokenStore) saveLocked(token *oauth2.Token) error {
	if token.RefreshToken == "" && s.token != nil {
		token.RefreshToken = s.token.RefreshToken
	}

	stored := storedToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        youtubeScope,
	}
	if !token.Expiry.IsZero() {
		stored.ExpiresAt = token.Expiry.Unix()
		stored.ExpiresIn = int(time.Until(token.Expiry).Seconds())
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.token = token
	return nil
}

// Token returns a valid access token, refreshing and persisting it when expired.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		if err := s.loadLocked(); err != nil {
			return "", err
		}
	}

	if s.token.Valid() {
		return s.token.AccessToken, nil
	}

	refreshed, err := s.config.TokenSource(ctx, s.token).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if err := s.saveLocked(refreshed); err != nil {
		return "", err
	}

	return refreshed.AccessToken, nil
}
