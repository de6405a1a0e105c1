package google

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs.
// This abstraction allows different token sources (file-based, in-memory, etc.)
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// FileTokenProvider provides tokens from disk files (for local transports).
type FileTokenProvider struct{}

// NewFileTokenProvider creates a new file-based token provider.
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForAccount retrieves a token from disk for the specified account.
func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token from file: %w", err)
	}

	return token, nil
}

// HasTokenForAccount checks if a token file exists for the specified account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}

// CredentialStore holds OAuth tokens in memory, keyed by account. The server
// shares one store across all request handlers, so access is guarded by a
// read-write mutex.
type CredentialStore struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

// NewCredentialStore creates an empty in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		tokens: make(map[string]*oauth2.Token),
	}
}

// SetTokenForAccount stores or replaces the token for an account.
func (s *CredentialStore) SetTokenForAccount(account string, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[account] = token
}

// GetTokenForAccount retrieves the stored token for an account.
func (s *CredentialStore) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[account]
	if !ok {
		return nil, fmt.Errorf("no token stored for account %s", account)
	}
	return token, nil
}

// HasTokenForAccount checks if a token is stored for an account.
func (s *CredentialStore) HasTokenForAccount(account string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[account]
	return ok
}

// RemoveTokenForAccount drops the stored token for an account.
func (s *CredentialStore) RemoveTokenForAccount(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, account)
}
