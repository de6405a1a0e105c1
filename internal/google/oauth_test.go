package google

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid default", "default", false},
		{"valid work", "work", false},
		{"valid with hyphen", "work-email", false},
		{"valid with underscore", "personal_email", false},
		{"valid alphanumeric", "account123", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "work.email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAccountName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetTokenFilePath(t *testing.T) {
	tests := []struct {
		name    string
		account string
		want    string
	}{
		{"default account", "default", "google-default.token"},
		{"work account", "work", "google-work.token"},
		{"personal account", "personal", "google-personal.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getTokenFilePath(tt.account)
			if filepath.Base(got) != tt.want {
				t.Errorf("getTokenFilePath() = %v, want base %v", got, tt.want)
			}
		})
	}
}

func TestHasTokenForAccountInvalidName(t *testing.T) {
	if HasTokenForAccount("invalid account") {
		t.Error("HasTokenForAccount() should return false for invalid account name")
	}
	if HasTokenForAccount("") {
		t.Error("HasTokenForAccount() should return false for empty account name")
	}
}

func TestGetOAuthConfigScopes(t *testing.T) {
	conf := GetOAuthConfig()

	for _, scope := range conf.Scopes {
		switch scope {
		case "openid", "https://www.googleapis.com/auth/userinfo.email":
			continue
		}
		if filepath.Ext(scope) != ".readonly" {
			t.Errorf("scope %q is not read-only", scope)
		}
	}
}

func TestGetOAuthConfigClientCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")

	conf := GetOAuthConfig()
	if conf.ClientID != "client-id" {
		t.Errorf("ClientID = %q, want the configured id", conf.ClientID)
	}
	if conf.ClientSecret != "client-secret" {
		t.Errorf("ClientSecret = %q, want the configured secret", conf.ClientSecret)
	}
}

func TestCredentialStore(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore()

	if store.HasTokenForAccount("work") {
		t.Error("empty store should not report a token")
	}
	if _, err := store.GetTokenForAccount(ctx, "work"); err == nil {
		t.Error("GetTokenForAccount() should fail for missing account")
	}

	token := &oauth2.Token{AccessToken: "abc", RefreshToken: "def"}
	store.SetTokenForAccount("work", token)

	if !store.HasTokenForAccount("work") {
		t.Error("store should report a token after SetTokenForAccount")
	}
	got, err := store.GetTokenForAccount(ctx, "work")
	if err != nil {
		t.Fatalf("GetTokenForAccount() error = %v", err)
	}
	if got.AccessToken != "abc" {
		t.Errorf("GetTokenForAccount() AccessToken = %q, want abc", got.AccessToken)
	}

	store.RemoveTokenForAccount("work")
	if store.HasTokenForAccount("work") {
		t.Error("store should not report a token after RemoveTokenForAccount")
	}
}

// staticTokenSource hands out a fixed token and counts calls.
type staticTokenSource struct {
	token *oauth2.Token
	calls int
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	s.calls++
	return s.token, nil
}

func TestPersistingTokenSourceWritesRefreshedToken(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	src := &staticTokenSource{token: &oauth2.Token{AccessToken: "new-access"}}
	ts := &persistingTokenSource{
		account: "default",
		refresh: "cached-refresh",
		last:    "old-access",
		src:     src,
	}

	if _, err := ts.Token(); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	data, err := os.ReadFile(getTokenFilePath("default"))
	if err != nil {
		t.Fatalf("refreshed token was not persisted: %v", err)
	}
	// The refresh token survives even when the upstream response
	// omits it.
	if string(data) != "new-access cached-refresh" {
		t.Errorf("cached token = %q, want %q", data, "new-access cached-refresh")
	}
}

func TestPersistingTokenSourceSkipsUnchangedToken(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	src := &staticTokenSource{token: &oauth2.Token{AccessToken: "same-access"}}
	ts := &persistingTokenSource{
		account: "default",
		refresh: "cached-refresh",
		last:    "same-access",
		src:     src,
	}

	if _, err := ts.Token(); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if _, err := os.Stat(getTokenFilePath("default")); err == nil {
		t.Error("unchanged token should not be rewritten")
	}
}

func TestCredentialStoreConcurrentAccess(t *testing.T) {
	store := NewCredentialStore()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			store.SetTokenForAccount("default", &oauth2.Token{AccessToken: "x"})
		}
	}()

	for i := 0; i < 100; i++ {
		store.HasTokenForAccount("default")
	}
	<-done
}
