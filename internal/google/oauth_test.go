package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setTestCacheDir points the token cache at a temp directory so tests never
// touch the real user cache. Returns the app cache dir inside it.
func setTestCacheDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)
	t.Setenv("HOME", tmp)
	dir, err := appCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeTokenFile(t *testing.T, account, data string) {
	t.Helper()
	path, err := tokenFilePath(account)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
}

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
		{"valid uppercase", "Work", false},
		{"empty", "", true},
		{"with spaces", "my account", true},
		{"with special chars", "account@work", true},
		{"with slash", "work/personal", true},
		{"with dot", "work.email", true},
		{"path traversal", "..", true},
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

func TestTokenFilePath(t *testing.T) {
	cacheDir := setTestCacheDir(t)

	tests := []struct {
		account string
		want    string
	}{
		{"default", "google-default.token"},
		{"work", "google-work.token"},
		{"personal", "google-personal.token"},
	}

	for _, tt := range tests {
		t.Run(tt.account, func(t *testing.T) {
			got, err := tokenFilePath(tt.account)
			if err != nil {
				t.Fatalf("tokenFilePath() error = %v", err)
			}
			if filepath.Base(got) != tt.want {
				t.Errorf("tokenFilePath() = %v, want base %v", got, tt.want)
			}
			if filepath.Dir(got) != cacheDir {
				t.Errorf("tokenFilePath() dir = %v, want %v", filepath.Dir(got), cacheDir)
			}
		})
	}
}

func TestHasTokenForAccount(t *testing.T) {
	setTestCacheDir(t)

	if HasTokenForAccount("work") {
		t.Error("HasTokenForAccount() should be false before a token is stored")
	}

	writeTokenFile(t, "work", "access refresh")

	if !HasTokenForAccount("work") {
		t.Error("HasTokenForAccount() should be true after the token file is written")
	}
	if HasTokenForAccount("other") {
		t.Error("HasTokenForAccount() should be false for a different account")
	}
	if HasTokenForAccount("invalid account") {
		t.Error("HasTokenForAccount() should be false for an invalid account name")
	}
	if HasTokenForAccount("") {
		t.Error("HasTokenForAccount() should be false for an empty account name")
	}
}

func TestHasTokenForAccount_MigratesLegacyDefaultToken(t *testing.T) {
	cacheDir := setTestCacheDir(t)
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		t.Fatal(err)
	}

	// A pre-migration install only has the unsuffixed token file.
	oldTokenFile := filepath.Join(cacheDir, "google.token")
	if err := os.WriteFile(oldTokenFile, []byte("access refresh"), 0600); err != nil {
		t.Fatal(err)
	}

	if !HasTokenForAccount("default") {
		t.Error(`HasTokenForAccount("default") should migrate the legacy token file and find it`)
	}
}

func TestMigrateDefaultToken(t *testing.T) {
	cacheDir := setTestCacheDir(t)
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		t.Fatal(err)
	}

	oldTokenFile := filepath.Join(cacheDir, "google.token")
	newTokenFile := filepath.Join(cacheDir, "google-default.token")

	tokenData := []byte("test_access_token test_refresh_token")
	if err := os.WriteFile(oldTokenFile, tokenData, 0600); err != nil {
		t.Fatal(err)
	}

	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("MigrateDefaultToken() error = %v", err)
	}

	if _, err := os.Stat(newTokenFile); os.IsNotExist(err) {
		t.Error("new token file should exist after migration")
	}
	if _, err := os.Stat(oldTokenFile); !os.IsNotExist(err) {
		t.Error("old token file should be removed after migration")
	}

	newData, err := os.ReadFile(newTokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(newData) != string(tokenData) {
		t.Errorf("token data changed during migration: got %s, want %s", newData, tokenData)
	}

	// A second run must be a no-op
	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("second MigrateDefaultToken() error = %v", err)
	}
}

func TestMigrateDefaultToken_KeepsExistingNewFile(t *testing.T) {
	cacheDir := setTestCacheDir(t)
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		t.Fatal(err)
	}

	oldTokenFile := filepath.Join(cacheDir, "google.token")
	newTokenFile := filepath.Join(cacheDir, "google-default.token")

	if err := os.WriteFile(oldTokenFile, []byte("old old"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newTokenFile, []byte("new new"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("MigrateDefaultToken() error = %v", err)
	}

	data, err := os.ReadFile(newTokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new new" {
		t.Errorf("migration must not overwrite an existing per-account token, got %s", data)
	}
}

func TestGetTokenSourceForAccount_MissingToken(t *testing.T) {
	setTestCacheDir(t)

	_, err := GetTokenSourceForAccount(context.Background(), "work")
	if err == nil {
		t.Fatal("expected an error when no token is stored")
	}
	if !strings.Contains(err.Error(), "work") {
		t.Errorf("error should name the account, got %v", err)
	}
}

func TestGetTokenSourceForAccount_MalformedToken(t *testing.T) {
	setTestCacheDir(t)
	writeTokenFile(t, "work", "only_one_field")

	_, err := GetTokenSourceForAccount(context.Background(), "work")
	if err == nil {
		t.Fatal("expected an error for a malformed token file")
	}
	if !strings.Contains(err.Error(), "invalid token format") {
		t.Errorf("error = %v, want invalid token format", err)
	}
}

func TestSaveTokenForAccount_InvalidAccount(t *testing.T) {
	if err := SaveTokenForAccount(context.Background(), "bad name", "code"); err == nil {
		t.Error("SaveTokenForAccount() should reject an invalid account name before exchanging the code")
	}
}

func TestGetOAuthConfig(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "test-client-secret")

	conf := GetOAuthConfig()

	if conf.ClientID != "test-client-id" {
		t.Errorf("ClientID = %q, want the env value", conf.ClientID)
	}
	if conf.ClientSecret != "test-client-secret" {
		t.Errorf("ClientSecret = %q, want the env value", conf.ClientSecret)
	}
	if !strings.Contains(conf.RedirectURL, "oob") {
		t.Errorf("RedirectURL = %q, want the out-of-band URL", conf.RedirectURL)
	}

	foundCalendar := false
	for _, scope := range conf.Scopes {
		if scope == "https://www.googleapis.com/auth/calendar" {
			foundCalendar = true
		}
	}
	if !foundCalendar {
		t.Error("OAuth scopes must include the calendar scope")
	}
}

func TestGetAuthURL(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")

	url := GetAuthURL()

	if !strings.Contains(url, "test-client-id") {
		t.Errorf("auth URL should carry the client id, got %q", url)
	}
	if !strings.Contains(url, "oob") {
		t.Errorf("auth URL should request the out-of-band flow, got %q", url)
	}
}

func TestGetAuthenticationErrorMessage(t *testing.T) {
	for _, account := range []string{"default", "work"} {
		msg := GetAuthenticationErrorMessage(account)
		if !strings.Contains(msg, account) {
			t.Errorf("message should mention account %s", account)
		}
		if !strings.Contains(msg, "auth --account") {
			t.Error("message should point at the auth command")
		}
	}
}
