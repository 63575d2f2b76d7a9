package drive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := saveToken(path, token); err != nil {
		t.Fatalf("saveToken() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	loaded, err := loadToken(path)
	if err != nil {
		t.Fatalf("loadToken() error = %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" || !loaded.Expiry.Equal(token.Expiry) {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadToken_Missing(t *testing.T) {
	if _, err := loadToken(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected error for missing token file")
	}
}

func TestNewClientWithOAuth_UsesInjectedService(t *testing.T) {
	svc := &mockDriveService{}
	client, err := NewClientWithOAuth(context.Background(), OAuthConfig{}, WithDriveService(svc))
	if err != nil {
		t.Fatalf("NewClientWithOAuth() error = %v", err)
	}
	if client.driveService != svc {
		t.Error("expected injected drive service")
	}
}
