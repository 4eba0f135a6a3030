package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func writeTokenFile(t *testing.T, dir string, stored storedToken) string {
	t.Helper()

	path := filepath.Join(dir, "oauth.json")
	data, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("failed to marshal token: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	return path
}

func TestTokenStore(t *testing.T) {
	t.Run("Load", func(t *testing.T) {
		path := writeTokenFile(t, t.TempDir(), storedToken{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		})

		store := NewTokenStore(path, "cid", "secret")
		if err := store.Load(); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		token, err := store.Token(context.Background())
		if err != nil {
			t.Fatalf("token failed: %v", err)
		}
		if token != "access" {
			t.Errorf("expected access token, got %s", token)
		}
	})

	t.Run("LoadMissingFile", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "missing.json"), "cid", "secret")
		if err := store.Load(); err == nil {
			t.Error("expected error for missing token file")
		}
	})

	t.Run("LoadMissingRefreshToken", func(t *testing.T) {
		path := writeTokenFile(t, t.TempDir(), storedToken{AccessToken: "access"})

		store := NewTokenStore(path, "cid", "secret")
		if err := store.Load(); err == nil {
			t.Error("expected error for token file without refresh token")
		}
	})

	t.Run("Save", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "oauth.json")
		store := NewTokenStore(path, "cid", "secret")

		token := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour),
		}
		if err := store.Save(token); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}

		var stored storedToken
		if err := json.Unmarshal(data, &stored); err != nil {
			t.Fatalf("failed to parse saved file: %v", err)
		}
		if stored.RefreshToken != "refresh" {
			t.Errorf("expected refresh token to persist, got %q", stored.RefreshToken)
		}
		if stored.ExpiresAt == 0 {
			t.Error("expected expires_at to be set")
		}
	})

	t.Run("SavePreservesRefreshToken", func(t *testing.T) {
		path := writeTokenFile(t, t.TempDir(), storedToken{
			AccessToken:  "old-access",
			RefreshToken: "refresh",
			ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		})

		store := NewTokenStore(path, "cid", "secret")
		if err := store.Load(); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		refreshed := &oauth2.Token{
			AccessToken: "new-access",
			Expiry:      time.Now().Add(time.Hour),
		}
		if err := store.Save(refreshed); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}

		var stored storedToken
		if err := json.Unmarshal(data, &stored); err != nil {
			t.Fatalf("failed to parse saved file: %v", err)
		}
		if stored.RefreshToken != "refresh" {
			t.Errorf("refresh token should survive refresh responses that omit it, got %q", stored.RefreshToken)
		}
		if stored.AccessToken != "new-access" {
			t.Errorf("expected new access token, got %q", stored.AccessToken)
		}
	})
}
