package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sydlexius/retune/internal/resolver"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Decision.Mode != "smart" {
		t.Errorf("default mode = %q, want smart", cfg.Decision.Mode)
	}
	if cfg.Matching.ArtistFloor != 0.6 || cfg.Matching.YearBonus != 0.3 {
		t.Errorf("unexpected matching defaults: %+v", cfg.Matching)
	}
	if cfg.Decision.Policy.HighConfidence != 0.9 {
		t.Errorf("high confidence default = %v", cfg.Decision.Policy.HighConfidence)
	}
	if cfg.Catalog.Retries != 2 {
		t.Errorf("retries default = %d, want 2", cfg.Catalog.Retries)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
library:
  path: /music
  exclusions: ["Demo[0-9]", "E_*"]
catalog:
  spotify:
    client_id: abc
    client_secret: xyz
  min_interval_ms: 100
decision:
  mode: manual
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Library.Path != "/music" {
		t.Errorf("library path = %q", cfg.Library.Path)
	}
	if len(cfg.Library.Exclusions) != 2 {
		t.Errorf("exclusions = %v", cfg.Library.Exclusions)
	}
	if cfg.Catalog.Spotify.ClientID != "abc" || cfg.Catalog.Spotify.ClientSecret != "xyz" {
		t.Errorf("spotify creds not loaded: %+v", cfg.Catalog.Spotify)
	}
	if cfg.Decision.Mode != string(resolver.ModeManual) {
		t.Errorf("mode = %q, want manual", cfg.Decision.Mode)
	}
	// Unset fields keep their defaults.
	if cfg.Matching.AcceptFloor != 0.6 {
		t.Errorf("accept floor = %v, want default 0.6", cfg.Matching.AcceptFloor)
	}
	if cfg.Catalog.MinInterval().Milliseconds() != 100 {
		t.Errorf("min interval = %v", cfg.Catalog.MinInterval())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RT_LIBRARY_PATH", "/from-env")
	t.Setenv("RT_MODE", "automatic")
	t.Setenv("RT_SPOTIFY_CLIENT_ID", "env-id")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Library.Path != "/from-env" {
		t.Errorf("library path = %q", cfg.Library.Path)
	}
	if cfg.Decision.Mode != "automatic" {
		t.Errorf("mode = %q", cfg.Decision.Mode)
	}
	if cfg.Catalog.Spotify.ClientID != "env-id" {
		t.Errorf("client id = %q", cfg.Catalog.Spotify.ClientID)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("RT_MODE", "yolo")
	if _, err := Load(""); err == nil {
		t.Error("invalid mode must fail validation")
	}

	t.Setenv("RT_MODE", "smart")
	t.Setenv("RT_LOG_LEVEL", "loud")
	if _, err := Load(""); err == nil {
		t.Error("invalid log level must fail validation")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Decision.Mode != "smart" {
		t.Errorf("mode = %q, want default smart", cfg.Decision.Mode)
	}
}
