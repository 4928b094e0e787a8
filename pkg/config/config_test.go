package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Store.Path == "" {
		t.Error("store path should have a default")
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://notes.example.com
store:
  path: /tmp/from-file.db
telegram:
  token: file-token
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NOTESYNC_STORE_PATH", "/tmp/from-env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://notes.example.com" {
		t.Errorf("file value not applied: %q", cfg.API.BaseURL)
	}
	if cfg.Store.Path != "/tmp/from-env.db" {
		t.Errorf("env should win over file: %q", cfg.Store.Path)
	}
	if cfg.Telegram.Token != "file-token" {
		t.Errorf("telegram token = %q", cfg.Telegram.Token)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
}
