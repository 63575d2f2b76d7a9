package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
paths:
  scratch_directory: /var/scratch
audio:
  default_format: flac
server:
  session_ttl: 15m
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Paths.ScratchDirectory != "/var/scratch" {
		t.Errorf("ScratchDirectory = %q", cfg.Paths.ScratchDirectory)
	}
	if cfg.Audio.DefaultFormat != "flac" {
		t.Errorf("DefaultFormat = %q, want flac", cfg.Audio.DefaultFormat)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.FFprobe != "ffprobe" {
		t.Errorf("Tools = %+v, want defaults", cfg.Tools)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("Address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.SessionTTL() != 15*time.Minute {
		t.Errorf("SessionTTL() = %v, want 15m", cfg.SessionTTL())
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() missing file error = %v, want ErrNotExist", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("paths: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() expected parse error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() unexpected error: %v", err)
	}
	if cfg.Audio.DefaultFormat != "mp3" || cfg.Logging.Level != "info" {
		t.Errorf("LoadOrDefault() = %+v, want defaults", cfg)
	}
}

func TestSessionTTL_Invalid(t *testing.T) {
	cfg := &Config{Server: ServerConfig{SessionTTL: "soon"}}
	if cfg.SessionTTL() != time.Hour {
		t.Errorf("SessionTTL() = %v, want 1h fallback", cfg.SessionTTL())
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Google.FolderID = "folder-123"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded.Google.FolderID != "folder-123" {
		t.Errorf("FolderID = %q, want folder-123", loaded.Google.FolderID)
	}
}
