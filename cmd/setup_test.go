package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"audio-extractor/infrastructure/config"
)

// mockPrompter answers prompts from queues in order
type mockPrompter struct {
	inputs   []string
	confirms []bool
	selects  []string
	fail     bool
}

func (m *mockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.fail || len(m.inputs) == 0 {
		return "", errors.New("interrupt")
	}
	v := m.inputs[0]
	m.inputs = m.inputs[1:]
	return v, nil
}

func (m *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.fail || len(m.confirms) == 0 {
		return false, errors.New("interrupt")
	}
	v := m.confirms[0]
	m.confirms = m.confirms[1:]
	return v, nil
}

func (m *mockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	if m.fail || len(m.selects) == 0 {
		return "", errors.New("interrupt")
	}
	v := m.selects[0]
	m.selects = m.selects[1:]
	return v, nil
}

func TestRunSetup_WritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")
	prompter := &mockPrompter{
		inputs: []string{
			"/srv/scratch", // scratch
			"",             // ffmpeg keeps default
			"/opt/ffprobe", // ffprobe
			"church",       // prefix
			":9000",        // address
			"200",          // upload limit
			"creds.json",   // credentials
			"",             // token default
			"folder-123",   // folder
		},
		confirms: []bool{true},
		selects:  []string{"flac"},
	}

	var out bytes.Buffer
	if err := RunSetupWithPrompter(prompter, path, &out); err != nil {
		t.Fatalf("RunSetupWithPrompter() error = %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Paths.ScratchDirectory != "/srv/scratch" || cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.FFprobe != "/opt/ffprobe" {
		t.Errorf("paths/tools = %+v %+v", cfg.Paths, cfg.Tools)
	}
	if cfg.Audio.DefaultFormat != "flac" || cfg.Audio.Prefix != "church" {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	if cfg.Server.Address != ":9000" || cfg.Server.MaxUploadMB != 200 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Google.CredentialsFile != "creds.json" || cfg.Google.TokenFile != "config/token.json" || cfg.Google.FolderID != "folder-123" {
		t.Errorf("google = %+v", cfg.Google)
	}
}

func TestRunSetup_SkipsDrive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	prompter := &mockPrompter{
		inputs:   []string{"", "", "", "", "", "0"},
		confirms: []bool{false},
		selects:  []string{"mp3"},
	}

	if err := RunSetupWithPrompter(prompter, path, &bytes.Buffer{}); err != nil {
		t.Fatalf("RunSetupWithPrompter() error = %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Google.FolderID != "" || cfg.Server.Address != ":8080" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestRunSetup_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("audio:\n  prefix: keep\n"), 0644)

	var out bytes.Buffer
	if err := RunSetupWithPrompter(&mockPrompter{confirms: []bool{false}}, path, &out); err != nil {
		t.Fatalf("RunSetupWithPrompter() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "audio:\n  prefix: keep\n" {
		t.Errorf("config was overwritten: %q", data)
	}
}

func TestRunSetup_Errors(t *testing.T) {
	tests := []struct {
		name     string
		prompter *mockPrompter
	}{
		{"cancelled", &mockPrompter{fail: true}},
		{"bad upload limit", &mockPrompter{inputs: []string{"", "", "", "", "", "lots"}, selects: []string{"mp3"}}},
		{"missing folder", &mockPrompter{inputs: []string{"", "", "", "", "", "0", "", "", ""}, confirms: []bool{true}, selects: []string{"mp3"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := RunSetupWithPrompter(tt.prompter, path, &bytes.Buffer{}); err == nil {
				t.Error("expected error")
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("config should not be written")
			}
		})
	}
}
