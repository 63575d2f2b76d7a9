package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Tools   ToolsConfig   `yaml:"tools"`
	Audio   AudioConfig   `yaml:"audio"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Google  GoogleConfig  `yaml:"google"`
}

// PathsConfig contains directory paths for media processing
type PathsConfig struct {
	// ScratchDirectory holds staged uploads and extracted audio; empty means the OS temp dir
	ScratchDirectory string `yaml:"scratch_directory"`
}

// ToolsConfig contains external binary locations
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// AudioConfig contains audio extraction settings
type AudioConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Prefix        string `yaml:"prefix"`
}

// ServerConfig contains web server settings.
// Zero MaxUploadMB or ExtractsPerMinute means no limit.
type ServerConfig struct {
	Address           string `yaml:"address"`
	SessionTTL        string `yaml:"session_ttl"`
	MaxUploadMB       int64  `yaml:"max_upload_mb"`
	ExtractsPerMinute int    `yaml:"extracts_per_minute"`
}

// LoggingConfig contains operational log settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// GoogleConfig contains Google API settings
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderID        string `yaml:"folder_id"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with their defaults
func (c *Config) ApplyDefaults() {
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = "ffmpeg"
	}
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = "ffprobe"
	}
	if c.Audio.DefaultFormat == "" {
		c.Audio.DefaultFormat = "mp3"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.SessionTTL == "" {
		c.Server.SessionTTL = "1h"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// SessionTTL returns the parsed session lifetime, falling back to one hour
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads path, or returns defaults when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
