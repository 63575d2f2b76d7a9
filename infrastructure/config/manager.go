package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Entry is one settable configuration value
type Entry struct {
	Key   string
	Value string
}

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(ptr func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

var fields = map[string]field{
	"paths.scratch_directory": stringField(func(c *Config) *string { return &c.Paths.ScratchDirectory }),
	"tools.ffmpeg":            stringField(func(c *Config) *string { return &c.Tools.FFmpeg }),
	"tools.ffprobe":           stringField(func(c *Config) *string { return &c.Tools.FFprobe }),
	"audio.prefix":            stringField(func(c *Config) *string { return &c.Audio.Prefix }),
	"server.address":          stringField(func(c *Config) *string { return &c.Server.Address }),
	"google.credentials_file": stringField(func(c *Config) *string { return &c.Google.CredentialsFile }),
	"google.token_file":       stringField(func(c *Config) *string { return &c.Google.TokenFile }),
	"google.folder_id":        stringField(func(c *Config) *string { return &c.Google.FolderID }),
	"audio.default_format": {
		get: func(c *Config) string { return c.Audio.DefaultFormat },
		set: func(c *Config, v string) error {
			v = strings.TrimPrefix(strings.ToLower(v), ".")
			switch v {
			case "mp3", "flac", "wav", "aac", "ogg":
				c.Audio.DefaultFormat = v
				return nil
			}
			return fmt.Errorf("%w: audio format %q", ErrInvalidValue, v)
		},
	},
	"server.session_ttl": {
		get: func(c *Config) string { return c.Server.SessionTTL },
		set: func(c *Config, v string) error {
			if d, err := time.ParseDuration(v); err != nil || d <= 0 {
				return fmt.Errorf("%w: duration %q", ErrInvalidValue, v)
			}
			c.Server.SessionTTL = v
			return nil
		},
	},
	"server.max_upload_mb": {
		get: func(c *Config) string { return strconv.FormatInt(c.Server.MaxUploadMB, 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: size %q", ErrInvalidValue, v)
			}
			c.Server.MaxUploadMB = n
			return nil
		},
	},
	"server.extracts_per_minute": {
		get: func(c *Config) string { return strconv.Itoa(c.Server.ExtractsPerMinute) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: rate %q", ErrInvalidValue, v)
			}
			c.Server.ExtractsPerMinute = n
			return nil
		},
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error {
			switch strings.ToLower(v) {
			case "trace", "debug", "info", "warn", "warning", "error":
				c.Logging.Level = strings.ToLower(v)
				return nil
			}
			return fmt.Errorf("%w: log level %q", ErrInvalidValue, v)
		},
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: func(c *Config, v string) error {
			switch strings.ToLower(v) {
			case "text", "json":
				c.Logging.Format = strings.ToLower(v)
				return nil
			}
			return fmt.Errorf("%w: log format %q", ErrInvalidValue, v)
		},
	},
}

// ConfigManager reads and updates individual config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Get returns the value for a dotted key such as "audio.default_format"
func (m *ConfigManager) Get(key string) (string, error) {
	f, ok := fields[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f.get(m.config), nil
}

// Set validates and stores a value, then saves the config file
func (m *ConfigManager) Set(key, value string) error {
	f, ok := fields[normalizeKey(key)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := f.set(m.config, strings.TrimSpace(value)); err != nil {
		return err
	}
	return Save(m.config, m.configPath)
}

// List returns every entry sorted by key
func (m *ConfigManager) List() []Entry {
	entries := make([]Entry, 0, len(fields))
	for key, f := range fields {
		entries = append(entries, Entry{Key: key, Value: f.get(m.config)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Keys returns every settable key, sorted
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
