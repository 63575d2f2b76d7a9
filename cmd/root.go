package cmd

import (
	"fmt"
	"os"

	"audio-extractor/infrastructure/config"
	"audio-extractor/infrastructure/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	cfgErr   error
)

var rootCmd = &cobra.Command{
	Use:   "audio-extractor",
	Short: "Extract audio tracks from video files",
	Long: `audio-extractor pulls the audio track out of video files with ffmpeg,
falling back to a PCM decode path when the direct extraction fails.

  - Serve a small upload form over HTTP
  - Extract a batch of local files from the command line
  - Inspect media with ffprobe
  - Bundle results into a zip archive
  - Publish results to Google Drive with sharing

Example:
  audio-extractor extract --format flac talk.mp4 interview.mkv
  audio-extractor serve`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing file means defaults; a malformed one is reported by commands that need it
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("configuration could not be loaded from %s: %w", cfgFile, cfgErr)
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// newLogger builds the operational logger from config and the --log-level flag
func newLogger(c *config.Config) (*logrus.Logger, error) {
	level := c.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(logging.Options{
		Level:  level,
		Format: c.Logging.Format,
	})
}
