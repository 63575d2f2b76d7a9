package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up tool paths, extraction defaults,
the web server and the optional Google Drive settings.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path, DefaultOutput)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to audio-extractor setup!")
	fmt.Fprintln(output)

	cfg := config.Default()

	steps := []func(Prompter, *config.Config) error{
		promptPaths,
		promptAudio,
		promptServer,
		promptGoogle,
	}
	for _, step := range steps {
		if err := step(prompter, cfg); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	scratch, err := prompter.Input("Scratch directory for uploads and extracted audio? (empty for system temp)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Paths.ScratchDirectory = scratch

	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.Tools.FFmpeg)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.Tools.FFmpeg = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to ffprobe?", cfg.Tools.FFprobe)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffprobePath != "" {
		cfg.Tools.FFprobe = ffprobePath
	}

	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	options := make([]string, len(audio.SupportedFormats))
	for i, f := range audio.SupportedFormats {
		options[i] = f.String()
	}

	format, err := prompter.Select("Default output format?", options, cfg.Audio.DefaultFormat)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if _, err := audio.ParseFormat(format); err != nil {
		return err
	}
	cfg.Audio.DefaultFormat = format

	prefix, err := prompter.Input("Prefix for output file names? (optional)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Audio.Prefix = prefix
	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	address, err := prompter.Input("Web server listen address?", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if address != "" {
		cfg.Server.Address = address
	}

	limit, err := prompter.Input("Maximum upload size in MB? (0 for no limit)", "0")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if limit != "" {
		mb, err := strconv.ParseInt(limit, 10, 64)
		if err != nil || mb < 0 {
			return fmt.Errorf("upload limit must be a non-negative number of megabytes")
		}
		cfg.Server.MaxUploadMB = mb
	}
	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	useDrive, err := prompter.Confirm("Publish results to Google Drive?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !useDrive {
		return nil
	}

	credentials, err := prompter.Input("Path to Google OAuth credentials file?", "credentials.json")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials == "" {
		credentials = "credentials.json"
	}
	cfg.Google.CredentialsFile = credentials

	token, err := prompter.Input("Where should the OAuth token be cached?", "config/token.json")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if token == "" {
		token = "config/token.json"
	}
	cfg.Google.TokenFile = token

	folder, err := prompter.Input("Google Drive folder ID?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if folder == "" {
		return fmt.Errorf("folder ID is required")
	}
	cfg.Google.FolderID = folder

	return nil
}
