package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appdist "audio-extractor/application/distribution"
	"audio-extractor/domain/audio"
	"audio-extractor/domain/distribution"
	"audio-extractor/infrastructure/drive"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var uploadFolderID string

var uploadCmd = &cobra.Command{
	Use:   "upload [file]...",
	Short: "Publish audio files or archives to Google Drive",
	Long: `Upload extracted audio files or bundle archives to Google Drive and set
"anyone with the link" sharing. A file with the same name in the folder is
replaced.

With no arguments, the most recently modified audio file or archive in the
configured scratch directory is uploaded.

Example:
  audio-extractor upload talk.mp3 extracted_audio_mp3.zip
  audio-extractor upload --folder 1AbCdEf`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadFolderID, "folder", "", "Google Drive folder ID (default from config)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		dir := cfg.Paths.ScratchDirectory
		if dir == "" {
			dir = os.TempDir()
		}
		latest, err := findLatestFile(dir, isPublishable)
		if err != nil {
			return fmt.Errorf("no file specified and could not find latest: %w", err)
		}
		paths = []string{latest}
	}

	folderID := uploadFolderID
	if folderID == "" {
		folderID = cfg.Google.FolderID
	}

	if cfg.Google.CredentialsFile == "" {
		return fmt.Errorf("google.credentials_file is not configured; run 'audio-extractor setup' first")
	}

	ctx := cmd.Context()
	client, err := drive.NewClientWithOAuth(ctx, drive.OAuthConfig{
		CredentialsFile: cfg.Google.CredentialsFile,
		TokenFile:       cfg.Google.TokenFile,
		Output:          DefaultOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return RunUploadWithDependencies(ctx, client, folderID, paths, DefaultOutput)
}

func isPublishable(name string) bool {
	return audio.IsSupportedAudio(name) || strings.EqualFold(filepath.Ext(name), ".zip")
}

// findLatestFile finds the most recently modified file in dir accepted by match
func findLatestFile(dir string, match func(name string) bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}

	var latestPath string
	var latestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestPath = filepath.Join(dir, entry.Name())
		}
	}

	if latestPath == "" {
		return "", fmt.Errorf("no audio files or archives found in %s", dir)
	}

	return latestPath, nil
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	folderID string,
	paths []string,
	output OutputWriter,
) error {
	service := appdist.NewUploadService(driveClient, folderID, output)

	results, err := service.PublishAll(ctx, paths)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintln(output)
	for _, result := range results {
		fmt.Fprintf(output, "%s\n", result.FileName)
		fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
		fmt.Fprintf(output, "  Size: %s\n", humanize.Bytes(uint64(result.Size)))
		fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	}

	fmt.Fprintf(output, "Upload complete!\n")
	return nil
}
