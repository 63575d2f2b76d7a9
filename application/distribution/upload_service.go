package distribution

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"audio-extractor/domain/distribution"

	"github.com/dustin/go-humanize"
)

// UploadService publishes extracted audio and bundle archives to Google Drive
type UploadService struct {
	driveClient distribution.DriveClient
	folderID    string
	output      io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, folderID string, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		driveClient: client,
		folderID:    folderID,
		output:      output,
	}
}

// Publish uploads one file, replacing a same-named file in the folder, and shares it
func (s *UploadService) Publish(ctx context.Context, filePath string) (*distribution.UploadResult, error) {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	mimeType, err := distribution.MimeTypeFor(filePath)
	if err != nil {
		return nil, err
	}

	storage, err := s.driveClient.GetStorageQuota(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check storage: %w", err)
	}
	if !storage.HasSpaceFor(info.Size()) {
		return nil, fmt.Errorf("not enough Drive storage for %s: need %s, %s available",
			filepath.Base(filePath), humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(storage.AvailableBytes)))
	}

	fileName := filepath.Base(filePath)

	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%s)\n", existing.Name, humanize.Bytes(uint64(existing.Size)))
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := distribution.UploadRequest{
		LocalPath: filePath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  mimeType,
	}

	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", fileName, err)
	}

	return result, nil
}

// PublishAll uploads each file in order and stops at the first failure
func (s *UploadService) PublishAll(ctx context.Context, paths []string) ([]*distribution.UploadResult, error) {
	results := make([]*distribution.UploadResult, 0, len(paths))
	for i, path := range paths {
		fmt.Fprintf(s.output, "[%d/%d] Uploading %s...\n", i+1, len(paths), filepath.Base(path))
		result, err := s.Publish(ctx, path)
		if err != nil {
			return results, err
		}
		fmt.Fprintf(s.output, "      %s\n", result.ShareableURL)
		results = append(results, result)
	}
	return results, nil
}
