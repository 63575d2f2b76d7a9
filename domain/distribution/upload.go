package distribution

import (
	"fmt"
	"path/filepath"
	"strings"

	"audio-extractor/domain/audio"
)

// UploadRequest contains the parameters needed to upload a file to Google Drive
type UploadRequest struct {
	LocalPath string // Full path to the local file
	FileName  string // Target filename in Google Drive
	FolderID  string // Target folder ID in Google Drive
	MimeType  string // MIME type of the file
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	FileID       string // Google Drive file ID
	FileName     string // Name of the uploaded file
	ShareableURL string // URL for sharing the file
	Size         int64  // Size of the uploaded file in bytes
}

// MimeTypeZip is used for bundle archives
const MimeTypeZip = "application/zip"

// MimeTypeFor returns the upload MIME type for an extracted audio file or a bundle archive
func MimeTypeFor(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return MimeTypeZip, nil
	}
	format, err := audio.FormatFromPath(path)
	if err != nil {
		return "", fmt.Errorf("cannot publish %s: %w", filepath.Base(path), err)
	}
	return format.MimeType(), nil
}
