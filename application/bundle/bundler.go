package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"audio-extractor/domain/audio"
)

// MimeType is the media type of a bundle
const MimeType = "application/zip"

// ArchiveName returns the download name for a bundle of the given format
func ArchiveName(format audio.Format) string {
	return fmt.Sprintf("extracted_audio_%s.zip", format)
}

// Bundle packs the files into an in-memory zip archive, each under its base
// name. Paths that no longer exist are skipped.
func Bundle(paths []string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Write(&buf, paths); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the archive to w and returns the base names that were included.
// Only the first file with a given base name is added.
func Write(w io.Writer, paths []string) ([]string, error) {
	zw := zip.NewWriter(w)
	var included []string
	seen := make(map[string]bool, len(paths))

	for _, path := range paths {
		if seen[filepath.Base(path)] {
			continue
		}
		added, err := addFile(zw, path)
		if err != nil {
			zw.Close()
			return included, err
		}
		if added {
			seen[filepath.Base(path)] = true
			included = append(included, filepath.Base(path))
		}
	}

	if err := zw.Close(); err != nil {
		return included, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return included, nil
}

func addFile(zw *zip.Writer, path string) (bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, nil
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return false, fmt.Errorf("failed to build header for %s: %w", path, err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return false, fmt.Errorf("failed to add %s: %w", path, err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return false, fmt.Errorf("failed to add %s: %w", path, err)
	}
	return true, nil
}
