package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output audio format, named by its file extension without the dot
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatWAV  Format = "wav"
	FormatAAC  Format = "aac"
	FormatOGG  Format = "ogg"
)

// DefaultFormat is used when no output format is requested
const DefaultFormat = FormatMP3

// SupportedVideoExtensions lists the accepted input container extensions
var SupportedVideoExtensions = []string{
	".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v",
}

// SupportedFormats lists the accepted output formats in display order
var SupportedFormats = []Format{FormatMP3, FormatFLAC, FormatWAV, FormatAAC, FormatOGG}

var mimeTypes = map[Format]string{
	FormatMP3:  "audio/mpeg",
	FormatFLAC: "audio/flac",
	FormatWAV:  "audio/wav",
	FormatAAC:  "audio/aac",
	FormatOGG:  "audio/ogg",
}

// ParseFormat accepts "mp3", ".MP3" and similar spellings
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if _, ok := mimeTypes[f]; !ok {
		return "", fmt.Errorf("%w: audio format %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Extension returns the format's file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// MimeType returns the media type used when serving a file of this format
func (f Format) MimeType() string {
	if mt, ok := mimeTypes[f]; ok {
		return mt
	}
	return "application/octet-stream"
}

// Lossless reports whether the format preserves the decoded samples exactly
func (f Format) Lossless() bool {
	return f == FormatWAV || f == FormatFLAC
}

// IsRawPCM reports whether the format is uncompressed PCM, needing no re-encode
func (f Format) IsRawPCM() bool {
	return f == FormatWAV
}

func (f Format) String() string {
	return string(f)
}

// IsSupportedVideo checks only the extension of path against the video allow-list
func IsSupportedVideo(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedVideoExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// IsSupportedAudio checks only the extension of path against the audio allow-list
func IsSupportedAudio(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// FormatFromPath derives the output format from a file's extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", fmt.Errorf("%w: audio extension %s", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// ValidateInput checks that the input exists and carries a supported video extension
func ValidateInput(path string, checker FileChecker) error {
	if !checker.Exists(path) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if !IsSupportedVideo(path) {
		return fmt.Errorf("%w: video extension %s", ErrUnsupportedFormat, strings.ToLower(filepath.Ext(path)))
	}
	return nil
}

// ValidateOutput checks the output extension and returns the requested format
func ValidateOutput(path string) (Format, error) {
	return FormatFromPath(path)
}
