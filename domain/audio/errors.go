package audio

import "errors"

var (
	// ErrNotFound is returned when an input file does not exist
	ErrNotFound = errors.New("input file not found")

	// ErrUnsupportedFormat is returned when a file extension is outside the allow-lists
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExternalTool is returned when ffmpeg exits non-zero or cannot be started
	ErrExternalTool = errors.New("external tool failed")

	// ErrDecodeEncode is returned when the fallback decode/encode path fails
	ErrDecodeEncode = errors.New("decode/encode failed")
)
