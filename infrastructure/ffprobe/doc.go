// Package ffprobe provides a typed wrapper around ffprobe JSON output and an
// audio.Inspector built on it.
//
// Primary entry points:
//   - Inspector.Inspect: executes ffprobe and returns the parsed Result
//   - Inspector.Probe: reduces a Result to the first audio stream's audio.Info
//
// Probe never fails loudly. When ffprobe cannot be run and the file is an MP3,
// its frames are scanned directly to recover duration and an average bitrate.
package ffprobe
