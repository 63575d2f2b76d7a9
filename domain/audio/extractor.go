package audio

import "context"

// Strategy is one way of producing an audio file from a video.
// Strategies are tried in order until one succeeds.
type Strategy interface {
	// Name identifies the strategy in logs and the transcript
	Name() string

	// Attempt extracts job.InputPath into job.OutputPath. A non-nil error is a
	// recoverable signal that the next strategy should be tried.
	Attempt(ctx context.Context, job *Job, transcript *Transcript) error
}

// Inspector probes a file for audio stream metadata.
// Probe returns nil when the file cannot be probed or has no audio stream.
type Inspector interface {
	Probe(ctx context.Context, path string) *Info
}

// FileChecker abstracts the filesystem checks made around extraction
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool

	// Size returns the file size in bytes, or 0 when it cannot be read
	Size(path string) int64
}

// ProgressReporter is advanced once per processed item
type ProgressReporter interface {
	Start(total int)
	Advance(done, total int, name string)
	Finish(succeeded, total int)
}
