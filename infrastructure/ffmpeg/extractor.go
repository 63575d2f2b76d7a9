package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"audio-extractor/domain/audio"

	"github.com/sirupsen/logrus"
)

// Extractor implements audio.Strategy by invoking ffmpeg with a per-format profile
type Extractor struct {
	ffmpegPath string
	runner     CommandRunner
	logger     logrus.FieldLogger
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithExtractorFFmpegPath sets a custom ffmpeg executable path
func WithExtractorFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithExtractorCommandRunner sets a custom command runner (for testing)
func WithExtractorCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// WithExtractorLogger sets the operational logger
func WithExtractorLogger(logger logrus.FieldLogger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates a new FFmpeg-based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		logger:     logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Name implements audio.Strategy
func (e *Extractor) Name() string {
	return "ffmpeg"
}

// CodecArgs returns the encoder arguments for a format.
// Formats without a dedicated profile copy the source audio stream.
func CodecArgs(format audio.Format) []string {
	switch format {
	case audio.FormatMP3:
		return []string{
			"-acodec", "libmp3lame",
			"-ab", "320k", // Audio bitrate
			"-ar", "44100", // Sample rate
			"-ac", "2", // Stereo
		}
	case audio.FormatFLAC:
		return []string{"-acodec", "flac", "-compression_level", "8"}
	case audio.FormatWAV:
		return []string{"-acodec", "pcm_s16le"}
	default:
		return []string{"-acodec", "copy"}
	}
}

// Args builds the full ffmpeg argument list for a job
func Args(job *audio.Job) []string {
	args := []string{
		"-i", job.InputPath,
		"-vn", // No video
	}
	args = append(args, CodecArgs(job.Format)...)
	return append(args,
		"-y", // Overwrite output file if it exists
		job.OutputPath,
	)
}

// Attempt implements audio.Strategy
func (e *Extractor) Attempt(ctx context.Context, job *audio.Job, transcript *audio.Transcript) error {
	args := Args(job)
	transcript.Addf("ffmpeg command: %s", commandLine(e.ffmpegPath, args))

	log := e.logger.WithFields(logrus.Fields{
		"input":  job.InputPath,
		"output": job.OutputPath,
		"format": job.Format,
	})
	log.Debug("running ffmpeg")

	output, err := e.runner.CombinedOutput(ctx, e.ffmpegPath, args...)
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		transcript.Addf("ffmpeg error: %s", detail)
		log.WithError(err).Warn("ffmpeg extraction failed")
		return fmt.Errorf("%w: ffmpeg audio extraction: %v", audio.ErrExternalTool, err)
	}

	transcript.Addf("audio extracted: %s", job.OutputPath)
	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Extractor implements audio.Strategy
var _ audio.Strategy = (*Extractor)(nil)
