package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"audio-extractor/domain/audio"

	"github.com/sirupsen/logrus"
	"github.com/tcolgate/mp3"
)

// Runner runs a command to completion and returns its stdout
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// FirstAudioStream returns the first stream whose codec_type is audio
func (r Result) FirstAudioStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return stream, true
		}
	}
	return Stream{}, false
}

// Info converts a stream into audio.Info; unparseable numbers become 0
func (s Stream) Info() *audio.Info {
	return &audio.Info{
		Codec:      s.CodecName,
		SampleRate: int(parseInt(s.SampleRate)),
		Channels:   s.Channels,
		BitRate:    parseInt(s.BitRate),
		Duration:   parseFloat(s.Duration),
	}
}

// Inspector implements audio.Inspector using ffprobe
type Inspector struct {
	ffprobePath string
	runner      Runner
	logger      logrus.FieldLogger
}

// Option is a functional option for configuring Inspector
type Option func(*Inspector)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) Option {
	return func(i *Inspector) {
		if path != "" {
			i.ffprobePath = path
		}
	}
}

// WithRunner sets a custom command runner (for testing)
func WithRunner(runner Runner) Option {
	return func(i *Inspector) {
		i.runner = runner
	}
}

// WithLogger sets the operational logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// NewInspector creates an ffprobe-backed inspector. A runner is required.
func NewInspector(runner Runner, opts ...Option) *Inspector {
	i := &Inspector{
		ffprobePath: "ffprobe",
		runner:      runner,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func (i *Inspector) Inspect(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	output, err := i.runner.Output(ctx, i.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Probe implements audio.Inspector
func (i *Inspector) Probe(ctx context.Context, path string) *audio.Info {
	log := i.logger.WithField("path", path)

	result, err := i.Inspect(ctx, path)
	if err != nil {
		log.WithError(err).Debug("ffprobe unavailable")
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			info, scanErr := ScanMP3(path)
			if scanErr != nil {
				log.WithError(scanErr).Debug("mp3 frame scan failed")
				return nil
			}
			return info
		}
		return nil
	}

	stream, ok := result.FirstAudioStream()
	if !ok {
		log.Debug("no audio stream")
		return nil
	}
	return stream.Info()
}

// ScanMP3 walks the MPEG frames of an mp3 file, summing their durations.
// Channel count and sample rate are left unknown.
func ScanMP3(path string) (*audio.Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := mp3.NewDecoder(f)
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
		frames  int
	)
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		total += frame.Duration()
		frames++
	}
	if frames == 0 {
		return nil, errors.New("no mp3 frames found")
	}

	info := &audio.Info{Codec: "mp3", Duration: total.Seconds()}
	if st, err := f.Stat(); err == nil && total > 0 {
		info.BitRate = int64(float64(st.Size()*8) / total.Seconds())
	}
	return info, nil
}

func parseInt(value string) int64 {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

// Ensure Inspector implements audio.Inspector
var _ audio.Inspector = (*Inspector)(nil)
