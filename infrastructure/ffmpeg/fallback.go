package ffmpeg

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"audio-extractor/domain/audio"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
)

const (
	defaultSampleRate = 44100
	defaultChannels   = 2
	pcmBitDepth       = 16
	wavFormatPCM      = 1
	framesPerChunk    = 4096
)

// FallbackExtractor implements audio.Strategy by decoding the video to PCM,
// writing a lossless WAV intermediate and re-encoding that to the target format.
type FallbackExtractor struct {
	ffmpegPath string
	runner     CommandRunner
	inspector  audio.Inspector
	converter  *Converter
	logger     logrus.FieldLogger
}

// FallbackOption is a functional option for configuring FallbackExtractor
type FallbackOption func(*FallbackExtractor)

// WithFallbackFFmpegPath sets a custom ffmpeg executable path
func WithFallbackFFmpegPath(path string) FallbackOption {
	return func(f *FallbackExtractor) {
		if path != "" {
			f.ffmpegPath = path
		}
	}
}

// WithFallbackCommandRunner sets a custom command runner (for testing)
func WithFallbackCommandRunner(runner CommandRunner) FallbackOption {
	return func(f *FallbackExtractor) {
		f.runner = runner
	}
}

// WithFallbackInspector lets the decoder keep the source's sample rate and channel count
func WithFallbackInspector(inspector audio.Inspector) FallbackOption {
	return func(f *FallbackExtractor) {
		f.inspector = inspector
	}
}

// WithFallbackLogger sets the operational logger
func WithFallbackLogger(logger logrus.FieldLogger) FallbackOption {
	return func(f *FallbackExtractor) {
		f.logger = logger
	}
}

// NewFallbackExtractor creates the library-based fallback strategy
func NewFallbackExtractor(opts ...FallbackOption) *FallbackExtractor {
	f := &FallbackExtractor{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		logger:     logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(f)
	}

	f.converter = NewConverter(f.ffmpegPath, f.runner)
	return f
}

// Name implements audio.Strategy
func (f *FallbackExtractor) Name() string {
	return "pcm-fallback"
}

// Attempt implements audio.Strategy. Every failure, including a panic in the
// decode/encode path, is reported as audio.ErrDecodeEncode.
func (f *FallbackExtractor) Attempt(ctx context.Context, job *audio.Job, transcript *audio.Transcript) (err error) {
	transcript.Add("extracting with PCM decoder...")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", audio.ErrDecodeEncode, r)
		}
		if err != nil {
			transcript.Addf("fallback extraction error: %v", err)
			f.logger.WithError(err).WithField("input", job.InputPath).Warn("fallback extraction failed")
		}
	}()

	if err := f.extract(ctx, job); err != nil {
		return fmt.Errorf("%w: %v", audio.ErrDecodeEncode, err)
	}

	transcript.Addf("fallback extraction complete: %s", job.OutputPath)
	return nil
}

func (f *FallbackExtractor) extract(ctx context.Context, job *audio.Job) error {
	sampleRate, channels := f.layout(ctx, job.InputPath)

	intermediate := job.IntermediatePath()
	// Gone already after a successful rename; the error is irrelevant then.
	defer os.Remove(intermediate)

	if err := f.decodeToWAV(ctx, job.InputPath, intermediate, sampleRate, channels); err != nil {
		return err
	}

	if job.Format.IsRawPCM() {
		if err := os.Rename(intermediate, job.OutputPath); err != nil {
			return fmt.Errorf("move intermediate into place: %w", err)
		}
		return nil
	}

	return f.converter.Convert(ctx, intermediate, job.OutputPath, job.Format)
}

// layout picks the PCM sample rate and channel count for decoding
func (f *FallbackExtractor) layout(ctx context.Context, path string) (int, int) {
	sampleRate, channels := defaultSampleRate, defaultChannels
	if f.inspector == nil {
		return sampleRate, channels
	}
	if info := f.inspector.Probe(ctx, path); info != nil {
		if info.SampleRate > 0 {
			sampleRate = info.SampleRate
		}
		if info.Channels > 0 {
			channels = info.Channels
		}
	}
	return sampleRate, channels
}

// DecodeArgs returns the ffmpeg arguments that write raw s16le PCM to stdout
func DecodeArgs(inputPath string, sampleRate, channels int) []string {
	return []string{
		"-v", "error",
		"-i", inputPath,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-",
	}
}

func (f *FallbackExtractor) decodeToWAV(ctx context.Context, inputPath, wavPath string, sampleRate, channels int) (err error) {
	stream, err := f.runner.Stream(ctx, f.ffmpegPath, DecodeArgs(inputPath, sampleRate, channels)...)
	if err != nil {
		return fmt.Errorf("open decoder: %w", err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("decoder: %w", cerr)
		}
	}()

	out, err := os.Create(wavPath)
	if err != nil {
		return fmt.Errorf("create intermediate: %w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, sampleRate, pcmBitDepth, channels, wavFormatPCM)
	frames, err := copyPCM(enc, stream, sampleRate, channels)
	if err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize intermediate: %w", err)
	}
	if frames == 0 {
		return errors.New("no audio samples decoded")
	}
	return nil
}

// copyPCM reads interleaved little-endian int16 samples from r and writes them
// to enc, returning the number of sample frames written.
func copyPCM(enc *wav.Encoder, r io.Reader, sampleRate, channels int) (int, error) {
	frameBytes := channels * 2
	raw := make([]byte, framesPerChunk*frameBytes)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: pcmBitDepth,
		Data:           make([]int, 0, framesPerChunk*channels),
	}

	total := 0
	for {
		n, readErr := io.ReadFull(r, raw)
		n -= n % frameBytes
		if n > 0 {
			buf.Data = buf.Data[:0]
			for i := 0; i < n; i += 2 {
				buf.Data = append(buf.Data, int(int16(binary.LittleEndian.Uint16(raw[i:]))))
			}
			if err := enc.Write(buf); err != nil {
				return total, fmt.Errorf("write intermediate: %w", err)
			}
			total += n / frameBytes
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			return total, nil
		}
		if readErr != nil {
			return total, fmt.Errorf("read decoder output: %w", readErr)
		}
	}
}

// Ensure FallbackExtractor implements audio.Strategy
var _ audio.Strategy = (*FallbackExtractor)(nil)
