package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"audio-extractor/domain/audio"

	"github.com/sirupsen/logrus"
)

// mockRunner records commands and returns canned results
type mockRunner struct {
	calls        [][]string
	output       []byte
	err          error
	streamData   []byte
	streamErr    error
	streamClose  error
	onCombined   func(args []string) error
	streamClosed bool
}

func (m *mockRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.onCombined != nil {
		if err := m.onCombined(args); err != nil {
			return m.output, err
		}
	}
	return m.output, m.err
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	return m.output, m.err
}

func (m *mockRunner) Stream(ctx context.Context, name string, args ...string) (io.ReadCloser, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return &mockStream{Reader: bytes.NewReader(m.streamData), runner: m}, nil
}

type mockStream struct {
	*bytes.Reader
	runner *mockRunner
}

func (s *mockStream) Close() error {
	s.runner.streamClosed = true
	return s.runner.streamClose
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestCodecArgs(t *testing.T) {
	tests := []struct {
		format audio.Format
		want   string
	}{
		{format: audio.FormatMP3, want: "-acodec libmp3lame -ab 320k -ar 44100 -ac 2"},
		{format: audio.FormatFLAC, want: "-acodec flac -compression_level 8"},
		{format: audio.FormatWAV, want: "-acodec pcm_s16le"},
		{format: audio.FormatAAC, want: "-acodec copy"},
		{format: audio.FormatOGG, want: "-acodec copy"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := strings.Join(CodecArgs(tt.format), " "); got != tt.want {
				t.Errorf("CodecArgs(%s) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestArgs(t *testing.T) {
	job := &audio.Job{InputPath: "/scratch/in.mp4", OutputPath: "/scratch/in.wav", Format: audio.FormatWAV}
	want := "-i /scratch/in.mp4 -vn -acodec pcm_s16le -y /scratch/in.wav"
	if got := strings.Join(Args(job), " "); got != want {
		t.Errorf("Args() = %q, want %q", got, want)
	}
}

func TestExtractor_Attempt(t *testing.T) {
	runner := &mockRunner{}
	e := NewExtractor(
		WithExtractorCommandRunner(runner),
		WithExtractorFFmpegPath("/opt/ffmpeg"),
		WithExtractorLogger(quietLogger()),
	)
	job := &audio.Job{InputPath: "/scratch/a.mkv", OutputPath: "/scratch/a.mp3", Format: audio.FormatMP3}
	transcript := audio.NewTranscript()

	if err := e.Attempt(context.Background(), job, transcript); err != nil {
		t.Fatalf("Attempt() unexpected error: %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	if runner.calls[0][0] != "/opt/ffmpeg" {
		t.Errorf("binary = %q, want /opt/ffmpeg", runner.calls[0][0])
	}
	if !strings.Contains(transcript.String(), "ffmpeg command: /opt/ffmpeg -i /scratch/a.mkv -vn -acodec libmp3lame") {
		t.Errorf("transcript missing command line:\n%s", transcript)
	}
	if !strings.Contains(transcript.String(), "audio extracted: /scratch/a.mp3") {
		t.Errorf("transcript missing completion line:\n%s", transcript)
	}
}

func TestExtractor_AttemptFailure(t *testing.T) {
	runner := &mockRunner{
		output: []byte("Invalid data found when processing input\n"),
		err:    errors.New("exit status 1"),
	}
	e := NewExtractor(WithExtractorCommandRunner(runner), WithExtractorLogger(quietLogger()))
	job := &audio.Job{InputPath: "/scratch/bad.mp4", OutputPath: "/scratch/bad.ogg", Format: audio.FormatOGG}
	transcript := audio.NewTranscript()

	err := e.Attempt(context.Background(), job, transcript)
	if !errors.Is(err, audio.ErrExternalTool) {
		t.Fatalf("Attempt() error = %v, want ErrExternalTool", err)
	}
	if !strings.Contains(transcript.String(), "ffmpeg error: Invalid data found when processing input") {
		t.Errorf("transcript missing ffmpeg output:\n%s", transcript)
	}
}

func TestExtractor_VerifyInstalled(t *testing.T) {
	runner := &mockRunner{}
	e := NewExtractor(WithExtractorCommandRunner(runner))
	if err := e.VerifyInstalled(context.Background()); err != nil {
		t.Errorf("VerifyInstalled() unexpected error: %v", err)
	}
	if got := strings.Join(runner.calls[0], " "); got != "ffmpeg -version" {
		t.Errorf("command = %q, want %q", got, "ffmpeg -version")
	}

	runner.err = errors.New("executable file not found")
	if err := e.VerifyInstalled(context.Background()); err == nil {
		t.Error("VerifyInstalled() expected error when runner fails")
	}
}

func TestConvertArgs(t *testing.T) {
	tests := []struct {
		format audio.Format
		want   string
	}{
		{format: audio.FormatMP3, want: "-i t.wav -vn -f mp3 -acodec libmp3lame -b:a 320k -y o.mp3"},
		{format: audio.FormatFLAC, want: "-i t.wav -vn -f flac -acodec flac -y o.flac"},
		{format: audio.FormatAAC, want: "-i t.wav -vn -f adts -acodec aac -y o.aac"},
		{format: audio.FormatOGG, want: "-i t.wav -vn -f ogg -acodec libvorbis -y o.ogg"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := strings.Join(ConvertArgs("t.wav", "o"+tt.format.Extension(), tt.format), " ")
			if got != tt.want {
				t.Errorf("ConvertArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
