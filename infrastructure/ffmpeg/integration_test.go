//go:build integration

package ffmpeg_test

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/ffmpeg"
	"audio-extractor/infrastructure/ffprobe"

	"github.com/sirupsen/logrus"
)

// Run with: go test -tags=integration -v ./infrastructure/ffmpeg/...

func requireTools(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not found in PATH - skipping real extraction test", tool)
		}
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// makeClip renders a two second video with a stereo 44.1 kHz sine track
func makeClip(t *testing.T, ctx context.Context, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "clip.mp4")
	out, err := (&ffmpeg.ExecCommandRunner{}).CombinedOutput(ctx, "ffmpeg",
		"-f", "lavfi", "-i", "color=c=black:s=64x64:d=2",
		"-f", "lavfi", "-i", "sine=frequency=440:sample_rate=44100:duration=2",
		"-ac", "2", "-c:v", "mpeg4", "-c:a", "aac",
		"-shortest", "-y", path,
	)
	if err != nil {
		t.Fatalf("failed to render test clip: %v\n%s", err, out)
	}
	return path
}

func TestRealExtraction(t *testing.T) {
	requireTools(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dir := t.TempDir()
	clip := makeClip(t, ctx, dir)
	logger := quietLogger()
	inspector := ffprobe.NewInspector(&ffmpeg.ExecCommandRunner{}, ffprobe.WithLogger(logger))

	source := inspector.Probe(ctx, clip)
	if source == nil || source.Channels != 2 || source.SampleRate != 44100 {
		t.Fatalf("test clip probe = %+v, want stereo 44100 Hz", source)
	}

	strategies := []audio.Strategy{
		ffmpeg.NewExtractor(ffmpeg.WithExtractorLogger(logger)),
		ffmpeg.NewFallbackExtractor(
			ffmpeg.WithFallbackInspector(inspector),
			ffmpeg.WithFallbackLogger(logger),
		),
	}

	tests := []struct {
		format    audio.Format
		codecPref string
	}{
		{audio.FormatMP3, "mp3"},
		{audio.FormatFLAC, "flac"},
		{audio.FormatWAV, "pcm_s16le"},
	}

	for _, strategy := range strategies {
		for _, tt := range tests {
			t.Run(strategy.Name()+"/"+string(tt.format), func(t *testing.T) {
				output := filepath.Join(dir, strategy.Name(), "clip"+tt.format.Extension())
				job, err := audio.NewJob(clip, output)
				if err != nil {
					t.Fatalf("NewJob() error = %v", err)
				}
				if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
					t.Fatal(err)
				}

				transcript := audio.NewTranscript()
				if err := strategy.Attempt(ctx, job, transcript); err != nil {
					t.Fatalf("Attempt() error = %v\n%s", err, transcript)
				}

				info := inspector.Probe(ctx, output)
				if info == nil {
					t.Fatalf("no audio stream found in %s", output)
				}
				if !strings.HasPrefix(info.Codec, tt.codecPref) {
					t.Errorf("codec = %q, want %s family", info.Codec, tt.codecPref)
				}
				if info.Channels != 2 {
					t.Errorf("channels = %d, want 2", info.Channels)
				}
				if info.SampleRate != 44100 {
					t.Errorf("sample rate = %d, want 44100", info.SampleRate)
				}
				if tt.format == audio.FormatWAV && info.Duration < 1.5 {
					t.Errorf("duration = %.2f s, want about 2 s", info.Duration)
				}

				if _, err := os.Stat(job.IntermediatePath()); !os.IsNotExist(err) {
					t.Errorf("intermediate %s was left behind", job.IntermediatePath())
				}
			})
		}
	}
}
