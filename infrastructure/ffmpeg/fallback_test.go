package ffmpeg

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audio-extractor/domain/audio"

	"github.com/go-audio/wav"
)

// mockInspector returns a fixed Info for every path
type mockInspector struct {
	info  *audio.Info
	calls int
}

func (m *mockInspector) Probe(ctx context.Context, path string) *audio.Info {
	m.calls++
	return m.info
}

// stereoPCM returns n frames of interleaved 16-bit stereo samples
func stereoPCM(n int) []byte {
	data := make([]byte, n*4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(data[i*4:], uint16(int16(i)))
		binary.LittleEndian.PutUint16(data[i*4+2:], uint16(int16(-i)))
	}
	return data
}

func TestFallbackExtractor_WAV(t *testing.T) {
	dir := t.TempDir()
	job := &audio.Job{
		InputPath:  filepath.Join(dir, "clip.mp4"),
		OutputPath: filepath.Join(dir, "clip.wav"),
		Format:     audio.FormatWAV,
	}
	runner := &mockRunner{streamData: stereoPCM(10000)}
	f := NewFallbackExtractor(WithFallbackCommandRunner(runner), WithFallbackLogger(quietLogger()))
	transcript := audio.NewTranscript()

	if err := f.Attempt(context.Background(), job, transcript); err != nil {
		t.Fatalf("Attempt() unexpected error: %v\n%s", err, transcript)
	}

	if !runner.streamClosed {
		t.Error("decoder stream was not closed")
	}
	if fileExists(job.IntermediatePath()) {
		t.Error("intermediate file should be removed")
	}

	out, err := os.Open(job.OutputPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer out.Close()

	dec := wav.NewDecoder(out)
	if !dec.IsValidFile() {
		t.Fatal("output is not a valid WAV file")
	}
	if dec.NumChans != 2 {
		t.Errorf("channels = %d, want 2", dec.NumChans)
	}
	if dec.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", dec.SampleRate)
	}
	if dec.BitDepth != 16 {
		t.Errorf("bit depth = %d, want 16", dec.BitDepth)
	}
}

func TestFallbackExtractor_ConvertsToMP3(t *testing.T) {
	dir := t.TempDir()
	job := &audio.Job{
		InputPath:  filepath.Join(dir, "clip.mov"),
		OutputPath: filepath.Join(dir, "clip.mp3"),
		Format:     audio.FormatMP3,
	}
	var convertArgs []string
	runner := &mockRunner{streamData: stereoPCM(2048)}
	runner.onCombined = func(args []string) error {
		convertArgs = args
		if !fileExists(job.IntermediatePath()) {
			t.Error("intermediate should exist while converting")
		}
		return os.WriteFile(job.OutputPath, []byte("ID3"), 0644)
	}
	f := NewFallbackExtractor(WithFallbackCommandRunner(runner), WithFallbackLogger(quietLogger()))

	if err := f.Attempt(context.Background(), job, audio.NewTranscript()); err != nil {
		t.Fatalf("Attempt() unexpected error: %v", err)
	}

	joined := strings.Join(convertArgs, " ")
	if !strings.Contains(joined, "-i "+job.IntermediatePath()) || !strings.Contains(joined, "-b:a 320k") {
		t.Errorf("convert args = %q, want intermediate input and 320k bitrate", joined)
	}
	if fileExists(job.IntermediatePath()) {
		t.Error("intermediate file should be removed after conversion")
	}
	if !fileExists(job.OutputPath) {
		t.Error("output file missing")
	}
}

func TestFallbackExtractor_UsesProbedLayout(t *testing.T) {
	dir := t.TempDir()
	job := &audio.Job{
		InputPath:  filepath.Join(dir, "mono.mp4"),
		OutputPath: filepath.Join(dir, "mono.wav"),
		Format:     audio.FormatWAV,
	}
	runner := &mockRunner{streamData: make([]byte, 4800*2)}
	inspector := &mockInspector{info: &audio.Info{SampleRate: 48000, Channels: 1}}
	f := NewFallbackExtractor(
		WithFallbackCommandRunner(runner),
		WithFallbackInspector(inspector),
		WithFallbackLogger(quietLogger()),
	)

	if err := f.Attempt(context.Background(), job, audio.NewTranscript()); err != nil {
		t.Fatalf("Attempt() unexpected error: %v", err)
	}
	got := strings.Join(runner.calls[0], " ")
	if !strings.Contains(got, "-ar 48000 -ac 1 -") {
		t.Errorf("decode command = %q, want probed layout", got)
	}
}

func TestFallbackExtractor_Failures(t *testing.T) {
	tests := []struct {
		name   string
		runner *mockRunner
	}{
		{name: "decoder cannot start", runner: &mockRunner{streamErr: errors.New("exec: not found")}},
		{name: "decoder exits non-zero", runner: &mockRunner{streamData: stereoPCM(16), streamClose: errors.New("exit status 1")}},
		{name: "no samples", runner: &mockRunner{}},
		{name: "convert fails", runner: &mockRunner{streamData: stereoPCM(64), err: errors.New("exit status 1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			job := &audio.Job{
				InputPath:  filepath.Join(dir, "in.mp4"),
				OutputPath: filepath.Join(dir, "in.flac"),
				Format:     audio.FormatFLAC,
			}
			f := NewFallbackExtractor(WithFallbackCommandRunner(tt.runner), WithFallbackLogger(quietLogger()))
			transcript := audio.NewTranscript()

			err := f.Attempt(context.Background(), job, transcript)
			if !errors.Is(err, audio.ErrDecodeEncode) {
				t.Fatalf("Attempt() error = %v, want ErrDecodeEncode", err)
			}
			if fileExists(job.IntermediatePath()) {
				t.Error("intermediate file should be removed on failure")
			}
			if !strings.Contains(transcript.String(), "fallback extraction error") {
				t.Errorf("transcript missing error line:\n%s", transcript)
			}
		})
	}
}
