package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"audio-extractor/domain/audio"
)

// mockInspector returns info for known paths only
type mockInspector struct {
	infos map[string]*audio.Info
}

func (m *mockInspector) Probe(ctx context.Context, path string) *audio.Info {
	return m.infos[path]
}

func TestRunProbe(t *testing.T) {
	inspector := &mockInspector{infos: map[string]*audio.Info{
		"talk.mp4": {Codec: "aac", SampleRate: 48000, Channels: 2, BitRate: 128000, Duration: 61.5},
	}}

	var out bytes.Buffer
	if err := RunProbeWithDependencies(context.Background(), inspector, []string{"talk.mp4", "blank.mp4"}, &out); err != nil {
		t.Fatalf("RunProbeWithDependencies() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"talk.mp4:", "codec: aac", "sample rate: 48000 Hz", "duration: 61.50 s", "blank.mp4:", "no audio stream information available"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunProbe_NothingFound(t *testing.T) {
	err := RunProbeWithDependencies(context.Background(), &mockInspector{}, []string{"a.mp4"}, &bytes.Buffer{})
	if err == nil {
		t.Error("expected error when no file has audio information")
	}
}
