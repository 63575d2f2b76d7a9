package audio

import "testing"

func TestBatchResult_Record(t *testing.T) {
	var r BatchResult
	r.Record(ItemResult{Name: "a.mp4", OutputPath: "/tmp/a.mp3", Succeeded: true})
	r.Record(ItemResult{Name: "b.mp4", OutputPath: "/tmp/b.mp3"})
	r.Record(ItemResult{Name: "c.mp4", OutputPath: "/tmp/c.mp3", Succeeded: true})

	if r.Succeeded != 2 || r.Failed != 1 || r.Total() != 3 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/3", r.Succeeded, r.Failed, r.Total())
	}
	if len(r.Outputs) != 2 || r.Outputs[0] != "/tmp/a.mp3" || r.Outputs[1] != "/tmp/c.mp3" {
		t.Errorf("Outputs = %v, want [/tmp/a.mp3 /tmp/c.mp3]", r.Outputs)
	}
}

func TestBatchResult_RecordRepeatedOutput(t *testing.T) {
	var r BatchResult
	r.Record(ItemResult{Name: "a/clip.mp4", OutputPath: "/tmp/clip.mp3", Succeeded: true})
	r.Record(ItemResult{Name: "b/clip.mkv", OutputPath: "/tmp/clip.mp3", Succeeded: true})

	if r.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", r.Succeeded)
	}
	if len(r.Outputs) != 1 {
		t.Errorf("Outputs = %v, want one entry", r.Outputs)
	}
}

func TestBatchResult_ExistingOutputs(t *testing.T) {
	r := BatchResult{Outputs: []string{"/tmp/a.mp3", "/tmp/b.mp3"}}
	checker := &mockFileChecker{existingFiles: map[string]bool{"/tmp/b.mp3": true}}

	got := r.ExistingOutputs(checker)
	if len(got) != 1 || got[0] != "/tmp/b.mp3" {
		t.Errorf("ExistingOutputs() = %v, want [/tmp/b.mp3]", got)
	}
}

func TestTranscript(t *testing.T) {
	tr := NewTranscript()
	tr.Add("one", "two")
	tr.Addf("item %d/%d", 3, 4)

	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
	if got, want := tr.String(), "one\ntwo\nitem 3/4"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	lines := tr.Lines()
	lines[0] = "changed"
	if tr.Lines()[0] != "one" {
		t.Error("Lines() should return a copy")
	}
}

func TestInfo_Lines(t *testing.T) {
	info := &Info{Codec: "mp3", SampleRate: 44100, Channels: 2, Duration: 12.5}
	lines := info.Lines()
	want := []string{
		"  codec: mp3",
		"  sample rate: 44100 Hz",
		"  channels: 2",
		"  bit rate: unknown bps",
		"  duration: 12.50 s",
	}
	if len(lines) != len(want) {
		t.Fatalf("Lines() len = %d, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
