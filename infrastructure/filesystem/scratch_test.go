package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScratch_Stage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	s := NewScratch(dir)

	path, err := s.Stage("../../etc/clip.mp4", strings.NewReader("video bytes"))
	if err != nil {
		t.Fatalf("Stage() unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "clip.mp4"); path != want {
		t.Errorf("Stage() path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("staged file unreadable: %v", err)
	}
	if string(data) != "video bytes" {
		t.Errorf("staged content = %q", data)
	}

	checker := NewChecker()
	if !checker.Exists(path) {
		t.Error("Exists() = false for staged file")
	}
	if checker.Size(path) != int64(len("video bytes")) {
		t.Errorf("Size() = %d", checker.Size(path))
	}

	if err := s.Remove(path); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if checker.Exists(path) {
		t.Error("file still exists after Remove()")
	}
	if err := s.Remove(path); err != nil {
		t.Errorf("Remove() of missing file should not fail: %v", err)
	}
}

func TestScratch_StageRefusesItsOwnSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(source, []byte("original video"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(source)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	_, err = NewScratch(dir).Stage("clip.mp4", f)
	if !errors.Is(err, ErrSameFile) {
		t.Fatalf("Stage() error = %v, want ErrSameFile", err)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("source missing after refused Stage(): %v", err)
	}
	if string(data) != "original video" {
		t.Errorf("source content = %q, want it untouched", data)
	}
}

func TestNewScratch_DefaultsToTempDir(t *testing.T) {
	if got := NewScratch("").Dir(); got != os.TempDir() {
		t.Errorf("Dir() = %q, want %q", got, os.TempDir())
	}
}

func TestChecker_SizeMissing(t *testing.T) {
	if got := NewChecker().Size("/definitely/not/here"); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
}
