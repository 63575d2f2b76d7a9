package cmd

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRunBundle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "b.mp3")
	os.WriteFile(a, []byte("a"), 0644)
	os.WriteFile(b, []byte("b"), 0644)
	out := filepath.Join(dir, "bundle.zip")

	var buf bytes.Buffer
	if err := RunBundleWithDependencies([]string{a, filepath.Join(dir, "missing.mp3"), b}, out, &buf); err != nil {
		t.Fatalf("RunBundleWithDependencies() error = %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	if len(zr.File) != 2 || zr.File[0].Name != "a.mp3" || zr.File[1].Name != "b.mp3" {
		t.Errorf("unexpected entries: %d", len(zr.File))
	}
}

func TestRunBundle_DefaultName(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "talk.ogg")
	os.WriteFile(src, []byte("x"), 0644)

	t.Chdir(dir)

	if err := RunBundleWithDependencies([]string{src}, "", &bytes.Buffer{}); err != nil {
		t.Fatalf("RunBundleWithDependencies() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "extracted_audio_ogg.zip")); err != nil {
		t.Errorf("expected default archive name: %v", err)
	}
}

func TestRunBundle_NothingExists(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "empty.zip")

	if err := RunBundleWithDependencies([]string{filepath.Join(dir, "gone.mp3")}, out, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("empty archive should be removed")
	}
}
