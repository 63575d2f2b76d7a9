package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"strings"

	"audio-extractor/domain/audio"

	"github.com/go-audio/wav"
)

// mp3ConvertBitrate is applied when re-encoding the lossless intermediate to mp3
const mp3ConvertBitrate = "320k"

// Converter re-encodes a WAV file into another audio format
type Converter struct {
	ffmpegPath string
	runner     CommandRunner
}

// NewConverter creates a Converter sharing the extractor's ffmpeg binary and runner
func NewConverter(ffmpegPath string, runner CommandRunner) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if runner == nil {
		runner = &ExecCommandRunner{}
	}
	return &Converter{ffmpegPath: ffmpegPath, runner: runner}
}

// ConvertArgs returns the ffmpeg arguments that re-encode wavPath to outputPath
func ConvertArgs(wavPath, outputPath string, format audio.Format) []string {
	args := []string{"-i", wavPath, "-vn"}
	switch format {
	case audio.FormatMP3:
		args = append(args, "-f", "mp3", "-acodec", "libmp3lame", "-b:a", mp3ConvertBitrate)
	case audio.FormatFLAC:
		args = append(args, "-f", "flac", "-acodec", "flac")
	case audio.FormatAAC:
		args = append(args, "-f", "adts", "-acodec", "aac")
	case audio.FormatOGG:
		args = append(args, "-f", "ogg", "-acodec", "libvorbis")
	case audio.FormatWAV:
		args = append(args, "-f", "wav", "-acodec", "pcm_s16le")
	}
	return append(args, "-y", outputPath)
}

// Convert checks that wavPath holds a valid WAV stream, then re-encodes it
func (c *Converter) Convert(ctx context.Context, wavPath, outputPath string, format audio.Format) error {
	if err := checkWAV(wavPath); err != nil {
		return err
	}

	args := ConvertArgs(wavPath, outputPath, format)
	output, err := c.runner.CombinedOutput(ctx, c.ffmpegPath, args...)
	if err != nil {
		return fmt.Errorf("convert to %s: %w: %s", format, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func checkWAV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open intermediate: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return fmt.Errorf("intermediate %s is not a valid WAV file", path)
	}
	return nil
}
