package audio

import (
	"fmt"
	"strings"
)

// Info is diagnostic metadata about the first audio stream of a file
type Info struct {
	Codec      string
	SampleRate int
	Channels   int
	BitRate    int64
	Duration   float64 // seconds
}

// Lines renders the info the way it appears in the transcript
func (i *Info) Lines() []string {
	return []string{
		"  codec: " + orUnknown(i.Codec),
		"  sample rate: " + intOrUnknown(int64(i.SampleRate)) + " Hz",
		"  channels: " + intOrUnknown(int64(i.Channels)),
		"  bit rate: " + intOrUnknown(i.BitRate) + " bps",
		fmt.Sprintf("  duration: %.2f s", i.Duration),
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func intOrUnknown(v int64) string {
	if v <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d", v)
}
