package cmd

import (
	"context"
	"fmt"

	"audio-extractor/domain/audio"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>...",
	Short: "Print audio stream information",
	Long: `Print codec, sample rate, channels, bit rate and duration of the first
audio stream in each file.

Example:
  audio-extractor probe talk.mp4 talk.mp3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	return RunProbeWithDependencies(cmd.Context(), newInspector(cfg, logger), args, DefaultOutput)
}

// RunProbeWithDependencies runs the probe command with injected dependencies (for testing)
func RunProbeWithDependencies(ctx context.Context, inspector audio.Inspector, paths []string, output OutputWriter) error {
	failed := 0
	for _, path := range paths {
		fmt.Fprintf(output, "%s:\n", path)
		info := inspector.Probe(ctx, path)
		if info == nil {
			fmt.Fprintln(output, "  no audio stream information available")
			failed++
			continue
		}
		for _, line := range info.Lines() {
			fmt.Fprintln(output, line)
		}
	}

	if failed == len(paths) {
		return fmt.Errorf("no audio information found")
	}
	return nil
}
