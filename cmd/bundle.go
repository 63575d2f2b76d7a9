package cmd

import (
	"fmt"
	"os"

	"audio-extractor/application/bundle"
	"audio-extractor/domain/audio"

	"github.com/spf13/cobra"
)

var bundleOutPath string

var bundleCmd = &cobra.Command{
	Use:   "bundle <audio>...",
	Short: "Bundle audio files into a zip archive",
	Long: `Write existing audio files into one zip archive, each stored under its base
name. Files that no longer exist are skipped.

When --out is omitted the archive is named after the format of the first file,
e.g. extracted_audio_mp3.zip.

Example:
  audio-extractor bundle --out talks.zip talk1.mp3 talk2.mp3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBundle,
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.Flags().StringVar(&bundleOutPath, "out", "", "Archive path")
}

func runBundle(cmd *cobra.Command, args []string) error {
	return RunBundleWithDependencies(args, bundleOutPath, DefaultOutput)
}

// RunBundleWithDependencies runs the bundle command (for testing)
func RunBundleWithDependencies(paths []string, outPath string, output OutputWriter) error {
	if outPath == "" {
		format, err := audio.FormatFromPath(paths[0])
		if err != nil {
			format = audio.DefaultFormat
		}
		outPath = bundle.ArchiveName(format)
	}

	included, err := writeArchive(outPath, paths, output)
	if err != nil {
		return err
	}
	if len(included) == 0 {
		os.Remove(outPath)
		return fmt.Errorf("none of the given files exist")
	}
	return nil
}
