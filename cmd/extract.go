package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"audio-extractor/application/bundle"
	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/filesystem"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	extractFormat  string
	extractPrefix  string
	extractOutDir  string
	extractZipPath string
	extractLogPath string
	extractQuiet   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <video>...",
	Short: "Extract audio from one or more video files",
	Long: `Extract the audio track of each video, one file at a time.

Each video is copied into a temporary staging directory first, so the originals
are never touched. A file that fails is reported and the batch moves on to the next one.

Supported inputs: .mp4 .avi .mkv .mov .wmv .flv .webm .m4v
Supported formats: mp3 flac wav aac ogg

Example:
  audio-extractor extract talk.mp4 interview.mkv
  audio-extractor extract --format flac --prefix church --zip out.zip *.mp4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "Output format (default from config or mp3)")
	extractCmd.Flags().StringVar(&extractPrefix, "prefix", "", "Prefix for output file names")
	extractCmd.Flags().StringVar(&extractOutDir, "out-dir", "", "Directory for extracted audio (default: a fresh directory under the scratch directory)")
	extractCmd.Flags().StringVar(&extractZipPath, "zip", "", "Also write every extracted file into this zip archive")
	extractCmd.Flags().StringVar(&extractLogPath, "log", "", "Save the extraction log to this file")
	extractCmd.Flags().BoolVar(&extractQuiet, "quiet", false, "Hide the progress bar (hidden anyway when output is not a terminal)")
}

// ExtractOptions holds the resolved arguments of an extract run
type ExtractOptions struct {
	Paths        []string
	Format       audio.Format
	Prefix       string
	OutDir       string
	ZipPath      string
	LogPath      string
	ShowProgress bool
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	formatName := extractFormat
	if formatName == "" {
		formatName = cfg.Audio.DefaultFormat
	}
	format, err := audio.ParseFormat(formatName)
	if err != nil {
		return err
	}

	prefix := extractPrefix
	if !cmd.Flags().Changed("prefix") {
		prefix = cfg.Audio.Prefix
	}

	outDir := extractOutDir
	if outDir == "" {
		scratch := filesystem.NewScratch(cfg.Paths.ScratchDirectory).Dir()
		if err := os.MkdirAll(scratch, 0755); err != nil {
			return fmt.Errorf("failed to create scratch directory: %w", err)
		}
		outDir, err = os.MkdirTemp(scratch, "extracted-audio-")
		if err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	deps := newExtractionDependencies(cfg, logger)

	return RunExtractWithDependencies(cmd.Context(), deps, ExtractOptions{
		Paths:        args,
		Format:       format,
		Prefix:       prefix,
		OutDir:       outDir,
		ZipPath:      extractZipPath,
		LogPath:      extractLogPath,
		ShowProgress: !extractQuiet && isTerminal(DefaultOutput),
	}, DefaultOutput)
}

// RunExtractWithDependencies runs the extract command with injected dependencies (for testing)
func RunExtractWithDependencies(ctx context.Context, deps ExtractionDependencies, opts ExtractOptions, output OutputWriter) error {
	if err := verifyTools(ctx, deps.Strategies); err != nil {
		return err
	}

	if opts.OutDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	stagingDir, err := os.MkdirTemp("", "audio-extractor-staging-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	var progress audio.ProgressReporter
	if opts.ShowProgress {
		progress = newBarProgress(output)
	}
	orchestrator := deps.newOrchestrator(stagingDir, progress)

	uploads := make([]extraction.Upload, 0, len(opts.Paths))
	for _, path := range opts.Paths {
		uploads = append(uploads, localUpload(path))
	}

	run := orchestrator.Process(ctx, extraction.NewRun(), extraction.BatchInput{
		Uploads:   uploads,
		Format:    opts.Format,
		Prefix:    opts.Prefix,
		OutputDir: opts.OutDir,
	})

	fmt.Fprintln(output, summaryTable(run.Result, deps.Checker))
	fmt.Fprintf(output, "Done: %d/%d files extracted\n", run.Result.Succeeded, run.Result.Total())
	fmt.Fprintf(output, "Output directory: %s\n", opts.OutDir)

	if opts.LogPath != "" {
		if err := os.WriteFile(opts.LogPath, []byte(run.Transcript.String()+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to save log: %w", err)
		}
		fmt.Fprintf(output, "Log saved to %s\n", opts.LogPath)
	}

	if opts.ZipPath != "" && run.Result.Succeeded > 0 {
		if _, err := writeArchive(opts.ZipPath, run.Result.ExistingOutputs(deps.Checker), output); err != nil {
			return err
		}
	}

	if run.Result.Total() > 0 && run.Result.Succeeded == 0 {
		return fmt.Errorf("no audio could be extracted")
	}
	return nil
}

// localUpload presents a local file as an upload; the orchestrator copies it
// into the staging directory and only ever removes that copy
func localUpload(path string) extraction.Upload {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	return extraction.Upload{
		Name: filepath.Base(path),
		Size: size,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func summaryTable(result *audio.BatchResult, checker audio.FileChecker) string {
	rows := make([][]string, 0, len(result.Items))
	for _, item := range result.Items {
		status := "failed"
		output := "-"
		size := "-"
		if item.Succeeded {
			status = "ok"
			output = filepath.Base(item.OutputPath)
			size = humanize.Bytes(uint64(checker.Size(item.OutputPath)))
		}
		rows = append(rows, []string{item.Name, output, status, size})
	}
	return renderTable(
		[]string{"Video", "Audio", "Status", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func writeArchive(path string, files []string, output OutputWriter) ([]string, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	included, err := bundle.Write(f, files)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return included, fmt.Errorf("failed to write archive: %w", err)
	}

	fmt.Fprintf(output, "Archive %s: %s\n", path, strings.Join(included, ", "))
	return included, nil
}
