package extraction

import (
	"context"
	"io"
	"path/filepath"

	"audio-extractor/domain/audio"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Upload is one uploaded video payload
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Stager places uploads into scratch storage and removes them afterwards
type Stager interface {
	Stage(name string, r io.Reader) (string, error)
	Path(name string) string
	Remove(path string) error
}

// BatchInput describes one batch request.
// Outputs go to OutputDir, or next to the staged inputs when it is empty.
type BatchInput struct {
	Uploads   []Upload
	Format    audio.Format
	Prefix    string
	OutputDir string
}

// Orchestrator processes uploads strictly one at a time, in upload order
type Orchestrator struct {
	pipeline *Pipeline
	stager   Stager
	progress audio.ProgressReporter
	logger   logrus.FieldLogger
}

// NewOrchestrator creates an Orchestrator. A nil progress reporter is allowed.
func NewOrchestrator(pipeline *Pipeline, stager Stager, progress audio.ProgressReporter, logger logrus.FieldLogger) *Orchestrator {
	if progress == nil {
		progress = noopProgress{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Orchestrator{
		pipeline: pipeline,
		stager:   stager,
		progress: progress,
		logger:   logger,
	}
}

// Process runs every upload through the pipeline and returns the run.
// One item's failure never stops the items after it.
func (o *Orchestrator) Process(ctx context.Context, run *Run, in BatchInput) *Run {
	if run == nil {
		run = NewRun()
	}
	format := in.Format
	if format == "" {
		format = audio.DefaultFormat
	}

	total := len(in.Uploads)
	o.progress.Start(total)
	written := make(map[string]string, total)

	for i, upload := range in.Uploads {
		run.Transcript.Add("")
		run.Transcript.Addf("=== file %s: %s ===", describeCount(i+1, total), upload.Name)
		if upload.Size > 0 {
			run.Transcript.Addf("upload size: %s", humanize.Bytes(uint64(upload.Size)))
		}

		outputPath := o.outputPath(in, upload.Name, format)
		if earlier, ok := written[outputPath]; ok {
			run.Transcript.Addf("warning: %s replaces the output of %s", filepath.Base(outputPath), earlier)
		}

		item := o.processOne(ctx, run, upload, outputPath)
		if item.Succeeded {
			written[outputPath] = upload.Name
		}
		run.Result.Record(item)

		if item.Succeeded {
			run.Transcript.Addf("%s: extraction complete", upload.Name)
		} else {
			run.Transcript.Addf("%s: extraction failed", upload.Name)
		}

		o.progress.Advance(i+1, total, upload.Name)
	}

	run.Transcript.Add("")
	run.Transcript.Addf("done: %s files extracted", describeCount(run.Result.Succeeded, total))
	o.progress.Finish(run.Result.Succeeded, total)

	o.logger.WithFields(logrus.Fields{
		"succeeded": run.Result.Succeeded,
		"failed":    run.Result.Failed,
		"format":    format,
	}).Info("batch finished")

	return run
}

func (o *Orchestrator) outputPath(in BatchInput, uploadName string, format audio.Format) string {
	name := audio.OutputName(uploadName, in.Prefix, format)
	if in.OutputDir != "" {
		return filepath.Join(in.OutputDir, name)
	}
	return o.stager.Path(name)
}

func (o *Orchestrator) processOne(ctx context.Context, run *Run, upload Upload, outputPath string) audio.ItemResult {
	failed := audio.ItemResult{Name: upload.Name, OutputPath: outputPath}

	staged, err := o.stage(upload)
	if err != nil {
		run.Transcript.Addf("error: %v", err)
		o.logger.WithError(err).WithField("input", upload.Name).Warn("staging failed")
		return failed
	}
	defer func() {
		if err := o.stager.Remove(staged); err != nil {
			o.logger.WithError(err).WithField("input", staged).Warn("failed to remove staged input")
		}
	}()

	item := o.pipeline.Extract(ctx, run, staged, outputPath)
	item.Name = upload.Name
	return item
}

func (o *Orchestrator) stage(upload Upload) (string, error) {
	r, err := upload.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()
	return o.stager.Stage(upload.Name, r)
}

type noopProgress struct{}

func (noopProgress) Start(int) {}

func (noopProgress) Advance(int, int, string) {}

func (noopProgress) Finish(int, int) {}
