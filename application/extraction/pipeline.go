package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"audio-extractor/domain/audio"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Pipeline extracts one staged video into one audio file
type Pipeline struct {
	strategies []audio.Strategy
	inspector  audio.Inspector
	checker    audio.FileChecker
	logger     logrus.FieldLogger
}

// NewPipeline creates a Pipeline. Strategies are tried in the order given.
func NewPipeline(strategies []audio.Strategy, inspector audio.Inspector, checker audio.FileChecker, logger logrus.FieldLogger) *Pipeline {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Pipeline{
		strategies: strategies,
		inspector:  inspector,
		checker:    checker,
		logger:     logger,
	}
}

// Extract validates the paths, runs the strategies until one succeeds and
// confirms the output exists. Failures are written to the run's transcript and
// reported through the returned ItemResult, never as an error.
func (p *Pipeline) Extract(ctx context.Context, run *Run, inputPath, outputPath string) audio.ItemResult {
	t := run.Transcript
	item := audio.ItemResult{Name: filepath.Base(inputPath), OutputPath: outputPath}
	log := p.logger.WithFields(logrus.Fields{"input": inputPath, "output": outputPath})

	if err := audio.ValidateInput(inputPath, p.checker); err != nil {
		t.Addf("error: %v", err)
		log.WithError(err).Info("input rejected")
		return item
	}

	job, err := audio.NewJob(inputPath, outputPath)
	if err != nil {
		t.Addf("error: %v", err)
		log.WithError(err).Info("output rejected")
		return item
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Addf("error: failed to create output directory: %v", err)
			return item
		}
	}

	t.Addf("input file: %s", inputPath)
	t.Addf("output file: %s", outputPath)
	if job.Format.Lossless() {
		t.Addf("output format: %s (lossless)", job.Format)
	} else {
		t.Addf("output format: %s", job.Format)
	}
	p.logInfo(ctx, t, "source audio:", inputPath)

	succeeded := p.attempt(ctx, job, t, log)

	if !succeeded || !p.checker.Exists(outputPath) {
		t.Add("audio extraction failed")
		log.Warn("audio extraction failed")
		return item
	}

	p.logInfo(ctx, t, "extracted audio:", outputPath)
	item.Size = p.checker.Size(outputPath)
	item.Succeeded = true
	t.Addf("file size: %s", humanize.Bytes(uint64(item.Size)))
	t.Add("audio extraction completed successfully")
	log.WithField("bytes", item.Size).Info("audio extracted")
	return item
}

// attempt tries each strategy in order and stops at the first success
func (p *Pipeline) attempt(ctx context.Context, job *audio.Job, t *audio.Transcript, log logrus.FieldLogger) bool {
	for i, strategy := range p.strategies {
		if i > 0 {
			t.Addf("%s extraction failed, retrying with %s...", p.strategies[i-1].Name(), strategy.Name())
		}
		err := strategy.Attempt(ctx, job, t)
		if err == nil {
			return true
		}
		log.WithError(err).WithField("strategy", strategy.Name()).Debug("strategy failed")
	}
	return false
}

func (p *Pipeline) logInfo(ctx context.Context, t *audio.Transcript, heading, path string) {
	if p.inspector == nil {
		return
	}
	info := p.inspector.Probe(ctx, path)
	if info == nil {
		return
	}
	t.Add(heading)
	t.Add(info.Lines()...)
}

// describeCount renders "n/total"
func describeCount(n, total int) string {
	return fmt.Sprintf("%d/%d", n, total)
}
