package cmd

import (
	"context"
	"fmt"
	"time"

	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/config"
	"audio-extractor/infrastructure/ffmpeg"
	"audio-extractor/infrastructure/ffprobe"
	"audio-extractor/infrastructure/filesystem"

	"github.com/sirupsen/logrus"
)

// ExtractionDependencies are the collaborators a batch needs
type ExtractionDependencies struct {
	Strategies []audio.Strategy
	Inspector  audio.Inspector
	Checker    audio.FileChecker
	Logger     logrus.FieldLogger
}

// newInspector builds the ffprobe inspector from config
func newInspector(c *config.Config, logger logrus.FieldLogger) *ffprobe.Inspector {
	return ffprobe.NewInspector(&ffmpeg.ExecCommandRunner{},
		ffprobe.WithFFprobePath(c.Tools.FFprobe),
		ffprobe.WithLogger(logger),
	)
}

// newExtractionDependencies wires the primary extractor followed by the PCM fallback
func newExtractionDependencies(c *config.Config, logger logrus.FieldLogger) ExtractionDependencies {
	runner := &ffmpeg.ExecCommandRunner{}
	inspector := newInspector(c, logger)

	primary := ffmpeg.NewExtractor(
		ffmpeg.WithExtractorFFmpegPath(c.Tools.FFmpeg),
		ffmpeg.WithExtractorCommandRunner(runner),
		ffmpeg.WithExtractorLogger(logger),
	)
	fallback := ffmpeg.NewFallbackExtractor(
		ffmpeg.WithFallbackFFmpegPath(c.Tools.FFmpeg),
		ffmpeg.WithFallbackCommandRunner(runner),
		ffmpeg.WithFallbackInspector(inspector),
		ffmpeg.WithFallbackLogger(logger),
	)

	return ExtractionDependencies{
		Strategies: []audio.Strategy{primary, fallback},
		Inspector:  inspector,
		Checker:    filesystem.NewChecker(),
		Logger:     logger,
	}
}

// newOrchestrator assembles an orchestrator staging into dir
func (d ExtractionDependencies) newOrchestrator(dir string, progress audio.ProgressReporter) *extraction.Orchestrator {
	pipeline := extraction.NewPipeline(d.Strategies, d.Inspector, d.Checker, d.Logger)
	return extraction.NewOrchestrator(pipeline, filesystem.NewScratch(dir), progress, d.Logger)
}

// verifyTools checks every strategy that can verify its external tool
func verifyTools(ctx context.Context, strategies []audio.Strategy) error {
	for _, s := range strategies {
		verifiable, ok := s.(interface{ VerifyInstalled(context.Context) error })
		if !ok {
			continue
		}
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := verifiable.VerifyInstalled(verifyCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s verification failed: %w", s.Name(), err)
		}
	}
	return nil
}
