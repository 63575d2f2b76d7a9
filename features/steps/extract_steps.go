//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/logging"

	"github.com/cucumber/godog"
)

// mockStrategy writes a fake output unless told to fail for an input name
type mockStrategy struct {
	name    string
	failFor map[string]bool
	calls   int
}

func (m *mockStrategy) Name() string {
	return m.name
}

func (m *mockStrategy) Attempt(ctx context.Context, job *audio.Job, transcript *audio.Transcript) error {
	m.calls++
	if m.failFor[filepath.Base(job.InputPath)] {
		transcript.Addf("%s error: simulated failure", m.name)
		return errors.New("simulated failure")
	}
	return os.WriteFile(job.OutputPath, []byte("audio"), 0644)
}

// extractContext holds test state for batch scenarios
type extractContext struct {
	scratchDir string
	uploads    []extraction.Upload
	primary    *mockStrategy
	fallback   *mockStrategy
	run        *extraction.Run
}

// SharedExtractContext is reset before each scenario via Before hook
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "extract-feature-")
		if err != nil {
			return c, err
		}
		SharedExtractContext = &extractContext{
			scratchDir: dir,
			primary:    &mockStrategy{name: "ffmpeg", failFor: map[string]bool{}},
			fallback:   &mockStrategy{name: "pcm-fallback", failFor: map[string]bool{}},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if e := getExtractContext(); e != nil {
			os.RemoveAll(e.scratchDir)
		}
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^videos "([^"]*)"$`, videos)
	ctx.Step(`^the primary extractor fails for "([^"]*)"$`, thePrimaryExtractorFailsFor)
	ctx.Step(`^every extractor fails for "([^"]*)"$`, everyExtractorFailsFor)
	ctx.Step(`^I extract them as "([^"]*)"$`, iExtractThemAs)
	ctx.Step(`^I extract them as "([^"]*)" with prefix "([^"]*)"$`, iExtractThemAsWithPrefix)
	ctx.Step(`^(\d+) of (\d+) files should be extracted$`, filesShouldBeExtracted)
	ctx.Step(`^the outputs should be "([^"]*)"$`, theOutputsShouldBe)
	ctx.Step(`^the log should contain "([^"]*)"$`, theLogShouldContain)
	ctx.Step(`^the staged inputs should be removed$`, theStagedInputsShouldBeRemoved)
	ctx.Step(`^no extractor should have been called$`, noExtractorShouldHaveBeenCalled)
}

func splitList(list string) []string {
	var items []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func videos(list string) error {
	e := getExtractContext()
	for _, name := range splitList(list) {
		e.uploads = append(e.uploads, extraction.Upload{
			Name: name,
			Size: 5,
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("video")), nil
			},
		})
	}
	return nil
}

func thePrimaryExtractorFailsFor(name string) error {
	getExtractContext().primary.failFor[name] = true
	return nil
}

func everyExtractorFailsFor(name string) error {
	e := getExtractContext()
	e.primary.failFor[name] = true
	e.fallback.failFor[name] = true
	return nil
}

func iExtractThemAs(format string) error {
	return iExtractThemAsWithPrefix(format, "")
}

func iExtractThemAsWithPrefix(formatName, prefix string) error {
	e := getExtractContext()

	format, err := audio.ParseFormat(formatName)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	checker := filesystem.NewChecker()
	pipeline := extraction.NewPipeline([]audio.Strategy{e.primary, e.fallback}, nil, checker, logger)
	orchestrator := extraction.NewOrchestrator(pipeline, filesystem.NewScratch(e.scratchDir), nil, logger)

	e.run = orchestrator.Process(context.Background(), extraction.NewRun(), extraction.BatchInput{
		Uploads: e.uploads,
		Format:  format,
		Prefix:  prefix,
	})
	return nil
}

func filesShouldBeExtracted(succeeded, total int) error {
	result := getExtractContext().run.Result
	if result.Succeeded != succeeded || result.Total() != total {
		return fmt.Errorf("expected %d of %d, got %d of %d", succeeded, total, result.Succeeded, result.Total())
	}
	return nil
}

func theOutputsShouldBe(list string) error {
	e := getExtractContext()
	want := splitList(list)
	got := e.run.Result.Outputs
	if len(got) != len(want) {
		return fmt.Errorf("expected outputs %v, got %v", want, got)
	}
	for i, name := range want {
		if filepath.Base(got[i]) != name {
			return fmt.Errorf("output %d: expected %s, got %s", i, name, filepath.Base(got[i]))
		}
		if _, err := os.Stat(got[i]); err != nil {
			return fmt.Errorf("output %s missing on disk: %w", name, err)
		}
	}
	return nil
}

func theLogShouldContain(text string) error {
	log := getExtractContext().run.Transcript.String()
	if !strings.Contains(log, text) {
		return fmt.Errorf("expected log to contain %q, got:\n%s", text, log)
	}
	return nil
}

func theStagedInputsShouldBeRemoved() error {
	e := getExtractContext()
	for _, upload := range e.uploads {
		path := filepath.Join(e.scratchDir, upload.Name)
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			return fmt.Errorf("staged input %s still exists", path)
		}
	}
	return nil
}

func noExtractorShouldHaveBeenCalled() error {
	e := getExtractContext()
	if e.primary.calls != 0 || e.fallback.calls != 0 {
		return fmt.Errorf("expected no extractor calls, got primary=%d fallback=%d", e.primary.calls, e.fallback.calls)
	}
	return nil
}
