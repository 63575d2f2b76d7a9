//go:build integration

package steps

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/logging"
	"audio-extractor/infrastructure/web"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
)

type webSession struct {
	Session   string `json:"session"`
	BundleURL string `json:"bundle_url"`
	Files     []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"files"`
}

// webContext holds test state for web scenarios
type webContext struct {
	scratchDir string
	server     *web.Server
	session    webSession
}

// SharedWebContext is reset before each scenario via Before hook
var SharedWebContext *webContext

func InitializeWebScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedWebContext = &webContext{}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedWebContext != nil && SharedWebContext.scratchDir != "" {
			os.RemoveAll(SharedWebContext.scratchDir)
		}
		SharedWebContext = nil
		return c, nil
	})

	ctx.Step(`^the web server is running$`, theWebServerIsRunning)
	ctx.Step(`^I upload "([^"]*)" as "([^"]*)"$`, iUploadAs)
	ctx.Step(`^the response should list (\d+) files$`, theResponseShouldListFiles)
	ctx.Step(`^downloading "([^"]*)" should return "([^"]*)"$`, downloadingShouldReturn)
	ctx.Step(`^downloading "([^"]*)" should return not found$`, downloadingShouldReturnNotFound)
	ctx.Step(`^the output "([^"]*)" is removed$`, theOutputIsRemoved)
	ctx.Step(`^the bundle should be named "([^"]*)" and contain (\d+) files$`, theBundleShouldBeNamedAndContain)
}

func theWebServerIsRunning() error {
	w := SharedWebContext
	dir, err := os.MkdirTemp("", "web-feature-")
	if err != nil {
		return err
	}
	w.scratchDir = dir

	gin.SetMode(gin.TestMode)
	logger := logging.Discard()
	checker := filesystem.NewChecker()
	strategy := &mockStrategy{name: "ffmpeg", failFor: map[string]bool{}}
	pipeline := extraction.NewPipeline([]audio.Strategy{strategy}, nil, checker, logger)
	orchestrator := extraction.NewOrchestrator(pipeline, filesystem.NewScratch(dir), nil, logger)

	w.server = web.NewServer(orchestrator, checker, logger, web.Options{
		DefaultFormat: audio.FormatMP3,
		SessionTTL:    time.Hour,
	})
	return nil
}

func (w *webContext) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	w.server.Handler().ServeHTTP(rec, req)
	return rec
}

func iUploadAs(list, format string) error {
	w := SharedWebContext

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	mw.WriteField("format", format)
	for _, name := range splitList(list) {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			return err
		}
		part.Write([]byte("video:" + name))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := w.do(req)
	if rec.Code != http.StatusOK {
		return fmt.Errorf("upload returned %d: %s", rec.Code, rec.Body.String())
	}
	return json.Unmarshal(rec.Body.Bytes(), &w.session)
}

func theResponseShouldListFiles(count int) error {
	if got := len(SharedWebContext.session.Files); got != count {
		return fmt.Errorf("expected %d files, got %d", count, got)
	}
	return nil
}

func download(name string) *httptest.ResponseRecorder {
	w := SharedWebContext
	path := fmt.Sprintf("/sessions/%s/files/%s", w.session.Session, name)
	return w.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func downloadingShouldReturn(name, contentType string) error {
	rec := download(name)
	if rec.Code != http.StatusOK {
		return fmt.Errorf("download returned %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != contentType {
		return fmt.Errorf("expected Content-Type %s, got %s", contentType, got)
	}
	return nil
}

func downloadingShouldReturnNotFound(name string) error {
	if rec := download(name); rec.Code != http.StatusNotFound {
		return fmt.Errorf("expected 404, got %d", rec.Code)
	}
	return nil
}

func theOutputIsRemoved(name string) error {
	return os.Remove(filepath.Join(SharedWebContext.scratchDir, name))
}

func theBundleShouldBeNamedAndContain(name string, count int) error {
	w := SharedWebContext
	rec := w.do(httptest.NewRequest(http.MethodGet, w.session.BundleURL, nil))
	if rec.Code != http.StatusOK {
		return fmt.Errorf("bundle returned %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, name) {
		return fmt.Errorf("expected Content-Disposition naming %s, got %q", name, got)
	}
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		return fmt.Errorf("invalid archive: %w", err)
	}
	if len(zr.File) != count {
		return fmt.Errorf("expected %d entries, got %d", count, len(zr.File))
	}
	return nil
}
