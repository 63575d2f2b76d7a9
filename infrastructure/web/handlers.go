package web

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"audio-extractor/application/bundle"
	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"

	"github.com/gin-gonic/gin"
)

type fileResponse struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

type itemResponse struct {
	Name      string `json:"name"`
	Output    string `json:"output,omitempty"`
	Succeeded bool   `json:"succeeded"`
}

type sessionResponse struct {
	Session   string         `json:"session"`
	Format    string         `json:"format"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Total     int            `json:"total"`
	Items     []itemResponse `json:"items"`
	Files     []fileResponse `json:"files"`
	BundleURL string         `json:"bundle_url,omitempty"`
	Log       []string       `json:"log"`
}

func (s *Server) handleForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form", gin.H{
		"Formats": audio.SupportedFormats,
		"Default": s.opts.DefaultFormat,
		"Prefix":  s.opts.DefaultPrefix,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleExtract(c *gin.Context) {
	if s.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to parse form: %v", err)})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded (field must be 'files')"})
		return
	}

	format := s.opts.DefaultFormat
	if raw := c.PostForm("format"); raw != "" {
		format, err = audio.ParseFormat(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	prefix, ok := c.GetPostForm("prefix")
	if !ok {
		prefix = s.opts.DefaultPrefix
	}

	uploads := make([]extraction.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, extraction.Upload{
			Name: filepath.Base(fh.Filename),
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	run := s.processor.Process(c.Request.Context(), extraction.NewRun(), extraction.BatchInput{
		Uploads: uploads,
		Format:  format,
		Prefix:  prefix,
	})

	session := s.sessions.Create(format, run)
	s.logger.WithField("session", session.ID).
		WithField("succeeded", run.Result.Succeeded).
		WithField("failed", run.Result.Failed).
		Info("batch stored")

	c.JSON(http.StatusOK, s.describe(session))
}

func (s *Server) handleSession(c *gin.Context) {
	session, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, s.describe(session))
}

func (s *Server) handleFile(c *gin.Context) {
	session, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	name := c.Param("name")
	var path string
	for _, output := range session.Run.Result.Outputs {
		if filepath.Base(output) == name {
			path = output
			break
		}
	}
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if !s.checker.Exists(path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file is no longer available"})
		return
	}

	format, err := audio.FormatFromPath(path)
	if err != nil {
		format = session.Format
	}
	c.Header("Content-Type", format.MimeType())
	c.FileAttachment(path, name)
}

func (s *Server) handleBundle(c *gin.Context) {
	session, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	existing := session.Run.Result.ExistingOutputs(s.checker)
	if len(existing) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no extracted files available"})
		return
	}

	data, err := bundle.Bundle(existing)
	if err != nil {
		s.logger.WithError(err).WithField("session", session.ID).Error("bundle failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build archive"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.ArchiveName(session.Format)))
	c.Data(http.StatusOK, bundle.MimeType, data)
}

func (s *Server) describe(session *Session) sessionResponse {
	result := session.Run.Result
	resp := sessionResponse{
		Session:   session.ID,
		Format:    session.Format.String(),
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Total:     result.Total(),
		Items:     make([]itemResponse, 0, len(result.Items)),
		Files:     make([]fileResponse, 0, len(result.Outputs)),
		Log:       session.Run.Transcript.Lines(),
	}

	for _, item := range result.Items {
		ir := itemResponse{Name: item.Name, Succeeded: item.Succeeded}
		if item.Succeeded {
			ir.Output = filepath.Base(item.OutputPath)
		}
		resp.Items = append(resp.Items, ir)
	}

	for _, path := range result.ExistingOutputs(s.checker) {
		name := filepath.Base(path)
		resp.Files = append(resp.Files, fileResponse{
			Name: name,
			Size: s.checker.Size(path),
			URL:  fmt.Sprintf("/sessions/%s/files/%s", session.ID, name),
		})
	}
	if len(resp.Files) > 0 {
		resp.BundleURL = fmt.Sprintf("/sessions/%s/bundle", session.ID)
	}
	return resp
}
