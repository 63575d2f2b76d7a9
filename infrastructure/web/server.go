package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// BatchProcessor runs a batch of uploads; implemented by extraction.Orchestrator
type BatchProcessor interface {
	Process(ctx context.Context, run *extraction.Run, in extraction.BatchInput) *extraction.Run
}

// Options configures the HTTP boundary. A zero MaxUploadBytes or
// ExtractsPerMinute disables that limit; the rate applies across all clients.
type Options struct {
	Address           string
	DefaultFormat     audio.Format
	DefaultPrefix     string
	MaxUploadBytes    int64
	SessionTTL        time.Duration
	ExtractsPerMinute int
}

// Server is the upload/download web boundary
type Server struct {
	opts      Options
	processor BatchProcessor
	checker   audio.FileChecker
	sessions  *SessionStore
	logger    logrus.FieldLogger
	limiter   *rate.Limiter
	engine    *gin.Engine
}

// NewServer wires the routes
func NewServer(processor BatchProcessor, checker audio.FileChecker, logger logrus.FieldLogger, opts Options) *Server {
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = audio.DefaultFormat
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		opts:      opts,
		processor: processor,
		checker:   checker,
		sessions:  NewSessionStore(opts.SessionTTL),
		logger:    logger,
	}
	s.sessions.logger = logger
	if opts.ExtractsPerMinute > 0 {
		n := opts.ExtractsPerMinute
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	engine.SetHTMLTemplate(template.Must(template.New("form").Parse(formTemplate)))

	engine.GET("/", s.handleForm)
	engine.GET("/healthz", s.handleHealth)
	engine.POST("/extract", s.throttle(), s.handleExtract)
	engine.GET("/sessions/:id", s.handleSession)
	engine.GET("/sessions/:id/files/:name", s.handleFile)
	engine.GET("/sessions/:id/bundle", s.handleBundle)

	s.engine = engine
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions exposes the session store
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.opts.Address,
		Handler: s.engine,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.WithField("address", s.opts.Address).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// throttle rejects batch submissions beyond the configured rate
func (s *Server) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many extraction requests, try again shortly"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request")
	}
}
