package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/web"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload form over HTTP",
	Long: `Start the web server. Uploaded videos are processed one at a time in the
configured scratch directory and the results are kept in memory until the
session expires.

Example:
  audio-extractor serve --address :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (default from config or :8080)")
}

// Server is the part of the web boundary the serve command drives
type Server interface {
	ListenAndServe(ctx context.Context) error
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	format, err := audio.ParseFormat(cfg.Audio.DefaultFormat)
	if err != nil {
		return err
	}

	address := serveAddress
	if address == "" {
		address = cfg.Server.Address
	}

	deps := newExtractionDependencies(cfg, logger)
	if err := verifyTools(cmd.Context(), deps.Strategies); err != nil {
		logger.WithError(err).Warn("ffmpeg is not available; extraction will fail")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := web.NewServer(
		deps.newOrchestrator(cfg.Paths.ScratchDirectory, nil),
		filesystem.NewChecker(),
		logger,
		web.Options{
			Address:           address,
			DefaultFormat:     format,
			DefaultPrefix:     cfg.Audio.Prefix,
			MaxUploadBytes:    cfg.Server.MaxUploadMB << 20,
			SessionTTL:        cfg.SessionTTL(),
			ExtractsPerMinute: cfg.Server.ExtractsPerMinute,
		},
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RunServeWithDependencies(ctx, srv)
}

// RunServeWithDependencies runs the server until ctx is cancelled
func RunServeWithDependencies(ctx context.Context, srv Server) error {
	return srv.ListenAndServe(ctx)
}
