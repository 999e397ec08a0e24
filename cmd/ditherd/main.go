// Command ditherd serves the dithering engine over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/wbrown/img2dither/internal/config"
	"github.com/wbrown/img2dither/internal/logging"
	"github.com/wbrown/img2dither/internal/server"
)

func main() {
	dotenvErr := config.LoadDotEnv()
	logging.Setup(os.Stderr, logging.ParseLevel(config.Get("LOG_LEVEL", "info")))
	if dotenvErr != nil {
		logging.WarnWithComponent(logging.ComponentConfig, "Failed to load .env", "error", dotenvErr)
	}

	if mode := config.Get("GIN_MODE", ""); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, warnings := server.ConfigFromEnv()
	for _, w := range warnings {
		logging.WarnWithComponent(logging.ComponentConfig, "Ignoring setting", "error", w)
	}

	srv, err := server.New(cfg)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentServer, "Failed to build server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.InfoWithComponent(logging.ComponentServer, "Starting ditherd",
		"algorithm", cfg.Defaults.Algorithm.Name(),
		"palette", cfg.Defaults.Palette.Name(),
		"max_upload_bytes", cfg.MaxUploadBytes,
		"rate_per_minute", cfg.RatePerMinute)
	if err := srv.Run(ctx); err != nil {
		logging.ErrorWithComponent(logging.ComponentServer, "Server stopped", "error", err)
		os.Exit(1)
	}
	logging.InfoWithComponent(logging.ComponentServer, "Server stopped")
}
