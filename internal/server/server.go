// Package server exposes the dithering engine over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /v1/algorithms
//	GET  /v1/palettes
//	POST /v1/dither   multipart "image" plus optional parameter fields
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/wbrown/img2dither"
	"github.com/wbrown/img2dither/internal/config"
	"github.com/wbrown/img2dither/internal/logging"
)

// Config controls one Server.
type Config struct {
	Addr string
	// MaxUploadBytes bounds the request body of POST /v1/dither.
	MaxUploadBytes int64
	// MaxWidth caps output width; wider inputs are scaled down.
	MaxWidth int
	// CORSOrigins lists allowed origins. "*" allows any; empty disables
	// CORS handling.
	CORSOrigins []string
	// RatePerMinute and RateBurst size the per-client token bucket on
	// POST /v1/dither. RatePerMinute <= 0 disables limiting.
	RatePerMinute   int
	RateBurst       int
	ShutdownTimeout time.Duration
	// Defaults seeds every request before form overrides apply.
	Defaults img2dither.Params
}

// ConfigFromEnv reads DITHERD_* settings and DITHER_* parameter defaults.
// Unknown parameter names are returned as warnings.
func ConfigFromEnv() (Config, []error) {
	defaults, warnings := config.ParamsFromEnv("DITHER")
	cfg := Config{
		Addr:            config.Get("DITHERD_ADDR", ":8080"),
		MaxUploadBytes:  int64(config.GetInt("DITHERD_MAX_UPLOAD_MB", 20)) << 20,
		MaxWidth:        config.GetInt("DITHERD_MAX_WIDTH", 2048),
		RatePerMinute:   config.GetInt("DITHERD_RATE_PER_MINUTE", 30),
		RateBurst:       config.GetInt("DITHERD_RATE_BURST", 5),
		ShutdownTimeout: config.GetDuration("DITHERD_SHUTDOWN_TIMEOUT", 30*time.Second),
		Defaults:        defaults,
	}
	if origins := config.Get("DITHERD_CORS_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	return cfg, warnings
}

// Server is the HTTP front end. Create it with New.
type Server struct {
	cfg      Config
	router   *gin.Engine
	log      *slog.Logger
	limiters sync.Map // client IP -> *rate.Limiter
}

// New builds the router for cfg.
func New(cfg Config) (*Server, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	s := &Server{
		cfg:    cfg,
		router: gin.New(),
		log:    logging.Logger(logging.ComponentServer),
	}
	s.router.MaxMultipartMemory = cfg.MaxUploadBytes
	s.router.Use(gin.Recovery(), requestID(), s.requestLogger())
	if len(cfg.CORSOrigins) > 0 {
		s.router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	}

	s.router.GET("/healthz", s.handleHealth)
	v1 := s.router.Group("/v1")
	v1.GET("/algorithms", s.handleAlgorithms)
	v1.GET("/palettes", s.handlePalettes)
	v1.POST("/dither", s.sizeLimit(), s.rateLimit(), s.handleDither)
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	c.ExposeHeaders = []string{requestIDHeader, algorithmHeader, paletteHeader}
	return c
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// limiter returns the token bucket for a client, creating it on first use.
func (s *Server) limiter(ip string) *rate.Limiter {
	if val, ok := s.limiters.Load(ip); ok {
		return val.(*rate.Limiter)
	}
	every := rate.Every(time.Minute / time.Duration(s.cfg.RatePerMinute))
	val, _ := s.limiters.LoadOrStore(ip, rate.NewLimiter(every, s.cfg.RateBurst))
	return val.(*rate.Limiter)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", "address", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}
