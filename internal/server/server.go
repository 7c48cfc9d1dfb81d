// Package server exposes contract analysis over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/session"
)

// multipartOverhead is allowed on top of the file size for form framing
const multipartOverhead = 1 << 20

// Analyzer analyzes an uploaded contract
type Analyzer interface {
	AnalyzeBytes(ctx context.Context, filename string, data []byte) (*model.DocumentAnalysis, error)
}

// Server serves the analysis API
type Server struct {
	analyzer Analyzer
	sessions session.Store
	maxBytes int64
	allowed  map[string]bool
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Server
type Option func(*Server)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock sets the time source for response timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a server
func New(analyzer Analyzer, sessions session.Store, cfg model.ServerConfig, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		sessions: sessions,
		maxBytes: cfg.MaxUploadBytes,
		allowed:  make(map[string]bool, len(cfg.AllowedExtensions)),
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	if s.maxBytes <= 0 {
		s.maxBytes = 10 << 20
	}
	for _, ext := range cfg.AllowedExtensions {
		s.allowed[strings.ToLower(ext)] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = s.maxBytes

	r.GET("/health", s.health)
	r.POST("/analyze-contract", s.analyzeContract)
	r.GET("/session/:id", s.getSession)
	r.GET("/session/:id/info", s.sessionInfo)
	r.DELETE("/session/:id", s.deleteSession)

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
