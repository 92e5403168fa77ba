// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medscan/facesheet-extractor/internal/export"
	"github.com/medscan/facesheet-extractor/internal/pipeline"
	"github.com/medscan/facesheet-extractor/internal/repository"
)

type Server struct {
	engine *gin.Engine
	proc   *pipeline.Processor
	pages  repository.PageRepository
	export *export.Service
	logger *slog.Logger

	uploadDir string
}

func New(
	proc *pipeline.Processor,
	pages repository.PageRepository,
	exporter *export.Service,
	uploadDir string,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if uploadDir == "" {
		uploadDir = "./tmp"
	}
	s := &Server{
		engine:    gin.New(),
		proc:      proc,
		pages:     pages,
		export:    exporter,
		logger:    logger,
		uploadDir: uploadDir,
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)
	s.engine.POST("/pages", s.uploadPage)
	s.engine.GET("/pages", s.listPages)
	s.engine.GET("/pages/:id/fields", s.pageFields)
	s.engine.GET("/export.xlsx", s.exportXLSX)
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests and returns.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
