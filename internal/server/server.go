// Package server exposes the report pipeline over HTTP: multipart upload of
// one DOCX template plus one or more evidence PDFs triggers a single-shot
// run; finished artifacts are retrievable per run.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glr-works/glreport/internal/common"
	"github.com/glr-works/glreport/internal/pipeline"
	"github.com/glr-works/glreport/internal/repository"
)

type Server struct {
	engine    *gin.Engine
	http      *http.Server
	processor *pipeline.Processor
	runs      repository.RunRepository
	logger    *slog.Logger
}

func New(addr string, processor *pipeline.Processor, runs repository.RunRepository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:    engine,
		http:      &http.Server{Addr: addr, Handler: engine},
		processor: processor,
		runs:      runs,
		logger:    logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.Use(s.requestLog())

	s.engine.GET("/healthz", s.health)

	v1 := s.engine.Group("/api/v1")
	v1.POST("/reports", s.createReport)
	v1.GET("/runs", s.listRuns)
	v1.GET("/runs/:id", s.getRun)
	v1.GET("/runs/:id/report.docx", s.downloadArtifact(artifactDocx))
	v1.GET("/runs/:id/report.pdf", s.downloadArtifact(artifactPDF))
	v1.GET("/runs/:id/fields.xlsx", s.downloadArtifact(artifactXLSX))
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := uuid.New().String()
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
		c.Header("X-Request-ID", rid)

		c.Next()

		s.logger.Info("http.request",
			"request_id", rid,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
