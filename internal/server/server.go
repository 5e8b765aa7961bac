package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"captioncraft/internal/app"
	"captioncraft/internal/app/model"
	"captioncraft/pkg/config"
)

const (
	geminiKeyHeader = "X-Gemini-Api-Key"
	groqKeyHeader   = "X-Groq-Api-Key"
)

type Pipeline interface {
	Normalize(ctx context.Context, input model.Input, creds app.Credentials) (model.ContentSummary, error)
	Generate(ctx context.Context, req model.CaptionRequest, creds app.Credentials) ([]model.CaptionResult, error)
	Regenerate(ctx context.Context, req model.CaptionRequest, creds app.Credentials, exclude []string) (model.CaptionResult, error)
	Run(ctx context.Context, input model.Input, opts app.RunOptions, creds app.Credentials) (*app.RunResult, error)
}

// Server exposes the pipeline to the add-on panel. API keys arrive as
// request headers and are never stored.
type Server struct {
	pipeline Pipeline
	cfg      config.ServerConfig
	handler  http.Handler
	http     *http.Server
}

func New(pipeline Pipeline, cfg config.ServerConfig) *Server {
	s := &Server{pipeline: pipeline, cfg: cfg}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	api.Use(rateLimit(cfg.RequestsPerMinute))
	{
		api.POST("/summaries", s.handleSummarize)
		api.POST("/captions", s.handleGenerate)
		api.POST("/captions/regenerate", s.handleRegenerate)
		api.POST("/runs", s.handleRun)
	}

	s.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", geminiKeyHeader, groqKeyHeader},
		MaxAge:         600,
	}).Handler(engine)

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	slog.Info("Listening", "addr", s.cfg.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func credentials(c *gin.Context) app.Credentials {
	return app.Credentials{
		Gemini: c.GetHeader(geminiKeyHeader),
		Groq:   c.GetHeader(groqKeyHeader),
	}
}
