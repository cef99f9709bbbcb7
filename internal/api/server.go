package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/draftcut/draftcut-agent/internal/ingest"
	"github.com/draftcut/draftcut-agent/internal/timeline"
)

// AssetService is the slice of the ingest service the API exposes.
type AssetService interface {
	AddAsset(ctx context.Context, sourcePath string) (*ingest.Asset, *ingest.Job, error)
	GetAsset(ctx context.Context, id string) (*ingest.Asset, error)
	ListAssets(ctx context.Context) ([]*ingest.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
	GetTimeline(ctx context.Context, assetID string) (*ingest.AssetTimeline, error)
}

// ExportService is the slice of the export service the API exposes.
type ExportService interface {
	RequestExport(ctx context.Context, t timeline.ProjectTimeline, resolution, format string) (*ingest.Export, error)
	GetExport(ctx context.Context, id string) (*ingest.Export, error)
	ListExports(ctx context.Context, limit int) ([]*ingest.Export, error)
}

// FileServer streams a local file over HTTP with range support.
type FileServer interface {
	ServeFile(w http.ResponseWriter, r *http.Request, filePath string) error
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port       int
	Assets     AssetService
	Exports    ExportService
	Repository ingest.Repository
	Runner     *ingest.Runner
	Files      FileServer
	Logger     *slog.Logger
	StartTime  time.Time
	DeviceID   string
	Version    string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
