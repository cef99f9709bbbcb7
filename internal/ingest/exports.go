package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/draftcut/draftcut-agent/internal/config"
	"github.com/draftcut/draftcut-agent/internal/logging"
	"github.com/draftcut/draftcut-agent/internal/render"
	"github.com/draftcut/draftcut-agent/internal/timeline"
)

// ArtifactExporter runs a compiled plan to completion.
type ArtifactExporter interface {
	Export(ctx context.Context, plan render.Plan, outPath string) error
}

// ExportService compiles project timelines and tracks their render records.
type ExportService struct {
	repo     Repository
	exporter ArtifactExporter
	cfg      config.Config
	logger   *slog.Logger
}

func NewExportService(repo Repository, exporter ArtifactExporter, cfg config.Config, logger *slog.Logger) *ExportService {
	return &ExportService{
		repo:     repo,
		exporter: exporter,
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "export"),
	}
}

// RequestExport validates and compiles the timeline, then runs the encode in
// the background. Validation failures are returned immediately with no
// record created; only a plan that compiled gets one.
func (s *ExportService) RequestExport(ctx context.Context, t timeline.ProjectTimeline, resolution, format string) (*Export, error) {
	preset, err := render.PresetByName(resolution)
	if err != nil {
		return nil, err
	}

	resolver, err := s.buildResolver(ctx, t)
	if err != nil {
		return nil, err
	}

	plan, err := render.BuildPlan(t, resolver, preset, format)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	export := &Export{
		ID:         NewID(),
		ProjectID:  t.ProjectID,
		Resolution: resolution,
		Format:     format,
		Status:     ExportStatusRunning,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateExport(ctx, export); err != nil {
		return nil, err
	}

	outPath := filepath.Join(s.cfg.ArtifactsDir(), "export_"+export.ID+"."+format)

	go s.run(export.ID, plan, outPath)

	s.logger.Info("export requested",
		"export_id", export.ID,
		"project_id", t.ProjectID,
		"resolution", resolution,
	)
	return export, nil
}

// run executes the encode detached from the request context; the exporter's
// own wall-clock timeout bounds it.
func (s *ExportService) run(exportID string, plan render.Plan, outPath string) {
	ctx := context.Background()
	logger := logging.WithExportID(s.logger, exportID)

	if err := s.exporter.Export(ctx, plan, outPath); err != nil {
		logger.Error("export failed", "error", err)
		s.repo.UpdateExportStatus(ctx, exportID, ExportStatusFailed, "", err.Error())
		return
	}
	logger.Info("export completed", "artifact", outPath)
	s.repo.UpdateExportStatus(ctx, exportID, ExportStatusCompleted, outPath, "")
}

func (s *ExportService) GetExport(ctx context.Context, id string) (*Export, error) {
	return s.repo.GetExport(ctx, id)
}

func (s *ExportService) ListExports(ctx context.Context, limit int) ([]*Export, error) {
	return s.repo.ListExports(ctx, limit)
}

// buildResolver snapshots every referenced asset up front so plan building
// stays synchronous and each export sees a consistent view.
func (s *ExportService) buildResolver(ctx context.Context, t timeline.ProjectTimeline) (render.Resolver, error) {
	ids := map[string]bool{}
	for _, c := range t.Clips {
		ids[c.AssetID] = true
	}
	for _, c := range t.AudioClips {
		ids[c.AssetID] = true
	}

	sources := make(map[string]render.SourceInfo, len(ids))
	for id := range ids {
		asset, err := s.repo.GetAsset(ctx, id)
		if err != nil {
			return nil, err
		}
		if asset == nil {
			return nil, fmt.Errorf("%w: unknown asset %s", render.ErrValidation, id)
		}
		path := asset.PlaybackPath()
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: asset %s source missing: %v", render.ErrValidation, id, err)
		}
		sources[id] = render.SourceInfo{
			Path:     path,
			Duration: asset.Duration,
			HasAudio: asset.HasAudio,
		}
	}

	return render.ResolverFunc(func(assetID string) (render.SourceInfo, error) {
		info, ok := sources[assetID]
		if !ok {
			return render.SourceInfo{}, fmt.Errorf("unknown asset %s", assetID)
		}
		return info, nil
	}), nil
}
