package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/draftcut/draftcut-agent/internal/analysis"
	"github.com/draftcut/draftcut-agent/internal/config"
	"github.com/draftcut/draftcut-agent/internal/logging"
	"github.com/draftcut/draftcut-agent/internal/media"
	"github.com/draftcut/draftcut-agent/internal/timeline"
)

const maxSceneCuts = 512

// Prober is the slice of the ffmpeg wrapper the pipeline needs.
type Prober interface {
	Probe(ctx context.Context, timeout time.Duration, path string) (*media.ProbeResult, error)
	NormalizeRotation(ctx context.Context, timeout time.Duration, path, outPath string, rotation int) error
	GenerateWaveform(ctx context.Context, timeout time.Duration, path, outPath string) error
}

// Detector is the slice of the diagnostic-text analyzer the pipeline needs.
type Detector interface {
	DetectSceneCuts(ctx context.Context, timeout time.Duration, path string, threshold float64, maxCuts int) ([]float64, error)
	DetectSilences(ctx context.Context, timeout time.Duration, path string, noiseDb, minSilenceSec float64) ([]analysis.Interval, error)
}

// Service registers assets and runs the upload pipeline over them.
type Service struct {
	repo     Repository
	prober   Prober
	detector Detector
	cfg      config.Config
	logger   *slog.Logger
}

func NewService(repo Repository, prober Prober, detector Detector, cfg config.Config, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		prober:   prober,
		detector: detector,
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "ingest"),
	}
}

// AddAsset registers a source file and schedules its ingest job.
func (s *Service) AddAsset(ctx context.Context, sourcePath string) (*Asset, *Job, error) {
	absPath, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, nil, fmt.Errorf("source does not exist: %w", err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("source is a directory")
	}
	if !IsVideoFile(absPath) {
		return nil, nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(absPath))
	}

	now := time.Now()
	asset := &Asset{
		ID:         NewID(),
		SourcePath: absPath,
		Status:     AssetStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		return nil, nil, err
	}

	job := &Job{
		ID:        NewID(),
		Type:      JobTypeIngest,
		Status:    JobStatusPending,
		AssetID:   asset.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, nil, err
	}

	s.logger.Info("asset registered", "asset_id", asset.ID, "job_id", job.ID, "path", logging.SanitizePath(absPath))
	return asset, job, nil
}

func (s *Service) GetAsset(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Service) ListAssets(ctx context.Context) ([]*Asset, error) {
	return s.repo.ListAssets(ctx)
}

func (s *Service) DeleteAsset(ctx context.Context, id string) error {
	return s.repo.DeleteAsset(ctx, id)
}

// GetTimeline returns the synthesized initial cut for a ready asset.
func (s *Service) GetTimeline(ctx context.Context, assetID string) (*AssetTimeline, error) {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("asset not found")
	}

	clips, err := s.repo.GetAnalysisClips(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return &AssetTimeline{
		AssetID:         assetID,
		DurationSeconds: asset.Duration,
		Clips:           clips,
	}, nil
}

// ExecuteIngest runs the upload pipeline for one job. The probe is the only
// fatal stage; everything after it degrades independently, so a silence
// failure never unwinds a completed normalization.
func (s *Service) ExecuteIngest(ctx context.Context, job *Job) error {
	logger := logging.WithAssetID(logging.WithJobID(s.logger, job.ID), job.AssetID)

	asset, err := s.repo.GetAsset(ctx, job.AssetID)
	if err != nil || asset == nil {
		s.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "asset not found")
		return fmt.Errorf("asset %s not found", job.AssetID)
	}

	s.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, "")
	s.repo.UpdateAssetStatus(ctx, asset.ID, AssetStatusProcessing, "")

	probe, err := s.prober.Probe(ctx, s.cfg.TimeoutProbe(), asset.SourcePath)
	if err != nil {
		logger.Error("probe failed", "error", err)
		s.repo.UpdateAssetStatus(ctx, asset.ID, AssetStatusFailed, err.Error())
		s.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, fmt.Sprintf("probe failed: %v", err))
		return err
	}

	asset.Duration = probe.Duration
	asset.HasAudio = probe.HasAudio
	asset.Rotation = probe.Rotation
	asset.Width = probe.Width
	asset.Height = probe.Height
	s.repo.UpdateJobProgress(ctx, job.ID, 20)

	if probe.Rotation != 0 {
		s.normalizeRotation(ctx, asset, logger)
	}
	s.repo.UpdateJobProgress(ctx, job.ID, 40)

	playback := asset.PlaybackPath()

	cuts, err := s.detector.DetectSceneCuts(ctx, s.cfg.TimeoutAnalyze(), playback, s.cfg.SceneThreshold(), maxSceneCuts)
	if err != nil {
		// Degraded: the synthesizer's template fallback takes over.
		logger.Warn("scene detection unavailable", "error", err)
		cuts = nil
	}
	s.repo.UpdateJobProgress(ctx, job.ID, 60)

	var silences []analysis.Interval
	silencesOK := false
	if asset.HasAudio {
		silences, err = s.detector.DetectSilences(ctx, s.cfg.TimeoutAnalyze(), playback, s.cfg.SilenceNoiseDb(), s.cfg.MinSilenceSeconds())
		if err != nil {
			logger.Warn("silence detection unavailable", "error", err)
		} else {
			silencesOK = true
		}
	}
	s.repo.UpdateJobProgress(ctx, job.ID, 75)

	if asset.HasAudio {
		s.generateWaveform(ctx, asset, playback, logger)
	}
	s.repo.UpdateJobProgress(ctx, job.ID, 85)

	clips := timeline.BuildClipsFromCuts(asset.Duration, cuts, s.cfg.MinClipSeconds(), s.cfg.MaxAnalysisClips())
	if silencesOK {
		domain := analysis.Interval{Start: 0, End: asset.Duration}
		nonSilent := analysis.Invert(domain, analysis.MergeIntervals(silences))
		clips = timeline.ClassifyClips(clips, nonSilent)
	}

	if err := s.repo.ReplaceAnalysisClips(ctx, asset.ID, clips); err != nil {
		logger.Error("failed to persist analysis clips", "error", err)
		s.repo.UpdateAssetStatus(ctx, asset.ID, AssetStatusFailed, err.Error())
		s.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, fmt.Sprintf("persist clips: %v", err))
		return err
	}
	if err := s.repo.UpdateAssetMedia(ctx, asset); err != nil {
		s.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, fmt.Sprintf("persist asset: %v", err))
		return err
	}

	s.repo.UpdateAssetStatus(ctx, asset.ID, AssetStatusReady, "")
	s.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
	s.repo.UpdateJobProgress(ctx, job.ID, 100)

	logger.Info("ingest completed",
		"duration_s", asset.Duration,
		"has_audio", asset.HasAudio,
		"clips", len(clips),
	)
	return nil
}

// normalizeRotation bakes the rotation into the pixels so every later stage
// and the final concat see an upright, rotation-free file. Failure keeps the
// original file and its rotation metadata.
func (s *Service) normalizeRotation(ctx context.Context, asset *Asset, logger *slog.Logger) {
	outPath := filepath.Join(s.cfg.DerivedDir(), asset.ID+"_normalized.mp4")
	if err := os.MkdirAll(s.cfg.DerivedDir(), 0o755); err != nil {
		logger.Warn("rotation normalization unavailable", "error", err)
		return
	}

	if err := s.prober.NormalizeRotation(ctx, s.cfg.TimeoutNormalize(), asset.SourcePath, outPath, asset.Rotation); err != nil {
		logger.Warn("rotation normalization failed", "error", err, "rotation", asset.Rotation)
		os.Remove(outPath)
		return
	}

	asset.NormalizedPath = outPath
	if asset.Rotation == 90 || asset.Rotation == 270 {
		asset.Width, asset.Height = asset.Height, asset.Width
	}
	asset.Rotation = 0
	logger.Info("rotation normalized", "path", outPath)
}

func (s *Service) generateWaveform(ctx context.Context, asset *Asset, playback string, logger *slog.Logger) {
	outPath := filepath.Join(s.cfg.DerivedDir(), asset.ID+"_waveform.png")
	if err := os.MkdirAll(s.cfg.DerivedDir(), 0o755); err != nil {
		logger.Warn("waveform generation unavailable", "error", err)
		return
	}

	if err := s.prober.GenerateWaveform(ctx, s.cfg.TimeoutWaveform(), playback, outPath); err != nil {
		logger.Warn("waveform generation failed", "error", err)
		os.Remove(outPath)
		return
	}
	asset.WaveformPath = outPath
}
