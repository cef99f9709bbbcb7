package api

import (
	"time"

	"github.com/draftcut/draftcut-agent/internal/ingest"
	"github.com/draftcut/draftcut-agent/internal/timeline"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State       string       `json:"state"`
	LastError   string       `json:"last_error,omitempty"`
	AssetsCount int          `json:"assets_count"`
	JobsRunning int          `json:"jobs_running"`
	ActiveJob   *JobResponse `json:"active_job,omitempty"`
}

type AddAssetRequest struct {
	Path string `json:"path"`
}

type AddAssetResponse struct {
	AssetID string `json:"asset_id"`
	JobID   string `json:"job_id"`
}

type AssetResponse struct {
	ID          string  `json:"id"`
	SourcePath  string  `json:"source_path"`
	Duration    float64 `json:"duration_seconds"`
	HasAudio    bool    `json:"has_audio"`
	Rotation    int     `json:"rotation"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Status      string  `json:"status"`
	Error       string  `json:"error,omitempty"`
	HasWaveform bool    `json:"has_waveform"`
	CreatedAt   string  `json:"created_at"`
}

type AssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}

type JobResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	AssetID   string `json:"asset_id,omitempty"`
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type SplitRequest struct {
	Timeline timeline.ProjectTimeline `json:"timeline"`
	ClipID   string                   `json:"clip_id"`
	At       float64                  `json:"at"`
}

type SplitResponse struct {
	Timeline    timeline.ProjectTimeline `json:"timeline"`
	RightClipID string                   `json:"right_clip_id,omitempty"`
	Applied     bool                     `json:"applied"`
}

type TrimRequest struct {
	Timeline      timeline.ProjectTimeline `json:"timeline"`
	TargetSeconds float64                  `json:"target_seconds"`
}

type InsertRequest struct {
	Timeline timeline.ProjectTimeline `json:"timeline"`
	Clip     timeline.ProjectClip     `json:"clip"`
	At       float64                  `json:"at"`
}

type ReorderRequest struct {
	Timeline timeline.ProjectTimeline `json:"timeline"`
	ClipID   string                   `json:"clip_id"`
	To       float64                  `json:"to"`
}

type AudioInsertRequest struct {
	Timeline timeline.ProjectTimeline `json:"timeline"`
	Clip     timeline.AudioClip       `json:"clip"`
	At       float64                  `json:"at"`
}

type TimelineResponse struct {
	Timeline timeline.ProjectTimeline `json:"timeline"`
	Moved    bool                     `json:"moved,omitempty"`
}

type OffsetsRequest struct {
	Timeline timeline.ProjectTimeline `json:"timeline"`
}

type OffsetsResponse struct {
	Offsets         map[string]float64 `json:"offsets"`
	DurationSeconds float64            `json:"duration_seconds"`
}

type CreateExportRequest struct {
	Timeline   timeline.ProjectTimeline `json:"timeline"`
	Resolution string                   `json:"resolution"`
	Format     string                   `json:"format"`
}

type ExportResponse struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id"`
	Resolution string `json:"resolution"`
	Format     string `json:"format"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type ExportsResponse struct {
	Exports []ExportResponse `json:"exports"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func AssetToResponse(a *ingest.Asset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		SourcePath:  a.SourcePath,
		Duration:    a.Duration,
		HasAudio:    a.HasAudio,
		Rotation:    a.Rotation,
		Width:       a.Width,
		Height:      a.Height,
		Status:      a.Status,
		Error:       a.Error,
		HasWaveform: a.WaveformPath != "",
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

func JobToResponse(j *ingest.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		Type:      j.Type,
		Status:    j.Status,
		AssetID:   j.AssetID,
		Progress:  j.Progress,
		Error:     j.Error,
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
		UpdatedAt: j.UpdatedAt.Format(time.RFC3339),
	}
}

func ExportToResponse(e *ingest.Export) ExportResponse {
	return ExportResponse{
		ID:         e.ID,
		ProjectID:  e.ProjectID,
		Resolution: e.Resolution,
		Format:     e.Format,
		Status:     e.Status,
		Error:      e.Error,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  e.UpdatedAt.Format(time.RFC3339),
	}
}
