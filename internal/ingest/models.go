// Package ingest owns the asset library: registering raw footage, running
// the upload analysis pipeline, and recording export outcomes.
package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/draftcut/draftcut-agent/internal/timeline"
)

const (
	AssetStatusPending    = "pending"
	AssetStatusProcessing = "processing"
	AssetStatusReady      = "ready"
	AssetStatusFailed     = "failed"

	JobTypeIngest = "ingest"

	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"

	ExportStatusRunning   = "running"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

// Asset is one piece of registered source footage plus everything the
// pipeline learned about it.
type Asset struct {
	ID             string    `json:"id"`
	SourcePath     string    `json:"source_path"`
	NormalizedPath string    `json:"normalized_path,omitempty"`
	WaveformPath   string    `json:"waveform_path,omitempty"`
	Duration       float64   `json:"duration_seconds"`
	HasAudio       bool      `json:"has_audio"`
	Rotation       int       `json:"rotation"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PlaybackPath is the file every later stage reads: the rotation-normalized
// copy when one exists, the original otherwise.
func (a *Asset) PlaybackPath() string {
	if a.NormalizedPath != "" {
		return a.NormalizedPath
	}
	return a.SourcePath
}

type Job struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	AssetID   string    `json:"asset_id,omitempty"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Export is the persisted record of one render request.
type Export struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Resolution   string    `json:"resolution"`
	Format       string    `json:"format"`
	Status       string    `json:"status"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AssetTimeline pairs an asset with its synthesized clips for the editor.
type AssetTimeline = timeline.AnalysisTimeline

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
}

func NewID() string {
	return uuid.NewString()
}

func IsVideoFile(filename string) bool {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return false
	}
	return videoExtensions[strings.ToLower(filename[idx:])]
}
