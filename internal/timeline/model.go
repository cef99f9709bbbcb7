// Package timeline holds the editable project model and its pure algebra.
// A timeline is a value: every operation returns a new timeline and the
// caller (the external editor) owns versioning and undo.
package timeline

import (
	"github.com/google/uuid"
)

// MinClipLength is the shortest clip the model will ever produce, in seconds.
const MinClipLength = 0.2

// MaxVolume caps per-clip and track gain.
const MaxVolume = 2.0

// ClipKind is the closed classification of an analysis clip.
type ClipKind string

const (
	KindSource    ClipKind = "source"
	KindHighlight ClipKind = "highlight"
	KindBroll     ClipKind = "broll"
)

// AnalysisClip is one span of an asset's own timeline, produced once by the
// synthesizer and immutable afterwards.
type AnalysisClip struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  ClipKind `json:"kind"`
	Start float64  `json:"start"`
	End   float64  `json:"end"`
}

func (c AnalysisClip) Length() float64 {
	return c.End - c.Start
}

// AnalysisTimeline is the initial cut handed to the editor after upload.
type AnalysisTimeline struct {
	AssetID         string         `json:"asset_id"`
	DurationSeconds float64        `json:"duration_seconds"`
	Clips           []AnalysisClip `json:"clips"`
}

// ProjectClip is one clip on the main video lane. Its position in project
// time is never stored; it is the prefix sum of the preceding clip lengths.
type ProjectClip struct {
	ID           string  `json:"id"`
	AssetID      string  `json:"asset_id"`
	Label        string  `json:"label"`
	SourceIn     float64 `json:"source_in"`
	SourceOut    float64 `json:"source_out"`
	AudioVolume  float64 `json:"audio_volume"`
	AudioMuted   bool    `json:"audio_muted"`
	AudioFadeIn  float64 `json:"audio_fade_in"`
	AudioFadeOut float64 `json:"audio_fade_out"`
}

func (c ProjectClip) Length() float64 {
	if c.SourceOut <= c.SourceIn {
		return 0
	}
	return c.SourceOut - c.SourceIn
}

// HasAudioAdjustments reports whether the clip deviates from the default
// pass-through audio (volume 1, no mute, no fades).
func (c ProjectClip) HasAudioAdjustments() bool {
	return c.AudioMuted || c.AudioFadeIn > 0 || c.AudioFadeOut > 0 ||
		(c.AudioVolume != 0 && c.AudioVolume != 1)
}

// AudioClip is an independently placed clip on the unlinked audio lane.
// Unlike video clips, its project-time start is absolute.
type AudioClip struct {
	ID        string  `json:"id"`
	AssetID   string  `json:"asset_id"`
	Label     string  `json:"label"`
	SourceIn  float64 `json:"source_in"`
	SourceOut float64 `json:"source_out"`
	Start     float64 `json:"start"`
	Volume    float64 `json:"volume"`
	Muted     bool    `json:"muted"`
	FadeIn    float64 `json:"fade_in"`
	FadeOut   float64 `json:"fade_out"`
}

func (c AudioClip) Length() float64 {
	if c.SourceOut <= c.SourceIn {
		return 0
	}
	return c.SourceOut - c.SourceIn
}

// ProjectTimeline is the complete editable project value. Audio is linked
// (following the video lane) unless AudioUnlinked is set, in which case
// AudioClips carries the independent audio lane.
type ProjectTimeline struct {
	ProjectID        string        `json:"project_id"`
	Clips            []ProjectClip `json:"clips"`
	AudioUnlinked    bool          `json:"audio_unlinked,omitempty"`
	AudioClips       []AudioClip   `json:"audio_clips,omitempty"`
	TrackAudioMuted  bool          `json:"track_audio_muted,omitempty"`
	TrackAudioVolume *float64      `json:"track_audio_volume,omitempty"`
}

// TrackVolume returns the track-level gain, defaulting to 1 when unset and
// clamped into [0, MaxVolume].
func (t ProjectTimeline) TrackVolume() float64 {
	if t.TrackAudioVolume == nil {
		return 1
	}
	return ClampVolume(*t.TrackAudioVolume)
}

// ClampVolume restricts a gain value to [0, MaxVolume].
func ClampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// ClampFade restricts a fade duration to at most half the owning clip length.
func ClampFade(fade, clipLength float64) float64 {
	if fade < 0 {
		return 0
	}
	if half := clipLength / 2; fade > half {
		return half
	}
	return fade
}

// NewClipID mints an identity for a clip.
func NewClipID() string {
	return uuid.NewString()
}
