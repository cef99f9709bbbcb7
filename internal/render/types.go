// Package render compiles a project timeline into an ffmpeg execution plan
// and runs the single-pass export. Cutting happens at the container level
// through the concat demuxer; exactly one re-encode at the end keeps cuts
// frame-accurate regardless of keyframe placement.
package render

import (
	"errors"
	"fmt"
)

// ErrValidation wraps all plan rejections: empty timeline, unresolved
// assets, degenerate clips, unsupported format or preset. Nothing is
// attempted after a validation failure.
var ErrValidation = errors.New("invalid export request")

// ErrExportFailed is the single opaque outcome for a render process that
// failed or timed out. No partial artifact survives it.
var ErrExportFailed = errors.New("export failed")

// minExportClip is the shortest source span the compiler accepts. Anything
// tighter than this produces segments the concat demuxer rounds away.
const minExportClip = 0.05

// Preset is a fixed output resolution. Width is computed by the encoder to
// preserve the source aspect ratio.
type Preset struct {
	Name   string
	Height int
}

var presets = []Preset{
	{Name: "480p", Height: 480},
	{Name: "720p", Height: 720},
	{Name: "1080p", Height: 1080},
}

// PresetByName resolves one of the three fixed resolution presets.
func PresetByName(name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: unknown resolution %q", ErrValidation, name)
}

// ValidateFormat accepts the single supported container format.
func ValidateFormat(format string) error {
	if format != "mp4" {
		return fmt.Errorf("%w: unsupported format %q", ErrValidation, format)
	}
	return nil
}

// SourceInfo is what the asset resolver reports for one asset.
type SourceInfo struct {
	Path     string
	Duration float64
	HasAudio bool
}

// Resolver maps an asset id to its playable source file. Implementations
// return an error for unknown ids or files that no longer exist.
type Resolver interface {
	Resolve(assetID string) (SourceInfo, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(assetID string) (SourceInfo, error)

func (f ResolverFunc) Resolve(assetID string) (SourceInfo, error) {
	return f(assetID)
}

// VideoSegment is one concat demuxer entry: play sourcePath from Inpoint
// to Outpoint.
type VideoSegment struct {
	SourcePath string
	Inpoint    float64
	Outpoint   float64
}

// AudioSegment is one fully clamped entry in the audio mix. InputIndex is
// the ffmpeg input number of its source file (input 0 is the concat list).
type AudioSegment struct {
	SourcePath string
	InputIndex int
	SourceIn   float64
	SourceOut  float64
	Start      float64
	Volume     float64
	FadeIn     float64
	FadeOut    float64
}

func (s AudioSegment) Length() float64 {
	return s.SourceOut - s.SourceIn
}

// Plan is everything Export needs to run ffmpeg once.
type Plan struct {
	Video []VideoSegment
	// Audio carries the mix segments; empty when the output reuses the
	// concatenation's own audio untouched or has no audio at all.
	Audio []AudioSegment
	// AudioInputs lists the deduplicated source files backing Audio, in
	// ffmpeg input order starting at index 1.
	AudioInputs []string
	// MuteAudio strips the audio track entirely.
	MuteAudio bool
	// Duration is the exact project length the mix is trimmed to.
	Duration float64
	Preset   Preset
	Format   string
}

// HasMix reports whether the export needs a filter graph for audio.
func (p Plan) HasMix() bool {
	return !p.MuteAudio && len(p.Audio) > 0
}
