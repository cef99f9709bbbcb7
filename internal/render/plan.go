package render

import (
	"fmt"

	"github.com/draftcut/draftcut-agent/internal/timeline"
)

// BuildPlan validates a project timeline and compiles it into a Plan.
// Validation failures wrap ErrValidation and leave no partial work behind.
func BuildPlan(t timeline.ProjectTimeline, resolver Resolver, preset Preset, format string) (Plan, error) {
	if err := ValidateFormat(format); err != nil {
		return Plan{}, err
	}
	if len(t.Clips) == 0 {
		return Plan{}, fmt.Errorf("%w: timeline has no clips", ErrValidation)
	}

	sources := map[string]SourceInfo{}
	resolve := func(assetID string) (SourceInfo, error) {
		if info, ok := sources[assetID]; ok {
			return info, nil
		}
		info, err := resolver.Resolve(assetID)
		if err != nil {
			return SourceInfo{}, fmt.Errorf("%w: asset %s: %v", ErrValidation, assetID, err)
		}
		sources[assetID] = info
		return info, nil
	}

	plan := Plan{
		Video:    make([]VideoSegment, 0, len(t.Clips)),
		Duration: timeline.ProjectDurationSeconds(t),
		Preset:   preset,
		Format:   format,
	}

	for _, c := range t.Clips {
		if c.SourceOut <= c.SourceIn+minExportClip {
			return Plan{}, fmt.Errorf("%w: clip %s spans %.3fs", ErrValidation, c.ID, c.SourceOut-c.SourceIn)
		}
		info, err := resolve(c.AssetID)
		if err != nil {
			return Plan{}, err
		}
		plan.Video = append(plan.Video, VideoSegment{
			SourcePath: info.Path,
			Inpoint:    c.SourceIn,
			Outpoint:   c.SourceOut,
		})
	}

	if t.TrackAudioMuted {
		plan.MuteAudio = true
		return plan, nil
	}

	// The default case reuses the concatenation's own audio untouched; a
	// filter graph is only worth building when something deviates from it.
	needMix := t.AudioUnlinked || t.TrackVolume() != 1
	if !needMix {
		for _, c := range t.Clips {
			if c.HasAudioAdjustments() {
				needMix = true
				break
			}
		}
	}
	if !needMix {
		return plan, nil
	}

	lane := t.AudioClips
	if !t.AudioUnlinked {
		lane = linkedLane(t)
	}

	trackVolume := t.TrackVolume()
	inputIndex := map[string]int{}
	for _, clip := range lane {
		if clip.Muted || clip.Length() <= 0 {
			continue
		}
		info, err := resolve(clip.AssetID)
		if err != nil {
			return Plan{}, err
		}
		if !info.HasAudio {
			continue
		}

		idx, ok := inputIndex[info.Path]
		if !ok {
			plan.AudioInputs = append(plan.AudioInputs, info.Path)
			idx = len(plan.AudioInputs)
			inputIndex[info.Path] = idx
		}

		length := clip.Length()
		start := clip.Start
		if start+length > plan.Duration {
			start = plan.Duration - length
		}
		if start < 0 {
			start = 0
		}

		plan.Audio = append(plan.Audio, AudioSegment{
			SourcePath: info.Path,
			InputIndex: idx,
			SourceIn:   clip.SourceIn,
			SourceOut:  clip.SourceOut,
			Start:      start,
			Volume:     timeline.ClampVolume(effectiveVolume(clip.Volume) * trackVolume),
			FadeIn:     timeline.ClampFade(clip.FadeIn, length),
			FadeOut:    timeline.ClampFade(clip.FadeOut, length),
		})
	}

	// Everything on the lane was muted or silent source material.
	if len(plan.Audio) == 0 {
		plan.AudioInputs = nil
		plan.MuteAudio = true
	}

	return plan, nil
}

// linkedLane derives a synthetic audio lane from the video clips, one
// segment per clip at that clip's own project-time offset. Linked and
// unlinked audio then share the same mix-building path.
func linkedLane(t timeline.ProjectTimeline) []timeline.AudioClip {
	offsets := timeline.ProjectClipOffsets(t)
	lane := make([]timeline.AudioClip, 0, len(t.Clips))
	for _, c := range t.Clips {
		lane = append(lane, timeline.AudioClip{
			ID:        c.ID,
			AssetID:   c.AssetID,
			SourceIn:  c.SourceIn,
			SourceOut: c.SourceOut,
			Start:     offsets[c.ID],
			Volume:    c.AudioVolume,
			Muted:     c.AudioMuted,
			FadeIn:    c.AudioFadeIn,
			FadeOut:   c.AudioFadeOut,
		})
	}
	return lane
}

// effectiveVolume treats the zero value as "unset", meaning unity gain.
func effectiveVolume(v float64) float64 {
	if v == 0 {
		return 1
	}
	return timeline.ClampVolume(v)
}
