package timeline

import (
	"fmt"
	"sort"

	"github.com/draftcut/draftcut-agent/internal/analysis"
)

const (
	// Cuts this close to either edge of the asset produce useless slivers.
	boundaryMargin = 0.3
	// Raw boundary pairs shorter than this are dropped outright.
	minRawClip = 0.25
	// Floor for the left-to-right absorb threshold.
	minAbsorb = 0.5
	// A clip counts as a highlight when non-silent audio covers this share.
	highlightCoverage = 0.6
	// Below this duration the template fallback is not worth emitting.
	templateMinDuration = 6.0
)

// BuildClipsFromCuts converts raw scene-cut timestamps into a bounded,
// well-formed set of labeled clips covering the asset's full duration.
func BuildClipsFromCuts(duration float64, cuts []float64, minClipSeconds float64, maxClips int) []AnalysisClip {
	clips := rawClips(duration, cuts)
	clips = absorbShort(clips, minClipSeconds)
	clips = capCount(clips, maxClips)

	if len(clips) <= 1 && duration > templateMinDuration {
		return templateClips(duration)
	}
	if len(clips) == 0 && duration > 0 {
		// Too short even for the template: one clip spanning the asset.
		return []AnalysisClip{{
			ID:    NewClipID(),
			Label: "Intro",
			Kind:  KindSource,
			Start: 0,
			End:   duration,
		}}
	}

	return labelClips(clips)
}

// rawClips builds boundary pairs from {0} ∪ interior cuts ∪ {duration}.
func rawClips(duration float64, cuts []float64) []AnalysisClip {
	boundaries := []float64{0}
	for _, c := range cuts {
		if c > boundaryMargin && c < duration-boundaryMargin {
			boundaries = append(boundaries, c)
		}
	}
	boundaries = append(boundaries, duration)
	sort.Float64s(boundaries)

	clips := make([]AnalysisClip, 0, len(boundaries)-1)
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if end-start < minRawClip {
			continue
		}
		clips = append(clips, AnalysisClip{
			ID:    NewClipID(),
			Kind:  KindSource,
			Start: start,
			End:   end,
		})
	}
	return clips
}

// absorbShort merges any clip shorter than max(minAbsorb, minClipSeconds)
// into the preceding accumulated clip. The very first clip is always kept.
func absorbShort(clips []AnalysisClip, minClipSeconds float64) []AnalysisClip {
	if len(clips) == 0 {
		return clips
	}

	threshold := minClipSeconds
	if threshold < minAbsorb {
		threshold = minAbsorb
	}

	out := []AnalysisClip{clips[0]}
	for _, c := range clips[1:] {
		if c.Length() < threshold {
			out[len(out)-1].End = c.End
			continue
		}
		out = append(out, c)
	}
	return out
}

// capCount repeatedly merges the globally shortest clip with a neighbour
// until the count fits. Quadratic in the clip count, which stays small here;
// revisit before feeding it unbounded cut lists.
func capCount(clips []AnalysisClip, maxClips int) []AnalysisClip {
	if maxClips <= 0 {
		return clips
	}

	for len(clips) > maxClips {
		shortest := 0
		for i, c := range clips {
			if c.Length() < clips[shortest].Length() {
				shortest = i
			}
		}

		if shortest == 0 {
			// Merge forward: the successor takes the first clip's start.
			clips[1].Start = clips[0].Start
			clips = clips[1:]
		} else {
			// Merge backward into the predecessor.
			clips[shortest-1].End = clips[shortest].End
			clips = append(clips[:shortest], clips[shortest+1:]...)
		}
	}
	return clips
}

// labelClips names the first clip Intro and the last Outro when at least two
// clips remain; interior clips are numbered scenes.
func labelClips(clips []AnalysisClip) []AnalysisClip {
	if len(clips) < 2 {
		for i := range clips {
			if clips[i].Label == "" {
				clips[i].Label = fmt.Sprintf("Scene %d", i+1)
			}
		}
		return clips
	}

	clips[0].Label = "Intro"
	clips[0].Kind = KindSource
	clips[len(clips)-1].Label = "Outro"
	clips[len(clips)-1].Kind = KindSource
	for i := 1; i < len(clips)-1; i++ {
		clips[i].Label = fmt.Sprintf("Scene %d", i)
	}
	return clips
}

// templateClips synthesizes the fixed 5-segment fallback used when scene
// detection found nothing usable.
func templateClips(duration float64) []AnalysisClip {
	segments := []struct {
		label string
		kind  ClipKind
	}{
		{"Intro", KindSource},
		{"Action Peak", KindHighlight},
		{"Highlight", KindHighlight},
		{"Climax", KindHighlight},
		{"Outro", KindSource},
	}

	width := duration / float64(len(segments))
	clips := make([]AnalysisClip, len(segments))
	for i, seg := range segments {
		start := width * float64(i)
		end := start + width
		if i == len(segments)-1 {
			end = duration
		}
		clips[i] = AnalysisClip{
			ID:    NewClipID(),
			Label: seg.label,
			Kind:  seg.kind,
			Start: start,
			End:   end,
		}
	}
	return clips
}

// ClassifyClips refines interior clip kinds from silence analysis: a clip
// whose duration is mostly covered by non-silent audio becomes a highlight.
// Purely additive; callers skip it entirely when silence analysis failed or
// the asset has no audio.
func ClassifyClips(clips []AnalysisClip, nonSilent []analysis.Interval) []AnalysisClip {
	out := make([]AnalysisClip, len(clips))
	copy(out, clips)

	for i := 1; i < len(out)-1; i++ {
		length := out[i].Length()
		if length <= 0 {
			continue
		}
		covered := analysis.OverlapSeconds(analysis.Interval{Start: out[i].Start, End: out[i].End}, nonSilent)
		if covered/length >= highlightCoverage {
			out[i].Kind = KindHighlight
		} else {
			out[i].Kind = KindSource
		}
	}
	return out
}
