package timeline

import (
	"fmt"
	"sort"
)

// ProjectDurationSeconds is the total length of the video lane.
func ProjectDurationSeconds(t ProjectTimeline) float64 {
	total := 0.0
	for _, c := range t.Clips {
		total += c.Length()
	}
	return total
}

// ProjectClipOffsets derives each clip's project-time start as a prefix sum.
// Offsets are always recomputed, never persisted.
func ProjectClipOffsets(t ProjectTimeline) map[string]float64 {
	offsets := make(map[string]float64, len(t.Clips))
	cursor := 0.0
	for _, c := range t.Clips {
		offsets[c.ID] = cursor
		cursor += c.Length()
	}
	return offsets
}

// SplitClipAt splits a clip at source time at, returning the new timeline and
// the id of the right-hand (selected) clip. The split point is clamped into
// (sourceIn+MinClipLength, sourceOut-MinClipLength); when the clamped point
// does not lie strictly inside that open interval the operation does not
// apply and the original timeline is returned with applied=false.
func SplitClipAt(t ProjectTimeline, clipID string, at float64) (ProjectTimeline, string, bool) {
	idx := -1
	for i, c := range t.Clips {
		if c.ID == clipID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return t, "", false
	}

	clip := t.Clips[idx]
	lo := clip.SourceIn + MinClipLength
	hi := clip.SourceOut - MinClipLength

	if at < lo {
		at = lo
	}
	if at > hi {
		at = hi
	}
	if !(at > lo && at < hi) {
		return t, "", false
	}

	left := clip
	left.SourceOut = at

	right := clip
	right.ID = NewClipID()
	right.SourceIn = at

	clips := make([]ProjectClip, 0, len(t.Clips)+1)
	clips = append(clips, t.Clips[:idx]...)
	clips = append(clips, left, right)
	clips = append(clips, t.Clips[idx+1:]...)

	out := t
	out.Clips = clips
	return out, right.ID, true
}

// TrimToTargetSeconds shortens the timeline to at most max(5, target)
// seconds. Clips are kept whole in order while they fit; the first clip that
// would exceed the budget is truncated to fill it exactly, and everything
// after is dropped. Order is never changed and no clip is ever extended.
func TrimToTargetSeconds(t ProjectTimeline, target float64) ProjectTimeline {
	if target < 5 {
		target = 5
	}

	kept := make([]ProjectClip, 0, len(t.Clips))
	total := 0.0
	for _, c := range t.Clips {
		length := c.Length()
		if total+length <= target {
			kept = append(kept, c)
			total += length
			continue
		}

		remaining := target - total
		if remaining >= MinClipLength {
			truncated := c
			truncated.SourceOut = truncated.SourceIn + remaining
			kept = append(kept, truncated)
		}
		break
	}

	out := t
	out.Clips = kept
	return out
}

// InsertAtTime places a clip on the video lane near project time at. The
// insertion index is found by comparing at against each clip's project-time
// midpoint: before the first clip whose midpoint lies beyond at, else at the
// end. Write invariants are applied to the inserted clip.
func InsertAtTime(t ProjectTimeline, clip ProjectClip, at float64) (ProjectTimeline, error) {
	if clip.Length() < MinClipLength {
		return t, fmt.Errorf("clip too short: %.3fs (minimum %.1fs)", clip.Length(), MinClipLength)
	}
	if clip.ID == "" {
		clip.ID = NewClipID()
	}
	clip.AudioVolume = ClampVolume(clip.AudioVolume)
	clip.AudioFadeIn = ClampFade(clip.AudioFadeIn, clip.Length())
	clip.AudioFadeOut = ClampFade(clip.AudioFadeOut, clip.Length())

	idx := insertionIndex(t.Clips, at)

	clips := make([]ProjectClip, 0, len(t.Clips)+1)
	clips = append(clips, t.Clips[:idx]...)
	clips = append(clips, clip)
	clips = append(clips, t.Clips[idx:]...)

	out := t
	out.Clips = clips
	return out, nil
}

// ReorderToTime moves an existing video clip to the slot nearest project
// time to, using the same midpoint rule as InsertAtTime evaluated against
// the remaining clips.
func ReorderToTime(t ProjectTimeline, clipID string, to float64) (ProjectTimeline, bool) {
	idx := -1
	for i, c := range t.Clips {
		if c.ID == clipID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return t, false
	}

	moved := t.Clips[idx]
	rest := make([]ProjectClip, 0, len(t.Clips)-1)
	rest = append(rest, t.Clips[:idx]...)
	rest = append(rest, t.Clips[idx+1:]...)

	at := insertionIndex(rest, to)

	clips := make([]ProjectClip, 0, len(t.Clips))
	clips = append(clips, rest[:at]...)
	clips = append(clips, moved)
	clips = append(clips, rest[at:]...)

	out := t
	out.Clips = clips
	return out, true
}

// insertionIndex walks clip midpoints in project time and returns the index
// of the first clip whose midpoint lies past at.
func insertionIndex(clips []ProjectClip, at float64) int {
	cursor := 0.0
	for i, c := range clips {
		mid := cursor + c.Length()/2
		if at < mid {
			return i
		}
		cursor += c.Length()
	}
	return len(clips)
}

// InsertAudioAtTime places a clip on the unlinked audio lane at project time
// at. The start is clamped so the clip fits inside the project duration, and
// the lane stays sorted by start.
func InsertAudioAtTime(t ProjectTimeline, clip AudioClip, at float64) (ProjectTimeline, error) {
	if clip.Length() < MinClipLength {
		return t, fmt.Errorf("audio clip too short: %.3fs (minimum %.1fs)", clip.Length(), MinClipLength)
	}
	if clip.ID == "" {
		clip.ID = NewClipID()
	}
	clip.Volume = ClampVolume(clip.Volume)
	clip.FadeIn = ClampFade(clip.FadeIn, clip.Length())
	clip.FadeOut = ClampFade(clip.FadeOut, clip.Length())
	clip.Start = clampAudioStart(at, clip.Length(), ProjectDurationSeconds(t))

	out := t
	out.AudioUnlinked = true
	out.AudioClips = append(append([]AudioClip{}, t.AudioClips...), clip)
	sortAudioLane(out.AudioClips)
	return out, nil
}

// ReorderAudioToTime moves an unlinked audio clip to project time to,
// clamped to fit, keeping the lane sorted by start.
func ReorderAudioToTime(t ProjectTimeline, clipID string, to float64) (ProjectTimeline, bool) {
	idx := -1
	for i, c := range t.AudioClips {
		if c.ID == clipID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return t, false
	}

	clips := append([]AudioClip{}, t.AudioClips...)
	clips[idx].Start = clampAudioStart(to, clips[idx].Length(), ProjectDurationSeconds(t))
	sortAudioLane(clips)

	out := t
	out.AudioClips = clips
	return out, true
}

func clampAudioStart(start, length, projectDuration float64) float64 {
	if start < 0 {
		start = 0
	}
	if start+length > projectDuration {
		start = projectDuration - length
	}
	if start < 0 {
		start = 0
	}
	return start
}

func sortAudioLane(clips []AudioClip) {
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].Start < clips[j].Start
	})
}
