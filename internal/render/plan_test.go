package render

import (
	"errors"
	"math"
	"testing"

	"github.com/draftcut/draftcut-agent/internal/timeline"
)

type fakeResolver struct {
	sources map[string]SourceInfo
	calls   int
}

func (r *fakeResolver) Resolve(assetID string) (SourceInfo, error) {
	r.calls++
	info, ok := r.sources[assetID]
	if !ok {
		return SourceInfo{}, errors.New("unknown asset")
	}
	return info, nil
}

func testResolver() *fakeResolver {
	return &fakeResolver{sources: map[string]SourceInfo{
		"vid": {Path: "/lib/vid.mp4", Duration: 60, HasAudio: true},
		"mut": {Path: "/lib/mut.mp4", Duration: 60, HasAudio: false},
	}}
}

func testTimeline(clips ...timeline.ProjectClip) timeline.ProjectTimeline {
	return timeline.ProjectTimeline{ProjectID: "p1", Clips: clips}
}

func vclip(id string, in, out float64) timeline.ProjectClip {
	return timeline.ProjectClip{ID: id, AssetID: "vid", SourceIn: in, SourceOut: out}
}

func TestPresetByName(t *testing.T) {
	for _, name := range []string{"480p", "720p", "1080p"} {
		p, err := PresetByName(name)
		if err != nil {
			t.Errorf("PresetByName(%q): %v", name, err)
		}
		if p.Height <= 0 {
			t.Errorf("preset %q has height %d", name, p.Height)
		}
	}

	if _, err := PresetByName("4k"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown preset error = %v, want ErrValidation", err)
	}
}

func TestBuildPlan_Validation(t *testing.T) {
	preset, _ := PresetByName("720p")

	tests := []struct {
		name   string
		tl     timeline.ProjectTimeline
		format string
	}{
		{"empty timeline", testTimeline(), "mp4"},
		{"bad format", testTimeline(vclip("c1", 0, 5)), "webm"},
		{"degenerate clip", testTimeline(vclip("c1", 0, 5), vclip("c2", 3, 3.04)), "mp4"},
		{"unknown asset", testTimeline(timeline.ProjectClip{ID: "c1", AssetID: "ghost", SourceIn: 0, SourceOut: 5}), "mp4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPlan(tc.tl, testResolver(), preset, tc.format)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("BuildPlan error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestBuildPlan_VideoSegments(t *testing.T) {
	preset, _ := PresetByName("720p")
	tl := testTimeline(vclip("c1", 2, 5), vclip("c2", 10, 14))

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	if len(plan.Video) != 2 {
		t.Fatalf("video segments = %d, want 2", len(plan.Video))
	}
	if plan.Video[0].Inpoint != 2 || plan.Video[0].Outpoint != 5 {
		t.Errorf("segment 0 = %+v", plan.Video[0])
	}
	if plan.Video[1].SourcePath != "/lib/vid.mp4" {
		t.Errorf("segment 1 path = %q", plan.Video[1].SourcePath)
	}
	if math.Abs(plan.Duration-7) > 1e-9 {
		t.Errorf("duration = %v, want 7", plan.Duration)
	}
}

func TestBuildPlan_DefaultAudioPassesThrough(t *testing.T) {
	preset, _ := PresetByName("720p")
	tl := testTimeline(vclip("c1", 0, 5))

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.MuteAudio {
		t.Error("default audio should not be muted")
	}
	if plan.HasMix() {
		t.Error("default audio should not build a mix")
	}
}

func TestBuildPlan_TrackMutedWinsOverClipSettings(t *testing.T) {
	preset, _ := PresetByName("720p")
	c := vclip("c1", 0, 5)
	c.AudioVolume = 1.5
	c.AudioFadeIn = 1
	tl := testTimeline(c)
	tl.TrackAudioMuted = true

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if !plan.MuteAudio {
		t.Error("track mute should force MuteAudio")
	}
	if len(plan.Audio) != 0 {
		t.Errorf("audio segments = %d, want none when muted", len(plan.Audio))
	}
}

func TestBuildPlan_LinkedModeDerivesLane(t *testing.T) {
	preset, _ := PresetByName("720p")
	c1 := vclip("c1", 0, 4)
	c2 := vclip("c2", 10, 16)
	c2.AudioVolume = 0.5
	tl := testTimeline(c1, c2)

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if !plan.HasMix() {
		t.Fatal("per-clip volume should trigger a mix")
	}
	if len(plan.Audio) != 2 {
		t.Fatalf("audio segments = %d, want one per video clip", len(plan.Audio))
	}

	// Second segment sits at the first clip's length in project time.
	if got := plan.Audio[1].Start; math.Abs(got-4) > 1e-9 {
		t.Errorf("segment 1 start = %v, want 4", got)
	}
	if got := plan.Audio[1].Volume; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("segment 1 volume = %v, want 0.5", got)
	}
	// Unset clip volume means unity gain.
	if got := plan.Audio[0].Volume; math.Abs(got-1) > 1e-9 {
		t.Errorf("segment 0 volume = %v, want 1", got)
	}
}

func TestBuildPlan_SharedSourceDeduplicated(t *testing.T) {
	preset, _ := PresetByName("720p")
	c1 := vclip("c1", 0, 4)
	c1.AudioVolume = 1.2
	c2 := vclip("c2", 8, 12)
	tl := testTimeline(c1, c2)

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.AudioInputs) != 1 {
		t.Fatalf("audio inputs = %v, want single deduplicated source", plan.AudioInputs)
	}
	for i, seg := range plan.Audio {
		if seg.InputIndex != 1 {
			t.Errorf("segment %d input index = %d, want 1", i, seg.InputIndex)
		}
	}
}

func TestBuildPlan_TrackVolumeCombinesAndClamps(t *testing.T) {
	preset, _ := PresetByName("720p")
	c := vclip("c1", 0, 4)
	c.AudioVolume = 1.8
	tl := testTimeline(c)
	tv := 1.5
	tl.TrackAudioVolume = &tv

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	// 1.8 * 1.5 = 2.7, clamped to the 2.0 cap.
	if got := plan.Audio[0].Volume; math.Abs(got-2) > 1e-9 {
		t.Errorf("volume = %v, want clamped 2", got)
	}
}

func TestBuildPlan_ClampsFadesAndStart(t *testing.T) {
	preset, _ := PresetByName("720p")
	tl := testTimeline(vclip("c1", 0, 10))
	tl.AudioUnlinked = true
	tl.AudioClips = []timeline.AudioClip{{
		ID: "a1", AssetID: "vid",
		SourceIn: 0, SourceOut: 4,
		Start:  9, // 9 + 4 > project duration 10
		FadeIn: 3, // over half the 4s segment
	}}

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	seg := plan.Audio[0]
	if math.Abs(seg.Start-6) > 1e-9 {
		t.Errorf("start = %v, want clamped 6", seg.Start)
	}
	if math.Abs(seg.FadeIn-2) > 1e-9 {
		t.Errorf("fade in = %v, want clamped 2", seg.FadeIn)
	}
}

func TestBuildPlan_SilentSourcesSkipped(t *testing.T) {
	preset, _ := PresetByName("720p")
	c := timeline.ProjectClip{ID: "c1", AssetID: "mut", SourceIn: 0, SourceOut: 5, AudioVolume: 1.5}
	tl := testTimeline(c)

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	// The only candidate segment has no audio stream, so the whole output
	// drops its audio track.
	if !plan.MuteAudio {
		t.Error("expected MuteAudio when no segment survives")
	}
	if len(plan.Audio) != 0 || len(plan.AudioInputs) != 0 {
		t.Errorf("audio = %v inputs = %v, want empty", plan.Audio, plan.AudioInputs)
	}
}

func TestBuildPlan_MutedClipsSkipped(t *testing.T) {
	preset, _ := PresetByName("720p")
	c1 := vclip("c1", 0, 4)
	c1.AudioMuted = true
	c2 := vclip("c2", 4, 8)
	tl := testTimeline(c1, c2)

	plan, err := BuildPlan(tl, testResolver(), preset, "mp4")
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Audio) != 1 {
		t.Fatalf("audio segments = %d, want 1 (muted clip dropped)", len(plan.Audio))
	}
	if plan.Audio[0].SourceIn != 4 {
		t.Errorf("surviving segment sourceIn = %v, want 4", plan.Audio[0].SourceIn)
	}
}

func TestBuildPlan_ResolvesEachAssetOnce(t *testing.T) {
	preset, _ := PresetByName("720p")
	c1 := vclip("c1", 0, 4)
	c1.AudioVolume = 1.2
	tl := testTimeline(c1, vclip("c2", 4, 8), vclip("c3", 8, 12))

	r := testResolver()
	if _, err := BuildPlan(tl, r, preset, "mp4"); err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if r.calls != 1 {
		t.Errorf("resolver calls = %d, want 1 (cached per asset)", r.calls)
	}
}
