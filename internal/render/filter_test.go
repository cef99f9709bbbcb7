package render

import (
	"strings"
	"testing"
)

func TestAudioFilterGraph_SingleSegment(t *testing.T) {
	plan := Plan{
		Duration: 10,
		Audio: []AudioSegment{{
			InputIndex: 1,
			SourceIn:   2,
			SourceOut:  6,
			Start:      0,
			Volume:     1,
		}},
	}

	got := AudioFilterGraph(plan)
	want := "[1:a]atrim=start=2:end=6,asetpts=PTS-STARTPTS,volume=1,adelay=0|0[a0];" +
		"[a0]aresample=async=1,atrim=0:10[aout]"
	if got != want {
		t.Errorf("graph =\n%s\nwant\n%s", got, want)
	}
}

func TestAudioFilterGraph_MixWithoutNormalization(t *testing.T) {
	plan := Plan{
		Duration: 12.5,
		Audio: []AudioSegment{
			{InputIndex: 1, SourceIn: 0, SourceOut: 4, Start: 0, Volume: 1},
			{InputIndex: 2, SourceIn: 1, SourceOut: 3, Start: 4, Volume: 0.5},
		},
	}

	got := AudioFilterGraph(plan)

	if !strings.Contains(got, "amix=inputs=2:normalize=0") {
		t.Errorf("graph missing un-normalized amix: %s", got)
	}
	if !strings.Contains(got, "[2:a]atrim=start=1:end=3") {
		t.Errorf("graph missing second input trim: %s", got)
	}
	if !strings.Contains(got, ",adelay=4000|4000[a1];") {
		t.Errorf("graph missing project-time delay: %s", got)
	}
	if !strings.HasSuffix(got, "atrim=0:12.5[aout]") {
		t.Errorf("graph not trimmed to project duration: %s", got)
	}
}

func TestAudioFilterGraph_Fades(t *testing.T) {
	plan := Plan{
		Duration: 10,
		Audio: []AudioSegment{{
			InputIndex: 1,
			SourceIn:   0,
			SourceOut:  6,
			Volume:     1,
			FadeIn:     1.5,
			FadeOut:    2,
		}},
	}

	got := AudioFilterGraph(plan)
	if !strings.Contains(got, "afade=t=in:st=0:d=1.5") {
		t.Errorf("graph missing fade in: %s", got)
	}
	// Fade out starts at segment length minus fade duration.
	if !strings.Contains(got, "afade=t=out:st=4:d=2") {
		t.Errorf("graph missing fade out: %s", got)
	}
}

func TestExportArgs_MutedOutputHasNoAudio(t *testing.T) {
	plan := Plan{
		Video:     []VideoSegment{{SourcePath: "/lib/vid.mp4", Outpoint: 5}},
		MuteAudio: true,
		Duration:  5,
		Preset:    Preset{Name: "720p", Height: 720},
		Format:    "mp4",
	}

	args := exportArgs(plan, "/tmp/list.txt", "/tmp/out.mp4")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, " -an ") {
		t.Errorf("args missing -an: %s", joined)
	}
	if strings.Contains(joined, "-filter_complex") {
		t.Errorf("muted export should not carry a filter graph: %s", joined)
	}
	if !strings.Contains(joined, "scale=-2:720") {
		t.Errorf("args missing preset scale: %s", joined)
	}
	if !strings.Contains(joined, "-movflags +faststart") {
		t.Errorf("args missing faststart: %s", joined)
	}
	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}
}

func TestExportArgs_MixMapsGraphOutput(t *testing.T) {
	plan := Plan{
		Video:       []VideoSegment{{SourcePath: "/lib/vid.mp4", Outpoint: 5}},
		Audio:       []AudioSegment{{InputIndex: 1, SourceOut: 5, Volume: 1}},
		AudioInputs: []string{"/lib/vid.mp4"},
		Duration:    5,
		Preset:      Preset{Name: "1080p", Height: 1080},
		Format:      "mp4",
	}

	args := exportArgs(plan, "/tmp/list.txt", "/tmp/out.mp4")
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-map 0:v:0 -map [aout]") {
		t.Errorf("args missing stream mapping: %s", joined)
	}
	if !strings.Contains(joined, "-i /lib/vid.mp4") {
		t.Errorf("args missing audio source input: %s", joined)
	}
	if !strings.Contains(joined, "-c:a aac") {
		t.Errorf("args missing audio encoder: %s", joined)
	}
	if strings.Contains(joined, "-an") {
		t.Errorf("mix export must not strip audio: %s", joined)
	}
}

func TestQuoteConcatPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/lib/plain.mp4", "'/lib/plain.mp4'"},
		{"/lib/it's here.mp4", `'/lib/it'\''s here.mp4'`},
	}
	for _, tc := range tests {
		if got := quoteConcatPath(tc.in); got != tc.want {
			t.Errorf("quoteConcatPath(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
