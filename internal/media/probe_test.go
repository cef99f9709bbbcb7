package media

import (
	"testing"
)

func TestBucketRotation(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero", 0, 0},
		{"small positive", 30, 0},
		{"boundary 44", 44, 0},
		{"boundary 45", 45, 90},
		{"ninety", 90, 90},
		{"boundary 134", 134, 90},
		{"boundary 135", 135, 180},
		{"one eighty", 180, 180},
		{"boundary 224", 224, 180},
		{"boundary 225", 225, 270},
		{"two seventy", 270, 270},
		{"boundary 314", 314, 270},
		{"boundary 315", 315, 0},
		{"near full turn", 350, 0},
		{"full turn", 360, 0},
		{"over full turn", 450, 90},
		{"negative quarter", -90, 270},
		{"negative tag", -270, 90},
		{"large negative", -450, 270},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := BucketRotation(tc.in); got != tc.want {
				t.Errorf("BucketRotation(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseProbeOutput(t *testing.T) {
	data := []byte(`{
		"streams": [
			{"codec_type": "video", "width": 1920, "height": 1080, "tags": {"rotate": "90"}},
			{"codec_type": "audio"}
		],
		"format": {"duration": "42.512000"}
	}`)

	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}
	if probe.Width != 1920 || probe.Height != 1080 {
		t.Errorf("geometry = %dx%d, want 1920x1080", probe.Width, probe.Height)
	}
	if probe.Rotation != 90 {
		t.Errorf("rotation = %d, want 90", probe.Rotation)
	}
	if !probe.HasAudio {
		t.Error("HasAudio = false, want true")
	}
	if probe.Duration != 42.512 {
		t.Errorf("duration = %v, want 42.512", probe.Duration)
	}
}

func TestParseProbeOutput_SideDataRotation(t *testing.T) {
	data := []byte(`{
		"streams": [
			{"codec_type": "video", "width": 1280, "height": 720,
			 "side_data_list": [{"rotation": -90}]}
		],
		"format": {"duration": "10.0"}
	}`)

	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}
	if probe.Rotation != 270 {
		t.Errorf("rotation = %d, want 270 from side data", probe.Rotation)
	}
	if probe.HasAudio {
		t.Error("HasAudio = true for video-only file")
	}
}

func TestParseProbeOutput_TagWinsOverSideData(t *testing.T) {
	data := []byte(`{
		"streams": [
			{"codec_type": "video", "width": 640, "height": 480,
			 "tags": {"rotate": "180"},
			 "side_data_list": [{"rotation": -90}]}
		],
		"format": {"duration": "5.0"}
	}`)

	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}
	if probe.Rotation != 180 {
		t.Errorf("rotation = %d, want tag value 180", probe.Rotation)
	}
}

func TestParseProbeOutput_NoVideoStream(t *testing.T) {
	data := []byte(`{"streams": [{"codec_type": "audio"}], "format": {"duration": "3.0"}}`)
	if _, err := parseProbeOutput(data); err == nil {
		t.Fatal("expected error for file without video stream")
	}
}

func TestTransposeFilter(t *testing.T) {
	tests := []struct {
		rotation int
		want     string
		wantErr  bool
	}{
		{90, "transpose=1", false},
		{180, "transpose=1,transpose=1", false},
		{270, "transpose=2", false},
		{45, "", true},
	}

	for _, tc := range tests {
		got, err := transposeFilter(tc.rotation)
		if tc.wantErr {
			if err == nil {
				t.Errorf("transposeFilter(%d): expected error", tc.rotation)
			}
			continue
		}
		if err != nil {
			t.Errorf("transposeFilter(%d): %v", tc.rotation, err)
			continue
		}
		if got != tc.want {
			t.Errorf("transposeFilter(%d) = %q, want %q", tc.rotation, got, tc.want)
		}
	}
}
