package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ProbeResult describes a media file's container and stream geometry.
type ProbeResult struct {
	Width    int
	Height   int
	Rotation int // bucketed to 0, 90, 180, 270
	HasAudio bool
	Duration float64 // seconds
}

// FFmpeg probes and transforms media files through the external tools.
type FFmpeg struct {
	tool        Tool
	ffmpegPath  string
	ffprobePath string
	logger      *slog.Logger
}

type FFmpegConfig struct {
	Tool        Tool
	FFmpegPath  string
	FFprobePath string
	Logger      *slog.Logger
}

func NewFFmpeg(cfg FFmpegConfig) *FFmpeg {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	return &FFmpeg{
		tool:        cfg.Tool,
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
		logger:      cfg.Logger,
	}
}

// Probe reads stream metadata: geometry, rotation, audio presence, duration.
func (f *FFmpeg) Probe(ctx context.Context, timeout time.Duration, path string) (*ProbeResult, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "stream=codec_type,width,height:stream_tags=rotate:stream_side_data=rotation:format=duration",
		"-of", "json",
		path,
	}

	result, err := f.tool.Run(ctx, timeout, f.ffprobePath, args...)
	if err != nil {
		return nil, fmt.Errorf("probe failed: %w", err)
	}

	probe, err := parseProbeOutput([]byte(result.Stdout))
	if err != nil {
		return nil, fmt.Errorf("probe output unreadable: %w", err)
	}
	return probe, nil
}

type ffprobeSideData struct {
	Rotation *float64 `json:"rotation"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Tags      struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
	SideDataList []ffprobeSideData `json:"side_data_list"`
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeOutput(data []byte) (*ProbeResult, error) {
	var parsed ffprobeOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	probe := &ProbeResult{}

	if d := strings.TrimSpace(parsed.Format.Duration); d != "" {
		if v, err := strconv.ParseFloat(d, 64); err == nil && v > 0 {
			probe.Duration = v
		}
	}

	foundVideo := false
	for _, s := range parsed.Streams {
		switch s.CodecType {
		case "video":
			if foundVideo {
				continue
			}
			foundVideo = true
			probe.Width = s.Width
			probe.Height = s.Height
			probe.Rotation = rotationFromStream(s)
		case "audio":
			probe.HasAudio = true
		}
	}

	if !foundVideo {
		return nil, fmt.Errorf("no video stream found")
	}

	return probe, nil
}

// rotationFromStream reads the rotation tag if present, falling back to
// rotation side-data. The tag takes precedence.
func rotationFromStream(s ffprobeStream) int {
	if tag := strings.TrimSpace(s.Tags.Rotate); tag != "" {
		if v, err := strconv.ParseFloat(tag, 64); err == nil {
			return BucketRotation(int(v))
		}
	}
	for _, sd := range s.SideDataList {
		if sd.Rotation != nil {
			return BucketRotation(int(*sd.Rotation))
		}
	}
	return 0
}

// BucketRotation normalizes an arbitrary degree value into {0, 90, 180, 270}.
func BucketRotation(v int) int {
	v = ((v % 360) + 360) % 360
	switch {
	case v < 45:
		return 0
	case v < 135:
		return 90
	case v < 225:
		return 180
	case v < 315:
		return 270
	default:
		return 0
	}
}
