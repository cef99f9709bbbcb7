package media

import (
	"context"
	"fmt"
	"time"
)

// GenerateWaveform renders a waveform overview image for the editor's audio
// lane. Best-effort: a failure only means the editor shows no waveform.
func (f *FFmpeg) GenerateWaveform(ctx context.Context, timeout time.Duration, path, outPath string) error {
	args := []string{
		"-y",
		"-i", path,
		"-filter_complex", "showwavespic=s=1280x160:colors=0x4f7cff",
		"-frames:v", "1",
		outPath,
	}

	if _, err := f.tool.Run(ctx, timeout, f.ffmpegPath, args...); err != nil {
		return fmt.Errorf("waveform generation failed: %w", err)
	}
	return nil
}
