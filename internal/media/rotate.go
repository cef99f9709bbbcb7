package media

import (
	"context"
	"fmt"
	"time"
)

// NormalizeRotation bakes a rotation correction into the pixels and writes the
// output's rotation tag as 0 so downstream stages never double-correct.
// Rotation 0 is a no-op. Failure here is soft: callers fall back to the
// original file.
func (f *FFmpeg) NormalizeRotation(ctx context.Context, timeout time.Duration, path, outPath string, rotation int) error {
	if rotation == 0 {
		return nil
	}

	filter, err := transposeFilter(rotation)
	if err != nil {
		return err
	}

	args := []string{
		"-y",
		"-noautorotate",
		"-i", path,
		"-vf", filter,
		"-metadata:s:v:0", "rotate=0",
		"-c:a", "copy",
		outPath,
	}

	if _, err := f.tool.Run(ctx, timeout, f.ffmpegPath, args...); err != nil {
		return fmt.Errorf("rotation normalize failed: %w", err)
	}

	f.logger.Info("normalized rotation", "rotation", rotation, "output", outPath)
	return nil
}

func transposeFilter(rotation int) (string, error) {
	switch rotation {
	case 90:
		return "transpose=1", nil
	case 180:
		return "transpose=1,transpose=1", nil
	case 270:
		return "transpose=2", nil
	default:
		return "", fmt.Errorf("unsupported rotation %d", rotation)
	}
}
