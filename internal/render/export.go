package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/draftcut/draftcut-agent/internal/media"
)

// Exporter runs compiled plans through ffmpeg.
type Exporter struct {
	tool       media.Tool
	ffmpegPath string
	timeout    time.Duration
	logger     *slog.Logger
}

func NewExporter(tool media.Tool, ffmpegPath string, timeout time.Duration, logger *slog.Logger) *Exporter {
	return &Exporter{
		tool:       tool,
		ffmpegPath: ffmpegPath,
		timeout:    timeout,
		logger:     logger,
	}
}

// Export runs the single-pass encode for a plan and moves the artifact to
// outPath only on success. Any tool failure or timeout is collapsed into
// ErrExportFailed and the partial file is removed.
func (e *Exporter) Export(ctx context.Context, plan Plan, outPath string) error {
	if len(plan.Video) == 0 {
		return fmt.Errorf("%w: empty plan", ErrValidation)
	}

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	listPath, err := writeConcatList(dir, plan.Video)
	if err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	tmpPath := outPath + ".part"
	defer os.Remove(tmpPath)

	args := exportArgs(plan, listPath, tmpPath)

	e.logger.Info("export starting",
		"segments", len(plan.Video),
		"audio_segments", len(plan.Audio),
		"resolution", plan.Preset.Name,
	)

	start := time.Now()
	result, err := e.tool.Run(ctx, e.timeout, e.ffmpegPath, args...)
	if err != nil {
		e.logger.Error("export failed",
			"error", err,
			"exit_code", result.ExitCode,
			"stderr_tail", tail(result.Stderr, 2048),
		)
		return ErrExportFailed
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		e.logger.Error("export artifact move failed", "error", err)
		return ErrExportFailed
	}

	e.logger.Info("export complete",
		"artifact", outPath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// exportArgs assembles the full ffmpeg argument vector: concat demuxer in,
// optional audio source inputs, one constant-quality encode out.
func exportArgs(plan Plan, listPath, outPath string) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
	}
	if plan.HasMix() {
		for _, src := range plan.AudioInputs {
			args = append(args, "-i", src)
		}
		args = append(args,
			"-filter_complex", AudioFilterGraph(plan),
			"-map", "0:v:0",
			"-map", "[aout]",
		)
	}

	args = append(args,
		"-vf", fmt.Sprintf("scale=-2:%d", plan.Preset.Height),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "20",
		"-pix_fmt", "yuv420p",
	)

	switch {
	case plan.MuteAudio:
		args = append(args, "-an")
	default:
		args = append(args, "-c:a", "aac", "-b:a", "192k")
	}

	args = append(args, "-movflags", "+faststart", outPath)
	return args
}

// writeConcatList produces the concat demuxer's list file next to the
// artifact so both live on the same filesystem.
func writeConcatList(dir string, segments []VideoSegment) (string, error) {
	f, err := os.CreateTemp(dir, "concat-*.txt")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, seg := range segments {
		b.WriteString("file " + quoteConcatPath(seg.SourcePath) + "\n")
		b.WriteString("inpoint " + seconds(seg.Inpoint) + "\n")
		b.WriteString("outpoint " + seconds(seg.Outpoint) + "\n")
	}

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// quoteConcatPath wraps a path in single quotes for the concat demuxer,
// escaping embedded quotes the way its parser expects.
func quoteConcatPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
