package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/draftcut/draftcut-agent/internal/media"
)

// Two cuts closer than this are the same edit point.
const cutCollapseWindow = 0.6

// showinfo prints one line per frame the select filter let through; the
// timestamp rides in a pts_time field inside otherwise free-form text.
var ptsTimeRE = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

// Analyzer runs signal-extraction passes over an asset.
type Analyzer struct {
	tool       media.Tool
	ffmpegPath string
	logger     *slog.Logger
}

func NewAnalyzer(tool media.Tool, ffmpegPath string, logger *slog.Logger) *Analyzer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Analyzer{tool: tool, ffmpegPath: ffmpegPath, logger: logger}
}

// DetectSceneCuts scores per-frame visual difference and returns the sorted,
// collapsed timestamps where it exceeds threshold. An empty result with a nil
// error means the pass ran and found nothing; a non-nil error means the pass
// could not run at all.
func (a *Analyzer) DetectSceneCuts(ctx context.Context, timeout time.Duration, path string, threshold float64, maxCuts int) ([]float64, error) {
	filter := fmt.Sprintf("select='gt(scene,%g)',showinfo", threshold)
	args := []string{
		"-i", path,
		"-vf", filter,
		"-an",
		"-f", "null", "-",
	}

	result, err := a.tool.Run(ctx, timeout, a.ffmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("scene detection failed: %w", err)
	}

	cuts := ParseSceneCuts(result.Stderr, maxCuts)
	a.logger.Info("scene detection complete", "cuts", len(cuts), "threshold", threshold)
	return cuts, nil
}

// ParseSceneCuts scrapes pts_time values from diagnostic text, stopping once
// maxCuts are collected, then sorts and collapses near-duplicates.
func ParseSceneCuts(text string, maxCuts int) []float64 {
	matches := ptsTimeRE.FindAllStringSubmatch(text, -1)

	cuts := make([]float64, 0, len(matches))
	for _, m := range matches {
		if maxCuts > 0 && len(cuts) >= maxCuts {
			break
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		cuts = append(cuts, v)
	}

	sort.Float64s(cuts)
	return collapseCuts(cuts)
}

// collapseCuts folds any two timestamps within the collapse window into one,
// keeping the earlier of the pair.
func collapseCuts(cuts []float64) []float64 {
	out := make([]float64, 0, len(cuts))
	for _, c := range cuts {
		if len(out) > 0 && c-out[len(out)-1] < cutCollapseWindow {
			continue
		}
		out = append(out, c)
	}
	return out
}
