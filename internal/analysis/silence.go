package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Detected silences are padded outward by this much before merging, so cuts
// planned at silence edges do not clip trailing speech.
const silencePadding = 0.05

var (
	silenceStartRE = regexp.MustCompile(`silence_start:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
	silenceEndRE   = regexp.MustCompile(`silence_end:\s*(-?[0-9]+(?:\.[0-9]+)?)`)
)

// DetectSilences runs ffmpeg's silencedetect pass and returns merged silence
// intervals. The start and end markers arrive as two independently increasing
// sequences in the diagnostic text and are paired positionally; a trailing
// silence that runs to end-of-file never emits an end marker and is dropped,
// not synthesized. That is a known limitation of the pairing assumption, kept
// deliberately.
func (a *Analyzer) DetectSilences(ctx context.Context, timeout time.Duration, path string, noiseDb, minSilenceSec float64) ([]Interval, error) {
	filter := fmt.Sprintf("silencedetect=noise=%gdB:d=%g", noiseDb, minSilenceSec)
	args := []string{
		"-i", path,
		"-af", filter,
		"-vn",
		"-f", "null", "-",
	}

	result, err := a.tool.Run(ctx, timeout, a.ffmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("silence detection failed: %w", err)
	}

	silences := ParseSilences(result.Stderr)
	a.logger.Info("silence detection complete", "silences", len(silences), "noise_db", noiseDb)
	return silences, nil
}

// ParseSilences scrapes silence markers from diagnostic text, pairs them
// positionally, pads each valid pair, and merges the result.
func ParseSilences(text string) []Interval {
	starts := scrapeFloats(silenceStartRE, text)
	ends := scrapeFloats(silenceEndRE, text)

	n := len(starts)
	if len(ends) < n {
		// Unterminated trailing silence: dropped, by design.
		n = len(ends)
	}

	intervals := make([]Interval, 0, n)
	for i := 0; i < n; i++ {
		iv := Interval{Start: starts[i] - silencePadding, End: ends[i] + silencePadding}
		if iv.End <= iv.Start {
			continue
		}
		intervals = append(intervals, iv)
	}

	return MergeIntervals(intervals)
}

func scrapeFloats(re *regexp.Regexp, text string) []float64 {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
