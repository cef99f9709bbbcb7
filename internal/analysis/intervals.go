// Package analysis extracts edit signals (visual scene cuts, audio silence)
// from an asset by scraping ffmpeg's diagnostic text output, and provides the
// interval algebra the synthesizer builds on.
package analysis

import "sort"

// Interval is a time span in seconds with End > Start.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

// MergeIntervals sorts by start and sweeps left to right, extending the
// current merged interval whenever the next one begins before it ends.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return []Interval{}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Invert emits the gaps of domain not covered by the sorted, merged set.
// Zero-or-negative-length gaps are dropped.
func Invert(domain Interval, merged []Interval) []Interval {
	gaps := []Interval{}
	cursor := domain.Start

	for _, iv := range merged {
		start := iv.Start
		if start > domain.End {
			start = domain.End
		}
		if start > cursor {
			gaps = append(gaps, Interval{Start: cursor, End: start})
		}
		if iv.End > cursor {
			cursor = iv.End
		}
		if cursor >= domain.End {
			return gaps
		}
	}

	if domain.End > cursor {
		gaps = append(gaps, Interval{Start: cursor, End: domain.End})
	}
	return gaps
}

// OverlapSeconds sums the overlap between iv and every interval in set.
func OverlapSeconds(iv Interval, set []Interval) float64 {
	total := 0.0
	for _, x := range set {
		lo := iv.Start
		if x.Start > lo {
			lo = x.Start
		}
		hi := iv.End
		if x.End < hi {
			hi = x.End
		}
		if hi > lo {
			total += hi - lo
		}
	}
	return total
}
