package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AudioFilterGraph renders the plan's audio segments into one
// -filter_complex expression ending in the [aout] pad.
//
// Each segment is trimmed out of its source, rebased to time zero, gained,
// faded, and delayed to its project-time start. Segments are then summed
// without loudness normalization: overlapping loud segments may clip, which
// matches the simple linear-gain model the editor exposes.
func AudioFilterGraph(p Plan) string {
	var b strings.Builder

	for i, seg := range p.Audio {
		b.WriteString(fmt.Sprintf("[%d:a]", seg.InputIndex))
		b.WriteString("atrim=start=" + seconds(seg.SourceIn) + ":end=" + seconds(seg.SourceOut))
		b.WriteString(",asetpts=PTS-STARTPTS")
		b.WriteString(",volume=" + seconds(seg.Volume))
		if seg.FadeIn > 0 {
			b.WriteString(",afade=t=in:st=0:d=" + seconds(seg.FadeIn))
		}
		if seg.FadeOut > 0 {
			st := seg.Length() - seg.FadeOut
			b.WriteString(",afade=t=out:st=" + seconds(st) + ":d=" + seconds(seg.FadeOut))
		}
		delay := delayMillis(seg.Start)
		b.WriteString(fmt.Sprintf(",adelay=%d|%d", delay, delay))
		b.WriteString(fmt.Sprintf("[a%d];", i))
	}

	if len(p.Audio) == 1 {
		b.WriteString("[a0]")
	} else {
		for i := range p.Audio {
			b.WriteString(fmt.Sprintf("[a%d]", i))
		}
		b.WriteString(fmt.Sprintf("amix=inputs=%d:normalize=0,", len(p.Audio)))
	}
	b.WriteString("aresample=async=1,atrim=0:" + seconds(p.Duration) + "[aout]")

	return b.String()
}

// seconds formats a duration or gain without trailing zeros, at microsecond
// precision so float noise never leaks into the graph.
func seconds(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

func delayMillis(start float64) int {
	if start <= 0 {
		return 0
	}
	return int(math.Round(start * 1000))
}
