package analysis

import "testing"

const silencedetectSample = `[silencedetect @ 0x55e3] silence_start: 3.2
[silencedetect @ 0x55e3] silence_end: 5.4 | silence_duration: 2.2
[silencedetect @ 0x55e3] silence_start: 10.0
[silencedetect @ 0x55e3] silence_end: 11.5 | silence_duration: 1.5
`

func TestParseSilences(t *testing.T) {
	silences := ParseSilences(silencedetectSample)

	want := []Interval{{3.15, 5.45}, {9.95, 11.55}}
	if len(silences) != len(want) {
		t.Fatalf("silences = %v, want %v", silences, want)
	}
	for i := range want {
		if !almostEqual(silences[i].Start, want[i].Start) || !almostEqual(silences[i].End, want[i].End) {
			t.Errorf("silence %d = %v, want padded %v", i, silences[i], want[i])
		}
	}
}

func TestParseSilences_TrailingUnterminatedDropped(t *testing.T) {
	text := silencedetectSample + "[silencedetect @ 0x55e3] silence_start: 20.0\n"

	silences := ParseSilences(text)
	if len(silences) != 2 {
		t.Fatalf("got %d silences, want 2 (trailing start without end dropped)", len(silences))
	}
	for _, s := range silences {
		if s.Start >= 19.0 {
			t.Errorf("unterminated silence leaked into result: %v", s)
		}
	}
}

func TestParseSilences_PaddingMergesNeighbours(t *testing.T) {
	// 0.08s gap between silences closes once each side is padded by 0.05s.
	text := `silence_start: 1.0
silence_end: 2.0
silence_start: 2.08
silence_end: 3.0
`
	silences := ParseSilences(text)
	if len(silences) != 1 {
		t.Fatalf("silences = %v, want single merged interval", silences)
	}
	if !almostEqual(silences[0].Start, 0.95) || !almostEqual(silences[0].End, 3.05) {
		t.Errorf("merged = %v, want {0.95 3.05}", silences[0])
	}
}

func TestParseSilences_NoMarkers(t *testing.T) {
	silences := ParseSilences("size=N/A time=00:00:12.00 bitrate=N/A")
	if silences == nil {
		t.Fatal("want empty non-nil slice")
	}
	if len(silences) != 0 {
		t.Errorf("silences = %v, want empty", silences)
	}
}

func TestParseSilences_NegativeStartClampedByPairing(t *testing.T) {
	// silencedetect can report a slightly negative first start.
	text := "silence_start: -0.01\nsilence_end: 1.5\n"
	silences := ParseSilences(text)
	if len(silences) != 1 {
		t.Fatalf("silences = %v, want one interval", silences)
	}
	if silences[0].End <= silences[0].Start {
		t.Errorf("invalid interval %v", silences[0])
	}
}
