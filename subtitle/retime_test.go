package subtitle

import (
	"reflect"
	"testing"

	"clipsmith/types"
)

func seg(start, end int64, text string) types.TranscriptSegment {
	return types.TranscriptSegment{StartTimeMs: start, EndTimeMs: end, Text: text}
}

func TestExtractForClip(t *testing.T) {
	transcript := []types.TranscriptSegment{
		seg(0, 4_000, "before"),
		seg(8_000, 12_000, "straddles start"),
		seg(15_000, 18_000, "inside"),
		seg(28_000, 34_000, "straddles end"),
		seg(40_000, 44_000, "after"),
	}

	got := ExtractForClip(transcript, 10_000, 30_000)
	want := []types.TranscriptSegment{
		seg(0, 2_000, "straddles start"),
		seg(5_000, 8_000, "inside"),
		seg(18_000, 20_000, "straddles end"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractForClip mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestExtractForClipFullSpan(t *testing.T) {
	// A clip covering the whole source leaves the transcript untouched.
	transcript := []types.TranscriptSegment{
		seg(0, 3_000, "a"),
		seg(5_000, 9_000, "b"),
		seg(50_000, 59_000, "c"),
	}

	got := ExtractForClip(transcript, 0, 60_000)
	if !reflect.DeepEqual(got, transcript) {
		t.Errorf("expected identity for full-span clip:\ngot:  %+v\nwant: %+v", got, transcript)
	}
}

func TestExtractForClipBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		transcript []types.TranscriptSegment
		start, end int64
		want       []types.TranscriptSegment
	}{
		{
			"segment ending exactly at clip start is excluded",
			[]types.TranscriptSegment{seg(5_000, 10_000, "x")},
			10_000, 20_000,
			nil,
		},
		{
			"segment starting exactly at clip end is excluded",
			[]types.TranscriptSegment{seg(20_000, 25_000, "x")},
			10_000, 20_000,
			nil,
		},
		{
			"one-millisecond survivor after clamping is kept",
			[]types.TranscriptSegment{seg(9_000, 10_001, "x")},
			10_000, 20_000,
			[]types.TranscriptSegment{seg(0, 1, "x")},
		},
		{
			"zero-length segment inside the clip is dropped",
			[]types.TranscriptSegment{seg(15_000, 15_000, "x")},
			10_000, 20_000,
			nil,
		},
		{
			"inverted segment inside the clip is dropped",
			[]types.TranscriptSegment{seg(16_000, 15_000, "x")},
			10_000, 20_000,
			nil,
		},
		{
			"segment spanning the whole clip is clamped both ends",
			[]types.TranscriptSegment{seg(0, 100_000, "x")},
			10_000, 20_000,
			[]types.TranscriptSegment{seg(0, 10_000, "x")},
		},
		{
			"empty transcript",
			nil,
			10_000, 20_000,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractForClip(tt.transcript, tt.start, tt.end)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	// Two clips of 40s and 35s. A segment at [5s, 9s) within the second clip
	// must land at [45s, 49s) in the merged track.
	tracks := [][]types.TranscriptSegment{
		{seg(0, 3_000, "first clip")},
		{seg(5_000, 9_000, "second clip")},
	}
	durations := []int64{40_000, 35_000}

	got := Merge(tracks, durations)
	want := []types.TranscriptSegment{
		seg(0, 3_000, "first clip"),
		seg(45_000, 49_000, "second clip"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestMergeEmptyTrackAdvancesOffset(t *testing.T) {
	// The silent middle clip contributes no segments but its duration still
	// shifts everything after it.
	tracks := [][]types.TranscriptSegment{
		{seg(0, 2_000, "a")},
		nil,
		{seg(1_000, 4_000, "b")},
	}
	durations := []int64{10_000, 20_000, 15_000}

	got := Merge(tracks, durations)
	want := []types.TranscriptSegment{
		seg(0, 2_000, "a"),
		seg(31_000, 34_000, "b"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestMergeSingleTrack(t *testing.T) {
	tracks := [][]types.TranscriptSegment{{seg(100, 900, "only")}}
	got := Merge(tracks, []int64{60_000})
	if !reflect.DeepEqual(got, tracks[0]) {
		t.Errorf("single-track merge should be identity, got %+v", got)
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil, nil); got != nil {
		t.Errorf("expected nil for no tracks, got %+v", got)
	}
}
