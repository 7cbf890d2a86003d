package subtitle

import "clipsmith/types"

// ExtractForClip selects the transcript segments overlapping
// [clipStartMs, clipEndMs) and re-zeroes them to clip-local time. Starts are
// clamped to 0 and ends to the clip length; segments that collapse to zero or
// negative duration are dropped. Retiming must happen per clip because clip
// extraction and concatenation are separate transcoding passes.
func ExtractForClip(transcript []types.TranscriptSegment, clipStartMs, clipEndMs int64) []types.TranscriptSegment {
	clipLen := clipEndMs - clipStartMs

	var out []types.TranscriptSegment
	for _, seg := range transcript {
		if seg.EndTimeMs <= clipStartMs || seg.StartTimeMs >= clipEndMs {
			continue
		}

		start := seg.StartTimeMs - clipStartMs
		if start < 0 {
			start = 0
		}
		end := seg.EndTimeMs - clipStartMs
		if end > clipLen {
			end = clipLen
		}
		if end <= start {
			continue
		}

		out = append(out, types.TranscriptSegment{
			StartTimeMs: start,
			EndTimeMs:   end,
			Text:        seg.Text,
		})
	}
	return out
}

// Merge re-offsets each clip's re-zeroed segments by the cumulative duration
// of all preceding clips and appends them in clip order, producing one track
// valid against the concatenated video. Tracks and durations are parallel
// slices in orderIndex order; a clip with no segments still advances the
// offset for the clips after it.
func Merge(tracks [][]types.TranscriptSegment, clipDurationsMs []int64) []types.TranscriptSegment {
	var merged []types.TranscriptSegment
	var offset int64

	for i, track := range tracks {
		for _, seg := range track {
			merged = append(merged, types.TranscriptSegment{
				StartTimeMs: seg.StartTimeMs + offset,
				EndTimeMs:   seg.EndTimeMs + offset,
				Text:        seg.Text,
			})
		}
		offset += clipDurationsMs[i]
	}
	return merged
}
