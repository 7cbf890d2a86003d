// Package editplan turns unreliable upstream analysis output into a validated
// edit plan. Upstream data is adversarial by unreliability — wrong units,
// out-of-range times, empty arrays — so resolution never fails: when the plan
// is absent or invalid, a deterministic fallback is synthesized instead.
package editplan

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"clipsmith/config"
	"clipsmith/types"
)

// Resolve produces the plan for one job. It always returns a usable plan
// whose clip boundaries are geometrically valid against the probed source.
func Resolve(raw json.RawMessage, source types.SourceVideoInfo) types.EditPlan {
	parsed, ok := parseSegments(raw)
	if !ok {
		log.Printf("no usable edit plan in segments, using fallback")
		return Fallback(source, types.StrategyFallback)
	}

	plan := parsed.toPlan()
	sort.SliceStable(plan.Clips, func(i, j int) bool {
		return plan.Clips[i].OrderIndex < plan.Clips[j].OrderIndex
	})

	// The upstream total is informational only; recompute it so a wrong value
	// can neither smuggle an oversized plan through nor reject a valid one.
	var total int64
	for _, c := range plan.Clips {
		total += c.DurationMs()
	}
	plan.TotalDurationMs = total

	if err := validate(plan, source); err != nil {
		log.Printf("edit plan rejected (%v), using fallback", err)
		return Fallback(source, types.StrategyFallbackDefault)
	}
	return plan
}

func validate(plan types.EditPlan, source types.SourceVideoInfo) error {
	if len(plan.Clips) == 0 {
		return fmt.Errorf("plan has no clips")
	}
	if len(plan.Clips) > config.MaxClipsPerPlan {
		return fmt.Errorf("plan has %d clips, max %d", len(plan.Clips), config.MaxClipsPerPlan)
	}
	for _, c := range plan.Clips {
		if c.StartTimeMs < 0 {
			return fmt.Errorf("clip %d starts at %dms", c.OrderIndex, c.StartTimeMs)
		}
		if c.EndTimeMs > source.DurationMs {
			return fmt.Errorf("clip %d ends at %dms, past source duration %dms", c.OrderIndex, c.EndTimeMs, source.DurationMs)
		}
		if c.EndTimeMs <= c.StartTimeMs {
			return fmt.Errorf("clip %d has non-positive duration", c.OrderIndex)
		}
		if c.DurationMs() < config.MinClipDurationMs {
			return fmt.Errorf("clip %d is %dms, min %dms", c.OrderIndex, c.DurationMs(), int64(config.MinClipDurationMs))
		}
	}
	if max := config.MaxOutputDurationMs(); plan.TotalDurationMs > max {
		return fmt.Errorf("total duration %dms exceeds cap %dms", plan.TotalDurationMs, max)
	}
	return nil
}

// Fallback synthesizes the deterministic single-clip plan: start 30s in when
// the source leaves room for that offset plus a minimum-length clip, else at
// zero; run for up to 60s, capped at the source end.
func Fallback(source types.SourceVideoInfo, strategy string) types.EditPlan {
	var start int64
	if source.DurationMs >= config.FallbackStartMs+config.MinClipDurationMs {
		start = config.FallbackStartMs
	}
	end := start + config.FallbackClipLengthMs
	if end > source.DurationMs {
		end = source.DurationMs
	}

	return types.EditPlan{
		Clips: []types.ClipSegment{{
			OrderIndex:  0,
			StartTimeMs: start,
			EndTimeMs:   end,
			Title:       "Highlight",
		}},
		TotalDurationMs: end - start,
		EditingStrategy: strategy,
		TransitionStyle: types.TransitionHardCut,
	}
}

// ParseTranscript reads the job's transcript_segments JSON. Malformed or
// absent transcripts are an input-data condition, not an error: the pipeline
// simply proceeds without subtitles.
func ParseTranscript(raw json.RawMessage) []types.TranscriptSegment {
	if len(raw) == 0 {
		return nil
	}
	var segments []types.TranscriptSegment
	if err := json.Unmarshal(raw, &segments); err != nil {
		log.Printf("unparseable transcript segments, continuing without subtitles: %v", err)
		return nil
	}
	return segments
}
