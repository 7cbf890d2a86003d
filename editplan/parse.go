package editplan

import (
	"bytes"
	"encoding/json"

	"clipsmith/types"
)

// legacySegment is the flat record shape the analysis stage produced before
// it emitted native multi-clip plans.
type legacySegment struct {
	StartTimeMs int64    `json:"start_time_ms"`
	EndTimeMs   int64    `json:"end_time_ms"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// nativePlan mirrors types.EditPlan but keeps Clips as a pointer so an object
// without a `clips` key is distinguishable from one with an empty list.
type nativePlan struct {
	Clips           *[]types.ClipSegment `json:"clips"`
	TotalDurationMs int64                `json:"total_duration_ms"`
	EditingStrategy string               `json:"editing_strategy"`
	TransitionStyle string               `json:"transition_style"`
}

// parsedSegments is the two-variant result of parsing the job's raw
// `segments` field: exactly one of Native or Legacy is set.
type parsedSegments struct {
	Native *types.EditPlan
	Legacy []legacySegment
}

// parseSegments reads the upstream `segments` JSON. A top-level array is the
// legacy shape; an object with a `clips` key is a native plan. Anything else
// is not an error, just the absence of a plan — the resolver falls back.
func parseSegments(raw json.RawMessage) (parsedSegments, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return parsedSegments{}, false
	}

	switch trimmed[0] {
	case '[':
		var legacy []legacySegment
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return parsedSegments{}, false
		}
		return parsedSegments{Legacy: legacy}, true
	case '{':
		var np nativePlan
		if err := json.Unmarshal(trimmed, &np); err != nil || np.Clips == nil {
			return parsedSegments{}, false
		}
		return parsedSegments{Native: &types.EditPlan{
			Clips:           *np.Clips,
			TotalDurationMs: np.TotalDurationMs,
			EditingStrategy: np.EditingStrategy,
			TransitionStyle: np.TransitionStyle,
		}}, true
	default:
		return parsedSegments{}, false
	}
}

// toPlan normalizes either variant into the canonical EditPlan. Legacy
// records convert positionally into clips under the single_clip strategy.
func (p parsedSegments) toPlan() types.EditPlan {
	if p.Native != nil {
		plan := *p.Native
		if plan.EditingStrategy == "" {
			plan.EditingStrategy = types.StrategySingleClip
		}
		if plan.TransitionStyle == "" {
			plan.TransitionStyle = types.TransitionHardCut
		}
		return plan
	}

	clips := make([]types.ClipSegment, 0, len(p.Legacy))
	for i, seg := range p.Legacy {
		clips = append(clips, types.ClipSegment{
			OrderIndex:  i,
			StartTimeMs: seg.StartTimeMs,
			EndTimeMs:   seg.EndTimeMs,
			Title:       seg.Title,
			Description: seg.Description,
			Keywords:    seg.Keywords,
		})
	}
	return types.EditPlan{
		Clips:           clips,
		EditingStrategy: types.StrategySingleClip,
		TransitionStyle: types.TransitionHardCut,
	}
}
