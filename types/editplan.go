package types

// Editing strategy tags carried on an EditPlan.
const (
	StrategySingleClip      = "single_clip"
	StrategyFallback        = "fallback"
	StrategyFallbackDefault = "fallback_default"

	TransitionHardCut = "hard_cut"
)

// ClipSegment is one ordered slice of the source video selected for the output.
type ClipSegment struct {
	OrderIndex  int      `json:"order_index"`
	StartTimeMs int64    `json:"start_time_ms"`
	EndTimeMs   int64    `json:"end_time_ms"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// DurationMs returns the length of the clip.
func (c ClipSegment) DurationMs() int64 {
	return c.EndTimeMs - c.StartTimeMs
}

// EditPlan describes how to assemble one output video from source clips.
// Constructed once per job by the resolver and never mutated afterward.
type EditPlan struct {
	Clips           []ClipSegment `json:"clips"`
	TotalDurationMs int64         `json:"total_duration_ms"`
	EditingStrategy string        `json:"editing_strategy"`
	TransitionStyle string        `json:"transition_style"`
}
