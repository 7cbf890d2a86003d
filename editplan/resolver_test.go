package editplan

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"clipsmith/types"
)

func source(durationMs int64) types.SourceVideoInfo {
	return types.SourceVideoInfo{DurationMs: durationMs, Width: 1920, Height: 1080}
}

func TestResolveNativePlan(t *testing.T) {
	raw := json.RawMessage(`{
		"clips": [
			{"order_index": 1, "start_time_ms": 120000, "end_time_ms": 150000, "title": "Second"},
			{"order_index": 0, "start_time_ms": 10000, "end_time_ms": 40000, "title": "First"}
		],
		"total_duration_ms": 999,
		"editing_strategy": "multi_clip",
		"transition_style": "hard_cut"
	}`)

	plan := Resolve(raw, source(300_000))

	if len(plan.Clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(plan.Clips))
	}
	if plan.Clips[0].Title != "First" || plan.Clips[1].Title != "Second" {
		t.Errorf("clips not sorted by order_index: %q, %q", plan.Clips[0].Title, plan.Clips[1].Title)
	}
	if plan.TotalDurationMs != 60_000 {
		t.Errorf("expected recomputed total 60000ms, got %d", plan.TotalDurationMs)
	}
	if plan.EditingStrategy != "multi_clip" {
		t.Errorf("expected strategy preserved, got %q", plan.EditingStrategy)
	}
}

func TestResolveLegacyArray(t *testing.T) {
	raw := json.RawMessage(`[
		{"start_time_ms": 5000, "end_time_ms": 25000, "title": "Intro"},
		{"start_time_ms": 60000, "end_time_ms": 90000, "title": "Peak"}
	]`)

	plan := Resolve(raw, source(120_000))

	if len(plan.Clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(plan.Clips))
	}
	if plan.Clips[0].OrderIndex != 0 || plan.Clips[1].OrderIndex != 1 {
		t.Errorf("legacy clips should get positional order indexes, got %d and %d",
			plan.Clips[0].OrderIndex, plan.Clips[1].OrderIndex)
	}
	if plan.EditingStrategy != types.StrategySingleClip {
		t.Errorf("expected strategy %q, got %q", types.StrategySingleClip, plan.EditingStrategy)
	}
	if plan.TransitionStyle != types.TransitionHardCut {
		t.Errorf("expected transition %q, got %q", types.TransitionHardCut, plan.TransitionStyle)
	}
	if plan.TotalDurationMs != 50_000 {
		t.Errorf("expected total 50000ms, got %d", plan.TotalDurationMs)
	}
}

func TestResolveFallbackWhenAbsent(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"nil segments", nil},
		{"empty bytes", json.RawMessage("")},
		{"json null", json.RawMessage("null")},
		{"malformed json", json.RawMessage(`{"clips": [`)},
		{"object without clips key", json.RawMessage(`{"editing_strategy": "multi_clip"}`)},
		{"scalar", json.RawMessage(`42`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Resolve(tt.raw, source(300_000))
			if plan.EditingStrategy != types.StrategyFallback {
				t.Errorf("expected strategy %q, got %q", types.StrategyFallback, plan.EditingStrategy)
			}
			if len(plan.Clips) != 1 {
				t.Fatalf("expected single fallback clip, got %d", len(plan.Clips))
			}
		})
	}
}

func TestResolveFallbackWhenInvalid(t *testing.T) {
	clip := func(start, end int64) string {
		return fmt.Sprintf(`{"order_index": 0, "start_time_ms": %d, "end_time_ms": %d}`, start, end)
	}
	manyClips := `{"clips": [`
	for i := 0; i < 11; i++ {
		if i > 0 {
			manyClips += ","
		}
		manyClips += fmt.Sprintf(`{"order_index": %d, "start_time_ms": %d, "end_time_ms": %d}`, i, int64(i)*20_000, int64(i)*20_000+15_000)
	}
	manyClips += `]}`

	tests := []struct {
		name string
		raw  string
	}{
		{"empty clips array", `{"clips": []}`},
		{"too many clips", manyClips},
		{"negative start", `{"clips": [` + clip(-1000, 30_000) + `]}`},
		{"end past source duration", `{"clips": [` + clip(0, 300_001) + `]}`},
		{"end before start", `{"clips": [` + clip(30_000, 20_000) + `]}`},
		{"zero-length clip", `{"clips": [` + clip(30_000, 30_000) + `]}`},
		{"clip below minimum length", `{"clips": [` + clip(0, 9_999) + `]}`},
		{"total over cap", `{"clips": [` +
			clip(0, 100_000) + "," +
			`{"order_index": 1, "start_time_ms": 100000, "end_time_ms": 211000}` +
			`]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Resolve(json.RawMessage(tt.raw), source(300_000))
			if plan.EditingStrategy != types.StrategyFallbackDefault {
				t.Errorf("expected strategy %q, got %q", types.StrategyFallbackDefault, plan.EditingStrategy)
			}
		})
	}
}

func TestResolveIgnoresUpstreamTotal(t *testing.T) {
	// A lying total_duration_ms must not reject an otherwise valid plan.
	raw := json.RawMessage(`{
		"clips": [{"order_index": 0, "start_time_ms": 0, "end_time_ms": 30000}],
		"total_duration_ms": 500000
	}`)

	plan := Resolve(raw, source(300_000))
	if plan.EditingStrategy == types.StrategyFallbackDefault {
		t.Fatal("valid plan was rejected because of the upstream total")
	}
	if plan.TotalDurationMs != 30_000 {
		t.Errorf("expected recomputed total 30000ms, got %d", plan.TotalDurationMs)
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name       string
		durationMs int64
		wantStart  int64
		wantEnd    int64
	}{
		{"long source starts 30s in", 300_000, 30_000, 90_000},
		{"source shorter than offset window starts at zero", 39_999, 0, 39_999},
		{"exactly at offset threshold", 40_000, 30_000, 40_000},
		{"short source capped at source end", 45_000, 30_000, 45_000},
		{"very short source", 8_000, 0, 8_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Fallback(source(tt.durationMs), types.StrategyFallback)
			if len(plan.Clips) != 1 {
				t.Fatalf("expected 1 clip, got %d", len(plan.Clips))
			}
			c := plan.Clips[0]
			if c.StartTimeMs != tt.wantStart || c.EndTimeMs != tt.wantEnd {
				t.Errorf("got [%d, %d), want [%d, %d)", c.StartTimeMs, c.EndTimeMs, tt.wantStart, tt.wantEnd)
			}
			if plan.TotalDurationMs != tt.wantEnd-tt.wantStart {
				t.Errorf("total %dms inconsistent with clip bounds", plan.TotalDurationMs)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	raw := json.RawMessage(`{"clips": [{"order_index": 0, "start_time_ms": 0, "end_time_ms": 5000}]}`)
	src := source(300_000)

	first := Resolve(raw, src)
	for i := 0; i < 3; i++ {
		if got := Resolve(raw, src); !reflect.DeepEqual(got, first) {
			t.Fatalf("resolution is not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestParseTranscript(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		raw := json.RawMessage(`[{"start_time_ms": 0, "end_time_ms": 2000, "text": "hello"}]`)
		segments := ParseTranscript(raw)
		if len(segments) != 1 || segments[0].Text != "hello" {
			t.Errorf("unexpected segments: %+v", segments)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := ParseTranscript(nil); got != nil {
			t.Errorf("expected nil for empty input, got %+v", got)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if got := ParseTranscript(json.RawMessage(`{"not": "an array"}`)); got != nil {
			t.Errorf("expected nil for malformed input, got %+v", got)
		}
	})
}
