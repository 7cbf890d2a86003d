// Package subtitle builds SRT subtitle files and keeps their timestamps
// consistent with the edit pipeline's clip extraction and concatenation.
package subtitle

import (
	"fmt"
	"strconv"
	"strings"

	"clipsmith/types"
)

// Render serializes segments to SRT: sequential index, a
// `HH:MM:SS,mmm --> HH:MM:SS,mmm` range, the text, and a blank line. An empty
// segment list yields an empty string so burn-in is skipped downstream.
func Render(segments []types.TranscriptSegment) string {
	if len(segments) == 0 {
		return ""
	}

	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(seg.StartTimeMs), formatTimestamp(seg.EndTimeMs))
		fmt.Fprintf(&b, "%s\n\n", seg.Text)
	}
	return b.String()
}

// Parse reads SRT content back into segments. The round trip through Render
// is lossless to the millisecond.
func Parse(data string) ([]types.TranscriptSegment, error) {
	var out []types.TranscriptSegment

	lines := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")
	i := 0
	for i < len(lines) {
		// skip blank separators and the cue index line
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSpace(lines[i])); err != nil {
			return nil, fmt.Errorf("srt line %d: expected cue index, got %q", i+1, lines[i])
		}
		i++
		if i >= len(lines) {
			return nil, fmt.Errorf("srt: unexpected end of input after cue index")
		}

		start, end, err := parseTimeRange(lines[i])
		if err != nil {
			return nil, fmt.Errorf("srt line %d: %w", i+1, err)
		}
		i++

		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, lines[i])
			i++
		}

		out = append(out, types.TranscriptSegment{
			StartTimeMs: start,
			EndTimeMs:   end,
			Text:        strings.Join(text, "\n"),
		})
	}
	return out, nil
}

func parseTimeRange(line string) (int64, int64, error) {
	parts := strings.Split(strings.TrimSpace(line), " --> ")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed time range %q", line)
	}
	start, err := parseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// formatTimestamp renders milliseconds as HH:MM:SS,mmm.
func formatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	s := (ms % 60_000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// parseTimestamp reads HH:MM:SS,mmm back into milliseconds.
func parseTimestamp(ts string) (int64, error) {
	ts = strings.TrimSpace(ts)
	var h, m, s, ms int64
	if _, err := fmt.Sscanf(ts, "%d:%d:%d,%d", &h, &m, &s, &ms); err != nil {
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}
	return h*3_600_000 + m*60_000 + s*1000 + ms, nil
}
