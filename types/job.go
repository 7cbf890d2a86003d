package types

import "encoding/json"

// JobStatus is the terminal (or pending) state of an edit job.
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusEdited  JobStatus = "EDITED"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is the unit of work handed to the edit pipeline. The upstream analysis
// stage fills Segments/TranscriptSegments/GeneratedTitle; the pipeline fills
// EditedVideoKey/ThumbnailKey/Status. Raw JSON fields are kept unparsed here
// because upstream output is unreliable and parsing is the resolver's job.
type Job struct {
	ID                 string          `json:"id"`
	SourceVideoKey     string          `json:"source_video_key"`
	Segments           json.RawMessage `json:"segments,omitempty"`
	TranscriptSegments json.RawMessage `json:"transcript_segments,omitempty"`
	GeneratedTitle     string          `json:"generated_title,omitempty"`

	EditedVideoKey string    `json:"edited_video_key,omitempty"`
	ThumbnailKey   string    `json:"thumbnail_key,omitempty"`
	Status         JobStatus `json:"status"`
	Error          *string   `json:"error,omitempty"`
}

// TranscriptSegment is one timed line of speech from the full-video transcript.
type TranscriptSegment struct {
	StartTimeMs int64  `json:"start_time_ms"`
	EndTimeMs   int64  `json:"end_time_ms"`
	Text        string `json:"text"`
}

// SourceVideoInfo holds the probed facts about a downloaded source video.
type SourceVideoInfo struct {
	DurationMs int64
	Width      int
	Height     int
}
