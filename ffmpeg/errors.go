package ffmpeg

import (
	"fmt"
	"time"
)

// ProbeError means ffprobe could not read the file at all.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// TranscodeError is a non-zero exit from an ffmpeg invocation. Stderr carries
// the tail of the tool's output for diagnosis. Not retriable at this layer.
type TranscodeError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *TranscodeError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ffmpeg %s: %v\n%s", e.Op, e.Err, e.Stderr)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// TimeoutError means the invocation exceeded its wall-clock budget and the
// process group was killed. Kept distinct from TranscodeError so callers can
// apply different retry heuristics.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ffmpeg %s: timed out after %s", e.Op, e.Timeout)
}
