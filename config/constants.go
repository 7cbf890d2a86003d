package config

import (
	"os"
	"strconv"
	"time"
)

// Edit Plan Constants
const (
	// MaxClipsPerPlan bounds runaway AI plans
	MaxClipsPerPlan = 10

	// MinClipDurationMs rejects clips too short to be meaningful
	MinClipDurationMs = 10_000

	// DefaultMaxOutputDurationMs caps the assembled output at 3.5 minutes
	DefaultMaxOutputDurationMs = 210_000

	// FallbackStartMs is the preferred fallback clip offset (skip intros)
	FallbackStartMs = 30_000

	// FallbackClipLengthMs is the fallback clip length
	FallbackClipLengthMs = 60_000
)

// Video Output Constants
const (
	// VideoWidth is the output video width (9:16 aspect ratio)
	VideoWidth = 1080

	// VideoHeight is the output video height (9:16 aspect ratio)
	VideoHeight = 1920

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"
)

// Transcoding Constants
const (
	// TranscodeTimeout is the hard wall-clock limit per external invocation
	TranscodeTimeout = 5 * time.Minute

	// TitleFontSize is the drawtext size for the burned-in title
	TitleFontSize = 64

	// SubtitleStyle is the force_style applied when burning SRT subtitles:
	// bold, outlined, bottom-anchored with margins for legibility
	SubtitleStyle = "FontSize=16,Bold=1,Outline=2,Shadow=1,Alignment=2,MarginV=60,MarginL=40,MarginR=40"
)

// Processing Constants
const (
	// MaxConcurrentJobs limits how many jobs run pipelines simultaneously in
	// batch mode; each job's pipeline is itself strictly sequential
	MaxConcurrentJobs = 2
)

// Storage Constants
const (
	// EditedVideoPrefix is the key prefix for uploaded edited videos
	EditedVideoPrefix = "edited"

	// ThumbnailPrefix is the key prefix for uploaded thumbnails
	ThumbnailPrefix = "thumbnails"

	// PresignTTL is the validity window for presigned download URLs
	PresignTTL = 15 * time.Minute
)

// Directory Constants
const (
	// InputDir is the directory scanned for job JSON files in batch mode
	InputDir = "input"

	// DefaultFontFile is the font used for the title overlay
	DefaultFontFile = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
)

// MaxOutputDurationMs returns the output duration cap. The 210s default is a
// product decision, so it can be overridden via MAX_OUTPUT_DURATION_MS.
func MaxOutputDurationMs() int64 {
	if v := os.Getenv("MAX_OUTPUT_DURATION_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			return ms
		}
	}
	return DefaultMaxOutputDurationMs
}

// FontFile returns the title overlay font path, honoring FONT_FILE.
func FontFile() string {
	if v := os.Getenv("FONT_FILE"); v != "" {
		return v
	}
	return DefaultFontFile
}
