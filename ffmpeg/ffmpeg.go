// Package ffmpeg wraps the external ffmpeg/ffprobe tools behind the small set
// of operations the edit pipeline needs. Filter graphs and argument vectors
// are assembled with ffmpeg-go; execution goes through a shared runner that
// enforces a hard timeout and kills the whole process group.
package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"clipsmith/config"
	"clipsmith/types"
)

// Transcoder invokes ffmpeg/ffprobe as external processes. All operations are
// synchronous and fail loudly on non-zero exit or timeout.
type Transcoder struct {
	ffmpegBin  string
	ffprobeBin string
	timeout    time.Duration
}

// New returns a Transcoder. Empty binary paths fall back to PATH lookup and a
// zero timeout falls back to the configured default.
func New(ffmpegBin, ffprobeBin string, timeout time.Duration) *Transcoder {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	if timeout <= 0 {
		timeout = config.TranscodeTimeout
	}
	return &Transcoder{ffmpegBin: ffmpegBin, ffprobeBin: ffprobeBin, timeout: timeout}
}

// probeOutput mirrors the ffprobe JSON fields we care about.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Probe returns the duration and dimensions of the video at path.
func (t *Transcoder) Probe(ctx context.Context, path string) (types.SourceVideoInfo, error) {
	out, err := t.run(ctx, "probe", t.ffprobeBin, []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	})
	if err != nil {
		return types.SourceVideoInfo{}, &ProbeError{Path: path, Err: err}
	}

	var po probeOutput
	if err := json.Unmarshal(out, &po); err != nil {
		return types.SourceVideoInfo{}, &ProbeError{Path: path, Err: fmt.Errorf("parse ffprobe output: %w", err)}
	}
	if po.Format.Duration == "" {
		return types.SourceVideoInfo{}, &ProbeError{Path: path, Err: fmt.Errorf("no duration in ffprobe output")}
	}
	sec, err := strconv.ParseFloat(po.Format.Duration, 64)
	if err != nil {
		return types.SourceVideoInfo{}, &ProbeError{Path: path, Err: fmt.Errorf("parse duration %q: %w", po.Format.Duration, err)}
	}

	info := types.SourceVideoInfo{DurationMs: int64(sec * 1000)}
	for _, s := range po.Streams {
		if s.CodecType == "video" {
			info.Width = s.Width
			info.Height = s.Height
			break
		}
	}
	return info, nil
}

// Clip extracts [startMs, endMs) from inPath into outPath, re-encoding with
// the pipeline's uniform codec parameters so later concatenation can stream-copy.
func (t *Transcoder) Clip(ctx context.Context, inPath, outPath string, startMs, endMs int64) error {
	args := ffmpeggo.Input(inPath, ffmpeggo.KwArgs{
		"ss": fmtSeconds(startMs),
		"to": fmtSeconds(endMs),
	}).Output(outPath, ffmpeggo.KwArgs{
		"c:v":    config.VideoCodec,
		"preset": config.VideoPreset,
		"c:a":    config.AudioCodec,
		"b:a":    config.AudioBitrate,
	}).OverWriteOutput().GetArgs()

	_, err := t.run(ctx, "clip", t.ffmpegBin, args)
	return err
}

// Concat losslessly joins the inputs in list order into outPath. All inputs
// must share codec/container parameters; clips cut by Clip satisfy this. The
// demuxer list is written to outPath+".list.txt" and removed on return.
func (t *Transcoder) Concat(ctx context.Context, inPaths []string, outPath string) error {
	if len(inPaths) == 0 {
		return &TranscodeError{Op: "concat", Err: fmt.Errorf("no input clips")}
	}

	listPath := outPath + ".list.txt"
	if err := writeConcatList(listPath, inPaths); err != nil {
		return &TranscodeError{Op: "concat", Err: err}
	}
	defer os.Remove(listPath)

	args := ffmpeggo.Input(listPath, ffmpeggo.KwArgs{
		"f":    "concat",
		"safe": "0",
	}).Output(outPath, ffmpeggo.KwArgs{
		"c": "copy",
	}).OverWriteOutput().GetArgs()

	_, err := t.run(ctx, "concat", t.ffmpegBin, args)
	return err
}

// ResizeVertical scales the input to fit the 1080x1920 vertical frame
// preserving aspect ratio, then pads to fill it exactly, centered.
func (t *Transcoder) ResizeVertical(ctx context.Context, inPath, outPath string) error {
	in := ffmpeggo.Input(inPath)
	video := in.Get("v").
		Filter("scale", ffmpeggo.Args{
			fmt.Sprintf("%d:%d:force_original_aspect_ratio=decrease", config.VideoWidth, config.VideoHeight),
		}).
		Filter("pad", ffmpeggo.Args{
			fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2", config.VideoWidth, config.VideoHeight),
		})

	args := ffmpeggo.Output([]*ffmpeggo.Stream{video, in.Get("a")}, outPath, ffmpeggo.KwArgs{
		"c:v":    config.VideoCodec,
		"preset": config.VideoPreset,
		"c:a":    "copy",
	}).OverWriteOutput().GetArgs()

	_, err := t.run(ctx, "resize", t.ffmpegBin, args)
	return err
}

// AddTextOverlay burns a persistent title into the frame and, when
// subtitlePath is non-empty, timed subtitles styled for legibility.
func (t *Transcoder) AddTextOverlay(ctx context.Context, inPath, outPath, title, subtitlePath, fontPath string) error {
	in := ffmpeggo.Input(inPath)
	video := in.Get("v")

	if title != "" {
		video = video.Filter("drawtext", ffmpeggo.Args{}, ffmpeggo.KwArgs{
			"text":        escapeDrawtext(title),
			"fontfile":    fontPath,
			"fontsize":    config.TitleFontSize,
			"fontcolor":   "white",
			"borderw":     3,
			"bordercolor": "black",
			"x":           "(w-text_w)/2",
			"y":           "h*0.08",
		})
	}
	if subtitlePath != "" {
		video = video.Filter("subtitles", ffmpeggo.Args{escapeFilterPath(subtitlePath)}, ffmpeggo.KwArgs{
			"force_style": config.SubtitleStyle,
		})
	}

	args := ffmpeggo.Output([]*ffmpeggo.Stream{video, in.Get("a")}, outPath, ffmpeggo.KwArgs{
		"c:v":    config.VideoCodec,
		"preset": config.VideoPreset,
		"c:a":    "copy",
	}).OverWriteOutput().GetArgs()

	_, err := t.run(ctx, "overlay", t.ffmpegBin, args)
	return err
}

// Thumbnail extracts a single frame at timestampMs into outPath.
func (t *Transcoder) Thumbnail(ctx context.Context, inPath, outPath string, timestampMs int64) error {
	args := ffmpeggo.Input(inPath, ffmpeggo.KwArgs{
		"ss": fmtSeconds(timestampMs),
	}).Output(outPath, ffmpeggo.KwArgs{
		"vframes": 1,
		"q:v":     2,
	}).OverWriteOutput().GetArgs()

	_, err := t.run(ctx, "thumbnail", t.ffmpegBin, args)
	return err
}

// writeConcatList writes the concat demuxer list: one `file '<path>'` line per
// input, single quotes escaped the way the demuxer expects.
func writeConcatList(listPath string, inPaths []string) error {
	var b strings.Builder
	for _, p := range inPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	return os.WriteFile(listPath, []byte(b.String()), 0o644)
}

// fmtSeconds renders a millisecond offset as fractional seconds for ffmpeg.
func fmtSeconds(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000.0, 'f', 3, 64)
}

// escapeFilterPath escapes a path for use inside a filter argument.
func escapeFilterPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.ReplaceAll(p, `\`, `\\`)
	p = strings.ReplaceAll(p, ":", `\:`)
	return p
}

// escapeDrawtext escapes characters drawtext treats specially.
func escapeDrawtext(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ":", `\:`)
	s = strings.ReplaceAll(s, "'", `\'`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return s
}
