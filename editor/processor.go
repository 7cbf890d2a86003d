// Package editor runs the end-to-end edit pipeline for one job: download the
// source, resolve the plan, cut and join clips, retime subtitles, reformat to
// vertical, burn in text, extract a thumbnail, and upload the artifacts.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"clipsmith/config"
	"clipsmith/editplan"
	"clipsmith/subtitle"
	"clipsmith/types"
)

// ErrNoSourceVideo signals that the job carries no source video key and
// should be skipped, not retried.
var ErrNoSourceVideo = errors.New("job has no source video key")

// Transcoder is the set of external transcoding operations the pipeline
// needs. Implemented by ffmpeg.Transcoder; faked in tests.
type Transcoder interface {
	Probe(ctx context.Context, path string) (types.SourceVideoInfo, error)
	Clip(ctx context.Context, inPath, outPath string, startMs, endMs int64) error
	Concat(ctx context.Context, inPaths []string, outPath string) error
	ResizeVertical(ctx context.Context, inPath, outPath string) error
	AddTextOverlay(ctx context.Context, inPath, outPath, title, subtitlePath, fontPath string) error
	Thumbnail(ctx context.Context, inPath, outPath string, timestampMs int64) error
}

// ObjectStore is the byte-stream storage the pipeline reads sources from and
// writes artifacts to. Implemented by common.S3.
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	Upload(ctx context.Context, path, key string, publicRead bool) (string, error)
}

// Processor owns the pipeline for one job at a time. Instances are stateless
// between jobs: each invocation gets a fresh working directory and shares
// nothing with concurrent invocations.
type Processor struct {
	store    ObjectStore
	video    Transcoder
	workRoot string
	fontFile string
}

// NewProcessor builds a Processor. An empty workRoot falls back to the system
// temp directory.
func NewProcessor(store ObjectStore, video Transcoder, workRoot string) *Processor {
	if workRoot == "" {
		workRoot = filepath.Join(os.TempDir(), "clipsmith")
	}
	return &Processor{
		store:    store,
		video:    video,
		workRoot: workRoot,
		fontFile: config.FontFile(),
	}
}

// ProcessJob runs the full pipeline for one job and returns an updated copy:
// status EDITED with both artifact keys on success, status FAILED with the
// error message otherwise. Either both artifacts are uploaded or neither is.
// Temporary files are removed on every path.
func (p *Processor) ProcessJob(ctx context.Context, job types.Job) (types.Job, error) {
	if job.SourceVideoKey == "" {
		return job, ErrNoSourceVideo
	}

	// Verify the source object before creating any local state: a job that
	// references a key nobody uploaded can only ever fail.
	exists, err := p.store.Exists(ctx, job.SourceVideoKey)
	if err != nil {
		return p.fail(job, fmt.Errorf("check source: %w", err))
	}
	if !exists {
		return p.fail(job, fmt.Errorf("source video %s does not exist", job.SourceVideoKey))
	}

	// Per-job unique directory: the job ID keys it for traceability, the
	// random suffix guarantees no collision if the same job is re-run.
	ws, err := newWorkspace(filepath.Join(p.workRoot, fmt.Sprintf("%s_%s", sanitizeID(job.ID), uuid.NewString()[:8])))
	if err != nil {
		return p.fail(job, fmt.Errorf("create workspace: %w", err))
	}
	defer ws.cleanup()

	log.Printf("job %s: downloading source %s", job.ID, job.SourceVideoKey)
	sourcePath := ws.path("source.mp4")
	url, err := p.store.PresignDownload(ctx, job.SourceVideoKey)
	if err != nil {
		return p.fail(job, fmt.Errorf("presign source: %w", err))
	}
	if err := downloadFile(ctx, url, sourcePath); err != nil {
		return p.fail(job, fmt.Errorf("download source: %w", err))
	}

	info, err := p.video.Probe(ctx, sourcePath)
	if err != nil {
		return p.fail(job, fmt.Errorf("probe source: %w", err))
	}
	log.Printf("job %s: source is %dms %dx%d", job.ID, info.DurationMs, info.Width, info.Height)

	plan := editplan.Resolve(job.Segments, info)
	transcript := editplan.ParseTranscript(job.TranscriptSegments)
	log.Printf("job %s: plan has %d clip(s), strategy=%s, total=%dms",
		job.ID, len(plan.Clips), plan.EditingStrategy, plan.TotalDurationMs)

	// Clip extraction and subtitle retiming run per clip, strictly in plan
	// order: this ordering also drives concatenation and the merge offsets.
	clipPaths := make([]string, len(plan.Clips))
	tracks := make([][]types.TranscriptSegment, len(plan.Clips))
	durations := make([]int64, len(plan.Clips))
	for i, clip := range plan.Clips {
		clipPaths[i] = ws.path(fmt.Sprintf("clip_%02d.mp4", i))
		if err := p.video.Clip(ctx, sourcePath, clipPaths[i], clip.StartTimeMs, clip.EndTimeMs); err != nil {
			return p.fail(job, fmt.Errorf("extract clip %d: %w", i, err))
		}
		tracks[i] = subtitle.ExtractForClip(transcript, clip.StartTimeMs, clip.EndTimeMs)
		durations[i] = clip.DurationMs()
	}

	assembled := clipPaths[0]
	if len(clipPaths) > 1 {
		assembled = ws.path("assembled.mp4")
		// Concat writes its demuxer list next to the output; register the
		// sidecar so cleanup owns every file the pipeline can leave behind.
		ws.path("assembled.mp4.list.txt")
		if err := p.video.Concat(ctx, clipPaths, assembled); err != nil {
			return p.fail(job, fmt.Errorf("concat clips: %w", err))
		}
	}

	subtitlePath := ""
	if srt := subtitle.Render(subtitle.Merge(tracks, durations)); srt != "" {
		subtitlePath = ws.path("subtitles.srt")
		if err := os.WriteFile(subtitlePath, []byte(srt), 0o644); err != nil {
			return p.fail(job, fmt.Errorf("write subtitles: %w", err))
		}
	}

	resized := ws.path("vertical.mp4")
	if err := p.video.ResizeVertical(ctx, assembled, resized); err != nil {
		return p.fail(job, fmt.Errorf("vertical resize: %w", err))
	}

	final := ws.path("final.mp4")
	if err := p.video.AddTextOverlay(ctx, resized, final, job.GeneratedTitle, subtitlePath, p.fontFile); err != nil {
		return p.fail(job, fmt.Errorf("text overlay: %w", err))
	}

	thumb := ws.path("thumbnail.jpg")
	if err := p.video.Thumbnail(ctx, final, thumb, plan.TotalDurationMs/2); err != nil {
		return p.fail(job, fmt.Errorf("thumbnail: %w", err))
	}

	stem := sourceStem(job.SourceVideoKey)
	editedKey, err := p.store.Upload(ctx, final, fmt.Sprintf("%s/%s/%s.mp4", config.EditedVideoPrefix, job.ID, stem), true)
	if err != nil {
		return p.fail(job, fmt.Errorf("upload edited video: %w", err))
	}
	thumbKey, err := p.store.Upload(ctx, thumb, fmt.Sprintf("%s/%s/%s.jpg", config.ThumbnailPrefix, job.ID, stem), true)
	if err != nil {
		return p.fail(job, fmt.Errorf("upload thumbnail: %w", err))
	}

	log.Printf("job %s: edited video at %s, thumbnail at %s", job.ID, editedKey, thumbKey)

	out := job
	out.EditedVideoKey = editedKey
	out.ThumbnailKey = thumbKey
	out.Status = types.JobStatusEdited
	out.Error = nil
	return out, nil
}

// fail returns a FAILED copy of the job alongside the error.
func (p *Processor) fail(job types.Job, err error) (types.Job, error) {
	log.Printf("job %s: %v", job.ID, err)
	msg := err.Error()
	out := job
	out.Status = types.JobStatusFailed
	out.Error = &msg
	return out, err
}

// downloadFile fetches url into path.
func downloadFile(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download: status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

// sourceStem derives the artifact name from the source key.
func sourceStem(key string) string {
	base := filepath.Base(key)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sanitizeID keeps job IDs filesystem-safe.
func sanitizeID(id string) string {
	if id == "" {
		return "job"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
}
