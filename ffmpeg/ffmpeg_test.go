package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipsmith/config"
)

func TestFmtSeconds(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0.000"},
		{1, "0.001"},
		{500, "0.500"},
		{30_000, "30.000"},
		{90_500, "90.500"},
		{3_599_999, "3599.999"},
	}

	for _, tt := range tests {
		if got := fmtSeconds(tt.ms); got != tt.want {
			t.Errorf("fmtSeconds(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "clips.list.txt")

	inputs := []string{
		filepath.Join(dir, "clip_00.mp4"),
		filepath.Join(dir, "it's.mp4"),
	}
	if err := writeConcatList(listPath, inputs); err != nil {
		t.Fatalf("writeConcatList failed: %v", err)
	}

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 list entries, got %d:\n%s", len(lines), content)
	}
	if want := fmt.Sprintf("file '%s'", inputs[0]); lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
	if !strings.Contains(lines[1], `'\''`) {
		t.Errorf("single quote not escaped for the demuxer: %q", lines[1])
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := escapeFilterPath("/tmp/job/subtitles.srt")
	if got != "/tmp/job/subtitles.srt" {
		t.Errorf("plain path should pass through, got %q", got)
	}

	got = escapeFilterPath("C:/work/subs.srt")
	if !strings.Contains(got, `\:`) {
		t.Errorf("colon not escaped: %q", got)
	}
}

func TestEscapeDrawtext(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain title", "plain title"},
		{"100% true", `100\% true`},
		{"it's 3:00", `it\'s 3\:00`},
	}

	for _, tt := range tests {
		if got := escapeDrawtext(tt.in); got != tt.want {
			t.Errorf("escapeDrawtext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTail(t *testing.T) {
	long := strings.Repeat("banner\n", 30) + "actual error"
	got := tail(long, 20)
	if !strings.HasSuffix(got, "actual error") {
		t.Errorf("tail dropped the final line: %q", got)
	}
	if n := strings.Count(got, "\n"); n != 19 {
		t.Errorf("expected 20 lines, got %d", n+1)
	}

	short := "one\ntwo"
	if got := tail(short, 20); got != short {
		t.Errorf("tail(%q) = %q, want unchanged", short, got)
	}
}

func TestErrorTypes(t *testing.T) {
	t.Run("timeout is not a transcode error", func(t *testing.T) {
		var err error = &TimeoutError{Op: "clip", Timeout: 5 * time.Minute}
		var tErr *TranscodeError
		if errors.As(err, &tErr) {
			t.Error("TimeoutError matched TranscodeError")
		}
		var toErr *TimeoutError
		if !errors.As(err, &toErr) {
			t.Error("TimeoutError did not match itself")
		}
		if !strings.Contains(err.Error(), "timed out") {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})

	t.Run("transcode error unwraps its cause", func(t *testing.T) {
		cause := errors.New("exit status 1")
		var err error = &TranscodeError{Op: "resize", Stderr: "No such file", Err: cause}
		if !errors.Is(err, cause) {
			t.Error("TranscodeError does not unwrap to its cause")
		}
		if msg := err.Error(); !strings.Contains(msg, "resize") || !strings.Contains(msg, "No such file") {
			t.Errorf("message missing op or stderr: %q", msg)
		}
	})

	t.Run("probe error unwraps its cause", func(t *testing.T) {
		cause := errors.New("no duration in ffprobe output")
		var err error = &ProbeError{Path: "/tmp/x.mp4", Err: cause}
		if !errors.Is(err, cause) {
			t.Error("ProbeError does not unwrap to its cause")
		}
	})
}

func TestNewDefaults(t *testing.T) {
	tr := New("", "", 0)
	if tr.ffmpegBin != "ffmpeg" || tr.ffprobeBin != "ffprobe" {
		t.Errorf("expected PATH lookup names, got %q and %q", tr.ffmpegBin, tr.ffprobeBin)
	}
	if tr.timeout != config.TranscodeTimeout {
		t.Errorf("expected default timeout %s, got %s", config.TranscodeTimeout, tr.timeout)
	}

	tr = New("/opt/ffmpeg", "/opt/ffprobe", time.Minute)
	if tr.ffmpegBin != "/opt/ffmpeg" || tr.timeout != time.Minute {
		t.Errorf("explicit settings not kept: %+v", tr)
	}
}

func TestRunKillsOnTimeout(t *testing.T) {
	tr := &Transcoder{timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := tr.run(context.Background(), "clip", "sleep", []string{"10"})
	elapsed := time.Since(start)

	var toErr *TimeoutError
	if !errors.As(err, &toErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if toErr.Op != "clip" {
		t.Errorf("expected op clip, got %q", toErr.Op)
	}
	if elapsed > 5*time.Second {
		t.Errorf("run did not return promptly after timeout: %s", elapsed)
	}
}

func TestRunCommandFailure(t *testing.T) {
	tr := &Transcoder{timeout: 5 * time.Second}

	_, err := tr.run(context.Background(), "probe", "false", nil)
	var tErr *TranscodeError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TranscodeError, got %v", err)
	}
	if tErr.Op != "probe" {
		t.Errorf("expected op probe, got %q", tErr.Op)
	}
}
