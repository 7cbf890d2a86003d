package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"syscall"
)

// run executes one external invocation under the transcoder's wall-clock
// timeout. The child is started in its own process group and the whole group
// is killed on timeout, so ffmpeg's forked helpers cannot be orphaned.
func (t *Transcoder) run(ctx context.Context, op, bin string, args []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Op: op, Timeout: t.timeout}
		}
		return nil, &TranscodeError{Op: op, Stderr: tail(stderr.String(), 20), Err: err}
	}
	return stdout.Bytes(), nil
}

// tail keeps the last n lines of tool output; ffmpeg puts the actual failure
// reason at the end of a long banner.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
