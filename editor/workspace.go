package editor

import (
	"log"
	"os"
	"path/filepath"
)

// workspace is the per-job temporary directory. Every path handed out is
// registered so cleanup can remove exactly what the pipeline created, no
// matter which stage failed.
type workspace struct {
	dir   string
	files []string
}

func newWorkspace(dir string) (*workspace, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &workspace{dir: dir}, nil
}

// path registers and returns a file path inside the workspace.
func (w *workspace) path(name string) string {
	p := filepath.Join(w.dir, name)
	w.files = append(w.files, p)
	return p
}

// cleanup removes registered files and then the directory. Best-effort:
// individual failures are logged and never mask the pipeline's own error.
func (w *workspace) cleanup() {
	for _, f := range w.files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			log.Printf("cleanup: could not remove %s: %v", f, err)
		}
	}
	if err := os.Remove(w.dir); err != nil && !os.IsNotExist(err) {
		log.Printf("cleanup: could not remove %s: %v", w.dir, err)
	}
}
