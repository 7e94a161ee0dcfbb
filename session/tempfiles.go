package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// TempFiles hands out staging paths and removes them in bulk.
type TempFiles struct {
	mu    sync.Mutex
	dir   string
	files []string
}

func NewTempFiles(dir string) *TempFiles {
	if dir == "" {
		dir = os.TempDir()
	}

	return &TempFiles{dir: dir}
}

func (t *TempFiles) Path(name string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := filepath.Join(t.dir, name)
	t.files = append(t.files, p)
	return p
}

func (t *TempFiles) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}

// RemoveAll deletes every file handed out so far. Missing files are ignored.
func (t *TempFiles) RemoveAll() error {
	t.mu.Lock()
	files := t.files
	t.files = nil
	t.mu.Unlock()

	var errs []error
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
