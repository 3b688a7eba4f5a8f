package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Workspace is a private staging directory for one request. Its path derives from the
// request ID, so concurrent uploads of identically named files never collide.
type Workspace struct {
	dir string
}

// AcquireWorkspace creates a fresh directory under root (the OS temp dir when empty).
// Callers must Release it on every exit path.
func AcquireWorkspace(root, requestID string) (*Workspace, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create workspace root: %w", err)
		}
	}
	dir, err := os.MkdirTemp(root, "req-"+unsafeName.ReplaceAllString(requestID, "_")+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

func (w *Workspace) Dir() string { return w.dir }

// WriteFile stages data under a sanitized name inside the workspace and returns its path.
func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	name = unsafeName.ReplaceAllString(filepath.Base(name), "_")
	if name == "" || name == "." || name == ".." {
		name = "blob"
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	return path, nil
}

// Release removes the workspace and everything staged in it.
func (w *Workspace) Release() error {
	if w == nil || w.dir == "" {
		return nil
	}
	return os.RemoveAll(w.dir)
}
