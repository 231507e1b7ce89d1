package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSStore serves artifacts from a local directory. The identifier is the
// file name within the directory; subdirectories are not artifacts.
type FSStore struct {
	dir string
}

// NewFSStore resolves dir (expanding a leading '~') and returns a store
// rooted there. The directory must exist.
func NewFSStore(dir string) (*FSStore, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("artifacts dir: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("artifacts dir: %s is not a directory", abs)
	}
	return &FSStore{dir: abs}, nil
}

// Fetch reads the artifact file named id. Identifiers may not escape the
// store directory.
func (s *FSStore) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return nil, ErrNotFound(id)
	}
	b, err := os.ReadFile(filepath.Join(s.dir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound(id)
		}
		return nil, ErrTransient(id, err)
	}
	return b, nil
}

// List enumerates artifact identifiers in lexical order.
func (s *FSStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
