// Package testutil holds shared test fixtures.
package testutil

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// MapFS is an in-memory sfz.FileSystem keyed by slash-separated paths.
type MapFS map[string]string

func (m MapFS) key(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

func (m MapFS) ReadFile(p string) ([]byte, error) {
	content, ok := m[m.key(p)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

func (m MapFS) IsFile(p string) bool {
	_, ok := m[m.key(p)]
	return ok
}

func (m MapFS) ListDir(p string) (map[string]struct{}, error) {
	dir := m.key(p)
	names := make(map[string]struct{})
	for file := range m {
		if !strings.HasPrefix(file, dir+"/") {
			continue
		}
		rest := strings.TrimPrefix(file, dir+"/")
		first, _, _ := strings.Cut(rest, "/")
		names[first] = struct{}{}
	}
	if len(names) == 0 {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}
	return names, nil
}
