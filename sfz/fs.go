package sfz

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FileSystem is the only I/O surface the core needs. It must be injectable
// so tests can run against in-memory fixtures.
type FileSystem interface {
	// ReadFile returns the content of the file at path.
	ReadFile(path string) ([]byte, error)

	// IsFile reports whether path exists and is a regular file.
	IsFile(path string) bool

	// ListDir returns the set of entry names in the directory at path.
	ListDir(path string) (map[string]struct{}, error)
}

// listDirCacheSize bounds the per-process directory listing cache. Sample
// libraries rarely spread across more than a few hundred directories.
const listDirCacheSize = 256

type osFS struct {
	listings *lru.Cache[string, map[string]struct{}]
}

// OS returns a FileSystem backed by the operating system. Directory listings
// are memoized per absolute path for the lifetime of the value, since the
// sample-path case check hits the same directories repeatedly.
func OS() FileSystem {
	cache, err := lru.New[string, map[string]struct{}](listDirCacheSize)
	if err != nil {
		panic(err) // only fails for non-positive size
	}
	return &osFS{listings: cache}
}

func (f *osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *osFS) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (f *osFS) ListDir(path string) (map[string]struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if names, ok := f.listings.Get(abs); ok {
		return names, nil
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name()] = struct{}{}
	}
	f.listings.Add(abs, names)
	return names, nil
}
