// Package probe answers the existence questions module resolution asks of the
// filesystem. Resolution only needs to know whether a directory holds an
// entry with an exact name, so the interface stays that small and tests can
// swap in an in-memory tree.
package probe

import (
	"os"
	"path/filepath"
	"sort"
)

type FS interface {
	// ReadDirNames returns the entry names of dir. Missing or unreadable
	// directories return an error.
	ReadDirNames(dir string) ([]string, error)
	IsDir(path string) bool
}

// DirHas reports whether dir contains an entry literally named name.
// Listing failures count as "no".
func DirHas(fsys FS, dir, name string) bool {
	names, err := fsys.ReadDirNames(dir)
	if err != nil {
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

type osFS struct{}

// OS returns the FS backed by the real filesystem.
func OS() FS { return osFS{} }

func (osFS) ReadDirNames(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (osFS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

type mockFS struct {
	dirs map[string]map[string]bool
}

// NewMockFS builds an in-memory tree from absolute paths. A path ending in a
// slash is a directory; anything else is a file. Parent directories are
// created implicitly.
func NewMockFS(paths ...string) FS {
	m := &mockFS{dirs: make(map[string]map[string]bool)}
	for _, p := range paths {
		isDir := len(p) > 1 && os.IsPathSeparator(p[len(p)-1])
		p = filepath.Clean(p)
		if isDir {
			m.ensureDir(p)
		}
		for {
			parent := filepath.Dir(p)
			if parent == p {
				break
			}
			m.ensureDir(parent)[filepath.Base(p)] = true
			p = parent
		}
	}
	return m
}

func (m *mockFS) ensureDir(dir string) map[string]bool {
	entries, ok := m.dirs[dir]
	if !ok {
		entries = make(map[string]bool)
		m.dirs[dir] = entries
	}
	return entries
}

func (m *mockFS) ReadDirNames(dir string) ([]string, error) {
	entries, ok := m.dirs[filepath.Clean(dir)]
	if !ok {
		return nil, &os.PathError{Op: "readdir", Path: dir, Err: os.ErrNotExist}
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockFS) IsDir(path string) bool {
	_, ok := m.dirs[filepath.Clean(path)]
	return ok
}
