package watcher

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jsExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

func waitFor(t *testing.T, changed <-chan []string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case paths := <-changed:
			if slices.Contains(paths, want) {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change event on %s", want)
		}
	}
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil, nil)
	require.ErrorIs(t, err, os.ErrInvalid)
	assert.Nil(t, w)
}

func TestNewWatcher_RejectsBadPattern(t *testing.T) {
	_, err := NewWatcher(100*time.Millisecond, []string{"[oops"}, nil, nil, func([]string) {})
	assert.Error(t, err)
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, []string{"node_modules"}, []string{"*.min.js"}, jsExtensions, func(paths []string) {
		changedFiles <- paths
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch([]string{tmpDir}))

	testFile := filepath.Join(tmpDir, "button.test.js")
	require.NoError(t, os.WriteFile(testFile, []byte("import b from 'components/button';"), 0o644))
	waitFor(t, changedFiles, testFile, 2*time.Second)

	// Excluded by pattern and by extension.
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "vendor.min.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("x"), 0o644))

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			assert.NotEqual(t, "vendor.min.js", base, "excluded file triggered event")
			assert.NotEqual(t, "notes.md", base, "non-source file triggered event")
		}
	case <-time.After(500 * time.Millisecond):
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "components")
	require.NoError(t, os.MkdirAll(subdir, 0o755))
	subFile := filepath.Join(subdir, "button.jsx")
	require.NoError(t, os.WriteFile(subFile, []byte("export default 1;"), 0o644))
	waitFor(t, changedFiles, subFile, 2*time.Second)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, nil, nil, jsExtensions, func(paths []string) {
		changedFiles <- paths
	})
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch([]string{tmpDir}))

	oldPath := filepath.Join(tmpDir, "old.ts")
	newPath := filepath.Join(tmpDir, "new.ts")
	require.NoError(t, os.WriteFile(oldPath, []byte("export {}"), 0o644))
	require.NoError(t, os.Rename(oldPath, newPath))

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			if slices.Contains(paths, oldPath) || slices.Contains(paths, newPath) {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_Filters(t *testing.T) {
	w, err := NewWatcher(10*time.Millisecond, []string{"node_modules", ".*"}, []string{"*.snap.js"}, []string{".JS", " .tsx "}, func([]string) {})
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.ShouldExcludeFile("src/app.js"))
	assert.False(t, w.ShouldExcludeFile("src/App.TSX"))
	assert.True(t, w.ShouldExcludeFile("src/app.py"))
	assert.True(t, w.ShouldExcludeFile("src/app.snap.js"))

	assert.True(t, w.ShouldExcludeDir("/repo/node_modules"))
	assert.True(t, w.ShouldExcludeDir("/repo/.git"))
	assert.False(t, w.ShouldExcludeDir("/repo/src"))
}

func TestWatcher_DebounceBatches(t *testing.T) {
	changed := make(chan []string, 4)
	w, err := NewWatcher(50*time.Millisecond, nil, nil, nil, func(paths []string) {
		changed <- paths
	})
	require.NoError(t, err)
	defer w.Close()

	w.scheduleChange("/b.js")
	w.scheduleChange("/a.js")
	w.scheduleChange("/b.js")

	select {
	case paths := <-changed:
		assert.Equal(t, []string{"/a.js", "/b.js"}, paths)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounced batch")
	}
}
