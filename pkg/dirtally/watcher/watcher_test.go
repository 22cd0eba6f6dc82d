package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, debounce time.Duration, files ...string) *recorder {
	t.Helper()

	w, err := New(debounce)
	require.NoError(t, err)
	for _, f := range files {
		require.NoError(t, w.Watch(f))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	rec := &recorder{}
	go func() {
		defer close(done)
		w.Run(ctx, rec.record)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return rec
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ ls\n"), 0o644))

	rec := startWatcher(t, 0, path)

	require.NoError(t, os.WriteFile(path, []byte("$ ls\ndir a\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, rec.snapshot()[0])
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ ls\n"), 0o644))

	rec := startWatcher(t, 0, path)

	require.NoError(t, os.WriteFile(other, []byte("noise"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	require.NoError(t, os.WriteFile(path, []byte("dir a\n"), 0o644))
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	for _, p := range rec.snapshot() {
		assert.Equal(t, path, p)
	}
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	rec := startWatcher(t, 200*time.Millisecond, path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("$ ls\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherRecreatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ ls\n"), 0o644))

	rec := startWatcher(t, 0, path)

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path, []byte("dir b\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherFilesAndClose(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	w, err := New(DefaultDebounce)
	require.NoError(t, err)
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b))

	assert.ElementsMatch(t, []string{a, b}, w.Files())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.NoError(t, w.Watch(filepath.Join(dir, "c.txt")))
}

func TestWatchMissingDirectory(t *testing.T) {
	w, err := New(0)
	require.NoError(t, err)
	defer w.Close()

	err = w.Watch(filepath.Join(t.TempDir(), "missing", "input.txt"))
	assert.Error(t, err)
}
