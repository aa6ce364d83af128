package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(target, []byte("int main(void) { return 0; }\n"), 0644))

	changed := make(chan string, 8)
	w, err := New(50*time.Millisecond, func(path string) { changed <- path })
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(target))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	require.NoError(t, os.WriteFile(target, []byte("int main(void) { return 1; }\n"), 0644))

	select {
	case path := <-changed:
		abs, _ := filepath.Abs(target)
		assert.Equal(t, abs, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change callback within 5s")
	}

	cancel()
	<-done
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.c")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("int x;\n"), 0644))

	var fired atomic.Int32
	w, err := New(20*time.Millisecond, func(string) { fired.Add(1) })
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(target))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	require.NoError(t, os.WriteFile(other, []byte("scratch\n"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load(), "events for unwatched files are filtered out")

	cancel()
	<-done
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(target, []byte("int x;\n"), 0644))

	var fired atomic.Int32
	w, err := New(100*time.Millisecond, func(string) { fired.Add(1) })
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(target))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	// A burst of rapid writes settles into a single callback.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte("int y;\n"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		2*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())

	cancel()
	<-done
}
