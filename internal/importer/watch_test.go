package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReportsSettledWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organization: {id: acme}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func() { changed <- struct{}{} })
	}()

	// Keep writing until the watcher, which starts asynchronously, sees one.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for seen := false; !seen; {
		select {
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("organization: {id: acme, name: Acme}\n"), 0o644))
		case <-changed:
			seen = true
		case <-deadline:
			t.Fatal("no change reported")
		}
	}

	// Writes to other files in the directory are ignored.
	tick.Stop()
	time.Sleep(150 * time.Millisecond)
	for len(changed) > 0 {
		<-changed
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	select {
	case <-changed:
		t.Fatal("unrelated file reported")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "roster.yaml"), 0, func() {})
	require.Error(t, err)
}
