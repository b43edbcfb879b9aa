package mapping_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relstore/relstore/mapping"
	"github.com/relstore/relstore/visitor"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatch(t *testing.T) {
	ns := newTestNamespace(t)
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	writeFile(t, path, "filters:\n  game_type: Game.type\n")

	reloaded := make(chan error, 4)
	w, err := mapping.Watch(path, ns, mapping.OnReload(func(_ []visitor.StatementVisitor, err error) {
		reloaded <- err
	}))
	require.NoError(t, err)
	defer w.Close()

	require.Len(t, w.Visitors(), 1)

	writeFile(t, path, "filters:\n  game_type: Game.type\npage_param: page\n")
	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	assert.Len(t, w.Visitors(), 2)
}

func TestWatchKeepsLastGoodChain(t *testing.T) {
	ns := newTestNamespace(t)
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	writeFile(t, path, "filters:\n  game_type: Game.type\n")

	reloaded := make(chan error, 4)
	w, err := mapping.Watch(path, ns, mapping.OnReload(func(_ []visitor.StatementVisitor, err error) {
		reloaded <- err
	}))
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, path, "filters:\n  game_type: Game.nope\n")
	select {
	case err := <-reloaded:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	assert.Len(t, w.Visitors(), 1)
}

func TestWatchInitialLoadFails(t *testing.T) {
	ns := newTestNamespace(t)
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	writeFile(t, path, "filters:\n  game_type: Game.nope\n")

	_, err := mapping.Watch(path, ns)
	assert.Error(t, err)
}
