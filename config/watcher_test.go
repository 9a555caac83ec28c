package config

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

func TestFileWatcherDetectsChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conclave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  budget_usd: 0.25\n"), 0o644))

	w := NewFileWatcher(path, 10*time.Millisecond, nil)
	var fired atomic.Int32
	w.OnChange(func(string) { fired.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	// mtime resolution can be coarse; bump it explicitly
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Positive(t, fired.Load())
}

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	t.Parallel()

	w := NewFileWatcher(filepath.Join(t.TempDir(), "missing.yaml"), 10*time.Millisecond, nil)
	w.Start(context.Background())
	w.Stop()
	w.Stop()
}

func TestReloadManagerAppliesValidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conclave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  budget_usd: 0.25\n"), 0o644))

	m, err := NewReloadManager(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.25, m.Current().Run.BudgetUSD)

	var got atomic.Value
	m.OnReload(func(_, next *Config) { got.Store(next.Run.BudgetUSD) })

	require.NoError(t, os.WriteFile(path, []byte("run:\n  budget_usd: 0.50\n"), 0o644))
	m.reload()

	assert.Equal(t, 0.50, m.Current().Run.BudgetUSD)
	assert.Equal(t, 0.50, got.Load())
}

func TestReloadManagerRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conclave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  budget_usd: 0.25\n"), 0o644))

	m, err := NewReloadManager(path, nil)
	require.NoError(t, err)

	// a bad config must not replace the current one
	require.NoError(t, os.WriteFile(path, []byte("run:\n  budget_usd: -9\n"), 0o644))
	m.reload()

	assert.Equal(t, 0.25, m.Current().Run.BudgetUSD)
}

func TestReloadManagerMissingInitialFile(t *testing.T) {
	t.Parallel()

	// a missing file falls back to defaults rather than failing startup
	m, err := NewReloadManager(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Run.BudgetUSD, m.Current().Run.BudgetUSD)
}
