package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher_RequiresPath(t *testing.T) {
	w, err := NewWatcher(WatcherOptions{}, func(*TrainingConfig) error { return nil })
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestNewWatcher_RequiresCallback(t *testing.T) {
	w, err := NewWatcher(WatcherOptions{Path: "config.yaml"}, nil)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestWatcher_InitialLoad(t *testing.T) {
	path := writeConfig(t, flatConfig)

	reloads := make(chan *TrainingConfig, 8)
	w, err := NewWatcher(WatcherOptions{Path: path, Debounce: 50 * time.Millisecond},
		func(cfg *TrainingConfig) error {
			reloads <- cfg
			return nil
		})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	select {
	case cfg := <-reloads:
		assert.Equal(t, 20, cfg.Run.Epochs)
	case <-time.After(time.Second):
		t.Fatal("initial callback not invoked")
	}
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	path := writeConfig(t, flatConfig)

	reloads := make(chan *TrainingConfig, 8)
	w, err := NewWatcher(WatcherOptions{Path: path, Debounce: 50 * time.Millisecond},
		func(cfg *TrainingConfig) error {
			reloads <- cfg
			return nil
		})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	<-reloads // initial load

	updated := replaceKey(flatConfig, "epochs", "epochs: 30")
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	select {
	case cfg := <-reloads:
		assert.Equal(t, 30, cfg.Run.Epochs)
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a reload")
	}
}

func TestWatcher_InvalidChangeKeepsWatching(t *testing.T) {
	path := writeConfig(t, flatConfig)

	reloads := make(chan *TrainingConfig, 8)
	w, err := NewWatcher(WatcherOptions{Path: path, Debounce: 50 * time.Millisecond},
		func(cfg *TrainingConfig) error {
			reloads <- cfg
			return nil
		})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	<-reloads // initial load

	// A broken intermediate state must not reach the callback.
	require.NoError(t, os.WriteFile(path, []byte("epochs: [unclosed\n"), 0644))

	select {
	case cfg := <-reloads:
		t.Fatalf("callback invoked with invalid config: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}

	// A later valid state does.
	updated := replaceKey(flatConfig, "epochs", "epochs: 40")
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	select {
	case cfg := <-reloads:
		assert.Equal(t, 40, cfg.Run.Epochs)
	case <-time.After(5 * time.Second):
		t.Fatal("recovery change did not trigger a reload")
	}
}

func TestWatcher_StartFailsOnInvalidInitialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	w, err := NewWatcher(WatcherOptions{Path: path}, func(*TrainingConfig) error { return nil })
	require.NoError(t, err)

	err = w.Start(context.Background())
	assert.Error(t, err)
}
