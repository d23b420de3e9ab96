// CLASSIFICATION: COMMUNITY
// Filename: watcher_test.go v0.1
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func startWatcher(t *testing.T, root string) (*Watcher, context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(root, 20*time.Millisecond, quietLogger())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w, cancel, done
}

func waitVersion(t *testing.T, ch <-chan uint64) uint64 {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
		return 0
	}
}

func TestWriteBumpsVersion(t *testing.T) {
	root := t.TempDir()
	w, _, _ := startWatcher(t, root)
	ch, cancel := w.Subscribe()
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("one"), 0o644))
	v := waitVersion(t, ch)
	assert.GreaterOrEqual(t, v, uint64(1))

	got, last := w.Version()
	assert.Equal(t, v, got)
	assert.Equal(t, "app.js", last)
}

func TestNewDirectoriesAreWatched(t *testing.T) {
	root := t.TempDir()
	w, _, _ := startWatcher(t, root)
	ch, cancel := w.Subscribe()
	defer cancel()

	sub := filepath.Join(root, "assets")
	require.NoError(t, os.Mkdir(sub, 0o755))
	first := waitVersion(t, ch)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "logo.svg"), []byte("<svg/>"), 0o644))
	second := waitVersion(t, ch)
	assert.Greater(t, second, first)
	_, last := w.Version()
	assert.Equal(t, "assets/logo.svg", last)
}

func TestHiddenDirectoriesSkipped(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	w, err := New(root, 20*time.Millisecond, quietLogger())
	require.NoError(t, err)
	defer w.fsw.Close()
	assert.Equal(t, []string{root}, w.fsw.WatchList())
}

func TestRunClosesSubscriptions(t *testing.T) {
	root := t.TempDir()
	w, cancel, done := startWatcher(t, root)
	ch, _ := w.Subscribe()
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("subscription not closed")
	}
	require.NoError(t, <-done)

	late, _ := w.Subscribe()
	_, ok := <-late
	assert.False(t, ok)
}
