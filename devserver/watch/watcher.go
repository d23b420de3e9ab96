// CLASSIFICATION: COMMUNITY
// Filename: watcher.go v0.1
// Author: Lukas Bower
// Date Modified: 2026-10-19
// License: SPDX-License-Identifier: MIT OR Apache-2.0

// Package watch reports debounced file-system changes under a directory
// tree.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus used by the watcher.
type Logger interface {
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Watcher watches a directory tree and publishes a version number that
// increases once per burst of changes.
type Watcher struct {
	root     string
	log      Logger
	fsw      *fsnotify.Watcher
	debounce func(func())

	mu      sync.Mutex
	version uint64
	last    string
	pending string
	subs    map[int]chan uint64
	nextID  int
	closed  bool
}

// New starts watching root and every non-hidden directory beneath it.
func New(root string, wait time.Duration, log Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if wait <= 0 {
		wait = 100 * time.Millisecond
	}
	w := &Watcher{
		root:     root,
		log:      log,
		fsw:      fsw,
		debounce: debounce.New(wait),
		subs:     make(map[int]chan uint64),
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is done, then closes the watcher and all
// subscriptions.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.closeSubs()
	for {
		select {
		case <-ctx.Done():
			return w.fsw.Close()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("watch error: %v", err)
		}
	}
}

// Version returns the current change version and the last changed path
// relative to the root.
func (w *Watcher) Version() (uint64, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.version, w.last
}

// Subscribe returns a channel receiving the latest version after each
// burst. A slow reader may skip versions but always sees the newest one.
// The channel is closed when Run returns.
func (w *Watcher) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		close(ch)
		return ch, func() {}
	}
	id := w.nextID
	w.nextID++
	w.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if _, ok := w.subs[id]; ok {
				delete(w.subs, id)
				close(ch)
			}
		})
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.log.Warnf("watch %s: %v", ev.Name, err)
			}
		}
	}
	w.log.Debugf("fs event %s", ev)
	w.mu.Lock()
	w.pending = ev.Name
	w.mu.Unlock()
	w.debounce(w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.version++
	w.last = w.rel(w.pending)
	if l, ok := w.log.(logrus.FieldLogger); ok {
		l.WithFields(logrus.Fields{"path": w.last, "version": w.version}).Info("file changed")
	}
	for _, ch := range w.subs {
		select {
		case <-ch:
		default:
		}
		ch <- w.version
	}
}

func (w *Watcher) closeSubs() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	for id, ch := range w.subs {
		delete(w.subs, id)
		close(ch)
	}
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
