// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/compositor"
)

// Watch reloads the catalog whenever a file in the asset directory changes.
//
// Events are coalesced over the debounce interval, then Reload runs and its
// result is passed to onReload (nil on success). Watcher errors are passed
// to onReload too. Watching stops when ctx is done or Close is called. The
// store must have been loaded.
func (s *Store) Watch(ctx context.Context, onReload func(error)) error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	if onReload == nil {
		onReload = func(error) {}
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	if s.watcher != nil {
		return ErrWatching
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("assets: watch: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("assets: watch %s: %w", s.dir, err)
	}
	s.watcher = w

	go s.watchLoop(ctx, w, onReload)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, onReload func(error)) {
	defer s.stopWatching(w)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			compositor.Logger().Debug("assets: change detected", "file", ev.Name, "op", ev.Op.String())
			settle = time.After(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			onReload(fmt.Errorf("assets: watch: %w", err))
		case <-settle:
			settle = nil
			onReload(s.Reload())
		}
	}
}

// stopWatching closes w and forgets it if it is still the active watcher.
func (s *Store) stopWatching(w *fsnotify.Watcher) {
	s.wmu.Lock()
	if s.watcher == w {
		s.watcher = nil
	}
	s.wmu.Unlock()
	_ = w.Close()
}
