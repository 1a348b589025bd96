// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/fsnotify/fsnotify"
)

// Watch follows changes made to the session file by other processes, such
// as `uniconnect logout` run in another terminal. onChange receives the new
// snapshot whenever it differs from the one held in memory. Watch blocks
// until ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func(Snapshot)) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// The file is replaced by rename, so watch the directory.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != FileName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if snap, changed := s.reloadChanged(); changed && onChange != nil {
				onChange(snap)
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// reloadChanged re-reads the file and reports whether the in-memory state
// changed as a result.
func (s *Store) reloadChanged() (Snapshot, bool) {
	snap, err := readFile(s.path)
	if err != nil {
		return Snapshot{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if reflect.DeepEqual(s.state, snap) {
		return Snapshot{}, false
	}
	s.state = snap
	return snap.clone(), true
}
