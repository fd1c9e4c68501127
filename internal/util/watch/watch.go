// Copyright 2023 The jot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package watch re-runs an action when a directory tree changes.
//
// Bursts of filesystem events are collapsed into a single run: the
// action fires only after the tree has been quiet for the debounce
// interval. Serving with --watch uses this to republish the staging
// area while a notebook conversion writes many files in a row.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
)

// DefaultDebounce is how long the tree must stay quiet before the
// action runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher runs OnChange after changes under Dir settle.
type Watcher struct {
	// Dir is the directory tree to watch. Required.
	Dir string

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// OnChange runs after events settle. An error is reported and the
	// watch continues. Required.
	OnChange func(ctx context.Context) error
}

// Run watches until the context is canceled. Subdirectories created
// while watching join the watch.
func (w *Watcher) Run(ctx context.Context) error {
	const op errors.Op = "watch.Run"
	pr := printer.FromContextOrDie(ctx)
	if w.Dir == "" {
		return errors.E(op, errors.MissingParam, fmt.Errorf("directory must be provided"))
	}
	if w.OnChange == nil {
		return errors.E(op, errors.MissingParam, fmt.Errorf("change handler must be provided"))
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.E(op, err)
	}
	defer fw.Close()
	if err := addTree(fw, w.Dir); err != nil {
		return errors.E(op, errors.IO, err)
	}
	klog.V(2).Infof("watching %s with %s debounce", w.Dir, debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	arm := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fw, event.Name); err != nil {
						pr.Printf("[Warn] cannot watch %s: %v\n", event.Name, err)
					}
				}
			}
			klog.V(3).Infof("fs event %s", event)
			arm()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			pr.Printf("[Warn] watch: %v\n", err)
		case <-fire:
			if err := w.OnChange(ctx); err != nil {
				pr.Printf("[Warn] change handler: %v\n", err)
			}
		}
	}
}

// addTree registers dir and every non-hidden subdirectory below it.
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return fw.Add(p)
	})
}
