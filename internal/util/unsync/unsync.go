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

// Package unsync removes published artifacts that originate from the
// staging area of a blog workspace.
package unsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/types"
)

// Command is the inverse of sync.Command. For every artifact in the
// staging area it removes the published counterpart, leaving the
// staging area itself untouched. Published artifacts with no staged
// counterpart are not removed; that is the job of the lingering
// cleanup.
type Command struct {
	// Workspace is the blog checkout to operate on. Required.
	Workspace *blog.Workspace
}

// Run runs the Command.
func (c Command) Run(ctx context.Context) error {
	const op errors.Op = "unsync.Run"
	pr := printer.FromContextOrDie(ctx)
	w := c.Workspace
	if w == nil {
		return errors.E(op, errors.MissingParam, fmt.Errorf("workspace must be provided"))
	}
	if err := w.RequireStaging(); err != nil {
		return errors.E(op, err)
	}

	posts, err := w.ConvertedPosts()
	if err != nil {
		return errors.E(op, w.UniquePath, err)
	}
	imageDirs, err := w.ConvertedImageDirs()
	if err != nil {
		return errors.E(op, w.UniquePath, err)
	}

	for _, p := range posts {
		dst := filepath.Join(w.PostsPath(), p.Stem+".md")
		removed, err := removePath(dst, false)
		if err != nil {
			return errors.E(op, types.UniquePath(dst), errors.IO, err)
		}
		if removed {
			pr.Printf("Removed -> %s\n", w.Display(dst))
		}
	}
	for _, d := range imageDirs {
		dst := filepath.Join(w.ImagesPath(), d.Name)
		removed, err := removePath(dst, true)
		if err != nil {
			return errors.E(op, types.UniquePath(dst), errors.IO, err)
		}
		if removed {
			pr.Printf("Removed -> %s\n", w.Display(dst))
		}
	}
	pr.Printf("Unsyncing complete.\n")
	return nil
}

// removePath deletes the file or directory at path if it exists and
// reports whether anything was deleted.
func removePath(path string, recursive bool) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if recursive {
		return true, os.RemoveAll(path)
	}
	return true, os.Remove(path)
}
