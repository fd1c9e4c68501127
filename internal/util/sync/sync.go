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

// Package sync contains the logic for publishing staged artifacts into
// the served tree of a blog workspace.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/types"
	"github.com/jotdev/jot/internal/util/copyutil"
)

// Command publishes the staging area of a workspace. Every converted
// post is copied into the posts directory and every converted image
// directory is copied into the published image tree. Files already
// published are overwritten; published files with no staged
// counterpart are left alone so that lingering-artifact detection has
// something to find after a notebook rename.
type Command struct {
	// Workspace is the blog checkout to publish. Required.
	Workspace *blog.Workspace
}

// Run runs the Command.
func (c Command) Run(ctx context.Context) error {
	const op errors.Op = "sync.Run"
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

	pr.Printf("Syncing converted artifacts to the published tree\n")
	if err := os.MkdirAll(w.PostsPath(), 0700); err != nil {
		return errors.E(op, w.UniquePath, errors.IO, err)
	}
	for _, p := range posts {
		dst := filepath.Join(w.PostsPath(), p.Stem+".md")
		if err := copyutil.CopyFile(p.Path, dst); err != nil {
			return errors.E(op, types.UniquePath(p.Path), err)
		}
		pr.Printf("%s -> %s\n", w.Display(p.Path), w.Display(dst))
	}
	for _, d := range imageDirs {
		dst := filepath.Join(w.ImagesPath(), d.Name)
		if err := copyutil.CloneDir(ctx, d.Path, dst); err != nil {
			return errors.E(op, types.UniquePath(d.Path), err)
		}
		pr.Printf("%s -> %s\n", w.Display(d.Path), w.Display(dst))
	}
	pr.Printf("Syncing complete.\n")
	return nil
}
