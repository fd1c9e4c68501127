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

// Package lingering finds published artifacts whose source notebook is
// gone. Renaming or retracting a notebook leaves its old post and
// image directory behind in the published tree; this package detects
// exactly those leftovers and, on request, removes exactly those.
package lingering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/gitutil"
	"github.com/jotdev/jot/internal/printer"
)

// Post is a published post with no source notebook.
type Post struct {
	// Stem is the post filename without extension.
	Stem string

	// Path is the absolute path of the post file.
	Path string

	// ImageDir is the absolute path of the published image directory
	// belonging to the post. Empty when the post has none.
	ImageDir string
}

// FindPosts returns the untracked posts whose notebook no longer
// exists. Tracked posts are never candidates; git is the record of
// what was published on purpose.
func FindPosts(ctx context.Context, w *blog.Workspace) ([]Post, error) {
	const op errors.Op = "lingering.FindPosts"
	g, err := gitutil.NewLocalGitRunner(string(w.UniquePath))
	if err != nil {
		return nil, errors.E(op, w.UniquePath, err)
	}
	untracked, err := g.UntrackedFiles(ctx, blog.PostsDir)
	if err != nil {
		return nil, errors.E(op, w.UniquePath, err)
	}

	var posts []Post
	for _, rel := range untracked {
		if filepath.Dir(filepath.FromSlash(rel)) != filepath.FromSlash(blog.PostsDir) {
			continue
		}
		name := filepath.Base(rel)
		if !strings.HasSuffix(name, ".md") {
			continue
		}
		stem := strings.TrimSuffix(name, ".md")
		if w.HasNotebook(stem) {
			continue
		}
		p := Post{Stem: stem, Path: w.Path(rel)}
		imgDir := w.PublishedImageDirFor(stem)
		if fi, err := os.Stat(imgDir); err == nil && fi.IsDir() {
			p.ImageDir = imgDir
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// PostsCommand reconciles untracked posts against the notebook tree.
type PostsCommand struct {
	// Workspace is the blog checkout to scan. Required.
	Workspace *blog.Workspace

	// Remove deletes findings instead of listing them.
	Remove bool
}

// Run runs the PostsCommand.
func (c PostsCommand) Run(ctx context.Context) error {
	const op errors.Op = "lingering.Posts"
	pr := printer.FromContextOrDie(ctx)
	w := c.Workspace
	if w == nil {
		return errors.E(op, errors.MissingParam, fmt.Errorf("workspace must be provided"))
	}

	posts, err := FindPosts(ctx, w)
	if err != nil {
		return errors.E(op, err)
	}
	if len(posts) == 0 {
		pr.Printf("No untracked posts found.\n")
		return nil
	}

	if !c.Remove {
		pr.Printf("Untracked posts found:\n")
		for _, p := range posts {
			pr.OptPrintf(printer.NewOpt().Indent(2), "%s\n", w.Display(p.Path))
		}
		pr.Printf("Run \"jot clean posts\" to remove them.\n")
		return nil
	}

	for _, p := range posts {
		if err := os.Remove(p.Path); err != nil {
			return errors.E(op, w.UniquePath, errors.IO, err)
		}
		pr.Printf("Removed untracked post: %s\n", w.Display(p.Path))
		if p.ImageDir == "" {
			continue
		}
		if err := os.RemoveAll(p.ImageDir); err != nil {
			return errors.E(op, w.UniquePath, errors.IO, err)
		}
		pr.Printf("Removed corresponding image directory: %s\n", w.Display(p.ImageDir))
	}
	pr.Printf("Cleanup complete.\n")
	return nil
}
