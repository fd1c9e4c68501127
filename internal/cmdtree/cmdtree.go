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

// Package cmdtree contains the tree command
package cmdtree

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/lingering"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
	"k8s.io/klog/v2"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:   "tree",
		Short: "Render the workspace artifacts as a tree",
		Long: `Render the notebooks, the staging area and the published tree as a
tree. Artifacts the reconciliation would flag are annotated with
(lingering). Nothing is modified.`,
		Example: `  # show the workspace
  jot tree`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function
type Runner struct {
	ctx     context.Context
	Command *cobra.Command

	// Dir is the workspace root. Resolved from the --dir flag when
	// empty.
	Dir string
}

func (r *Runner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdtree.runE"
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}

	flagged := r.findings(w)

	tree := treeprint.New()
	tree.SetValue(rootLabel(w))

	notebooks := tree.AddBranch(blog.NotebooksDir)
	stems, err := w.Notebooks()
	if err != nil {
		return errors.E(op, err)
	}
	for _, s := range stems {
		notebooks.AddNode(blog.NotebookName(s))
	}

	staging := tree.AddBranch(blog.StagingDir)
	staged, err := w.ConvertedPosts()
	if err != nil {
		return errors.E(op, err)
	}
	for _, p := range staged {
		staging.AddNode(p.Stem + ".md")
	}
	stagedDirs, err := w.ConvertedImageDirs()
	if err != nil {
		return errors.E(op, err)
	}
	if len(stagedDirs) > 0 {
		images := staging.AddBranch(blog.ImagesDir)
		for _, d := range stagedDirs {
			if err := addImageDir(images, d, flagged); err != nil {
				return errors.E(op, err)
			}
		}
	}

	posts := tree.AddBranch(blog.PostsDir)
	published, err := w.PublishedPosts()
	if err != nil {
		return errors.E(op, err)
	}
	for _, p := range published {
		posts.AddNode(label(p.Stem+".md", flagged[p.Path]))
	}

	images := tree.AddBranch(blog.ImagesDir)
	pubDirs, err := w.PublishedImageDirs()
	if err != nil {
		return errors.E(op, err)
	}
	for _, d := range pubDirs {
		if err := addImageDir(images, d, flagged); err != nil {
			return errors.E(op, err)
		}
	}

	pr := printer.FromContextOrDie(r.ctx)
	pr.Printf("%s", tree.String())
	return nil
}

// findings collects the paths the reconciliation would flag. The tree
// stays best-effort: a workspace without a git history or a staging
// area renders without annotations instead of failing.
func (r *Runner) findings(w *blog.Workspace) map[string]bool {
	flagged := map[string]bool{}
	if posts, err := lingering.FindPosts(r.ctx, w); err == nil {
		for _, p := range posts {
			flagged[p.Path] = true
		}
	} else {
		klog.V(2).Infof("no post annotations: %v", err)
	}
	if images, err := lingering.FindImages(w); err == nil {
		for _, img := range images {
			flagged[img.Path] = true
		}
	} else {
		klog.V(2).Infof("no image annotations: %v", err)
	}
	return flagged
}

// addImageDir adds one image directory with its files to the branch.
func addImageDir(branch treeprint.Tree, d blog.ImageDir, flagged map[string]bool) error {
	const op errors.Op = "cmdtree.addImageDir"
	b := branch.AddBranch(label(d.Name, flagged[d.Path]))
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		b.AddNode(label(name, flagged[filepath.Join(d.Path, name)]))
	}
	return nil
}

func label(name string, lingering bool) string {
	if lingering {
		return name + " (lingering)"
	}
	return name
}

func rootLabel(w *blog.Workspace) string {
	if w.DisplayPath != "" {
		return string(w.DisplayPath)
	}
	return string(w.UniquePath)
}
