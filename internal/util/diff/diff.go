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

// Package diff shows what would change if the staging area were synced.
//
// The staged artifacts and their published counterparts are projected
// into two temporary directories with identical layouts, and the pair is
// rendered either by an external diff program or by a built-in summary.
package diff

import (
	"context"
	goerrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/shlex"
	pkgerrors "github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/copyutil"
	"github.com/jotdev/jot/internal/util/dirdiff"
	"github.com/jotdev/jot/internal/util/toolexec"
)

const (
	// DefaultDiffTool is the program used to render differences.
	DefaultDiffTool = "diff"

	// DefaultDiffToolOpts are the options passed to DefaultDiffTool.
	DefaultDiffToolOpts = "-r -u"
)

// Differ renders the difference between the published projection and the
// staged tree.
type Differ interface {
	Diff(ctx context.Context, published, staged string) error
}

// Command shows the changes a sync would publish.
type Command struct {
	// Workspace is the blog checkout to diff. Required.
	Workspace *blog.Workspace

	// Summary selects the built-in rendering instead of DiffTool.
	Summary bool

	// DiffTool is the external program rendering the differences.
	DiffTool string

	// DiffToolOpts holds the options for DiffTool in shell form.
	DiffToolOpts string

	// Exec runs DiffTool.
	Exec toolexec.Runner
}

// Run runs the Command.
func (c *Command) Run(ctx context.Context) error {
	const op errors.Op = "diff.Run"
	c.DefaultValues()
	w := c.Workspace
	if w == nil {
		return errors.E(op, errors.MissingParam, fmt.Errorf("workspace must be provided"))
	}
	if err := w.RequireStaging(); err != nil {
		return errors.E(op, err)
	}

	tmp, err := os.MkdirTemp("", "jot-diff-")
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	defer os.RemoveAll(tmp)
	published := filepath.Join(tmp, "published")
	staged := filepath.Join(tmp, "staged")
	klog.V(2).Infof("staging diff trees under %s", tmp)

	if err := c.stageTrees(ctx, published, staged); err != nil {
		return errors.E(op, w.UniquePath, err)
	}
	if err := c.differ().Diff(ctx, published, staged); err != nil {
		return errors.E(op, w.UniquePath, err)
	}
	return nil
}

// DefaultValues sets the fields of the Command to the conventional diff
// invocation where they are unset.
func (c *Command) DefaultValues() {
	if c.DiffTool == "" {
		c.DiffTool = DefaultDiffTool
	}
	if c.DiffToolOpts == "" {
		c.DiffToolOpts = DefaultDiffToolOpts
	}
	if c.Exec == nil {
		c.Exec = &toolexec.ExecRunner{}
	}
}

func (c *Command) differ() Differ {
	if c.Summary {
		return summaryDiffer{}
	}
	return &toolDiffer{Tool: c.DiffTool, Opts: c.DiffToolOpts, Exec: c.Exec}
}

// stageTrees builds the two directories the differ compares. The staged
// side is a copy of the staging area; the published side holds only the
// published counterparts of staged artifacts, laid out the same way, so
// that a recursive comparison lines up file for file.
func (c *Command) stageTrees(ctx context.Context, published, staged string) error {
	w := c.Workspace
	for _, dir := range []string{published, staged} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.E(errors.IO, err)
		}
	}

	posts, err := w.ConvertedPosts()
	if err != nil {
		return err
	}
	for _, p := range posts {
		if err := copyutil.CopyFile(p.Path, filepath.Join(staged, p.Stem+".md")); err != nil {
			return pkgerrors.Wrapf(err, "staging %s", p.Stem)
		}
		src := filepath.Join(w.PostsPath(), p.Stem+".md")
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyutil.CopyFile(src, filepath.Join(published, p.Stem+".md")); err != nil {
			return pkgerrors.Wrapf(err, "staging published counterpart of %s", p.Stem)
		}
	}

	imageDirs, err := w.ConvertedImageDirs()
	if err != nil {
		return err
	}
	images := filepath.FromSlash(blog.ImagesDir)
	for _, d := range imageDirs {
		if err := copyutil.CloneDir(ctx, d.Path, filepath.Join(staged, images, d.Name)); err != nil {
			return pkgerrors.Wrapf(err, "staging %s", d.Name)
		}
		src := filepath.Join(w.ImagesPath(), d.Name)
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			continue
		}
		if err := copyutil.CloneDir(ctx, src, filepath.Join(published, images, d.Name)); err != nil {
			return pkgerrors.Wrapf(err, "staging published counterpart of %s", d.Name)
		}
	}
	return nil
}

// summaryDiffer lists changed and one-sided paths without rendering
// content differences.
type summaryDiffer struct{}

func (summaryDiffer) Diff(ctx context.Context, published, staged string) error {
	const op errors.Op = "diff.summary"
	pr := printer.FromContextOrDie(ctx)
	res, err := dirdiff.Compare(published, staged, []string{})
	if err != nil {
		return errors.E(op, err)
	}
	if res.Empty() {
		pr.Printf("No differences found.\n")
		return nil
	}
	for _, pair := range res.Differ {
		pr.Printf("Differs: %s\n", rel(staged, pair.Right))
	}
	for _, p := range res.LeftOnly {
		pr.Printf("Only in published: %s\n", rel(published, p))
	}
	for _, p := range res.RightOnly {
		pr.Printf("Only in staging: %s\n", rel(staged, p))
	}
	return nil
}

// toolDiffer shells out to an external diff program. Diff tools report
// "differences found" through exit status 1, which is not a failure.
type toolDiffer struct {
	Tool string
	Opts string
	Exec toolexec.Runner
}

func (d *toolDiffer) Diff(ctx context.Context, published, staged string) error {
	const op errors.Op = "diff.tool"
	pr := printer.FromContextOrDie(ctx)
	args, err := shlex.Split(d.Opts)
	if err != nil {
		return errors.E(op, errors.InvalidParam, fmt.Errorf("invalid diff tool options %q: %w", d.Opts, err))
	}
	args = append(args, published, staged)
	result, err := d.Exec.Run(ctx, toolexec.Spec{Name: d.Tool, Args: args})
	if err != nil {
		var exitErr *toolexec.ExitError
		if goerrors.As(err, &exitErr) && exitErr.ExitCode == 1 {
			fmt.Fprint(pr.OutStream(), exitErr.StdOut)
			return nil
		}
		return errors.E(op, err)
	}
	fmt.Fprint(pr.OutStream(), result.Stdout)
	return nil
}

func rel(root, p string) string {
	r, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(r)
}
