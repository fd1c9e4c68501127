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

// Package cmdcheck contains the check command
package cmdcheck

import (
	"context"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/lingering"
	"github.com/spf13/cobra"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:   "check",
		Short: "Report published artifacts whose notebook sources are gone",
		Long: `Compare the published tree against the notebook sources and the
staging area and report artifacts lingering from renamed or removed
notebooks. Nothing is removed; that is what "jot clean" is for.

With no subcommand both posts and images are checked.`,
		Example: `  # report lingering posts and images
  jot check

  # report only lingering posts
  jot check posts`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c

	posts := &cobra.Command{
		Use:     "posts",
		Short:   "Report untracked published posts whose notebooks are gone",
		RunE:    r.runPostsE,
		PreRunE: r.preRunE,
	}
	images := &cobra.Command{
		Use:     "images",
		Short:   "Report published images missing from the staging area",
		RunE:    r.runImagesE,
		PreRunE: r.preRunE,
	}
	c.AddCommand(posts, images)
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
	const op errors.Op = "cmdcheck.runE"
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	if err := (lingering.PostsCommand{Workspace: w}).Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	if err := (lingering.ImagesCommand{Workspace: w}).Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}

func (r *Runner) runPostsE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdcheck.runPostsE"
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	if err := (lingering.PostsCommand{Workspace: w}).Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}

func (r *Runner) runImagesE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdcheck.runImagesE"
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	if err := (lingering.ImagesCommand{Workspace: w}).Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}
