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

// Package cmdclean contains the clean command
package cmdclean

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
		Use:   "clean",
		Short: "Remove published artifacts whose notebook sources are gone",
		Long: `Remove the artifacts "jot check" reports: untracked published posts
whose notebooks are gone, and published images missing from the staging
area. Exactly the reported set is removed, nothing else.

With no subcommand both posts and images are cleaned.`,
		Example: `  # remove lingering posts and images
  jot clean

  # remove only lingering images
  jot clean images`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c

	posts := &cobra.Command{
		Use:     "posts",
		Short:   "Remove untracked published posts whose notebooks are gone",
		RunE:    r.runPostsE,
		PreRunE: r.preRunE,
	}
	images := &cobra.Command{
		Use:     "images",
		Short:   "Remove published images missing from the staging area",
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
	const op errors.Op = "cmdclean.runE"
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	if err := (lingering.PostsCommand{Workspace: w, Remove: true}).Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	if err := (lingering.ImagesCommand{Workspace: w, Remove: true}).Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}

func (r *Runner) runPostsE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdclean.runPostsE"
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	if err := (lingering.PostsCommand{Workspace: w, Remove: true}).Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}

func (r *Runner) runImagesE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdclean.runImagesE"
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	if err := (lingering.ImagesCommand{Workspace: w, Remove: true}).Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}
