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

// Package cmddiff contains the diff command
package cmddiff

import (
	"context"
	"os"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/diff"
	"github.com/spf13/cobra"
)

// Environment variables overriding the external diff tool, for people
// who keep one configured shell-wide.
const (
	ExternalDiffEnv     = "JOT_EXTERNAL_DIFF"
	ExternalDiffOptsEnv = "JOT_EXTERNAL_DIFF_OPTS"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:   "diff",
		Short: "Show what syncing the staging area would change",
		Long: `Stage the staging area and the published counterparts of its
artifacts into two scratch trees and show the difference between them,
either with an external diff tool or as a built-in summary.`,
		Example: `  # show the pending changes with diff -r -u
  jot diff

  # one line per changed artifact
  jot diff --summary

  # use a different tool
  jot diff --diff-tool meld --diff-tool-opts "--auto-compare"`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	diffTool := diff.DefaultDiffTool
	if tool := os.Getenv(ExternalDiffEnv); tool != "" {
		diffTool = tool
	}
	diffToolOpts := diff.DefaultDiffToolOpts
	if opts := os.Getenv(ExternalDiffOptsEnv); opts != "" {
		diffToolOpts = opts
	}
	c.Flags().BoolVar(&r.Diff.Summary, "summary", false,
		"print one line per changed artifact instead of running a diff tool")
	c.Flags().StringVar(&r.Diff.DiffTool, "diff-tool", diffTool,
		"diff tool to use to show the changes")
	c.Flags().StringVar(&r.Diff.DiffToolOpts, "diff-tool-opts", diffToolOpts,
		"diff tool commandline options to use to show the changes")
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
	Diff    diff.Command
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
	const op errors.Op = "cmddiff.runE"
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	r.Diff.Workspace = w
	if err := r.Diff.Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}
