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

// Package cmdconvert contains the convert command
package cmdconvert

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/config"
	"github.com/jotdev/jot/internal/docker"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/spf13/cobra"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:   "convert [NOTEBOOK...]",
		Short: "Convert notebooks into the staging area",
		Long: `Run the converter inside the jupyter workflow image, one container
run per notebook, writing markdown into the staging area. With no
arguments every notebook converts.`,
		Example: `  # convert every notebook
  jot convert

  # convert a single notebook
  jot convert 2023-05-01-first-post.ipynb

  # print the docker commands without running them
  jot convert --dry-run`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	c.Flags().BoolVar(&r.DryRun, "dry-run", false,
		"print the container invocations instead of running them")
	c.Flags().BoolVar(&r.NoTTY, "no-tty", false,
		"do not allocate a pseudo-TTY for the container runs")
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
	DryRun  bool
	NoTTY   bool

	// Dir is the workspace root. Resolved from the --dir flag when
	// empty.
	Dir string

	// Exec overrides the subprocess runner, mostly for tests.
	Exec toolexec.Runner
}

func (r *Runner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *Runner) runE(_ *cobra.Command, args []string) error {
	const op errors.Op = "cmdconvert.runE"
	pr := printer.FromContextOrDie(r.ctx)
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	cfg, err := config.Resolve(r.ctx, r.Dir)
	if err != nil {
		return errors.E(op, err)
	}

	stems, err := r.stems(w, args)
	if err != nil {
		return errors.E(op, err)
	}
	if len(stems) == 0 {
		pr.Printf("No notebooks found.\n")
		return nil
	}

	runner := r.runner()
	for _, stem := range stems {
		if !r.DryRun {
			pr.Printf("Converting notebook %s\n", stem)
		}
		spec := docker.RunArgs(cfg.JupyterImage, docker.RunOptions{
			TTY:        r.tty(),
			Volume:     true,
			User:       true,
			WorkDir:    cfg.WorkDir.String(),
			SourcePath: cfg.SourcePath,
			Cmd: []string{
				"jupyter", "nbconvert", "--to", "markdown",
				"--output-dir", blog.StagingDir,
				path.Join(blog.NotebooksDir, blog.NotebookName(stem)),
			},
		})
		if _, err := runner.Run(r.ctx, spec); err != nil {
			return errors.E(op, w.UniquePath, err)
		}
	}
	if !r.DryRun {
		pr.Printf("Conversion complete.\n")
	}
	return nil
}

// stems resolves the notebooks to convert. Arguments may name the
// notebook with or without the .ipynb extension; without arguments every
// notebook in the workspace converts.
func (r *Runner) stems(w *blog.Workspace, args []string) ([]string, error) {
	const op errors.Op = "cmdconvert.stems"
	if len(args) == 0 {
		stems, err := w.Notebooks()
		if err != nil {
			return nil, errors.E(op, err)
		}
		return stems, nil
	}
	var stems []string
	for _, arg := range args {
		stem := strings.TrimSuffix(arg, ".ipynb")
		if !w.HasNotebook(stem) {
			return nil, errors.E(op, w.UniquePath, errors.InvalidParam,
				fmt.Errorf("no notebook %q under %s", blog.NotebookName(stem), blog.NotebooksDir))
		}
		stems = append(stems, stem)
	}
	return stems, nil
}

func (r *Runner) runner() toolexec.Runner {
	if r.Exec != nil {
		return r.Exec
	}
	if r.DryRun {
		return &toolexec.DryRunner{}
	}
	return &toolexec.ExecRunner{Verbose: true}
}

func (r *Runner) tty() bool {
	return !r.NoTTY && !cmdutil.EnvTrue(cmdutil.NoTTYEnv)
}
