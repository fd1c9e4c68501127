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

package cmdsite

import (
	"context"

	"github.com/google/shlex"
	"github.com/jotdev/jot/internal/blog"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/jekyll"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/spf13/cobra"
)

// NewBuildRunner returns a command runner
func NewBuildRunner(ctx context.Context, parent string) *BuildRunner {
	r := &BuildRunner{ctx: ctx}
	c := &cobra.Command{
		Use:   "build",
		Short: "Build the site with jekyll",
		Long: `Run jekyll build over the workspace. The jekyll version is checked
against the oldest supported release before anything runs.`,
		Example: `  # build into _site
  jot site build

  # build somewhere else with extra jekyll flags
  jot site build --destination /tmp/preview --jekyll-opts "--drafts"`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	c.Flags().StringVar(&r.Destination, "destination", "",
		"output directory, defaults to _site inside the workspace")
	c.Flags().StringVar(&r.JekyllOpts, "jekyll-opts", "",
		"extra flags passed through to jekyll build")
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

// BuildRunner contains the run function
type BuildRunner struct {
	ctx         context.Context
	Command     *cobra.Command
	Destination string
	JekyllOpts  string

	// Dir is the workspace root. Resolved from the --dir flag when
	// empty.
	Dir string

	// Exec overrides the subprocess runner, mostly for tests.
	Exec toolexec.Runner
}

func (r *BuildRunner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *BuildRunner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdsite.build"
	pr := printer.FromContextOrDie(r.ctx)
	w, err := blog.OpenWorkspace(r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	extra, err := shlex.Split(r.JekyllOpts)
	if err != nil {
		return errors.E(op, errors.InvalidParam, err)
	}

	runner := r.runner()
	if err := jekyll.CheckVersion(r.ctx, runner); err != nil {
		return errors.E(op, err)
	}

	pr.Printf("Building site\n")
	opts := jekyll.BuildOptions{
		Source:      string(w.UniquePath),
		Destination: r.Destination,
		ExtraFlags:  extra,
	}
	if err := jekyll.Build(r.ctx, runner, opts); err != nil {
		return errors.E(op, w.UniquePath, err)
	}
	dest := r.Destination
	if dest == "" {
		dest = w.Display(w.SitePath())
	}
	pr.Printf("Site built into %s\n", dest)
	return nil
}

func (r *BuildRunner) runner() toolexec.Runner {
	if r.Exec != nil {
		return r.Exec
	}
	return &toolexec.ExecRunner{Verbose: true}
}
