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

package cmdenv

import (
	"context"

	"github.com/jotdev/jot/internal/config"
	"github.com/jotdev/jot/internal/docker"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/spf13/cobra"
)

// NewBuildRunner returns a command runner
func NewBuildRunner(ctx context.Context, parent string) *BuildRunner {
	r := &BuildRunner{ctx: ctx}
	c := &cobra.Command{
		Use:   "build (jupyter|testing)",
		Args:  cobra.ExactArgs(1),
		Short: "Build a workflow image",
		Long: `Build the requested workflow image. The previously published image is
pulled first so its layers seed the build cache; --no-pull or
JOT_NO_PULL=true skips that.`,
		Example: `  # build the notebook conversion image
  jot env build jupyter

  # rebuild the testing image from scratch
  jot env build testing --no-pull --no-cache

  # print the docker commands without running them
  jot env build jupyter --dry-run`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	c.Flags().BoolVar(&r.DryRun, "dry-run", false,
		"print the docker invocations instead of running them")
	c.Flags().BoolVar(&r.NoPull, "no-pull", false,
		"do not pull the published image before building")
	c.Flags().BoolVar(&r.NoCache, "no-cache", false,
		"build without the docker layer cache")
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

// BuildRunner contains the run function
type BuildRunner struct {
	ctx     context.Context
	Command *cobra.Command
	DryRun  bool
	NoPull  bool
	NoCache bool

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

func (r *BuildRunner) runE(_ *cobra.Command, args []string) error {
	const op errors.Op = "cmdenv.build"
	pr := printer.FromContextOrDie(r.ctx)
	cfg, err := config.Resolve(r.ctx, r.Dir)
	if err != nil {
		return errors.E(op, err)
	}
	flavor := args[0]
	image, err := flavorImage(cfg, flavor)
	if err != nil {
		return errors.E(op, err)
	}

	runner := pickRunner(r.Exec, r.DryRun)
	if !r.NoPull && !cmdutil.EnvTrue(cmdutil.NoPullEnv) {
		// A pull failure is survivable, the build just starts cold.
		if _, err := runner.Run(r.ctx, docker.PullArgs(image)); err != nil {
			pr.Printf("[Warn] cannot pull %s: %v\n", image, err)
		}
	}
	if !r.DryRun {
		pr.Printf("Building %s image\n", flavor)
	}
	opts := docker.BuildOptions{
		NoCache:    r.NoCache,
		Target:     flavor,
		ContextDir: cfg.WorkDir.String(),
	}
	if _, err := runner.Run(r.ctx, docker.BuildArgs(image, opts)); err != nil {
		return errors.E(op, cfg.WorkDir, err)
	}
	if !r.DryRun {
		pr.Printf("Built %s\n", image)
	}
	return nil
}
