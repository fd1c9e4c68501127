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

// NewTestRunner returns a command runner
func NewTestRunner(ctx context.Context, parent string) *TestRunner {
	r := &TestRunner{ctx: ctx}
	c := &cobra.Command{
		Use:   "test",
		Short: "Run the site test suite in the testing image",
		Long: `Run the site test suite inside the testing image. The workspace is
mounted into the container and the image entrypoint drives the tests.`,
		Example: `  # run the tests
  jot env test

  # print the docker command without running it
  jot env test --dry-run`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	c.Flags().BoolVar(&r.DryRun, "dry-run", false,
		"print the docker invocation instead of running it")
	c.Flags().BoolVar(&r.NoTTY, "no-tty", false,
		"do not allocate a pseudo-terminal for the container")
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

// TestRunner contains the run function
type TestRunner struct {
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

func (r *TestRunner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *TestRunner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdenv.test"
	pr := printer.FromContextOrDie(r.ctx)
	cfg, err := config.Resolve(r.ctx, r.Dir)
	if err != nil {
		return errors.E(op, err)
	}

	if !r.DryRun {
		pr.Printf("Running site tests in %s\n", cfg.TestingImage)
	}
	tty := !r.NoTTY && !cmdutil.EnvTrue(cmdutil.NoTTYEnv)
	opts := docker.RunOptions{
		TTY:        tty,
		Volume:     true,
		User:       true,
		WorkDir:    cfg.WorkDir.String(),
		SourcePath: cfg.SourcePath,
	}
	runner := pickRunner(r.Exec, r.DryRun)
	if _, err := runner.Run(r.ctx, docker.RunArgs(cfg.TestingImage, opts)); err != nil {
		return errors.E(op, cfg.WorkDir, err)
	}
	if !r.DryRun {
		pr.Printf("Tests passed.\n")
	}
	return nil
}
