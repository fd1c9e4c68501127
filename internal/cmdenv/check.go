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

	"github.com/jotdev/jot/internal/docker"
	"github.com/jotdev/jot/internal/errors"
	"github.com/jotdev/jot/internal/printer"
	"github.com/jotdev/jot/internal/util/cmdutil"
	"github.com/jotdev/jot/internal/util/toolexec"
	"github.com/spf13/cobra"
)

// NewCheckRunner returns a command runner
func NewCheckRunner(ctx context.Context, parent string) *CheckRunner {
	r := &CheckRunner{ctx: ctx}
	c := &cobra.Command{
		Use:   "check",
		Short: "Verify the docker client",
		Long: `Verify that a docker client is on the path and recent enough for the
workflow images.`,
		Example: `  # check the docker client
  jot env check`,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	c.Flags().BoolVar(&r.DryRun, "dry-run", false,
		"print the docker invocations instead of running them")
	cmdutil.FixDocs("jot", parent, c)
	r.Command = c
	return r
}

// CheckRunner contains the run function
type CheckRunner struct {
	ctx     context.Context
	Command *cobra.Command
	DryRun  bool

	// Dir is the workspace root. Resolved from the --dir flag when
	// empty.
	Dir string

	// Exec overrides the subprocess runner, mostly for tests.
	Exec toolexec.Runner
}

func (r *CheckRunner) preRunE(c *cobra.Command, _ []string) error {
	if r.Dir == "" {
		r.Dir = cmdutil.WorkspaceDir(c)
	}
	return nil
}

func (r *CheckRunner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdenv.check"
	runner := pickRunner(r.Exec, r.DryRun)
	if r.DryRun {
		// The probe output cannot be parsed in dry-run mode; printing
		// the command line is the whole point.
		if _, err := runner.Run(r.ctx, docker.VersionArgs()); err != nil {
			return errors.E(op, err)
		}
		return nil
	}
	if err := docker.CheckVersion(r.ctx, runner); err != nil {
		return errors.E(op, err)
	}
	pr := printer.FromContextOrDie(r.ctx)
	pr.Printf("Docker client is compatible.\n")
	return nil
}
